package midival

// voicePoolSize is the fixed capacity of the pool (§3, §5). 255 voices are
// addressable by a single byte index; 255 itself is the list-end sentinel.
const voicePoolSize = 255

// noneIndex is the sentinel used for both the free-list and every
// per-channel active-list: "no more voices on this list" (§4.B).
const noneIndex uint8 = 255

// voice is one sounding note's mutable state (§3). It is intrusively
// threaded onto exactly one singly-linked list — either the pool's
// inactive free-list or a channel's active-list — via next.
type voice struct {
	next uint8 // index of next voice on this list, or noneIndex

	note     uint8
	velocity uint8

	patch        *Patch // borrowed; nil selects the fallback square wave
	sampleIndex  int
	backwards    bool
	samplePos    samplePos

	envelopePhase int // 0..5
	envelopeValue envValue

	tremoloSweepPosition uint32
	tremoloPhase         uint32
}

// voicePool is a flat array of voices with an intrusive free-list. No
// allocation ever happens on the audio path: allocate only ever moves an
// index between lists (§4.B, §5).
type voicePool struct {
	voices   [voicePoolSize]voice
	inactive uint8 // free-list head, noneIndex when full
}

func newVoicePool() *voicePool {
	vp := &voicePool{}
	vp.reset()
	return vp
}

// reset threads every voice onto the inactive list, in index order.
func (vp *voicePool) reset() {
	for i := range vp.voices {
		vp.voices[i] = voice{}
		if i == len(vp.voices)-1 {
			vp.voices[i].next = noneIndex
		} else {
			vp.voices[i].next = uint8(i + 1)
		}
	}
	vp.inactive = 0
}

// allocate pops the head of the inactive list and pushes it onto *head,
// returning the voice's index and true, or (0, false) if the pool is full
// (§4.B — callers must silently drop the NoteOn in that case, §7).
func (vp *voicePool) allocate(head *uint8) (uint8, bool) {
	if vp.inactive == noneIndex {
		return 0, false
	}
	idx := vp.inactive
	vp.inactive = vp.voices[idx].next
	vp.voices[idx].next = *head
	*head = idx
	return idx, true
}

// release unlinks the voice at idx from the list rooted at *head (found by
// linear scan, "previous-pointer" style) and pushes it onto inactive. It is
// a no-op if idx is not found on that list.
func (vp *voicePool) release(head *uint8, idx uint8) {
	cur := head
	for *cur != noneIndex {
		if *cur == idx {
			*cur = vp.voices[idx].next
			vp.voices[idx].next = vp.inactive
			vp.inactive = idx
			return
		}
		cur = &vp.voices[*cur].next
	}
}

// silenceChannel splices the whole list rooted at *head onto inactive,
// walking once to its tail to link it in, so it is linear in the length of
// that list (§4.C "ProgramChange").
func (vp *voicePool) silenceChannel(head *uint8) {
	if *head == noneIndex {
		return
	}
	tail := *head
	for vp.voices[tail].next != noneIndex {
		tail = vp.voices[tail].next
	}
	vp.voices[tail].next = vp.inactive
	vp.inactive = *head
	*head = noneIndex
}
