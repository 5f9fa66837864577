package midival

// GetAudio fills out with interleaved 16-bit stereo PCM at SampleRate,
// len(out) must be even (§6 "GetAudio/pull API"). It never allocates and
// never blocks — safe to call from a realtime audio callback.
//
// If no sequence is bound, or the bound sequence has finished, out is
// filled with silence.
func (p *Player) GetAudio(out []int16) {
	for i := 0; i+1 < len(out); i += 2 {
		l, r := p.mixFrame()
		out[i], out[i+1] = l, r
	}
}

// mixFrame advances the clock by one tick and renders every active voice on
// every unmuted channel into a clipped stereo sample pair (§4.G).
//
// The done/no-sequence gate is checked against pre-tick state, matching
// §6's call-entry silence rule: a voice started by an event drained on the
// very tick that exhausts the sequence still renders for this frame. Only
// the next call, with done already true, returns silence.
func (p *Player) mixFrame() (int16, int16) {
	if p.seq == nil || p.done {
		return 0, 0
	}

	p.advanceTick()

	var left, right int64
	for ch := range p.channels {
		if p.isMuted(ch) {
			continue
		}
		p.mixChannel(ch, &left, &right)
	}

	return p.clip(left), p.clip(right)
}

// mixChannel walks channel ch's active-voice list, rendering each voice and
// splicing any that finish this frame back onto the pool's free list. The
// "previous pointer" walk mirrors voicePool.release so deletion mid-walk
// never disturbs the rest of the list (§4.B, §4.G).
func (p *Player) mixChannel(ch int, left, right *int64) {
	c := &p.channels[ch]
	cur := &c.voices
	for *cur != noneIndex {
		idx := *cur
		v := &p.pool.voices[idx]
		l, r, alive := p.renderVoice(ch, c, v)
		if !alive {
			*cur = v.next
			v.next = p.pool.inactive
			p.pool.inactive = idx
			continue
		}
		*left += l
		*right += r
		cur = &v.next
	}
}

const (
	int16Max = 1<<15 - 1
	int16Min = -1 << 15
)

// clip saturates a mixed accumulator to the int16 range, counting every
// sample that actually clipped, so left and right count separately (§4.G, §7).
func (p *Player) clip(v int64) int16 {
	if v > int16Max {
		p.clipCount++
		return int16Max
	}
	if v < int16Min {
		p.clipCount++
		return int16Min
	}
	return int16(v)
}
