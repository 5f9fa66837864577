package midival

// dispatch applies one event to channel/voice state (§4.D). It is called
// from the tick clock's event-drain step and from FastForwardToNote, never
// directly from the mixer loop for mid-sample events.
func (p *Player) dispatch(ev Event) {
	ch := int(ev.Channel) & 0xF
	c := &p.channels[ch]

	switch ev.Type {
	case EventNoteOff:
		p.dispatchNoteOff(ch, c, ev.Param1)
	case EventNoteOn:
		if ev.Param2 == 0 {
			p.dispatchNoteOff(ch, c, ev.Param1)
		} else {
			p.dispatchNoteOn(ch, c, ev.Param1, ev.Param2)
		}
	case EventController:
		p.dispatchController(c, ev.Param1, ev.Param2)
	case EventProgramChange:
		p.pool.silenceChannel(&c.voices)
		c.program = ev.Param1
	case EventPitchBend:
		c.pitchBend = int16((int(ev.Param2)<<7|int(ev.Param1))-8192)
	case EventSetTempo:
		usecPerBeat := int64(ev.Channel)<<16 | int64(ev.Param1)<<8 | int64(ev.Param2)
		p.setTempo(usecPerBeat)
	}
}

// dispatchNoteOff releases the first matching, still-sounding voice on ch
// into its release phase (§4.D). Drums ignore NoteOff entirely (§4.C).
func (p *Player) dispatchNoteOff(ch int, c *channel, note uint8) {
	if c.isDrum(ch) {
		return
	}
	idx := c.voices
	for idx != noneIndex {
		v := &p.pool.voices[idx]
		if v.note == note && v.envelopePhase < 3 {
			v.envelopePhase = 3
			return
		}
		idx = v.next
	}
}

func (p *Player) dispatchNoteOn(ch int, c *channel, note, vel uint8) {
	idx, ok := p.pool.allocate(&c.voices)
	if !ok {
		p.droppedNotes++
		return
	}
	v := &p.pool.voices[idx]
	*v = voice{next: v.next, note: note, velocity: vel}

	var patch *Patch
	if c.isDrum(ch) {
		patch = p.bank.Drums[note]
	} else {
		patch = p.bank.Patches[c.program]
	}
	v.patch = patch

	if patch != nil && patch.FixedNote != nil {
		v.note = *patch.FixedNote
	}

	freq := getFreq(note88(v.note) << 8)
	if patch != nil {
		v.sampleIndex = patch.SelectSample(freq)
	}
}

func (p *Player) dispatchController(c *channel, cc, val uint8) {
	switch cc {
	case ControllerVolume:
		c.volume = val
	case ControllerExpression:
		c.expression = val
	case ControllerPan:
		c.pan = int8(int(val) - 64)
	}
}

// setTempo recomputes samples-per-tick from a freshly decoded
// microseconds-per-beat value (§4.D, §4.E).
func (p *Player) setTempo(usecPerBeat int64) {
	tpb := int64(1)
	if p.seq != nil && p.seq.TicksPerBeat > 0 {
		tpb = int64(p.seq.TicksPerBeat)
	}
	tl := SampleRate * usecPerBeat / 1_000_000 / tpb
	if tl < 1 {
		tl = 1
	}
	p.tickLength = tl
}
