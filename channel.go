package midival

// channel is one of the 16 MIDI-style channel controller banks (§3, §4.C).
// Channel 9 (DrumChannel) is percussion by convention: NoteOn selects from
// Bank.Drums by note number instead of Bank.Patches by program.
type channel struct {
	program    uint8
	volume     uint8 // default 127
	expression uint8 // default 127
	pan        int8  // -64..+63, default 0
	pitchBend  int16 // signed 14-bit, default 0

	voices uint8 // head index into the voice pool's active list, noneIndex when empty
}

func (c *channel) reset() {
	*c = channel{
		volume:     127,
		expression: 127,
		voices:     noneIndex,
	}
}

func (c *channel) isDrum(idx int) bool {
	return idx == DrumChannel
}
