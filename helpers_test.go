package midival

import clone "github.com/huandu/go-clone/generic"

// testSample is a tiny, deterministic instrument: full volume immediately
// (envelope phase 0 jumps straight to max), held until NoteOff moves it to
// phase 3, then an instant release. No tremolo, no loop.
var testSample = Sample{
	Data:       []int16{0, 16000, 0, -16000, 0, 16000, 0, -16000},
	HighFreq:   1 << 62,
	SampleRate: SampleRate,
	RootFreq:   440000,

	EnvelopeRates:   [6]int64{envelopeMax, 0, 0, envelopeMax, 0, envelopeMax},
	EnvelopeOffsets: [6]int64{int64(envelopeMax), int64(envelopeMax), int64(envelopeMax), 0, 0, 0},
}

var testLoopedSample = Sample{
	Data:       []int16{0, 16000, 0, -16000},
	HighFreq:   1 << 62,
	SampleRate: SampleRate,
	RootFreq:   440000,
	Loop:       true,
	LoopStart:  0,
	LoopEnd:    4,

	EnvelopeRates:   [6]int64{envelopeMax, 0, 0, envelopeMax, 0, envelopeMax},
	EnvelopeOffsets: [6]int64{int64(envelopeMax), int64(envelopeMax), int64(envelopeMax), 0, 0, 0},
}

var testBank = Bank{
	Patches: [128]*Patch{
		0: {Volume: 127, Samples: []Sample{testSample}},
	},
	Drums: [128]*Patch{
		36: {Volume: 127, Samples: []Sample{testSample}},
	},
}

// newTestPlayer returns a Player loaded with testBank and ready to accept
// PlaySequence, cloning the shared fixture bank so per-test mutation (rare,
// but e.g. envelope tweaks in a single test) can't bleed into other tests.
func newTestPlayer() *Player {
	p := NewPlayer()
	p.LoadBank(clone.Clone(testBank))
	return p
}

// seq builds a Sequence from absolute-tick (time, event) pairs.
func seq(ticksPerBeat int, pairs ...eventAt) *Sequence {
	events := make([]TimedEvent, len(pairs))
	for i, pr := range pairs {
		events[i] = TimedEvent{Time: pr.time, Event: pr.event}
	}
	return &Sequence{Events: events, TicksPerBeat: ticksPerBeat}
}

type eventAt struct {
	time  int64
	event Event
}

func at(time int64, ev Event) eventAt { return eventAt{time: time, event: ev} }

func noteOn(ch int, note, vel uint8) Event {
	return Event{Type: EventNoteOn, Channel: uint8(ch), Param1: note, Param2: vel}
}

func noteOff(ch int, note uint8) Event {
	return Event{Type: EventNoteOff, Channel: uint8(ch), Param1: note}
}

func setTempo(usecPerBeat int64) Event {
	return Event{
		Type:    EventSetTempo,
		Channel: uint8(usecPerBeat >> 16),
		Param1:  uint8(usecPerBeat >> 8),
		Param2:  uint8(usecPerBeat),
	}
}
