package midival

// EventType is the closed set of event payloads the core understands (§3).
// Types outside this set are valid in a Sequence (the loader may carry
// metadata, lyrics, etc.) but are ignored by the dispatcher.
type EventType byte

const (
	EventIgnored EventType = iota
	EventNoteOff
	EventNoteOn
	EventController
	EventProgramChange
	EventPitchBend
	EventSetTempo
)

// Controller numbers the dispatcher understands. Others are ignored (§4.D).
const (
	ControllerVolume    = 7
	ControllerPan       = 10
	ControllerExpression = 11
)

// Event is one timed payload in a Sequence: {type, channel, param1, param2}.
// For EventSetTempo the Channel field is repurposed as the high byte of the
// packed microseconds-per-beat value (§3).
type Event struct {
	Type    EventType
	Channel uint8
	Param1  uint8
	Param2  uint8
}

// TimedEvent pairs an Event with its position on the tick grid. Time is an
// absolute tick: the Tick Clock takes `current.Time - previous.Time` as the
// gap between consecutive events, which is the right gap only for absolute
// times (§6).
type TimedEvent struct {
	Time  int64
	Event Event
}

// Sequence is the read-only input consumed by the core (§3). MIDI file
// parsing that produces a Sequence is an external collaborator; see the
// midifile package.
type Sequence struct {
	Events       []TimedEvent
	TicksPerBeat int
}
