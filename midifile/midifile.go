// Package midifile parses Standard MIDI Files into a midival.Sequence. It is
// the "MIDI file parsing" external collaborator the core engine never does
// itself (§1): the core only ever consumes the Sequence/Event wire contract.
package midifile

import (
	"bytes"
	"fmt"
	"sort"

	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/quietfanatic/midival"
)

// defaultTicksPerBeat is used when a file somehow reports zero resolution;
// midi.v2 never does this for a well-formed file, but the core's tick clock
// divides by TicksPerBeat so a safe floor is cheap insurance in a parser
// that otherwise trusts its input.
const defaultTicksPerBeat = 480

// Load parses raw Standard MIDI File bytes into a Sequence. All tracks are
// merged onto one absolute tick timeline (format 1 files are multi-track by
// convention; format 0 files are already single-track).
func Load(data []byte) (*midival.Sequence, error) {
	s, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("midifile: parse: %w", err)
	}

	tpb := defaultTicksPerBeat
	if mt, ok := s.TimeFormat.(smf.MetricTicks); ok && mt.Resolution() > 0 {
		tpb = int(mt.Resolution())
	}

	var events []midival.TimedEvent
	for _, track := range s.Tracks {
		var tick int64
		for _, ev := range track {
			tick += int64(ev.Delta)
			if te, ok := convertMessage(tick, ev.Message); ok {
				events = append(events, te)
			}
		}
	}

	sortByTime(events)

	return &midival.Sequence{Events: events, TicksPerBeat: tpb}, nil
}

// convertMessage translates one raw SMF message into the core's Event
// shape, following the same channel-voice subset the dispatcher
// understands (§4.D). Messages outside that subset are dropped here rather
// than carried as EventIgnored — the core has no use for them and the
// loader is the right layer to filter.
func convertMessage(tick int64, msg smf.Message) (midival.TimedEvent, bool) {
	var (
		channel, key, velocity, controller, value, program uint8
		relPitchbend                                        int16
		bpm                                                 float64
	)

	switch {
	case msg.GetNoteOn(&channel, &key, &velocity):
		return te(tick, midival.EventNoteOn, channel, key, velocity), true
	case msg.GetNoteOff(&channel, &key, &velocity):
		return te(tick, midival.EventNoteOff, channel, key, velocity), true
	case msg.GetControlChange(&channel, &controller, &value):
		return te(tick, midival.EventController, channel, controller, value), true
	case msg.GetProgramChange(&channel, &program):
		return te(tick, midival.EventProgramChange, channel, program, 0), true
	case msg.GetPitchBend(&channel, &relPitchbend, nil):
		abs := uint16(int32(relPitchbend) + 8192)
		return te(tick, midival.EventPitchBend, channel, uint8(abs), uint8(abs>>7)), true
	case msg.GetMetaTempo(&bpm):
		usecPerBeat := int64(60_000_000.0 / bpm)

		return midival.TimedEvent{
			Time: tick,
			Event: midival.Event{
				Type:    midival.EventSetTempo,
				Channel: uint8(usecPerBeat >> 16),
				Param1:  uint8(usecPerBeat >> 8),
				Param2:  uint8(usecPerBeat),
			},
		}, true
	}

	return midival.TimedEvent{}, false
}

func te(tick int64, typ midival.EventType, channel, p1, p2 uint8) midival.TimedEvent {
	return midival.TimedEvent{
		Time:  tick,
		Event: midival.Event{Type: typ, Channel: channel & 0xF, Param1: p1, Param2: p2},
	}
}

// sortByTime stable-sorts merged multi-track events onto one timeline. Ties
// keep their original (track, in-track) order so e.g. a ProgramChange
// placed just before a NoteOn in the source file stays ordered correctly.
func sortByTime(events []midival.TimedEvent) {
	sort.SliceStable(events, func(i, j int) bool { return events[i].Time < events[j].Time })
}
