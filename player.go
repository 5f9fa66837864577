package midival

import (
	"errors"

	"github.com/sirupsen/logrus"
)

// SampleRate is the core's fixed output rate (§6). It is a compile-time
// constant the way the rest of the ambient GM-synth corpus treats it.
const SampleRate = 48000

var (
	// ErrNoSequence is returned by PlaySequence when seq is nil.
	ErrNoSequence = errors.New("midival: sequence is nil")
)

// Player is the top-level mutable state (§3): the bound Bank and Sequence,
// the 16 channels, the 255-voice pool, and the tick clock. It is created
// once with NewPlayer and reused across PlaySequence calls.
//
// Concurrency: a Player is NOT safe for concurrent use. The control API
// (PlaySequence, Reset, LoadBank, ...) must only be called while the audio
// device is paused or not yet started (§5); GetAudio is the only method
// meant to run on the audio callback thread.
type Player struct {
	bank Bank
	seq  *Sequence
	pool *voicePool

	channels [16]channel

	current       int // index of the next undispatched event in seq.Events
	tickLength    int64
	samplesToTick int64
	ticksToEvent  int64
	done          bool

	mute uint16 // bitmask of muted channels, bit N = channel N (supplemented feature)

	clipCount    uint64
	droppedNotes uint64

	log *logrus.Logger
}

// PlayerOption configures a Player at construction time.
type PlayerOption func(*Player)

// WithLogger installs a diagnostic logger used for clamp warnings (§7). If
// omitted, a logger with output discarded is used — the core never requires
// logging to function correctly.
func WithLogger(log *logrus.Logger) PlayerOption {
	return func(p *Player) { p.log = log }
}

// NewPlayer initializes the voice pool and an empty bank (§6 "new_player").
// The lookup tables are already built by the package's init().
func NewPlayer(opts ...PlayerOption) *Player {
	p := &Player{
		pool: newVoicePool(),
		done: true,
	}
	for i := range p.channels {
		p.channels[i].reset()
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.log == nil {
		p.log = logrus.New()
		p.log.SetOutput(discardWriter{})
	}
	return p
}

type discardWriter struct{}

func (discardWriter) Write(b []byte) (int, error) { return len(b), nil }

// Reset clears channel state and the voice pool (§6 "reset_player"). It does
// not touch the bound Bank or Sequence.
func (p *Player) Reset() {
	p.pool.reset()
	for i := range p.channels {
		p.channels[i].reset()
	}
}

// LoadBank installs b as the current instrument bank. Equivalent to the
// control-API trio load_config/load_patch/load_drum (§6): here the bank is
// built up front by the bankfile loader and installed in one transactional
// step.
func (p *Player) LoadBank(b Bank) {
	p.bank = b
}

// PlaySequence binds seq and arms the tick clock (§6 "play_sequence").
// Channel state is intentionally NOT reset here — see spec Open Questions;
// callers wanting a clean slate must call Reset first.
func (p *Player) PlaySequence(seq *Sequence) error {
	if seq == nil {
		return ErrNoSequence
	}
	p.seq = seq
	p.current = 0
	p.done = len(seq.Events) == 0
	p.tickLength = 1
	p.samplesToTick = 0
	p.ticksToEvent = 0
	return nil
}

// CurrentlyPlaying reports whether a sequence is bound and not yet
// exhausted (§6).
func (p *Player) CurrentlyPlaying() bool {
	return p.seq != nil && !p.done
}

// FastForwardToNote drains events up to (but not through) the next NoteOn,
// resetting the clock so rendering resumes there (§4.E "Fast-forward").
func (p *Player) FastForwardToNote() {
	if p.seq == nil {
		return
	}
	for p.current < len(p.seq.Events) {
		ev := p.seq.Events[p.current].Event
		if ev.Type == EventNoteOn && ev.Param2 != 0 {
			break
		}
		p.dispatch(ev)
		p.current++
	}
	if p.current >= len(p.seq.Events) {
		p.done = true
	}
	p.samplesToTick = 0
	p.ticksToEvent = 0
}

// Close tears down the Player (§6 "free_player"). Since the core allocates
// nothing beyond its own fields there is no resource to release; Close
// exists so callers have a single, symmetric teardown point and a place to
// read final stats.
func (p *Player) Close() {
	p.seq = nil
	p.done = true
}

// Stats reports the clip and voice-drop counters for a post-mortem report
// on teardown (§7) — neither condition is an error.
type Stats struct {
	ClipCount    uint64
	DroppedNotes uint64
}

func (p *Player) Stats() Stats {
	return Stats{ClipCount: p.clipCount, DroppedNotes: p.droppedNotes}
}

// SetMute sets or clears the mute bit for channel ch (supplemented feature,
// grounded on modplayer.Player.Mute).
func (p *Player) SetMute(ch int, muted bool) {
	if ch < 0 || ch >= len(p.channels) {
		return
	}
	if muted {
		p.mute |= 1 << uint(ch)
	} else {
		p.mute &^= 1 << uint(ch)
	}
}

func (p *Player) isMuted(ch int) bool {
	return p.mute&(1<<uint(ch)) != 0
}

// VoiceSnapshot is a read-only view of one active voice, for status UIs
// (supplemented feature, grounded on modplayer.NoteDataFor). It is never
// produced on the audio path.
type VoiceSnapshot struct {
	Note     uint8
	Velocity uint8
	Phase    int
}

// ActiveVoices returns a snapshot of every voice currently sounding on ch.
func (p *Player) ActiveVoices(ch int) []VoiceSnapshot {
	if ch < 0 || ch >= len(p.channels) {
		return nil
	}
	var out []VoiceSnapshot
	idx := p.channels[ch].voices
	for idx != noneIndex {
		v := &p.pool.voices[idx]
		out = append(out, VoiceSnapshot{Note: v.note, Velocity: v.velocity, Phase: v.envelopePhase})
		idx = v.next
	}
	return out
}

// PlayerPosition reports how far playback has progressed through the bound
// Sequence (supplemented feature, grounded on modplayer.Player.Position).
type PlayerPosition struct {
	EventIndex int
	Done       bool
}

func (p *Player) Position() PlayerPosition {
	return PlayerPosition{EventIndex: p.current, Done: p.done}
}
