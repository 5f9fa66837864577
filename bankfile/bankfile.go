// Package bankfile loads a midival.Bank from a YAML manifest plus the mono
// 16-bit WAV files it references. It is the "Patch bank loading" external
// collaborator (§1) — the core never touches a filesystem.
package bankfile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-audio/wav"
	"gopkg.in/yaml.v3"

	"github.com/quietfanatic/midival"
)

// manifest is the on-disk YAML shape. Field names match the YAML keys a
// bank author writes by hand, kept separate from midival.Patch/Sample so
// the wire format can evolve without touching the core's types.
type manifest struct {
	Patches map[int]*patchEntry `yaml:"patches"`
	Drums   map[int]*patchEntry `yaml:"drums"`
}

type patchEntry struct {
	FixedNote    *uint8         `yaml:"fixed_note,omitempty"`
	KeepEnvelope bool           `yaml:"keep_envelope,omitempty"`
	KeepLoop     bool           `yaml:"keep_loop,omitempty"`
	Volume       uint8          `yaml:"volume"`
	Samples      []sampleEntry  `yaml:"samples"`
}

type sampleEntry struct {
	File       string `yaml:"file"`
	HighFreq   int64  `yaml:"high_freq"`
	RootFreq   int64  `yaml:"root_freq"`
	Loop       bool   `yaml:"loop,omitempty"`
	PingPong   bool   `yaml:"ping_pong,omitempty"`
	LoopStart  int64  `yaml:"loop_start,omitempty"`
	LoopEnd    int64  `yaml:"loop_end,omitempty"`

	EnvelopeRates   [6]int64         `yaml:"envelope_rates"`
	EnvelopeOffsets [6]int64         `yaml:"envelope_offsets"` // raw envValue domain, [0, 1023<<20]

	TremoloSweepIncrement uint32 `yaml:"tremolo_sweep_increment,omitempty"`
	TremoloPhaseIncrement uint32 `yaml:"tremolo_phase_increment,omitempty"`
	TremoloDepth          int32  `yaml:"tremolo_depth,omitempty"`
}

// Load reads the manifest at path and every WAV it references, resolving
// relative sample paths against the manifest's own directory.
func Load(path string) (midival.Bank, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return midival.Bank{}, fmt.Errorf("bankfile: read manifest: %w", err)
	}

	var m manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return midival.Bank{}, fmt.Errorf("bankfile: parse manifest: %w", err)
	}

	dir := filepath.Dir(path)

	var bank midival.Bank
	for i, pe := range m.Patches {
		if i < 0 || i >= len(bank.Patches) {
			return midival.Bank{}, fmt.Errorf("bankfile: patch index %d out of range", i)
		}
		p, err := buildPatch(dir, pe)
		if err != nil {
			return midival.Bank{}, fmt.Errorf("bankfile: patch %d: %w", i, err)
		}
		bank.Patches[i] = p
	}
	for i, pe := range m.Drums {
		if i < 0 || i >= len(bank.Drums) {
			return midival.Bank{}, fmt.Errorf("bankfile: drum index %d out of range", i)
		}
		p, err := buildPatch(dir, pe)
		if err != nil {
			return midival.Bank{}, fmt.Errorf("bankfile: drum %d: %w", i, err)
		}
		bank.Drums[i] = p
	}

	return bank, nil
}

func buildPatch(dir string, pe *patchEntry) (*midival.Patch, error) {
	p := &midival.Patch{
		FixedNote:    pe.FixedNote,
		KeepEnvelope: pe.KeepEnvelope,
		KeepLoop:     pe.KeepLoop,
		Volume:       pe.Volume,
		Samples:      make([]midival.Sample, len(pe.Samples)),
	}
	for i, se := range pe.Samples {
		s, err := loadSample(dir, se)
		if err != nil {
			return nil, fmt.Errorf("sample %d (%s): %w", i, se.File, err)
		}
		p.Samples[i] = s
	}
	return p, nil
}

func loadSample(dir string, se sampleEntry) (midival.Sample, error) {
	f, err := os.Open(filepath.Join(dir, se.File))
	if err != nil {
		return midival.Sample{}, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return midival.Sample{}, fmt.Errorf("decode wav: %w", err)
	}
	if buf.Format.NumChannels != 1 {
		return midival.Sample{}, fmt.Errorf("sample must be mono, got %d channels", buf.Format.NumChannels)
	}

	data := make([]int16, len(buf.Data))
	for i, v := range buf.Data {
		data[i] = int16(v)
	}

	return midival.Sample{
		Data:                  data,
		HighFreq:              se.HighFreq,
		SampleRate:            buf.Format.SampleRate,
		RootFreq:              se.RootFreq,
		Loop:                  se.Loop,
		PingPong:              se.PingPong,
		LoopStart:             se.LoopStart,
		LoopEnd:               se.LoopEnd,
		EnvelopeRates:         se.EnvelopeRates,
		EnvelopeOffsets:       se.EnvelopeOffsets,
		TremoloSweepIncrement: se.TremoloSweepIncrement,
		TremoloPhaseIncrement: se.TremoloPhaseIncrement,
		TremoloDepth:          se.TremoloDepth,
	}, nil
}
