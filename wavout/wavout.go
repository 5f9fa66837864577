// Package wavout writes interleaved 16-bit stereo PCM to a streaming WAVE
// file, for non-realtime rendering (cmd/render). Adapted from the teacher's
// hand-rolled writer: the header's size fields are backpatched on Finish so
// callers never need to know the total sample count up front.
package wavout

import (
	"encoding/binary"
	"io"
)

const pcmFormat = 1

// Writer streams PCM frames to ws, which must support Seek so the RIFF and
// data chunk sizes can be backpatched by Finish.
type Writer struct {
	ws io.WriteSeeker
}

type waveFormat struct {
	AudioFormat   uint16
	Channels      uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
}

// NewWriter writes the RIFF/WAVE header (with zeroed size fields) and
// returns a Writer ready for WriteFrame.
func NewWriter(ws io.WriteSeeker, sampleRate int) (*Writer, error) {
	w := &Writer{ws: ws}

	if _, err := ws.Write([]byte("RIFF")); err != nil {
		return nil, err
	}
	if err := binary.Write(ws, binary.LittleEndian, int32(0)); err != nil {
		return nil, err
	}
	if _, err := ws.Write([]byte("WAVE")); err != nil {
		return nil, err
	}

	if _, err := ws.Write([]byte("fmt ")); err != nil {
		return nil, err
	}
	if err := binary.Write(ws, binary.LittleEndian, int32(16)); err != nil {
		return nil, err
	}
	format := waveFormat{
		AudioFormat:   pcmFormat,
		Channels:      2,
		SampleRate:    uint32(sampleRate),
		ByteRate:      uint32(sampleRate) * 2 * 2,
		BlockAlign:    2 * 2,
		BitsPerSample: 16,
	}
	if err := binary.Write(ws, binary.LittleEndian, format); err != nil {
		return nil, err
	}

	if _, err := ws.Write([]byte("data")); err != nil {
		return nil, err
	}
	if err := binary.Write(ws, binary.LittleEndian, int32(0)); err != nil {
		return nil, err
	}

	return w, nil
}

// WriteFrame appends interleaved left/right int16 samples, as produced
// directly by midival.Player.GetAudio.
func (w *Writer) WriteFrame(interleaved []int16) error {
	return binary.Write(w.ws, binary.LittleEndian, interleaved)
}

// Finish backpatches the RIFF and data chunk sizes now that the total
// length is known, and returns the final file length.
func (w *Writer) Finish() (int64, error) {
	total, err := w.ws.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, err
	}

	if _, err := w.ws.Seek(4, io.SeekStart); err != nil {
		return 0, err
	}
	if err := binary.Write(w.ws, binary.LittleEndian, int32(total-8)); err != nil {
		return 0, err
	}

	if _, err := w.ws.Seek(40, io.SeekStart); err != nil {
		return 0, err
	}
	if err := binary.Write(w.ws, binary.LittleEndian, int32(total-44)); err != nil {
		return 0, err
	}

	return total, nil
}
