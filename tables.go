package midival

import "math"

// Process-wide lookup tables, built once in init(). They are read-only after
// that and may be shared freely across Players (component A, §4.A).
var (
	freqs [257]int64  // milliHz, one in-octave window, indexed 0..256
	vols  [128]uint32 // velocity/controller byte -> linear gain, 0..65535
	pows  [1024]int64 // high 10 bits of envValue -> linear amplitude scalar
	sines [1024]int32 // one period of sine, scaled for tremolo math
)

const sineAmplitude = 1 << 14

func init() {
	for i := 0; i <= 256; i++ {
		exp := (float64(i)*12.0/256.0 - 69.0) / 12.0
		freqs[i] = int64(math.Round(440000.0 * math.Pow(2, exp)))
	}

	for i := 0; i < 128; i++ {
		vols[i] = uint32(math.Round(65535.0 * math.Pow(float64(i)/127.0, 1.66096404744)))
	}

	for i := 0; i < 1024; i++ {
		pows[i] = int64(math.Round(65535.0 * math.Pow(float64(i)/1023.0, 2)))
	}

	for i := 0; i < 1024; i++ {
		sines[i] = int32(math.Round(sineAmplitude * math.Sin(2*math.Pi*float64(i)/1024.0)))
	}
}

// getFreq converts an 8.8 fixed-point note number to milliHz by looking up
// the in-octave table and shifting for the octave, mirroring the reference
// synth's bit-shift-against-a-256-entry-table trick instead of a direct
// exponentiation per note.
func getFreq(note note88) int64 {
	n := int64(note)
	if n < 0 {
		n = 0
	}
	octaveIdx := (n / 12) % 256
	octaveShift := uint(n / (12 * 256))
	return freqs[octaveIdx] << octaveShift
}
