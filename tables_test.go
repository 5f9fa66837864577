package midival

import "testing"

func TestGetFreqConcertA(t *testing.T) {
	if got := getFreq(69 << 8); got != 440000 {
		t.Errorf("getFreq(A4) = %d, want 440000", got)
	}
}

func TestGetFreqOctaveDoubling(t *testing.T) {
	for note := int32(0); note <= 100; note++ {
		low := getFreq(note88(note << 8))
		high := getFreq(note88((note + 12) << 8))
		if high != 2*low {
			t.Errorf("getFreq(%d+12) = %d, want 2*getFreq(%d) = %d", note, high, note, 2*low)
		}
	}
}

func TestVolsTableMonotonic(t *testing.T) {
	for i := 1; i < len(vols); i++ {
		if vols[i] < vols[i-1] {
			t.Fatalf("vols[%d]=%d < vols[%d]=%d, table must be non-decreasing", i, vols[i], i-1, vols[i-1])
		}
	}
	if vols[0] != 0 {
		t.Errorf("vols[0] = %d, want 0", vols[0])
	}
	if vols[127] != 65535 {
		t.Errorf("vols[127] = %d, want 65535", vols[127])
	}
}

func TestPowsTableEndpoints(t *testing.T) {
	if pows[0] != 0 {
		t.Errorf("pows[0] = %d, want 0", pows[0])
	}
	if pows[1023] != 65535 {
		t.Errorf("pows[1023] = %d, want 65535", pows[1023])
	}
}
