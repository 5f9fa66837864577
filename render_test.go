package midival

import "testing"

func newSustainedVoice() *voice {
	return &voice{
		note:          69,
		velocity:      127,
		patch:         testBank.Patches[0],
		envelopePhase: 2,
		envelopeValue: envelopeMax,
	}
}

func TestRenderVoicePanMinSilencesLeft(t *testing.T) {
	p := newTestPlayer()
	c := &channel{volume: 127, expression: 127, pan: -64}
	v := newSustainedVoice()
	v.samplePos = samplePosFromInt(1) // data[1] is nonzero

	// left gain is (64+pan)/64, right gain (64-pan)/64
	left, _, alive := p.renderVoice(0, c, v)
	if !alive {
		t.Fatal("voice died on first render")
	}
	if left != 0 {
		t.Errorf("left = %d, want 0 with pan -64", left)
	}
}

func TestRenderVoicePanMaxLeavesRightAt1Of127(t *testing.T) {
	p := newTestPlayer()
	c := &channel{volume: 127, expression: 127, pan: 63}
	v := newSustainedVoice()
	v.samplePos = samplePosFromInt(1) // data[1] is nonzero

	// left gain is (64+63)/64, right gain (64-63)/64
	left, right, alive := p.renderVoice(0, c, v)
	if !alive {
		t.Fatal("voice died on first render")
	}
	if left == 0 || right != left/127 {
		t.Errorf("left = %d, right = %d, want nonzero left and right = left/127 with pan 63", left, right)
	}
}

func TestRenderVoiceZeroVolumeIsSilent(t *testing.T) {
	p := newTestPlayer()
	c := &channel{volume: 0, expression: 127}
	v := newSustainedVoice()

	left, right, alive := p.renderVoice(0, c, v)
	if !alive {
		t.Fatal("voice died on first render")
	}
	if left != 0 || right != 0 {
		t.Errorf("left=%d right=%d, want 0,0 with channel volume 0", left, right)
	}
}

func TestRenderVoiceReleaseDeletesVoice(t *testing.T) {
	p := newTestPlayer()
	c := &channel{volume: 127, expression: 127}
	v := newSustainedVoice()
	v.envelopePhase = 3 // already released

	_, _, alive := p.renderVoice(0, c, v)
	if alive {
		t.Error("voice with an instant-release envelope should die on the first post-release render")
	}
}

func TestRenderVoiceNonLoopedSampleDeletesAtEnd(t *testing.T) {
	p := newTestPlayer()
	c := &channel{volume: 127, expression: 127}
	v := newSustainedVoice()

	s := &v.patch.Samples[0]
	v.samplePos = samplePosFromInt(len(s.Data) - 1)

	alive := true
	for i := 0; i < 10 && alive; i++ {
		_, _, alive = p.renderVoice(0, c, v)
	}
	if alive {
		t.Error("voice playing past the end of a non-looped sample was never deleted")
	}
}

func TestRenderVoiceLoopWraps(t *testing.T) {
	p := newTestPlayer()
	c := &channel{volume: 127, expression: 127}
	v := newSustainedVoice()
	v.patch = &Patch{Volume: 127, Samples: []Sample{testLoopedSample}}

	s := &v.patch.Samples[0]
	// position one stride before loop_end; next frame must wrap, not delete
	stride := mulDiv64(mulDiv64(uint64(1)<<32, uint64(s.SampleRate), uint64(SampleRate)), uint64(getFreq(69<<8)), uint64(s.RootFreq))
	v.samplePos = samplePosFromInt64(s.LoopEnd) - samplePos(stride)

	for i := 0; i < 5; i++ {
		_, _, alive := p.renderVoice(0, c, v)
		if !alive {
			t.Fatalf("looped voice unexpectedly died on iteration %d", i)
		}
	}
}

func TestRenderFallbackSquareWaveAlwaysAlive(t *testing.T) {
	p := newTestPlayer()
	c := &channel{volume: 127, expression: 127}
	v := &voice{note: 60, velocity: 100}

	for i := 0; i < 1000; i++ {
		_, _, alive := p.renderVoice(0, c, v)
		if !alive {
			t.Fatalf("fallback square-wave voice died on iteration %d, it has no envelope to expire", i)
		}
	}
}
