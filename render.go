package midival

import "math/bits"

// mulDiv64 computes a*b/c without intermediate overflow by widening the
// multiply to 128 bits (math/bits.Mul64/Div64) before dividing back down.
// This is how the resample stride math stays exact 64-bit fixed point the
// way the reference synth's native 64-bit multiplies do (§9 "the 64-bit
// multiplies in the resample and loop math must be preserved verbatim").
func mulDiv64(a, b, c uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	q, _ := bits.Div64(hi, lo, c)
	return q
}

// deletedPos is a sentinel position for a voice that has run off the end of
// a non-looped sample (§4.F step 5). advanceSamplePos does not return it: it
// reports that case through its deleted result, with position 0.
const deletedPos samplePos = ^samplePos(0)

// renderVoice advances v by one output sample and returns its panned
// contribution. alive is false when the voice must be released this frame.
func (p *Player) renderVoice(chIdx int, c *channel, v *voice) (left, right int64, alive bool) {
	if v.patch == nil {
		return p.renderFallback(c, v)
	}

	s := &v.patch.Samples[v.sampleIndex]
	drum := c.isDrum(chIdx)

	if drum && !v.patch.KeepEnvelope {
		v.envelopeValue = envelopeMax
	} else if !p.stepEnvelope(v, s) {
		return 0, 0, false
	}

	tremoloVol := p.stepTremolo(v, s)

	freq := getFreq(note88(v.note)<<8 + note88(int32(c.pitchBend)/16))
	stride := mulDiv64(mulDiv64(uint64(1)<<32, uint64(s.SampleRate), uint64(SampleRate)), uint64(freq), uint64(s.RootFreq))

	samp := interpolate(s.Data, v.samplePos)

	looped := s.Loop && !(drum && !v.patch.KeepLoop)
	next, backwards, deleted := advanceSamplePos(v.samplePos, samplePos(stride), v.backwards, looped, s)
	if deleted {
		return 0, 0, false
	}
	v.samplePos, v.backwards = next, backwards

	envVol := pows[v.envelopeValue>>20]
	vol := int64(v.patch.Volume) * 128
	vol = vol * int64(vols[c.volume]) / 65535
	vol = vol * int64(vols[c.expression]) / 65535
	vol = vol * int64(vols[v.velocity]) / 65535
	vol = vol * envVol / 65535
	vol += vol * tremoloVol / 2_000_000

	val := (samp >> 32) * vol / 65535

	left = val * (64 + int64(c.pan)) / 64
	right = val * (64 - int64(c.pan)) / 64
	return left, right, true
}

// advanceSamplePos steps pos by stride and applies loop wrap, ping-pong
// reflection, or non-loop end-of-data deletion (§4.F step 5).
func advanceSamplePos(pos, stride samplePos, backwards, looped bool, s *Sample) (next samplePos, nextBackwards bool, deleted bool) {
	if backwards {
		next = pos - stride
	} else {
		next = pos + stride
	}

	if !looped {
		dataEnd := samplePosFromInt(len(s.Data))
		if next >= dataEnd-1 {
			return 0, backwards, true
		}
		return next, backwards, false
	}

	loopStart := samplePosFromInt64(s.LoopStart)
	loopEnd := samplePosFromInt64(s.LoopEnd)

	if !backwards && next >= loopEnd {
		if s.PingPong {
			return 2*loopEnd - next, true, false
		}
		return next - (loopEnd - loopStart), false, false
	}
	if backwards && next <= loopStart {
		return 2*loopStart - next, false, false
	}
	return next, backwards, false
}

func samplePosFromInt64(i int64) samplePos { return samplePos(uint64(i) << 32) }

// interpolate linearly blends the two samples bracketing pos using the
// position's low 32 bits as the fractional weight (§4.F step 6).
func interpolate(data []int16, pos samplePos) int64 {
	i := pos.int()
	frac := int64(pos.frac())
	a := int64(data[i])
	b := a
	if i+1 < int64(len(data)) {
		b = int64(data[i+1])
	}
	return a*(int64(1)<<32-frac) + b*frac
}

// stepEnvelope advances v's six-stage envelope by one sample (§4.F step 2).
// It returns false when the voice must be deleted this frame.
func (p *Player) stepEnvelope(v *voice, s *Sample) bool {
	rate := envValue(s.EnvelopeRates[v.envelopePhase])
	target := envValue(s.EnvelopeOffsets[v.envelopePhase])

	if target > v.envelopeValue {
		next := v.envelopeValue + rate
		if next >= target {
			v.envelopeValue = target
			if v.envelopePhase == 5 {
				return false
			}
			if v.envelopePhase != 2 {
				v.envelopePhase++
			}
		} else {
			v.envelopeValue = next
		}
	} else {
		next := v.envelopeValue - rate
		if next <= target {
			v.envelopeValue = target
			if v.envelopePhase == 5 || target == 0 {
				return false
			}
			if v.envelopePhase != 2 {
				v.envelopePhase++
			}
		} else {
			v.envelopeValue = next
		}
	}

	if clamped, did := clampEnv(v.envelopeValue); did {
		v.envelopeValue = clamped
		if p.log != nil {
			p.log.Warnf("midival: envelope value clamped for note %d", v.note)
		}
	}
	return true
}

// stepTremolo advances the sweep and phase accumulators and returns the
// tremolo volume adjustment scaled by 1e6 (§4.F step 3).
func (p *Player) stepTremolo(v *voice, s *Sample) int64 {
	v.tremoloSweepPosition += s.TremoloSweepIncrement
	if v.tremoloSweepPosition > 1<<16 {
		v.tremoloSweepPosition = 1 << 16
	}
	depth := (int64(s.TremoloDepth) << 7) * int64(v.tremoloSweepPosition)
	v.tremoloPhase += s.TremoloPhaseIncrement
	sine := int64(sines[(v.tremoloPhase>>5)%1024])
	return sine * depth * 38 / (1 << 17)
}

// renderFallback produces a bare square wave for voices with no bound patch,
// e.g. a program with no matching Patch entry (§4.F "Fallback (no patch)").
func (p *Player) renderFallback(c *channel, v *voice) (left, right int64, alive bool) {
	freq := getFreq(note88(v.note)<<8 + note88(int32(c.pitchBend)/16))

	sign := int64(1)
	if v.samplePos < samplePos(1)<<31 {
		sign = -1
	}

	amp := int64(v.velocity) * int64(vols[c.volume]) / 65535 * int64(vols[c.expression]) / 65535
	val := sign * amp * 64

	left = val * (64 + int64(c.pan)) / 64
	right = val * (64 - int64(c.pan)) / 64

	step := mulDiv64(mulDiv64(uint64(1)<<32, uint64(freq), 1000), 1, uint64(SampleRate))
	v.samplePos += samplePos(step)

	return left, right, true
}
