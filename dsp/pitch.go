package dsp

import "math"

// PitchTracker estimates a fundamental frequency per analysis frame.
// Unvoiced or unreliable frames are reported as 0; callers must filter
// zeros before computing statistics.
type PitchTracker interface {
	Track(y []float64, sampleRate int) []float64
}

// ACFTracker is a normalized-autocorrelation pitch estimator covering the
// conversational range. It is deliberately plain: subtract DC, autocorrelate
// within the candidate lag window, and accept the best peak only when it
// clears VoicingThreshold relative to the zero-lag energy.
type ACFTracker struct {
	FrameLength      int
	HopLength        int
	MinHz            float64
	MaxHz            float64
	VoicingThreshold float64
}

func NewACFTracker() *ACFTracker {
	return &ACFTracker{
		FrameLength:      1024,
		HopLength:        512,
		MinHz:            75,
		MaxHz:            500,
		VoicingThreshold: 0.30,
	}
}

func (t *ACFTracker) Track(y []float64, sampleRate int) []float64 {
	if len(y) < t.FrameLength {
		return nil
	}

	minLag := int(float64(sampleRate) / t.MaxHz)
	maxLag := int(float64(sampleRate) / t.MinHz)
	if maxLag >= t.FrameLength {
		maxLag = t.FrameLength - 1
	}
	if minLag < 1 {
		minLag = 1
	}

	var out []float64
	frame := make([]float64, t.FrameLength)
	for start := 0; start+t.FrameLength <= len(y); start += t.HopLength {
		copy(frame, y[start:start+t.FrameLength])

		var mean float64
		for _, v := range frame {
			mean += v
		}
		mean /= float64(len(frame))
		var r0 float64
		for i := range frame {
			frame[i] -= mean
			r0 += frame[i] * frame[i]
		}
		if r0 < 1e-12 {
			out = append(out, 0)
			continue
		}

		bestLag, bestCorr := 0, 0.0
		for lag := minLag; lag <= maxLag; lag++ {
			var r float64
			for i := 0; i+lag < len(frame); i++ {
				r += frame[i] * frame[i+lag]
			}
			if r > bestCorr {
				bestCorr = r
				bestLag = lag
			}
		}
		if bestLag == 0 || bestCorr/r0 < t.VoicingThreshold {
			out = append(out, 0)
			continue
		}
		out = append(out, float64(sampleRate)/float64(bestLag))
	}
	return out
}

// Voiced filters a frame-wise pitch track down to positive, finite values.
func Voiced(f0 []float64) []float64 {
	var out []float64
	for _, v := range f0 {
		if v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}
