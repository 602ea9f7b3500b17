package dsp

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

// SpectralCentroids returns the per-frame spectral centroid in Hz: the
// magnitude-weighted mean frequency of each Hann-windowed frame. Frames with
// no spectral energy report 0.
func SpectralCentroids(y []float64, sampleRate, frameLength, hopLength int) []float64 {
	if len(y) == 0 {
		return nil
	}

	win := window.Hann(frameLength)
	frame := make([]float64, frameLength)

	var out []float64
	analyze := func(samples []float64) {
		for i := range frame {
			if i < len(samples) {
				frame[i] = samples[i] * win[i]
			} else {
				frame[i] = 0
			}
		}
		spec := fft.FFTReal(frame)
		binHz := float64(sampleRate) / float64(frameLength)
		var weighted, total float64
		for k := 0; k <= frameLength/2; k++ {
			mag := cmplx.Abs(spec[k])
			weighted += float64(k) * binHz * mag
			total += mag
		}
		if total == 0 {
			out = append(out, 0)
			return
		}
		out = append(out, weighted/total)
	}

	if len(y) < frameLength {
		analyze(y)
		return out
	}
	for start := 0; start+frameLength <= len(y); start += hopLength {
		analyze(y[start : start+frameLength])
	}
	return out
}
