package dsp

import (
	"math"
	"sort"
)

// epsilon added before log conversion so digital silence maps to a deep
// but finite dB value instead of -Inf.
const logEps = 1e-10

// FrameRMS computes root-mean-square energy over fixed-length frames with the
// given hop. A signal shorter than one frame is treated as a single frame.
func FrameRMS(y []float64, frameLength, hopLength int) []float64 {
	if len(y) == 0 {
		return nil
	}
	if len(y) < frameLength {
		return []float64{rms(y)}
	}
	var out []float64
	for start := 0; start+frameLength <= len(y); start += hopLength {
		out = append(out, rms(y[start:start+frameLength]))
	}
	return out
}

func rms(y []float64) float64 {
	var sum float64
	for _, v := range y {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(y)))
}

// ToDB converts linear amplitudes to decibels.
func ToDB(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = 20.0 * math.Log10(v+logEps)
	}
	return out
}

// Percentile returns the p-th percentile (0-100) with linear interpolation
// between closest ranks, matching numpy's default behaviour.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

func Mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Variance is the population variance (divide by N, not N-1).
func Variance(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	m := Mean(values)
	var sum float64
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return sum / float64(len(values))
}

// Round rounds to the given number of decimal places. Metric outputs are
// rounded once, at extraction time, so reports and JSON artifacts agree.
func Round(x float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(x*scale) / scale
}
