package dsp

import (
	"math"
	"testing"
)

func sine(freq, amp float64, sec float64, sampleRate int) []float64 {
	y := make([]float64, int(sec*float64(sampleRate)))
	for i := range y {
		y[i] = amp * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
	}
	return y
}

func TestACFTrackerPureTone(t *testing.T) {
	const sr = 16000
	y := sine(200, 0.5, 1, sr) // period is exactly 80 samples

	f0 := NewACFTracker().Track(y, sr)
	voiced := Voiced(f0)
	if len(voiced) == 0 {
		t.Fatal("no voiced frames detected on a pure tone")
	}
	for _, v := range voiced {
		if math.Abs(v-200) > 10 {
			t.Errorf("pitch estimate %v Hz, want ~200", v)
		}
	}
}

func TestACFTrackerSilence(t *testing.T) {
	const sr = 16000
	f0 := NewACFTracker().Track(make([]float64, sr), sr)
	if len(Voiced(f0)) != 0 {
		t.Errorf("silence produced voiced frames: %v", f0)
	}
}

func TestACFTrackerShortInput(t *testing.T) {
	if got := NewACFTracker().Track(make([]float64, 100), 16000); got != nil {
		t.Errorf("input shorter than a frame returned %v, want nil", got)
	}
}

func TestVoicedFiltersNonPositive(t *testing.T) {
	in := []float64{0, 120, 0, math.Inf(1), 180, math.NaN(), 0}
	got := Voiced(in)
	if len(got) != 2 || got[0] != 120 || got[1] != 180 {
		t.Errorf("Voiced(%v) = %v", in, got)
	}
}

func TestSpectralCentroidOfTone(t *testing.T) {
	const sr = 16000
	// 1000 Hz lands exactly on a bin at frameLength 2048, so the centroid of
	// the windowed spectrum sits at the tone frequency.
	y := sine(1000, 0.5, 1, sr)
	cents := SpectralCentroids(y, sr, 2048, 512)
	if len(cents) == 0 {
		t.Fatal("no centroid frames")
	}
	for _, c := range cents {
		if math.Abs(c-1000) > 60 {
			t.Errorf("centroid %v Hz, want ~1000", c)
		}
	}
}

func TestSpectralCentroidSilence(t *testing.T) {
	cents := SpectralCentroids(make([]float64, 4096), 16000, 2048, 512)
	for _, c := range cents {
		if c != 0 {
			t.Errorf("silence centroid = %v, want 0", c)
		}
	}
}

func TestSpectralCentroidHigherToneMovesUp(t *testing.T) {
	const sr = 16000
	lo := SpectralCentroids(sine(500, 0.5, 0.5, sr), sr, 2048, 512)
	hi := SpectralCentroids(sine(3000, 0.5, 0.5, sr), sr, 2048, 512)
	if Mean(lo) >= Mean(hi) {
		t.Errorf("centroid ordering wrong: lo %v hi %v", Mean(lo), Mean(hi))
	}
}
