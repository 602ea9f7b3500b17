// Package feature computes the per-interval acoustic statistics the delivery
// classifier runs on: loudness, pitch variability, spectral variation, and
// pause structure.
package feature

import (
	"fmt"

	"github.com/AmeyaChoudhary/VociusAI/config"
	"github.com/AmeyaChoudhary/VociusAI/dsp"
	"github.com/AmeyaChoudhary/VociusAI/segment"
)

// Vector is one interval's measurement. PitchVariance is nil when no voiced
// frames exist; zero would be indistinguishable from a perfectly flat voice.
type Vector struct {
	Speaker          string   `json:"speaker"`
	Start            float64  `json:"start"`
	End              float64  `json:"end"`
	MeanLoudnessDb   float64  `json:"mean_db"`
	DynamicRangeDb   float64  `json:"dynamic_range"`
	PitchVariance    *float64 `json:"pitch_var"`
	CentroidVariance float64  `json:"centroid_var"`
	AvgPauseSec      float64  `json:"avg_pause"`
	SpeechRatio      float64  `json:"speech_ratio"`
}

type Extractor struct {
	audio config.Audio
	pause config.Pause
	pitch dsp.PitchTracker
}

func NewExtractor(audio config.Audio, pause config.Pause, pitch dsp.PitchTracker) *Extractor {
	return &Extractor{audio: audio, pause: pause, pitch: pitch}
}

// Extract measures one clip. It is a pure function of the clip samples, safe
// to run concurrently across intervals. A missing pitch track is recorded as
// nil, not an error; an unusable clip is an error and fails the run.
func (e *Extractor) Extract(clip []float64, iv segment.Interval) (Vector, error) {
	if len(clip) == 0 {
		return Vector{}, fmt.Errorf("interval %s %.1f-%.1f: empty clip", iv.Speaker, iv.Start, iv.End)
	}

	sr := e.audio.SampleRate
	frame, hop := e.audio.FrameLength, e.audio.HopLength

	db := dsp.ToDB(dsp.FrameRMS(clip, frame, hop))
	meanDb := dsp.Mean(db)
	// Percentile spread instead of peak-to-trough: single-frame outliers
	// must not dominate the dynamic range.
	dynRange := dsp.Percentile(db, 90) - dsp.Percentile(db, 10)

	var pitchVar *float64
	if voiced := dsp.Voiced(e.pitch.Track(clip, sr)); len(voiced) > 0 {
		v := dsp.Round(dsp.Variance(voiced), 1)
		pitchVar = &v
	}

	centroidVar := dsp.Variance(dsp.SpectralCentroids(clip, sr, frame, hop))

	avgPause, speechRatio := e.pauseStructure(clip, db, iv.Duration())

	return Vector{
		Speaker:          iv.Speaker,
		Start:            iv.Start,
		End:              iv.End,
		MeanLoudnessDb:   dsp.Round(meanDb, 1),
		DynamicRangeDb:   dsp.Round(dynRange, 1),
		PitchVariance:    pitchVar,
		CentroidVariance: dsp.Round(centroidVar, 0),
		AvgPauseSec:      dsp.Round(avgPause, 2),
		SpeechRatio:      dsp.Round(speechRatio, 2),
	}, nil
}

// pauseStructure splits the clip into speech and silence runs at a looser
// threshold than the global trimmer (relative to the clip's own loudest
// frame) and derives average pause length and speech ratio.
func (e *Extractor) pauseStructure(clip, db []float64, totalSec float64) (avgPause, speechRatio float64) {
	if totalSec <= 0 || len(db) == 0 {
		return 0, 0
	}
	peak := db[0]
	for _, v := range db {
		if v > peak {
			peak = v
		}
	}
	floor := peak - e.pause.DropDb

	sr := e.audio.SampleRate
	frame, hop := e.audio.FrameLength, e.audio.HopLength

	var speechSamples, numRuns, prevEnd int
	inRun := false
	var runStart int
	flush := func(first, last int) {
		s := first * hop
		// The window tail of the previous run may reach past this run's
		// start; clamp so bridged samples are never counted twice.
		if s < prevEnd {
			s = prevEnd
		}
		t := last*hop + frame
		if t > len(clip) {
			t = len(clip)
		}
		if t > s {
			speechSamples += t - s
			prevEnd = t
		}
		numRuns++
	}
	for i, v := range db {
		if v > floor {
			if !inRun {
				inRun = true
				runStart = i
			}
		} else if inRun {
			flush(runStart, i-1)
			inRun = false
		}
	}
	if inRun {
		flush(runStart, len(db)-1)
	}

	speechSec := float64(speechSamples) / float64(sr)
	numGaps := numRuns - 1
	if numGaps < 1 {
		numGaps = 1
	}
	pauseSec := totalSec - speechSec
	if pauseSec < 0 {
		pauseSec = 0
	}
	ratio := speechSec / totalSec
	if ratio > 1 {
		ratio = 1
	}
	return pauseSec / float64(numGaps), ratio
}
