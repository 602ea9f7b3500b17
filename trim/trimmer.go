// Package trim removes near-silent spans from a waveform ahead of
// diarization, so downstream acoustic measurement sees mostly speech.
package trim

import (
	"github.com/sirupsen/logrus"

	"github.com/AmeyaChoudhary/VociusAI/config"
	"github.com/AmeyaChoudhary/VociusAI/dsp"
)

type Trimmer struct {
	cfg        config.Trim
	sampleRate int
	log        *logrus.Entry
}

func New(cfg config.Trim, sampleRate int) *Trimmer {
	return &Trimmer{
		cfg:        cfg,
		sampleRate: sampleRate,
		log:        logrus.WithField("stage", "trim"),
	}
}

type frameRun struct {
	first, last int // inclusive frame indices
}

// Trim drops near-silent frame runs and concatenates the surviving speech.
// If nothing clears the voice floor the input is returned unchanged: an
// all-silence recording must never produce an empty waveform.
func (t *Trimmer) Trim(y []float64) []float64 {
	if len(y) == 0 {
		return y
	}

	win := t.sampleRate * t.cfg.FrameMs / 1000
	hop := t.sampleRate * t.cfg.HopMs / 1000
	if win < 1 || hop < 1 {
		return y
	}

	db := dsp.ToDB(dsp.FrameRMS(y, win, hop))
	floor := t.cfg.FloorDb
	if t.cfg.Adaptive {
		// Percentile anchor rather than the max: one loud spike must not
		// raise the floor for the whole clip.
		floor = dsp.Percentile(db, 95) - t.cfg.RelativeDropDb
	}

	runs := speechRuns(db, floor)
	runs = bridgeShortPauses(runs, t.secToFrames(t.cfg.MinPauseSec, hop))
	runs = dropShortRuns(runs, t.secToFrames(t.cfg.MinSpeechSec, hop))

	if len(runs) == 0 {
		t.log.Warn("no voiced frames found, keeping audio unchanged")
		return y
	}

	var out []float64
	for _, r := range runs {
		s := r.first * hop
		// Window tail keeps the trailing part of the last frame, so speech
		// is not clipped mid-word at run boundaries.
		e := r.last*hop + win
		if e > len(y) {
			e = len(y)
		}
		out = append(out, y[s:e]...)
	}

	t.log.WithFields(logrus.Fields{
		"floor_db":   dsp.Round(floor, 1),
		"runs":       len(runs),
		"kept_ratio": dsp.Round(float64(len(out))/float64(len(y)), 2),
	}).Info("silence trimmed")
	return out
}

func (t *Trimmer) secToFrames(sec float64, hop int) int {
	return int(sec * float64(t.sampleRate) / float64(hop))
}

// speechRuns collects contiguous runs of frames above the floor.
func speechRuns(db []float64, floor float64) []frameRun {
	var runs []frameRun
	inRun := false
	var start int
	for i, v := range db {
		if v > floor {
			if !inRun {
				inRun = true
				start = i
			}
			continue
		}
		if inRun {
			runs = append(runs, frameRun{first: start, last: i - 1})
			inRun = false
		}
	}
	if inRun {
		runs = append(runs, frameRun{first: start, last: len(db) - 1})
	}
	return runs
}

// bridgeShortPauses merges runs separated by fewer than maxGap silent frames,
// preserving natural cadence instead of producing choppy output.
func bridgeShortPauses(runs []frameRun, maxGap int) []frameRun {
	if len(runs) == 0 {
		return runs
	}
	merged := []frameRun{runs[0]}
	for _, r := range runs[1:] {
		last := &merged[len(merged)-1]
		if r.first-last.last-1 < maxGap {
			last.last = r.last
		} else {
			merged = append(merged, r)
		}
	}
	return merged
}

func dropShortRuns(runs []frameRun, minFrames int) []frameRun {
	var kept []frameRun
	for _, r := range runs {
		if r.last-r.first+1 >= minFrames {
			kept = append(kept, r)
		}
	}
	return kept
}
