package segment

import (
	"errors"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/AmeyaChoudhary/VociusAI/config"
)

// ErrInsufficientData means no intervals survived the merge/filter
// thresholds. Callers must stop before feature extraction and report "no
// analyzable segments" instead of an empty metrics report.
var ErrInsufficientData = errors.New("no analyzable segments after filtering")

type Processor struct {
	cfg config.Segments
	log *logrus.Entry
}

func NewProcessor(cfg config.Segments) *Processor {
	return &Processor{cfg: cfg, log: logrus.WithField("stage", "segments")}
}

// Result carries the surviving intervals at each pipeline stage so they can
// be persisted for auditing and reproducibility.
type Result struct {
	Merged      []Interval
	Selected    []Interval
	TopSpeakers []string
}

// Process runs the full post-processing chain over raw diarization output:
// sort, drop sub-turn noise, merge adjacent same-speaker turns, drop short
// merged turns, rank speakers by talk time, select representative intervals.
func (p *Processor) Process(raw []Interval) (*Result, error) {
	ivs := make([]Interval, len(raw))
	copy(ivs, raw)
	SortByStart(ivs)

	ivs = DropShort(ivs, p.cfg.MinTurnSec)
	merged := MergeAdjacent(ivs, p.cfg.MaxMergeGapSec)
	merged = DropShort(merged, p.cfg.MinMergedSec)
	if len(merged) == 0 {
		return nil, ErrInsufficientData
	}

	top := RankSpeakers(merged, p.cfg.TopSpeakers)
	selected := SelectLongest(merged, top, p.cfg.PerSpeaker)

	p.log.WithFields(logrus.Fields{
		"raw":      len(raw),
		"merged":   len(merged),
		"selected": len(selected),
		"speakers": len(top),
	}).Info("segments processed")

	return &Result{Merged: merged, Selected: selected, TopSpeakers: top}, nil
}

// DropShort removes intervals shorter than minSec. Very short "turns" are
// rarely real speaker changes.
func DropShort(ivs []Interval, minSec float64) []Interval {
	var kept []Interval
	for _, iv := range ivs {
		if iv.Duration() >= minSec {
			kept = append(kept, iv)
		}
	}
	return kept
}

// MergeAdjacent combines consecutive same-speaker intervals whose gap is at
// most maxGap seconds. Intervals of different speakers are never merged,
// regardless of gap. Input must be sorted by start.
func MergeAdjacent(ivs []Interval, maxGap float64) []Interval {
	var merged []Interval
	for _, iv := range ivs {
		if len(merged) > 0 {
			last := &merged[len(merged)-1]
			if iv.Speaker == last.Speaker && iv.Start-last.End <= maxGap {
				if iv.End > last.End {
					last.End = iv.End
				}
				continue
			}
		}
		merged = append(merged, iv)
	}
	return merged
}

// RankSpeakers orders speakers by total surviving talk time, descending, and
// returns the top k. Ties break on first-appearance order so the ranking is
// deterministic across runs.
func RankSpeakers(ivs []Interval, k int) []string {
	totals := map[string]float64{}
	firstSeen := map[string]float64{}
	var order []string
	for _, iv := range ivs {
		if _, ok := totals[iv.Speaker]; !ok {
			order = append(order, iv.Speaker)
			firstSeen[iv.Speaker] = iv.Start
		}
		totals[iv.Speaker] += iv.Duration()
	}
	sort.SliceStable(order, func(i, j int) bool {
		ti, tj := totals[order[i]], totals[order[j]]
		if ti != tj {
			return ti > tj
		}
		return firstSeen[order[i]] < firstSeen[order[j]]
	})
	if len(order) > k {
		order = order[:k]
	}
	return order
}

// SelectLongest takes the n longest intervals per allowed speaker (ties break
// on earliest start) and returns them re-sorted by start for downstream
// temporal role inference. Speakers with fewer than n qualifying intervals
// contribute all they have; nothing is fabricated.
func SelectLongest(ivs []Interval, allowed []string, n int) []Interval {
	allowedSet := map[string]bool{}
	for _, sp := range allowed {
		allowedSet[sp] = true
	}
	bySpeaker := map[string][]Interval{}
	for _, iv := range ivs {
		if allowedSet[iv.Speaker] {
			bySpeaker[iv.Speaker] = append(bySpeaker[iv.Speaker], iv)
		}
	}

	var selected []Interval
	for _, sp := range allowed {
		segs := bySpeaker[sp]
		sort.SliceStable(segs, func(i, j int) bool {
			di, dj := segs[i].Duration(), segs[j].Duration()
			if di != dj {
				return di > dj
			}
			return segs[i].Start < segs[j].Start
		})
		if len(segs) > n {
			segs = segs[:n]
		}
		selected = append(selected, segs...)
	}
	SortByStart(selected)
	return selected
}
