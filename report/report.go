// Package report aggregates per-interval metrics into per-role summaries and
// renders the coaching report.
package report

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/AmeyaChoudhary/VociusAI/classify"
	"github.com/AmeyaChoudhary/VociusAI/dsp"
	"github.com/AmeyaChoudhary/VociusAI/feature"
	"github.com/AmeyaChoudhary/VociusAI/segment"
)

// Record is the machine-readable row for one selected interval: the full
// feature vector plus its delivery labels, flattened.
type Record struct {
	feature.Vector
	classify.Label
}

// SpeakerSummary aggregates one role's selected intervals. Numeric fields are
// arithmetic means across intervals; delivery labels and the tip come from
// the single longest interval, the most statistically reliable sample.
// Categorical labels are not averaged.
type SpeakerSummary struct {
	Speaker          string
	Role             string
	Intervals        []segment.Interval
	MeanLoudnessDb   float64
	DynamicRangeDb   float64
	PitchVariance    *float64
	CentroidVariance float64
	AvgPauseSec      float64
	Delivery         classify.Label
}

// Assemble groups records by resolved role and aggregates them. Speakers
// without a role assignment are excluded. Summaries are ordered by each
// speaker's earliest selected interval, so report order tracks debate order.
func Assemble(records []Record, roles map[string]string) []SpeakerSummary {
	bySpeaker := map[string][]Record{}
	var order []string
	for _, r := range records {
		if _, ok := roles[r.Speaker]; !ok {
			continue
		}
		if _, ok := bySpeaker[r.Speaker]; !ok {
			order = append(order, r.Speaker)
		}
		bySpeaker[r.Speaker] = append(bySpeaker[r.Speaker], r)
	}
	sort.SliceStable(order, func(i, j int) bool {
		return bySpeaker[order[i]][0].Start < bySpeaker[order[j]][0].Start
	})

	var out []SpeakerSummary
	for _, sp := range order {
		recs := bySpeaker[sp]
		s := SpeakerSummary{Speaker: sp, Role: roles[sp]}

		var meanDb, rangeDb, centVar, pause []float64
		var pitch []float64
		longest := recs[0]
		for _, r := range recs {
			s.Intervals = append(s.Intervals, segment.Interval{Speaker: r.Speaker, Start: r.Start, End: r.End})
			meanDb = append(meanDb, r.MeanLoudnessDb)
			rangeDb = append(rangeDb, r.DynamicRangeDb)
			centVar = append(centVar, r.CentroidVariance)
			pause = append(pause, r.AvgPauseSec)
			if r.PitchVariance != nil {
				pitch = append(pitch, *r.PitchVariance)
			}
			if r.End-r.Start > longest.End-longest.Start {
				longest = r
			}
		}
		s.MeanLoudnessDb = dsp.Round(dsp.Mean(meanDb), 1)
		s.DynamicRangeDb = dsp.Round(dsp.Mean(rangeDb), 1)
		s.CentroidVariance = dsp.Round(dsp.Mean(centVar), 0)
		s.AvgPauseSec = dsp.Round(dsp.Mean(pause), 2)
		if len(pitch) > 0 {
			v := dsp.Round(dsp.Mean(pitch), 1)
			s.PitchVariance = &v
		}
		s.Delivery = longest.Label
		out = append(out, s)
	}
	return out
}

// Render writes the human-readable per-role report.
func Render(w io.Writer, summaries []SpeakerSummary) error {
	for _, s := range summaries {
		times := make([]string, 0, len(s.Intervals))
		for _, iv := range s.Intervals {
			times = append(times, fmt.Sprintf("%s–%s", hhmmss(iv.Start), hhmmss(iv.End)))
		}
		pitch := "n/a"
		if s.PitchVariance != nil {
			pitch = fmt.Sprintf("%.1f", *s.PitchVariance)
		}
		_, err := fmt.Fprintf(w,
			"== %s Speeches: (%s) ==\n"+
				" • Delivery: %s, %s, %s\n"+
				" • Loudness: %.1f dBFS (range %.1f dB)\n"+
				" • Pitch var: %s | Centroid var: %.1f\n"+
				" • Average pause: %.2f s\n"+
				" • Tip: %s\n\n",
			s.Role, join(times),
			s.Delivery.Expressiveness, s.Delivery.Passion, s.Delivery.Speed,
			s.MeanLoudnessDb, s.DynamicRangeDb,
			pitch, s.CentroidVariance,
			s.AvgPauseSec,
			s.Delivery.Tip,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func join(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out
}

func hhmmss(seconds float64) string {
	t := int(math.Round(seconds))
	if t < 0 {
		t = 0
	}
	h, rem := t/3600, t%3600
	return fmt.Sprintf("%d:%02d:%02d", h, rem/60, rem%60)
}
