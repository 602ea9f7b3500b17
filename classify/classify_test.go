package classify

import (
	"testing"

	"github.com/AmeyaChoudhary/VociusAI/config"
	"github.com/AmeyaChoudhary/VociusAI/feature"
)

func testCfg() config.Classify {
	return config.Classify{
		ExpressiveCentroidVar: 5_000_000,
		NeutralCentroidVar:    2_000_000,
		PassionateRangeDb:     10,
		BalancedRangeDb:       4,
		VeryFastRatio:         0.85,
		FastRatio:             0.6,
		ModerateRatio:         0.4,
		ShortPauseSec:         0.2,
	}
}

func TestClassifyScenario(t *testing.T) {
	v := feature.Vector{
		DynamicRangeDb:   12.0,
		CentroidVariance: 6_000_000,
		SpeechRatio:      0.5,
		AvgPauseSec:      0.5,
	}
	got := New(testCfg()).Classify(v)
	if got.Expressiveness != "expressive" || got.Passion != "passionate" || got.Speed != "moderate" {
		t.Errorf("got %+v, want expressive/passionate/moderate", got)
	}
	if got.Tip != "Maintain your current delivery while emphasising key points." {
		t.Errorf("tip = %q, want the fallback", got.Tip)
	}
}

func TestThresholdBoundariesAreExclusive(t *testing.T) {
	c := New(testCfg())
	cases := []struct {
		name string
		v    feature.Vector
		want Label
	}{
		{"centroid var exactly at the expressive bound stays neutral",
			feature.Vector{CentroidVariance: 5_000_000, DynamicRangeDb: 5, SpeechRatio: 0.5, AvgPauseSec: 0.5},
			Label{Expressiveness: "neutral", Passion: "balanced", Speed: "moderate"}},
		{"just above the expressive bound",
			feature.Vector{CentroidVariance: 5_000_000.01, DynamicRangeDb: 5, SpeechRatio: 0.5, AvgPauseSec: 0.5},
			Label{Expressiveness: "expressive", Passion: "balanced", Speed: "moderate"}},
		{"range exactly 4 dB is subdued",
			feature.Vector{CentroidVariance: 3_000_000, DynamicRangeDb: 4, SpeechRatio: 0.5, AvgPauseSec: 0.5},
			Label{Expressiveness: "neutral", Passion: "subdued", Speed: "moderate"}},
		{"ratio exactly 0.85 is fast, not very fast",
			feature.Vector{CentroidVariance: 3_000_000, DynamicRangeDb: 5, SpeechRatio: 0.85, AvgPauseSec: 0.5},
			Label{Expressiveness: "neutral", Passion: "balanced", Speed: "fast"}},
		{"ratio exactly 0.4 is slow",
			feature.Vector{CentroidVariance: 3_000_000, DynamicRangeDb: 5, SpeechRatio: 0.4, AvgPauseSec: 0.5},
			Label{Expressiveness: "neutral", Passion: "balanced", Speed: "slow"}},
	}
	for _, c2 := range cases {
		got := c.Classify(c2.v)
		got.Tip = ""
		if got != c2.want {
			t.Errorf("%s: got %+v, want %+v", c2.name, got, c2.want)
		}
	}
}

func TestTipOrderFirstMatchWins(t *testing.T) {
	c := New(testCfg())

	// Monotone plus subdued plus short pauses: the monotone rule fires first.
	v := feature.Vector{CentroidVariance: 1, DynamicRangeDb: 1, SpeechRatio: 0.5, AvgPauseSec: 0.05}
	if got := c.Classify(v); got.Tip != "Vary your tone between arguments to keep the judge engaged." {
		t.Errorf("tip = %q, want the monotone tip first", got.Tip)
	}

	// Subdued plus fast: subdued outranks the pacing rules.
	v = feature.Vector{CentroidVariance: 6_000_000, DynamicRangeDb: 1, SpeechRatio: 0.95, AvgPauseSec: 0.5}
	if got := c.Classify(v); got.Tip != "Project more confidence and energy to convey conviction." {
		t.Errorf("tip = %q, want the subdued tip", got.Tip)
	}

	// Very fast alone.
	v = feature.Vector{CentroidVariance: 6_000_000, DynamicRangeDb: 12, SpeechRatio: 0.95, AvgPauseSec: 0.5}
	if got := c.Classify(v); got.Tip != "Slow down and insert short pauses after important claims." {
		t.Errorf("tip = %q, want the pacing tip", got.Tip)
	}

	// Only the short-pause condition holds.
	v = feature.Vector{CentroidVariance: 6_000_000, DynamicRangeDb: 12, SpeechRatio: 0.5, AvgPauseSec: 0.1}
	if got := c.Classify(v); got.Tip != "Introduce brief pauses to separate ideas and aid clarity." {
		t.Errorf("tip = %q, want the pause tip", got.Tip)
	}
}

func TestClassifyNilPitchVariance(t *testing.T) {
	v := feature.Vector{
		PitchVariance:    nil,
		CentroidVariance: 3_000_000,
		DynamicRangeDb:   6,
		SpeechRatio:      0.5,
		AvgPauseSec:      0.5,
	}
	got := New(testCfg()).Classify(v)
	if got.Expressiveness != "neutral" {
		t.Errorf("expressiveness = %q, want neutral from centroid variance alone", got.Expressiveness)
	}
}
