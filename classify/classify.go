// Package classify maps feature vectors to discrete delivery labels and one
// coaching tip. Everything here is a pure function of its input: fixed
// thresholds, ordered rules, no runtime derivation.
package classify

import (
	"github.com/AmeyaChoudhary/VociusAI/config"
	"github.com/AmeyaChoudhary/VociusAI/feature"
)

type Label struct {
	Expressiveness string `json:"expressiveness"`
	Passion        string `json:"passion"`
	Speed          string `json:"speed"`
	Tip            string `json:"tip"`
}

// step is one rung of a threshold ladder: strictly above the bound wins the
// label. Keeping the ladder as an ordered list makes the boundary contract
// (exclusive on the lower class) explicit and testable per rung.
type step struct {
	above float64
	label string
}

func descend(v float64, steps []step, fallback string) string {
	for _, s := range steps {
		if v > s.above {
			return s.label
		}
	}
	return fallback
}

// tipRule is one (condition, tip) pair. Rules are evaluated in order and the
// first match wins, not the most severe one. The order is part of the
// output contract.
type tipRule struct {
	match func(feature.Vector, Label) bool
	tip   string
}

const fallbackTip = "Maintain your current delivery while emphasising key points."

type Classifier struct {
	cfg  config.Classify
	tips []tipRule
}

func New(cfg config.Classify) *Classifier {
	c := &Classifier{cfg: cfg}
	c.tips = []tipRule{
		{func(_ feature.Vector, l Label) bool { return l.Expressiveness == "monotone" },
			"Vary your tone between arguments to keep the judge engaged."},
		{func(_ feature.Vector, l Label) bool { return l.Expressiveness == "neutral" },
			"Use a bit more vocal variety to emphasise key points."},
		{func(_ feature.Vector, l Label) bool { return l.Passion == "subdued" },
			"Project more confidence and energy to convey conviction."},
		{func(_ feature.Vector, l Label) bool { return l.Speed == "very fast" || l.Speed == "fast" },
			"Slow down and insert short pauses after important claims."},
		{func(_ feature.Vector, l Label) bool { return l.Speed == "slow" },
			"Pick up the pace slightly to maintain momentum."},
		{func(v feature.Vector, _ Label) bool { return v.AvgPauseSec < cfg.ShortPauseSec },
			"Introduce brief pauses to separate ideas and aid clarity."},
	}
	return c
}

// Classify derives delivery labels from a feature vector. A nil pitch
// variance never panics and never defaults into a category: expressiveness is
// judged on centroid variance alone, pitch variance is report-only.
func (c *Classifier) Classify(v feature.Vector) Label {
	l := Label{
		Expressiveness: descend(v.CentroidVariance, []step{
			{c.cfg.ExpressiveCentroidVar, "expressive"},
			{c.cfg.NeutralCentroidVar, "neutral"},
		}, "monotone"),
		Passion: descend(v.DynamicRangeDb, []step{
			{c.cfg.PassionateRangeDb, "passionate"},
			{c.cfg.BalancedRangeDb, "balanced"},
		}, "subdued"),
		Speed: descend(v.SpeechRatio, []step{
			{c.cfg.VeryFastRatio, "very fast"},
			{c.cfg.FastRatio, "fast"},
			{c.cfg.ModerateRatio, "moderate"},
		}, "slow"),
	}
	l.Tip = c.tip(v, l)
	return l
}

func (c *Classifier) tip(v feature.Vector, l Label) string {
	for _, r := range c.tips {
		if r.match(v, l) {
			return r.tip
		}
	}
	return fallbackTip
}
