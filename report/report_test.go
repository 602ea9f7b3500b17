package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/AmeyaChoudhary/VociusAI/classify"
	"github.com/AmeyaChoudhary/VociusAI/feature"
)

func ptr(v float64) *float64 { return &v }

func sampleRecords() []Record {
	return []Record{
		{
			Vector: feature.Vector{Speaker: "SPEAKER_00", Start: 10, End: 80,
				MeanLoudnessDb: -20, DynamicRangeDb: 8, PitchVariance: ptr(400),
				CentroidVariance: 3_000_000, AvgPauseSec: 0.4, SpeechRatio: 0.7},
			Label: classify.Label{Expressiveness: "neutral", Passion: "balanced", Speed: "fast",
				Tip: "Slow down and insert short pauses after important claims."},
		},
		{
			Vector: feature.Vector{Speaker: "SPEAKER_00", Start: 200, End: 380,
				MeanLoudnessDb: -24, DynamicRangeDb: 12, PitchVariance: nil,
				CentroidVariance: 6_000_000, AvgPauseSec: 0.6, SpeechRatio: 0.5},
			Label: classify.Label{Expressiveness: "expressive", Passion: "passionate", Speed: "moderate",
				Tip: "Maintain your current delivery while emphasising key points."},
		},
		{
			Vector: feature.Vector{Speaker: "SPEAKER_01", Start: 90, End: 170,
				MeanLoudnessDb: -30, DynamicRangeDb: 3, PitchVariance: ptr(100),
				CentroidVariance: 1_000_000, AvgPauseSec: 0.1, SpeechRatio: 0.9},
			Label: classify.Label{Expressiveness: "monotone", Passion: "subdued", Speed: "very fast",
				Tip: "Vary your tone between arguments to keep the judge engaged."},
		},
	}
}

func sampleRoles() map[string]string {
	return map[string]string{
		"SPEAKER_00": "Aff 1st Speaker",
		"SPEAKER_01": "Neg 1st Speaker",
	}
}

func TestAssembleAggregates(t *testing.T) {
	got := Assemble(sampleRecords(), sampleRoles())
	if len(got) != 2 {
		t.Fatalf("summaries = %d, want 2", len(got))
	}

	// Order follows each speaker's earliest interval.
	if got[0].Speaker != "SPEAKER_00" || got[1].Speaker != "SPEAKER_01" {
		t.Errorf("order = %s, %s", got[0].Speaker, got[1].Speaker)
	}

	s := got[0]
	if s.Role != "Aff 1st Speaker" {
		t.Errorf("role = %q", s.Role)
	}
	if s.MeanLoudnessDb != -22 {
		t.Errorf("mean loudness = %v, want -22", s.MeanLoudnessDb)
	}
	if s.DynamicRangeDb != 10 {
		t.Errorf("dynamic range = %v, want 10", s.DynamicRangeDb)
	}
	if s.CentroidVariance != 4_500_000 {
		t.Errorf("centroid variance = %v, want 4.5e6", s.CentroidVariance)
	}
	if s.AvgPauseSec != 0.5 {
		t.Errorf("avg pause = %v, want 0.5", s.AvgPauseSec)
	}
	// Pitch mean skips nil intervals instead of treating them as zero.
	if s.PitchVariance == nil || *s.PitchVariance != 400 {
		t.Errorf("pitch variance = %v, want 400", s.PitchVariance)
	}
	// Labels come from the longest interval (180s beats 70s).
	if s.Delivery.Expressiveness != "expressive" {
		t.Errorf("delivery = %+v, want the longer interval's labels", s.Delivery)
	}
}

func TestAssembleExcludesUnassigned(t *testing.T) {
	records := sampleRecords()
	records = append(records, Record{
		Vector: feature.Vector{Speaker: "SPEAKER_05", Start: 400, End: 500},
	})
	got := Assemble(records, sampleRoles())
	for _, s := range got {
		if s.Speaker == "SPEAKER_05" {
			t.Error("unassigned speaker made it into the report")
		}
	}
}

func TestAssembleAllPitchMissing(t *testing.T) {
	records := []Record{{
		Vector: feature.Vector{Speaker: "SPEAKER_00", Start: 0, End: 60, PitchVariance: nil},
	}}
	got := Assemble(records, sampleRoles())
	if len(got) != 1 || got[0].PitchVariance != nil {
		t.Errorf("pitch variance should stay nil when no interval had one: %+v", got)
	}
}

func TestRenderFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, Assemble(sampleRecords(), sampleRoles())); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()

	wantLines := []string{
		"== Aff 1st Speaker Speeches: (0:00:10–0:01:20, 0:03:20–0:06:20) ==",
		" • Delivery: expressive, passionate, moderate",
		" • Loudness: -22.0 dBFS (range 10.0 dB)",
		" • Pitch var: 400.0 | Centroid var: 4500000.0",
		" • Average pause: 0.50 s",
		" • Tip: Maintain your current delivery while emphasising key points.",
		"== Neg 1st Speaker Speeches: (0:01:30–0:02:50) ==",
		" • Pitch var: 100.0 | Centroid var: 1000000.0",
	}
	for _, line := range wantLines {
		if !strings.Contains(out, line) {
			t.Errorf("report missing line %q\nfull report:\n%s", line, out)
		}
	}
}

func TestRenderMissingPitch(t *testing.T) {
	summaries := Assemble([]Record{{
		Vector: feature.Vector{Speaker: "SPEAKER_00", Start: 0, End: 90},
	}}, sampleRoles())

	var buf bytes.Buffer
	if err := Render(&buf, summaries); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(buf.String(), " • Pitch var: n/a |") {
		t.Errorf("missing pitch not rendered as n/a:\n%s", buf.String())
	}
}
