package segment

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type rawInterval struct {
	Speaker      any     `json:"speaker"`
	SpeakerLabel any     `json:"speaker_label"`
	Start        float64 `json:"start"`
	End          float64 `json:"end"`
}

type rawDocument struct {
	Utterances []rawInterval `json:"utterances"`
	Segments   []rawInterval `json:"segments"`
}

// ParseDiarization decodes diarization JSON in any of the shapes the oracle
// produces: {"utterances": [...]} with millisecond times, {"segments": [...]}
// with second times, or a bare interval array (also seconds). The unit is
// decided by shape alone, never by magnitude, so the pipeline's own artifacts
// re-read byte-for-byte regardless of recording length. Speaker tags may be
// small integers or arbitrary strings; both normalize to a canonical label.
// Zero-length intervals are dropped. Output is sorted by start.
func ParseDiarization(data []byte) ([]Interval, error) {
	var doc rawDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		var arr []rawInterval
		if err2 := json.Unmarshal(data, &arr); err2 != nil {
			return nil, fmt.Errorf("unrecognized diarization JSON: %w", err)
		}
		doc.Segments = arr
	}

	raw := doc.Segments
	milliseconds := false
	if len(doc.Utterances) > 0 {
		raw = doc.Utterances
		milliseconds = true
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("diarization JSON contains no intervals")
	}

	out := make([]Interval, 0, len(raw))
	for _, r := range raw {
		tag := r.Speaker
		if tag == nil {
			tag = r.SpeakerLabel
		}
		start, end := r.Start, r.End
		if milliseconds {
			start, end = start/1000, end/1000
		}
		if end <= start {
			continue
		}
		out = append(out, Interval{Speaker: NormalizeSpeaker(tag), Start: start, End: end})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("diarization JSON contains no usable intervals")
	}
	SortByStart(out)
	return out, nil
}

// NormalizeSpeaker maps oracle speaker tags to SPEAKER_NN form. Integers and
// digit strings are zero-padded; already-canonical labels are upcased;
// anything else passes through untouched.
func NormalizeSpeaker(raw any) string {
	switch v := raw.(type) {
	case nil:
		return "SPEAKER_00"
	case float64:
		return fmt.Sprintf("SPEAKER_%02d", int(v))
	case int:
		return fmt.Sprintf("SPEAKER_%02d", v)
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return "SPEAKER_00"
		}
		if strings.HasPrefix(strings.ToUpper(s), "SPEAKER_") {
			return strings.ToUpper(s)
		}
		if n, err := strconv.Atoi(s); err == nil {
			return fmt.Sprintf("SPEAKER_%02d", n)
		}
		return s
	default:
		return fmt.Sprintf("%v", v)
	}
}
