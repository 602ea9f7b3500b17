// Package segment turns the raw speaker-turn timeline from the diarization
// oracle into a small, representative, per-speaker sample: merge, filter,
// rank, select, and map speakers onto debate-round roles.
package segment

import "sort"

// Interval is one contiguous span attributed to a single speaker.
// Times are seconds from the start of the (trimmed) recording.
type Interval struct {
	Speaker string  `json:"speaker"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
}

func (iv Interval) Duration() float64 { return iv.End - iv.Start }

// SortByStart orders intervals by start time in place. Diarization output is
// ordered by arrival, which is not guaranteed temporal.
func SortByStart(ivs []Interval) {
	sort.SliceStable(ivs, func(i, j int) bool { return ivs[i].Start < ivs[j].Start })
}
