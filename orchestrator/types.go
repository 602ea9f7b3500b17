package orchestrator

// Options are the per-run inputs. Team1 always denotes the side labelled
// first on the ballot; First says which of the two actually opened.
type Options struct {
	AudioPath       string `json:"audio"`
	WorkDir         string `json:"work_dir,omitempty"`
	Team1           string `json:"team1"`
	Team2           string `json:"team2"`
	First           string `json:"first"`
	Topic           string `json:"topic,omitempty"`
	Style           string `json:"style,omitempty"`
	Model           string `json:"model,omitempty"`
	DiarizationJSON string `json:"diarization_json,omitempty"`
	ReuseTranscript bool   `json:"reuse_transcript,omitempty"`
	NoJudge         bool   `json:"no_judge,omitempty"`
}
