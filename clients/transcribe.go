package clients

import (
	"context"
	"fmt"

	"github.com/AmeyaChoudhary/VociusAI/config"
)

// Transcribe uploads the audio and returns the plain transcript text used for
// judging. Diarization is not requested here; disfluencies are kept so the
// judge sees the delivery as spoken.
func (h *HTTP) Transcribe(ctx context.Context, svc config.Service, audioPath string) (string, error) {
	audioURL, err := h.upload(ctx, svc, audioPath)
	if err != nil {
		return "", fmt.Errorf("transcription upload: %w", err)
	}
	id, err := h.createJob(ctx, svc, transcriptReq{
		AudioURL:     audioURL,
		Punctuate:    true,
		FormatText:   true,
		Disfluencies: true,
	})
	if err != nil {
		return "", fmt.Errorf("transcription job: %w", err)
	}
	result, err := h.pollJob(ctx, svc, id)
	if err != nil {
		return "", fmt.Errorf("transcription poll: %w", err)
	}
	if result.Text == "" {
		return "", fmt.Errorf("transcription produced no text")
	}
	return result.Text, nil
}
