package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/AmeyaChoudhary/VociusAI/config"
	"github.com/AmeyaChoudhary/VociusAI/segment"
)

const pollInterval = 4 * time.Second

// --- Diarization (upload → job → poll) ---

type uploadResp struct {
	UploadURL string `json:"upload_url"`
}

type transcriptReq struct {
	AudioURL         string `json:"audio_url"`
	SpeakerLabels    bool   `json:"speaker_labels"`
	SpeakersExpected int    `json:"speakers_expected,omitempty"`
	Punctuate        bool   `json:"punctuate,omitempty"`
	FormatText       bool   `json:"format_text,omitempty"`
	Disfluencies     bool   `json:"disfluencies,omitempty"`
}

type utterance struct {
	Speaker any     `json:"speaker"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
}

type transcriptResp struct {
	ID         string      `json:"id"`
	Status     string      `json:"status"`
	Error      string      `json:"error"`
	Text       string      `json:"text"`
	Utterances []utterance `json:"utterances"`
}

// upload streams the audio file as raw bytes and returns the service-side URL.
func (h *HTTP) upload(ctx context.Context, svc config.Service, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, svc.URL+"/upload", f)
	if err != nil {
		return "", err
	}
	req.Header.Set("authorization", svc.Key)
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := h.c.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("upload %s: %s", resp.Status, string(body))
	}
	var out uploadResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("upload decode: %w", err)
	}
	if out.UploadURL == "" {
		return "", fmt.Errorf("upload response missing upload_url")
	}
	return out.UploadURL, nil
}

func (h *HTTP) createJob(ctx context.Context, svc config.Service, payload transcriptReq) (string, error) {
	b, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, svc.URL+"/transcript", bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("authorization", svc.Key)
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.c.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("create job %s: %s", resp.Status, string(body))
	}
	var out transcriptResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("create job decode: %w", err)
	}
	if out.ID == "" {
		return "", fmt.Errorf("no job id returned")
	}
	return out.ID, nil
}

func (h *HTTP) pollJob(ctx context.Context, svc config.Service, id string) (*transcriptResp, error) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, svc.URL+"/transcript/"+id, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("authorization", svc.Key)

		resp, err := h.c.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return nil, fmt.Errorf("poll %s: %s", resp.Status, string(body))
		}
		var out transcriptResp
		err = json.NewDecoder(resp.Body).Decode(&out)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("poll decode: %w", err)
		}
		switch out.Status {
		case "completed":
			return &out, nil
		case "error":
			return nil, fmt.Errorf("job %s failed: %s", id, out.Error)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// Diarize uploads the audio, requests speaker-labelled transcription, waits
// for completion, and returns second-based intervals with canonical speaker
// labels. The service reports times in milliseconds.
func (h *HTTP) Diarize(ctx context.Context, svc config.Service, audioPath string, maxSpeakers int) ([]segment.Interval, error) {
	audioURL, err := h.upload(ctx, svc, audioPath)
	if err != nil {
		return nil, fmt.Errorf("diarization upload: %w", err)
	}
	id, err := h.createJob(ctx, svc, transcriptReq{
		AudioURL:         audioURL,
		SpeakerLabels:    true,
		SpeakersExpected: maxSpeakers,
	})
	if err != nil {
		return nil, fmt.Errorf("diarization job: %w", err)
	}
	result, err := h.pollJob(ctx, svc, id)
	if err != nil {
		return nil, fmt.Errorf("diarization poll: %w", err)
	}

	ivs := make([]segment.Interval, 0, len(result.Utterances))
	for _, u := range result.Utterances {
		if u.End <= u.Start {
			continue
		}
		ivs = append(ivs, segment.Interval{
			Speaker: segment.NormalizeSpeaker(u.Speaker),
			Start:   u.Start / 1000,
			End:     u.End / 1000,
		})
	}
	if len(ivs) == 0 {
		return nil, fmt.Errorf("diarization returned no utterances")
	}
	segment.SortByStart(ivs)
	return ivs, nil
}
