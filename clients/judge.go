package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/AmeyaChoudhary/VociusAI/config"
)

// --- Judge (/chat/completions) ---

// StyleCatalog maps judging styles (lay, flay, tech, prog) to prompt template
// files, loaded from a small YAML catalog next to the binary.
type StyleCatalog struct {
	Default string            `yaml:"default"`
	Styles  map[string]string `yaml:"styles"`
}

func LoadStyles(path string) (*StyleCatalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cat StyleCatalog
	if err := yaml.NewDecoder(f).Decode(&cat); err != nil {
		return nil, fmt.Errorf("style catalog %s: %w", path, err)
	}
	if len(cat.Styles) == 0 {
		return nil, fmt.Errorf("style catalog %s: no styles defined", path)
	}
	return &cat, nil
}

// BuildPrompt reads the template for the given style and fills the
// placeholders. Template paths are resolved relative to the catalog file.
func (c *StyleCatalog) BuildPrompt(catalogPath, style, topic, firstTeam, transcript string) (string, error) {
	file, ok := c.Styles[strings.ToLower(style)]
	if !ok {
		file, ok = c.Styles[c.Default]
		if !ok {
			return "", fmt.Errorf("unknown judging style %q", style)
		}
	}
	if !filepath.IsAbs(file) {
		file = filepath.Join(filepath.Dir(catalogPath), file)
	}
	raw, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("prompt template: %w", err)
	}
	prompt := string(raw)
	prompt = strings.ReplaceAll(prompt, "[insert topic here]", topic)
	prompt = strings.ReplaceAll(prompt, "[insert team name here]", firstTeam)
	prompt = strings.ReplaceAll(prompt, "[insert transcript here]", transcript)
	return prompt, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatReq struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResp struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage *JudgeUsage `json:"usage"`
}

type JudgeUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// JudgeFeedback mirrors the judge_feedback.json artifact.
type JudgeFeedback struct {
	Model    string      `json:"model"`
	Feedback string      `json:"feedback"`
	Usage    *JudgeUsage `json:"usage"`
}

// Judge sends the prompt to a chat-completions endpoint and returns the
// feedback text. Temperature 0 keeps repeated runs comparable.
func (h *HTTP) Judge(ctx context.Context, svc config.Service, model, prompt string) (*JudgeFeedback, error) {
	body, _ := json.Marshal(chatReq{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: "You are a PF debate judge."},
			{Role: "user", Content: prompt},
		},
		Temperature: 0,
		MaxTokens:   3500,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, svc.URL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+svc.Key)
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("judge %s: %s", resp.Status, string(b))
	}
	var out chatResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("judge decode: %w", err)
	}
	if len(out.Choices) == 0 {
		return nil, fmt.Errorf("judge returned no choices")
	}
	return &JudgeFeedback{
		Model:    model,
		Feedback: out.Choices[0].Message.Content,
		Usage:    out.Usage,
	}, nil
}
