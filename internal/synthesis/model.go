package synthesis

import (
	"context"
	"errors"
	"fmt"
	"time"

	genai "google.golang.org/genai"
)

// Model is the narrow seam to the generative inference service. The
// returned string is untrusted text that should conform to the output
// schema but often does not.
type Model interface {
	GenerateJSON(ctx context.Context, system, user string) (string, error)
}

// GeminiModel backs Model with the official genai client.
type GeminiModel struct {
	cli     *genai.Client
	model   string
	timeout time.Duration
}

// NewGeminiModel connects to the Gemini API. The API key is read from
// the environment by the genai client itself.
func NewGeminiModel(ctx context.Context, model string, timeout time.Duration) (*GeminiModel, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiModel{cli: cli, model: model, timeout: timeout}, nil
}

// GenerateJSON sends one generation request asking for application/json
// output. No retries: a failed or empty response is terminal for the
// current analysis.
func (g *GeminiModel) GenerateJSON(ctx context.Context, system, user string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: user}}}},
		&genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: system}}},
			ResponseMIMEType:  "application/json",
		},
	)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("model returned no candidates")
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}
