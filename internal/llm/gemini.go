package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/hanghive/hang-bot/internal/prompt"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// GeminiBackend implements Backend on the Google Gemini API.
type GeminiBackend struct {
	client *genai.Client
	model  string
}

// NewGeminiBackend creates a Gemini-backed generation client using an API
// key. The model name falls back to DefaultModel when empty.
func NewGeminiBackend(ctx context.Context, apiKey, model string) (*GeminiBackend, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("llm: gemini api key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("llm: create gemini client: %w", err)
	}

	return &GeminiBackend{client: client, model: model}, nil
}

// GenerateContent sends the composed request to Gemini and returns the raw
// response text. Errors are returned as-is: their status codes and messages
// carry enough information for the retry classifier.
func (g *GeminiBackend) GenerateContent(ctx context.Context, req prompt.Request) (string, error) {
	contents := make([]*genai.Content, 0, len(req.Turns))
	for _, turn := range req.Turns {
		contents = append(contents, genai.NewContentFromText(turn.Content, genaiRole(turn.Role)))
	}

	temp := req.Temperature
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.System, genai.RoleUser),
		Temperature:       &temp,
		MaxOutputTokens:   req.MaxOutputTokens,
	}
	if req.TopP > 0 {
		topP := req.TopP
		cfg.TopP = &topP
	}

	res, err := g.client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("llm: gemini generate content: %w", err)
	}

	return res.Text(), nil
}

// genaiRole maps a conversation role onto the genai API role type. Anything
// unrecognized is treated as user input.
func genaiRole(r prompt.Role) genai.Role {
	if r == prompt.RoleModel {
		return genai.RoleModel
	}
	return genai.RoleUser
}
