package generator

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

type GeminiModel struct {
	client *genai.Client
	model  string
}

func NewGeminiModel(ctx context.Context, apiKey string, baseURL string, model string) (*GeminiModel, error) {
	if apiKey == "" {
		return nil, errors.New("no API key for gemini")
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	})
	if err != nil {
		return nil, errors.Wrap(err, "could not create gemini client")
	}
	return &GeminiModel{client: client, model: model}, nil
}

func (g *GeminiModel) Name() string {
	return g.model
}

func (g *GeminiModel) Complete(ctx context.Context, p Prompt) (string, error) {
	contents := []*genai.Content{genai.NewContentFromText(p.User, genai.RoleUser)}
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(p.System, genai.RoleUser),
		ResponseMIMEType:  "application/json",
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return "", err
	}
	if resp.UsageMetadata != nil {
		log.Debug().
			Str("model", g.model).
			Int("input_tokens", int(resp.UsageMetadata.PromptTokenCount)).
			Int("output_tokens", int(resp.UsageMetadata.CandidatesTokenCount)).
			Msg("gemini usage")
	}
	return resp.Text(), nil
}

var _ Model = (*GeminiModel)(nil)
