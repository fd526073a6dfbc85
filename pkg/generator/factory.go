package generator

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

type Options struct {
	Kind          string
	Model         string
	GeminiAPIKey  string
	GeminiBaseURL string
	OpenAIAPIKey  string
	OpenAIBaseURL string
	EchoDelay     time.Duration
}

// NewModel creates the model for an in-process generator kind.
func NewModel(ctx context.Context, o Options) (Model, error) {
	switch o.Kind {
	case KindGemini:
		return NewGeminiModel(ctx, o.GeminiAPIKey, o.GeminiBaseURL, o.Model)
	case KindOpenAI:
		model := o.Model
		if model == DefaultGeminiModel {
			model = DefaultOpenAIModel
		}
		return NewOpenAIModel(o.OpenAIAPIKey, o.OpenAIBaseURL, model)
	case KindEcho:
		return &EchoModel{Delay: o.EchoDelay}, nil
	case KindHTTP:
		return nil, errors.New("the http generator kind has no in-process model")
	}
	return nil, errors.Errorf("unknown generator kind %q", o.Kind)
}
