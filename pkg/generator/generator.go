package generator

import (
	"context"
	"strings"

	"github.com/go-go-golems/naofs/pkg/generation"
	"github.com/go-go-golems/naofs/pkg/outline"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// OutlineGenerator asks a Model for an outline and validates the answer.
type OutlineGenerator struct {
	model  Model
	prompt *PromptTemplate
}

func NewOutlineGenerator(model Model) (*OutlineGenerator, error) {
	prompt, err := NewPromptTemplate()
	if err != nil {
		return nil, err
	}
	return &OutlineGenerator{model: model, prompt: prompt}, nil
}

func (g *OutlineGenerator) Model() Model {
	return g.model
}

// Outline returns the validated outline for req. Failures are a
// *outline.ShapeError when the model answered with something that is not an
// outline, a *ModelError when the provider failed, or the context error.
func (g *OutlineGenerator) Outline(ctx context.Context, req generation.Request) (*outline.Outline, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	p, err := g.prompt.Render(req)
	if err != nil {
		return nil, err
	}

	text, err := g.model.Complete(ctx, p)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Error().Err(err).Str("model", g.model.Name()).Msg("model request failed")
		return nil, &ModelError{StatusCode: StatusCode(err), Err: err}
	}
	if strings.TrimSpace(text) == "" {
		text = "{}"
	}

	o, err := outline.Parse([]byte(text))
	if err != nil {
		log.Warn().Err(err).Str("model", g.model.Name()).Str("raw", text).Msg("model returned an invalid outline")
		return nil, err
	}
	if o.Language == "" {
		o.Language = req.Language
	}
	if o.Verbosity == "" {
		o.Verbosity = req.Verbosity
	}
	if n := outline.EnsureIDs(o); n > 0 {
		log.Debug().Int("assigned", n).Msg("filled in missing section ids")
	}
	return o, nil
}

// Generate implements generation.Client for running a model in-process.
func (g *OutlineGenerator) Generate(ctx context.Context, req generation.Request) (*outline.Outline, error) {
	o, err := g.Outline(ctx, req)
	if err == nil {
		return o, nil
	}

	var shape *outline.ShapeError
	var modelErr *ModelError
	switch {
	case errors.Is(err, context.Canceled):
		return nil, &generation.AbortError{Cause: err}
	case errors.Is(err, context.DeadlineExceeded):
		return nil, &generation.TransportError{Message: "request timed out", Err: err}
	case errors.As(err, &shape):
		return nil, &generation.ResponseShapeError{Reason: shape.Reason, Raw: shape.Raw}
	case errors.As(err, &modelErr):
		return nil, &generation.TransportError{
			StatusCode: modelErr.StatusCode,
			Message:    modelErr.Error(),
			Err:        err,
		}
	}
	return nil, err
}

var _ generation.Client = (*OutlineGenerator)(nil)
