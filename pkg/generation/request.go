// Package generation issues outline generation requests and guarantees that
// only the most recent one can change what the reader shows.
package generation

import (
	"context"
	"strings"

	"github.com/go-go-golems/naofs/pkg/outline"
)

const EmptyPromptMessage = "Prompt is empty"

// Request is the body posted to the generator.
type Request struct {
	Prompt    string `json:"prompt" yaml:"prompt"`
	Verbosity string `json:"verbosity" yaml:"verbosity"`
	Language  string `json:"language" yaml:"language"`
}

// NewRequest trims the prompt, fills in defaults and validates the result.
func NewRequest(prompt, verbosity, language string) (Request, error) {
	r := Request{
		Prompt:    strings.TrimSpace(prompt),
		Verbosity: strings.TrimSpace(verbosity),
		Language:  strings.TrimSpace(language),
	}
	if r.Verbosity == "" {
		r.Verbosity = outline.DefaultVerbosity
	}
	if r.Language == "" {
		r.Language = outline.DefaultLanguage
	}
	if err := r.Validate(); err != nil {
		return Request{}, err
	}
	return r, nil
}

func (r Request) Validate() error {
	if strings.TrimSpace(r.Prompt) == "" {
		return &ValidationError{Field: "prompt", Message: EmptyPromptMessage}
	}
	if !outline.IsVerbosity(r.Verbosity) {
		return &ValidationError{
			Field:   "verbosity",
			Message: "Verbosity must be one of " + strings.Join(outline.Verbosities, ", "),
		}
	}
	return nil
}

// Client produces an outline for a request.
type Client interface {
	Generate(ctx context.Context, req Request) (*outline.Outline, error)
}

type ClientFunc func(ctx context.Context, req Request) (*outline.Outline, error)

func (f ClientFunc) Generate(ctx context.Context, req Request) (*outline.Outline, error) {
	return f(ctx, req)
}
