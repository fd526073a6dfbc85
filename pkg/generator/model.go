// Package generator turns a prompt into an outline by asking a language
// model for JSON and validating the answer.
package generator

import (
	"context"
	"net/http"

	"github.com/go-go-golems/naofs/pkg/generation"
	"github.com/pkg/errors"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
)

const (
	KindHTTP   = "http"
	KindGemini = "gemini"
	KindOpenAI = "openai"
	KindEcho   = "echo"
)

var Kinds = []string{KindHTTP, KindGemini, KindOpenAI, KindEcho}

const (
	DefaultGeminiModel = "gemini-2.0-flash"
	DefaultOpenAIModel = "gpt-4o-mini"
)

// Prompt is what a model is asked.
type Prompt struct {
	System  string
	User    string
	Request generation.Request
}

// Model completes a prompt and returns the raw text of the answer.
type Model interface {
	Name() string
	Complete(ctx context.Context, p Prompt) (string, error)
}

// ModelError is a failure reported by the model provider.
type ModelError struct {
	StatusCode int
	Err        error
}

func (e *ModelError) Error() string {
	return e.Err.Error()
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// StatusCode extracts the HTTP status a provider error carries, falling back
// to 500.
func StatusCode(err error) int {
	var modelErr *ModelError
	if errors.As(err, &modelErr) && modelErr.StatusCode != 0 {
		return modelErr.StatusCode
	}
	var geminiErr genai.APIError
	if errors.As(err, &geminiErr) && geminiErr.Code != 0 {
		return geminiErr.Code
	}
	var openaiErr *openai.APIError
	if errors.As(err, &openaiErr) && openaiErr.HTTPStatusCode != 0 {
		return openaiErr.HTTPStatusCode
	}
	var requestErr *openai.RequestError
	if errors.As(err, &requestErr) && requestErr.HTTPStatusCode != 0 {
		return requestErr.HTTPStatusCode
	}
	return http.StatusInternalServerError
}
