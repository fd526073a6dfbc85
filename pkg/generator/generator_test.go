package generator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-go-golems/naofs/pkg/generation"
	"github.com/go-go-golems/naofs/pkg/outline"
	"github.com/pkg/errors"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeModel struct {
	text string
	err  error
	got  Prompt
}

func (f *fakeModel) Name() string { return "fake" }

func (f *fakeModel) Complete(ctx context.Context, p Prompt) (string, error) {
	f.got = p
	return f.text, f.err
}

var req = generation.Request{Prompt: "Accessible docs", Verbosity: "short", Language: "de"}

func TestPromptRendersLanguageAndVerbosity(t *testing.T) {
	tmpl, err := NewPromptTemplate()
	require.NoError(t, err)

	p, err := tmpl.Render(generation.Request{Prompt: "  Bread  ", Verbosity: "long", Language: "fr"})
	require.NoError(t, err)
	assert.Contains(t, p.System, `"language":"fr"`)
	assert.Contains(t, p.System, `"verbosity":"long"`)
	assert.Contains(t, p.System, "concise at verbosity=long")
	assert.Equal(t, "Topic: Bread", p.User)
}

func TestOutlineFillsIDsAndDefaults(t *testing.T) {
	m := &fakeModel{text: `{"sections":[{"title":"Getting Started","body":"b","children":[{"id":"x","title":"Sub","body":"c"}]}]}`}
	g, err := NewOutlineGenerator(m)
	require.NoError(t, err)

	o, err := g.Outline(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "de", o.Language)
	assert.Equal(t, "short", o.Verbosity)
	assert.Equal(t, "getting-started", o.Sections[0].ID)
	assert.Equal(t, "x", o.Sections[0].Children[0].ID)
	assert.Equal(t, "Topic: Accessible docs", m.got.User)
}

func TestOutlineShapeErrors(t *testing.T) {
	for name, text := range map[string]string{
		"not json":         "Sure! Here is the outline",
		"empty answer":     "  ",
		"missing sections": `{"language":"en"}`,
	} {
		t.Run(name, func(t *testing.T) {
			g, err := NewOutlineGenerator(&fakeModel{text: text})
			require.NoError(t, err)

			_, err = g.Outline(context.Background(), req)
			var shape *outline.ShapeError
			require.True(t, errors.As(err, &shape))

			_, err = g.Generate(context.Background(), req)
			var responseShape *generation.ResponseShapeError
			require.True(t, errors.As(err, &responseShape))
		})
	}
}

func TestModelFailureKeepsProviderStatus(t *testing.T) {
	g, err := NewOutlineGenerator(&fakeModel{err: &openai.APIError{HTTPStatusCode: 429, Message: "slow down"}})
	require.NoError(t, err)

	_, err = g.Outline(context.Background(), req)
	var modelErr *ModelError
	require.True(t, errors.As(err, &modelErr))
	assert.Equal(t, 429, modelErr.StatusCode)

	_, err = g.Generate(context.Background(), req)
	var transport *generation.TransportError
	require.True(t, errors.As(err, &transport))
	assert.Equal(t, 429, transport.StatusCode)
}

func TestGenerateMapsCancellation(t *testing.T) {
	g, err := NewOutlineGenerator(&EchoModel{})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = g.Generate(ctx, req)
	var abort *generation.AbortError
	assert.True(t, errors.As(err, &abort))
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, 404, StatusCode(errors.Wrap(&openai.APIError{HTTPStatusCode: 404}, "x")))
	assert.Equal(t, 401, StatusCode(&openai.RequestError{HTTPStatusCode: 401, Err: errors.New("no")}))
	assert.Equal(t, 503, StatusCode(&ModelError{StatusCode: 503, Err: errors.New("x")}))
	assert.Equal(t, 500, StatusCode(errors.New("boom")))
}

func TestEchoModel(t *testing.T) {
	g, err := NewOutlineGenerator(NewEchoModel())
	require.NoError(t, err)

	o, err := g.Outline(context.Background(), generation.Request{
		Prompt:    "Keyboard navigation. Speech output",
		Verbosity: "medium",
		Language:  "en",
	})
	require.NoError(t, err)
	require.Len(t, o.Sections, 2)
	assert.Equal(t, "Keyboard navigation", o.Sections[0].Title)
	assert.Equal(t, "keyboard-navigation", o.Sections[0].ID)

	var ids []string
	for _, e := range o.Entries() {
		assert.NotEmpty(t, e.ID)
		ids = append(ids, e.ID)
	}
	assert.Len(t, ids, 4)
}

func TestOpenAIModelRequestsJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		var body openai.ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.NotNil(t, body.ResponseFormat)
		assert.Equal(t, openai.ChatCompletionResponseFormatTypeJSONObject, body.ResponseFormat.Type)
		require.Len(t, body.Messages, 2)
		assert.Equal(t, openai.ChatMessageRoleSystem, body.Messages[0].Role)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{{
				Message: openai.ChatCompletionMessage{
					Role:    openai.ChatMessageRoleAssistant,
					Content: `{"language":"en","verbosity":"short","sections":[{"id":"a","title":"A","body":"b"}]}`,
				},
			}},
		})
	}))
	defer srv.Close()

	m, err := NewOpenAIModel("test-key", srv.URL, "")
	require.NoError(t, err)
	g, err := NewOutlineGenerator(m)
	require.NoError(t, err)

	o, err := g.Outline(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "a", o.Sections[0].ID)
}

func TestNewModel(t *testing.T) {
	ctx := context.Background()

	m, err := NewModel(ctx, Options{Kind: KindEcho})
	require.NoError(t, err)
	assert.Equal(t, KindEcho, m.Name())

	_, err = NewModel(ctx, Options{Kind: KindOpenAI})
	assert.Error(t, err, "missing key")

	m, err = NewModel(ctx, Options{Kind: KindOpenAI, OpenAIAPIKey: "k", Model: DefaultGeminiModel})
	require.NoError(t, err)
	assert.Equal(t, DefaultOpenAIModel, m.Name())

	_, err = NewModel(ctx, Options{Kind: KindHTTP})
	assert.Error(t, err)
	_, err = NewModel(ctx, Options{Kind: "llama"})
	assert.Error(t, err)
}
