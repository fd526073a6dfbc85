package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-go-golems/naofs/pkg/generation"
	"github.com/go-go-golems/naofs/pkg/generator"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeModel struct {
	text string
	err  error
	last generator.Prompt
}

func (f *fakeModel) Name() string { return "fake" }

func (f *fakeModel) Complete(ctx context.Context, p generator.Prompt) (string, error) {
	f.last = p
	return f.text, f.err
}

func newTestServer(t *testing.T, model generator.Model, options ...Option) *httptest.Server {
	t.Helper()
	g, err := generator.NewOutlineGenerator(model)
	require.NoError(t, err)
	ts := httptest.NewServer(NewServer(g, options...).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, ts *httptest.Server, body string) (int, map[string]any) {
	t.Helper()
	resp, err := http.Post(ts.URL+"/api/outline", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	ret := map[string]any{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ret))
	return resp.StatusCode, ret
}

func TestGenerateOutline(t *testing.T) {
	model := &fakeModel{text: `{"sections":[{"title":"Getting Started","body":"b"}]}`}
	ts := newTestServer(t, model)

	status, body := post(t, ts, `{"prompt":"  go basics ","verbosity":"short","language":"de"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "de", body["language"])
	assert.Equal(t, "short", body["verbosity"])
	sections := body["sections"].([]any)
	require.Len(t, sections, 1)
	assert.Equal(t, "getting-started", sections[0].(map[string]any)["id"])

	assert.Equal(t, "go basics", model.last.Request.Prompt)
	assert.Contains(t, model.last.User, "Topic: go basics")
}

func TestMissingPrompt(t *testing.T) {
	ts := newTestServer(t, &fakeModel{})

	for _, body := range []string{`{}`, `{"prompt":"   "}`} {
		status, resp := post(t, ts, body)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, MissingPromptMessage, resp["error"])
	}
}

func TestInvalidVerbosity(t *testing.T) {
	ts := newTestServer(t, &fakeModel{})
	status, resp := post(t, ts, `{"prompt":"x","verbosity":"epic"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, resp["error"], "Verbosity must be one of")
}

func TestInvalidModelAnswers(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		message string
	}{
		{"not json", "Sure! Here is your outline", InvalidJSONMessage},
		{"no sections", `{"title":"x"}`, InvalidOutlineMessage},
		{"empty answer", "", InvalidOutlineMessage},
		{"sections not an array", `{"sections":{}}`, InvalidOutlineMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, &fakeModel{text: tt.text})
			status, resp := post(t, ts, `{"prompt":"x"}`)
			assert.Equal(t, http.StatusBadGateway, status)
			assert.Equal(t, tt.message, resp["error"])
		})
	}
}

func TestModelFailureStatus(t *testing.T) {
	ts := newTestServer(t, &fakeModel{err: &generator.ModelError{StatusCode: 429, Err: errors.New("quota exceeded")}})
	status, resp := post(t, ts, `{"prompt":"x"}`)
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.Equal(t, "quota exceeded", resp["error"])

	ts = newTestServer(t, &fakeModel{err: errors.New("boom")})
	status, _ = post(t, ts, `{"prompt":"x"}`)
	assert.Equal(t, http.StatusInternalServerError, status)
}

func TestBodyLimit(t *testing.T) {
	ts := newTestServer(t, &fakeModel{}, WithMaxBodyBytes(16))
	status, resp := post(t, ts, `{"prompt":"`+strings.Repeat("a", 64)+`"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, status)
	assert.NotEmpty(t, resp["error"])
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t, &fakeModel{}, WithCORSOrigin("http://localhost:3000"))
	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/outline", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestSchemaAndMetrics(t *testing.T) {
	ts := newTestServer(t, &fakeModel{text: `{"sections":[]}`})
	post(t, ts, `{"prompt":"x"}`)

	resp, err := http.Get(ts.URL + "/api/outline/schema")
	require.NoError(t, err)
	b, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, bytes.Contains(b, []byte(`"sections"`)))

	resp, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	b, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(b), `naofs_outline_requests_total{outcome="ok",status="2xx"} 1`)
}

func TestServerAgainstHTTPClient(t *testing.T) {
	ts := newTestServer(t, generator.NewEchoModel())
	client := generation.NewHTTPClient(ts.URL)

	o, err := client.Generate(context.Background(), generation.Request{Prompt: "One. Two.", Verbosity: "medium", Language: "en"})
	require.NoError(t, err)
	require.Len(t, o.Sections, 2)

	ts = newTestServer(t, &fakeModel{text: "nope"})
	client = generation.NewHTTPClient(ts.URL)
	_, err = client.Generate(context.Background(), generation.Request{Prompt: "x", Verbosity: "medium", Language: "en"})
	var transport *generation.TransportError
	require.True(t, errors.As(err, &transport))
	assert.Equal(t, http.StatusBadGateway, transport.StatusCode)
	assert.Equal(t, "Error: "+InvalidJSONMessage, generation.StatusText(err))
}
