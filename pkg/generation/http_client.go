package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-go-golems/naofs/pkg/outline"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	DefaultEndpoint = "http://localhost:5000"
	OutlinePath     = "/api/outline"
	DefaultTimeout  = 60 * time.Second
)

// ErrorPayload is the JSON body of a failed generator response.
type ErrorPayload struct {
	Error   string `json:"error"`
	Raw     string `json:"raw,omitempty"`
	Details string `json:"details,omitempty"`
}

// HTTPClient posts requests to a generation server.
type HTTPClient struct {
	endpoint string
	client   *http.Client
	timeout  time.Duration
}

type HTTPClientOption func(*HTTPClient)

func WithHTTPClient(c *http.Client) HTTPClientOption {
	return func(h *HTTPClient) {
		h.client = c
	}
}

// WithTimeout bounds each request. Zero disables the bound.
func WithTimeout(d time.Duration) HTTPClientOption {
	return func(h *HTTPClient) {
		h.timeout = d
	}
}

func NewHTTPClient(endpoint string, options ...HTTPClientOption) *HTTPClient {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	h := &HTTPClient{
		endpoint: strings.TrimRight(endpoint, "/"),
		client:   http.DefaultClient,
		timeout:  DefaultTimeout,
	}
	for _, o := range options {
		o(h)
	}
	return h
}

func (h *HTTPClient) URL() string {
	return h.endpoint + OutlinePath
}

func (h *HTTPClient) Generate(ctx context.Context, req Request) (*outline.Outline, error) {
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(err, "could not encode request")
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, h.URL(), bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "could not create request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	log.Debug().Str("url", h.URL()).Str("verbosity", req.Verbosity).Str("language", req.Language).Msg("requesting outline")

	resp, err := h.client.Do(httpReq)
	if err != nil {
		return nil, transportFailure(ctx, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportFailure(ctx, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		payload := ErrorPayload{}
		_ = json.Unmarshal(raw, &payload)
		return nil, &TransportError{
			StatusCode: resp.StatusCode,
			Message:    payload.Error,
			Raw:        payload.Raw,
		}
	}

	o, err := outline.Parse(raw)
	if err != nil {
		var shape *outline.ShapeError
		if errors.As(err, &shape) {
			return nil, &ResponseShapeError{Reason: shape.Reason, Raw: shape.Raw}
		}
		return nil, err
	}
	return o, nil
}

func transportFailure(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return &AbortError{Cause: err}
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &TransportError{Message: "request timed out", Err: err}
	}
	return &TransportError{Message: err.Error(), Err: err}
}

var _ Client = (*HTTPClient)(nil)
