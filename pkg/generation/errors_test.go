package generation

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestStatusText(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil clears", nil, ""},
		{"validation", &ValidationError{Field: "prompt", Message: EmptyPromptMessage}, "Error: Prompt is empty"},
		{"abort", &AbortError{}, "Canceled"},
		{"wrapped abort", errors.Wrap(&AbortError{}, "generate"), "Canceled"},
		{"http message", &TransportError{StatusCode: 502, Message: "bad json"}, "Error: bad json"},
		{"http without message", &TransportError{StatusCode: 500}, "Error: HTTP 500"},
		{"network", &TransportError{Message: "connection refused"}, "Error: connection refused"},
		{"shape", &ResponseShapeError{Reason: "missing 'sections' array"}, "Error: invalid outline: missing 'sections' array"},
		{"other", errors.New("disk full"), "Error: disk full"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusText(tt.err))
		})
	}
}

func TestTransportErrorKeepsStatusCode(t *testing.T) {
	assert.Equal(t, "HTTP 502: bad json", (&TransportError{StatusCode: 502, Message: "bad json"}).Error())
	assert.Equal(t, "HTTP 503", (&TransportError{StatusCode: 503}).Error())
	assert.Equal(t, "connection refused", (&TransportError{Message: "connection refused"}).Error())
}
