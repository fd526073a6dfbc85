package outline

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const missingSectionsReason = "missing 'sections' array"

// responseSchema is the minimal contract a generator response must satisfy.
// Nodes are not required to carry ids or titles; malformed nodes are passed
// through to the reader as-is.
const responseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "definitions": {
    "node": {
      "type": "object",
      "properties": {
        "id": {"type": ["string", "null"]},
        "title": {"type": ["string", "null"]},
        "body": {"type": ["string", "null"]},
        "children": {
          "type": ["array", "null"],
          "items": {"$ref": "#/definitions/node"}
        }
      }
    }
  },
  "type": "object",
  "required": ["sections"],
  "properties": {
    "language": {"type": "string"},
    "verbosity": {"type": "string"},
    "sections": {
      "type": "array",
      "items": {"$ref": "#/definitions/node"}
    }
  }
}`

var responseSchemaLoader = gojsonschema.NewStringLoader(responseSchema)

// ShapeError reports a generator payload that is not a valid outline.
type ShapeError struct {
	Reason string
	// Raw is the offending payload, kept for diagnostics.
	Raw string
}

func (e *ShapeError) Error() string {
	return "invalid outline: " + e.Reason
}

// Parse decodes and validates a JSON generator response.
func Parse(raw []byte) (*Outline, error) {
	if !json.Valid(raw) {
		return nil, &ShapeError{Reason: "not valid JSON", Raw: string(raw)}
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, &ShapeError{Reason: "expected a JSON object", Raw: string(raw)}
	}
	if _, ok := probe["sections"]; !ok {
		return nil, &ShapeError{Reason: missingSectionsReason, Raw: string(raw)}
	}

	result, err := gojsonschema.Validate(responseSchemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, &ShapeError{Reason: err.Error(), Raw: string(raw)}
	}
	if !result.Valid() {
		descriptions := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			descriptions = append(descriptions, desc.String())
		}
		return nil, &ShapeError{
			Reason: fmt.Sprintf("schema validation failed: %s", strings.Join(descriptions, "; ")),
			Raw:    string(raw),
		}
	}

	ret := &Outline{}
	if err := json.Unmarshal(raw, ret); err != nil {
		return nil, &ShapeError{Reason: err.Error(), Raw: string(raw)}
	}
	return ret, nil
}
