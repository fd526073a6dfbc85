package outline

import (
	_ "embed"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed default-outline.yaml
var defaultOutlineYAML []byte

// Default returns a fresh copy of the built-in sample outline seeded at
// startup and restored by Refresh.
func Default() *Outline {
	o, err := ParseYAML(defaultOutlineYAML)
	if err != nil {
		panic(errors.Wrap(err, "embedded default outline is invalid"))
	}
	return o
}

// ParseYAML decodes a YAML outline document. The same shape rules as Parse
// apply: the document must be a mapping with a sections sequence.
func ParseYAML(raw []byte) (*Outline, error) {
	var doc map[string]interface{}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, &ShapeError{Reason: "not valid YAML: " + err.Error(), Raw: string(raw)}
	}
	if doc == nil {
		return nil, &ShapeError{Reason: "empty document", Raw: string(raw)}
	}
	if _, ok := doc["sections"].([]interface{}); !ok {
		return nil, &ShapeError{Reason: missingSectionsReason, Raw: string(raw)}
	}

	ret := &Outline{}
	if err := yaml.Unmarshal(raw, ret); err != nil {
		return nil, &ShapeError{Reason: err.Error(), Raw: string(raw)}
	}
	return ret, nil
}
