package outline

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// LoadFile reads an outline from a .yaml/.yml or .json file.
func LoadFile(path string) (*Outline, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read outline %s", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		o, err := ParseYAML(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "could not load outline %s", path)
		}
		return o, nil
	case ".json":
		o, err := Parse(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "could not load outline %s", path)
		}
		return o, nil
	default:
		return nil, errors.Errorf("unsupported outline format %q (want .yaml, .yml or .json)", filepath.Ext(path))
	}
}
