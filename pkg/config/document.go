package config

import (
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"
)

// Decode parses a YAML (or JSON) mapping into a patch.
func Decode(data []byte) (Tree, error) {
	var t Tree
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDocument, err)
	}
	if t == nil {
		t = make(Tree)
	}
	return t, nil
}

// LoadFile reads name from fsys and decodes it into a patch.
func LoadFile(fsys fs.FS, name string) (Tree, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", name, err)
	}
	return Decode(data)
}
