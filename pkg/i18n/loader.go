package i18n

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"maps"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// WithJSONDir returns an Option that loads tables from JSON files in an fs.FS.
// File convention: {code}.json at the root; default.json holds the default table.
//
// Example structure:
//
//	default.json
//	es.json
//	es-MX.json
func WithJSONDir(fsys fs.FS) Option {
	return func(e *Engine) error {
		return loadDir(e, fsys, ".json", func(data []byte, v any) error {
			return json.Unmarshal(data, v)
		})
	}
}

// WithYAMLDir returns an Option that loads tables from YAML files in an fs.FS.
// File convention: {code}.yaml or {code}.yml at the root.
func WithYAMLDir(fsys fs.FS) Option {
	return func(e *Engine) error {
		return loadDir(e, fsys, ".yaml", func(data []byte, v any) error {
			return yaml.Unmarshal(data, v)
		})
	}
}

// DecodeTable parses a YAML or JSON language document. Nested mappings are
// flattened into dot-separated keys.
func DecodeTable(data []byte) (Table, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidFile, err)
	}
	return flattenTranslations(raw, ""), nil
}

// Flatten converts a nested mapping into a Table with dot-separated keys.
// Non-string leaves are formatted with %v.
func Flatten(m map[string]any) Table {
	return flattenTranslations(m, "")
}

// CodeFromPath extracts the locale code from a resource path ("lang/es-MX.yaml" → "es-MX").
func CodeFromPath(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	base := path.Base(p)
	return Normalize(strings.TrimSuffix(base, path.Ext(base)))
}

func loadDir(e *Engine, fsys fs.FS, ext string, unmarshal func([]byte, any) error) error {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading language directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		fileExt := strings.ToLower(path.Ext(name))

		// Case-insensitive comparison handles both .YAML and .yaml extensions across different systems
		var matches bool
		if ext == ".yaml" {
			matches = fileExt == ".yaml" || fileExt == ".yml"
		} else {
			matches = fileExt == ext
		}
		if !matches {
			continue
		}

		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading %q: %w", name, err)
		}

		var raw map[string]any
		if err := unmarshal(data, &raw); err != nil {
			return fmt.Errorf("%w: parsing %q: %s", ErrInvalidFile, name, err)
		}

		code := CodeFromPath(name)
		if code == "" {
			return fmt.Errorf("%w: file %q has no language code", ErrInvalidFile, name)
		}
		e.mergeTable(code, flattenTranslations(raw, ""))
	}

	return nil
}

func flattenTranslations(data map[string]any, prefix string) Table {
	result := make(Table)

	for key, value := range data {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		switch v := value.(type) {
		case string:
			result[fullKey] = v
		case map[string]any:
			maps.Copy(result, flattenTranslations(v, fullKey))
		case map[string]string:
			for subKey, subVal := range v {
				result[fullKey+"."+subKey] = subVal
			}
		case nil:
			result[fullKey] = ""
		default:
			result[fullKey] = fmt.Sprintf("%v", v)
		}
	}

	return result
}
