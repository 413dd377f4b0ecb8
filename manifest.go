package awesome

import (
	"context"
	"fmt"
	"log/slog"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/awesome/pkg/config"
	"github.com/dmitrymomot/awesome/pkg/constants"
	"github.com/dmitrymomot/awesome/pkg/i18n"
	"github.com/dmitrymomot/awesome/pkg/loader"
)

// Manifest is the declarative body of a script resource.
//
//	constants:
//	  action:
//	    OPEN_DIALOG: open-dialog
//	config:
//	  dialog:
//	    modal: true
//	language:
//	  es:
//	    close: Cerrar
//	stylesheets: [css/dialog.css]
//	scripts: [components/dialog.yaml]
type Manifest struct {
	Constants   map[constants.Namespace]map[string]string `yaml:"constants"`
	Config      config.Tree                               `yaml:"config"`
	Language    map[string]map[string]any                 `yaml:"language"`
	Stylesheets []string                                  `yaml:"stylesheets"`
	Scripts     []string                                  `yaml:"scripts"`
}

// DecodeManifest parses a YAML or JSON manifest.
func DecodeManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidManifest, err)
	}
	return &m, nil
}

// executeScript applies a script body. The config document is merged into
// the configuration tree as is; every other script is a Manifest.
func (rt *Runtime) executeScript(ctx context.Context, res loader.Resource, body []byte) error {
	if res.URL == rt.url("config") {
		patch, err := config.Decode(body)
		if err != nil {
			return err
		}
		rt.config.Merge(patch)
		return nil
	}

	m, err := DecodeManifest(body)
	if err != nil {
		return err
	}
	return rt.apply(ctx, m)
}

// apply validates before writing so a rejected manifest changes nothing.
func (rt *Runtime) apply(ctx context.Context, m *Manifest) error {
	for code := range m.Language {
		if i18n.Normalize(code) == "" {
			return fmt.Errorf("%w: %w", ErrInvalidManifest, i18n.ErrEmptyLanguage)
		}
	}

	if len(m.Constants) > 0 {
		if err := rt.constants.MergeAll(m.Constants); err != nil {
			return err
		}
	}

	if len(m.Config) > 0 {
		rt.config.Merge(m.Config)
	}

	for code, table := range m.Language {
		if err := rt.i18n.AddTable(code, i18n.Flatten(table)); err != nil {
			return err
		}
	}

	for _, p := range m.Stylesheets {
		rt.loader.Load(ctx, rt.resolve(p), loader.KindStylesheet)
	}
	for _, p := range m.Scripts {
		rt.loader.Load(ctx, rt.resolve(p), loader.KindScript)
	}
	return nil
}

// executeLanguage registers a language table named after its file.
func (rt *Runtime) executeLanguage(ctx context.Context, res loader.Resource, body []byte) error {
	table, err := i18n.DecodeTable(body)
	if err != nil {
		return err
	}
	code := i18n.CodeFromPath(res.URL)
	if err := rt.i18n.AddTable(code, table); err != nil {
		return err
	}
	rt.logger.DebugContext(ctx, "language table registered",
		slog.String("code", code),
		slog.Int("keys", len(table)),
	)
	return nil
}
