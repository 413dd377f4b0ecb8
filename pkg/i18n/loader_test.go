package i18n_test

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/awesome/pkg/i18n"
)

func TestWithYAMLDir(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"default.yaml": {Data: []byte("hello: Hello\nbuttons:\n  save: Save\n")},
		"es.yml":       {Data: []byte("hello: Ola\n")},
		"notes.txt":    {Data: []byte("ignored")},
	}

	e, err := i18n.New(i18n.WithYAMLDir(fsys))
	require.NoError(t, err)

	require.Equal(t, i18n.Table{"hello": "Hello", "buttons.save": "Save"}, e.Current())
	es, ok := e.Table("es")
	require.True(t, ok)
	require.Equal(t, i18n.Table{"hello": "Ola"}, es)
}

func TestWithJSONDir(t *testing.T) {
	t.Parallel()

	t.Run("loads tables", func(t *testing.T) {
		t.Parallel()
		fsys := fstest.MapFS{
			"default.json": {Data: []byte(`{"count": "${n} files"}`)},
			"de.json":      {Data: []byte(`{"count": "${n} Dateien"}`)},
		}

		e, err := i18n.New(i18n.WithJSONDir(fsys))
		require.NoError(t, err)
		require.True(t, e.HasTable("de"))
	})

	t.Run("invalid file", func(t *testing.T) {
		t.Parallel()
		fsys := fstest.MapFS{"de.json": {Data: []byte(`{`)}}

		_, err := i18n.New(i18n.WithJSONDir(fsys))
		require.ErrorIs(t, err, i18n.ErrInvalidFile)
	})
}

func TestDecodeTable(t *testing.T) {
	t.Parallel()

	table, err := i18n.DecodeTable([]byte("chooseFile: Choose File\nfiles:\n  count: 3\n"))
	require.NoError(t, err)
	require.Equal(t, i18n.Table{"chooseFile": "Choose File", "files.count": "3"}, table)

	_, err = i18n.DecodeTable([]byte("- a"))
	require.ErrorIs(t, err, i18n.ErrInvalidFile)
}

func TestCodeFromPath(t *testing.T) {
	t.Parallel()

	require.Equal(t, "es-MX", i18n.CodeFromPath("/awesome/language/es-MX.yaml"))
	require.Equal(t, "default", i18n.CodeFromPath("language/default.json?v=2"))
	require.Equal(t, "fr", i18n.CodeFromPath("https://cdn.example.com/lang/FR.yaml"))
}
