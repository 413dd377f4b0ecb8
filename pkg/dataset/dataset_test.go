package dataset_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/awesome/pkg/dataset"
)

func TestMerge(t *testing.T) {
	t.Parallel()

	t.Run("element data wins", func(t *testing.T) {
		t.Parallel()
		data := map[string]string{"title": "Mine"}
		got := dataset.Merge(data, map[string]string{"title": "Default", "modal": "true"})

		require.Equal(t, map[string]string{"title": "Mine", "modal": "true"}, got)
		require.Equal(t, got, data, "data is updated in place")
	})

	t.Run("nil data", func(t *testing.T) {
		t.Parallel()
		got := dataset.Merge(nil, map[string]string{"modal": "true"})
		require.Equal(t, map[string]string{"modal": "true"}, got)
	})
}

func TestAttributeFromData(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key  string
		want string
		ok   bool
	}{
		{key: "data-title", want: "title", ok: true},
		{key: "data-", ok: false},
		{key: "title", ok: false},
		{key: "aria-data-title", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Parallel()
			got, ok := dataset.AttributeFromData(tt.key)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestUpdateAttribute(t *testing.T) {
	t.Parallel()

	attrs := map[string]string{}
	require.True(t, dataset.UpdateAttribute(attrs, "data-src", "a.mp4"))
	require.False(t, dataset.UpdateAttribute(attrs, "src", "b.mp4"))
	require.Equal(t, map[string]string{"src": "a.mp4"}, attrs)
}
