package i18n_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/awesome/pkg/cache"
	"github.com/dmitrymomot/awesome/pkg/event"
	"github.com/dmitrymomot/awesome/pkg/i18n"
)

// fakeResources records requests; requested URLs count as present afterwards.
type fakeResources struct {
	mu        sync.Mutex
	present   map[string]bool
	requested []string
}

func newFakeResources(present ...string) *fakeResources {
	r := &fakeResources{present: make(map[string]bool)}
	for _, p := range present {
		r.present[p] = true
	}
	return r
}

func (r *fakeResources) Has(url string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.present[url]
}

func (r *fakeResources) Request(_ context.Context, url string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.present[url] {
		return false
	}
	r.present[url] = true
	r.requested = append(r.requested, url)
	return true
}

// closedResources refuses every request, like a closed loader.
type closedResources struct{}

func (closedResources) Has(string) bool                      { return false }
func (closedResources) Request(context.Context, string) bool { return false }

func langURL(code string) string { return "/language/" + code + ".yaml" }

type recorder struct {
	mu     sync.Mutex
	events []event.Event
}

func (r *recorder) Publish(_ context.Context, e event.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func newEngine(t *testing.T, opts ...i18n.Option) *i18n.Engine {
	t.Helper()
	base := []i18n.Option{
		i18n.WithDefaultTable(i18n.Table{"hello": "Hello", "bye": "Bye"}),
		i18n.WithTable("es", i18n.Table{"hello": "Ola"}),
	}
	e, err := i18n.New(append(base, opts...)...)
	require.NoError(t, err)
	return e
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("current starts as default", func(t *testing.T) {
		t.Parallel()
		e := newEngine(t)
		require.Equal(t, i18n.DefaultCode, e.Language())
		require.Equal(t, i18n.Table{"hello": "Hello", "bye": "Bye"}, e.Current())
	})

	t.Run("rejects empty table code", func(t *testing.T) {
		t.Parallel()
		_, err := i18n.New(i18n.WithTable("", i18n.Table{"a": "b"}))
		require.ErrorIs(t, err, i18n.ErrEmptyLanguage)
		require.ErrorIs(t, err, i18n.ErrInvalidOption)
	})

	t.Run("rejects nil resources", func(t *testing.T) {
		t.Parallel()
		_, err := i18n.New(i18n.WithResources(nil, langURL))
		require.ErrorIs(t, err, i18n.ErrNilResources)
	})

	t.Run("lists languages default first", func(t *testing.T) {
		t.Parallel()
		e := newEngine(t, i18n.WithTable("de", i18n.Table{}))
		require.Equal(t, []string{"default", "de", "es"}, e.Languages())
	})
}

func TestEngine_Resolve(t *testing.T) {
	t.Parallel()

	t.Run("exact match overlays default", func(t *testing.T) {
		t.Parallel()
		e := newEngine(t)

		code, ok := e.Resolve(context.Background(), "es")
		require.True(t, ok)
		require.Equal(t, "es", code)
		require.Equal(t, i18n.Table{"hello": "Ola", "bye": "Bye"}, e.Current())
	})

	t.Run("empty request uses default", func(t *testing.T) {
		t.Parallel()
		e := newEngine(t)

		code, ok := e.Resolve(context.Background(), "")
		require.True(t, ok)
		require.Equal(t, i18n.DefaultCode, code)
	})

	t.Run("refused request continues the cascade", func(t *testing.T) {
		t.Parallel()
		rec := &recorder{}
		e := newEngine(t, i18n.WithResources(closedResources{}, langURL), i18n.WithPublisher(rec))

		code, ok := e.Resolve(context.Background(), "it-IT")
		require.True(t, ok)
		require.Equal(t, i18n.DefaultCode, code)

		rec.mu.Lock()
		defer rec.mu.Unlock()
		for _, ev := range rec.events {
			require.NotEqual(t, event.WantsLanguage, ev.Name)
		}
	})

	t.Run("region code falls back to primary without resources", func(t *testing.T) {
		t.Parallel()
		e := newEngine(t)

		code, ok := e.Resolve(context.Background(), "es-MX")
		require.True(t, ok)
		require.Equal(t, "es", code)
		require.Equal(t, "Ola", e.Current()["hello"])
	})

	t.Run("unknown code falls back to default", func(t *testing.T) {
		t.Parallel()
		e := newEngine(t)

		code, ok := e.Resolve(context.Background(), "xx")
		require.True(t, ok)
		require.Equal(t, i18n.DefaultCode, code)
		require.Equal(t, i18n.Table{"hello": "Hello", "bye": "Bye"}, e.Current())
	})

	t.Run("codes are normalized", func(t *testing.T) {
		t.Parallel()
		e := newEngine(t, i18n.WithTable("pt-BR", i18n.Table{"hello": "Oi"}))

		code, ok := e.Resolve(context.Background(), "pt_br")
		require.True(t, ok)
		require.Equal(t, "pt-BR", code)
	})

	t.Run("missing region resource is requested and deferred", func(t *testing.T) {
		t.Parallel()
		res := newFakeResources()
		rec := &recorder{}
		prefs := cache.NewMemory[string](cache.WithCleanupInterval(0))
		defer prefs.Close()

		e := newEngine(t,
			i18n.WithResources(res, langURL),
			i18n.WithPublisher(rec),
			i18n.WithPreferences(prefs),
		)

		ctx := context.Background()
		code, ok := e.Resolve(ctx, "es-MX")
		require.False(t, ok)
		require.Empty(t, code)
		require.Equal(t, []string{"/language/es-MX.yaml"}, res.requested)
		require.Equal(t, i18n.DefaultCode, e.Language(), "current must not change while deferred")

		pref, err := prefs.Get(ctx, i18n.PreferenceKey)
		require.NoError(t, err)
		require.Equal(t, "es-MX", pref)

		require.Len(t, rec.events, 1)
		require.Equal(t, event.WantsLanguage, rec.events[0].Name)
		require.Equal(t, "es-MX", rec.events[0].Code)

		// The resource failed: resolving again skips to the primary table.
		code, ok = e.Resolve(ctx, "es-MX")
		require.True(t, ok)
		require.Equal(t, "es", code)
		require.Len(t, res.requested, 1)
	})

	t.Run("loaded region table wins on re-resolve", func(t *testing.T) {
		t.Parallel()
		res := newFakeResources()
		e := newEngine(t, i18n.WithResources(res, langURL))

		ctx := context.Background()
		_, ok := e.Resolve(ctx, "es-MX")
		require.False(t, ok)

		require.NoError(t, e.AddTable("es-MX", i18n.Table{"hello": "Qué onda"}))
		code, ok := e.Resolve(ctx, "es-MX")
		require.True(t, ok)
		require.Equal(t, "es-MX", code)
		require.Equal(t, i18n.Table{"hello": "Qué onda", "bye": "Bye"}, e.Current())
	})

	t.Run("unknown primary is requested then falls to default", func(t *testing.T) {
		t.Parallel()
		res := newFakeResources()
		e := newEngine(t, i18n.WithResources(res, langURL))

		ctx := context.Background()
		_, ok := e.Resolve(ctx, "xx")
		require.False(t, ok)
		require.Equal(t, []string{"/language/xx.yaml"}, res.requested)

		code, ok := e.Resolve(ctx, "xx")
		require.True(t, ok)
		require.Equal(t, i18n.DefaultCode, code)
	})

	t.Run("region cascade requests region then primary", func(t *testing.T) {
		t.Parallel()
		res := newFakeResources()
		e, err := i18n.New(
			i18n.WithDefaultTable(i18n.Table{"hello": "Hello"}),
			i18n.WithResources(res, langURL),
		)
		require.NoError(t, err)

		ctx := context.Background()
		_, ok := e.Resolve(ctx, "fr-CA")
		require.False(t, ok)
		_, ok = e.Resolve(ctx, "fr-CA")
		require.False(t, ok)
		code, ok := e.Resolve(ctx, "fr-CA")
		require.True(t, ok)
		require.Equal(t, i18n.DefaultCode, code)
		require.Equal(t, []string{"/language/fr-CA.yaml", "/language/fr.yaml"}, res.requested)
	})

	t.Run("publishes language-set and persists resolved code", func(t *testing.T) {
		t.Parallel()
		rec := &recorder{}
		prefs := cache.NewMemory[string](cache.WithCleanupInterval(0))
		defer prefs.Close()
		e := newEngine(t, i18n.WithPublisher(rec), i18n.WithPreferences(prefs))

		ctx := context.Background()
		_, ok := e.Resolve(ctx, "es-AR")
		require.True(t, ok)

		require.Equal(t, []event.Event{{Name: event.LanguageSet, Code: "es"}}, rec.events)
		pref, ok := e.Preference(ctx)
		require.True(t, ok)
		require.Equal(t, "es", pref)
	})
}

func TestEngine_Detect(t *testing.T) {
	t.Parallel()

	t.Run("stored preference wins", func(t *testing.T) {
		t.Parallel()
		prefs := cache.NewMemory[string](cache.WithCleanupInterval(0))
		defer prefs.Close()
		ctx := context.Background()
		require.NoError(t, prefs.Set(ctx, i18n.PreferenceKey, "es", -1))

		e := newEngine(t, i18n.WithPreferences(prefs))
		code, ok := e.Detect(ctx, "de-DE,de;q=0.9")
		require.True(t, ok)
		require.Equal(t, "es", code)
	})

	t.Run("negotiates client language against tables", func(t *testing.T) {
		t.Parallel()
		e := newEngine(t, i18n.WithTable("de", i18n.Table{"hello": "Hallo"}))

		code, ok := e.Detect(context.Background(), "fr;q=0.5,de-AT;q=0.9")
		require.True(t, ok)
		require.Equal(t, "de", code)
	})

	t.Run("requests resource for unmatched client language", func(t *testing.T) {
		t.Parallel()
		res := newFakeResources()
		e := newEngine(t, i18n.WithResources(res, langURL))

		_, ok := e.Detect(context.Background(), "it-IT,it;q=0.8")
		require.False(t, ok)
		require.Equal(t, []string{"/language/it-IT.yaml"}, res.requested)
	})

	t.Run("no preference and no client language resolves default", func(t *testing.T) {
		t.Parallel()
		e := newEngine(t)
		code, ok := e.Detect(context.Background(), "")
		require.True(t, ok)
		require.Equal(t, i18n.DefaultCode, code)
	})

	t.Run("preference round-trips across engines", func(t *testing.T) {
		t.Parallel()
		prefs := cache.NewMemory[string](cache.WithCleanupInterval(0))
		defer prefs.Close()
		ctx := context.Background()

		first := newEngine(t, i18n.WithPreferences(prefs))
		_, ok := first.Resolve(ctx, "es")
		require.True(t, ok)

		restarted := newEngine(t, i18n.WithPreferences(prefs))
		_, ok = restarted.Detect(ctx, "")
		require.True(t, ok)
		require.Equal(t, first.Current(), restarted.Current())
	})
}

func TestEngine_DynamicString(t *testing.T) {
	t.Parallel()

	t.Run("substitutes params", func(t *testing.T) {
		t.Parallel()
		e, err := i18n.New(i18n.WithDefaultTable(i18n.Table{"greet": "Hi ${name}"}))
		require.NoError(t, err)

		got, ok := e.DynamicString("greet", i18n.M{"name": "Ann"})
		require.True(t, ok)
		require.Equal(t, "Hi Ann", got)
	})

	t.Run("missing key returns marker and calls handler", func(t *testing.T) {
		t.Parallel()
		var missing []string
		e, err := i18n.New(i18n.WithMissingKeyHandler(func(key string) {
			missing = append(missing, key)
		}))
		require.NoError(t, err)

		got, ok := e.DynamicString("missing", i18n.M{"name": "Ann"})
		require.False(t, ok)
		require.Empty(t, got)
		require.Equal(t, []string{"missing"}, missing)
	})

	t.Run("falls back to default keys", func(t *testing.T) {
		t.Parallel()
		e := newEngine(t)
		_, ok := e.Resolve(context.Background(), "es")
		require.True(t, ok)

		got, ok := e.DynamicString("bye", nil)
		require.True(t, ok)
		require.Equal(t, "Bye", got)
	})
}

func TestEngine_AddTable(t *testing.T) {
	t.Parallel()

	t.Run("extending the applied table refreshes current", func(t *testing.T) {
		t.Parallel()
		e := newEngine(t)
		_, ok := e.Resolve(context.Background(), "es")
		require.True(t, ok)

		require.NoError(t, e.AddTable("es", i18n.Table{"bye": "Adiós"}))
		require.Equal(t, "Adiós", e.Current()["bye"])
	})

	t.Run("extending default refreshes fallbacks", func(t *testing.T) {
		t.Parallel()
		e := newEngine(t)
		_, ok := e.Resolve(context.Background(), "es")
		require.True(t, ok)

		require.NoError(t, e.AddTable(i18n.DefaultCode, i18n.Table{"new": "New"}))
		require.Equal(t, "New", e.Current()["new"])
		require.Equal(t, "Ola", e.Current()["hello"])
	})

	t.Run("reset keeps only empty default", func(t *testing.T) {
		t.Parallel()
		e := newEngine(t)
		e.Reset()
		require.Equal(t, []string{i18n.DefaultCode}, e.Languages())
		require.Empty(t, e.Current())
	})
}
