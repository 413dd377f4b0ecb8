package loader_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/awesome/pkg/cache"
	"github.com/dmitrymomot/awesome/pkg/loader"
)

func TestHTTPFetcher(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/config.yaml":
			if r.Header.Get("X-Client") != "awesome" {
				http.Error(w, "missing client header", http.StatusBadRequest)
				return
			}
			_, _ = w.Write([]byte("theme: dark\n"))
		case "/big.yaml":
			_, _ = w.Write([]byte(strings.Repeat("x", 64)))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := &loader.HTTPFetcher{
		Client:  srv.Client(),
		Header:  http.Header{"X-Client": []string{"awesome"}},
		MaxSize: 32,
	}
	ctx := context.Background()

	body, err := f.Fetch(ctx, srv.URL+"/config.yaml")
	require.NoError(t, err)
	require.Equal(t, "theme: dark\n", string(body))

	_, err = f.Fetch(ctx, srv.URL+"/missing.yaml")
	require.ErrorIs(t, err, loader.ErrBadStatus)

	_, err = f.Fetch(ctx, srv.URL+"/big.yaml")
	require.ErrorIs(t, err, loader.ErrTooLarge)
}

func TestFSFetcher(t *testing.T) {
	t.Parallel()

	f := &loader.FSFetcher{FS: fstest.MapFS{
		"language/default.yaml": {Data: []byte("hello: Hello\n")},
	}}
	ctx := context.Background()

	for _, u := range []string{"language/default.yaml", "/language/default.yaml", "language/default.yaml?v=3"} {
		body, err := f.Fetch(ctx, u)
		require.NoError(t, err, u)
		require.Equal(t, "hello: Hello\n", string(body))
	}

	_, err := f.Fetch(ctx, "language/es.yaml")
	require.Error(t, err)
}

type fakeObjects map[string]string

func (o fakeObjects) ReadAll(_ context.Context, key string) ([]byte, error) {
	v, ok := o[key]
	if !ok {
		return nil, errors.New("no such key")
	}
	return []byte(v), nil
}

func TestSchemeFetcher(t *testing.T) {
	t.Parallel()

	f := loader.SchemeFetcher{
		"":   &loader.FSFetcher{FS: fstest.MapFS{"a.yaml": {Data: []byte("fs")}}},
		"s3": &loader.StorageFetcher{Reader: fakeObjects{"awesome/a.yaml": "s3"}},
	}
	ctx := context.Background()

	body, err := f.Fetch(ctx, "a.yaml")
	require.NoError(t, err)
	require.Equal(t, "fs", string(body))

	body, err = f.Fetch(ctx, "s3://assets/awesome/a.yaml")
	require.NoError(t, err)
	require.Equal(t, "s3", string(body))

	_, err = f.Fetch(ctx, "ftp://host/a.yaml")
	require.ErrorIs(t, err, loader.ErrUnsupportedScheme)
}

func TestCachedFetcher(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	inner := loader.FetcherFunc(func(_ context.Context, url string) ([]byte, error) {
		calls.Add(1)
		if url == "bad.yaml" {
			return nil, errors.New("boom")
		}
		return []byte(url), nil
	})
	c := cache.NewMemory[[]byte](cache.WithCleanupInterval(0))
	defer c.Close()

	f := &loader.CachedFetcher{Fetcher: inner, Cache: c, TTL: -1}
	ctx := context.Background()

	for range 3 {
		body, err := f.Fetch(ctx, "cached/a.yaml")
		require.NoError(t, err)
		require.Equal(t, "cached/a.yaml", string(body))
	}
	require.Equal(t, int32(1), calls.Load())

	_, err := f.Fetch(ctx, "bad.yaml")
	require.Error(t, err)
	_, err = f.Fetch(ctx, "bad.yaml")
	require.Error(t, err)
	require.Equal(t, int32(3), calls.Load())
}
