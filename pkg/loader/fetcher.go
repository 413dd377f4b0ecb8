package loader

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/dmitrymomot/awesome/pkg/cache"
)

// DefaultMaxSize caps resource bodies read by HTTPFetcher.
const DefaultMaxSize = 10 << 20

// HTTPFetcher fetches resources with GET requests.
type HTTPFetcher struct {
	Client *http.Client
	Header http.Header
	// MaxSize caps the body size; zero means DefaultMaxSize.
	MaxSize int64
}

func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range f.Header {
		req.Header[k] = v
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s %d", ErrBadStatus, rawURL, resp.StatusCode)
	}

	limit := f.MaxSize
	if limit <= 0 {
		limit = DefaultMaxSize
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("%w: %s", ErrTooLarge, rawURL)
	}
	return body, nil
}

// FSFetcher reads resources from a file system such as an embed.FS.
// The URL path, without leading slash, query or fragment, names the file.
type FSFetcher struct {
	FS fs.FS
}

func (f *FSFetcher) Fetch(_ context.Context, rawURL string) ([]byte, error) {
	return fs.ReadFile(f.FS, fsPath(rawURL))
}

// ObjectReader reads whole objects by key. *storage.S3Reader implements it.
type ObjectReader interface {
	ReadAll(ctx context.Context, key string) ([]byte, error)
}

// StorageFetcher reads resources from object storage. For "s3://bucket/key"
// URLs the key is the URL path; other URLs are used as keys verbatim.
type StorageFetcher struct {
	Reader ObjectReader
}

func (f *StorageFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	key := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Scheme != "" {
		key = u.Path
	}
	return f.Reader.ReadAll(ctx, strings.TrimPrefix(key, "/"))
}

// SchemeFetcher routes by URL scheme. The "" entry serves relative and
// scheme-less URLs.
type SchemeFetcher map[string]Fetcher

func (m SchemeFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	f, ok := m[strings.ToLower(u.Scheme)]
	if !ok || f == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
	return f.Fetch(ctx, rawURL)
}

// CachedFetcher keeps fetched bodies in a cache so that a restarted runtime
// does not fetch the same resources again. Failures are not cached.
type CachedFetcher struct {
	Fetcher Fetcher
	Cache   cache.Cache[[]byte]
	TTL     time.Duration
}

func (f *CachedFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	return cache.GetOrSet(ctx, f.Cache, rawURL, func(ctx context.Context) ([]byte, time.Duration, error) {
		body, err := f.Fetcher.Fetch(ctx, rawURL)
		return body, f.TTL, err
	})
}

func fsPath(rawURL string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	}
	p = strings.TrimPrefix(path.Clean("/"+p), "/")
	if p == "" {
		return "."
	}
	return p
}

var (
	_ Fetcher = (*HTTPFetcher)(nil)
	_ Fetcher = (*FSFetcher)(nil)
	_ Fetcher = (*StorageFetcher)(nil)
	_ Fetcher = SchemeFetcher(nil)
	_ Fetcher = (*CachedFetcher)(nil)
)
