package logger

import (
	"context"
	"log/slog"
)

type resourceKey struct{}

type resourceInfo struct {
	id   string
	url  string
	kind string
}

// WithResource tags ctx with the resource being loaded.
func WithResource(ctx context.Context, id, url, kind string) context.Context {
	return context.WithValue(ctx, resourceKey{}, resourceInfo{id: id, url: url, kind: kind})
}

// ResourceExtractor adds a "resource" group to records logged with a
// context tagged by WithResource.
func ResourceExtractor() ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		info, ok := ctx.Value(resourceKey{}).(resourceInfo)
		if !ok {
			return slog.Attr{}, false
		}
		return slog.Group("resource",
			slog.String("id", info.id),
			slog.String("url", info.url),
			slog.String("kind", info.kind),
		), true
	}
}
