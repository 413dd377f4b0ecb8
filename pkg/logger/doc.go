// Package logger builds the runtime's slog loggers.
//
// [New] writes JSON (or text) records to stdout and, when a Sentry DSN is
// configured, mirrors warnings and errors to Sentry. Errors become Sentry
// issues. Context extractors add request-scoped attributes at log time:
//
//	log := logger.New(cfg, logger.ResourceExtractor())
//
//	ctx = logger.WithResource(ctx, id, "stores/store.yaml", "script")
//	log.InfoContext(ctx, "resource loaded")
//	// {"level":"INFO","msg":"resource loaded","resource":{"id":"...","url":"stores/store.yaml","kind":"script"}}
//
// Library packages default to [NewNope].
package logger
