// Package event provides the named-signal bus the runtime uses to report
// resource, language and readiness transitions.
//
// Subscribers register per signal name and are invoked synchronously, in
// registration order, on the goroutine that publishes. Handlers must not block:
// a handler that waits on another signal deadlocks the publisher.
//
// # Signals
//
//   - ResourceLoaded{URL}  a script or stylesheet finished loading
//   - ResourceError{URL}   a resource failed to fetch or execute
//   - LanguageLoaded{URL}  a language table finished loading
//   - LanguageSet{Code}    a locale was resolved and applied
//   - WantsLanguage{Code}  a locale was requested but its table is still loading
//   - Ready                pending loads drained to zero
//
// # Usage
//
//	bus := event.NewBus()
//	unsubscribe := bus.Subscribe(event.LanguageSet, func(ctx context.Context, e event.Event) {
//		log.Info("language applied", slog.String("code", e.Code))
//	})
//	defer unsubscribe()
package event
