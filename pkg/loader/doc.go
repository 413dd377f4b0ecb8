// Package loader requests runtime resources exactly once per URL and reports
// their completion.
//
// Every URL passed to [Loader.Load] is recorded, and later requests for the
// same URL are ignored, even when the first attempt failed. Three kinds are
// supported:
//
//   - [KindScript]: completes and executes in request order, even when a
//     later script arrives first.
//   - [KindLanguage]: completes as soon as it arrives.
//   - [KindStylesheet]: completes as soon as it arrives and never holds back
//     readiness.
//
// Script and language loads call Tracker.Begin before Load returns and
// Tracker.Done after their completion signal has been published. Each
// started load publishes exactly one of event.ResourceLoaded,
// event.LanguageLoaded or event.ResourceError.
//
//	l := loader.New(&loader.FSFetcher{FS: assets},
//		loader.WithTracker(tracker),
//		loader.WithPublisher(bus),
//		loader.WithExecutor(loader.KindScript, manifests),
//		loader.WithMaxConcurrent(8),
//	)
//	l.Load(ctx, "stores/store.yaml", loader.KindScript)
//
// Fetchers are provided for HTTP ([HTTPFetcher]), file systems
// ([FSFetcher]), object storage ([StorageFetcher]) and scheme routing
// ([SchemeFetcher]). [CachedFetcher] memoizes bodies in a cache.Cache.
//
// Loads never time out unless [WithLoadTimeout] is set. Failed loads are
// not retried.
package loader
