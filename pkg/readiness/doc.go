// Package readiness tracks outstanding resource loads and derives a single
// "ready" transition from them.
//
// Every started load calls [Tracker.Begin]; every completion or failure calls
// [Tracker.Done]. When the pending count drains to zero the tracker does not
// flip immediately: it schedules a re-check after a short settle delay so that
// loads queued by completion handlers in the same turn can register first.
// Only when the re-check still sees zero pending loads does the tracker become
// ready and notify its observers.
//
// A failed load decrements exactly like a successful one, so an unreachable
// resource never blocks readiness. A load that never completes keeps the tracker
// not-ready forever; bounding that is the loader's job (see loader.WithLoadTimeout).
//
// Observers receive first=true only on the first ready transition since the
// tracker was created (or reset). Later transitions, caused by lazy loads after
// startup, report first=false.
//
//	t := readiness.New(readiness.WithSettleDelay(10 * time.Millisecond))
//	t.OnReady(func(ctx context.Context, first bool) {
//		if first {
//			// one-time startup work
//		}
//	})
package readiness
