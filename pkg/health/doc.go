// Package health provides HTTP handlers for liveness and readiness probes.
//
// [LivenessHandler] always answers OK while the process runs.
// [ReadinessHandler] runs named [Checks] in parallel under a shared timeout
// and answers 503 when any of them fails:
//
//	r.Get("/healthz", health.LivenessHandler())
//	r.Get("/readyz", health.ReadinessHandler(health.Checks{
//		"runtime": rt.ReadyCheck,
//		"redis":   redis.Healthcheck(client),
//	}))
//
// Responses are plain text unless the client asks for JSON with an
// "Accept: application/json" header or "?format=json".
package health
