// Package cache provides a generic key-value [Cache] with in-memory and
// Redis implementations.
//
// The runtime keeps two kinds of state here: the persisted locale
// preference (a Cache[string] under a single key, stored without expiry)
// and fetched resource bodies shared across runtime restarts.
//
//	prefs := cache.NewMemory[string]()
//	defer prefs.Close()
//
//	// or, shared between processes:
//	prefs := cache.NewRedis[string](client, nil, cache.WithPrefix("awesome"))
//
// TTL semantics for Set: positive expires after the duration, zero uses the
// configured default (1 hour), negative never expires.
//
// [GetOrSet] computes a missing value once even under concurrent misses.
// Missing keys return [ErrNotFound].
package cache
