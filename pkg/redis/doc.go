// Package redis opens go-redis clients from a [Config].
//
// The runtime uses Redis to persist the chosen locale across processes
// (see cache.NewRedis). Open pings the server and retries with a linear
// backoff before giving up with [ErrUnreachable]:
//
//	client, err := redis.Open(ctx, redis.Config{URL: "redis://localhost:6379/0"},
//		redis.WithLogger(log),
//	)
//	defer client.Close()
//
// [Healthcheck] adapts the client to the health package's check signature.
package redis
