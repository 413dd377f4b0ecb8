// Command awesome boots the runtime against a resource tree and serves its
// state over HTTP: health probes, the applied language, the configuration
// tree, the constants and the resource records.
//
// Configuration comes from the environment:
//
//	AWESOME_*      runtime (see awesome.Config)
//	AWESOME_ADDR   listen address, default :8080
//	AWESOME_S3_*   optional bucket serving s3:// resources (see storage.Config)
//	REDIS_*        optional Redis for preferences and the resource cache
//	LOG_*, SENTRY_* logging
package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/awesome"
	"github.com/dmitrymomot/awesome/pkg/cache"
	"github.com/dmitrymomot/awesome/pkg/constants"
	"github.com/dmitrymomot/awesome/pkg/health"
	"github.com/dmitrymomot/awesome/pkg/loader"
	"github.com/dmitrymomot/awesome/pkg/logger"
	"github.com/dmitrymomot/awesome/pkg/redis"
	"github.com/dmitrymomot/awesome/pkg/storage"
)

const shutdownTimeout = 10 * time.Second

type serverConfig struct {
	Addr        string        `env:"ADDR" envDefault:":8080"`
	ResourceTTL time.Duration `env:"RESOURCE_TTL" envDefault:"5m"`
}

func main() {
	logCfg, err := env.ParseAs[logger.Config]()
	if err != nil {
		slog.Error("invalid logger configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	log := logger.New(logCfg, logger.ResourceExtractor())

	if err := run(log); err != nil {
		log.Error("awesome stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	srvCfg, err := env.ParseAsWithOptions[serverConfig](env.Options{Prefix: "AWESOME_"})
	if err != nil {
		return err
	}
	cfg, err := awesome.LoadConfig()
	if err != nil {
		return err
	}

	var shutdown []func() error
	defer func() {
		for i := len(shutdown) - 1; i >= 0; i-- {
			if err := shutdown[i](); err != nil {
				log.Warn("shutdown step failed", slog.String("error", err.Error()))
			}
		}
	}()

	checks := health.Checks{}

	web := &loader.HTTPFetcher{}
	schemes := loader.SchemeFetcher{
		"http":  web,
		"https": web,
		"":      &loader.FSFetcher{FS: os.DirFS(".")},
	}

	s3Cfg, err := env.ParseAsWithOptions[storage.Config](env.Options{Prefix: "AWESOME_S3_"})
	if err != nil {
		return err
	}
	if s3Cfg.Bucket != "" {
		reader, err := storage.New(s3Cfg)
		if err != nil {
			return err
		}
		schemes["s3"] = &loader.StorageFetcher{Reader: reader}
		log.Info("object storage enabled", slog.String("bucket", s3Cfg.Bucket))
	}

	var (
		prefs  cache.Cache[string]
		bodies cache.Cache[[]byte]
	)

	redisCfg, err := env.ParseAs[redis.Config]()
	if err != nil {
		return err
	}
	if redisCfg.URL != "" {
		client, err := redis.Open(ctx, redisCfg, redis.WithLogger(log))
		if err != nil {
			return err
		}
		shutdown = append(shutdown, client.Close)
		checks["redis"] = redis.Healthcheck(client)

		prefs = cache.NewRedis[string](client, nil, cache.WithPrefix("awesome:prefs"))
		bodies = cache.NewRedis[[]byte](client, nil, cache.WithPrefix("awesome:resources"), cache.WithRedisDefaultTTL(srvCfg.ResourceTTL))
	} else {
		mem := cache.NewMemory[[]byte](cache.WithDefaultTTL(srvCfg.ResourceTTL))
		shutdown = append(shutdown, mem.Close)
		bodies = mem
	}

	opts := []awesome.Option{
		awesome.WithConfig(cfg),
		awesome.WithLogger(log),
		awesome.WithFetcher(&loader.CachedFetcher{Fetcher: schemes, Cache: bodies, TTL: srvCfg.ResourceTTL}),
		awesome.WithDispatcher(awesome.DispatcherFunc(func(ctx context.Context, action string, data map[string]string) error {
			log.InfoContext(ctx, "action triggered", slog.String("action", action), slog.Any("data", data))
			return nil
		})),
	}
	if prefs != nil {
		opts = append(opts, awesome.WithPreferences(prefs))
	}

	rt, err := awesome.New(opts...)
	if err != nil {
		return err
	}
	shutdown = append(shutdown, rt.Close)
	checks["runtime"] = rt.ReadyCheck

	if err := rt.Start(ctx); err != nil {
		return err
	}

	return serve(ctx, log, srvCfg.Addr, routes(rt, checks, log))
}

func routes(rt *awesome.Runtime, checks health.Checks, log *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recoverer)

	r.Get("/healthz", health.LivenessHandler())
	r.Get("/readyz", health.ReadinessHandler(checks, health.WithLogger(log)))

	r.Get("/language", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"code":      rt.I18n().Language(),
			"languages": rt.I18n().Languages(),
			"strings":   rt.I18n().Current(),
		})
	})
	r.Put("/language/{code}", func(w http.ResponseWriter, r *http.Request) {
		code, ok := rt.SetLanguage(r.Context(), chi.URLParam(r, "code"))
		if !ok {
			writeJSON(w, http.StatusAccepted, map[string]any{"status": "loading"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"code": code})
	})

	r.Get("/config", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, rt.Config().Tree())
	})

	r.Get("/constants/{namespace}", func(w http.ResponseWriter, r *http.Request) {
		ns := constants.Namespace(chi.URLParam(r, "namespace"))
		if !ns.Valid() {
			writeJSON(w, http.StatusNotFound, map[string]any{"error": constants.ErrUnknownNamespace.Error()})
			return
		}
		writeJSON(w, http.StatusOK, rt.Constants().Get(ns))
	})

	r.Get("/resources", func(w http.ResponseWriter, r *http.Request) {
		type record struct {
			ID    string `json:"id"`
			URL   string `json:"url"`
			Kind  string `json:"kind"`
			State string `json:"state"`
			Error string `json:"error,omitempty"`
		}
		var out []record
		for _, res := range rt.Loader().Resources() {
			rec := record{ID: res.ID.String(), URL: res.URL, Kind: string(res.Kind), State: string(res.State)}
			if res.Err != nil {
				rec.Error = res.Err.Error()
			}
			out = append(out, rec)
		}
		writeJSON(w, http.StatusOK, out)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// serve runs the server until ctx is cancelled, then shuts it down.
func serve(ctx context.Context, log *slog.Logger, addr string, h http.Handler) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", slog.String("address", ln.Addr().String()))
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
