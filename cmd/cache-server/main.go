// Command cache-server runs a small JSON API with response caching, as a
// demonstration of wiring the cache into a chi router. Cached routes carry
// Cache-Control, Expires, ETag, and X-FastAPI-Cache headers and honor
// If-None-Match conditional requests.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/a-luna/fastapi-redis-cache/pkg/cache"
	"github.com/a-luna/fastapi-redis-cache/pkg/httpcache"
	"github.com/a-luna/fastapi-redis-cache/pkg/logging"
)

func main() {
	logger := logging.Setup(logging.Config{
		Level:  logging.LogLevel(getEnv("LOG_LEVEL", "info")),
		Pretty: os.Getenv("PRETTY_LOGS") == "true",
		Output: os.Stderr,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to open cache store")
	}
	defer closeStore()

	engine, err := cache.New(cache.Config{
		Prefix:     getEnv("CACHE_PREFIX", "demo"),
		DefaultTTL: cache.OneHour,
	}, store)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to build cache engine")
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})
	router.Handle("/metrics", promhttp.Handler())

	// Path parameters need their own extractor; query parameters are
	// covered by the default.
	userExtractor := func(r *http.Request) ([]cache.Param, []cache.Arg) {
		return []cache.Param{{Name: "id", Type: "int"}},
			[]cache.Arg{{Name: "id", Value: mustInt(chi.URLParam(r, "id"))}}
	}
	router.With(httpcache.Wrap(engine, "api.get_user", 5*time.Minute, httpcache.WithExtractor(userExtractor))).
		Get("/users/{id}", getUserHandler)
	router.With(httpcache.Wrap(engine, "api.search", cache.OneMinute)).
		Get("/search", searchHandler)

	server := &http.Server{
		Addr:              ":" + getEnv("PORT", "8080"),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info().Str("addr", server.Addr).Msg("Starting cache server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		logger.Fatal().Err(err).Msg("Server failed")
	}
}

// openStore picks the backend from the environment: REDIS_URL wins,
// then SQLITE_PATH, then an in-process map.
func openStore(ctx context.Context) (cache.Store, func(), error) {
	if url := os.Getenv("REDIS_URL"); url != "" {
		store, err := cache.OpenRedis(ctx, url)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	}
	if path := os.Getenv("SQLITE_PATH"); path != "" {
		store, err := cache.OpenSQLite(path)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	}
	return cache.NewMemoryStore(), func() {}, nil
}

func getUserHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"id":%s,"name":"user-%s","fetched_at":%q}`, id, id, time.Now().UTC().Format(time.RFC3339))
}

func searchHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"query":%q,"results":[]}`, q)
}

func mustInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
