package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"booktracker/internal/book"
	"booktracker/internal/httpx"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	loadEnvFiles()

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	repo, closeStore, err := openStore(context.Background(), cfg)
	if err != nil {
		log.Fatalf("cannot open %s store: %v", cfg.StoreDriver, err)
	}
	defer closeStore()

	handler, closeHandler := newHandler(cfg, book.NewService(repo))
	defer closeHandler()

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Starting server on %s store=%s", cfg.Addr, cfg.StoreDriver)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

// openStore builds the repository selected by STORE_DRIVER. The returned
// func releases its resources.
func openStore(ctx context.Context, cfg config) (book.Repository, func(), error) {
	switch cfg.StoreDriver {
	case storeSQLite:
		db, err := book.OpenSQLite(cfg.SQLiteDSN)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, err
		}
		log.Printf("sqlite store ready: dsn=%s", cfg.SQLiteDSN)
		return book.NewGormRepo(db), func() { _ = sqlDB.Close() }, nil

	case storePostgres:
		pool, err := openPostgres(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, err
		}
		return book.NewPostgresRepo(pool, cfg.DBTimeout), pool.Close, nil

	default:
		return book.NewMemoryRepo(), func() {}, nil
	}
}

func openPostgres(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create db pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database (%s): %w", redactDSN(dsn), err)
	}
	log.Println("database connection OK")
	return pool, nil
}

// newRouter mounts the operational probes and the book API.
func newRouter(svc *book.Service) *http.ServeMux {
	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := svc.Ready(ctx); err != nil {
			http.Error(w, "store not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	book.NewHTTPHandler(svc).Register(router)
	return router
}

// newHandler wraps the router in the middleware stack. The returned func
// stops background work started by the middleware.
func newHandler(cfg config, svc *book.Service) (http.Handler, func()) {
	middlewares := []func(http.Handler) http.Handler{
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware,
		httpx.RecoveryMiddleware,
		httpx.CORSMiddleware(cfg.AllowedOrigins),
		httpx.SecurityHeadersMiddleware(cfg.EnableHSTS),
	}

	closer := func() {}
	if cfg.RateLimitRPS > 0 {
		rl := httpx.NewRateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst)
		middlewares = append(middlewares, rl.Middleware)
		closer = rl.Close
	}
	middlewares = append(middlewares, httpx.RequestSizeLimitMiddleware(cfg.MaxBodyBytes))

	return httpx.Chain(newRouter(svc), middlewares...), closer
}
