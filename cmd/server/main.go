package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/dkeye/Arena/internal/adapters/http"
	wsignal "github.com/dkeye/Arena/internal/adapters/signal"
	"github.com/dkeye/Arena/internal/app"
	"github.com/dkeye/Arena/internal/config"
	"github.com/dkeye/Arena/internal/core"
	"github.com/dkeye/Arena/internal/storage"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	// Human-friendly output for terminal; in production you may want JSON only.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("failed to load config")
	}

	store := openStore(cfg)

	rooms := core.NewRoomManager()
	registry := app.NewRegistry()
	queue := app.NewMatchQueue()
	coord := app.NewCoordinator(registry, queue, rooms, store, app.KeepOpenPolicy{})
	relay := app.NewSignalRelay(rooms)
	limiter := wsignal.NewRateLimiter(10, 10*time.Second)
	ctl := wsignal.NewWSController(coord, relay, limiter, cfg.ReadLimit, cfg.SendBuffer)

	r := router.SetupRouter(ctx, cfg, ctl, rooms)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("Arena server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}

// openStore picks the debate store: Postgres when configured, the
// in-memory store without a db host, and the fail-fast Unavailable
// stub when Postgres cannot be reached. The server keeps serving in
// that last case; durable operations surface store_unavailable.
func openStore(cfg *config.Config) storage.DebateStore {
	if cfg.DB.Host == "" {
		log.Warn().Msg("no database configured, using in-memory store")
		return storage.NewMemoryStore()
	}
	store, err := storage.NewPostgresStore(cfg.DB.Host, cfg.DB.User, cfg.DB.Password, cfg.DB.Name, cfg.DB.Port)
	if err != nil {
		log.Error().Err(err).Msg("postgres unreachable, durable operations will fail fast")
		return storage.Unavailable{}
	}
	return store
}
