package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ctchen222/tictactoe-hotseat/internal/api/service"
	"ctchen222/tictactoe-hotseat/internal/config"
	"ctchen222/tictactoe-hotseat/internal/db"
	"ctchen222/tictactoe-hotseat/internal/events"
	"ctchen222/tictactoe-hotseat/internal/hub"
	"ctchen222/tictactoe-hotseat/internal/logger"
	"ctchen222/tictactoe-hotseat/internal/server"
	"ctchen222/tictactoe-hotseat/internal/telemetry"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize telemetry
	shutdown, err := telemetry.InitOtel(ctx, cfg.OTLPEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			slog.Error("error shutting down telemetry", "error", err)
		}
	}()

	logger.Init(os.Stdout, cfg.SlogLevel())

	// Redis is optional; without it there is no spectator feed.
	rdb, err := db.NewRedisClient(ctx, cfg.RedisAddr)
	if err != nil {
		return err
	}

	var (
		feed       hub.Feed
		spectators server.Spectators
	)
	if rdb != nil {
		defer rdb.Close()
		publisher := events.NewPublisher(rdb)
		defer publisher.Close()
		feed = publisher
		spectators = publisher
	} else {
		slog.Info("REDIS_ADDR not set, spectating disabled")
	}

	sessions := hub.NewHub(feed, cfg.SessionIdleTimeout)
	go sessions.Run(ctx)

	tokens := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	srv := server.NewServer(sessions, tokens, spectators)

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: srv.Engine(),
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("http server started", "addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}

	slog.Info("server exiting")
	return nil
}
