package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/koungmoo-cpu/Auriton-Insight-v2/internal/pkg/config"
	"github.com/koungmoo-cpu/Auriton-Insight-v2/internal/server"
	"github.com/koungmoo-cpu/Auriton-Insight-v2/pkg/logger"
)

var version = "2.0.0"

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file, using environment variables")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Initialize logger
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Printf("Warning: %v", err)
	}
	if err := logger.Init(level, zap.String("service", cfg.Observability.ServiceName), zap.String("version", version)); err != nil {
		return err
	}
	zl := logger.Log
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize observability
	otelShutdown, err := server.InitObservability(cfg.Observability, version, zl)
	if err != nil {
		return err
	}
	defer func() {
		if err := otelShutdown(context.Background()); err != nil {
			zl.Error("Failed to shutdown OpenTelemetry", zap.Error(err))
		}
	}()

	// Setup router
	srv := server.New(cfg, zl)
	router, handlers, err := server.SetupRouter(ctx, cfg, zl)
	if err != nil {
		zl.Error("Failed to setup router", zap.Error(err))
		return err
	}
	defer handlers.Close()
	srv.SetRouter(router)

	httpServer := srv.HTTPServer()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		<-gctx.Done()
		stop() // Allow Ctrl+C to force shutdown
		return nil
	})
	g.Go(func() error { return srv.ListenAndServe(httpServer) })
	g.Go(func() error { return server.GracefulShutdown(gctx, httpServer, zl) })

	// Start pprof server (on separate port, not exposed publicly)
	if pprofServer := server.NewPprofServer(cfg.Observability.PprofAddr); pprofServer != nil {
		g.Go(func() error {
			zl.Info("Starting pprof server", zap.String("addr", pprofServer.Addr))
			if err := pprofServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				zl.Error("pprof server error", zap.Error(err))
			}
			return nil
		})
		g.Go(func() error { return server.GracefulShutdown(gctx, pprofServer, zl) })
	}

	if err := g.Wait(); err != nil {
		zl.Error("Server error", zap.Error(err))
		return err
	}

	zl.Info("Graceful shutdown complete")
	return nil
}
