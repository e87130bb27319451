package server

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// ShutdownTimeout bounds how long in-flight requests may take to finish.
const ShutdownTimeout = 5 * time.Second

// GracefulShutdown waits for ctx to be cancelled, typically by SIGINT or
// SIGTERM, and then shuts srv down.
func GracefulShutdown(ctx context.Context, srv *http.Server, logger *zap.Logger) error {
	<-ctx.Done()
	logger.Info("Shutting down gracefully, press Ctrl+C again to force", zap.String("addr", srv.Addr))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
		return err
	}

	logger.Info("Server exiting", zap.String("addr", srv.Addr))
	return nil
}
