// Package server binds the HTTP listener and the optional gRPC health
// server, and drains both when ctx ends.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/internal/kernel"
	sgrpc "github.com/shashiranjanraj/storefront/pkg/grpc"
	"github.com/shashiranjanraj/storefront/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

// Run serves k until ctx is cancelled, then shuts down gracefully and
// closes the kernel.
func Run(ctx context.Context, k *kernel.Kernel) error {
	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           k.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       config.Duration("HTTP_READ_TIMEOUT", 30*time.Second),
		WriteTimeout:      config.Duration("HTTP_WRITE_TIMEOUT", 30*time.Second),
		IdleTimeout:       120 * time.Second,
	}

	if port := config.GRPCPort(); port != "" {
		gs, err := sgrpc.Start(port, k.Store.Ping)
		if err != nil {
			return fmt.Errorf("grpc: %w", err)
		}
		defer sgrpc.Stop(gs)
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("storefront listening", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		k.Close(context.Background())
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := srv.Shutdown(sctx)
	k.Close(sctx)
	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
