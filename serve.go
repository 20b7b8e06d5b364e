package errorkit

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// DefaultShutdownTimeout bounds graceful shutdown in Serve.
const DefaultShutdownTimeout = 15 * time.Second

// Serve runs handler on addr behind h.Middleware and blocks until ctx is
// done or SIGINT/SIGTERM arrives. On shutdown it stops the server and
// closes the sinks.
//
// Returns nil on clean shutdown.
func (h *Handler) Serve(ctx context.Context, addr string, handler http.Handler) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Listen first to get actual address
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	server := &http.Server{
		Handler:           h.Middleware(handler),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		h.logger.Info("server starting", slog.String("address", ln.Addr().String()))
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return errors.Join(err, h.Close())
		}
	case <-ctx.Done():
	}

	h.logger.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.WithoutCancel(ctx), DefaultShutdownTimeout)
	defer shutdownCancel()

	var errs []error
	if err := server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, err)
	}
	// Sinks close after in-flight requests finished reporting.
	if err := h.Close(); err != nil {
		errs = append(errs, err)
		h.logger.Error("closing sinks failed", slog.Any("error", err))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	h.logger.Info("shutdown completed")
	return nil
}
