package kit

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

const (
	readHeaderTimeout = 5 * time.Second
	idleTimeout       = 60 * time.Second
	shutdownTimeout   = 10 * time.Second
)

type shutdownKey struct{}

// RunHTTPServer serves h on addr until SIGINT/SIGTERM, then drains in-flight
// requests. A clean shutdown returns nil.
func RunHTTPServer(addr string, h http.Handler, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return Serve(ctx, &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
	}, log)
}

// Serve runs srv until ctx is done.
func Serve(ctx context.Context, srv *http.Server, log *zap.Logger) error {
	addr := srv.Addr
	if addr == "" {
		addr = ":http"
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return serveListener(ctx, srv, ln, log)
}

// ShuttingDown returns a channel that is closed once the server handling the
// request starts shutting down. Streaming handlers select on it so that they
// do not hold up the drain. Outside Serve it returns nil, which never fires.
func ShuttingDown(ctx context.Context) <-chan struct{} {
	ch, _ := ctx.Value(shutdownKey{}).(chan struct{})
	return ch
}

func serveListener(ctx context.Context, srv *http.Server, ln net.Listener, log *zap.Logger) error {
	stopping := make(chan struct{})
	var once sync.Once
	srv.RegisterOnShutdown(func() { once.Do(func() { close(stopping) }) })

	base := srv.BaseContext
	srv.BaseContext = func(l net.Listener) context.Context {
		bctx := context.Background()
		if base != nil {
			bctx = base(l)
		}
		return context.WithValue(bctx, shutdownKey{}, stopping)
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server starting", zap.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal", zap.Error(context.Cause(ctx)))
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(sctx)
}
