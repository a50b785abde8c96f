package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"

	customersapi "github.com/BearBump/QRLink/internal/api/customers_api"
	"github.com/BearBump/QRLink/internal/cache"
	"github.com/BearBump/QRLink/internal/services/customers"
)

type qrlinkAPIOpts struct {
	httpAddr    string
	swaggerPath string

	rateLimitPerMinute int64
	trustProxyHeaders  bool

	onListen func(httpAddr string)
}

func runQRLinkAPI(ctx context.Context, opts qrlinkAPIOpts, svc *customers.Service, limiter cache.RateLimiter) error {
	if opts.swaggerPath != "" {
		if _, err := os.Stat(opts.swaggerPath); os.IsNotExist(err) {
			return fmt.Errorf("swagger file not found: %s", opts.swaggerPath)
		}
	}

	lis, err := net.Listen("tcp", opts.httpAddr)
	if err != nil {
		return err
	}

	if opts.onListen != nil {
		opts.onListen(lis.Addr().String())
	}

	return runHTTPServer(ctx, lis, newRouter(opts, svc, limiter))
}

func newRouter(opts qrlinkAPIOpts, svc *customers.Service, limiter cache.RateLimiter) http.Handler {
	r := chi.NewRouter()
	customersapi.New(svc).Routes(r, customersapi.RouterOptions{
		Limiter:            limiter,
		RateLimitPerMinute: opts.rateLimitPerMinute,
		TrustProxyHeaders:  opts.trustProxyHeaders,
	})

	if opts.swaggerPath != "" {
		swaggerPath := opts.swaggerPath
		r.Get("/swagger.json", func(w http.ResponseWriter, r *http.Request) {
			http.ServeFile(w, r, swaggerPath)
		})
		r.Get("/docs/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger.json"),
		))
	}
	return r
}

func runHTTPServer(ctx context.Context, lis net.Listener, h http.Handler) error {
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("HTTP server listening", "addr", lis.Addr().String())
	err := srv.Serve(lis)
	if err == http.ErrServerClosed {
		return ctx.Err()
	}
	return err
}
