package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/user/serp-visibility/internal/delivery/http/handler"
	"github.com/user/serp-visibility/internal/delivery/http/router"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the scan API and Prometheus metrics",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return serve()
	},
}

func init() {
	serveCmd.Flags().String("port", "8080", "HTTP listen port")
	_ = settings.BindPFlag("SERVER_PORT", serveCmd.Flags().Lookup("port"))
}

func serve() error {
	a, err := newApp(prometheus.DefaultRegisterer, false)
	if err != nil {
		return err
	}
	defer a.Close()
	logger := a.logger

	h := handler.NewHandler(a.scanner, a.checks, logger)
	srv := &http.Server{
		Addr:              ":" + a.cfg.ServerPort,
		Handler:           router.New(h, a.metrics, prometheus.DefaultGatherer, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	logger.Info("server started", zap.String("port", a.cfg.ServerPort))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-errCh:
		if ok {
			logger.Error("could not start server", zap.Error(err))
			return err
		}
		return nil
	case <-quit:
	}

	logger.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
		return err
	}
	logger.Info("server exiting")
	return nil
}
