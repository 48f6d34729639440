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

	"github.com/bsv-blockchain/go-samplepay/pkg/checkout"
	"github.com/bsv-blockchain/go-samplepay/pkg/isready"
	"github.com/bsv-blockchain/go-samplepay/pkg/server"
	"github.com/bsv-blockchain/go-samplepay/pkg/updates"
	"github.com/bsv-blockchain/go-samplepay/pkg/updates/httpclient"
	"github.com/spf13/cobra"
)

const readHeaderTimeout = 10 * time.Second

func newServeCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the payment app HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			logger := cfg.NewLogger(os.Stderr)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			infra, err := openComponents(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer infra.close()

			authorizer, err := newAuthorizer(cfg, infra.registry, logger)
			if err != nil {
				return err
			}

			var snapshots checkout.SnapshotStore = checkout.NewMemorySnapshots()
			if infra.redis != nil {
				snapshots = checkout.NewRedisSnapshots(infra.redis, cfg.Checkout.SnapshotTTL)
			}

			callbacks := updates.NewCallbackRegistry()
			breaker := cfg.UpdateService.Breaker

			srv := server.New(server.Dependencies{
				Identifier: authorizer,
				Checkouts: checkout.NewManager(
					checkout.WithMethodName(cfg.Payment.MethodName),
					checkout.WithSnapshots(snapshots),
					checkout.WithCallbacks(callbacks),
					checkout.WithLogger(logger),
				),
				Readiness: isready.New(
					isready.WithMethodName(cfg.Payment.MethodName),
					isready.WithAllowUntrusted(cfg.Payment.AllowUntrustedIsReadyToPay),
					isready.WithLogger(logger),
				),
				Callbacks: callbacks,
				UpdateServices: httpclient.NewFactory(callbacks,
					httpclient.WithTimeout(cfg.UpdateService.Timeout),
					httpclient.WithAppPackageName(cfg.Payment.AppPackageName),
					httpclient.WithBreaker(httpclient.BreakerConfig{
						MaxRequests:         breaker.MaxRequests,
						Interval:            breaker.Interval,
						OpenTimeout:         breaker.OpenTimeout,
						ConsecutiveFailures: breaker.ConsecutiveFailures,
					}),
					httpclient.WithLogger(logger),
				),
			}, server.WithLogger(logger))

			httpServer := &http.Server{
				Addr:              cfg.HTTP.Address,
				Handler:           srv.Handler(),
				ReadHeaderTimeout: readHeaderTimeout,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("SamplePay listening", slog.String("address", cfg.HTTP.Address))
				errCh <- httpServer.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			logger.Info("Shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.HTTP.ShutdownTimeout)
			defer cancel()
			return httpServer.Shutdown(shutdownCtx)
		},
	}
}
