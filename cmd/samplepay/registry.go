package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/bsv-blockchain/go-samplepay/pkg/config"
	fileregistry "github.com/bsv-blockchain/go-samplepay/pkg/registry/file"
	pgregistry "github.com/bsv-blockchain/go-samplepay/pkg/registry/postgres"
	"github.com/bsv-blockchain/go-samplepay/pkg/registry/rediscache"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

var errPostgresRequired = errors.New("registry import requires registry.backend: postgres")

type packageWriter interface {
	PutSigningCertificates(ctx context.Context, packageName string, certificates [][]byte) error
}

type cacheInvalidator interface {
	Invalidate(ctx context.Context, packageName string) error
}

func newRegistryCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Manage the package registry",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "import <packages.yaml>",
		Short: "Copy the packages of a YAML registry file into the Postgres registry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			if cfg.Registry.Backend != config.RegistryPostgres {
				return errPostgresRequired
			}
			logger := cfg.NewLogger(os.Stderr)

			source, err := fileregistry.Load(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			pool, err := pgregistry.Connect(ctx, cfg.Postgres.DSN, int(cfg.Postgres.MaxConnections))
			if err != nil {
				return err
			}
			defer pool.Close()

			target := pgregistry.New(pool, pgregistry.WithLogger(logger))
			if err := target.EnsureSchema(ctx); err != nil {
				return err
			}

			var cache cacheInvalidator
			if cfg.Redis.Address != "" {
				client := redis.NewClient(&redis.Options{
					Addr:     cfg.Redis.Address,
					Password: cfg.Redis.Password,
					DB:       cfg.Redis.DB,
				})
				defer func() { _ = client.Close() }()
				cache = rediscache.New(client, target, rediscache.WithTTL(cfg.Redis.TTL), rediscache.WithLogger(logger))
			}

			imported, err := importPackages(ctx, source, target, cache, logger)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "imported %d packages\n", imported)
			return err
		},
	})

	return cmd
}

// importPackages writes every package of source to target and drops its cached certificates.
// A nil cache skips invalidation.
func importPackages(ctx context.Context, source *fileregistry.Registry, target packageWriter, cache cacheInvalidator, logger *slog.Logger) (int, error) {
	names := source.Packages()
	for _, name := range names {
		certificates, err := source.SigningCertificates(ctx, name)
		if err != nil {
			return 0, err
		}
		if err := target.PutSigningCertificates(ctx, name, certificates); err != nil {
			return 0, err
		}
		if cache != nil {
			if err := cache.Invalidate(ctx, name); err != nil {
				return 0, fmt.Errorf("package %s imported but still cached: %w", name, err)
			}
		}
		logger.Info("Package imported", slog.String("package", name), slog.Int("certificates", len(certificates)))
	}
	return len(names), nil
}

