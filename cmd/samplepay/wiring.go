package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bsv-blockchain/go-samplepay/pkg/callerauth"
	"github.com/bsv-blockchain/go-samplepay/pkg/config"
	fileregistry "github.com/bsv-blockchain/go-samplepay/pkg/registry/file"
	pgregistry "github.com/bsv-blockchain/go-samplepay/pkg/registry/postgres"
	"github.com/bsv-blockchain/go-samplepay/pkg/registry/rediscache"
	"github.com/redis/go-redis/v9"
)

// components holds the shared infrastructure; close releases it.
type components struct {
	registry callerauth.PackageRegistry
	redis    *redis.Client
	close    func()
}

func openComponents(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*components, error) {
	c := &components{close: func() {}}

	switch cfg.Registry.Backend {
	case config.RegistryPostgres:
		pool, err := pgregistry.Connect(ctx, cfg.Postgres.DSN, int(cfg.Postgres.MaxConnections))
		if err != nil {
			return nil, err
		}
		registry := pgregistry.New(pool, pgregistry.WithLogger(logger))
		if err := registry.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		c.registry = registry
		c.close = pool.Close
	default:
		registry, err := fileregistry.Load(cfg.Registry.File)
		if err != nil {
			return nil, err
		}
		c.registry = registry
	}

	if cfg.Redis.Address != "" {
		c.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		cache := rediscache.New(c.redis, c.registry,
			rediscache.WithTTL(cfg.Redis.TTL),
			rediscache.WithLogger(logger.With(slog.String("redis", cfg.Redis.Address))),
		)
		cache.CheckConnection(ctx)
		c.registry = cache

		closeRegistry := c.close
		c.close = func() {
			_ = c.redis.Close()
			closeRegistry()
		}
	}

	return c, nil
}

func newAuthorizer(cfg *config.Config, registry callerauth.PackageRegistry, logger *slog.Logger) (*callerauth.Authorizer, error) {
	trusted, err := cfg.Trusted()
	if err != nil {
		return nil, fmt.Errorf("failed to read trusted callers: %w", err)
	}
	return callerauth.NewAuthorizer(registry,
		callerauth.WithTrustedCallers(trusted...),
		callerauth.WithAuthorizerLogger(logger),
	), nil
}
