// Package rediscache puts a Redis read-through cache in front of a PackageRegistry.
package rediscache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bsv-blockchain/go-samplepay/pkg/callerauth"
	"github.com/bsv-blockchain/go-samplepay/pkg/internal/logging"
	"github.com/bytedance/sonic"
	"github.com/go-softwarelab/common/pkg/to"
	"github.com/redis/go-redis/v9"
)

const (
	DefaultTTL       = 5 * time.Minute
	DefaultKeyPrefix = "samplepay:package:"
)

// Client is the subset of the go-redis client used by the cache.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
}

// Config configures the cache.
type Config struct {
	TTL       time.Duration
	KeyPrefix string
	Logger    *slog.Logger
}

func WithTTL(ttl time.Duration) func(*Config) {
	return func(cfg *Config) {
		cfg.TTL = ttl
	}
}

func WithKeyPrefix(prefix string) func(*Config) {
	return func(cfg *Config) {
		cfg.KeyPrefix = prefix
	}
}

func WithLogger(logger *slog.Logger) func(*Config) {
	return func(cfg *Config) {
		cfg.Logger = logger
	}
}

// Registry serves signing certificates from Redis, falling back to the wrapped registry on a miss.
// Unknown packages are not cached. Redis failures degrade to the wrapped registry.
type Registry struct {
	client Client
	next   callerauth.PackageRegistry
	cfg    Config
	log    *slog.Logger
}

type entry struct {
	Certificates [][]byte `json:"certificates"`
}

// New wraps next with a cache stored in client.
func New(client Client, next callerauth.PackageRegistry, opts ...func(*Config)) *Registry {
	if client == nil || next == nil {
		panic("redis client and wrapped registry are required")
	}
	cfg := to.OptionsWithDefault(Config{
		TTL:       DefaultTTL,
		KeyPrefix: DefaultKeyPrefix,
	}, opts...)

	return &Registry{
		client: client,
		next:   next,
		cfg:    cfg,
		log:    logging.Child(cfg.Logger, "PackageRegistryCache"),
	}
}

// SigningCertificates implements callerauth.PackageRegistry.
func (r *Registry) SigningCertificates(ctx context.Context, packageName string) ([][]byte, error) {
	key := r.cfg.KeyPrefix + packageName

	cached, err := r.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var e entry
		if err := sonic.Unmarshal(cached, &e); err == nil {
			return e.Certificates, nil
		}
		r.log.WarnContext(ctx, "Dropping undecodable cache entry", slog.String("package", packageName))
	case errors.Is(err, redis.Nil):
		// miss
	default:
		r.log.WarnContext(ctx, "Package registry cache unavailable", slog.String("package", packageName), logging.Error(err))
	}

	certificates, err := r.next.SigningCertificates(ctx, packageName)
	if err != nil {
		return nil, err
	}

	r.store(ctx, key, certificates)
	return certificates, nil
}

// CheckConnection reports whether Redis answers. An unreachable Redis is logged, lookups then go to the wrapped registry.
func (r *Registry) CheckConnection(ctx context.Context) bool {
	if err := r.client.Ping(ctx).Err(); err != nil {
		r.log.WarnContext(ctx, "Redis is not reachable, lookups fall back to the registry", logging.Error(err))
		return false
	}
	return true
}

// Invalidate drops the cached certificates of the package.
func (r *Registry) Invalidate(ctx context.Context, packageName string) error {
	if err := r.client.Del(ctx, r.cfg.KeyPrefix+packageName).Err(); err != nil {
		return fmt.Errorf("could not invalidate cached package %s: %w", packageName, err)
	}
	return nil
}

func (r *Registry) store(ctx context.Context, key string, certificates [][]byte) {
	data, err := sonic.Marshal(entry{Certificates: certificates})
	if err != nil {
		r.log.WarnContext(ctx, "Could not encode cache entry", logging.Error(err))
		return
	}
	if err := r.client.Set(ctx, key, data, r.cfg.TTL).Err(); err != nil {
		r.log.WarnContext(ctx, "Could not store cache entry", slog.String("key", key), logging.Error(err))
	}
}
