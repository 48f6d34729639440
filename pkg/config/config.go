// Package config loads the service configuration from defaults, an optional YAML file and SAMPLEPAY_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/bsv-blockchain/go-samplepay/pkg/callerauth"
	"github.com/bsv-blockchain/go-samplepay/pkg/constants"
	"github.com/bsv-blockchain/go-samplepay/pkg/defs"
	"github.com/bsv-blockchain/go-samplepay/pkg/internal/logging"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables overriding configuration keys,
// e.g. SAMPLEPAY_HTTP_ADDRESS for http.address.
const EnvPrefix = "SAMPLEPAY"

// Registry backends.
const (
	RegistryFile     = "file"
	RegistryPostgres = "postgres"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	HTTP           HTTPConfig            `mapstructure:"http"`
	Logging        LoggingConfig         `mapstructure:"logging"`
	Payment        PaymentConfig         `mapstructure:"payment"`
	TrustedCallers []TrustedCallerConfig `mapstructure:"trusted_callers"`
	Registry       RegistryConfig        `mapstructure:"registry"`
	Postgres       PostgresConfig        `mapstructure:"postgres"`
	Redis          RedisConfig           `mapstructure:"redis"`
	UpdateService  UpdateServiceConfig   `mapstructure:"update_service"`
	Checkout       CheckoutConfig        `mapstructure:"checkout"`
}

type HTTPConfig struct {
	Address         string        `mapstructure:"address"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Handler string `mapstructure:"handler"`
}

type PaymentConfig struct {
	MethodName                 string `mapstructure:"method_name"`
	AppPackageName             string `mapstructure:"app_package_name"`
	AllowUntrustedIsReadyToPay bool   `mapstructure:"allow_untrusted_is_ready_to_pay"`
}

// TrustedCallerConfig allows one package signed with one key. A package may appear only once.
type TrustedCallerConfig struct {
	Package     string `mapstructure:"package"`
	Fingerprint string `mapstructure:"fingerprint"`
}

type RegistryConfig struct {
	Backend string `mapstructure:"backend"`
	File    string `mapstructure:"file"`
}

type PostgresConfig struct {
	DSN            string `mapstructure:"dsn"`
	MaxConnections int32  `mapstructure:"max_connections"`
}

// RedisConfig enables the registry cache and the checkout snapshots in Redis when Address is set.
type RedisConfig struct {
	Address  string        `mapstructure:"address"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type UpdateServiceConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
	Breaker BreakerConfig `mapstructure:"breaker"`
}

type BreakerConfig struct {
	MaxRequests         uint32        `mapstructure:"max_requests"`
	Interval            time.Duration `mapstructure:"interval"`
	OpenTimeout         time.Duration `mapstructure:"open_timeout"`
	ConsecutiveFailures uint32        `mapstructure:"consecutive_failures"`
}

type CheckoutConfig struct {
	SnapshotTTL time.Duration `mapstructure:"snapshot_ttl"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.address", ":8080")
	v.SetDefault("http.shutdown_timeout", 10*time.Second)
	v.SetDefault("logging.level", string(defs.LogLevelInfo))
	v.SetDefault("logging.handler", string(defs.JSONHandler))
	v.SetDefault("payment.method_name", constants.DefaultMethodName)
	v.SetDefault("payment.app_package_name", constants.DefaultAppPackageName)
	v.SetDefault("payment.allow_untrusted_is_ready_to_pay", false)
	v.SetDefault("registry.backend", RegistryFile)
	v.SetDefault("registry.file", "packages.yaml")
	v.SetDefault("postgres.dsn", "")
	v.SetDefault("postgres.max_connections", 4)
	v.SetDefault("redis.address", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 5*time.Minute)
	v.SetDefault("update_service.timeout", 5*time.Second)
	v.SetDefault("update_service.breaker.max_requests", 1)
	v.SetDefault("update_service.breaker.interval", time.Minute)
	v.SetDefault("update_service.breaker.open_timeout", 30*time.Second)
	v.SetDefault("update_service.breaker.consecutive_failures", 5)
	v.SetDefault("checkout.snapshot_ttl", time.Hour)
}

// Load reads the configuration. An empty path skips the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if _, err := defs.ParseLogLevelStr(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: logging.level: %w", ErrInvalidConfig, err)
	}
	if _, err := defs.ParseHandlerTypeStr(c.Logging.Handler); err != nil {
		return fmt.Errorf("%w: logging.handler: %w", ErrInvalidConfig, err)
	}
	if c.Payment.MethodName == "" {
		return fmt.Errorf("%w: payment.method_name is required", ErrInvalidConfig)
	}

	switch c.Registry.Backend {
	case RegistryFile:
		if c.Registry.File == "" {
			return fmt.Errorf("%w: registry.file is required for the file registry", ErrInvalidConfig)
		}
	case RegistryPostgres:
		if c.Postgres.DSN == "" {
			return fmt.Errorf("%w: postgres.dsn is required for the postgres registry", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown registry.backend %q", ErrInvalidConfig, c.Registry.Backend)
	}

	if _, err := c.Trusted(); err != nil {
		return err
	}
	return nil
}

// Trusted returns the configured allow-list, or the Chrome release channels when none is configured.
func (c *Config) Trusted() ([]callerauth.TrustedCaller, error) {
	if len(c.TrustedCallers) == 0 {
		return callerauth.DefaultTrustedCallers(), nil
	}

	trusted := make([]callerauth.TrustedCaller, 0, len(c.TrustedCallers))
	seen := make(map[string]int, len(c.TrustedCallers))
	for i, caller := range c.TrustedCallers {
		if caller.Package == "" {
			return nil, fmt.Errorf("%w: trusted_callers[%d].package is required", ErrInvalidConfig, i)
		}
		if first, ok := seen[caller.Package]; ok {
			return nil, fmt.Errorf("%w: trusted_callers[%d].package %s is already listed at trusted_callers[%d]", ErrInvalidConfig, i, caller.Package, first)
		}
		seen[caller.Package] = i
		fingerprint, err := callerauth.ParseFingerprint(caller.Fingerprint)
		if err != nil {
			return nil, fmt.Errorf("%w: trusted_callers[%d].fingerprint: %w", ErrInvalidConfig, i, err)
		}
		trusted = append(trusted, callerauth.TrustedCaller{PackageName: caller.Package, Fingerprint: fingerprint})
	}
	return trusted, nil
}

// NewLogger builds the process logger writing to w.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := defs.ParseLogLevelStr(c.Logging.Level)
	if err != nil {
		level = defs.LogLevelInfo
	}
	handler, err := defs.ParseHandlerTypeStr(c.Logging.Handler)
	if err != nil {
		handler = defs.JSONHandler
	}
	return logging.New(level, handler, w)
}
