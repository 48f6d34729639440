// Package pgregistry stores package signing certificates in Postgres.
package pgregistry

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"

	"github.com/bsv-blockchain/go-samplepay/pkg/callerauth"
	"github.com/bsv-blockchain/go-samplepay/pkg/internal/logging"
	"github.com/go-softwarelab/common/pkg/to"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schema string

const (
	selectCertificatesQuery = `
		SELECT certificate
		FROM package_signatures
		WHERE package_name = $1
		ORDER BY ordinal
	`
	deleteCertificatesQuery = `DELETE FROM package_signatures WHERE package_name = $1`
	insertCertificateQuery  = `
		INSERT INTO package_signatures (package_name, ordinal, certificate)
		VALUES ($1, $2, $3)
	`
)

// DB is the subset of pgxpool.Pool used by the registry.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Config configures the Registry.
type Config struct {
	Logger *slog.Logger
}

// WithLogger sets the logger of the Registry.
func WithLogger(logger *slog.Logger) func(*Config) {
	return func(cfg *Config) {
		cfg.Logger = logger
	}
}

// Registry is a PackageRegistry backed by the package_signatures table.
type Registry struct {
	db  DB
	log *slog.Logger
}

// Connect opens a connection pool and verifies it is reachable.
func Connect(ctx context.Context, dsn string, maxConnections int) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid postgres config: %w", err)
	}
	if maxConnections > 0 {
		config.MaxConns = int32(maxConnections)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("could not create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("could not ping postgres: %w", err)
	}
	return pool, nil
}

// New creates a registry on top of db.
func New(db DB, opts ...func(*Config)) *Registry {
	cfg := to.OptionsWithDefault(Config{}, opts...)
	return &Registry{
		db:  db,
		log: logging.Child(cfg.Logger, "PostgresPackageRegistry"),
	}
}

// EnsureSchema creates the package_signatures table when missing.
func (r *Registry) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("could not create package registry schema: %w", err)
	}
	return nil
}

// SigningCertificates implements callerauth.PackageRegistry.
func (r *Registry) SigningCertificates(ctx context.Context, packageName string) ([][]byte, error) {
	rows, err := r.db.Query(ctx, selectCertificatesQuery, packageName)
	if err != nil {
		return nil, fmt.Errorf("could not query signing certificates: %w", err)
	}

	certificates, err := pgx.CollectRows(rows, pgx.RowTo[[]byte])
	if err != nil {
		return nil, fmt.Errorf("could not scan signing certificates: %w", err)
	}
	if len(certificates) == 0 {
		return nil, fmt.Errorf("%w: %s", callerauth.ErrPackageNotFound, packageName)
	}
	return certificates, nil
}

// PutSigningCertificates replaces the certificates stored for the package.
func (r *Registry) PutSigningCertificates(ctx context.Context, packageName string, certificates [][]byte) error {
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, deleteCertificatesQuery, packageName); err != nil {
			return err
		}
		for i, cert := range certificates {
			if _, err := tx.Exec(ctx, insertCertificateQuery, packageName, i, cert); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("could not store signing certificates of %s: %w", packageName, err)
	}

	r.log.InfoContext(ctx, "Stored signing certificates", slog.String("package", packageName), slog.Int("count", len(certificates)))
	return nil
}
