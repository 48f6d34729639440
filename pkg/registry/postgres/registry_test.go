package pgregistry_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bsv-blockchain/go-samplepay/pkg/callerauth"
	"github.com/bsv-blockchain/go-samplepay/pkg/internal/logging"
	pgregistry "github.com/bsv-blockchain/go-samplepay/pkg/registry/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSigningCertificates(t *testing.T) {
	// given:
	db := newFakeDB()
	db.tables["com.android.chrome"] = [][]byte{[]byte("first"), []byte("second")}
	registry := pgregistry.New(db, pgregistry.WithLogger(logging.NewTestLogger(t)))

	t.Run("stored package", func(t *testing.T) {
		// when:
		certs, err := registry.SigningCertificates(t.Context(), "com.android.chrome")

		// then:
		require.NoError(t, err)
		assert.Equal(t, [][]byte{[]byte("first"), []byte("second")}, certs)
	})

	t.Run("unknown package", func(t *testing.T) {
		// when:
		_, err := registry.SigningCertificates(t.Context(), "com.unknown")

		// then:
		require.ErrorIs(t, err, callerauth.ErrPackageNotFound)
	})

	t.Run("query failure", func(t *testing.T) {
		// given:
		db.queryErr = errors.New("connection reset")
		defer func() { db.queryErr = nil }()

		// when:
		_, err := registry.SigningCertificates(t.Context(), "com.android.chrome")

		// then:
		require.ErrorIs(t, err, db.queryErr)
		assert.NotErrorIs(t, err, callerauth.ErrPackageNotFound)
	})
}

func TestPutSigningCertificates(t *testing.T) {
	// given:
	db := newFakeDB()
	db.tables["com.chrome.beta"] = [][]byte{[]byte("old")}
	registry := pgregistry.New(db, pgregistry.WithLogger(logging.NewTestLogger(t)))

	// when:
	err := registry.PutSigningCertificates(t.Context(), "com.chrome.beta", [][]byte{[]byte("new-1"), []byte("new-2")})

	// then:
	require.NoError(t, err)
	assert.True(t, db.committed)

	// and:
	certs, err := registry.SigningCertificates(t.Context(), "com.chrome.beta")
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("new-1"), []byte("new-2")}, certs)
}

func TestEnsureSchema(t *testing.T) {
	// given:
	db := newFakeDB()
	registry := pgregistry.New(db)

	// when:
	err := registry.EnsureSchema(t.Context())

	// then:
	require.NoError(t, err)
	require.Len(t, db.executed, 1)
	assert.Contains(t, db.executed[0], "CREATE TABLE IF NOT EXISTS package_signatures")
}

type fakeDB struct {
	tables    map[string][][]byte
	executed  []string
	queryErr  error
	committed bool
}

func newFakeDB() *fakeDB {
	return &fakeDB{tables: map[string][][]byte{}}
}

func (db *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	db.executed = append(db.executed, sql)
	switch {
	case strings.Contains(sql, "DELETE FROM package_signatures"):
		delete(db.tables, args[0].(string))
	case strings.Contains(sql, "INSERT INTO package_signatures"):
		name := args[0].(string)
		db.tables[name] = append(db.tables[name], args[2].([]byte))
	}
	return pgconn.CommandTag{}, nil
}

func (db *fakeDB) Query(_ context.Context, _ string, args ...any) (pgx.Rows, error) {
	if db.queryErr != nil {
		return nil, db.queryErr
	}
	return &fakeRows{values: db.tables[args[0].(string)], index: -1}, nil
}

func (db *fakeDB) Begin(context.Context) (pgx.Tx, error) {
	return &fakeTx{db: db}, nil
}

type fakeTx struct {
	pgx.Tx
	db     *fakeDB
	closed bool
}

func (tx *fakeTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return tx.db.Exec(ctx, sql, args...)
}

func (tx *fakeTx) Commit(context.Context) error {
	tx.closed = true
	tx.db.committed = true
	return nil
}

func (tx *fakeTx) Rollback(context.Context) error {
	if tx.closed {
		return pgx.ErrTxClosed
	}
	tx.closed = true
	return nil
}

type fakeRows struct {
	pgx.Rows
	values [][]byte
	index  int
}

func (r *fakeRows) Next() bool {
	r.index++
	return r.index < len(r.values)
}

func (r *fakeRows) Scan(dest ...any) error {
	*(dest[0].(*[]byte)) = r.values[r.index]
	return nil
}

func (r *fakeRows) Err() error { return nil }

func (r *fakeRows) Close() {}
