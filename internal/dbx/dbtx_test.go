package dbx

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE submissions (id INTEGER PRIMARY KEY, username TEXT NOT NULL)`)
	require.NoError(t, err)
	return db
}

func countRows(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM submissions`).Scan(&n))
	return n
}

func insert(ctx context.Context, tx DBTX, username string) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO submissions(username) VALUES (?)`, username)
	return err
}

func TestWithTx_Commits(t *testing.T) {
	db := setupDB(t)

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		if err := insert(ctx, tx, "alice"); err != nil {
			return err
		}
		return insert(ctx, tx, "bob")
	})
	require.NoError(t, err)
	assert.Equal(t, 2, countRows(t, db))
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	db := setupDB(t)
	boom := errors.New("boom")

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		require.NoError(t, insert(ctx, tx, "alice"))
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, countRows(t, db))
}

func TestWithTx_RollsBackOnPanic(t *testing.T) {
	db := setupDB(t)

	assert.PanicsWithValue(t, "kaput", func() {
		_ = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
			require.NoError(t, insert(ctx, tx, "alice"))
			panic("kaput")
		})
	})
	assert.Equal(t, 0, countRows(t, db))
}

func TestWithTx_BeginError(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, db.Close())

	called := false
	err := WithTx(context.Background(), db, nil, func(context.Context, DBTX) error {
		called = true
		return nil
	})
	require.Error(t, err)
	assert.False(t, called)
}
