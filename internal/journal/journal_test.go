package journal

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func entry(username string, at time.Time) *Entry {
	return &Entry{
		Username:     username,
		ArtifactPath: "/tmp/typekeeper/" + username + ".art",
		Digest:       "abcd",
		Size:         42,
		Codec:        "cbor",
		CompiledAt:   at,
	}
}

func TestJournal_RecordAndHistory(t *testing.T) {
	j := openJournal(t)
	ctx := context.Background()
	t0 := time.Date(2025, 1, 2, 3, 4, 5, 6, time.UTC)

	first := entry("alice", t0)
	require.NoError(t, j.Record(ctx, first))
	assert.NotZero(t, first.ID)

	second := entry("alice", t0.Add(time.Minute))
	second.Digest = "ef01"
	require.NoError(t, j.Record(ctx, second))
	require.NoError(t, j.Record(ctx, entry("bob", t0)))

	hist, err := j.History(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, "ef01", hist[0].Digest)
	assert.Equal(t, t0.Add(time.Minute), hist[0].CompiledAt)
	assert.Equal(t, *first, hist[1])

	none, err := j.History(ctx, "carol")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestJournal_Accounts(t *testing.T) {
	j := openJournal(t)
	ctx := context.Background()
	t0 := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	require.NoError(t, j.Record(ctx, entry("bob", t0)))
	require.NoError(t, j.Record(ctx, entry("alice", t0)))
	require.NoError(t, j.Record(ctx, entry("bob", t0.Add(time.Hour))))

	accounts, err := j.Accounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Account{
		{Username: "alice", Submissions: 1, LastCompiledAt: t0},
		{Username: "bob", Submissions: 2, LastCompiledAt: t0.Add(time.Hour)},
	}, accounts)
}

func TestJournal_NoPasswordColumn(t *testing.T) {
	j := openJournal(t)

	rows, err := j.db.Query(`select name from pragma_table_info('submissions')`)
	require.NoError(t, err)
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var c string
		require.NoError(t, rows.Scan(&c))
		cols = append(cols, c)
	}
	require.NoError(t, rows.Err())
	assert.ElementsMatch(t, []string{"id", "username", "artifact_path", "digest", "size", "codec", "compiled_at"}, cols)
}

func TestJournal_ReopenKeepsHistory(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "journal.db")
	ctx := context.Background()

	j, err := Open(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, j.Record(ctx, entry("alice", time.Unix(100, 0).UTC())))
	require.NoError(t, j.Close())

	j, err = Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })

	hist, err := j.History(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, hist, 1)
}

func TestJournal_RecordRollsBackOnFailure(t *testing.T) {
	j := openJournal(t)
	ctx := context.Background()

	_, err := j.db.Exec(`drop table accounts`)
	require.NoError(t, err)

	require.Error(t, j.Record(ctx, entry("alice", time.Unix(1, 0))))

	var n int
	require.NoError(t, j.db.QueryRow(`select count(*) from submissions`).Scan(&n))
	assert.Equal(t, 0, n)
}

func TestSQLiteRepository_OnPlainDB(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, RunMigrations(context.Background(), db))

	r := NewSQLiteRepository(db)
	require.NoError(t, r.Insert(context.Background(), entry("dave", time.Unix(5, 0).UTC())))
	hist, err := r.History(context.Background(), "dave")
	require.NoError(t, err)
	assert.Len(t, hist, 1)
}
