package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/typekeeper/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Insert(ctx context.Context, e *Entry) error {
	query := `insert into submissions (username, artifact_path, digest, size, codec, compiled_at)
			values (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		e.Username, e.ArtifactPath, e.Digest, e.Size, e.Codec, e.CompiledAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to insert submission: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get submission id: %w", err)
	}
	e.ID = id
	return nil
}

func (r *SQLiteRepository) Touch(ctx context.Context, username string, at time.Time) error {
	query := `insert into accounts (username, submissions, last_compiled_at) values (?, 1, ?)
			on conflict(username) do update set submissions = submissions + 1,
				last_compiled_at = excluded.last_compiled_at`
	if _, err := r.db.ExecContext(ctx, query, username, at.UnixNano()); err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) History(ctx context.Context, username string) ([]Entry, error) {
	query := `select id, username, artifact_path, digest, size, codec, compiled_at
			from submissions where username=? order by id desc`
	rows, err := r.db.QueryContext(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("failed to select submissions: %w", err)
	}
	defer rows.Close()

	var result []Entry
	for rows.Next() {
		var (
			e  Entry
			at int64
		)
		if err := rows.Scan(&e.ID, &e.Username, &e.ArtifactPath, &e.Digest, &e.Size, &e.Codec, &at); err != nil {
			return nil, err
		}
		e.CompiledAt = time.Unix(0, at).UTC()
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) Accounts(ctx context.Context) ([]Account, error) {
	query := `select username, submissions, last_compiled_at from accounts order by username`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select accounts: %w", err)
	}
	defer rows.Close()

	var result []Account
	for rows.Next() {
		var (
			a  Account
			at int64
		)
		if err := rows.Scan(&a.Username, &a.Submissions, &at); err != nil {
			return nil, err
		}
		a.LastCompiledAt = time.Unix(0, at).UTC()
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
