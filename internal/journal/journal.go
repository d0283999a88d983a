package journal

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/typekeeper/internal/dbx"
	"github.com/dmitrijs2005/typekeeper/internal/journal/migrations"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// Journal owns the sqlite handle behind the submission history.
type Journal struct {
	db   *sql.DB
	repo Repository
}

// RunMigrations brings the schema up to date.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return goose.UpContext(ctx, db, ".")
}

// Open opens the sqlite database at dsn and migrates it.
func Open(ctx context.Context, dsn string) (*Journal, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// one connection keeps ":memory:" databases coherent
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate journal: %w", err)
	}
	return &Journal{db: db, repo: NewSQLiteRepository(db)}, nil
}

// Record appends e and bumps its account summary in one transaction.
func (j *Journal) Record(ctx context.Context, e *Entry) error {
	return dbx.WithTx(ctx, j.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := NewSQLiteRepository(tx)
		if err := repo.Insert(ctx, e); err != nil {
			return err
		}
		return repo.Touch(ctx, e.Username, e.CompiledAt)
	})
}

func (j *Journal) History(ctx context.Context, username string) ([]Entry, error) {
	return j.repo.History(ctx, username)
}

func (j *Journal) Accounts(ctx context.Context) ([]Account, error) {
	return j.repo.Accounts(ctx)
}

func (j *Journal) Close() error {
	return j.db.Close()
}
