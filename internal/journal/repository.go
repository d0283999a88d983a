// Package journal keeps a local sqlite history of successful submissions.
//
// The journal records which artifact a submission produced and its digest.
// Passwords are never written to it.
package journal

import (
	"context"
	"time"
)

// Entry is one successful submission.
type Entry struct {
	ID           int64
	Username     string
	ArtifactPath string
	Digest       string
	Size         int64
	Codec        string
	CompiledAt   time.Time
}

// Account summarizes every submission made for one username.
type Account struct {
	Username       string
	Submissions    int64
	LastCompiledAt time.Time
}

// Repository describes the journal queries.
type Repository interface {
	// Insert appends e to the submission log.
	Insert(ctx context.Context, e *Entry) error

	// Touch bumps the per-username counter.
	Touch(ctx context.Context, username string, at time.Time) error

	// History returns the submissions for username, newest first.
	History(ctx context.Context, username string) ([]Entry, error)

	// Accounts returns one summary per username ordered by username.
	Accounts(ctx context.Context) ([]Account, error)
}
