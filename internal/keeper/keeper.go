// Package keeper is the record repository. It runs the submit pipeline
// (validate, encode, compile, rescan) and serves the resulting snapshot.
//
// Submit is not serialized: callers are expected to have a single writer.
// Only the snapshot and the subscriber set are guarded.
package keeper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/typekeeper/internal/compiler"
	"github.com/dmitrijs2005/typekeeper/internal/cryptox"
	"github.com/dmitrijs2005/typekeeper/internal/identifier"
	"github.com/dmitrijs2005/typekeeper/internal/journal"
	"github.com/dmitrijs2005/typekeeper/internal/loader"
	"github.com/dmitrijs2005/typekeeper/internal/logging"
	"github.com/dmitrijs2005/typekeeper/internal/metrics"
	"github.com/dmitrijs2005/typekeeper/internal/mirror"
	"github.com/dmitrijs2005/typekeeper/internal/models"
	"github.com/dmitrijs2005/typekeeper/internal/namespace"
	"github.com/dmitrijs2005/typekeeper/internal/unit"
)

// Recorder appends to the submission journal.
type Recorder interface {
	Record(ctx context.Context, e *journal.Entry) error
}

// Deps are the collaborators of a Service. Store, Compiler and Logger are
// required; the rest may be left zero.
type Deps struct {
	Store    *namespace.Store
	Compiler compiler.Compiler
	Logger   logging.Logger

	// Codec names the artifact encoding in journal entries.
	Codec   string
	Journal Recorder
	Mirror  mirror.Mirror
	Metrics *metrics.Metrics
	Now     func() time.Time
}

// Service holds the current snapshot of records.
type Service struct {
	store    *namespace.Store
	encoder  *unit.Encoder
	compiler compiler.Compiler
	decoder  *loader.Decoder
	logger   logging.Logger

	codec   string
	journal Recorder
	mirror  mirror.Mirror
	metrics *metrics.Metrics
	now     func() time.Time

	mu          sync.RWMutex
	records     []models.Record
	subscribers map[*subscriber]struct{}
}

// New prepares the namespace directories and loads the initial snapshot.
func New(ctx context.Context, deps Deps) (*Service, error) {
	s := &Service{
		store:       deps.Store,
		encoder:     unit.NewEncoder(deps.Store),
		compiler:    deps.Compiler,
		decoder:     loader.NewDecoder(deps.Store, deps.Logger),
		logger:      deps.Logger,
		codec:       deps.Codec,
		journal:     deps.Journal,
		mirror:      deps.Mirror,
		metrics:     deps.Metrics,
		now:         deps.Now,
		subscribers: make(map[*subscriber]struct{}),
	}
	if s.mirror == nil {
		s.mirror = mirror.Noop{}
	}
	if s.now == nil {
		s.now = time.Now
	}

	if err := s.store.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("prepare namespace %s: %w", s.store.Namespace(), err)
	}

	records, err := s.decodeAll(ctx)
	if err != nil {
		return nil, err
	}
	s.replace(records)

	s.logger.Info(ctx, "record store ready", "dir", s.store.Dir(), "records", len(records))
	return s, nil
}

// Submit stores the pair and republishes the full snapshot.
//
// An invalid pair yields a *identifier.ValidationError and changes nothing.
// Any other error is fatal to the caller: the namespace may hold a new unit
// or artifact that the snapshot does not yet reflect.
func (s *Service) Submit(ctx context.Context, username, password string) error {
	if err := identifier.Validate(username, password); err != nil {
		s.metrics.IncrementOutcome(metrics.OutcomeInvalid)
		return err
	}
	rec := models.Record{Username: username, Password: password}

	source, err := s.encoder.Encode(rec)
	if err != nil {
		s.metrics.IncrementOutcome(metrics.OutcomeError)
		return err
	}

	target := s.store.ArtifactPath(username)
	start := time.Now()
	err = s.compiler.Compile(ctx, source, target)
	s.metrics.ObserveCompile(time.Since(start))
	if err != nil {
		if errors.Is(err, compiler.ErrCompile) {
			s.metrics.IncrementOutcome(metrics.OutcomeCompileError)
		} else {
			s.metrics.IncrementOutcome(metrics.OutcomeError)
		}
		return err
	}

	s.afterCompile(ctx, username, target)

	records, err := s.decodeAll(ctx)
	if err != nil {
		s.metrics.IncrementOutcome(metrics.OutcomeError)
		return err
	}
	s.replace(records)
	s.metrics.IncrementOutcome(metrics.OutcomeOK)

	s.logger.Info(ctx, "record stored", "username", username, "records", len(records))
	return nil
}

// ListAll returns a copy of the current snapshot in no particular order.
func (s *Service) ListAll() []models.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.records)
}

// IsFatal reports whether err is anything other than a validation failure.
func IsFatal(err error) bool {
	return err != nil && !errors.Is(err, identifier.ErrInvalid)
}

func (s *Service) decodeAll(ctx context.Context) ([]models.Record, error) {
	start := time.Now()
	records, err := loader.Collect(s.decoder.DecodeAll(ctx))
	s.metrics.ObserveDecode(time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("decode namespace %s: %w", s.store.Namespace(), err)
	}
	return records, nil
}

// afterCompile journals and mirrors the new artifact. Failures are logged
// and otherwise ignored.
func (s *Service) afterCompile(ctx context.Context, username, target string) {
	if s.journal == nil {
		if _, ok := s.mirror.(mirror.Noop); ok {
			return
		}
	}

	data, err := os.ReadFile(target)
	if err != nil {
		s.logger.Warn(ctx, "read artifact for journal/mirror", "artifact", target, "error", err)
		return
	}

	if s.journal != nil {
		digest, err := cryptox.DigestReader(bytes.NewReader(data))
		if err == nil {
			err = s.journal.Record(ctx, &journal.Entry{
				Username:     username,
				ArtifactPath: target,
				Digest:       digest.Sum,
				Size:         digest.Size,
				Codec:        s.codec,
				CompiledAt:   s.now().UTC(),
			})
		}
		if err != nil {
			s.metrics.IncrementSideEffectFailure("journal")
			s.logger.Warn(ctx, "journal append failed", "username", username, "error", err)
		}
	}

	key, err := s.mirrorKey(target)
	if err == nil {
		err = s.mirror.Put(ctx, key, data)
	}
	if err != nil {
		s.metrics.IncrementSideEffectFailure("mirror")
		s.logger.Warn(ctx, "artifact mirror failed", "username", username, "error", err)
	}
}

// mirrorKey is the artifact path relative to the source root, slash separated.
func (s *Service) mirrorKey(target string) (string, error) {
	rel, err := filepath.Rel(s.store.Root(), target)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}
