// Package cli is the interactive front end of typekeeper.
//
// Submits run on background goroutines. Their outcomes and the snapshots
// they publish are handed back over channels and applied on the REPL
// goroutine only.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/typekeeper/internal/artifact"
	"github.com/dmitrijs2005/typekeeper/internal/compiler"
	"github.com/dmitrijs2005/typekeeper/internal/config"
	"github.com/dmitrijs2005/typekeeper/internal/identifier"
	"github.com/dmitrijs2005/typekeeper/internal/journal"
	"github.com/dmitrijs2005/typekeeper/internal/keeper"
	"github.com/dmitrijs2005/typekeeper/internal/logging"
	"github.com/dmitrijs2005/typekeeper/internal/metrics"
	"github.com/dmitrijs2005/typekeeper/internal/mirror"
	"github.com/dmitrijs2005/typekeeper/internal/models"
	"github.com/dmitrijs2005/typekeeper/internal/namespace"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

type submitResult struct {
	username string
	err      error
}

type App struct {
	config   *config.Config
	logger   logging.Logger
	service  *keeper.Service
	journal  *journal.Journal
	registry *prometheus.Registry

	reader *bufio.Reader
	out    io.Writer

	results     chan submitResult
	updates     <-chan []models.Record
	unsubscribe func()
	pending     sync.WaitGroup
	// submitMu keeps the store single-writer
	submitMu sync.Mutex

	// view is the last snapshot applied on the REPL goroutine
	view []models.Record

	exitFn func(code int)
}

// NewApp wires the record store described by c to stdin and stdout.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	return newApp(ctx, c, logger, os.Stdin, os.Stdout)
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger, in io.Reader, out io.Writer) (*App, error) {
	ns, err := namespace.Parse(c.Namespace)
	if err != nil {
		return nil, err
	}
	codec, err := artifact.CodecByName(c.Format)
	if err != nil {
		return nil, err
	}
	store := namespace.NewStore(c.Root, ns, c.SourceExt, c.ArtifactExt)

	comp, err := newCompiler(c, ns, codec, logger)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	deps := keeper.Deps{
		Store:    store,
		Compiler: comp,
		Logger:   logger,
		Codec:    codec.Name(),
		Metrics:  metrics.New(registry),
	}

	a := &App{
		config:   c,
		logger:   logger,
		registry: registry,
		reader:   bufio.NewReader(in),
		out:      out,
		results:  make(chan submitResult, 1),
		exitFn:   os.Exit,
	}

	if dsn := c.Journal(); dsn != "" {
		if err := store.EnsureDirectories(); err != nil {
			return nil, err
		}
		j, err := journal.Open(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("open journal: %w", err)
		}
		a.journal = j
		deps.Journal = j
	}

	if c.S3.Bucket != "" {
		m, err := mirror.NewS3(ctx, mirror.Config{
			Bucket:    c.S3.Bucket,
			Region:    c.S3.Region,
			Endpoint:  c.S3.Endpoint,
			AccessKey: c.S3.AccessKey,
			SecretKey: c.S3.SecretKey,
			Prefix:    c.S3.Prefix,
			PathStyle: c.S3.PathStyle,
		})
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("s3 mirror: %w", err)
		}
		deps.Mirror = m
	}

	svc, err := keeper.New(ctx, deps)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.service = svc
	a.view = svc.ListAll()
	a.updates, a.unsubscribe = svc.Subscribe(1)

	return a, nil
}

func newCompiler(c *config.Config, ns namespace.Namespace, codec artifact.Codec, logger logging.Logger) (compiler.Compiler, error) {
	if c.Compiler == config.CompilerExec {
		return compiler.NewExec(c.Toolchain(), logger)
	}
	return compiler.NewBuiltin(ns, codec, logger), nil
}

// Run drives the REPL and, when configured, serves /metrics until the REPL
// ends.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	ctx, cancel := context.WithCancel(ctx)
	g, ctx := errgroup.WithContext(ctx)

	if a.config.MetricsAddr != "" {
		srv := &http.Server{
			Addr:              a.config.MetricsAddr,
			Handler:           a.metricsHandler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			a.logger.Info(ctx, "serving metrics", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.logger.Warn(ctx, "metrics server stopped", "error", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, stop := context.WithTimeout(context.Background(), 3*time.Second)
			defer stop()
			return srv.Shutdown(shutdownCtx)
		})
	}

	g.Go(func() error {
		defer cancel()
		a.logger.Info(ctx, "welcome to typekeeper (type 'help' for commands)")
		runREPL(ctx, a, a.reader)
		return nil
	})

	return g.Wait()
}

func (a *App) metricsHandler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))
	return mux
}

// Close releases the subscription and the journal. Safe to call twice.
func (a *App) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
	if a.service != nil {
		a.service.Close()
	}
	if a.journal != nil {
		_ = a.journal.Close()
		a.journal = nil
	}
}

// Add prompts for a record and submits it in the background.
func (a *App) Add(ctx context.Context) error {
	username, err := GetSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.reader, a.out)
	if err != nil {
		return err
	}

	a.pending.Add(1)
	go func() {
		defer a.pending.Done()
		a.submitMu.Lock()
		err := a.service.Submit(ctx, username, password)
		a.submitMu.Unlock()
		a.results <- submitResult{username: username, err: err}
	}()
	return nil
}

func (a *App) Poll(ctx context.Context) {
	for {
		select {
		case r := <-a.results:
			a.handle(ctx, r)
		case snapshot, ok := <-a.updates:
			if !ok {
				a.updates = nil
				continue
			}
			a.apply(snapshot)
		default:
			return
		}
	}
}

func (a *App) Wait(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		a.pending.Wait()
		close(done)
	}()

	for {
		select {
		case r := <-a.results:
			a.handle(ctx, r)
		case <-done:
			a.Poll(ctx)
			return
		}
	}
}

func (a *App) handle(ctx context.Context, r submitResult) {
	switch {
	case r.err == nil:
		printlnFn("Saved", r.username)
	case !keeper.IsFatal(r.err):
		var ve *identifier.ValidationError
		if errors.As(r.err, &ve) {
			printlnFn(ve.Rules)
		} else {
			printlnFn(r.err.Error())
		}
	default:
		a.logger.Error(ctx, "submit failed", "username", r.username, "error", r.err)
		a.exitFn(1)
	}
}

func (a *App) apply(snapshot []models.Record) {
	models.SortByUsername(snapshot)
	a.view = snapshot
	printlnFn(fmt.Sprintf("Stored records: %d", len(snapshot)))
}

// List prints the current view sorted by username.
func (a *App) List(ctx context.Context) error {
	records := append([]models.Record(nil), a.view...)
	models.SortByUsername(records)

	if len(records) == 0 {
		printlnFn("No records")
		return nil
	}
	for _, r := range records {
		printlnFn(fmt.Sprintf("%s\t%s", r.Username, r.Password))
	}
	return nil
}

// History prints the journal for username, or a per-user summary when
// username is empty.
func (a *App) History(ctx context.Context, username string) error {
	if a.journal == nil {
		printlnFn("Journal is disabled")
		return nil
	}

	if username == "" {
		accounts, err := a.journal.Accounts(ctx)
		if err != nil {
			a.logger.Error(ctx, "read journal", "error", err)
			return err
		}
		if len(accounts) == 0 {
			printlnFn("No submissions")
		}
		for _, acc := range accounts {
			printlnFn(fmt.Sprintf("%s\t%d submission(s), last %s",
				acc.Username, acc.Submissions, acc.LastCompiledAt.Format(time.RFC3339)))
		}
		return nil
	}

	entries, err := a.journal.History(ctx, username)
	if err != nil {
		a.logger.Error(ctx, "read journal", "username", username, "error", err)
		return err
	}
	if len(entries) == 0 {
		printlnFn("No submissions for", username)
	}
	for _, e := range entries {
		printlnFn(fmt.Sprintf("%s\t%s\t%d bytes\t%s",
			e.CompiledAt.Format(time.RFC3339), e.Codec, e.Size, e.Digest[:min(12, len(e.Digest))]))
	}
	return nil
}
