package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/roach88/drawsync/internal/config"
	"github.com/roach88/drawsync/internal/delta"
	"github.com/roach88/drawsync/internal/draw"
	"github.com/roach88/drawsync/internal/logging"
	"github.com/roach88/drawsync/internal/source"
	"github.com/roach88/drawsync/internal/store"
	"github.com/roach88/drawsync/internal/store/pgstore"
	"github.com/roach88/drawsync/internal/store/workbook"
)

// drawStore is what every store driver offers the commands.
type drawStore interface {
	delta.Store
	Latest(ctx context.Context, n int) ([]draw.Record, error)
	Count(ctx context.Context) (int, error)
	Close() error
}

// runLister is implemented by drivers with a run journal.
type runLister interface {
	ListRuns(ctx context.Context, n int) ([]delta.Run, error)
}

// app is the per-command environment: configuration, logger and output.
type app struct {
	opts *RootOptions
	cfg  *config.Config
	log  *logrus.Logger
	out  *OutputFormatter
}

func newApp(opts *RootOptions, cmd *cobra.Command) (*app, error) {
	out := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}

	log, err := logging.New(cfg.Log.Level, cfg.Log.Format, opts.Verbose, cmd.ErrOrStderr())
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to configure logging", err)
	}

	return &app{opts: opts, cfg: cfg, log: log, out: out}, nil
}

// openStore opens the configured store driver.
func (a *app) openStore(ctx context.Context) (drawStore, error) {
	switch a.cfg.Store.Driver {
	case config.DriverSQLite:
		path := a.cfg.StorePath()
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to create data directory", err)
		}
		a.log.WithField("path", path).Debug("opening sqlite store")
		st, err := store.Open(path)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to open database", err)
		}
		return st, nil

	case config.DriverPostgres:
		if err := pgstore.MigrateUp(a.cfg.Store.DatabaseURL, a.log); err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to migrate database", err)
		}
		st, err := pgstore.Open(ctx, a.cfg.Store.DatabaseURL)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to open database", err)
		}
		return st, nil

	case config.DriverXLSX:
		path := a.cfg.StorePath()
		a.log.WithField("path", path).Debug("using workbook store")
		return workbook.New(path), nil

	default:
		return nil, NewExitError(ExitCommandError, fmt.Sprintf("unknown store driver %q", a.cfg.Store.Driver))
	}
}

func (a *app) closeStore(st drawStore) {
	if err := st.Close(); err != nil {
		a.log.WithError(err).Error("error closing store")
	}
}

// checker builds the resolver/fetcher pair over the configured source.
func (a *app) checker(pageCap int) *delta.Checker {
	client := source.New(a.cfg.SourceClientConfig(), a.log)
	if pageCap <= 0 {
		pageCap = a.cfg.Sync.PageCap
	}
	return delta.NewChecker(client, delta.Options{
		PageCap: pageCap,
		Log:     a.log,
		Progress: func(page int) {
			a.out.VerboseLog("fetching page %d...", page)
		},
	})
}

func (a *app) synchronizer(st drawStore, pageCap int) *delta.Synchronizer {
	return delta.NewSynchronizer(st, a.checker(pageCap), delta.SyncOptions{
		PersistPartial: a.cfg.Sync.PersistPartial,
		Now:            a.opts.Now,
		RunIDs:         a.opts.RunIDs,
		Log:            a.log,
	})
}

// signalContext derives a context cancelled on SIGINT/SIGTERM.
func signalContext(cmd *cobra.Command, log logrus.FieldLogger) (context.Context, context.CancelFunc) {
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			log.WithField("signal", sig).Info("received signal, shutting down")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
