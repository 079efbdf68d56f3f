package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/tsqlmod/tsqlmod/internal/catalog"
	"github.com/tsqlmod/tsqlmod/internal/journal"
	"github.com/tsqlmod/tsqlmod/internal/migrate"
	"github.com/tsqlmod/tsqlmod/internal/rewrite"
)

// DefaultJournalPath is used when neither flag nor config names a journal.
const DefaultJournalPath = "tsqlmod.db"

// toolbox bundles everything a command needs once flags and config are
// merged.
type toolbox struct {
	config     Config
	journal    *journal.Journal
	provider   catalog.Provider
	store      catalog.DefinitionStore
	controller *migrate.Controller
	tokens     migrate.TokenGenerator
	logger     *slog.Logger

	closers []func() error
}

func (tb *toolbox) Close() {
	for i := len(tb.closers) - 1; i >= 0; i-- {
		if err := tb.closers[i](); err != nil {
			tb.logger.Error("close failed", "error", err)
		}
	}
}

// setup merges flags over the config file, configures logging, opens the
// journal, and connects the catalog backend (server or file mode).
func setup(ctx context.Context, opts *RootOptions) (*toolbox, error) {
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	cfg, err := LoadConfig(opts.ConfigPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid config", err)
	}

	journalPath := firstNonEmpty(opts.Journal, cfg.Journal.Path, DefaultJournalPath)
	dsn := firstNonEmpty(opts.DSN, cfg.Server.DSN)
	fromDir := firstNonEmpty(opts.FromDir, cfg.Source.Dir)

	if dsn == "" && fromDir == "" {
		return nil, NewExitError(ExitCommandError, "no definition store: set --dsn (or server.dsn) or --from-dir (or source.dir)")
	}
	if dsn != "" && fromDir != "" {
		return nil, NewExitError(ExitCommandError, "--dsn and --from-dir are mutually exclusive")
	}

	tb := &toolbox{config: cfg, logger: logger, tokens: migrate.UUIDv7Generator{}}

	j, err := journal.Open(journalPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	tb.journal = j
	tb.closers = append(tb.closers, j.Close)

	if fromDir != "" {
		mem, err := catalog.LoadDir(fromDir)
		if err != nil {
			tb.Close()
			return nil, WrapExitError(ExitCommandError, "failed to load source directory", err)
		}
		tb.provider, tb.store = mem, mem
	} else {
		srv, err := catalog.OpenSQLServer(ctx, dsn)
		if err != nil {
			tb.Close()
			return nil, WrapExitError(ExitCommandError, "failed to connect definition store", err)
		}
		tb.provider, tb.store = srv, srv
		tb.closers = append(tb.closers, srv.Close)
	}

	tb.controller = migrate.NewController(rewrite.New(), tb.journal, tb.store, logger)
	return tb, nil
}

// setupJournal is the journal-only variant of setup for commands that never
// touch a definition store (history, cleanup).
func setupJournal(opts *RootOptions) (*toolbox, error) {
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	cfg, err := LoadConfig(opts.ConfigPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid config", err)
	}

	journalPath := firstNonEmpty(opts.Journal, cfg.Journal.Path, DefaultJournalPath)

	tb := &toolbox{config: cfg, logger: logger}
	j, err := journal.Open(journalPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	tb.journal = j
	tb.closers = append(tb.closers, j.Close)
	return tb, nil
}

// scopeFromFlags merges command scope flags over config scope defaults.
func (tb *toolbox) scope(schema, name string, legacyOnly bool) catalog.Scope {
	s := catalog.Scope{
		Schema:     firstNonEmpty(schema, tb.config.Scope.Schema),
		Name:       firstNonEmpty(name, tb.config.Scope.Name),
		LegacyOnly: legacyOnly || tb.config.Scope.LegacyOnly,
	}
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}
