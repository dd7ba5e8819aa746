package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/maruel/readinglist/internal/config"
	"github.com/maruel/readinglist/internal/history"
	"github.com/maruel/readinglist/internal/models"
	"github.com/maruel/readinglist/internal/storage"
	"github.com/spf13/cobra"
)

// rootOptions holds the global flags.
type rootOptions struct {
	dataDir  string
	logLevel string
	sortMode string
	format   string // "text" | "json"
}

var validFormats = []string{"text", "json"}

// app is the state shared by subcommands once the library is open.
type app struct {
	opts    *rootOptions
	dir     string
	cfg     *config.Config
	history *history.Repo
	lib     *storage.Library
}

func newRootCommand(a *app, ll *slog.LevelVar) *cobra.Command {
	opts := &rootOptions{}
	a.opts = opts

	cmd := &cobra.Command{
		Use:           "readinglist",
		Short:         "Keep a list of books to read",
		Long:          "readinglist keeps an ordered list of books, split between the ones to read and the ones finished.",
		Version:       version(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(validFormats, opts.format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.format, validFormats)
			}
			return a.setup(ll)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "data directory (default $"+config.EnvDataDir+" or the user config directory)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&opts.sortMode, "sort", "", "sort mode (manual, title, author); overrides config.yaml")
	cmd.PersistentFlags().StringVar(&opts.format, "format", "text", "output format (text|json)")

	cmd.AddCommand(newListCommand(a))
	cmd.AddCommand(newAddCommand(a))
	cmd.AddCommand(newDeleteCommand(a))
	cmd.AddCommand(newMoveCommand(a))
	cmd.AddCommand(newFinishCommand(a, true))
	cmd.AddCommand(newFinishCommand(a, false))
	cmd.AddCommand(newReviewCommand(a))
	cmd.AddCommand(newCoverCommand(a))
	cmd.AddCommand(newSchemaCommand())
	cmd.AddCommand(newHistoryCommand(a))
	cmd.AddCommand(newWatchCommand(a))
	return cmd
}

// setup resolves the data directory, loads the configuration and opens the
// library.
func (a *app) setup(ll *slog.LevelVar) error {
	dir, err := config.DataDir(a.opts.dataDir)
	if err != nil {
		return err
	}
	a.dir = dir
	cfg, err := config.Load(dir)
	if err != nil {
		return err
	}
	a.cfg = cfg
	level, err := config.ParseLevel(cfg.LogLevelName(a.opts.logLevel))
	if err != nil {
		return err
	}
	ll.Set(level)

	mode := cfg.SortMode
	if a.opts.sortMode != "" {
		if mode, err = models.ParseSortMode(a.opts.sortMode); err != nil {
			return err
		}
	}

	opts := storage.Options{Dir: dir, JPEGQuality: cfg.JPEGQuality, SortMode: mode}
	if cfg.History || isRepo(dir) {
		if a.history, err = history.Open(dir, "readinglist", "readinglist@localhost"); err != nil {
			return err
		}
		if cfg.History {
			opts.History = a.history
		}
	}
	a.lib, err = storage.Open(opts)
	return err
}

func (a *app) close() error {
	if a.lib == nil {
		return nil
	}
	err := a.lib.Close()
	a.lib = nil
	return err
}

func isRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}
