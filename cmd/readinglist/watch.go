package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/maruel/readinglist/internal/storage"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

func newWatchCommand(a *app) *cobra.Command {
	var interval time.Duration
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print the list again every time " + storage.DocumentName + " changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if err := printBooks(w, a.opts.format, a.lib, nil, false); err != nil {
				return err
			}
			mode := a.lib.SortMode()
			reload := func() error {
				lib, err := storage.Open(storage.Options{Dir: a.dir, SortMode: mode})
				if err != nil {
					return err
				}
				defer func() { _ = lib.Close() }()
				_, _ = fmt.Fprintln(w)
				return printBooks(w, a.opts.format, lib, nil, false)
			}
			return watchDocument(cmd.Context(), a.dir, rate.NewLimiter(rate.Every(interval), 1), reload)
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 500*time.Millisecond, "minimum delay between two reloads")
	return cmd
}

// watchDocument calls reload each time the reading list in dir is replaced,
// at most as often as lim allows, until ctx is canceled.
//
// The directory is watched rather than the file since saves rename a new file
// over the old one.
func watchDocument(ctx context.Context, dir string, lim *rate.Limiter, reload func() error) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	slog.DebugContext(ctx, "Watching", "dir", dir)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != storage.DocumentName || !(event.Has(fsnotify.Create) || event.Has(fsnotify.Write)) {
				continue
			}
			if err := lim.Wait(ctx); err != nil {
				return err
			}
			// Coalesce the events that arrived while waiting.
			drain(w.Events)
			if err := reload(); err != nil {
				slog.WarnContext(ctx, "Failed to reload", "err", err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.WarnContext(ctx, "Error watching data directory", "err", err)
		}
	}
}

func drain(events <-chan fsnotify.Event) {
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		default:
			return
		}
	}
}
