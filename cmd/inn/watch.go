package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/inn-lang/inn/internal/watch"
)

type watchOptions struct {
	build    bool
	poll     time.Duration
	debounce time.Duration
}

func newWatchCmd(a *app) *cobra.Command {
	var opts watchOptions

	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-check or rebuild a file whenever it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return a.watch(ctx, args[0], opts)
		},
	}
	cmd.Flags().BoolVar(&opts.build, "build", false, "rebuild instead of only checking")
	cmd.Flags().DurationVar(&opts.poll, "poll", 0, "poll at this interval instead of using OS notifications")
	cmd.Flags().DurationVar(&opts.debounce, "debounce", 100*time.Millisecond, "wait this long for a burst of writes to settle")
	return cmd
}

func (a *app) watch(ctx context.Context, path string, opts watchOptions) error {
	w, err := a.newWatcher(path, opts.poll)
	if err != nil {
		return err
	}
	defer w.Close()

	run := func() {
		var err error
		if opts.build {
			_, err = a.build(ctx, path, buildOptions{})
		} else {
			err = a.checkFile(path)
		}
		switch {
		case err == nil:
			a.log.Info("%s ok", path)
		case !errors.Is(err, errReported):
			a.log.Error("%v", err)
		}
	}

	run()
	a.log.Info("watching %s", path)
	return watch.Watch(ctx, w, path, opts.debounce, func(ev watch.Event) {
		a.log.Debug("%s %s", ev.Op, ev.Path)
		run()
	})
}

// newWatcher prefers OS notifications on the file's directory, which also
// sees editors that save by renaming a temporary file, and falls back to
// polling the file itself.
func (a *app) newWatcher(path string, poll time.Duration) (watch.Watcher, error) {
	if poll <= 0 {
		fw, err := watch.NewFSWatcher()
		if err == nil {
			if err = fw.Add(filepath.Dir(path)); err == nil {
				return fw, nil
			}
			fw.Close()
		}
		a.log.Warn("file notifications unavailable (%v), polling instead", err)
		poll = 500 * time.Millisecond
	}

	pw := watch.NewPollingWatcher(poll)
	if err := pw.Add(path); err != nil {
		pw.Close()
		return nil, err
	}
	return pw, nil
}

// checkFile parses one file and reports its first error.
func (a *app) checkFile(path string) error {
	if err := a.checkSource(path, false); err != nil {
		var se *sourceError
		if errors.As(err, &se) {
			return a.report(se.err, se.file)
		}
		return err
	}
	return nil
}
