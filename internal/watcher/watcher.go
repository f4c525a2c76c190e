// Package watcher reacts to the creation of the one expected input file in
// the watch directory and decides when that file is safe to process.
package watcher

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fsnotify/fsnotify"
)

// Watcher delivers "input file created" notifications for a single directory.
// Watching is not recursive; only creation of the exact expected path fires.
type Watcher struct {
	fsw       *fsnotify.Watcher
	dir       string
	inputPath string
}

// New sets up an fsnotify watch on dir.
func New(dir, inputPath string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}
	return &Watcher{fsw: fsw, dir: dir, inputPath: inputPath}, nil
}

// Run blocks, invoking onCreate for every creation of the expected input
// file, until ctx is cancelled. onCreate is called synchronously, so a run in
// progress naturally defers delivery of the next notification.
func (w *Watcher) Run(ctx context.Context, onCreate func(ctx context.Context, path string)) error {
	logCtx := slog.With("watchDir", w.dir, "inputPath", w.inputPath)
	logCtx.Info("Watcher started. Ready to process documents.")

	for {
		select {
		case <-ctx.Done():
			logCtx.Info("Watcher stopping.", "reason", ctx.Err())
			return w.fsw.Close()
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create == fsnotify.Create && event.Name == w.inputPath {
				logCtx.Info("Input file created.")
				onCreate(ctx, event.Name)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			logCtx.Error("Watcher error.", "error", err)
		}
	}
}
