package watcher

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// AwaitStable polls path's size until it has stopped changing for quietPeriod.
// It returns true once that quiet period has elapsed, and false if the file
// disappears or cannot be stat'ed mid-watch. There is no internal timeout:
// the loop runs until a verdict or until ctx is cancelled, in which case the
// context error is returned.
//
// A size of zero means "writer has not started yet" and never counts towards
// stability, no matter how long the file stays empty.
func AwaitStable(ctx context.Context, path string, pollInterval, quietPeriod time.Duration) (bool, error) {
	logCtx := slog.With("path", path, "quietPeriod", quietPeriod.String())
	logCtx.Info("Monitoring file size stability.")

	var lastSize int64 = -1
	var stableSince time.Time

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		info, err := os.Stat(path)
		if err != nil {
			logCtx.Warn("File disappeared during stability check.", "error", err)
			return false, nil
		}
		now := time.Now()

		switch size := info.Size(); {
		case size == 0:
			logCtx.Info("File size is 0, waiting for content.")
			stableSince = time.Time{}
		case size != lastSize:
			logCtx.Info("File size changed.", "previousSize", lastSize, "currentSize", size)
			lastSize = size
			stableSince = now
		case !stableSince.IsZero() && now.Sub(stableSince) >= quietPeriod:
			logCtx.Info("File size stable.", "size", size)
			return true, nil
		}

		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-ticker.C:
		}
	}
}
