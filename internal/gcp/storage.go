// Package gcp mirrors a run's final artifacts to a Cloud Storage bucket.
// Mirroring is optional and best-effort: the artifacts in the watch directory
// remain the authoritative outputs.
package gcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"cloud.google.com/go/storage"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/googleapi"
)

// ArtifactMirror uploads artifact files under a per-run prefix.
type ArtifactMirror struct {
	client *storage.Client
	bucket string
}

// NewArtifactMirror creates a mirror targeting the given bucket.
func NewArtifactMirror(ctx context.Context, bucket string) (*ArtifactMirror, error) {
	if bucket == "" {
		return nil, fmt.Errorf("bucket must be provided to create an artifact mirror")
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &ArtifactMirror{client: client, bucket: bucket}, nil
}

// Mirror uploads the given local files to runs/<runID>/<basename>, a few at a
// time. It returns the first upload error after all uploads have settled.
func (m *ArtifactMirror) Mirror(ctx context.Context, runID string, paths []string) error {
	logCtx := slog.With("bucket", m.bucket, "runId", runID)
	logCtx.Info("Mirroring artifacts.", "fileCount", len(paths))

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(4)
	for _, path := range paths {
		object := fmt.Sprintf("runs/%s/%s", runID, filepath.Base(path))
		eg.Go(func() error {
			if err := m.uploadFile(gctx, path, object); err != nil {
				return fmt.Errorf("%s: %w", object, err)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}
	logCtx.Info("All artifacts mirrored.")
	return nil
}

// uploadFile writes one local file to the bucket, retrying transient failures
// with exponential backoff. The write carries a DoesNotExist precondition so
// a concurrent duplicate upload of the same run prefix is a clean no-op.
func (m *ArtifactMirror) uploadFile(ctx context.Context, localPath, destObject string) error {
	const maxRetries = 4
	backoff := 1 * time.Second
	var lastErr error

	for i := 0; i < maxRetries; i++ {
		err := func() error {
			reader, err := os.Open(localPath)
			if err != nil {
				return fmt.Errorf("could not open local file %s: %w", localPath, err)
			}
			defer reader.Close()

			writeCtx, cancel := context.WithTimeout(ctx, 50*time.Second)
			defer cancel()

			writer := m.client.Bucket(m.bucket).Object(destObject).
				If(storage.Conditions{DoesNotExist: true}).
				NewWriter(writeCtx)

			if _, err := io.Copy(writer, reader); err != nil {
				_ = writer.Close()
				return fmt.Errorf("io.Copy to GCS failed: %w", err)
			}
			if err := writer.Close(); err != nil {
				return fmt.Errorf("failed to finalize GCS write: %w", err)
			}
			return nil
		}()

		if err == nil {
			return nil
		}
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && gerr.Code == http.StatusPreconditionFailed {
			slog.Info("Object already exists. Skipping.", "gcsObject", destObject)
			return nil
		}

		lastErr = err
		slog.Warn(
			"Upload failed, will retry.",
			"gcsObject", destObject,
			"attempt", i+1,
			"maxRetries", maxRetries,
			"backoff", backoff.String(),
			"error", err,
		)

		select {
		case <-time.After(backoff):
			backoff *= 2
		case <-ctx.Done():
			slog.Error("Context cancelled during backoff. Aborting retries.", "gcsObject", destObject, "error", ctx.Err())
			return ctx.Err()
		}
	}
	slog.Error("Upload failed after all retries.", "gcsObject", destObject, "error", lastErr)
	return fmt.Errorf("upload for %s failed after all retries: %w", destObject, lastErr)
}
