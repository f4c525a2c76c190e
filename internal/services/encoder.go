package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/Lllllllleong/ocrdocumentflow/internal/models"
	"golang.org/x/sync/errgroup"
)

// Encoder turns each page image into its base64 transport form and persists
// it as a sibling .b64 file. Pages are encoded concurrently up to a worker
// limit; one page's I/O failure only costs that page, never the run.
type Encoder struct {
	workers int
}

// NewEncoder creates an Encoder with the given fan-out limit.
func NewEncoder(workers int) *Encoder {
	if workers <= 0 {
		workers = 1
	}
	return &Encoder{workers: workers}
}

// Process encodes all artifacts and returns the successful payloads in
// ascending page order. Failed pages are logged and omitted.
func (e *Encoder) Process(ctx context.Context, artifacts []models.PageImageArtifact) []models.EncodedPagePayload {
	results := make([]*models.EncodedPagePayload, len(artifacts))

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(e.workers)
	for i, artifact := range artifacts {
		eg.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			payload, err := encodePage(artifact)
			if err != nil {
				// Per-page isolation: record nothing and move on.
				slog.Error("Failed to encode page image.", "page", artifact.PageNumber, "path", artifact.Path, "error", err)
				return nil
			}
			slog.Info("Encoded page image.",
				"page", artifact.PageNumber,
				"imageBytes", artifact.ByteSize,
				"imageModified", artifact.ModifiedAt,
				"encodedPath", payload.Path,
				"encodedLength", len(payload.Content),
			)
			results[i] = payload
			return nil
		})
	}
	_ = eg.Wait()

	payloads := make([]models.EncodedPagePayload, 0, len(artifacts))
	for _, payload := range results {
		if payload != nil {
			payloads = append(payloads, *payload)
		}
	}
	return payloads
}

func encodePage(artifact models.PageImageArtifact) (*models.EncodedPagePayload, error) {
	data, err := os.ReadFile(artifact.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read page image: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(data)

	b64Path := strings.TrimSuffix(artifact.Path, ".jpg") + ".b64"
	if err := os.WriteFile(b64Path, []byte(encoded), 0o644); err != nil {
		return nil, fmt.Errorf("failed to persist encoded payload: %w", err)
	}
	return &models.EncodedPagePayload{
		PageNumber: artifact.PageNumber,
		Path:       b64Path,
		Content:    encoded,
	}, nil
}
