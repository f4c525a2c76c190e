package services

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/Lllllllleong/ocrdocumentflow/internal/models"
	"github.com/Lllllllleong/ocrdocumentflow/internal/vision"
)

// Recognizer sends each encoded page to the OCR collaborator and builds that
// page's entry in the structured document model. Pages are processed strictly
// in ascending page order; each call is independent and a single page's
// failure never aborts the run.
type Recognizer struct {
	annotator vision.Annotator
}

// NewRecognizer creates a Recognizer over the given OCR collaborator.
func NewRecognizer(annotator vision.Annotator) *Recognizer {
	return &Recognizer{annotator: annotator}
}

// Process runs recognition over all payloads. It returns the results for the
// pages that completed, in page order, along with their timing entries. Pages
// the service rejected contribute neither a result nor a timing entry.
func (r *Recognizer) Process(ctx context.Context, payloads []models.EncodedPagePayload) ([]models.RecognitionResult, []models.PageTiming) {
	var results []models.RecognitionResult
	var timings []models.PageTiming

	for _, payload := range payloads {
		pageStart := time.Now()
		logCtx := slog.With("page", payload.PageNumber, "file", filepath.Base(payload.Path))

		apiStart := time.Now()
		annotation, err := r.annotator.DetectDocumentText(ctx, payload.Content)
		apiDuration := time.Since(apiStart)
		if err != nil {
			logCtx.Error("OCR service error; skipping page.", "error", err)
			continue
		}

		result := vision.BuildPageResult(payload.PageNumber, annotation)
		pageDuration := time.Since(pageStart)

		logCtx.Info("Extracted text from page.",
			"textLength", len(result.FullText),
			"apiSeconds", apiDuration.Seconds(),
			"totalSeconds", pageDuration.Seconds(),
		)

		results = append(results, result)
		timings = append(timings, models.PageTiming{
			Page:        payload.PageNumber,
			File:        filepath.Base(payload.Path),
			TotalTime:   pageDuration.Seconds(),
			APICallTime: apiDuration.Seconds(),
			TextLength:  len(result.FullText),
		})
	}
	return results, timings
}
