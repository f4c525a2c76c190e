package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Lllllllleong/ocrdocumentflow/internal/models"
)

// Output artifact names, all written into the watch directory and overwritten
// by each run.
const (
	textArtifactName       = "extracted_text.txt"
	structuredArtifactName = "extracted_structured_text.json"
	extractionTimingName   = "extraction_timing.json"
	processingTimingName   = "processing_timing.json"
)

// Aggregator concatenates per-page recognition output into the whole-document
// artifacts: plain text, structured JSON, and the recognition timing report.
type Aggregator struct {
	outputDir string
}

// NewAggregator creates an Aggregator writing into outputDir.
func NewAggregator(outputDir string) *Aggregator {
	return &Aggregator{outputDir: outputDir}
}

// Process writes the document artifacts for the given page results. Pages
// that failed recognition are simply absent: they contribute no text and no
// placeholder, so the blank-line separator count reflects successful pages
// only. A failed write is logged and the remaining artifacts are still
// attempted; the returned set lists only the paths that were written.
func (a *Aggregator) Process(results []models.RecognitionResult, timings []models.PageTiming, startedAt time.Time) models.DocumentArtifacts {
	var artifacts models.DocumentArtifacts
	logCtx := slog.With("outputDir", a.outputDir, "pageCount", len(results))

	if results == nil {
		results = []models.RecognitionResult{}
	}

	texts := make([]string, 0, len(results))
	for _, result := range results {
		texts = append(texts, result.FullText)
	}
	textPath := filepath.Join(a.outputDir, textArtifactName)
	if err := os.WriteFile(textPath, []byte(strings.Join(texts, "\n\n")), 0o644); err != nil {
		logCtx.Error("Failed to write text artifact.", "path", textPath, "error", err)
	} else {
		artifacts.TextPath = textPath
		logCtx.Info("Extracted text saved.", "path", textPath)
	}

	structuredPath := filepath.Join(a.outputDir, structuredArtifactName)
	if err := writeJSONArtifact(structuredPath, results); err != nil {
		logCtx.Error("Failed to write structured artifact.", "path", structuredPath, "error", err)
	} else {
		artifacts.StructuredPath = structuredPath
		logCtx.Info("Structured text data saved.", "path", structuredPath)
	}

	report := buildExtractionReport(timings, startedAt)
	timingPath := filepath.Join(a.outputDir, extractionTimingName)
	if err := writeJSONArtifact(timingPath, report); err != nil {
		logCtx.Error("Failed to write extraction timing artifact.", "path", timingPath, "error", err)
	} else {
		artifacts.TimingPath = timingPath
		logCtx.Info("Extraction timing saved.",
			"path", timingPath,
			"avgPageSeconds", report.AvgPageTimeSeconds,
			"avgApiSeconds", report.AvgAPITimeSeconds,
		)
	}

	return artifacts
}

// buildExtractionReport computes aggregate statistics over only the pages
// that completed recognition.
func buildExtractionReport(timings []models.PageTiming, startedAt time.Time) models.ExtractionTimingReport {
	end := time.Now()
	if timings == nil {
		timings = []models.PageTiming{}
	}
	report := models.ExtractionTimingReport{
		Pages:         timings,
		TotalPages:    len(timings),
		StartTime:     startedAt,
		EndTime:       end,
		TotalDuration: end.Sub(startedAt).Seconds(),
	}
	if len(timings) == 0 {
		return report
	}
	var totalSum, apiSum float64
	for _, t := range timings {
		totalSum += t.TotalTime
		apiSum += t.APICallTime
	}
	report.AvgPageTimeSeconds = totalSum / float64(len(timings))
	report.AvgAPITimeSeconds = apiSum / float64(len(timings))
	return report
}

func writeJSONArtifact(path string, payload any) error {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}
