package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/Lllllllleong/ocrdocumentflow/internal/config"
	"github.com/Lllllllleong/ocrdocumentflow/internal/gcp"
	"github.com/Lllllllleong/ocrdocumentflow/internal/models"
	"github.com/Lllllllleong/ocrdocumentflow/internal/timing"
	"github.com/Lllllllleong/ocrdocumentflow/internal/vision"
	"github.com/Lllllllleong/ocrdocumentflow/internal/watcher"
)

// Pipeline is the top-level sequencer. On a stability-confirmed file event it
// runs conversion, encoding, recognition, and aggregation, trapping failures
// at each stage boundary so the long-lived watch process never dies because
// of one bad document.
type Pipeline struct {
	config     config.Config
	converter  *Converter
	encoder    *Encoder
	recognizer *Recognizer
	aggregator *Aggregator
	mirror     *gcp.ArtifactMirror

	// running admits at most one run at a time; overlapping notifications
	// for the same filename are dropped with a warning.
	running atomic.Bool
}

// NewPipeline builds a Pipeline with its production collaborators: the Vision
// OCR client and, when an artifact bucket is configured, the GCS mirror.
func NewPipeline(ctx context.Context, cfg config.Config) (*Pipeline, error) {
	annotator, err := vision.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create OCR client: %w", err)
	}
	var mirror *gcp.ArtifactMirror
	if cfg.ArtifactBucket != "" {
		mirror, err = gcp.NewArtifactMirror(ctx, cfg.ArtifactBucket)
		if err != nil {
			return nil, fmt.Errorf("failed to create artifact mirror: %w", err)
		}
	}
	return newPipeline(cfg, annotator, mirror), nil
}

func newPipeline(cfg config.Config, annotator vision.Annotator, mirror *gcp.ArtifactMirror) *Pipeline {
	return &Pipeline{
		config:     cfg,
		converter:  NewConverter(cfg),
		encoder:    NewEncoder(cfg.EncodeWorkers),
		recognizer: NewRecognizer(annotator),
		aggregator: NewAggregator(cfg.WatchDir),
		mirror:     mirror,
	}
}

// HandleCreate is the watch callback. Run failures are logged, never
// propagated: the watcher stays alive and the next creation event starts a
// fresh run regardless of this one's outcome.
func (p *Pipeline) HandleCreate(ctx context.Context, path string) {
	if !p.running.CompareAndSwap(false, true) {
		slog.Warn("A run is already in progress. Dropping notification.", "path", path)
		return
	}
	defer p.running.Store(false)

	if err := p.Run(ctx); err != nil {
		if errors.Is(err, ErrStabilityLost) {
			slog.Warn("Run abandoned.", "reason", err)
			return
		}
		slog.Error("Run failed.", "error", err)
	}
}

// runContext carries the state of one pipeline run. It is constructed fresh
// per notification; nothing survives in memory between runs.
type runContext struct {
	startedAt time.Time
	report    timing.Report
	artifacts models.DocumentArtifacts
}

// Run executes one complete pass of the pipeline over the configured input
// file. Stage timings collected before a failure are still persisted, except
// for a stability-lost abort, which writes nothing at all.
func (p *Pipeline) Run(ctx context.Context) error {
	run := &runContext{startedAt: time.Now()}
	inputPath := p.config.InputPath()
	logCtx := slog.With("inputPath", inputPath)
	logCtx.Info("Found input document. Processing.")

	var stable bool
	err := run.report.Track("stability_check", func() error {
		var gateErr error
		stable, gateErr = watcher.AwaitStable(ctx, inputPath, p.config.PollInterval, p.config.QuietPeriod)
		return gateErr
	})
	if err != nil {
		return fmt.Errorf("stability check interrupted: %w", err)
	}
	if !stable {
		return ErrStabilityLost
	}

	// From here on the run report is written no matter how the run ends.
	defer p.writeRunReport(run, inputPath)

	if info, err := os.Stat(inputPath); err == nil {
		logCtx.Info("Input file stable.", "sizeBytes", info.Size())
	}

	_ = run.report.Track("pdf_preflight", func() error {
		pageCount, err := p.converter.Preflight(inputPath)
		if err != nil {
			// Informational only; conversion is still attempted.
			logCtx.Warn("PDF pre-flight check failed.", "error", err)
			return nil
		}
		logCtx.Info("PDF pre-flight check passed.", "pageCount", pageCount)
		return nil
	})

	var pageArtifacts []models.PageImageArtifact
	err = run.report.Track("pdf_to_jpeg", func() error {
		var convErr error
		pageArtifacts, convErr = p.converter.Process(ctx, inputPath, p.config.WatchDir)
		return convErr
	})
	if err != nil {
		return err
	}

	var payloads []models.EncodedPagePayload
	_ = run.report.Track("jpeg_to_base64", func() error {
		payloads = p.encoder.Process(ctx, pageArtifacts)
		return nil
	})
	logCtx.Info("Page encoding complete.", "encodedPages", len(payloads), "totalPages", len(pageArtifacts))
	if len(payloads) == 0 {
		return fmt.Errorf("no encoded pages available for recognition")
	}

	_ = run.report.Track("text_extraction", func() error {
		extractionStart := time.Now()
		results, pageTimings := p.recognizer.Process(ctx, payloads)
		run.artifacts = p.aggregator.Process(results, pageTimings, extractionStart)
		return nil
	})

	if p.mirror != nil {
		runID := run.startedAt.UTC().Format("20060102-150405")
		if err := p.mirror.Mirror(ctx, runID, run.artifacts.Paths()); err != nil {
			// Mirroring is best-effort; local artifacts are authoritative.
			logCtx.Error("Failed to mirror artifacts.", "error", err)
		}
	}

	logCtx.Info("Run complete.", "durationSeconds", time.Since(run.startedAt).Seconds())
	return nil
}

// writeRunReport persists the run-level timing report. Failure to write it is
// logged and swallowed; there is no other status channel for a run.
func (p *Pipeline) writeRunReport(run *runContext, inputPath string) {
	end := time.Now()
	report := models.ProcessingTimingReport{
		StartTime:            run.startedAt,
		EndTime:              end,
		TotalDurationSeconds: end.Sub(run.startedAt).Seconds(),
		PDFPath:              inputPath,
		Stages:               run.report.Records(),
	}
	if info, err := os.Stat(inputPath); err == nil {
		report.PDFSizeBytes = info.Size()
	}

	path := filepath.Join(p.config.WatchDir, processingTimingName)
	if err := writeJSONArtifact(path, report); err != nil {
		slog.Error("Failed to save run timing report.", "path", path, "error", err)
		return
	}
	slog.Info("Run timing report saved.", "path", path, "totalSeconds", report.TotalDurationSeconds)
}
