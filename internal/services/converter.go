package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/Lllllllleong/ocrdocumentflow/internal/config"
	"github.com/Lllllllleong/ocrdocumentflow/internal/models"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// pageImagePattern matches the conversion tool's page-indexed output names.
var pageImagePattern = regexp.MustCompile(`^output-(\d+)\.jpg$`)

// timeoutExitCode is what coreutils timeout(1) reports; kept for parity with
// converters wrapped in it.
const timeoutExitCode = 124

// Converter invokes the external raster-conversion tool on a stable input
// file and collects the resulting page image artifacts.
type Converter struct {
	config config.Config
}

// NewConverter creates a Converter with the given process configuration.
func NewConverter(cfg config.Config) *Converter {
	return &Converter{config: cfg}
}

// Preflight validates the PDF and reports its page count. Failures here are
// informational only; a conversion attempt still follows.
func (c *Converter) Preflight(inputPath string) (int, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if err := api.ValidateFile(inputPath, conf); err != nil {
		return 0, fmt.Errorf("pdf validation failed: %w", err)
	}
	pageCount, err := api.PageCountFile(inputPath)
	if err != nil {
		return 0, fmt.Errorf("failed to get page count: %w", err)
	}
	return pageCount, nil
}

// Process converts inputPath into one JPEG per page inside outputDir and
// returns the artifacts sorted by page number ascending. Any failure is a
// *ConversionError; conversion is not retried.
func (c *Converter) Process(ctx context.Context, inputPath, outputDir string) ([]models.PageImageArtifact, error) {
	logCtx := slog.With("inputPath", inputPath, "density", c.config.DensityDPI, "quality", c.config.Quality)

	runCtx, cancel := context.WithTimeout(ctx, c.config.ConvertTimeout)
	defer cancel()

	outputPattern := filepath.Join(outputDir, "output-%d.jpg")
	cmd := exec.CommandContext(runCtx, c.config.ConvertBinary,
		"-density", strconv.Itoa(c.config.DensityDPI),
		"-quality", strconv.Itoa(c.config.Quality),
		inputPath,
		outputPattern,
	)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logCtx.Info("Starting PDF to JPEG conversion.", "command", cmd.String())
	err := cmd.Run()
	if err != nil {
		if runCtx.Err() == context.DeadlineExceeded {
			return nil, &ConversionError{Kind: ConversionTimeout, ExitCode: timeoutExitCode}
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			if exitErr.ExitCode() == timeoutExitCode {
				return nil, &ConversionError{Kind: ConversionTimeout, ExitCode: timeoutExitCode, Stderr: stderr.String()}
			}
			return nil, &ConversionError{Kind: ConversionFailed, ExitCode: exitErr.ExitCode(), Stderr: stderr.String()}
		}
		return nil, &ConversionError{Kind: ConversionFailed, ExitCode: -1, Stderr: err.Error()}
	}

	artifacts, err := collectPageArtifacts(outputDir)
	if err != nil {
		return nil, &ConversionError{Kind: ConversionFailed, ExitCode: 0, Stderr: err.Error()}
	}
	if len(artifacts) == 0 {
		return nil, &ConversionError{Kind: ConversionNoPagesProduced}
	}
	logCtx.Info("PDF to JPEG conversion completed.", "pageCount", len(artifacts))
	return artifacts, nil
}

// collectPageArtifacts lists the produced page images and orders them by the
// numeric index embedded in the filename. Directory listing order is never
// trusted: output-10.jpg must sort after output-9.jpg. Page numbers are then
// assigned as 1-based ordinals over that order.
func collectPageArtifacts(outputDir string) ([]models.PageImageArtifact, error) {
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list output directory: %w", err)
	}

	type indexed struct {
		index int
		name  string
	}
	var pages []indexed
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := pageImagePattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		idx, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		pages = append(pages, indexed{index: idx, name: entry.Name()})
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].index < pages[j].index })

	artifacts := make([]models.PageImageArtifact, 0, len(pages))
	for i, page := range pages {
		path := filepath.Join(outputDir, page.name)
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat page image %s: %w", path, err)
		}
		artifacts = append(artifacts, models.PageImageArtifact{
			PageNumber: i + 1,
			Path:       path,
			ByteSize:   info.Size(),
			ModifiedAt: info.ModTime(),
		})
	}
	return artifacts, nil
}
