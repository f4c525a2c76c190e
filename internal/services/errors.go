package services

import (
	"errors"
	"fmt"
	"strings"
)

// ErrStabilityLost marks a run abandoned because the input file vanished
// before the quiet period elapsed. No artifacts are written for such a run.
var ErrStabilityLost = errors.New("input file disappeared before stabilising")

// ConversionErrorKind classifies raster-conversion failures.
type ConversionErrorKind string

const (
	ConversionFailed          ConversionErrorKind = "failed"
	ConversionTimeout         ConversionErrorKind = "timeout"
	ConversionNoPagesProduced ConversionErrorKind = "no_pages_produced"
)

// ConversionError is a run-fatal error from the external conversion tool. It
// carries the exit code and captured diagnostics so the log line tells the
// whole story; conversion is never retried.
type ConversionError struct {
	Kind     ConversionErrorKind
	ExitCode int
	Stderr   string
}

func (e *ConversionError) Error() string {
	switch e.Kind {
	case ConversionTimeout:
		return "pdf conversion timed out"
	case ConversionNoPagesProduced:
		return "pdf conversion produced no page images"
	default:
		msg := fmt.Sprintf("pdf conversion failed with exit code %d", e.ExitCode)
		if s := strings.TrimSpace(e.Stderr); s != "" {
			msg += ": " + s
		}
		return msg
	}
}
