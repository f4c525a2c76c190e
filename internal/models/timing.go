package models

import (
	"time"

	"github.com/Lllllllleong/ocrdocumentflow/internal/timing"
)

// PageTiming records how long one page's extraction took. Only pages that
// completed recognition get an entry.
type PageTiming struct {
	Page        int     `json:"page"`
	File        string  `json:"file"`
	TotalTime   float64 `json:"total_time"`
	APICallTime float64 `json:"api_call_time"`
	TextLength  int     `json:"text_length"`
}

// ExtractionTimingReport is the recognition-phase timing artifact.
type ExtractionTimingReport struct {
	Pages              []PageTiming `json:"pages"`
	TotalPages         int          `json:"total_pages"`
	StartTime          time.Time    `json:"start_time"`
	EndTime            time.Time    `json:"end_time"`
	TotalDuration      float64      `json:"total_duration"`
	AvgPageTimeSeconds float64      `json:"avg_page_time_seconds"`
	AvgAPITimeSeconds  float64      `json:"avg_api_call_time_seconds"`
}

// ProcessingTimingReport is the run-level timing artifact, written at the end
// of every run regardless of outcome.
type ProcessingTimingReport struct {
	StartTime            time.Time       `json:"start_time"`
	EndTime              time.Time       `json:"end_time"`
	TotalDurationSeconds float64         `json:"total_duration_seconds"`
	PDFPath              string          `json:"pdf_path"`
	PDFSizeBytes         int64           `json:"pdf_size_bytes,omitempty"`
	Stages               []timing.Record `json:"stages"`
}
