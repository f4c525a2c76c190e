// Package timing is the stage-timer harness: it wraps pipeline operations,
// records start/end/duration per stage, and accumulates the records into a
// run-level report.
package timing

import "time"

// Record captures the wall-clock span of one named stage.
type Record struct {
	Stage           string    `json:"stage"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	DurationSeconds float64   `json:"duration_seconds"`
}

// Report accumulates stage records over one run. The zero value is ready to
// use. Reports are not safe for concurrent use; a run is single-threaded at
// the stage level.
type Report struct {
	records []Record
}

// Track runs fn and appends a record for it, whether or not fn failed. The
// record is kept on failure so partial timing survives an aborted run.
func (r *Report) Track(stage string, fn func() error) error {
	start := time.Now()
	err := fn()
	end := time.Now()
	r.records = append(r.records, Record{
		Stage:           stage,
		StartTime:       start,
		EndTime:         end,
		DurationSeconds: end.Sub(start).Seconds(),
	})
	return err
}

// Records returns the stage records collected so far, in execution order.
func (r *Report) Records() []Record {
	return r.records
}
