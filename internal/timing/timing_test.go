package timing

import (
	"errors"
	"testing"
	"time"
)

func TestReport_Track(t *testing.T) {
	var report Report

	err := report.Track("first", func() error {
		time.Sleep(10 * time.Millisecond)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	records := report.Records()
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	rec := records[0]
	if rec.Stage != "first" {
		t.Errorf("Stage = %q, want first", rec.Stage)
	}
	if rec.DurationSeconds < 0.01 {
		t.Errorf("DurationSeconds = %f, want >= 0.01", rec.DurationSeconds)
	}
	if !rec.EndTime.After(rec.StartTime) {
		t.Error("EndTime must be after StartTime")
	}
}

func TestReport_TrackKeepsRecordOnError(t *testing.T) {
	var report Report
	boom := errors.New("stage failed")

	if err := report.Track("failing", func() error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("Track returned %v, want the stage error", err)
	}
	// Partial timing must survive a failed stage.
	if len(report.Records()) != 1 {
		t.Fatalf("got %d records, want 1", len(report.Records()))
	}
}

func TestReport_Order(t *testing.T) {
	var report Report
	for _, stage := range []string{"a", "b", "c"} {
		report.Track(stage, func() error { return nil })
	}

	records := report.Records()
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	for i, want := range []string{"a", "b", "c"} {
		if records[i].Stage != want {
			t.Errorf("records[%d].Stage = %q, want %q", i, records[i].Stage, want)
		}
	}
}
