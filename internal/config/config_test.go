package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.WatchDir != "/images" {
		t.Errorf("WatchDir = %q, want /images", cfg.WatchDir)
	}
	if cfg.InputPath() != "/images/input.pdf" {
		t.Errorf("InputPath = %q, want /images/input.pdf", cfg.InputPath())
	}
	if cfg.PollInterval != time.Second || cfg.QuietPeriod != 2*time.Second {
		t.Errorf("stability intervals = %s/%s, want 1s/2s", cfg.PollInterval, cfg.QuietPeriod)
	}
	if cfg.ConvertBinary != "convert" || cfg.DensityDPI != 200 || cfg.Quality != 90 {
		t.Errorf("conversion defaults wrong: %+v", cfg)
	}
	if cfg.ConvertTimeout != 10*time.Minute {
		t.Errorf("ConvertTimeout = %s, want 10m", cfg.ConvertTimeout)
	}
	if cfg.ArtifactBucket != "" {
		t.Errorf("ArtifactBucket should default to empty, got %q", cfg.ArtifactBucket)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("WATCH_DIR", "/data/in")
	t.Setenv("INPUT_FILENAME", "scan.pdf")
	t.Setenv("CONVERT_DENSITY", "300")
	t.Setenv("STABILITY_QUIET_PERIOD", "5s")
	t.Setenv("ARTIFACT_BUCKET", "ocr-artifacts")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.InputPath() != "/data/in/scan.pdf" {
		t.Errorf("InputPath = %q", cfg.InputPath())
	}
	if cfg.DensityDPI != 300 {
		t.Errorf("DensityDPI = %d, want 300", cfg.DensityDPI)
	}
	if cfg.QuietPeriod != 5*time.Second {
		t.Errorf("QuietPeriod = %s, want 5s", cfg.QuietPeriod)
	}
	if cfg.ArtifactBucket != "ocr-artifacts" {
		t.Errorf("ArtifactBucket = %q", cfg.ArtifactBucket)
	}
}

func TestGetEnvDuration_BareSeconds(t *testing.T) {
	t.Setenv("STABILITY_QUIET_PERIOD", "90")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.QuietPeriod != 90*time.Second {
		t.Errorf("QuietPeriod = %s, want 90s", cfg.QuietPeriod)
	}
}

func TestGetEnvDuration_Invalid(t *testing.T) {
	t.Setenv("CONVERT_TIMEOUT", "not-a-duration")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ConvertTimeout != 10*time.Minute {
		t.Errorf("ConvertTimeout = %s, want default 10m", cfg.ConvertTimeout)
	}
}

func TestLoad_InvalidIntervals(t *testing.T) {
	t.Setenv("STABILITY_POLL_INTERVAL", "-1s")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for negative poll interval")
	}
}
