// Package config loads the watcher's configuration from the environment.
// Every knob has a default so the daemon runs with no configuration at all
// inside its container.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config is the immutable per-process configuration. One instance is built at
// startup and passed by value through the pipeline.
type Config struct {
	// WatchDir is both the input location and the output location for every
	// artifact the pipeline writes.
	WatchDir      string
	InputFilename string

	// Stability gate tuning.
	PollInterval time.Duration
	QuietPeriod  time.Duration

	// Raster conversion tuning.
	ConvertBinary  string
	DensityDPI     int
	Quality        int
	ConvertTimeout time.Duration

	// EncodeWorkers bounds the base64 persistence fan-out.
	EncodeWorkers int

	// ArtifactBucket enables mirroring of final artifacts to GCS when set.
	ArtifactBucket string
}

// Load reads configuration from the environment, applying defaults.
func Load() (Config, error) {
	cfg := Config{
		WatchDir:       GetEnv("WATCH_DIR", "/images"),
		InputFilename:  GetEnv("INPUT_FILENAME", "input.pdf"),
		PollInterval:   getEnvDuration("STABILITY_POLL_INTERVAL", time.Second),
		QuietPeriod:    getEnvDuration("STABILITY_QUIET_PERIOD", 2*time.Second),
		ConvertBinary:  GetEnv("CONVERT_BINARY", "convert"),
		DensityDPI:     getEnvInt("CONVERT_DENSITY", 200),
		Quality:        getEnvInt("CONVERT_QUALITY", 90),
		ConvertTimeout: getEnvDuration("CONVERT_TIMEOUT", 10*time.Minute),
		EncodeWorkers:  getEnvInt("ENCODE_WORKERS", 4),
		ArtifactBucket: GetEnv("ARTIFACT_BUCKET", ""),
	}

	if cfg.WatchDir == "" {
		return Config{}, fmt.Errorf("WATCH_DIR must not be empty")
	}
	if cfg.InputFilename == "" {
		return Config{}, fmt.Errorf("INPUT_FILENAME must not be empty")
	}
	if cfg.PollInterval <= 0 || cfg.QuietPeriod <= 0 {
		return Config{}, fmt.Errorf("stability intervals must be positive (poll=%s quiet=%s)", cfg.PollInterval, cfg.QuietPeriod)
	}
	if cfg.EncodeWorkers <= 0 {
		cfg.EncodeWorkers = 1
	}
	return cfg, nil
}

// InputPath is the full path of the one watched input file.
func (c Config) InputPath() string {
	return filepath.Join(c.WatchDir, c.InputFilename)
}

// GetEnv is a helper to read an environment variable or return a default value.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	// Accept both Go duration strings ("90s") and bare seconds ("90").
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
