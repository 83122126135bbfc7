// Package config loads the small set of tunables the validator exposes:
// the message size bound, batch worker concurrency, and log verbosity.
// Configuration is a plain YAML file, decoded with gopkg.in/yaml.v3.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lowtide-labs/ssbvalidate/internal/assert"
	"github.com/lowtide-labs/ssbvalidate/validate"
)

// Config holds the validator's runtime tunables. LogLevel documents the
// intended threshold but is not applied by Apply: internal/obslog reads its
// threshold from the SSBVALIDATE_LOG_LEVEL environment variable once, at
// first use.
type Config struct {
	MaxValueLengthUTF16 int    `yaml:"max_value_length_utf16"`
	BatchWorkers        int    `yaml:"batch_workers"`
	LogLevel            string `yaml:"log_level"`
}

// Default returns the configuration the validator uses when no file is
// supplied: the protocol-mandated 8192-unit length bound, unbounded batch
// concurrency (0 sets no errgroup limit, so one goroutine runs per pair),
// and info-level logging.
func Default() Config {
	return Config{
		MaxValueLengthUTF16: 8192,
		BatchWorkers:        0,
		LogLevel:            "info",
	}
}

// Load reads and parses a YAML config file at path, falling back to Default
// for any field the file leaves unset.
func Load(path string) (Config, error) {
	if err := assert.Check(path != "", "config path must not be empty"); err != nil {
		return Config{}, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Apply pushes cfg's tunables into the validate package's process-wide
// settings. Called once at startup after Load.
func Apply(cfg Config) {
	if cfg.MaxValueLengthUTF16 > 0 {
		validate.SetMaxValueLength(cfg.MaxValueLengthUTF16)
	}
	if cfg.BatchWorkers > 0 {
		validate.SetBatchWorkerLimit(cfg.BatchWorkers)
	}
}
