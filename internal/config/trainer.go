package config

import (
	"fmt"
	"io/fs"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/agnilab/gluesweep/internal/models"
)

// DefaultTrainerConfig returns a TrainerConfig with default values.
func DefaultTrainerConfig() models.TrainerConfig {
	return models.TrainerConfig{
		Version: "1.0",
		Trainer: models.TrainerExecution{
			Command:    "python",
			Script:     "run_glue.py",
			TimeoutSec: 0,
		},
		Defaults: models.TrainerDefaults{
			MaxSeqLength:   128,
			TrainBatchSize: 32,
			OutputDir:      "saves/tmp",
		},
	}
}

// LoadTrainerConfig loads and parses a trainer.toml file from the given filesystem.
func LoadTrainerConfig(fsys fs.FS) (models.TrainerConfig, error) {
	cfg := DefaultTrainerConfig()

	data, err := fs.ReadFile(fsys, "trainer.toml")
	if err != nil {
		return cfg, fmt.Errorf("reading trainer.toml: %w", err)
	}

	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, fmt.Errorf("parsing trainer.toml: %w", err)
	}

	// Handle legacy 'timeout' field if 'timeout_sec' is not explicitly set
	if !md.IsDefined("trainer", "timeout_sec") && md.IsDefined("defaults", "timeout") {
		d, err := time.ParseDuration(cfg.Defaults.Timeout)
		if err != nil {
			return cfg, fmt.Errorf("parsing timeout %q: %w", cfg.Defaults.Timeout, err)
		}
		cfg.Trainer.TimeoutSec = d.Seconds()
	}

	if cfg.Trainer.Command == "" {
		return cfg, fmt.Errorf("trainer.toml: trainer.command is required")
	}

	return cfg, nil
}
