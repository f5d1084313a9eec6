package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/agnilab/gluesweep/internal/models"
)

// DefaultSweepConfig returns a SweepConfig with default values.
func DefaultSweepConfig() models.SweepConfig {
	return models.SweepConfig{
		JobID:          "DEFAULT",
		SavesDir:       "saves",
		SweepsDir:      "sweeps",
		MaxParallel:    1,
		OverwriteSaves: true,
		MaxSeqLength:   128,
		TrainBatchSize: 32,
		OutputDir:      "saves/tmp",
		Launcher: models.LauncherConfig{
			Type: "local",
		},
	}
}

// LoadSweepConfig loads and parses a sweep.yaml file.
func LoadSweepConfig(path string) (models.SweepConfig, error) {
	cfg := DefaultSweepConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading sweep config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing sweep config: %w", err)
	}

	// Apply defaults for missing values
	if cfg.JobID == "" {
		cfg.JobID = "DEFAULT"
	}
	if cfg.SavesDir == "" {
		cfg.SavesDir = "saves"
	}
	if cfg.SweepsDir == "" {
		cfg.SweepsDir = "sweeps"
	}
	if cfg.MaxParallel == 0 {
		cfg.MaxParallel = 1
	}
	if cfg.MaxSeqLength == 0 {
		cfg.MaxSeqLength = 128
	}
	if cfg.TrainBatchSize == 0 {
		cfg.TrainBatchSize = 32
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "saves/tmp"
	}
	if cfg.Launcher.Type == "" {
		cfg.Launcher.Type = "local"
	}

	if err := validateSweepConfig(cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// validateSweepConfig checks the grid axes. Parameter combinations are not
// validated; invalid combinations fail inside the trainer.
func validateSweepConfig(cfg models.SweepConfig) error {
	if len(cfg.Models) == 0 {
		return fmt.Errorf("sweep config: at least one model is required")
	}
	if len(cfg.Tasks) == 0 {
		return fmt.Errorf("sweep config: at least one task is required")
	}
	for _, task := range cfg.Tasks {
		if _, ok := models.LookupGLUETask(task); !ok {
			return fmt.Errorf("sweep config: unknown GLUE task %q (known tasks: %s)",
				task, strings.Join(models.GLUETaskNames(), ", "))
		}
	}
	if len(cfg.Optimizers) == 0 {
		return fmt.Errorf("sweep config: at least one optimizer is required")
	}
	if len(cfg.LearningRates) == 0 {
		return fmt.Errorf("sweep config: at least one learning rate is required")
	}
	if len(cfg.Epochs) == 0 {
		return fmt.Errorf("sweep config: at least one epoch count is required")
	}
	if len(cfg.Seeds) == 0 {
		return fmt.Errorf("sweep config: at least one seed is required")
	}
	return nil
}
