package models

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/agnilab/gluesweep/internal/util"
)

// SweepConfig represents the parsed sweep.yaml configuration.
type SweepConfig struct {
	Name           *string        `yaml:"name,omitempty" json:"name,omitempty"`
	JobID          string         `yaml:"job_id" json:"job_id"`
	SavesDir       string         `yaml:"saves_dir" json:"saves_dir"`
	SweepsDir      string         `yaml:"sweeps_dir" json:"sweeps_dir"`
	MaxParallel    int            `yaml:"max_parallel" json:"max_parallel"`
	OverwriteSaves bool           `yaml:"overwrite_saves" json:"overwrite_saves"`
	SplitTrain     bool           `yaml:"split_train" json:"split_train"`
	JustDownload   bool           `yaml:"just_download" json:"just_download"`
	LogLevel       string         `yaml:"log_level,omitempty" json:"log_level,omitempty"`
	Models         []string       `yaml:"models" json:"models"`
	Tasks          []string       `yaml:"tasks" json:"tasks"`
	Optimizers     []string       `yaml:"optimizers" json:"optimizers"`
	LearningRates  []string       `yaml:"learning_rates" json:"learning_rates"`
	Epochs         []int          `yaml:"epochs" json:"epochs"`
	Seeds          SeedList       `yaml:"seeds" json:"seeds"`
	MaxSeqLength   int            `yaml:"max_seq_length" json:"max_seq_length"`
	TrainBatchSize int            `yaml:"train_batch_size" json:"train_batch_size"`
	OutputDir      string         `yaml:"output_dir" json:"output_dir"`
	Launcher       LauncherConfig `yaml:"launcher" json:"launcher"`
}

// LauncherConfig selects and configures the process launcher.
type LauncherConfig struct {
	Type           string         `yaml:"type" json:"type"`
	ProviderConfig map[string]any `yaml:"provider_config,omitempty" json:"provider_config,omitempty"`
}

// SeedList is a list of seeds that unmarshals from either a YAML sequence of
// integers or a scalar spec string ("42,43" or "42-46").
type SeedList []int

func (s *SeedList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var seeds []int
		if err := value.Decode(&seeds); err != nil {
			return err
		}
		*s = seeds
		return nil
	case yaml.ScalarNode:
		var spec string
		if err := value.Decode(&spec); err != nil {
			return err
		}
		seeds, err := util.ParseSeedSpec(spec)
		if err != nil {
			return err
		}
		*s = seeds
		return nil
	default:
		return fmt.Errorf("seeds: expected sequence or scalar, got %v", value.Kind)
	}
}

// TrainerConfig represents the parsed trainer.toml configuration describing
// how to invoke the external training program.
type TrainerConfig struct {
	Version  string           `toml:"version"`
	Metadata map[string]any   `toml:"metadata,omitempty"`
	Trainer  TrainerExecution `toml:"trainer"`
	Defaults TrainerDefaults  `toml:"defaults"`
}

type TrainerExecution struct {
	Command    string   `toml:"command"`     // default: "python"
	Script     string   `toml:"script"`      // default: "run_glue.py"
	ExtraArgs  []string `toml:"extra_args,omitempty"`
	WorkDir    string   `toml:"work_dir,omitempty"`
	TimeoutSec float64  `toml:"timeout_sec"` // default: 0 (no timeout)
}

type TrainerDefaults struct {
	MaxSeqLength   int    `toml:"max_seq_length"`   // default: 128
	TrainBatchSize int    `toml:"train_batch_size"` // default: 32
	OutputDir      string `toml:"output_dir"`       // default: "saves/tmp"
	Timeout        string `toml:"timeout,omitempty"` // Deprecated: use TimeoutSec
}
