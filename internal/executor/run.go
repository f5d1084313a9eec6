package executor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/agnilab/gluesweep/internal/artifact"
	"github.com/agnilab/gluesweep/internal/launcher"
	"github.com/agnilab/gluesweep/internal/models"
)

// TrainerRunExecutor dispatches a single trainer invocation.
type TrainerRunExecutor struct {
	sweep    models.SweepConfig
	trainer  models.TrainerConfig
	launcher launcher.Launcher
}

// NewTrainerRunExecutor creates a new run executor.
func NewTrainerRunExecutor(sweep models.SweepConfig, trainer models.TrainerConfig, l launcher.Launcher) *TrainerRunExecutor {
	return &TrainerRunExecutor{
		sweep:    sweep,
		trainer:  trainer,
		launcher: l,
	}
}

// Execute runs the trainer for one parameter combination and returns the
// result. Trainer failures are recorded on the result, never returned as an
// error, so a failing combination does not halt the sweep.
func (e *TrainerRunExecutor) Execute(ctx context.Context, spec models.RunSpec) (*models.RunResult, error) {
	result := &models.RunResult{
		RunID:        spec.ID,
		Model:        spec.Model,
		Task:         spec.Task,
		Optimizer:    spec.Optimizer,
		LearningRate: spec.LearningRate,
		Epochs:       spec.Epochs,
		Seed:         spec.Seed,
		StartedAt:    time.Now(),
	}

	defer func() {
		result.EndedAt = time.Now()
		result.DurationSec = result.EndedAt.Sub(result.StartedAt).Seconds()
	}()

	stdout, stderr, err := openLogFiles(spec.OutputDir)
	if err != nil {
		result.Error = &models.RunError{
			Type:    models.ErrInternalError,
			Message: err.Error(),
		}
		return result, nil
	}
	defer stdout.Close()
	defer stderr.Close()

	cmd := launcher.Command{
		Program: e.trainer.Trainer.Command,
		Args:    BuildTrainerArgs(e.sweep, e.trainer, spec),
		Env:     BuildTrainerEnv(e.sweep, spec),
		WorkDir: e.trainer.Trainer.WorkDir,
		Timeout: time.Duration(e.trainer.Trainer.TimeoutSec * float64(time.Second)),
	}

	exitCode, err := e.launcher.Run(ctx, cmd, stdout, stderr)
	result.ExitCode = exitCode

	if err != nil {
		if errors.Is(err, launcher.ErrTimeout) {
			result.Error = &models.RunError{
				Type:    models.ErrTrainerTimeout,
				Message: err.Error(),
			}
		} else {
			result.Error = &models.RunError{
				Type:    models.ErrTrainerStartFailed,
				Message: err.Error(),
			}
		}
		return result, nil
	}

	if exitCode != 0 {
		result.Error = &models.RunError{
			Type:    models.ErrTrainerExited,
			Message: fmt.Sprintf("trainer exited with code %d", exitCode),
		}
		return result, nil
	}

	// Download-only runs produce no evaluation artifact.
	if e.sweep.JustDownload {
		return result, nil
	}

	e.checkArtifact(spec, result)
	return result, nil
}

// checkArtifact verifies the trainer recorded this run's seed in the expected
// results file.
func (e *TrainerRunExecutor) checkArtifact(spec models.RunSpec, result *models.RunResult) {
	path := artifact.ResultsPath(e.sweep.SavesDir, e.sweep.JobID, spec.Task, spec.ModelShort())

	results, err := artifact.ReadSeedResults(path)
	if err != nil {
		errType := models.ErrArtifactInvalid
		if errors.Is(err, fs.ErrNotExist) {
			errType = models.ErrArtifactMissing
		}
		result.Error = &models.RunError{
			Type:    errType,
			Message: err.Error(),
		}
		return
	}

	if _, ok := results[strconv.Itoa(spec.Seed)]; !ok {
		result.Error = &models.RunError{
			Type:    models.ErrArtifactMissing,
			Message: fmt.Sprintf("seed %d not recorded in %s", spec.Seed, path),
		}
	}
}

func openLogFiles(outputDir string) (*os.File, *os.File, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, nil, fmt.Errorf("creating run output dir: %w", err)
	}
	stdout, err := os.Create(filepath.Join(outputDir, "stdout.txt"))
	if err != nil {
		return nil, nil, fmt.Errorf("creating stdout log: %w", err)
	}
	stderr, err := os.Create(filepath.Join(outputDir, "stderr.txt"))
	if err != nil {
		stdout.Close()
		return nil, nil, fmt.Errorf("creating stderr log: %w", err)
	}
	return stdout, stderr, nil
}

// BuildTrainerArgs assembles the trainer command line for one run. Flags are
// forwarded verbatim; no combination validation happens here.
func BuildTrainerArgs(sweep models.SweepConfig, trainer models.TrainerConfig, spec models.RunSpec) []string {
	var args []string
	if trainer.Trainer.Script != "" {
		args = append(args, trainer.Trainer.Script)
	}
	args = append(args, trainer.Trainer.ExtraArgs...)

	args = append(args,
		"--output_dir", sweep.OutputDir,
		"--model_name_or_path", spec.Model,
		"--seed", strconv.Itoa(spec.Seed),
		"--per_device_train_batch_size", strconv.Itoa(sweep.TrainBatchSize),
		"--num_train_epochs", strconv.Itoa(spec.Epochs),
		"--learning_rate", spec.LearningRate,
		"--job_id", sweep.JobID,
		"--split_train", yn(sweep.SplitTrain),
		"--just_download", yn(sweep.JustDownload),
		"--overwrite_saves", yn(sweep.OverwriteSaves),
		"--optimizer", spec.Optimizer,
		"--task_name", spec.Task,
	)

	return args
}

// BuildTrainerEnv returns the environment variables exported to the trainer.
func BuildTrainerEnv(sweep models.SweepConfig, spec models.RunSpec) map[string]string {
	return map[string]string{
		"OUTPUT_DIR":       sweep.OutputDir,
		"MAX_SEQ_LENGTH":   strconv.Itoa(sweep.MaxSeqLength),
		"TRAIN_BATCH_SIZE": strconv.Itoa(sweep.TrainBatchSize),
		"NUM_EPOCHS":       strconv.Itoa(spec.Epochs),
		"LEARNING_RATE":    spec.LearningRate,
		"MODEL":            spec.Model,
	}
}

func yn(b bool) string {
	if b {
		return "y"
	}
	return "n"
}
