package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/agnilab/gluesweep/internal/artifact"
	"github.com/agnilab/gluesweep/internal/config"
	"github.com/agnilab/gluesweep/internal/launcher"
	"github.com/agnilab/gluesweep/internal/launcher/local"
	"github.com/agnilab/gluesweep/internal/launcher/modal"
	"github.com/agnilab/gluesweep/internal/models"
)

// RunExecutor executes a single run and returns the result.
type RunExecutor interface {
	Execute(ctx context.Context, spec models.RunSpec) (*models.RunResult, error)
}

// NewRunExecutorFunc creates a RunExecutor for one worker.
type NewRunExecutorFunc func(sweep models.SweepConfig, trainer models.TrainerConfig, l launcher.Launcher) RunExecutor

// SweepOrchestrator coordinates the dispatch of all runs in a sweep.
type SweepOrchestrator struct {
	cfg         models.SweepConfig
	trainer     models.TrainerConfig
	launcher    launcher.Launcher
	newExecutor NewRunExecutorFunc
}

// NewSweepOrchestrator creates a new sweep orchestrator.
func NewSweepOrchestrator(cfg models.SweepConfig, trainer models.TrainerConfig, executorFactory NewRunExecutorFunc) (*SweepOrchestrator, error) {
	var l launcher.Launcher
	switch cfg.Launcher.Type {
	case "local":
		l = local.New()
	case "modal":
		ml, err := modal.New(modal.ParseConfig(cfg.Launcher.ProviderConfig))
		if err != nil {
			return nil, fmt.Errorf("creating modal launcher: %w", err)
		}
		l = ml
	default:
		return nil, fmt.Errorf("unsupported launcher type: %s", cfg.Launcher.Type)
	}

	return &SweepOrchestrator{
		cfg:         cfg,
		trainer:     trainer,
		launcher:    l,
		newExecutor: executorFactory,
	}, nil
}

// Run dispatches every parameter combination of the sweep.
func (o *SweepOrchestrator) Run(ctx context.Context) (*models.SweepResult, error) {
	startTime := time.Now()

	specs := ExpandGrid(o.cfg)

	sweepName := time.Now().Format("2006-01-02__15-04-05")
	if o.cfg.Name != nil {
		sweepName = *o.cfg.Name
	}
	sweepDir := filepath.Join(o.cfg.SweepsDir, sweepName)

	if _, err := os.Stat(sweepDir); err == nil {
		return nil, fmt.Errorf("sweep directory already exists: %s (will not overwrite existing results)", sweepDir)
	}

	if err := os.MkdirAll(sweepDir, 0755); err != nil {
		return nil, fmt.Errorf("creating sweep directory: %w", err)
	}

	for i := range specs {
		specs[i].OutputDir = filepath.Join(sweepDir, specs[i].Model, specs[i].Task,
			fmt.Sprintf("%s__%s__e%d__s%d", specs[i].Optimizer, specs[i].LearningRate, specs[i].Epochs, specs[i].Seed))
	}

	// Save sweep config next to the dispatch logs
	cfgJSON, _ := json.MarshalIndent(o.cfg, "", "  ")
	os.WriteFile(filepath.Join(sweepDir, "config.json"), cfgJSON, 0644)

	// Seeds already recorded in the saves tree are skipped up front when
	// overwriting is disabled.
	var pending []models.RunSpec
	var preSkipped []*models.RunResult
	for _, spec := range specs {
		if !o.cfg.OverwriteSaves {
			path := artifact.ResultsPath(o.cfg.SavesDir, o.cfg.JobID, spec.Task, spec.ModelShort())
			if artifact.HasSeed(path, spec.Seed) {
				slog.Info("skipping run, seed already recorded",
					"run", spec.Label(), "artifact", path)
				preSkipped = append(preSkipped, skippedResult(spec, fmt.Sprintf("seed %d already recorded in %s", spec.Seed, path)))
				continue
			}
		}
		pending = append(pending, spec)
	}

	nWorkers := o.cfg.MaxParallel
	if nWorkers <= 0 {
		nWorkers = 1
	}
	if nWorkers > len(pending) && len(pending) > 0 {
		nWorkers = len(pending)
	}

	results, cancelled := o.runConcurrent(ctx, pending, nWorkers)
	results = append(results, preSkipped...)

	sweepResult := o.aggregateResults(sweepName, results, startTime)
	// Runs never fed to a worker count as skipped, and toward the total, so
	// completed + failed + skipped always equals total.
	sweepResult.TotalRuns += cancelled
	sweepResult.SkippedRuns += cancelled
	if cancelled > 0 {
		sweepResult.Cancelled = true
	}

	resultJSON, _ := json.MarshalIndent(sweepResult, "", "  ")
	os.WriteFile(filepath.Join(sweepDir, "sweep_result.json"), resultJSON, 0644)

	return sweepResult, nil
}

// ExpandGrid enumerates the Cartesian product of the configured sweep axes
// in model, task, optimizer, learning rate, epochs, seed order.
func ExpandGrid(cfg models.SweepConfig) []models.RunSpec {
	var specs []models.RunSpec
	for _, model := range cfg.Models {
		for _, task := range cfg.Tasks {
			for _, optimizer := range cfg.Optimizers {
				for _, lr := range cfg.LearningRates {
					for _, epochs := range cfg.Epochs {
						for _, seed := range cfg.Seeds {
							specs = append(specs, models.RunSpec{
								ID:           uuid.NewString(),
								Model:        model,
								Task:         task,
								Optimizer:    optimizer,
								LearningRate: lr,
								Epochs:       epochs,
								Seed:         seed,
							})
						}
					}
				}
			}
		}
	}
	return specs
}

// runConcurrent dispatches runs using a fan-out/fan-in pattern.
// Returns collected results and the count of runs never fed to a worker.
func (o *SweepOrchestrator) runConcurrent(ctx context.Context, specs []models.RunSpec, nWorkers int) ([]*models.RunResult, int) {
	specChan := make(chan models.RunSpec) // unbuffered
	resultChan := make(chan *models.RunResult, len(specs))

	var wg sync.WaitGroup

	for range nWorkers {
		wg.Go(func() {
			executor := o.newExecutor(o.cfg, o.trainer, o.launcher)

			for spec := range specChan {
				slog.Info("dispatching run", "run", spec.Label())

				result, err := executor.Execute(ctx, spec)
				if err != nil {
					result = &models.RunResult{
						RunID:        spec.ID,
						Model:        spec.Model,
						Task:         spec.Task,
						Optimizer:    spec.Optimizer,
						LearningRate: spec.LearningRate,
						Epochs:       spec.Epochs,
						Seed:         spec.Seed,
						Error: &models.RunError{
							Type:    models.ErrInternalError,
							Message: err.Error(),
						},
					}
				}

				if result.Error != nil {
					slog.Warn("run failed, continuing sweep",
						"run", spec.Label(),
						"error_type", result.Error.Type,
						"message", result.Error.Message)
				}

				if spec.OutputDir != "" {
					resultJSON, _ := json.MarshalIndent(result, "", "  ")
					os.MkdirAll(spec.OutputDir, 0755)
					os.WriteFile(filepath.Join(spec.OutputDir, "result.json"), resultJSON, 0644)
				}

				resultChan <- result
			}
		})
	}

	// Feeder goroutine: sends specs to workers, respects context cancellation
	go func() {
		defer close(specChan)
		for _, spec := range specs {
			select {
			case <-ctx.Done():
				return
			case specChan <- spec:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	var results []*models.RunResult
	for result := range resultChan {
		results = append(results, result)
	}

	cancelled := max(len(specs)-len(results), 0)

	return results, cancelled
}

func (o *SweepOrchestrator) aggregateResults(sweepName string, results []*models.RunResult, startTime time.Time) *models.SweepResult {
	sr := &models.SweepResult{
		SweepName: sweepName,
		JobID:     o.cfg.JobID,
		TotalRuns: len(results),
		StartedAt: startTime,
		EndedAt:   time.Now(),
		Models:    make(map[string]models.ModelSummary),
		Results:   make([]models.RunSummary, 0, len(results)),
	}

	sr.TotalDurationSec = sr.EndedAt.Sub(sr.StartedAt).Seconds()

	modelData := make(map[string]struct {
		total     int
		completed int
		failed    int
		runSecs   []float64
	})

	for _, r := range results {
		md := modelData[r.Model]
		md.total++

		switch {
		case r.Skipped:
			sr.SkippedRuns++
		case r.Error != nil:
			sr.FailedRuns++
			md.failed++
		default:
			sr.CompletedRuns++
			md.completed++
			md.runSecs = append(md.runSecs, r.DurationSec)
		}

		modelData[r.Model] = md

		sr.Results = append(sr.Results, models.RunSummary{
			Model:        r.Model,
			Task:         r.Task,
			Optimizer:    r.Optimizer,
			LearningRate: r.LearningRate,
			Epochs:       r.Epochs,
			Seed:         r.Seed,
			Failed:       r.Error != nil,
			Skipped:      r.Skipped,
		})
	}

	for model, md := range modelData {
		var meanSec float64
		if len(md.runSecs) > 0 {
			for _, s := range md.runSecs {
				meanSec += s
			}
			meanSec /= float64(len(md.runSecs))
		}

		sr.Models[model] = models.ModelSummary{
			TotalRuns:     md.total,
			CompletedRuns: md.completed,
			FailedRuns:    md.failed,
			MeanRunSec:    meanSec,
		}
	}

	return sr
}

func skippedResult(spec models.RunSpec, reason string) *models.RunResult {
	now := time.Now()
	return &models.RunResult{
		RunID:        spec.ID,
		Model:        spec.Model,
		Task:         spec.Task,
		Optimizer:    spec.Optimizer,
		LearningRate: spec.LearningRate,
		Epochs:       spec.Epochs,
		Seed:         spec.Seed,
		Skipped:      true,
		SkipReason:   reason,
		StartedAt:    now,
		EndedAt:      now,
	}
}

// DefaultRunExecutorFunc creates the default trainer run executor.
func DefaultRunExecutorFunc(sweep models.SweepConfig, trainer models.TrainerConfig, l launcher.Launcher) RunExecutor {
	return NewTrainerRunExecutor(sweep, trainer, l)
}

// RunFromConfig loads a sweep config file (and the trainer config next to it,
// if present) and dispatches the sweep.
func RunFromConfig(ctx context.Context, sweepPath string) (*models.SweepResult, error) {
	cfg, err := config.LoadSweepConfig(sweepPath)
	if err != nil {
		return nil, fmt.Errorf("loading sweep config: %w", err)
	}

	trainerCfg := config.DefaultTrainerConfig()
	dir := filepath.Dir(sweepPath)
	if _, err := os.Stat(filepath.Join(dir, "trainer.toml")); err == nil {
		trainerCfg, err = config.LoadTrainerConfig(os.DirFS(dir))
		if err != nil {
			return nil, fmt.Errorf("loading trainer config: %w", err)
		}
	}

	orchestrator, err := NewSweepOrchestrator(cfg, trainerCfg, DefaultRunExecutorFunc)
	if err != nil {
		return nil, fmt.Errorf("creating orchestrator: %w", err)
	}

	return orchestrator.Run(ctx)
}
