// Package consolidate tabulates saved run artifacts into summary tables.
package consolidate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"math"
	"sync"
	"text/tabwriter"

	"golang.org/x/sync/errgroup"

	"github.com/agnilab/gluesweep/internal/artifact"
	"github.com/agnilab/gluesweep/internal/models"
)

// Options selects which artifacts to consolidate. Models, Tasks and JobIDs
// mirror the values used at dispatch time.
type Options struct {
	SavesDir string
	JobIDs   []string
	Models   []string
	Tasks    []string
}

// Cell is one model × task entry of the summary table.
type Cell struct {
	Metric string  `json:"metric"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	N      int     `json:"n"` // number of seeds
}

// Table holds the consolidated summary.
type Table struct {
	Models []string
	Tasks  []string
	Cells  map[string]map[string]Cell // model → task → cell
}

type loadedArtifact struct {
	model string
	task  string
	seeds artifact.SeedResults
}

// Consolidate reads every artifact for the configured job IDs in parallel and
// reduces per-seed metrics to mean and sample standard deviation per
// model × task cell. Missing or corrupt artifacts are logged and skipped.
func Consolidate(ctx context.Context, opts Options) (*Table, error) {
	if len(opts.JobIDs) == 0 {
		return nil, fmt.Errorf("consolidate: at least one job id is required")
	}
	if len(opts.Models) == 0 || len(opts.Tasks) == 0 {
		return nil, fmt.Errorf("consolidate: models and tasks are required")
	}

	var mu sync.Mutex
	var loaded []loadedArtifact

	g, ctx := errgroup.WithContext(ctx)
	for _, jobID := range opts.JobIDs {
		for _, model := range opts.Models {
			for _, task := range opts.Tasks {
				modelShort := models.RunSpec{Model: model}.ModelShort()
				path := artifact.ResultsPath(opts.SavesDir, jobID, task, modelShort)

				g.Go(func() error {
					if err := ctx.Err(); err != nil {
						return err
					}

					seeds, err := artifact.ReadSeedResults(path)
					if err != nil {
						if errors.Is(err, fs.ErrNotExist) {
							slog.Debug("artifact not found", "path", path)
						} else {
							slog.Warn("skipping unreadable artifact", "path", path, "error", err)
						}
						return nil
					}

					mu.Lock()
					loaded = append(loaded, loadedArtifact{model: model, task: task, seeds: seeds})
					mu.Unlock()
					return nil
				})
			}
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return reduce(opts, loaded), nil
}

// reduce merges seed maps across job IDs and computes per-cell statistics.
func reduce(opts Options, loaded []loadedArtifact) *Table {
	// model → task → seed → metric value
	values := make(map[string]map[string]map[string]float64)
	for _, la := range loaded {
		task, ok := models.LookupGLUETask(la.task)
		if !ok {
			continue
		}

		if values[la.model] == nil {
			values[la.model] = make(map[string]map[string]float64)
		}
		if values[la.model][la.task] == nil {
			values[la.model][la.task] = make(map[string]float64)
		}

		for seed, metrics := range la.seeds {
			v, ok := metrics[task.PrimaryMetric]
			if !ok {
				slog.Warn("artifact entry missing primary metric",
					"model", la.model, "task", la.task, "seed", seed, "metric", task.PrimaryMetric)
				continue
			}
			values[la.model][la.task][seed] = v
		}
	}

	table := &Table{
		Models: opts.Models,
		Tasks:  opts.Tasks,
		Cells:  make(map[string]map[string]Cell),
	}

	for _, model := range opts.Models {
		for _, taskName := range opts.Tasks {
			seedValues := values[model][taskName]
			if len(seedValues) == 0 {
				continue
			}

			task, _ := models.LookupGLUETask(taskName)
			mean, std := meanStd(seedValues)

			if table.Cells[model] == nil {
				table.Cells[model] = make(map[string]Cell)
			}
			table.Cells[model][taskName] = Cell{
				Metric: task.PrimaryMetric,
				Mean:   mean,
				Std:    std,
				N:      len(seedValues),
			}
		}
	}

	return table
}

// meanStd returns the mean and sample standard deviation of the values.
func meanStd(values map[string]float64) (float64, float64) {
	n := float64(len(values))

	var mean float64
	for _, v := range values {
		mean += v
	}
	mean /= n

	if n < 2 {
		return mean, 0
	}

	var sumSq float64
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	return mean, math.Sqrt(sumSq / (n - 1))
}

// Render writes the table in aligned text form. Empty cells render as "-".
func (t *Table) Render(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprint(tw, "model")
	for _, task := range t.Tasks {
		metric := ""
		if gt, ok := models.LookupGLUETask(task); ok {
			metric = " (" + gt.PrimaryMetric + ")"
		}
		fmt.Fprintf(tw, "\t%s%s", task, metric)
	}
	fmt.Fprintln(tw)

	for _, model := range t.Models {
		fmt.Fprint(tw, model)
		for _, task := range t.Tasks {
			cell, ok := t.Cells[model][task]
			if !ok {
				fmt.Fprint(tw, "\t-")
				continue
			}
			fmt.Fprintf(tw, "\t%.4f±%.4f (n=%d)", cell.Mean, cell.Std, cell.N)
		}
		fmt.Fprintln(tw)
	}

	return tw.Flush()
}
