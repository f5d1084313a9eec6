package consolidate

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"text/tabwriter"

	"github.com/agnilab/gluesweep/internal/artifact"
	"github.com/agnilab/gluesweep/internal/models"
)

// RuntimeRow is one coarse-timing measurement.
type RuntimeRow struct {
	artifact.RuntimeKey
	TimePerBatch float64
}

// CollectRuntimes reads every coarse-timing artifact directly under savesDir.
func CollectRuntimes(savesDir string) ([]RuntimeRow, error) {
	entries, err := os.ReadDir(savesDir)
	if err != nil {
		return nil, fmt.Errorf("reading saves directory: %w", err)
	}

	var rows []RuntimeRow
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		key, ok := artifact.ParseRuntimeFileName(entry.Name())
		if !ok {
			continue
		}

		tpb, err := artifact.ReadTimePerBatch(filepath.Join(savesDir, entry.Name()))
		if err != nil {
			slog.Warn("skipping unreadable timing file", "file", entry.Name(), "error", err)
			continue
		}

		rows = append(rows, RuntimeRow{RuntimeKey: key, TimePerBatch: tpb})
	}

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Model != b.Model {
			return a.Model < b.Model
		}
		if a.Task != b.Task {
			return a.Task < b.Task
		}
		if a.Optimizer != b.Optimizer {
			return a.Optimizer < b.Optimizer
		}
		return a.Epochs < b.Epochs
	})

	return rows, nil
}

// RenderRuntimes writes the timing rows as an aligned table, using the
// display names the result tables use for optimizers.
func RenderRuntimes(w io.Writer, rows []RuntimeRow) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "model\ttask\toptimizer\tepochs\ttime/batch (s)")

	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%.4f\n",
			row.Model, row.Task, models.OptimizerDisplayName(row.Optimizer), row.Epochs, row.TimePerBatch)
	}

	return tw.Flush()
}
