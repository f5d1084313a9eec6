// Package artifact reads and maintains the per-run result files the trainer
// writes under the saves directory.
package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// BrokenPrefix marks quarantined artifact files.
const BrokenPrefix = "broken_"

// SeedResults maps seed (as written by the trainer, a decimal string) to
// metric name to value.
type SeedResults map[string]map[string]float64

// ResultsFileName returns the artifact file name the trainer uses for a
// task/model pair, relative to the job directory.
func ResultsFileName(task, modelShort string) string {
	return fmt.Sprintf("results_rg_%s_%s.json", task, modelShort)
}

// ResultsPath returns the full artifact path for a job/task/model combination.
func ResultsPath(savesDir, jobID, task, modelShort string) string {
	return filepath.Join(savesDir, jobID, ResultsFileName(task, modelShort))
}

// ReadSeedResults loads a results file. A missing file is reported with
// os.ErrNotExist wrapped.
func ReadSeedResults(path string) (SeedResults, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading artifact %s: %w", path, err)
	}

	var results SeedResults
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("parsing artifact %s: %w", path, err)
	}
	return results, nil
}

// HasSeed reports whether the artifact at path already records the seed.
// Any read or parse failure counts as absent; the dispatcher then re-runs
// the combination rather than silently skipping it.
func HasSeed(path string, seed int) bool {
	results, err := ReadSeedResults(path)
	if err != nil {
		return false
	}
	_, ok := results[strconv.Itoa(seed)]
	return ok
}

// RuntimeKey identifies one coarse-timing artifact.
type RuntimeKey struct {
	Model     string
	Task      string
	Optimizer string
	Epochs    int
}

// runtimeFilePattern matches coarse_time_m<model>_t<task>_o<optimizer>_e<epochs>.json.
var runtimeFilePattern = regexp.MustCompile(`^coarse_time_m(.+)_t(.+)_o(.+)_e(\d+)\.json$`)

// ParseRuntimeFileName extracts the run parameters encoded in a coarse-timing
// file name. Returns false if the name does not match.
func ParseRuntimeFileName(name string) (RuntimeKey, bool) {
	m := runtimeFilePattern.FindStringSubmatch(name)
	if m == nil {
		return RuntimeKey{}, false
	}
	epochs, err := strconv.Atoi(m[4])
	if err != nil {
		return RuntimeKey{}, false
	}
	return RuntimeKey{
		Model:     m[1],
		Task:      m[2],
		Optimizer: m[3],
		Epochs:    epochs,
	}, true
}

// ReadTimePerBatch reads the time_per_batch field of a coarse-timing file.
func ReadTimePerBatch(path string) (float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading timing file %s: %w", path, err)
	}

	var payload struct {
		TimePerBatch float64 `json:"time_per_batch"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return 0, fmt.Errorf("parsing timing file %s: %w", path, err)
	}
	return payload.TimePerBatch, nil
}

// IsArtifactFile reports whether a file name is an artifact candidate:
// a .json file that has not been quarantined.
func IsArtifactFile(name string) bool {
	return strings.HasSuffix(name, ".json") && !strings.HasPrefix(name, BrokenPrefix)
}
