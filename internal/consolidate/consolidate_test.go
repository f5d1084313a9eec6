package consolidate_test

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/agnilab/gluesweep/internal/consolidate"
)

func writeArtifact(t *testing.T, savesDir, jobID, name, content string) {
	t.Helper()
	jobDir := filepath.Join(savesDir, jobID)
	if err := os.MkdirAll(jobDir, 0755); err != nil {
		t.Fatalf("creating job dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(jobDir, name), []byte(content), 0644); err != nil {
		t.Fatalf("writing artifact: %v", err)
	}
}

func TestConsolidate(t *testing.T) {
	savesDir := t.TempDir()

	writeArtifact(t, savesDir, "job1", "results_rg_cola_bert-base-cased.json",
		`{"42": {"matthews_correlation": 0.5}, "43": {"matthews_correlation": 0.7}}`)
	writeArtifact(t, savesDir, "job1", "results_rg_rte_bert-base-cased.json",
		`{"42": {"accuracy": 0.66}}`)

	table, err := consolidate.Consolidate(context.Background(), consolidate.Options{
		SavesDir: savesDir,
		JobIDs:   []string{"job1"},
		Models:   []string{"bert-base-cased", "roberta-base"},
		Tasks:    []string{"cola", "rte"},
	})
	if err != nil {
		t.Fatalf("Consolidate failed: %v", err)
	}

	cola := table.Cells["bert-base-cased"]["cola"]
	if cola.N != 2 {
		t.Errorf("expected 2 seeds for cola, got %d", cola.N)
	}
	if math.Abs(cola.Mean-0.6) > 1e-9 {
		t.Errorf("expected cola mean 0.6, got %f", cola.Mean)
	}
	// Sample std of {0.5, 0.7} is ~0.1414
	if math.Abs(cola.Std-math.Sqrt(0.02)) > 1e-9 {
		t.Errorf("unexpected cola std: %f", cola.Std)
	}
	if cola.Metric != "matthews_correlation" {
		t.Errorf("expected matthews_correlation, got %s", cola.Metric)
	}

	rte := table.Cells["bert-base-cased"]["rte"]
	if rte.N != 1 || rte.Std != 0 {
		t.Errorf("expected single-seed cell with zero std, got %+v", rte)
	}

	if _, ok := table.Cells["roberta-base"]; ok {
		t.Error("expected no cells for model with no artifacts")
	}
}

func TestConsolidateMergesJobIDs(t *testing.T) {
	savesDir := t.TempDir()

	writeArtifact(t, savesDir, "job1", "results_rg_rte_bert-base-cased.json",
		`{"42": {"accuracy": 0.6}}`)
	writeArtifact(t, savesDir, "job2", "results_rg_rte_bert-base-cased.json",
		`{"43": {"accuracy": 0.8}}`)

	table, err := consolidate.Consolidate(context.Background(), consolidate.Options{
		SavesDir: savesDir,
		JobIDs:   []string{"job1", "job2"},
		Models:   []string{"bert-base-cased"},
		Tasks:    []string{"rte"},
	})
	if err != nil {
		t.Fatalf("Consolidate failed: %v", err)
	}

	cell := table.Cells["bert-base-cased"]["rte"]
	if cell.N != 2 {
		t.Errorf("expected seeds merged across job IDs, got n=%d", cell.N)
	}
	if math.Abs(cell.Mean-0.7) > 1e-9 {
		t.Errorf("expected mean 0.7, got %f", cell.Mean)
	}
}

func TestConsolidateSkipsCorruptArtifacts(t *testing.T) {
	savesDir := t.TempDir()

	writeArtifact(t, savesDir, "job1", "results_rg_rte_bert-base-cased.json", `{"42": {"accuracy": 0.6}}}`)

	table, err := consolidate.Consolidate(context.Background(), consolidate.Options{
		SavesDir: savesDir,
		JobIDs:   []string{"job1"},
		Models:   []string{"bert-base-cased"},
		Tasks:    []string{"rte"},
	})
	if err != nil {
		t.Fatalf("Consolidate failed: %v", err)
	}

	if _, ok := table.Cells["bert-base-cased"]["rte"]; ok {
		t.Error("expected corrupt artifact to be skipped")
	}
}

func TestConsolidateRequiresSelection(t *testing.T) {
	_, err := consolidate.Consolidate(context.Background(), consolidate.Options{SavesDir: t.TempDir()})
	if err == nil {
		t.Fatal("expected error for empty selection")
	}
}

func TestRender(t *testing.T) {
	savesDir := t.TempDir()
	writeArtifact(t, savesDir, "job1", "results_rg_stsb_roberta-base.json",
		`{"42": {"pearson": 0.89, "spearmanr": 0.88}}`)

	table, err := consolidate.Consolidate(context.Background(), consolidate.Options{
		SavesDir: savesDir,
		JobIDs:   []string{"job1"},
		Models:   []string{"roberta-base", "bert-base-cased"},
		Tasks:    []string{"stsb"},
	})
	if err != nil {
		t.Fatalf("Consolidate failed: %v", err)
	}

	var buf bytes.Buffer
	if err := table.Render(&buf); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "stsb (pearson)") {
		t.Errorf("expected task header with metric, got:\n%s", out)
	}
	if !strings.Contains(out, "0.8900") {
		t.Errorf("expected cell value in output, got:\n%s", out)
	}
	// Model without artifacts renders a placeholder row
	if !strings.Contains(out, "bert-base-cased") || !strings.Contains(out, "-") {
		t.Errorf("expected placeholder row, got:\n%s", out)
	}
}

func TestCollectRuntimes(t *testing.T) {
	savesDir := t.TempDir()

	files := map[string]string{
		"coarse_time_mbert-base-cased_tcola_oadamw_e3.json": `{"time_per_batch": 0.041}`,
		"coarse_time_mbert-base-cased_tcola_oagni_e3.json":  `{"time_per_batch": 0.057}`,
		"results_rg_cola_bert-base-cased.json":              `{}`,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(savesDir, name), []byte(content), 0644); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}

	rows, err := consolidate.CollectRuntimes(savesDir)
	if err != nil {
		t.Fatalf("CollectRuntimes failed: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	// Sorted by optimizer within the same model/task
	if rows[0].Optimizer != "adamw" || rows[1].Optimizer != "agni" {
		t.Errorf("unexpected row order: %+v", rows)
	}
	if rows[1].TimePerBatch != 0.057 {
		t.Errorf("expected 0.057, got %f", rows[1].TimePerBatch)
	}

	var buf bytes.Buffer
	if err := consolidate.RenderRuntimes(&buf, rows); err != nil {
		t.Fatalf("RenderRuntimes failed: %v", err)
	}
	if !strings.Contains(buf.String(), "AdamW + AGNI") {
		t.Errorf("expected optimizer display name, got:\n%s", buf.String())
	}
}
