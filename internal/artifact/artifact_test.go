package artifact

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResultsPath(t *testing.T) {
	got := ResultsPath("saves", "agni_sweep_1", "cola", "bert-base-cased")
	want := filepath.Join("saves", "agni_sweep_1", "results_rg_cola_bert-base-cased.json")
	if got != want {
		t.Errorf("ResultsPath = %s, want %s", got, want)
	}
}

func TestReadSeedResults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "results_rg_cola_bert-base-cased.json")
	content := `{"42": {"matthews_correlation": 0.581}, "43": {"matthews_correlation": 0.553}}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing artifact: %v", err)
	}

	results, err := ReadSeedResults(path)
	if err != nil {
		t.Fatalf("ReadSeedResults failed: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("expected 2 seeds, got %d", len(results))
	}
	if results["42"]["matthews_correlation"] != 0.581 {
		t.Errorf("unexpected value for seed 42: %v", results["42"])
	}
}

func TestHasSeed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "results_rg_rte_bert-base-cased.json")
	if err := os.WriteFile(path, []byte(`{"42": {"accuracy": 0.66}}`), 0644); err != nil {
		t.Fatalf("writing artifact: %v", err)
	}

	if !HasSeed(path, 42) {
		t.Error("expected seed 42 to be present")
	}
	if HasSeed(path, 43) {
		t.Error("expected seed 43 to be absent")
	}
	if HasSeed(filepath.Join(dir, "missing.json"), 42) {
		t.Error("expected missing file to count as absent")
	}
}

func TestParseRuntimeFileName(t *testing.T) {
	tests := []struct {
		name string
		want RuntimeKey
		ok   bool
	}{
		{
			name: "coarse_time_mbert-base-cased_tcola_oadamw_e3.json",
			want: RuntimeKey{Model: "bert-base-cased", Task: "cola", Optimizer: "adamw", Epochs: 3},
			ok:   true,
		},
		{
			name: "coarse_time_mroberta-base_tsst2_oagni_e10.json",
			want: RuntimeKey{Model: "roberta-base", Task: "sst2", Optimizer: "agni", Epochs: 10},
			ok:   true,
		},
		{name: "results_rg_cola_bert-base-cased.json", ok: false},
		{name: "coarse_time_mbert_tcola_oadamw_e3.txt", ok: false},
	}

	for _, tt := range tests {
		got, ok := ParseRuntimeFileName(tt.name)
		if ok != tt.ok {
			t.Errorf("ParseRuntimeFileName(%q) ok = %v, want %v", tt.name, ok, tt.ok)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("ParseRuntimeFileName(%q) = %+v, want %+v", tt.name, got, tt.want)
		}
	}
}

func TestReadTimePerBatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "coarse_time_mbert_tcola_oadamw_e3.json")
	if err := os.WriteFile(path, []byte(`{"time_per_batch": 0.0421}`), 0644); err != nil {
		t.Fatalf("writing timing file: %v", err)
	}

	tpb, err := ReadTimePerBatch(path)
	if err != nil {
		t.Fatalf("ReadTimePerBatch failed: %v", err)
	}
	if tpb != 0.0421 {
		t.Errorf("expected 0.0421, got %f", tpb)
	}
}

func TestIsArtifactFile(t *testing.T) {
	if !IsArtifactFile("results_rg_cola_bert.json") {
		t.Error("expected results file to be an artifact candidate")
	}
	if IsArtifactFile("broken_results_rg_cola_bert.json") {
		t.Error("expected quarantined file to be excluded")
	}
	if IsArtifactFile("notes.txt") {
		t.Error("expected non-json file to be excluded")
	}
}
