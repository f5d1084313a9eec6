package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func setupSavesDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}

	old := viper.GetString("saves_dir")
	viper.Set("saves_dir", dir)
	t.Cleanup(func() { viper.Set("saves_dir", old) })

	return dir
}

func TestRepairScanQuarantinesUnconditionally(t *testing.T) {
	dir := setupSavesDir(t, map[string]string{
		"results_rg_cola_bert-base-cased.json": `{"42": {"matthews_correlation": 0.5}}`,
		"results_rg_rte_bert-base-cased.json":  `not json at all`,
		"results_rg_qnli_bert-base-cased.json": `{"42": {"accuracy": 0.9}}}`,
	})

	if err := runRepairScan(repairScanCmd, nil); err != nil {
		t.Fatalf("scan failed: %v", err)
	}

	// Every undecodable file is renamed; scan takes no flag.
	for _, name := range []string{
		"results_rg_rte_bert-base-cased.json",
		"results_rg_qnli_bert-base-cased.json",
	} {
		if _, err := os.Stat(filepath.Join(dir, name)); !os.IsNotExist(err) {
			t.Errorf("expected %s to be renamed away", name)
		}
		if _, err := os.Stat(filepath.Join(dir, "broken_"+name)); err != nil {
			t.Errorf("expected broken_%s to exist: %v", name, err)
		}
	}

	// Valid artifacts are untouched.
	if _, err := os.Stat(filepath.Join(dir, "results_rg_cola_bert-base-cased.json")); err != nil {
		t.Errorf("expected valid artifact untouched: %v", err)
	}
}

func TestRepairFixReportsWithoutFlag(t *testing.T) {
	dir := setupSavesDir(t, map[string]string{
		"results_rg_cola_bert-base-cased.json": `{"42": {"matthews_correlation": 0.5}}}`,
	})

	if err := repairFixCmd.Flags().Set("fix", "false"); err != nil {
		t.Fatalf("setting flag: %v", err)
	}
	if err := runRepairFix(repairFixCmd, nil); err != nil {
		t.Fatalf("fix failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "results_rg_cola_bert-base-cased.json"))
	if err != nil {
		t.Fatalf("reading artifact: %v", err)
	}
	if string(data) != `{"42": {"matthews_correlation": 0.5}}}` {
		t.Error("expected file untouched without --fix")
	}
}

func TestRepairFixRepairsWithFlag(t *testing.T) {
	dir := setupSavesDir(t, map[string]string{
		"results_rg_cola_bert-base-cased.json": `{"42": {"matthews_correlation": 0.5}}}`,
		"results_rg_rte_bert-base-cased.json":  `not json at all`,
	})

	if err := repairFixCmd.Flags().Set("fix", "true"); err != nil {
		t.Fatalf("setting flag: %v", err)
	}
	t.Cleanup(func() { repairFixCmd.Flags().Set("fix", "false") })

	if err := runRepairFix(repairFixCmd, nil); err != nil {
		t.Fatalf("fix failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "results_rg_cola_bert-base-cased.json"))
	if err != nil {
		t.Fatalf("reading repaired artifact: %v", err)
	}
	if string(data) != `{"42": {"matthews_correlation": 0.5}}` {
		t.Errorf("unexpected repaired content: %s", data)
	}
	if _, err := os.Stat(filepath.Join(dir, "broken_results_rg_cola_bert-base-cased.json")); err != nil {
		t.Errorf("expected backup to exist: %v", err)
	}

	// fix never touches files that are not trailing-brace corruption.
	if _, err := os.Stat(filepath.Join(dir, "results_rg_rte_bert-base-cased.json")); err != nil {
		t.Errorf("expected unparseable artifact left for scan: %v", err)
	}
}
