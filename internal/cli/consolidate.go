package cli

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/agnilab/gluesweep/internal/config"
	"github.com/agnilab/gluesweep/internal/consolidate"
)

var consolidateCmd = &cobra.Command{
	Use:   "consolidate",
	Short: "Tabulate saved results into a summary table",
	Long: `Read the result artifacts of one or more job IDs and print a model x task
table of the primary metric (mean over seeds, with sample standard deviation).
Missing or corrupt artifacts are skipped with a warning.`,
	RunE: runConsolidate,
}

func init() {
	rootCmd.AddCommand(consolidateCmd)

	consolidateCmd.Flags().String("config", "", "sweep.yaml to take models/tasks/job-id defaults from")
	consolidateCmd.Flags().StringArray("job-id", nil, "job ID to consolidate (repeatable)")
	consolidateCmd.Flags().StringArray("model", nil, "model to include (repeatable)")
	consolidateCmd.Flags().StringArray("task", nil, "GLUE task to include (repeatable)")
}

func runConsolidate(cmd *cobra.Command, args []string) error {
	opts := consolidate.Options{
		SavesDir: viper.GetString("saves_dir"),
	}

	// A sweep config may seed the selection; explicit flags override it.
	if configPath, _ := cmd.Flags().GetString("config"); configPath != "" {
		cfg, err := config.LoadSweepConfig(configPath)
		if err != nil {
			return err
		}
		opts.JobIDs = []string{cfg.JobID}
		opts.Models = cfg.Models
		opts.Tasks = cfg.Tasks
		if cfg.SavesDir != "" {
			opts.SavesDir = cfg.SavesDir
		}
	}

	if jobIDs, _ := cmd.Flags().GetStringArray("job-id"); len(jobIDs) > 0 {
		opts.JobIDs = jobIDs
	}
	if models, _ := cmd.Flags().GetStringArray("model"); len(models) > 0 {
		opts.Models = models
	}
	if tasks, _ := cmd.Flags().GetStringArray("task"); len(tasks) > 0 {
		opts.Tasks = tasks
	}

	table, err := consolidate.Consolidate(cmd.Context(), opts)
	if err != nil {
		return err
	}

	return table.Render(os.Stdout)
}
