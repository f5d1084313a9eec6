package cli

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/agnilab/gluesweep/internal/consolidate"
)

var runtimesCmd = &cobra.Command{
	Use:   "runtimes",
	Short: "Tabulate per-batch training times",
	Long: `Read the coarse-timing artifacts directly under the saves directory and
print a model/task/optimizer/epochs table of seconds per batch.`,
	RunE: runRuntimes,
}

func init() {
	rootCmd.AddCommand(runtimesCmd)
}

func runRuntimes(cmd *cobra.Command, args []string) error {
	rows, err := consolidate.CollectRuntimes(viper.GetString("saves_dir"))
	if err != nil {
		return err
	}

	return consolidate.RenderRuntimes(os.Stdout, rows)
}
