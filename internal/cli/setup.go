package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agnilab/gluesweep/internal/workspace"
)

var setupCmd = &cobra.Command{
	Use:   "setup [root]",
	Short: "Create the workspace directory tree",
	Long:  "Create the saves/ and downloads/ directories the trainer expects. Idempotent.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) == 1 {
		root = args[0]
	}

	if err := workspace.Setup(root); err != nil {
		return err
	}

	fmt.Printf("workspace ready under %s\n", root)
	return nil
}
