package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/agnilab/gluesweep/internal/artifact"
)

var repairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Find and repair corrupt result artifacts",
}

var repairScanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Quarantine artifacts that fail to parse",
	Long: `Scan the saves directory for JSON artifacts that fail to parse and rename
them with a broken_ prefix so later scans and consolidation ignore them.`,
	RunE: runRepairScan,
}

var repairFixCmd = &cobra.Command{
	Use:   "fix",
	Short: "Repair artifacts with trailing-brace corruption",
	Long: `Scan the saves directory for artifacts with the trailing-brace corruption
(a concurrent trainer appended an extra '}'). With --fix, back each file up as
broken_<name> and rewrite it with the trailing braces stripped; without, only
report what was found.`,
	RunE: runRepairFix,
}

func init() {
	rootCmd.AddCommand(repairCmd)
	repairCmd.AddCommand(repairScanCmd)
	repairCmd.AddCommand(repairFixCmd)

	repairFixCmd.Flags().Bool("fix", false, "rewrite repairable files instead of reporting them")
}

func runRepairScan(cmd *cobra.Command, args []string) error {
	issues, err := artifact.Scan(viper.GetString("saves_dir"))
	if err != nil {
		return err
	}

	if len(issues) == 0 {
		fmt.Println("no corrupt artifacts found")
		return nil
	}

	for _, issue := range issues {
		quarantined, err := artifact.Quarantine(issue.Path)
		if err != nil {
			return err
		}
		fmt.Printf("renamed %s to %s\n", issue.Path, quarantined)
	}

	return nil
}

func runRepairFix(cmd *cobra.Command, args []string) error {
	fix, _ := cmd.Flags().GetBool("fix")

	issues, err := artifact.Scan(viper.GetString("saves_dir"))
	if err != nil {
		return err
	}

	var found int
	for _, issue := range issues {
		if issue.Kind != artifact.IssueTrailingBraces {
			continue
		}
		found++

		if !fix {
			fmt.Printf("file with trailing '}': %s (use --fix to repair)\n", issue.Path)
			continue
		}
		if err := artifact.FixTrailingBraces(issue.Path); err != nil {
			return err
		}
		fmt.Printf("fixed %s (backup created)\n", issue.Path)
	}

	if found == 0 {
		fmt.Println("no repairable artifacts found")
	}

	return nil
}
