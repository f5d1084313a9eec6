// Package cli wires the gluesweep command tree.
package cli

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "gluesweep",
	Short: "Hyperparameter sweep dispatcher for GLUE fine-tuning experiments",
	Long: `gluesweep dispatches hyperparameter sweeps (model x task x optimizer x
learning rate x epochs x seed) against an external training program, bounds
the number of concurrent runs, and consolidates saved result artifacts into
summary tables.`,
	SilenceUsage: true,
}

// Execute runs the CLI with the given context.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().String("saves-dir", "", "saves directory (overrides GLUESWEEP_SAVES_DIR)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	viper.BindPFlag("saves_dir", rootCmd.PersistentFlags().Lookup("saves-dir"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	viper.SetEnvPrefix("GLUESWEEP")
	viper.AutomaticEnv()

	viper.SetDefault("saves_dir", "saves")
	viper.SetDefault("log_level", "info")

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(viper.GetString("log_level")),
	})))
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
