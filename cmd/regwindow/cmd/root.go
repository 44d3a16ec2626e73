// Package cmd implements the regwindow CLI commands.
package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/regwindow/scheduler/pkg/config"
	"github.com/regwindow/scheduler/pkg/logx"
)

var (
	// Global flags
	verbose    bool
	configPath string

	logger logx.Logger
	cfg    *config.Config
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "regwindow",
	Short: "A register-window scheduler for DAG node orders",
	Long: `regwindow reorders a DAG's linear node order, inserting synthetic
copy nodes when necessary, so every use-to-definition distance stays
within the configured window.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logLevel := logx.LevelInfo
		if verbose {
			logLevel = logx.LevelDebug
		}
		logger = logx.NewDefaultLogger(logLevel, os.Stdout)

		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded

		if verbose {
			cfg.Log.Level = "debug"
		}
		if cfg.Scheduler.Debug {
			logger = logx.NewDefaultLogger(logx.LevelDebug, os.Stdout)
		}

		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a config file (optional)")

	binName := BinName()
	rootCmd.Example = `  # Schedule a DAG described as whitespace-separated operand offsets
  ` + binName + ` run ./graph.txt

  # Write the scheduled graph to a DOT file instead of stdout
  ` + binName + ` run ./graph.txt -o ./graph.dot

  # Record the run in a local ledger
  ` + binName + ` run ./graph.txt --ledger ./regwindow.db`
}

// GetLogger returns the configured logger.
func GetLogger() logx.Logger {
	return logger
}

// GetConfig returns the loaded configuration.
func GetConfig() *config.Config {
	return cfg
}

// BinName returns the base name of the current executable.
func BinName() string {
	return filepath.Base(os.Args[0])
}
