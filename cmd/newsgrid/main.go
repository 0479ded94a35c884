package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/cognicore/newsgrid/internal/logging"
)

var (
	logLevel  string
	logPretty bool
)

var rootCmd = &cobra.Command{
	Use:   "newsgrid",
	Short: "Comparative cross-national news analysis",
	Long: `newsgrid partitions a news corpus into a row x column matrix of
document subsets (for example country x publish day), trains topics over
the cells and writes extractive summaries per cell.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Setup(logLevel, logPretty)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logPretty, "pretty", false, "human-readable log output")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
