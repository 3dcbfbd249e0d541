package main

import (
	"fmt"
	"os"

	"github.com/moura-ar/portfolio/internal/logging"
	"github.com/moura-ar/portfolio/internal/version"

	"github.com/spf13/cobra"
)

var logger *logging.Logger

func initLogger(cmd *cobra.Command, _ []string) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	logFile, _ := cmd.Flags().GetString("log-file")

	logConfig := &logging.Config{
		Level:      logging.LevelWarn,
		File:       logFile,
		MaxSize:    10,
		MaxBackups: 1,
		MaxAge:     7,
	}
	if verbose {
		logConfig.Level = logging.LevelDebug
	}

	if err := logging.InitLogger(logConfig); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger = logging.GetGlobalLogger()
}

var rootCmd = &cobra.Command{
	Use:   "contactform",
	Short: "Terminal client for the moura.ar contact form",
	Long: `contactform fills and sends the moura.ar contact form from a terminal.
It runs the same field rules, debounce timers and submission lifecycle as the
page, so it doubles as a smoke test for a deployed API.`,
	PersistentPreRun: initLogger,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("contactform %s\n", version.Info())
	},
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log analytics events and debug output")
	rootCmd.PersistentFlags().String("log-file", "", "Also write logs to this file")

	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
