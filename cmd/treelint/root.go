package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"treelint/internal/slogutil"
	"treelint/internal/version"
)

var (
	// verboseFlag is the CLI -v/--verbose flag value
	verboseFlag int
	// quietFlag suppresses everything below warnings
	quietFlag bool
	// logLevelFlag overrides the verbosity flags when set
	logLevelFlag string
	// logFileFlag redirects logs from stderr to a file
	logFileFlag string
)

var rootCmd = &cobra.Command{
	Use:   "treelint",
	Short: "treelint - structural linter for many languages",
	Long: `treelint parses source files into syntax trees and checks them against a
configurable set of rules. It speaks JavaScript, TypeScript, Python, Go,
Rust, Java, and Kotlin, and reports findings as text, JSON, or SARIF.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate("treelint version {{.Version}}\n")
	rootCmd.PersistentFlags().CountVarP(&verboseFlag, "verbose", "v",
		"Increase log verbosity (repeatable)")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false,
		"Only log warnings and errors")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "",
		"Log level: debug, info, warn, or error (overrides -v/-q)")
	rootCmd.PersistentFlags().StringVar(&logFileFlag, "log-file", "",
		"Append logs to this file instead of stderr")
}

// newLogger builds the run logger from the global logging flags. When the
// log file cannot be opened, logging falls back to stderr so the run is
// not lost over a bad flag.
func newLogger() *slog.Logger {
	level := slogutil.LevelFromVerbosity(verboseFlag, quietFlag)
	if logLevelFlag != "" {
		level = slogutil.LevelFromString(logLevelFlag)
	}

	if logFileFlag != "" {
		logger, _, err := slogutil.NewFileLogger(logFileFlag, level)
		if err == nil {
			// The file stays open for the rest of the process.
			return logger
		}
		fallback := slogutil.NewLogger(os.Stderr, level)
		fallback.Warn("Cannot open log file, logging to stderr", "path", logFileFlag, "error", err)
		return fallback
	}

	return slogutil.NewLogger(os.Stderr, level)
}
