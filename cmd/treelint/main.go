package main

import (
	stderrors "errors"
	"fmt"
	"os"

	"treelint/internal/errors"
)

// Exit codes: 0 clean, 1 findings failed the run, 2 configuration or usage
// error, 3 internal error.
func main() {
	if err := rootCmd.Execute(); err != nil {
		if stderrors.Is(err, errFindings) {
			// The report was already rendered.
			os.Exit(1)
		}

		fmt.Fprintln(os.Stderr, "treelint:", err)

		var lintErr *errors.LintError
		if stderrors.As(err, &lintErr) {
			os.Exit(lintErr.ExitCode())
		}
		os.Exit(3)
	}
}
