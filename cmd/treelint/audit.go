package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"treelint/internal/advisory"
	"treelint/internal/report"
)

var advisoryDBFlag string

var auditCmd = &cobra.Command{
	Use:   "audit [dir]",
	Short: "Check dependency manifests against the advisory database",
	Long: `Audit parses package.json, Cargo.toml, and pyproject.toml in the given
directory (default: the current directory) and reports dependencies with
known advisories.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAudit,
}

func init() {
	auditCmd.Flags().StringVar(&advisoryDBFlag, "advisory-db", "",
		"Advisory database path (default: ~/.cache/treelint/advisories.db)")
	auditCmd.Flags().StringVarP(&formatFlag, "format", "f", "human",
		"Output format: human, json, or sarif")
	rootCmd.AddCommand(auditCmd)
}

func runAudit(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	render, err := rendererFor(formatFlag)
	if err != nil {
		return err
	}

	dbPath := advisoryDBFlag
	if dbPath == "" {
		dbPath = defaultAdvisoryDB()
	}
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return err
		}
	}

	store, err := advisory.Open(dbPath, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	auditor := advisory.NewAuditor(store, logger)
	findings, err := auditor.Audit(cmd.Context(), dir)
	if err != nil {
		return err
	}

	agg := report.NewAggregator()
	agg.Add(findings...)
	rep := &report.Report{Findings: agg.Finalize()}

	if err := render(os.Stdout, rep); err != nil {
		return err
	}

	if rep.Failed(-1) {
		return errFindings
	}
	return nil
}

func defaultAdvisoryDB() string {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "advisories.db"
	}
	return filepath.Join(cacheDir, "treelint", "advisories.db")
}
