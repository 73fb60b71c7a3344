package main

import (
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"treelint/internal/advisory"
	"treelint/internal/baseline"
	"treelint/internal/config"
	"treelint/internal/engine"
	"treelint/internal/errors"
	"treelint/internal/parser"
	"treelint/internal/report"
	"treelint/internal/rules"
	"treelint/internal/version"
)

// errFindings signals a run that completed but found problems; main maps it
// to exit code 1.
var errFindings = stderrors.New("problems found")

var (
	configFlag      string
	formatFlag      string
	maxWarningsFlag int
	languageFlag    string
	outputFileFlag  string
	baselineFlag    string
	updateBaseline  bool
	workersFlag     int
	auditFlag       bool
)

var runCmd = &cobra.Command{
	Use:   "run [paths...]",
	Short: "Lint files or directories",
	Long: `Run lints the given files and directories (default: the current
directory) against the effective configuration and prints the findings.

The exit code is 0 when the run is clean, 1 when findings fail it, 2 on
configuration errors, and 3 on internal errors.`,
	RunE: runLint,
}

func init() {
	runCmd.Flags().StringVarP(&configFlag, "config", "c", "",
		"Config file (default: discover .treelint.{json,yaml,yml,toml})")
	runCmd.Flags().StringVarP(&formatFlag, "format", "f", "human",
		"Output format: human, json, or sarif")
	runCmd.Flags().IntVar(&maxWarningsFlag, "max-warnings", -1,
		"Fail when warnings exceed this count (-1: unlimited)")
	runCmd.Flags().StringVar(&languageFlag, "language", "",
		"Treat every named file as this language instead of detecting by extension")
	runCmd.Flags().StringVarP(&outputFileFlag, "output-file", "o", "",
		"Write the report to a file instead of stdout (.gz compresses)")
	runCmd.Flags().StringVar(&baselineFlag, "baseline", "",
		"Suppress findings recorded in this baseline file")
	runCmd.Flags().BoolVar(&updateBaseline, "update-baseline", false,
		"Rewrite the baseline file to cover the current findings")
	runCmd.Flags().IntVar(&workersFlag, "workers", 0,
		"Parallel file workers (0: one per CPU)")
	runCmd.Flags().BoolVar(&auditFlag, "audit", false,
		"Also audit dependency manifests in scanned directories")
	rootCmd.AddCommand(runCmd)
}

func runLint(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	if !parser.IsAvailable() {
		return errors.Newf(errors.InternalError, "this build has no parser; rebuild with CGO enabled")
	}

	render, err := rendererFor(formatFlag)
	if err != nil {
		return err
	}

	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}

	eff, err := loadEffectiveConfig(logger)
	if err != nil {
		return err
	}
	for _, warning := range eff.Warnings {
		logger.Warn(warning)
	}

	if maxWarningsFlag >= 0 {
		eff.MaxWarnings = maxWarningsFlag
	}

	eng := engine.New(engine.Options{
		Parser:       parser.New(),
		Registry:     rules.Builtin(),
		Effective:    eff,
		Logger:       logger,
		LanguageHint: languageFlag,
		Workers:      workersFlag,
	})

	rep, err := eng.Run(cmd.Context(), paths)
	if err != nil {
		return err
	}

	if auditFlag {
		if err := appendAuditFindings(cmd, logger, paths, rep); err != nil {
			return err
		}
	}

	if baselineFlag != "" {
		if updateBaseline {
			if err := baseline.FromFindings(rep.Findings).Write(baselineFlag); err != nil {
				return err
			}
			logger.Info("Baseline updated", "path", baselineFlag, "entries", len(rep.Findings))
			return nil
		}

		bl, err := baseline.Load(baselineFlag)
		if err != nil {
			return err
		}
		kept, suppressed := bl.Filter(rep.Findings)
		if suppressed > 0 {
			logger.Info("Baseline suppressed findings", "count", suppressed)
		}
		rep.Findings = kept
	}

	if err := emit(rep, render); err != nil {
		return err
	}

	if rep.Failed(eff.MaxWarnings) {
		return errFindings
	}
	return nil
}

// loadEffectiveConfig loads the configured (or discovered) config file and
// resolves it against the builtin rule set.
func loadEffectiveConfig(logger *slog.Logger) (*config.Effective, error) {
	resolver := config.NewResolver(rules.Builtin().IDs(), logger)

	path := configFlag
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, errors.New(errors.InternalError, "cannot determine working directory", err)
		}
		path = config.Discover(cwd)
	}
	if path == "" {
		return resolver.Resolve(nil)
	}

	f, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return resolver.Resolve(f)
}

// appendAuditFindings runs the dependency audit over every directory
// argument and merges its findings into the report.
func appendAuditFindings(cmd *cobra.Command, logger *slog.Logger, paths []string, rep *report.Report) error {
	dbPath := defaultAdvisoryDB()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return err
	}

	store, err := advisory.Open(dbPath, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	auditor := advisory.NewAuditor(store, logger)
	agg := report.NewAggregator()
	agg.Add(rep.Findings...)

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil || !info.IsDir() {
			continue
		}
		findings, err := auditor.Audit(cmd.Context(), p)
		if err != nil {
			return err
		}
		agg.Add(findings...)
	}

	rep.Findings = agg.Finalize()
	return nil
}

func rendererFor(format string) (func(io.Writer, *report.Report) error, error) {
	switch format {
	case "human":
		return report.RenderHuman, nil
	case "json":
		return report.RenderJSON, nil
	case "sarif":
		return func(w io.Writer, r *report.Report) error {
			return report.RenderSARIF(w, r, version.Version)
		}, nil
	default:
		return nil, errors.Newf(errors.ConfigInvalid,
			"unknown format %q (want human, json, or sarif)", format)
	}
}

func emit(rep *report.Report, render func(io.Writer, *report.Report) error) error {
	if outputFileFlag == "" {
		return render(os.Stdout, rep)
	}
	if err := os.MkdirAll(filepath.Dir(outputFileFlag), 0755); err != nil {
		return errors.New(errors.FileUnreadable,
			fmt.Sprintf("cannot create output directory for %s", outputFileFlag), err)
	}
	return report.WriteFile(outputFileFlag, func(w io.Writer) error {
		return render(w, rep)
	})
}
