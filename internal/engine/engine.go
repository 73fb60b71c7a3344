// Package engine drives a lint run: it expands the input paths, parses and
// walks each file, and aggregates findings into one report. Files are
// processed in parallel; a file that fails to parse becomes a diagnostic
// finding and never aborts the batch.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"treelint/internal/config"
	"treelint/internal/errors"
	"treelint/internal/lang"
	"treelint/internal/report"
	"treelint/internal/rule"
	"treelint/internal/tree"
	"treelint/internal/walker"
)

// ParseErrorRuleID marks diagnostic findings for files the parser rejected.
const ParseErrorRuleID = "internal/parse-error"

// Parser turns source bytes into a normalized tree.
type Parser interface {
	Parse(ctx context.Context, source []byte, language lang.Language) (*tree.Node, error)
}

// Engine lints batches of files against a resolved configuration.
type Engine struct {
	parser   Parser
	registry *rule.Registry
	eff      *config.Effective
	walker   *walker.Walker
	logger   *slog.Logger

	// langHint forces every file to one language instead of detecting by
	// extension.
	langHint string
	workers  int
}

// Options configures a new engine. Zero Workers means one per CPU.
type Options struct {
	Parser       Parser
	Registry     *rule.Registry
	Effective    *config.Effective
	Logger       *slog.Logger
	LanguageHint string
	Workers      int
}

// New builds an engine from options.
func New(opts Options) *Engine {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Engine{
		parser:   opts.Parser,
		registry: opts.Registry,
		eff:      opts.Effective,
		walker:   walker.New(opts.Logger),
		logger:   opts.Logger,
		langHint: opts.LanguageHint,
		workers:  workers,
	}
}

// Run lints every lintable file under paths and returns the finalized
// report. Cancelling ctx stops scheduling new files; files already being
// linted finish.
func (e *Engine) Run(ctx context.Context, paths []string) (*report.Report, error) {
	started := time.Now()

	files, err := e.expand(paths)
	if err != nil {
		return nil, err
	}

	agg := report.NewAggregator()
	var (
		mu            sync.Mutex
		parseFailures int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for _, file := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			findings, parseFailed := e.lintFile(gctx, file)
			mu.Lock()
			agg.Add(findings...)
			if parseFailed {
				parseFailures++
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rep := &report.Report{
		Findings:      agg.Finalize(),
		Rules:         map[string]rule.Meta{},
		FilesScanned:  len(files),
		ParseFailures: parseFailures,
		Duration:      time.Since(started),
	}
	if wd, err := os.Getwd(); err == nil {
		rep.WorkingDir = wd
	}
	for _, f := range rep.Findings {
		if r, ok := e.registry.Get(f.RuleID); ok {
			rep.Rules[f.RuleID] = r.Meta()
		}
	}
	return rep, nil
}

// lintFile runs the full per-file pipeline. It never returns an error:
// unreadable or unparseable files become a single diagnostic finding so the
// batch keeps going.
func (e *Engine) lintFile(ctx context.Context, path string) (findings []rule.Finding, parseFailed bool) {
	source, err := os.ReadFile(path)
	if err != nil {
		e.logger.Warn("Cannot read file", "path", path, "error", err)
		return []rule.Finding{diagnostic(path, fmt.Sprintf("cannot read file: %v", err))}, true
	}

	language, ok := lang.Detect(path, e.langHint)
	if !ok {
		// expand() already filtered by extension; only a bad hint lands here.
		e.logger.Debug("Skipping file with unknown language", "path", path)
		return nil, false
	}

	root, err := e.parser.Parse(ctx, source, language)
	if err != nil {
		e.logger.Warn("Parse failed", "path", path, "language", language, "error", err)
		return []rule.Finding{diagnostic(path, fmt.Sprintf("parse failed: %v", err))}, true
	}

	set := e.registry.Resolve(e.eff.For(path))
	if set.Len() == 0 {
		return nil, false
	}

	rctx := rule.NewContext(root, path, language, source)
	return e.walker.Walk(rctx, set), false
}

// expand resolves the input paths to the list of files to lint: files are
// taken as-is, directories are walked recursively. Ignore patterns from the
// configuration are honored in both cases.
func (e *Engine) expand(paths []string) ([]string, error) {
	var files []string
	seen := make(map[string]struct{})

	add := func(path string) {
		if _, dup := seen[path]; dup {
			return
		}
		if e.eff.Ignored(path) {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, errors.New(errors.FileUnreadable, fmt.Sprintf("cannot stat %s", p), err)
		}

		if !info.IsDir() {
			add(p)
			continue
		}

		root := p
		err = filepath.WalkDir(p, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				// The walk root is always entered, even when the caller
				// named a hidden directory explicitly.
				if path == root {
					return nil
				}
				if name := d.Name(); name == "node_modules" || strings.HasPrefix(name, ".") {
					return filepath.SkipDir
				}
				return nil
			}
			// Directory walks go by extension; the language hint only
			// applies to files named explicitly.
			if _, ok := lang.Detect(path, ""); ok {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, errors.New(errors.FileUnreadable, fmt.Sprintf("cannot walk %s", p), err)
		}
	}
	return files, nil
}

func diagnostic(path, message string) rule.Finding {
	return rule.Finding{
		RuleID:   ParseErrorRuleID,
		Severity: rule.SeverityError,
		Message:  message,
		File:     path,
		Range: tree.Range{
			Start: tree.Position{Line: 1, Column: 1},
			End:   tree.Position{Line: 1, Column: 1},
		},
	}
}
