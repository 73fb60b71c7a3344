package engine

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"treelint/internal/config"
	"treelint/internal/errors"
	"treelint/internal/lang"
	"treelint/internal/rule"
	"treelint/internal/slogutil"
	"treelint/internal/tree"
)

// fakeParser builds a one-statement tree per "debugger" occurrence and
// rejects sources containing "SYNTAX ERROR".
type fakeParser struct{}

func (fakeParser) Parse(ctx context.Context, source []byte, language lang.Language) (*tree.Node, error) {
	if strings.Contains(string(source), "SYNTAX ERROR") {
		return nil, os.ErrInvalid
	}

	root := tree.NewNode("program", tree.Range{
		StartByte: 0, EndByte: uint32(len(source)),
		Start: tree.Position{Line: 1, Column: 1},
		End:   tree.Position{Line: 1, Column: len(source) + 1},
	})
	offset := 0
	for {
		idx := strings.Index(string(source)[offset:], "debugger")
		if idx < 0 {
			break
		}
		start := offset + idx
		root.AddChild(tree.NewNode("debugger_statement", tree.Range{
			StartByte: uint32(start), EndByte: uint32(start + 8),
			Start: tree.Position{Line: 1, Column: start + 1},
			End:   tree.Position{Line: 1, Column: start + 9},
		}))
		offset = start + 8
	}
	return root, nil
}

type debuggerRule struct{}

func (debuggerRule) ID() string      { return "no-debugger" }
func (debuggerRule) Kinds() []string { return []string{"debugger_statement"} }
func (debuggerRule) Meta() rule.Meta {
	return rule.Meta{Description: "Disallow debugger statements", DefaultSeverity: rule.SeverityWarn}
}
func (debuggerRule) Check(node *tree.Node, rctx *rule.Context, opts rule.Options) []rule.Finding {
	return []rule.Finding{{Message: "unexpected debugger statement", Range: node.Range}}
}

func testEngine(t *testing.T, eff *config.Effective) *Engine {
	t.Helper()
	reg := rule.NewRegistry()
	reg.MustRegister(debuggerRule{})
	if eff == nil {
		eff = &config.Effective{
			Settings: map[string]rule.Setting{
				"no-debugger": {Severity: rule.SeverityWarn},
			},
			MaxWarnings: -1,
		}
	}
	return New(Options{
		Parser:    fakeParser{},
		Registry:  reg,
		Effective: eff,
		Logger:    slogutil.NewDiscardLogger(),
		Workers:   2,
	})
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun_LintsDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.js", "debugger;")
	writeFile(t, dir, "b.js", "debugger; debugger;")
	writeFile(t, dir, "notes.txt", "debugger") // not a lintable extension

	rep, err := testEngine(t, nil).Run(context.Background(), []string{dir})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if rep.FilesScanned != 2 {
		t.Errorf("FilesScanned = %d, want 2 (txt skipped)", rep.FilesScanned)
	}
	if len(rep.Findings) != 3 {
		t.Errorf("findings = %d, want 3", len(rep.Findings))
	}
	// Ordered by file, then position.
	if rep.Findings[0].File != filepath.Join(dir, "a.js") {
		t.Errorf("first finding in %s, want a.js", rep.Findings[0].File)
	}
	if meta, ok := rep.Rules["no-debugger"]; !ok || meta.Description == "" {
		t.Error("report should carry metadata for rules that fired")
	}
}

func TestRun_ParseFailureIsDiagnosticNotAbort(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.js", "SYNTAX ERROR")
	writeFile(t, dir, "good.js", "debugger;")

	rep, err := testEngine(t, nil).Run(context.Background(), []string{dir})
	if err != nil {
		t.Fatalf("a parse failure must not abort the batch: %v", err)
	}

	if rep.ParseFailures != 1 {
		t.Errorf("ParseFailures = %d, want 1", rep.ParseFailures)
	}

	var diags, lint int
	for _, f := range rep.Findings {
		switch f.RuleID {
		case ParseErrorRuleID:
			diags++
			if f.Severity != rule.SeverityError {
				t.Errorf("diagnostic severity = %s, want error", f.Severity)
			}
		case "no-debugger":
			lint++
		}
	}
	if diags != 1 || lint != 1 {
		t.Errorf("diagnostics = %d, lint findings = %d, want 1 and 1", diags, lint)
	}
}

func TestRun_HonorsIgnorePatterns(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "app.js", "debugger;")
	writeFile(t, dir, "app.min.js", "debugger;")

	eff := &config.Effective{
		Settings: map[string]rule.Setting{
			"no-debugger": {Severity: rule.SeverityWarn},
		},
		MaxWarnings: -1,
		Ignore:      []string{"*.min.js"},
	}

	rep, err := testEngine(t, eff).Run(context.Background(), []string{dir})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if rep.FilesScanned != 1 {
		t.Errorf("FilesScanned = %d, want 1", rep.FilesScanned)
	}
	for _, f := range rep.Findings {
		if strings.HasSuffix(f.File, ".min.js") {
			t.Errorf("ignored file was linted: %s", f.File)
		}
	}
}

func TestRun_ExplicitFileList(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.js", "debugger;")
	writeFile(t, dir, "b.js", "debugger;")

	rep, err := testEngine(t, nil).Run(context.Background(), []string{a, a})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// Duplicate arguments collapse to one scan.
	if rep.FilesScanned != 1 || len(rep.Findings) != 1 {
		t.Errorf("scanned = %d, findings = %d, want 1 and 1", rep.FilesScanned, len(rep.Findings))
	}
}

func TestRun_ParallelBatch(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 24; i++ {
		writeFile(t, dir, fmt.Sprintf("f%02d.js", i), "debugger;")
		writeFile(t, dir, fmt.Sprintf("f%02d.py", i), "debugger")
	}

	reg := rule.NewRegistry()
	reg.MustRegister(debuggerRule{})
	eng := New(Options{
		Parser:   countingParser{calls: new(atomic.Int32)},
		Registry: reg,
		Effective: &config.Effective{
			Settings:    map[string]rule.Setting{"no-debugger": {Severity: rule.SeverityWarn}},
			MaxWarnings: -1,
		},
		Logger:  slogutil.NewDiscardLogger(),
		Workers: 4,
	})

	rep, err := eng.Run(context.Background(), []string{dir})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if rep.FilesScanned != 48 {
		t.Errorf("FilesScanned = %d, want 48", rep.FilesScanned)
	}
	if len(rep.Findings) != 48 {
		t.Errorf("findings = %d, want one per file", len(rep.Findings))
	}
	if got := eng.parser.(countingParser).calls.Load(); got != 48 {
		t.Errorf("Parse calls = %d, want one per file", got)
	}
}

// countingParser tracks Parse invocations across worker goroutines.
type countingParser struct {
	calls *atomic.Int32
}

func (p countingParser) Parse(ctx context.Context, source []byte, language lang.Language) (*tree.Node, error) {
	p.calls.Add(1)
	return fakeParser{}.Parse(ctx, source, language)
}

func TestRun_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.js", "debugger;")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testEngine(t, nil).Run(ctx, []string{dir})
	if err == nil {
		t.Error("a cancelled context should surface as an error")
	}
}

func TestRun_MissingPath(t *testing.T) {
	_, err := testEngine(t, nil).Run(context.Background(), []string{"/no/such/path"})
	if err == nil {
		t.Fatal("missing input path should fail the run")
	}

	var lintErr *errors.LintError
	if !stderrors.As(err, &lintErr) || lintErr.Code != errors.FileUnreadable {
		t.Errorf("error = %v, want FILE_UNREADABLE", err)
	}
	if lintErr.ExitCode() != 3 {
		t.Errorf("exit code = %d, want 3", lintErr.ExitCode())
	}
}

func TestRun_HiddenDirAsExplicitRoot(t *testing.T) {
	parent := t.TempDir()
	hidden := filepath.Join(parent, ".config-dir")
	if err := os.Mkdir(hidden, 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, hidden, "hook.js", "debugger;")

	rep, err := testEngine(t, nil).Run(context.Background(), []string{hidden})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if rep.FilesScanned != 1 || len(rep.Findings) != 1 {
		t.Errorf("scanned = %d, findings = %d; a hidden walk root must still be linted",
			rep.FilesScanned, len(rep.Findings))
	}

	// Hidden directories below the root stay excluded.
	nested := filepath.Join(hidden, ".cache")
	if err := os.Mkdir(nested, 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, nested, "skip.js", "debugger;")

	rep, err = testEngine(t, nil).Run(context.Background(), []string{hidden})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if rep.FilesScanned != 1 {
		t.Errorf("FilesScanned = %d, want 1 (nested hidden dir skipped)", rep.FilesScanned)
	}
}
