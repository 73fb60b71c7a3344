package rule

import (
	stderrors "errors"
	"testing"

	"treelint/internal/errors"
	"treelint/internal/tree"
)

// fakeRule is a minimal rule implementation for registry tests.
type fakeRule struct {
	id       string
	severity Severity
	kinds    []string
}

func (f *fakeRule) ID() string      { return f.id }
func (f *fakeRule) Kinds() []string { return f.kinds }
func (f *fakeRule) Meta() Meta {
	return Meta{Description: "fake", DefaultSeverity: f.severity}
}
func (f *fakeRule) Check(node *tree.Node, rctx *Context, opts Options) []Finding {
	return nil
}

func TestRegister_Duplicate(t *testing.T) {
	reg := NewRegistry()

	if err := reg.Register(&fakeRule{id: "no-eval", severity: SeverityError}); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}

	err := reg.Register(&fakeRule{id: "no-eval", severity: SeverityWarn})
	if err == nil {
		t.Fatal("duplicate Register should fail")
	}

	var lintErr *errors.LintError
	if !stderrors.As(err, &lintErr) || lintErr.Code != errors.DuplicateRule {
		t.Errorf("error = %v, want DUPLICATE_RULE", err)
	}

	// No partial state: the original registration must be intact.
	if reg.Len() != 1 {
		t.Errorf("Len() = %d, want 1", reg.Len())
	}
	got, ok := reg.Get("no-eval")
	if !ok || got.Meta().DefaultSeverity != SeverityError {
		t.Error("original registration should be preserved after duplicate attempt")
	}
}

func TestResolve(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister(&fakeRule{id: "no-eval", severity: SeverityError, kinds: []string{"call_expression"}})
	reg.MustRegister(&fakeRule{id: "no-debugger", severity: SeverityWarn, kinds: []string{"debugger_statement"}})
	reg.MustRegister(&fakeRule{id: "eqeqeq", severity: SeverityWarn, kinds: []string{"binary_expression"}})

	effective := map[string]Setting{
		"no-debugger": {Severity: SeverityOff},
		"eqeqeq":      {Severity: SeverityError, Options: Options{"allowNull": true}},
	}

	set := reg.Resolve(effective)

	if set.Len() != 2 {
		t.Fatalf("Len() = %d, want 2 (no-debugger is off)", set.Len())
	}

	// Ordered by rule identifier.
	if set.Rules[0].Rule.ID() != "eqeqeq" || set.Rules[1].Rule.ID() != "no-eval" {
		t.Errorf("resolved order = [%s, %s], want [eqeqeq, no-eval]",
			set.Rules[0].Rule.ID(), set.Rules[1].Rule.ID())
	}

	// Overridden severity and options applied.
	if set.Rules[0].Severity != SeverityError {
		t.Errorf("eqeqeq severity = %s, want error", set.Rules[0].Severity)
	}
	if !set.Rules[0].Options.Bool("allowNull", false) {
		t.Error("eqeqeq options should carry allowNull=true")
	}

	// Default severity applies when there is no config entry.
	if set.Rules[1].Severity != SeverityError {
		t.Errorf("no-eval severity = %s, want default error", set.Rules[1].Severity)
	}
}

func TestResolve_KindIndex(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister(&fakeRule{id: "a", severity: SeverityWarn, kinds: []string{"call_expression", "binary_expression"}})
	reg.MustRegister(&fakeRule{id: "b", severity: SeverityWarn, kinds: []string{"call_expression"}})

	set := reg.Resolve(nil)

	calls := set.ForKind("call_expression")
	if len(calls) != 2 {
		t.Errorf("ForKind(call_expression) = %d rules, want 2", len(calls))
	}
	bins := set.ForKind("binary_expression")
	if len(bins) != 1 || bins[0].Rule.ID() != "a" {
		t.Errorf("ForKind(binary_expression) should contain only rule a")
	}
	if got := set.ForKind("if_statement"); len(got) != 0 {
		t.Errorf("ForKind(if_statement) = %d rules, want 0", len(got))
	}
}

func TestOptions_Getters(t *testing.T) {
	opts := Options{
		"max":     float64(3), // JSON numbers decode as float64
		"mode":    "strict",
		"enable":  true,
		"targets": []interface{}{"eval", "Function"},
	}

	if got := opts.Int("max", 1); got != 3 {
		t.Errorf("Int(max) = %d, want 3", got)
	}
	if got := opts.Int("missing", 7); got != 7 {
		t.Errorf("Int(missing) = %d, want default 7", got)
	}
	if got := opts.String("mode", ""); got != "strict" {
		t.Errorf("String(mode) = %q, want strict", got)
	}
	if !opts.Bool("enable", false) {
		t.Error("Bool(enable) = false, want true")
	}
	targets := opts.Strings("targets", nil)
	if len(targets) != 2 || targets[0] != "eval" {
		t.Errorf("Strings(targets) = %v, want [eval Function]", targets)
	}
}
