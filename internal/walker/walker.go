// Package walker performs a single pre-order traversal of a normalized
// tree, dispatching each node to the enabled rules subscribed to its kind.
package walker

import (
	"fmt"
	"log/slog"

	"treelint/internal/rule"
	"treelint/internal/tree"
)

// CrashRuleID tags findings synthesized when a rule panics during
// evaluation. One buggy rule must not suppress all other findings.
const CrashRuleID = "internal/rule-crash"

// Walker traverses a tree once per file. It is stateless between files;
// per-traversal state lives on the rule.Context.
type Walker struct {
	logger *slog.Logger
}

// New creates a walker.
func New(logger *slog.Logger) *Walker {
	return &Walker{logger: logger}
}

// Walk visits every node exactly once in pre-order, maintains the scope
// chain on the context, and returns all findings produced by the resolved
// rule set. Scope pushes and pops stay balanced even when a rule panics.
func (w *Walker) Walk(rctx *rule.Context, set *rule.ResolvedSet) []rule.Finding {
	scopeKinds := toKindSet(ScopeKinds(rctx.Language))
	declKinds := toKindSet(DeclarationKinds(rctx.Language))

	var findings []rule.Finding
	w.visit(rctx.Root, rctx, set, scopeKinds, declKinds, &findings)
	return findings
}

func (w *Walker) visit(node *tree.Node, rctx *rule.Context, set *rule.ResolvedSet,
	scopeKinds, declKinds map[string]bool, findings *[]rule.Finding) {

	if scopeKinds[node.Kind] {
		rctx.PushScope(node)
		defer rctx.PopScope()
	}
	if declKinds[node.Kind] {
		w.bindDeclarations(node, rctx)
	}

	for _, resolved := range set.ForKind(node.Kind) {
		*findings = append(*findings, w.check(resolved, node, rctx)...)
	}

	for _, child := range node.Children {
		w.visit(child, rctx, set, scopeKinds, declKinds, findings)
	}
}

// bindDeclarations records the identifier children of a declaration node
// in the innermost scope.
func (w *Walker) bindDeclarations(node *tree.Node, rctx *rule.Context) {
	for _, child := range node.Children {
		if !isIdentifierKind(child.Kind) {
			continue
		}
		name := child.Attr("name")
		if name == "" {
			name = child.Text(rctx.Source)
		}
		rctx.Bind(name, node)
	}
}

// check invokes one rule on one node, isolating panics. A panic becomes a
// single crash finding tagged with the offending rule identifier, and the
// traversal continues.
func (w *Walker) check(resolved *rule.ResolvedRule, node *tree.Node, rctx *rule.Context) (out []rule.Finding) {
	id := resolved.Rule.ID()

	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("Rule panicked during evaluation",
				"rule", id,
				"file", rctx.File,
				"kind", node.Kind,
				"panic", fmt.Sprint(r))
			out = []rule.Finding{{
				RuleID:   CrashRuleID,
				Severity: rule.SeverityError,
				Message:  fmt.Sprintf("rule %q crashed on %s node: %v", id, node.Kind, r),
				File:     rctx.File,
				Range:    node.Range,
			}}
		}
	}()

	raw := resolved.Rule.Check(node, rctx, resolved.Options)
	if len(raw) == 0 {
		return nil
	}

	// Rules supply message, range, and fix; identity, severity, and file
	// attribution come from the resolved configuration.
	out = make([]rule.Finding, 0, len(raw))
	for _, f := range raw {
		f.RuleID = id
		f.Severity = resolved.Severity
		f.File = rctx.File
		out = append(out, f)
	}
	return out
}
