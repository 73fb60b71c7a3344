package rules

import (
	"fmt"
	"regexp"
	"strings"

	"treelint/internal/rule"
	"treelint/internal/tree"
)

// NoEval flags calls to dynamic code evaluation entry points such as
// eval() or exec(). Additional callee names can be supplied through the
// "targets" option.
type NoEval struct{}

func (r *NoEval) ID() string { return "no-eval" }

func (r *NoEval) Meta() rule.Meta {
	return rule.Meta{
		Description:     "Disallow dynamic code evaluation (eval and friends)",
		DefaultSeverity: rule.SeverityError,
	}
}

func (r *NoEval) Kinds() []string {
	// "call" is the Python call kind; the others cover the C-family grammars.
	return []string{"call_expression", "call"}
}

func (r *NoEval) Check(node *tree.Node, rctx *rule.Context, opts rule.Options) []rule.Finding {
	targets := map[string]bool{"eval": true, "exec": true, "execfile": true, "Function": true}
	for _, extra := range opts.Strings("targets", nil) {
		targets[extra] = true
	}

	callee := calleeName(node)
	if callee == "" || !targets[callee] {
		return nil
	}

	return []rule.Finding{{
		Message: fmt.Sprintf("Unexpected call to %q; dynamic evaluation of source is unsafe", callee),
		Range:   node.Range,
	}}
}

// nestedQuantifier spots a quantified group that is itself quantified,
// e.g. (a+)+ or (a*)*, the classic catastrophic backtracking shape.
var nestedQuantifier = regexp.MustCompile(`\([^()]*[+*][^()]*\)[+*{]`)

// NoUnsafeRegex flags regular expression literals vulnerable to
// catastrophic backtracking.
type NoUnsafeRegex struct{}

func (r *NoUnsafeRegex) ID() string { return "no-unsafe-regex" }

func (r *NoUnsafeRegex) Meta() rule.Meta {
	return rule.Meta{
		Description:     "Disallow regular expressions prone to catastrophic backtracking",
		DefaultSeverity: rule.SeverityError,
	}
}

func (r *NoUnsafeRegex) Kinds() []string {
	return []string{"regex", "regex_literal"}
}

func (r *NoUnsafeRegex) Check(node *tree.Node, rctx *rule.Context, opts rule.Options) []rule.Finding {
	pattern := node.Attr("value")
	if pattern == "" {
		pattern = node.Text(rctx.Source)
	}
	pattern = strings.Trim(pattern, "/")

	if !nestedQuantifier.MatchString(pattern) {
		return nil
	}

	return []rule.Finding{{
		Message: "Regular expression contains a nested quantifier and may backtrack catastrophically",
		Range:   node.Range,
	}}
}

// calleeName extracts the called identifier from a call node, looking
// through the direct identifier child.
func calleeName(node *tree.Node) string {
	for _, child := range node.Children {
		if strings.Contains(child.Kind, "identifier") {
			return child.Attr("name")
		}
	}
	return ""
}
