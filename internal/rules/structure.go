package rules

import (
	"fmt"

	"treelint/internal/rule"
	"treelint/internal/tree"
)

// NoEmptyBlock flags blocks with no statements.
type NoEmptyBlock struct{}

func (r *NoEmptyBlock) ID() string { return "no-empty-block" }

func (r *NoEmptyBlock) Meta() rule.Meta {
	return rule.Meta{
		Description:     "Disallow empty blocks",
		DefaultSeverity: rule.SeverityWarn,
	}
}

func (r *NoEmptyBlock) Kinds() []string {
	return []string{"statement_block", "block"}
}

func (r *NoEmptyBlock) Check(node *tree.Node, rctx *rule.Context, opts rule.Options) []rule.Finding {
	for _, child := range node.Children {
		// A block holding only comments still counts as empty.
		if child.Kind != "comment" && child.Kind != "line_comment" && child.Kind != "block_comment" {
			return nil
		}
	}

	return []rule.Finding{{
		Message: "Empty block",
		Range:   node.Range,
	}}
}

// MaxNestingDepth limits how deeply control-flow statements nest. The
// ceiling defaults to 4 and is configurable through the "max" option.
type MaxNestingDepth struct{}

func (r *MaxNestingDepth) ID() string { return "max-nesting-depth" }

func (r *MaxNestingDepth) Meta() rule.Meta {
	return rule.Meta{
		Description:     "Limit nesting depth of control-flow statements",
		DefaultSeverity: rule.SeverityWarn,
	}
}

var nestingKinds = map[string]bool{
	"if_statement":       true,
	"if_expression":      true,
	"for_statement":      true,
	"for_expression":     true,
	"for_in_statement":   true,
	"while_statement":    true,
	"while_expression":   true,
	"do_statement":       true,
	"do_while_statement": true,
	"switch_statement":   true,
	"match_expression":   true,
	"when_expression":    true,
	"try_statement":      true,
	"with_statement":     true,
	"select_statement":   true,
	"loop_expression":    true,
}

func (r *MaxNestingDepth) Kinds() []string {
	kinds := make([]string, 0, len(nestingKinds))
	for kind := range nestingKinds {
		kinds = append(kinds, kind)
	}
	return kinds
}

func (r *MaxNestingDepth) Check(node *tree.Node, rctx *rule.Context, opts rule.Options) []rule.Finding {
	max := opts.Int("max", 4)

	depth := 1
	for p := node.Parent(); p != nil; p = p.Parent() {
		if nestingKinds[p.Kind] {
			depth++
		}
	}

	if depth <= max {
		return nil
	}

	return []rule.Finding{{
		Message: fmt.Sprintf("Control flow nested %d levels deep (maximum allowed is %d)", depth, max),
		Range:   node.Range,
	}}
}

// NoShadow flags declarations that shadow a binding from an outer scope.
// It depends on the scope chain the walker maintains.
type NoShadow struct{}

func (r *NoShadow) ID() string { return "no-shadow" }

func (r *NoShadow) Meta() rule.Meta {
	return rule.Meta{
		Description:     "Disallow declarations that shadow outer-scope bindings",
		DefaultSeverity: rule.SeverityWarn,
	}
}

func (r *NoShadow) Kinds() []string {
	return []string{
		"variable_declarator",
		"short_var_declaration",
		"let_declaration",
		"variable_declaration",
	}
}

func (r *NoShadow) Check(node *tree.Node, rctx *rule.Context, opts rule.Options) []rule.Finding {
	var findings []rule.Finding
	for _, child := range node.Children {
		if child.Kind != "identifier" {
			continue
		}
		name := child.Attr("name")
		if name == "" {
			continue
		}
		decl, scope := rctx.LookupOuter(name)
		if decl == nil || decl == node {
			continue
		}
		findings = append(findings, rule.Finding{
			Message: fmt.Sprintf("%q shadows a binding from the enclosing %s scope", name, scope.Kind),
			Range:   child.Range,
		})
	}
	return findings
}
