package rules

import (
	"fmt"
	"strings"

	"treelint/internal/lang"
	"treelint/internal/rule"
	"treelint/internal/tree"
)

// NoDebugger flags debugger statements. The suggested fix removes them.
type NoDebugger struct{}

func (r *NoDebugger) ID() string { return "no-debugger" }

func (r *NoDebugger) Meta() rule.Meta {
	return rule.Meta{
		Description:     "Disallow debugger statements",
		DefaultSeverity: rule.SeverityWarn,
	}
}

func (r *NoDebugger) Kinds() []string {
	return []string{"debugger_statement"}
}

func (r *NoDebugger) Check(node *tree.Node, rctx *rule.Context, opts rule.Options) []rule.Finding {
	return []rule.Finding{{
		Message: "Unexpected debugger statement",
		Range:   node.Range,
		Fix:     &rule.Fix{Range: node.Range, Text: ""},
	}}
}

// NoConsole flags console.* calls in JavaScript-family sources. Methods
// can be exempted through the "allow" option (e.g. ["error"]).
type NoConsole struct{}

func (r *NoConsole) ID() string { return "no-console" }

func (r *NoConsole) Meta() rule.Meta {
	return rule.Meta{
		Description:     "Disallow console method calls",
		DefaultSeverity: rule.SeverityWarn,
	}
}

func (r *NoConsole) Kinds() []string {
	return []string{"call_expression"}
}

func (r *NoConsole) Check(node *tree.Node, rctx *rule.Context, opts rule.Options) []rule.Finding {
	member := node.ChildByKind("member_expression")
	if member == nil || len(member.Children) == 0 {
		return nil
	}

	object := member.Children[0]
	if object.Kind != "identifier" || object.Attr("name") != "console" {
		return nil
	}

	method := ""
	if prop := member.ChildByKind("property_identifier"); prop != nil {
		method = prop.Attr("name")
	}
	for _, allowed := range opts.Strings("allow", nil) {
		if method == allowed {
			return nil
		}
	}

	msg := "Unexpected console call"
	if method != "" {
		msg = fmt.Sprintf("Unexpected console.%s call", method)
	}
	return []rule.Finding{{Message: msg, Range: node.Range}}
}

// NoTodoComment flags TODO and FIXME markers left in comments.
type NoTodoComment struct{}

func (r *NoTodoComment) ID() string { return "no-todo-comment" }

func (r *NoTodoComment) Meta() rule.Meta {
	return rule.Meta{
		Description:     "Disallow TODO and FIXME markers in comments",
		DefaultSeverity: rule.SeverityWarn,
	}
}

func (r *NoTodoComment) Kinds() []string {
	return []string{"comment", "line_comment", "block_comment"}
}

func (r *NoTodoComment) Check(node *tree.Node, rctx *rule.Context, opts rule.Options) []rule.Finding {
	text := node.Text(rctx.Source)
	upper := strings.ToUpper(text)

	marker := ""
	switch {
	case strings.Contains(upper, "TODO"):
		marker = "TODO"
	case strings.Contains(upper, "FIXME"):
		marker = "FIXME"
	default:
		return nil
	}

	return []rule.Finding{{
		Message: fmt.Sprintf("Comment contains a %s marker", marker),
		Range:   node.Range,
	}}
}

// Eqeqeq requires strict equality operators in JavaScript-family sources.
type Eqeqeq struct{}

func (r *Eqeqeq) ID() string { return "eqeqeq" }

func (r *Eqeqeq) Meta() rule.Meta {
	return rule.Meta{
		Description:     "Require === and !== instead of == and !=",
		DefaultSeverity: rule.SeverityWarn,
	}
}

func (r *Eqeqeq) Kinds() []string {
	return []string{"binary_expression"}
}

func (r *Eqeqeq) Check(node *tree.Node, rctx *rule.Context, opts rule.Options) []rule.Finding {
	switch rctx.Language {
	case lang.JavaScript, lang.TypeScript, lang.TSX:
	default:
		// Loose equality only exists in the JavaScript family.
		return nil
	}

	op := node.Attr("operator")
	if op != "==" && op != "!=" {
		return nil
	}

	// Comparisons against null are a common idiom for null-or-undefined.
	if opts.Bool("allowNull", false) {
		for _, child := range node.Children {
			if child.Kind == "null" {
				return nil
			}
		}
	}

	want := "==="
	if op == "!=" {
		want = "!=="
	}
	return []rule.Finding{{
		Message: fmt.Sprintf("Expected %q and instead saw %q", want, op),
		Range:   node.Range,
	}}
}
