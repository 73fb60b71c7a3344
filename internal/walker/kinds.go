package walker

import (
	"strings"

	"treelint/internal/lang"
)

// ScopeKinds returns the node kinds that introduce a lexical scope for a
// language. Entering one pushes a scope frame before its children are
// visited; leaving it pops the frame.
func ScopeKinds(language lang.Language) []string {
	switch language {
	case lang.Go:
		return []string{
			"function_declaration",
			"method_declaration",
			"func_literal",
			"block",
		}
	case lang.JavaScript, lang.TypeScript, lang.TSX:
		return []string{
			"function_declaration",
			"function_expression",
			"arrow_function",
			"method_definition",
			"class_declaration",
			"statement_block",
		}
	case lang.Python:
		return []string{
			"function_definition",
			"class_definition",
			"lambda",
		}
	case lang.Rust:
		return []string{
			"function_item",
			"closure_expression",
			"block",
		}
	case lang.Java:
		return []string{
			"method_declaration",
			"constructor_declaration",
			"lambda_expression",
			"class_declaration",
			"block",
		}
	case lang.Kotlin:
		return []string{
			"function_declaration",
			"lambda_literal",
			"anonymous_function",
			"class_declaration",
		}
	default:
		return nil
	}
}

// DeclarationKinds returns the node kinds that declare names into the
// current scope. The walker binds the identifier children of these nodes.
func DeclarationKinds(language lang.Language) []string {
	switch language {
	case lang.Go:
		return []string{
			"var_spec",
			"const_spec",
			"short_var_declaration",
			"parameter_declaration",
			"function_declaration",
			"method_declaration",
			"type_spec",
		}
	case lang.JavaScript, lang.TypeScript, lang.TSX:
		return []string{
			"variable_declarator",
			"function_declaration",
			"class_declaration",
			"formal_parameters",
		}
	case lang.Python:
		return []string{
			"function_definition",
			"class_definition",
			"parameters",
		}
	case lang.Rust:
		return []string{
			"let_declaration",
			"function_item",
			"parameter",
		}
	case lang.Java:
		return []string{
			"variable_declarator",
			"method_declaration",
			"formal_parameter",
			"class_declaration",
		}
	case lang.Kotlin:
		return []string{
			"variable_declaration",
			"function_declaration",
			"class_declaration",
			"parameter",
		}
	default:
		return nil
	}
}

func toKindSet(kinds []string) map[string]bool {
	set := make(map[string]bool, len(kinds))
	for _, k := range kinds {
		set[k] = true
	}
	return set
}

func isIdentifierKind(kind string) bool {
	return strings.Contains(kind, "identifier")
}
