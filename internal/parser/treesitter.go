//go:build cgo

package parser

import (
	"context"
	"fmt"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/kotlin"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"treelint/internal/errors"
	"treelint/internal/lang"
	"treelint/internal/tree"
)

// Parser wraps tree-sitter for multi-language parsing and normalizes the
// resulting syntax tree into the treelint tree model. A sitter.Parser is a
// single C TSParser with no locking, so instances are pooled and each Parse
// call owns one exclusively; one Parser is safe for concurrent use.
type Parser struct {
	pool sync.Pool
}

// New creates a new tree-sitter backed parser.
func New() *Parser {
	return &Parser{
		pool: sync.Pool{
			New: func() interface{} { return sitter.NewParser() },
		},
	}
}

// IsAvailable returns whether tree-sitter parsing is available.
func IsAvailable() bool {
	return true
}

// Parse parses source code and returns the normalized tree root.
// A syntax error anywhere in the source is reported as a ParseFailed
// error; callers skip the file and continue the batch.
func (p *Parser) Parse(ctx context.Context, source []byte, language lang.Language) (*tree.Node, error) {
	tsLang, err := getLanguage(language)
	if err != nil {
		return nil, err
	}

	tsParser := p.pool.Get().(*sitter.Parser)
	defer p.pool.Put(tsParser)

	tsParser.SetLanguage(tsLang)
	parsed, err := tsParser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, errors.New(errors.ParseFailed, "parse error", err)
	}

	root := parsed.RootNode()
	if root.HasError() {
		pos := firstErrorPosition(root)
		return nil, errors.Newf(errors.ParseFailed, "syntax error at %s", pos)
	}

	return normalize(root, source), nil
}

// getLanguage returns the tree-sitter Language for a given language identifier.
func getLanguage(language lang.Language) (*sitter.Language, error) {
	switch language {
	case lang.Go:
		return golang.GetLanguage(), nil
	case lang.JavaScript:
		return javascript.GetLanguage(), nil
	case lang.TypeScript:
		return typescript.GetLanguage(), nil
	case lang.TSX:
		return tsx.GetLanguage(), nil
	case lang.Python:
		return python.GetLanguage(), nil
	case lang.Rust:
		return rust.GetLanguage(), nil
	case lang.Java:
		return java.GetLanguage(), nil
	case lang.Kotlin:
		return kotlin.GetLanguage(), nil
	default:
		return nil, errors.Newf(errors.LanguageUnknown, "unsupported language: %s", language)
	}
}

// normalize converts a tree-sitter node into the normalized tree model.
// Only named nodes become tree nodes; anonymous children are consulted for
// kind-specific attributes (operator text) and then dropped.
func normalize(n *sitter.Node, source []byte) *tree.Node {
	node := tree.NewNode(n.Type(), toRange(n))
	extractAttrs(node, n, source)

	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child == nil {
			continue
		}
		node.AddChild(normalize(child, source))
	}

	return node
}

// toRange converts tree-sitter byte offsets and points (0-based rows) into
// a Range with 1-based line/column positions.
func toRange(n *sitter.Node) tree.Range {
	return tree.Range{
		StartByte: n.StartByte(),
		EndByte:   n.EndByte(),
		Start: tree.Position{
			Line:   int(n.StartPoint().Row) + 1,
			Column: int(n.StartPoint().Column) + 1,
		},
		End: tree.Position{
			Line:   int(n.EndPoint().Row) + 1,
			Column: int(n.EndPoint().Column) + 1,
		},
	}
}

// extractAttrs captures kind-specific attributes from the raw node.
func extractAttrs(node *tree.Node, n *sitter.Node, source []byte) {
	kind := n.Type()
	switch {
	case strings.Contains(kind, "identifier"):
		node.SetAttr("name", nodeText(n, source))
	case strings.Contains(kind, "string") || strings.Contains(kind, "number") ||
		kind == "integer" || kind == "float" || kind == "true" || kind == "false" ||
		kind == "regex" || kind == "regex_literal":
		node.SetAttr("value", nodeText(n, source))
	case kind == "binary_expression" || kind == "boolean_operator" || kind == "binary_operator":
		// The operator is an anonymous child between the operands.
		for i := 0; i < int(n.ChildCount()); i++ {
			child := n.Child(i)
			if child == nil || child.IsNamed() {
				continue
			}
			node.SetAttr("operator", nodeText(child, source))
			break
		}
	}
}

func nodeText(n *sitter.Node, source []byte) string {
	start, end := n.StartByte(), n.EndByte()
	if int(end) > len(source) || start > end {
		return ""
	}
	return string(source[start:end])
}

// firstErrorPosition locates the first ERROR or MISSING node for error reporting.
func firstErrorPosition(n *sitter.Node) string {
	if n.IsError() || n.IsMissing() {
		return fmt.Sprintf("%d:%d", n.StartPoint().Row+1, n.StartPoint().Column+1)
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		if child.HasError() {
			return firstErrorPosition(child)
		}
	}
	return fmt.Sprintf("%d:%d", n.StartPoint().Row+1, n.StartPoint().Column+1)
}
