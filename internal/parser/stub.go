//go:build !cgo

package parser

import (
	"context"

	"treelint/internal/errors"
	"treelint/internal/lang"
	"treelint/internal/tree"
)

// Parser parses source files into the normalized tree model.
// This is a stub implementation for non-CGO builds.
type Parser struct{}

// New creates a new parser. Parsing is unavailable without CGO.
func New() *Parser {
	return &Parser{}
}

// IsAvailable returns whether tree-sitter parsing is available.
// Returns false when CGO is disabled.
func IsAvailable() bool {
	return false
}

// Parse always fails without CGO (tree-sitter requires it).
func (p *Parser) Parse(ctx context.Context, source []byte, language lang.Language) (*tree.Node, error) {
	return nil, errors.Newf(errors.InternalError, "parsing requires CGO (tree-sitter)")
}
