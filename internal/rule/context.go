package rule

import (
	"treelint/internal/lang"
	"treelint/internal/tree"
)

// Scope is a single lexical binding frame. Frames are pushed when the
// walker enters a scope-introducing node and popped when it leaves.
type Scope struct {
	// Kind is the node kind that introduced the scope.
	Kind string

	// Node is the scope-introducing node.
	Node *tree.Node

	// Bindings maps declared names to their declaration nodes.
	Bindings map[string]*tree.Node
}

// Context carries per-traversal read-only data: the full tree, file
// metadata, and the current scope chain. Rules never mutate it; the
// walker maintains the scope chain between rule invocations.
type Context struct {
	Root     *tree.Node
	File     string
	Language lang.Language
	Source   []byte

	scopes []*Scope
}

// NewContext creates a context for one file traversal with a root scope.
func NewContext(root *tree.Node, file string, language lang.Language, source []byte) *Context {
	return &Context{
		Root:     root,
		File:     file,
		Language: language,
		Source:   source,
		scopes: []*Scope{{
			Kind:     "file",
			Node:     root,
			Bindings: make(map[string]*tree.Node),
		}},
	}
}

// PushScope enters a new scope frame. Called by the walker only.
func (c *Context) PushScope(node *tree.Node) {
	c.scopes = append(c.scopes, &Scope{
		Kind:     node.Kind,
		Node:     node,
		Bindings: make(map[string]*tree.Node),
	})
}

// PopScope leaves the innermost scope frame. Called by the walker only.
// The root file scope is never popped.
func (c *Context) PopScope() {
	if len(c.scopes) > 1 {
		c.scopes = c.scopes[:len(c.scopes)-1]
	}
}

// Bind records a declared name in the innermost scope. Called by the
// walker when it visits a declaration node.
func (c *Context) Bind(name string, decl *tree.Node) {
	if name == "" {
		return
	}
	c.scopes[len(c.scopes)-1].Bindings[name] = decl
}

// ScopeDepth returns the number of active scope frames, including the
// root file scope.
func (c *Context) ScopeDepth() int {
	return len(c.scopes)
}

// CurrentScope returns the innermost scope frame.
func (c *Context) CurrentScope() *Scope {
	return c.scopes[len(c.scopes)-1]
}

// Lookup resolves a name through the scope chain, innermost first.
// It returns the declaration node and the frame that binds it.
func (c *Context) Lookup(name string) (*tree.Node, *Scope) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if decl, ok := c.scopes[i].Bindings[name]; ok {
			return decl, c.scopes[i]
		}
	}
	return nil, nil
}

// LookupOuter resolves a name in any frame other than the innermost one.
// Used by shadowing checks.
func (c *Context) LookupOuter(name string) (*tree.Node, *Scope) {
	for i := len(c.scopes) - 2; i >= 0; i-- {
		if decl, ok := c.scopes[i].Bindings[name]; ok {
			return decl, c.scopes[i]
		}
	}
	return nil, nil
}
