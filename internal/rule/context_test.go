package rule

import (
	"testing"

	"treelint/internal/lang"
	"treelint/internal/tree"
)

func newTestContext() (*Context, *tree.Node) {
	root := tree.NewNode("program", tree.Range{StartByte: 0, EndByte: 100})
	return NewContext(root, "main.js", lang.JavaScript, nil), root
}

func TestContext_ScopeChain(t *testing.T) {
	ctx, root := newTestContext()

	if ctx.ScopeDepth() != 1 {
		t.Fatalf("initial ScopeDepth() = %d, want 1 (file scope)", ctx.ScopeDepth())
	}

	fn := tree.NewNode("function_declaration", tree.Range{StartByte: 0, EndByte: 50})
	root.AddChild(fn)

	ctx.PushScope(fn)
	if ctx.ScopeDepth() != 2 {
		t.Errorf("ScopeDepth() after push = %d, want 2", ctx.ScopeDepth())
	}
	if ctx.CurrentScope().Kind != "function_declaration" {
		t.Errorf("CurrentScope().Kind = %q", ctx.CurrentScope().Kind)
	}

	ctx.PopScope()
	if ctx.ScopeDepth() != 1 {
		t.Errorf("ScopeDepth() after pop = %d, want 1", ctx.ScopeDepth())
	}
}

func TestContext_RootScopeNeverPopped(t *testing.T) {
	ctx, _ := newTestContext()

	ctx.PopScope()
	ctx.PopScope()

	if ctx.ScopeDepth() != 1 {
		t.Errorf("ScopeDepth() = %d, want 1 (file scope is permanent)", ctx.ScopeDepth())
	}
}

func TestContext_Lookup(t *testing.T) {
	ctx, root := newTestContext()

	outerDecl := tree.NewNode("variable_declarator", tree.Range{StartByte: 0, EndByte: 10})
	ctx.Bind("x", outerDecl)

	fn := tree.NewNode("function_declaration", tree.Range{StartByte: 20, EndByte: 80})
	root.AddChild(fn)
	ctx.PushScope(fn)

	innerDecl := tree.NewNode("variable_declarator", tree.Range{StartByte: 30, EndByte: 40})
	ctx.Bind("x", innerDecl)
	ctx.Bind("y", innerDecl)

	// Innermost binding wins.
	decl, scope := ctx.Lookup("x")
	if decl != innerDecl || scope.Kind != "function_declaration" {
		t.Error("Lookup(x) should resolve to the inner binding")
	}

	// Outer-only lookup skips the innermost frame.
	decl, scope = ctx.LookupOuter("x")
	if decl != outerDecl || scope.Kind != "file" {
		t.Error("LookupOuter(x) should resolve to the file-scope binding")
	}

	if decl, _ := ctx.LookupOuter("y"); decl != nil {
		t.Error("LookupOuter(y) should miss; y is bound only in the inner frame")
	}

	// Popping the scope drops its bindings.
	ctx.PopScope()
	decl, _ = ctx.Lookup("x")
	if decl != outerDecl {
		t.Error("after pop, Lookup(x) should resolve to the outer binding")
	}
	if decl, _ := ctx.Lookup("y"); decl != nil {
		t.Error("after pop, Lookup(y) should miss")
	}
}

func TestContext_BindEmptyName(t *testing.T) {
	ctx, _ := newTestContext()
	ctx.Bind("", tree.NewNode("variable_declarator", tree.Range{}))

	if len(ctx.CurrentScope().Bindings) != 0 {
		t.Error("empty names must not be bound")
	}
}
