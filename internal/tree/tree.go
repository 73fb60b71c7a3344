// Package tree defines the normalized, language-agnostic syntax tree that
// rules traverse. Nodes are built once per parse by the parser adapter and
// are read-only afterwards.
package tree

import (
	"fmt"
)

// Position identifies a point in the source as 1-based line/column.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Range identifies a source span by byte offsets and line/column points.
type Range struct {
	StartByte uint32   `json:"startByte"`
	EndByte   uint32   `json:"endByte"`
	Start     Position `json:"start"`
	End       Position `json:"end"`
}

// Contains reports whether r fully contains other.
func (r Range) Contains(other Range) bool {
	return r.StartByte <= other.StartByte && other.EndByte <= r.EndByte
}

// Overlaps reports whether r and other share any bytes.
func (r Range) Overlaps(other Range) bool {
	return r.StartByte < other.EndByte && other.StartByte < r.EndByte
}

// String renders the range as line:col-line:col.
func (r Range) String() string {
	return fmt.Sprintf("%d:%d-%d:%d", r.Start.Line, r.Start.Column, r.End.Line, r.End.Column)
}

// Node is a single element of the normalized tree. Every node except the
// root has exactly one parent; child ranges are non-overlapping and
// contained within the parent's range.
type Node struct {
	Kind     string            `json:"kind"`
	Range    Range             `json:"range"`
	Children []*Node           `json:"children,omitempty"`
	Attrs    map[string]string `json:"attrs,omitempty"`

	parent *Node
}

// NewNode creates a detached node.
func NewNode(kind string, rng Range) *Node {
	return &Node{Kind: kind, Range: rng}
}

// AddChild appends child to n and sets its parent pointer.
func (n *Node) AddChild(child *Node) {
	child.parent = n
	n.Children = append(n.Children, child)
}

// Parent returns the parent node, or nil for the root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Attr returns a kind-specific attribute such as an identifier name or
// literal value. Missing attributes return "".
func (n *Node) Attr(key string) string {
	if n.Attrs == nil {
		return ""
	}
	return n.Attrs[key]
}

// SetAttr records a kind-specific attribute.
func (n *Node) SetAttr(key, value string) {
	if n.Attrs == nil {
		n.Attrs = make(map[string]string)
	}
	n.Attrs[key] = value
}

// Text returns the source text covered by the node's range.
func (n *Node) Text(source []byte) string {
	if int(n.Range.EndByte) > len(source) || n.Range.StartByte > n.Range.EndByte {
		return ""
	}
	return string(source[n.Range.StartByte:n.Range.EndByte])
}

// ChildByKind returns the first direct child of the given kind, or nil.
func (n *Node) ChildByKind(kind string) *Node {
	for _, c := range n.Children {
		if c.Kind == kind {
			return c
		}
	}
	return nil
}

// Count returns the number of nodes in the subtree rooted at n.
func (n *Node) Count() int {
	total := 1
	for _, c := range n.Children {
		total += c.Count()
	}
	return total
}

// Validate checks the structural invariants of the subtree rooted at n:
// each child has n as parent, child ranges are contained in n's range, and
// sibling ranges do not overlap.
func (n *Node) Validate() error {
	for i, c := range n.Children {
		if c.parent != n {
			return fmt.Errorf("node %q child %d (%q) has wrong parent", n.Kind, i, c.Kind)
		}
		if !n.Range.Contains(c.Range) {
			return fmt.Errorf("node %q child %q range %s escapes parent range %s",
				n.Kind, c.Kind, c.Range, n.Range)
		}
		if i > 0 && n.Children[i-1].Range.Overlaps(c.Range) {
			return fmt.Errorf("node %q children %q and %q overlap",
				n.Kind, n.Children[i-1].Kind, c.Kind)
		}
		if err := c.Validate(); err != nil {
			return err
		}
	}
	return nil
}
