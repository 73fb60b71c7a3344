// Package rule defines the rule contract, the per-traversal context, and
// the registry that maps rule identifiers to implementations.
package rule

import (
	"treelint/internal/tree"
)

// Severity controls reporting and exit-code impact for a rule.
type Severity string

const (
	SeverityOff   Severity = "off"
	SeverityWarn  Severity = "warn"
	SeverityError Severity = "error"
)

// Valid reports whether s is one of off, warn, error.
func (s Severity) Valid() bool {
	switch s {
	case SeverityOff, SeverityWarn, SeverityError:
		return true
	}
	return false
}

// Weight returns a numeric weight for sorting. Higher sorts first.
func (s Severity) Weight() int {
	switch s {
	case SeverityError:
		return 2
	case SeverityWarn:
		return 1
	default:
		return 0
	}
}

// Fix is a suggested text replacement for a range.
type Fix struct {
	Range tree.Range `json:"range"`
	Text  string     `json:"text"`
}

// Finding is a single reported issue. Immutable once created.
type Finding struct {
	RuleID   string     `json:"ruleId"`
	Severity Severity   `json:"severity"`
	Message  string     `json:"message"`
	File     string     `json:"file"`
	Range    tree.Range `json:"range"`
	Fix      *Fix       `json:"fix,omitempty"`
}

// Meta describes a rule for listings and SARIF rule tables.
type Meta struct {
	Description     string   `json:"description"`
	DefaultSeverity Severity `json:"defaultSeverity"`
	DocURI          string   `json:"docUri,omitempty"`
}

// Options holds rule-specific configuration values.
type Options map[string]interface{}

// Int returns an integer option, falling back to def when absent or mistyped.
func (o Options) Int(key string, def int) int {
	switch v := o[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return def
}

// String returns a string option, falling back to def when absent.
func (o Options) String(key, def string) string {
	if v, ok := o[key].(string); ok {
		return v
	}
	return def
}

// Bool returns a boolean option, falling back to def when absent.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key].(bool); ok {
		return v
	}
	return def
}

// Strings returns a string-slice option, falling back to def when absent.
func (o Options) Strings(key string, def []string) []string {
	switch v := o[key].(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return def
}

// Rule inspects tree nodes and produces findings. Implementations hold no
// mutable state across invocations within one traversal.
type Rule interface {
	// ID returns the unique rule identifier.
	ID() string

	// Meta returns the rule's description and default severity.
	Meta() Meta

	// Kinds returns the node kinds the rule subscribes to.
	Kinds() []string

	// Check evaluates a single node. The context is read-only; the only
	// output is the returned findings.
	Check(node *tree.Node, rctx *Context, opts Options) []Finding
}

// Setting is the effective configuration entry for one rule.
type Setting struct {
	Severity Severity `json:"severity"`
	Options  Options  `json:"options,omitempty"`
}
