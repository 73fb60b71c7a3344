// Package rules provides the builtin rule set. Every rule implements the
// rule.Rule contract and is registered under a unique identifier; the set
// is pluggable, so callers can register additional rules before resolving.
package rules

import (
	"treelint/internal/rule"
)

// Builtin returns a registry pre-loaded with the builtin rules.
func Builtin() *rule.Registry {
	reg := rule.NewRegistry()
	reg.MustRegister(&NoEval{})
	reg.MustRegister(&NoUnsafeRegex{})
	reg.MustRegister(&NoDebugger{})
	reg.MustRegister(&NoConsole{})
	reg.MustRegister(&NoEmptyBlock{})
	reg.MustRegister(&NoTodoComment{})
	reg.MustRegister(&Eqeqeq{})
	reg.MustRegister(&MaxNestingDepth{})
	reg.MustRegister(&NoShadow{})
	return reg
}
