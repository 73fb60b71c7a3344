package rule

import (
	"sort"

	"treelint/internal/errors"
)

// Registry maps rule identifiers to implementations.
type Registry struct {
	rules map[string]Rule
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		rules: make(map[string]Rule),
	}
}

// Register adds a rule under its identifier. Registering a duplicate
// identifier fails and leaves the registry unchanged.
func (r *Registry) Register(rule Rule) error {
	if _, exists := r.rules[rule.ID()]; exists {
		return errors.Newf(errors.DuplicateRule, "rule %q is already registered", rule.ID())
	}
	r.rules[rule.ID()] = rule
	return nil
}

// MustRegister registers a rule and panics on duplicates. Used for the
// builtin rule set where duplicates are a programming error.
func (r *Registry) MustRegister(rule Rule) {
	if err := r.Register(rule); err != nil {
		panic(err)
	}
}

// Get returns the rule registered under id.
func (r *Registry) Get(id string) (Rule, bool) {
	rule, ok := r.rules[id]
	return rule, ok
}

// IDs returns all registered rule identifiers in ascending order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.rules))
	for id := range r.rules {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of registered rules.
func (r *Registry) Len() int {
	return len(r.rules)
}

// ResolvedRule pairs a rule with its effective severity and options.
type ResolvedRule struct {
	Rule     Rule
	Severity Severity
	Options  Options
}

// ResolvedSet is the outcome of applying an effective configuration to a
// registry: the enabled rules in identifier order, plus an index from node
// kind to the rules interested in that kind. Built once per run.
type ResolvedSet struct {
	Rules  []ResolvedRule
	byKind map[string][]*ResolvedRule
}

// Resolve returns the set of enabled rules for the given effective
// configuration. Rules without a configuration entry use their default
// severity; rules set to off are excluded entirely.
func (r *Registry) Resolve(effective map[string]Setting) *ResolvedSet {
	set := &ResolvedSet{
		byKind: make(map[string][]*ResolvedRule),
	}

	for _, id := range r.IDs() {
		rl := r.rules[id]

		severity := rl.Meta().DefaultSeverity
		var opts Options
		if cfg, ok := effective[id]; ok {
			severity = cfg.Severity
			opts = cfg.Options
		}
		if severity == SeverityOff {
			continue
		}

		set.Rules = append(set.Rules, ResolvedRule{
			Rule:     rl,
			Severity: severity,
			Options:  opts,
		})
	}

	// Index interest by node kind once, so the walker never dispatches a
	// node to a rule that did not subscribe to its kind.
	for i := range set.Rules {
		resolved := &set.Rules[i]
		for _, kind := range resolved.Rule.Kinds() {
			set.byKind[kind] = append(set.byKind[kind], resolved)
		}
	}

	return set
}

// ForKind returns the enabled rules subscribed to a node kind.
func (s *ResolvedSet) ForKind(kind string) []*ResolvedRule {
	return s.byKind[kind]
}

// Len returns the number of enabled rules.
func (s *ResolvedSet) Len() int {
	return len(s.Rules)
}
