package main

import (
	"testing"

	"treelint/internal/config"
	"treelint/internal/rule"
	"treelint/internal/rules"
	"treelint/internal/slogutil"
)

// The rules listing and Registry.Resolve must agree: a rule shows as off
// exactly when a run would skip it, and otherwise shows the severity the
// walker would stamp on its findings.
func TestEffectiveSeverity_AgreesWithResolve(t *testing.T) {
	registry := rules.Builtin()
	resolver := config.NewResolver(registry.IDs(), slogutil.NewDiscardLogger())

	configs := map[string]*config.File{
		"default recommended": nil,
		"strict preset":       {Extends: []string{"strict"}},
		"local off": {
			Extends: []string{"recommended"},
			Rules:   map[string]interface{}{"no-eval": "off"},
		},
	}

	for name, f := range configs {
		t.Run(name, func(t *testing.T) {
			eff, err := resolver.Resolve(f)
			if err != nil {
				t.Fatalf("Resolve failed: %v", err)
			}

			set := registry.Resolve(eff.Settings)
			resolved := make(map[string]rule.Severity, set.Len())
			for _, rr := range set.Rules {
				resolved[rr.Rule.ID()] = rr.Severity
			}

			for _, id := range registry.IDs() {
				r, _ := registry.Get(id)
				listed := effectiveSeverity(eff, r)

				got, enabled := resolved[id]
				if !enabled {
					if listed != rule.SeverityOff {
						t.Errorf("%s: listed as %s but a run would skip it", id, listed)
					}
					continue
				}
				if listed != got {
					t.Errorf("%s: listed as %s but runs at %s", id, listed, got)
				}
			}
		})
	}
}
