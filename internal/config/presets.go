package config

import (
	"treelint/internal/rule"
)

// Presets are the named built-in configuration layers an extends entry can
// reference.
var Presets = map[string]map[string]rule.Setting{
	"recommended": {
		"no-eval":         {Severity: rule.SeverityError},
		"no-unsafe-regex": {Severity: rule.SeverityError},
		"no-debugger":     {Severity: rule.SeverityWarn},
		"no-empty-block":  {Severity: rule.SeverityWarn},
		"no-console":      {Severity: rule.SeverityWarn},
		"eqeqeq":          {Severity: rule.SeverityWarn},
	},
	"strict": {
		"no-eval":           {Severity: rule.SeverityError},
		"no-unsafe-regex":   {Severity: rule.SeverityError},
		"no-debugger":       {Severity: rule.SeverityError},
		"no-empty-block":    {Severity: rule.SeverityError},
		"no-console":        {Severity: rule.SeverityError},
		"eqeqeq":            {Severity: rule.SeverityError},
		"no-shadow":         {Severity: rule.SeverityError},
		"no-todo-comment":   {Severity: rule.SeverityWarn},
		"max-nesting-depth": {Severity: rule.SeverityWarn, Options: rule.Options{"max": 3}},
	},
}

// PresetNames returns the built-in preset identifiers.
func PresetNames() []string {
	return []string{"recommended", "strict"}
}
