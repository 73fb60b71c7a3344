// Package config loads treelint configuration files and resolves layered
// configs (defaults, extended presets, local overrides, per-file inline
// overrides) into one immutable effective rule set per run.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"

	"treelint/internal/errors"
	"treelint/internal/rule"
)

// File is the decoded form of one configuration file. Rule values accept
// either a bare severity string ("error") or a full entry with options.
type File struct {
	Extends     []string               `json:"extends" mapstructure:"extends"`
	Rules       map[string]interface{} `json:"rules" mapstructure:"rules"`
	Overrides   []Override             `json:"overrides" mapstructure:"overrides"`
	MaxWarnings *int                   `json:"maxWarnings" mapstructure:"maxWarnings"`
	Ignore      []string               `json:"ignore" mapstructure:"ignore"`

	// path is where the file was loaded from; relative extends targets
	// resolve against its directory.
	path string
}

// Override applies rule entries to files matching any of the glob patterns.
type Override struct {
	Files []string               `json:"files" mapstructure:"files"`
	Rules map[string]interface{} `json:"rules" mapstructure:"rules"`
}

// DefaultNames lists the config file names probed in a directory, in order.
func DefaultNames() []string {
	return []string{
		".treelint.json",
		".treelint.yaml",
		".treelint.yml",
		".treelint.toml",
	}
}

// Discover finds the first config file present in dir, or "" when none exists.
func Discover(dir string) string {
	for _, name := range DefaultNames() {
		candidate := filepath.Join(dir, name)
		v := viper.New()
		v.SetConfigFile(candidate)
		if err := v.ReadInConfig(); err == nil {
			return candidate
		}
		// TOML is not probed through viper; fall through to Load.
		if strings.HasSuffix(name, ".toml") {
			if _, err := toml.DecodeFile(candidate, &File{}); err == nil {
				return candidate
			}
		}
	}
	return ""
}

// Load reads and decodes a configuration file. JSON and YAML go through
// viper; TOML is decoded directly.
func Load(path string) (*File, error) {
	var f File

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.DecodeFile(path, &f); err != nil {
			return nil, errors.New(errors.ConfigInvalid, fmt.Sprintf("cannot decode %s", path), err)
		}
	default:
		v := viper.New()
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.New(errors.ConfigInvalid, fmt.Sprintf("cannot read %s", path), err)
		}
		if err := v.Unmarshal(&f); err != nil {
			return nil, errors.New(errors.ConfigInvalid, fmt.Sprintf("cannot decode %s", path), err)
		}
	}

	f.path = path
	return &f, nil
}

// parseSetting normalizes a raw rule value into a validated setting.
// Accepted shapes: "error" (severity shorthand) or
// {severity: "warn", options: {...}}.
func parseSetting(id string, raw interface{}) (rule.Setting, error) {
	switch v := raw.(type) {
	case string:
		sev := rule.Severity(strings.ToLower(v))
		if !sev.Valid() {
			return rule.Setting{}, errors.Newf(errors.OptionSchemaViolation,
				"rule %q: severity must be one of off, warn, error (got %q)", id, v)
		}
		return rule.Setting{Severity: sev}, nil

	case map[string]interface{}:
		entry := rule.Setting{Severity: rule.SeverityWarn}

		if rawSev, ok := v["severity"]; ok {
			s, ok := rawSev.(string)
			if !ok {
				return rule.Setting{}, errors.Newf(errors.OptionSchemaViolation,
					"rule %q: severity must be a string", id)
			}
			sev := rule.Severity(strings.ToLower(s))
			if !sev.Valid() {
				return rule.Setting{}, errors.Newf(errors.OptionSchemaViolation,
					"rule %q: severity must be one of off, warn, error (got %q)", id, s)
			}
			entry.Severity = sev
		}

		if rawOpts, ok := v["options"]; ok {
			opts, ok := rawOpts.(map[string]interface{})
			if !ok {
				return rule.Setting{}, errors.Newf(errors.OptionSchemaViolation,
					"rule %q: options must be a mapping", id)
			}
			entry.Options = rule.Options(opts)
		}

		return entry, nil

	default:
		return rule.Setting{}, errors.Newf(errors.OptionSchemaViolation,
			"rule %q: entry must be a severity string or a mapping", id)
	}
}
