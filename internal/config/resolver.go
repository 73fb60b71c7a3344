package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"treelint/internal/errors"
	"treelint/internal/rule"
)

// maxExtendsDepth bounds extends chains to catch cycles.
const maxExtendsDepth = 10

// Effective is the fully merged, immutable rule configuration for one run.
type Effective struct {
	// Settings maps rule identifiers to their merged configuration.
	Settings map[string]rule.Setting

	// Warnings lists configuration problems that did not abort the run,
	// such as overrides for unknown rule identifiers.
	Warnings []string

	// MaxWarnings is the warn-finding ceiling; negative means unlimited.
	MaxWarnings int

	// Ignore lists glob patterns for paths excluded from linting.
	Ignore []string

	overrides []resolvedOverride
}

type resolvedOverride struct {
	files []string
	rules map[string]rule.Setting
}

// Resolver merges configuration layers into an Effective config.
// knownIDs is the registry's rule identifier list, used to warn on
// configuration entries that reference unknown rules.
type Resolver struct {
	knownIDs map[string]bool
	logger   *slog.Logger
}

// NewResolver creates a resolver for the given registered rule identifiers.
func NewResolver(knownIDs []string, logger *slog.Logger) *Resolver {
	known := make(map[string]bool, len(knownIDs))
	for _, id := range knownIDs {
		known[id] = true
	}
	return &Resolver{knownIDs: known, logger: logger}
}

// Resolve builds the effective configuration from a loaded file. A nil
// file resolves to the "recommended" preset. Layers apply in order:
// extends targets first (in listed order, each fully resolved), then the
// file's own rule entries. A later layer's entry for a rule fully
// replaces the earlier entry — options do not partially merge.
func (r *Resolver) Resolve(f *File) (*Effective, error) {
	eff := &Effective{
		Settings:    make(map[string]rule.Setting),
		MaxWarnings: -1,
	}

	if f == nil {
		r.applyLayer(eff, Presets["recommended"])
		return eff, nil
	}

	if err := r.applyExtends(eff, f, 0); err != nil {
		return nil, err
	}

	local, err := r.parseRules(eff, f.Rules)
	if err != nil {
		return nil, err
	}
	r.applyLayer(eff, local)

	for _, ov := range f.Overrides {
		rules, err := r.parseRules(eff, ov.Rules)
		if err != nil {
			return nil, err
		}
		eff.overrides = append(eff.overrides, resolvedOverride{
			files: ov.Files,
			rules: rules,
		})
	}

	if f.MaxWarnings != nil {
		eff.MaxWarnings = *f.MaxWarnings
	}
	eff.Ignore = append(eff.Ignore, f.Ignore...)

	return eff, nil
}

// applyExtends resolves each extends target into layers, depth-first, so
// a preset's own extends chain applies before the preset itself.
func (r *Resolver) applyExtends(eff *Effective, f *File, depth int) error {
	if depth >= maxExtendsDepth {
		return errors.Newf(errors.ConfigInvalid,
			"extends chain exceeds %d levels (cycle?)", maxExtendsDepth)
	}

	for _, target := range f.Extends {
		if preset, ok := Presets[target]; ok {
			r.applyLayer(eff, preset)
			continue
		}

		if !isPathTarget(target) {
			return errors.Newf(errors.PresetNotFound,
				"extends target %q is neither a built-in preset (%s) nor a config path",
				target, strings.Join(PresetNames(), ", "))
		}

		path := target
		if !filepath.IsAbs(path) && f.path != "" {
			path = filepath.Join(filepath.Dir(f.path), path)
		}
		nested, err := Load(path)
		if err != nil {
			return errors.New(errors.PresetNotFound,
				fmt.Sprintf("cannot resolve extends target %q", target), err)
		}
		if err := r.applyExtends(eff, nested, depth+1); err != nil {
			return err
		}
		layer, err := r.parseRules(eff, nested.Rules)
		if err != nil {
			return err
		}
		r.applyLayer(eff, layer)
	}

	return nil
}

// parseRules validates a raw rule map. Unknown identifiers become
// configuration warnings instead of aborting the run.
func (r *Resolver) parseRules(eff *Effective, raw map[string]interface{}) (map[string]rule.Setting, error) {
	out := make(map[string]rule.Setting, len(raw))
	for id, value := range raw {
		setting, err := parseSetting(id, value)
		if err != nil {
			return nil, err
		}
		if !r.knownIDs[id] {
			eff.Warnings = append(eff.Warnings,
				fmt.Sprintf("unknown rule %q in configuration", id))
			if r.logger != nil {
				r.logger.Warn("Ignoring configuration for unknown rule", "rule", id)
			}
			continue
		}
		out[id] = setting
	}
	return out, nil
}

// applyLayer merges one layer into the accumulated settings. Last write
// wins per rule identifier.
func (r *Resolver) applyLayer(eff *Effective, layer map[string]rule.Setting) {
	for id, setting := range layer {
		eff.Settings[id] = setting
	}
}

// For returns the settings for one file, with inline per-file overrides
// applied on top of the merged base. The base settings are not mutated.
func (e *Effective) For(path string) map[string]rule.Setting {
	if len(e.overrides) == 0 {
		return e.Settings
	}

	matched := false
	out := make(map[string]rule.Setting, len(e.Settings))
	for id, s := range e.Settings {
		out[id] = s
	}
	for _, ov := range e.overrides {
		if !matchAny(ov.files, path) {
			continue
		}
		matched = true
		for id, s := range ov.rules {
			out[id] = s
		}
	}
	if !matched {
		return e.Settings
	}
	return out
}

// Ignored reports whether a path matches any ignore pattern.
func (e *Effective) Ignored(path string) bool {
	return matchAny(e.Ignore, path)
}

func matchAny(patterns []string, path string) bool {
	base := filepath.Base(path)
	for _, pattern := range patterns {
		if ok, _ := filepath.Match(pattern, path); ok {
			return true
		}
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}
	}
	return false
}

func isPathTarget(target string) bool {
	if strings.HasPrefix(target, "./") || strings.HasPrefix(target, "../") || filepath.IsAbs(target) {
		return true
	}
	switch strings.ToLower(filepath.Ext(target)) {
	case ".json", ".yaml", ".yml", ".toml":
		return true
	}
	return false
}
