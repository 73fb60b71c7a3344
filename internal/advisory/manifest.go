package advisory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	gotoml "github.com/pelletier/go-toml/v2"

	"treelint/internal/errors"
)

// Dependency is one declared package from a project manifest.
type Dependency struct {
	Ecosystem string
	Name      string
	Version   string
}

// Manifest is a parsed dependency file.
type Manifest struct {
	Path         string
	Ecosystem    string
	Dependencies []Dependency
}

// manifestNames maps recognized manifest file names to their ecosystem.
var manifestNames = map[string]string{
	"package.json":   "npm",
	"Cargo.toml":     "crates",
	"pyproject.toml": "pypi",
}

// DiscoverManifests finds recognized dependency manifests directly in dir.
func DiscoverManifests(dir string) []string {
	var found []string
	for name := range manifestNames {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			found = append(found, candidate)
		}
	}
	sort.Strings(found)
	return found
}

// ParseManifest reads one dependency manifest. package.json is JSON;
// Cargo.toml and pyproject.toml are TOML.
func ParseManifest(path string) (*Manifest, error) {
	ecosystem, ok := manifestNames[filepath.Base(path)]
	if !ok {
		return nil, errors.Newf(errors.ConfigInvalid, "unrecognized manifest %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.FileUnreadable, fmt.Sprintf("cannot read manifest %s", path), err)
	}

	m := &Manifest{Path: path, Ecosystem: ecosystem}
	switch ecosystem {
	case "npm":
		err = parsePackageJSON(m, data)
	case "crates":
		err = parseCargoTOML(m, data)
	case "pypi":
		err = parsePyprojectTOML(m, data)
	}
	if err != nil {
		return nil, err
	}

	sort.Slice(m.Dependencies, func(i, j int) bool {
		return m.Dependencies[i].Name < m.Dependencies[j].Name
	})
	return m, nil
}

func parsePackageJSON(m *Manifest, data []byte) error {
	var doc struct {
		Dependencies    map[string]string `json:"dependencies"`
		DevDependencies map[string]string `json:"devDependencies"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return errors.New(errors.ConfigInvalid, fmt.Sprintf("cannot decode %s", m.Path), err)
	}
	for name, version := range doc.Dependencies {
		m.Dependencies = append(m.Dependencies, Dependency{
			Ecosystem: m.Ecosystem, Name: name, Version: normalizeVersion(version),
		})
	}
	for name, version := range doc.DevDependencies {
		m.Dependencies = append(m.Dependencies, Dependency{
			Ecosystem: m.Ecosystem, Name: name, Version: normalizeVersion(version),
		})
	}
	return nil
}

func parseCargoTOML(m *Manifest, data []byte) error {
	var doc struct {
		Dependencies map[string]interface{} `toml:"dependencies"`
	}
	if err := gotoml.Unmarshal(data, &doc); err != nil {
		return errors.New(errors.ConfigInvalid, fmt.Sprintf("cannot decode %s", m.Path), err)
	}
	for name, raw := range doc.Dependencies {
		version := ""
		switch v := raw.(type) {
		case string:
			version = v
		case map[string]interface{}:
			if s, ok := v["version"].(string); ok {
				version = s
			}
		}
		m.Dependencies = append(m.Dependencies, Dependency{
			Ecosystem: m.Ecosystem, Name: name, Version: normalizeVersion(version),
		})
	}
	return nil
}

func parsePyprojectTOML(m *Manifest, data []byte) error {
	var doc struct {
		Project struct {
			Dependencies []string `toml:"dependencies"`
		} `toml:"project"`
	}
	if err := gotoml.Unmarshal(data, &doc); err != nil {
		return errors.New(errors.ConfigInvalid, fmt.Sprintf("cannot decode %s", m.Path), err)
	}
	for _, spec := range doc.Project.Dependencies {
		name, version := splitRequirement(spec)
		m.Dependencies = append(m.Dependencies, Dependency{
			Ecosystem: m.Ecosystem, Name: name, Version: version,
		})
	}
	return nil
}

// splitRequirement parses a PEP 508 style requirement like "requests>=2.28"
// into a name and pinned version. Only the simple operators appear in
// practice; everything after the operator is kept as the version.
func splitRequirement(spec string) (name, version string) {
	spec = strings.TrimSpace(spec)
	for _, op := range []string{"==", ">=", "<=", "~=", ">", "<"} {
		if idx := strings.Index(spec, op); idx >= 0 {
			return strings.TrimSpace(spec[:idx]), strings.TrimSpace(spec[idx+len(op):])
		}
	}
	return spec, ""
}

// normalizeVersion strips range prefixes (^1.2.3, ~1.2.3, >=1.2.3) down to
// the base version they float from.
func normalizeVersion(v string) string {
	return strings.TrimLeft(strings.TrimSpace(v), "^~=<> ")
}
