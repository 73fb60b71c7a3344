// Package baseline records known findings so a run can report only new
// ones. A baseline file maps finding fingerprints to a short description of
// what was suppressed; fingerprints ignore positions so findings survive
// unrelated edits.
package baseline

import (
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"treelint/internal/errors"
	"treelint/internal/report"
	"treelint/internal/rule"
)

// Entry describes one suppressed finding.
type Entry struct {
	RuleID  string `yaml:"rule"`
	File    string `yaml:"file"`
	Message string `yaml:"message"`
}

// File is the on-disk baseline document.
type File struct {
	GeneratedAt time.Time        `yaml:"generatedAt"`
	Entries     map[string]Entry `yaml:"entries"`
}

// Load reads a baseline file. A missing file is not an error; it loads as an
// empty baseline so first runs work without setup.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &File{Entries: map[string]Entry{}}, nil
	}
	if err != nil {
		return nil, errors.New(errors.FileUnreadable, fmt.Sprintf("cannot read baseline %s", path), err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.New(errors.ConfigInvalid, fmt.Sprintf("cannot decode baseline %s", path), err)
	}
	if f.Entries == nil {
		f.Entries = map[string]Entry{}
	}
	return &f, nil
}

// Write saves the baseline. Entries marshal in map order, which yaml.v3
// sorts by key, so output is deterministic.
func (f *File) Write(path string) error {
	f.GeneratedAt = time.Now().UTC()

	data, err := yaml.Marshal(f)
	if err != nil {
		return errors.New(errors.InternalError, "cannot encode baseline", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New(errors.FileUnreadable, fmt.Sprintf("cannot write baseline %s", path), err)
	}
	return nil
}

// FromFindings builds a baseline covering every given finding.
func FromFindings(findings []rule.Finding) *File {
	f := &File{Entries: make(map[string]Entry, len(findings))}
	for _, fd := range findings {
		f.Entries[report.Fingerprint(fd)] = Entry{
			RuleID:  fd.RuleID,
			File:    fd.File,
			Message: fd.Message,
		}
	}
	return f
}

// Filter drops findings present in the baseline and returns the survivors
// in their original order, plus the count of suppressed findings.
func (f *File) Filter(findings []rule.Finding) ([]rule.Finding, int) {
	if len(f.Entries) == 0 {
		return findings, 0
	}

	kept := make([]rule.Finding, 0, len(findings))
	suppressed := 0
	for _, fd := range findings {
		if _, known := f.Entries[report.Fingerprint(fd)]; known {
			suppressed++
			continue
		}
		kept = append(kept, fd)
	}
	return kept, suppressed
}

// Stale returns fingerprints recorded in the baseline that no current
// finding matches, sorted for stable output. Useful for pruning entries
// whose findings were actually fixed.
func (f *File) Stale(findings []rule.Finding) []string {
	current := make(map[string]struct{}, len(findings))
	for _, fd := range findings {
		current[report.Fingerprint(fd)] = struct{}{}
	}

	var stale []string
	for fp := range f.Entries {
		if _, live := current[fp]; !live {
			stale = append(stale, fp)
		}
	}
	sort.Strings(stale)
	return stale
}
