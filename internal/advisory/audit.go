package advisory

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"treelint/internal/rule"
	"treelint/internal/tree"
)

// AuditRuleID marks findings produced by the dependency audit rather than a
// syntax rule.
const AuditRuleID = "internal/advisory"

// Auditor matches manifests against the advisory store.
type Auditor struct {
	store  *Store
	logger *slog.Logger
}

// NewAuditor returns an auditor backed by store.
func NewAuditor(store *Store, logger *slog.Logger) *Auditor {
	return &Auditor{store: store, logger: logger}
}

// Audit parses every recognized manifest in dir and returns one finding per
// affected dependency. Findings point at the manifest file; they carry no
// meaningful range since manifests are not walked as trees.
func (a *Auditor) Audit(ctx context.Context, dir string) ([]rule.Finding, error) {
	var findings []rule.Finding

	for _, path := range DiscoverManifests(dir) {
		m, err := ParseManifest(path)
		if err != nil {
			a.logger.Warn("Skipping unparseable manifest", "path", path, "error", err)
			continue
		}

		for _, dep := range m.Dependencies {
			advisories, err := a.store.Lookup(ctx, dep.Ecosystem, dep.Name)
			if err != nil {
				return nil, err
			}
			for _, adv := range advisories {
				if dep.Version == "" || !versionLess(dep.Version, adv.FixedIn) {
					continue
				}
				findings = append(findings, rule.Finding{
					RuleID:   AuditRuleID,
					Severity: advisorySeverity(adv.Severity),
					Message: fmt.Sprintf("%s %s is affected by %s (fixed in %s): %s",
						dep.Name, dep.Version, adv.ID, adv.FixedIn, adv.Summary),
					File:  path,
					Range: tree.Range{Start: tree.Position{Line: 1, Column: 1}, End: tree.Position{Line: 1, Column: 1}},
				})
			}
		}
	}
	return findings, nil
}

func advisorySeverity(s string) rule.Severity {
	switch strings.ToLower(s) {
	case "critical", "high":
		return rule.SeverityError
	default:
		return rule.SeverityWarn
	}
}

// versionLess compares dotted numeric versions segment by segment. Missing
// segments count as zero; non-numeric segments compare as strings.
func versionLess(a, b string) bool {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	for i := 0; i < len(as) || i < len(bs); i++ {
		av, bv := segment(as, i), segment(bs, i)
		an, aerr := strconv.Atoi(av)
		bn, berr := strconv.Atoi(bv)
		if aerr == nil && berr == nil {
			if an != bn {
				return an < bn
			}
			continue
		}
		if av != bv {
			return av < bv
		}
	}
	return false
}

func segment(parts []string, i int) string {
	if i < len(parts) {
		return parts[i]
	}
	return "0"
}
