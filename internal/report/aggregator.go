// Package report collects findings from walks, deduplicates and orders them,
// and renders the final report in human, JSON, or SARIF form.
package report

import (
	"fmt"
	"sort"

	"treelint/internal/rule"
)

// Aggregator accumulates findings across files and rules. Add may be called
// from any number of walks; Finalize produces the deduplicated, ordered
// result set. Finalize is idempotent: calling it twice yields identical
// output.
type Aggregator struct {
	findings []rule.Finding
	seen     map[string]struct{}
}

// NewAggregator returns an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		seen: make(map[string]struct{}),
	}
}

// Add records findings, dropping any duplicate of an already-recorded one.
// Two findings are duplicates when rule ID, file, range, and message all
// match.
func (a *Aggregator) Add(findings ...rule.Finding) {
	for _, f := range findings {
		key := identityKey(f)
		if _, dup := a.seen[key]; dup {
			continue
		}
		a.seen[key] = struct{}{}
		a.findings = append(a.findings, f)
	}
}

// Len reports how many distinct findings have been recorded.
func (a *Aggregator) Len() int {
	return len(a.findings)
}

// Finalize returns the findings ordered for output: by file, then range
// start, then severity (errors before warnings), then rule ID. The returned
// slice is a copy; the aggregator can keep accepting findings afterwards.
func (a *Aggregator) Finalize() []rule.Finding {
	out := make([]rule.Finding, len(a.findings))
	copy(out, a.findings)

	sort.SliceStable(out, func(i, j int) bool {
		fi, fj := out[i], out[j]
		if fi.File != fj.File {
			return fi.File < fj.File
		}
		if fi.Range.Start.Line != fj.Range.Start.Line {
			return fi.Range.Start.Line < fj.Range.Start.Line
		}
		if fi.Range.Start.Column != fj.Range.Start.Column {
			return fi.Range.Start.Column < fj.Range.Start.Column
		}
		if wi, wj := fi.Severity.Weight(), fj.Severity.Weight(); wi != wj {
			return wi > wj
		}
		return fi.RuleID < fj.RuleID
	})
	return out
}

func identityKey(f rule.Finding) string {
	return fmt.Sprintf("%s\x00%s\x00%d:%d\x00%s",
		f.RuleID, f.File, f.Range.StartByte, f.Range.EndByte, f.Message)
}
