package report

import (
	"encoding/hex"
	"time"

	"golang.org/x/crypto/blake2b"

	"treelint/internal/rule"
)

// Report is the finalized outcome of one run, handed to a renderer.
type Report struct {
	Findings []rule.Finding
	// Rules carries metadata for every rule that produced a finding, keyed
	// by rule ID. Renderers that emit rule descriptions (SARIF) read it.
	Rules map[string]rule.Meta
	// FilesScanned counts files that were parsed and walked, including
	// files that produced no findings.
	FilesScanned int
	// ParseFailures counts files skipped because parsing failed.
	ParseFailures int
	Duration      time.Duration
	WorkingDir    string
}

// Summary holds the per-severity totals of a report.
type Summary struct {
	Errors   int
	Warnings int
}

// Summarize tallies findings per severity.
func (r *Report) Summarize() Summary {
	var s Summary
	for _, f := range r.Findings {
		switch f.Severity {
		case rule.SeverityError:
			s.Errors++
		case rule.SeverityWarn:
			s.Warnings++
		}
	}
	return s
}

// Failed reports whether the run should exit nonzero: any error finding
// fails, and warnings fail once they exceed maxWarnings. A maxWarnings of
// -1 means unlimited.
func (r *Report) Failed(maxWarnings int) bool {
	s := r.Summarize()
	if s.Errors > 0 {
		return true
	}
	return maxWarnings >= 0 && s.Warnings > maxWarnings
}

// Fingerprint derives a stable identity for a finding that survives line
// shifts: it hashes rule ID, file, and message, but not the range. Baselines
// and SARIF partial fingerprints use it.
func Fingerprint(f rule.Finding) string {
	sum := blake2b.Sum256([]byte(f.RuleID + "\x00" + f.File + "\x00" + f.Message))
	return hex.EncodeToString(sum[:16])
}
