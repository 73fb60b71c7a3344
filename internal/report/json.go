package report

import (
	"encoding/json"
	"io"

	"treelint/internal/rule"
)

// jsonReport is the machine-readable report shape: findings grouped per
// file, plus run totals.
type jsonReport struct {
	Files   []jsonFile  `json:"files"`
	Summary jsonSummary `json:"summary"`
}

type jsonFile struct {
	Path     string        `json:"path"`
	Findings []jsonFinding `json:"findings"`
}

type jsonFinding struct {
	RuleID   string   `json:"ruleId"`
	Severity string   `json:"severity"`
	Message  string   `json:"message"`
	Line     int      `json:"line"`
	Column   int      `json:"column"`
	EndLine  int      `json:"endLine"`
	EndCol   int      `json:"endColumn"`
	Fix      *jsonFix `json:"fix,omitempty"`
}

type jsonFix struct {
	StartByte uint32 `json:"startByte"`
	EndByte   uint32 `json:"endByte"`
	Text      string `json:"text"`
}

type jsonSummary struct {
	Errors        int   `json:"errors"`
	Warnings      int   `json:"warnings"`
	FilesScanned  int   `json:"filesScanned"`
	ParseFailures int   `json:"parseFailures"`
	DurationMS    int64 `json:"durationMs"`
}

// RenderJSON writes the report as indented JSON. Findings arrive already
// ordered, so files appear in path order with findings in range order.
func RenderJSON(w io.Writer, r *Report) error {
	doc := jsonReport{Files: []jsonFile{}}

	var current *jsonFile
	for _, f := range r.Findings {
		if current == nil || current.Path != f.File {
			doc.Files = append(doc.Files, jsonFile{Path: f.File, Findings: []jsonFinding{}})
			current = &doc.Files[len(doc.Files)-1]
		}
		current.Findings = append(current.Findings, toJSONFinding(f))
	}

	s := r.Summarize()
	doc.Summary = jsonSummary{
		Errors:        s.Errors,
		Warnings:      s.Warnings,
		FilesScanned:  r.FilesScanned,
		ParseFailures: r.ParseFailures,
		DurationMS:    r.Duration.Milliseconds(),
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func toJSONFinding(f rule.Finding) jsonFinding {
	out := jsonFinding{
		RuleID:   f.RuleID,
		Severity: string(f.Severity),
		Message:  f.Message,
		Line:     f.Range.Start.Line,
		Column:   f.Range.Start.Column,
		EndLine:  f.Range.End.Line,
		EndCol:   f.Range.End.Column,
	}
	if f.Fix != nil {
		out.Fix = &jsonFix{
			StartByte: f.Fix.Range.StartByte,
			EndByte:   f.Fix.Range.EndByte,
			Text:      f.Fix.Text,
		}
	}
	return out
}
