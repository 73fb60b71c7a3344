package report

import (
	"encoding/json"
	"io"
	"runtime"
	"sort"

	"github.com/google/uuid"

	"treelint/internal/rule"
)

// SARIF 2.1.0 schema types
// See: https://docs.oasis-open.org/sarif/sarif/v2.1.0/sarif-v2.1.0.html

// SARIFReport is the top-level SARIF document.
type SARIFReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []SARIFRun `json:"runs"`
}

// SARIFRun represents a single analysis run.
type SARIFRun struct {
	AutomationDetails *SARIFAutomationDetails `json:"automationDetails,omitempty"`
	Tool              SARIFTool               `json:"tool"`
	Results           []SARIFResult           `json:"results"`
	Invocations       []SARIFInvocation       `json:"invocations,omitempty"`
}

// SARIFAutomationDetails identifies the run.
type SARIFAutomationDetails struct {
	GUID string `json:"guid,omitempty"`
}

// SARIFTool describes the analysis tool.
type SARIFTool struct {
	Driver SARIFDriver `json:"driver"`
}

// SARIFDriver describes the primary analysis component.
type SARIFDriver struct {
	Name            string      `json:"name"`
	Version         string      `json:"version,omitempty"`
	SemanticVersion string      `json:"semanticVersion,omitempty"`
	InformationURI  string      `json:"informationUri,omitempty"`
	Rules           []SARIFRule `json:"rules,omitempty"`
}

// SARIFRule describes a rule that detected an issue.
type SARIFRule struct {
	ID                   string                  `json:"id"`
	ShortDescription     *SARIFMessage           `json:"shortDescription,omitempty"`
	DefaultConfiguration *SARIFRuleConfiguration `json:"defaultConfiguration,omitempty"`
	HelpURI              string                  `json:"helpUri,omitempty"`
}

// SARIFRuleConfiguration describes the default configuration for a rule.
type SARIFRuleConfiguration struct {
	Level string `json:"level,omitempty"` // error, warning, note, none
}

// SARIFResult represents a single finding.
type SARIFResult struct {
	RuleID              string            `json:"ruleId"`
	RuleIndex           int               `json:"ruleIndex"`
	Level               string            `json:"level,omitempty"`
	Message             SARIFMessage      `json:"message"`
	Locations           []SARIFLocation   `json:"locations,omitempty"`
	PartialFingerprints map[string]string `json:"partialFingerprints,omitempty"`
}

// SARIFMessage contains text in various formats.
type SARIFMessage struct {
	Text string `json:"text,omitempty"`
}

// SARIFLocation describes where a result was found.
type SARIFLocation struct {
	PhysicalLocation *SARIFPhysicalLocation `json:"physicalLocation,omitempty"`
}

// SARIFPhysicalLocation identifies a file and region.
type SARIFPhysicalLocation struct {
	ArtifactLocation *SARIFArtifactLocation `json:"artifactLocation,omitempty"`
	Region           *SARIFRegion           `json:"region,omitempty"`
}

// SARIFArtifactLocation identifies a file.
type SARIFArtifactLocation struct {
	URI       string `json:"uri,omitempty"`
	URIBaseID string `json:"uriBaseId,omitempty"`
}

// SARIFRegion identifies a region within a file.
type SARIFRegion struct {
	StartLine   int `json:"startLine,omitempty"`
	StartColumn int `json:"startColumn,omitempty"`
	EndLine     int `json:"endLine,omitempty"`
	EndColumn   int `json:"endColumn,omitempty"`
}

// SARIFInvocation describes a single invocation of the tool.
type SARIFInvocation struct {
	ExecutionSuccessful bool                   `json:"executionSuccessful"`
	WorkingDirectory    *SARIFArtifactLocation `json:"workingDirectory,omitempty"`
	Machine             string                 `json:"machine,omitempty"`
}

// RenderSARIF writes the report as a SARIF 2.1.0 document. Rules are listed
// once in the driver, in ID order; each result carries a partial fingerprint
// stable across line shifts so downstream tooling can track findings.
func RenderSARIF(w io.Writer, r *Report, version string) error {
	known := make(map[string]struct{}, len(r.Rules))
	ruleIDs := make([]string, 0, len(r.Rules))
	for id := range r.Rules {
		known[id] = struct{}{}
		ruleIDs = append(ruleIDs, id)
	}
	// Synthetic finding sources (crash and parse diagnostics) still need a
	// driver entry.
	for _, f := range r.Findings {
		if _, ok := known[f.RuleID]; !ok {
			known[f.RuleID] = struct{}{}
			ruleIDs = append(ruleIDs, f.RuleID)
		}
	}
	sort.Strings(ruleIDs)

	ruleIndex := make(map[string]int, len(ruleIDs))
	rules := make([]SARIFRule, 0, len(ruleIDs))
	for i, id := range ruleIDs {
		meta := r.Rules[id]
		ruleIndex[id] = i
		entry := SARIFRule{ID: id, HelpURI: meta.DocURI}
		if meta.Description != "" {
			entry.ShortDescription = &SARIFMessage{Text: meta.Description}
		}
		if meta.DefaultSeverity.Valid() {
			entry.DefaultConfiguration = &SARIFRuleConfiguration{
				Level: severityToSARIFLevel(meta.DefaultSeverity),
			}
		}
		rules = append(rules, entry)
	}

	results := make([]SARIFResult, 0, len(r.Findings))
	for _, f := range r.Findings {
		results = append(results, SARIFResult{
			RuleID:    f.RuleID,
			RuleIndex: ruleIndex[f.RuleID],
			Level:     severityToSARIFLevel(f.Severity),
			Message:   SARIFMessage{Text: f.Message},
			Locations: []SARIFLocation{
				{
					PhysicalLocation: &SARIFPhysicalLocation{
						ArtifactLocation: &SARIFArtifactLocation{
							URI:       f.File,
							URIBaseID: "%SRCROOT%",
						},
						Region: &SARIFRegion{
							StartLine:   f.Range.Start.Line,
							StartColumn: f.Range.Start.Column,
							EndLine:     f.Range.End.Line,
							EndColumn:   f.Range.End.Column,
						},
					},
				},
			},
			PartialFingerprints: map[string]string{
				"treelint/v1": Fingerprint(f),
			},
		})
	}

	doc := SARIFReport{
		Schema:  "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json",
		Version: "2.1.0",
		Runs: []SARIFRun{
			{
				AutomationDetails: &SARIFAutomationDetails{GUID: uuid.NewString()},
				Tool: SARIFTool{
					Driver: SARIFDriver{
						Name:            "treelint",
						Version:         version,
						SemanticVersion: version,
						InformationURI:  "https://github.com/treelint/treelint",
						Rules:           rules,
					},
				},
				Results: results,
				Invocations: []SARIFInvocation{
					{
						ExecutionSuccessful: true,
						WorkingDirectory:    &SARIFArtifactLocation{URI: r.WorkingDir},
						Machine:             runtime.GOOS + "/" + runtime.GOARCH,
					},
				},
			},
		},
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// severityToSARIFLevel maps a finding severity to a SARIF level.
func severityToSARIFLevel(s rule.Severity) string {
	switch s {
	case rule.SeverityError:
		return "error"
	case rule.SeverityWarn:
		return "warning"
	default:
		return "none"
	}
}
