package report

import (
	"fmt"
	"io"
)

// RenderHuman writes the findings grouped per file, one line per finding,
// followed by a summary line.
func RenderHuman(w io.Writer, r *Report) error {
	currentFile := ""
	for _, f := range r.Findings {
		if f.File != currentFile {
			if currentFile != "" {
				fmt.Fprintln(w)
			}
			fmt.Fprintln(w, f.File)
			currentFile = f.File
		}
		fmt.Fprintf(w, "  %d:%d  %-5s  %s  %s\n",
			f.Range.Start.Line, f.Range.Start.Column, f.Severity, f.Message, f.RuleID)
	}

	if len(r.Findings) > 0 {
		fmt.Fprintln(w)
	}

	s := r.Summarize()
	fmt.Fprintf(w, "%d problem%s (%d error%s, %d warning%s) in %d file%s\n",
		len(r.Findings), plural(len(r.Findings)),
		s.Errors, plural(s.Errors),
		s.Warnings, plural(s.Warnings),
		r.FilesScanned, plural(r.FilesScanned))

	if r.ParseFailures > 0 {
		fmt.Fprintf(w, "%d file%s could not be parsed\n", r.ParseFailures, plural(r.ParseFailures))
	}

	fixable := 0
	for _, f := range r.Findings {
		if f.Fix != nil {
			fixable++
		}
	}
	if fixable > 0 {
		fmt.Fprintf(w, "%d finding%s ha%s a suggested fix\n", fixable, plural(fixable), has(fixable))
	}
	return nil
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func has(n int) string {
	if n == 1 {
		return "s"
	}
	return "ve"
}
