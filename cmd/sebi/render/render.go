// Package render formats a sebi report.Report as a short human-readable
// table, the "text" alternative to the default JSON encoder named in
// spec.md §6's CLI surface. It is a collaborator outside the analysis core:
// it only reads the already-immutable Report, never the core packages that
// produced it.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/0xphen/sebi/internal/report"
)

// Text writes a short human-readable summary of rep to w.
func Text(w io.Writer, rep report.Report) {
	fmt.Fprintf(w, "sebi %s — %s\n", rep.Tool.Version, rep.Artifact.Path)
	fmt.Fprintf(w, "  size:   %d bytes\n", rep.Artifact.SizeBytes)
	fmt.Fprintf(w, "  digest: %s:%s\n", rep.Artifact.Hash.Algorithm, rep.Artifact.Hash.Value)
	fmt.Fprintf(w, "  status: %s\n", rep.Analysis.Status)
	for _, warn := range rep.Analysis.Warnings {
		fmt.Fprintf(w, "  warning: %s\n", warn)
	}
	fmt.Fprintf(w, "\nverdict: %s (exit %d)\n", rep.Classification.Level, rep.Classification.ExitCode)
	fmt.Fprintf(w, "  policy:           %s\n", rep.Classification.Policy)
	fmt.Fprintf(w, "  reason:           %s\n", rep.Classification.Reason)
	fmt.Fprintf(w, "  highest_severity: %s\n", rep.Classification.HighestSeverity)

	if len(rep.Rules.Triggered) == 0 {
		fmt.Fprintln(w, "\nno rules triggered")
		return
	}
	fmt.Fprintln(w, "\ntriggered rules:")
	for _, t := range rep.Rules.Triggered {
		fmt.Fprintf(w, "  [%s] %-10s %s — %s\n", t.Severity, t.RuleID, t.Title, t.Message)
		if len(t.Evidence) > 0 {
			fmt.Fprintf(w, "      evidence: %s\n", evidenceString(t.Evidence))
		}
	}
}

func evidenceString(ev map[string]any) string {
	parts := make([]string, 0, len(ev))
	for k, v := range ev {
		parts = append(parts, fmt.Sprintf("%s=%v", k, v))
	}
	return strings.Join(parts, ", ")
}
