// Package report implements the Report assembler: composes the final,
// externally-observable Report from already-immutable pieces produced by
// every upstream stage. It makes no decisions of its own: analysis.status is
// taken from the caller as given, and its only normalization is sorting the
// catalog and triggered rules by rule_id and deduplicating/sorting warnings,
// per spec.md §4.8.
package report

import (
	"sort"

	"github.com/0xphen/sebi/internal/classify"
	"github.com/0xphen/sebi/internal/loader"
	"github.com/0xphen/sebi/internal/rules"
	"github.com/0xphen/sebi/internal/signals"
)

// SchemaVersion is the wire schema version, per spec.md §6.
const SchemaVersion = "0.1.0"

// Status is the fixed analysis outcome enum.
type Status string

const (
	StatusOK          Status = "ok"
	StatusParseError  Status = "parse_error"
	StatusUnsupported Status = "unsupported"
)

// Tool carries caller-supplied tool identity, copied verbatim into the
// report per spec.md §6.
type Tool struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Commit  string `json:"commit,omitempty"`
}

// Artifact is the report's artifact block.
type Artifact struct {
	Path      string      `json:"path,omitempty"`
	SizeBytes int64       `json:"size_bytes"`
	Hash      loader.Hash `json:"hash"`
}

// Analysis carries the worst outcome of parsing plus any warnings.
type Analysis struct {
	Status   Status   `json:"status"`
	Warnings []string `json:"warnings"`
}

// RuleCatalogEntry is the serializable projection of one catalog rule, used
// in the report's rules.catalog block so a reader can see the full policy
// that produced the verdict without a side channel.
type RuleCatalogEntry struct {
	RuleID      string          `json:"rule_id"`
	Severity    rules.Severity  `json:"severity"`
	Category    string          `json:"category"`
	Title       string          `json:"title"`
	AppliesTo   string          `json:"applies_to"`
	SchemaPaths []string        `json:"schema_paths"`
}

// TriggeredRule is the serializable projection of one evaluator hit.
type TriggeredRule struct {
	RuleID   string              `json:"rule_id"`
	Severity rules.Severity      `json:"severity"`
	Title    string              `json:"title"`
	Message  string              `json:"message"`
	Evidence rules.Evidence      `json:"evidence"`
}

// Rules groups the catalog and its triggered subset.
type Rules struct {
	Catalog   []RuleCatalogEntry `json:"catalog"`
	Triggered []TriggeredRule    `json:"triggered"`
}

// Report is the top-level wire record, per spec.md §6. Field order here
// fixes JSON key order on serialization.
type Report struct {
	SchemaVersion  string                   `json:"schema_version"`
	Tool           Tool                     `json:"tool"`
	Artifact       Artifact                 `json:"artifact"`
	Signals        signals.Signals          `json:"signals"`
	Analysis       Analysis                 `json:"analysis"`
	Rules          Rules                    `json:"rules"`
	Classification classify.Classification  `json:"classification"`
}

// Assemble composes the final Report. catalog is the full rule table (always
// included, so a reader can see the policy that produced the verdict);
// triggered and classification are the evaluator/classifier outputs.
// warnings are deduplicated and sorted into analysis.warnings; status is
// copied into analysis.status unchanged (the caller decides it).
func Assemble(
	tool Tool,
	art *loader.Artifact,
	sig signals.Signals,
	catalog []rules.Rule,
	triggered []rules.TriggeredRule,
	cls classify.Classification,
	status Status,
	warnings []string,
) Report {
	catalogEntries := make([]RuleCatalogEntry, len(catalog))
	for i, r := range catalog {
		catalogEntries[i] = RuleCatalogEntry{
			RuleID:      r.ID,
			Severity:    r.Severity,
			Category:    r.Category,
			Title:       r.Title,
			AppliesTo:   r.AppliesTo,
			SchemaPaths: r.SchemaPaths,
		}
	}
	sort.Slice(catalogEntries, func(i, j int) bool { return catalogEntries[i].RuleID < catalogEntries[j].RuleID })

	triggeredEntries := make([]TriggeredRule, len(triggered))
	for i, t := range triggered {
		triggeredEntries[i] = TriggeredRule{
			RuleID:   t.RuleID,
			Severity: t.Severity,
			Title:    t.Title,
			Message:  t.Message,
			Evidence: t.Evidence,
		}
	}
	sort.Slice(triggeredEntries, func(i, j int) bool { return triggeredEntries[i].RuleID < triggeredEntries[j].RuleID })

	return Report{
		SchemaVersion: SchemaVersion,
		Tool:          tool,
		Artifact: Artifact{
			Path:      art.Path,
			SizeBytes: art.SizeBytes,
			Hash:      art.Hash,
		},
		Signals: sig,
		Analysis: Analysis{
			Status:   status,
			Warnings: dedupSorted(warnings),
		},
		Rules: Rules{
			Catalog:   catalogEntries,
			Triggered: triggeredEntries,
		},
		Classification: cls,
	}
}

// dedupSorted returns a sorted, deduplicated copy of warnings, never nil
// (spec.md §6: lists are empty [] when no elements exist, not omitted).
func dedupSorted(warnings []string) []string {
	out := make([]string, 0, len(warnings))
	seen := make(map[string]bool, len(warnings))
	for _, w := range warnings {
		if seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}
