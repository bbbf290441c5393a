// Package rules implements the Rule catalog and Evaluator components: a
// fixed, ordered table of policy rules over Signals (plus the artifact's
// size, which lives outside Signals in the report's artifact block but is
// still evidence-only, never bytes) and the order-independent application of
// that table to one analysis. Rules see only Signals; they may never reach
// back into RawFacts or raw bytes, per spec.md §1's central design contract.
package rules

import (
	"fmt"
	"sort"

	"github.com/0xphen/sebi/internal/signals"
)

// Severity is the fixed three-level rule severity enum, spelled exactly as
// the wire format requires (spec.md §6).
type Severity string

const (
	SeverityLow  Severity = "Low"
	SeverityMed  Severity = "Med"
	SeverityHigh Severity = "High"
)

// rank gives the total order NONE < Low < Med < High used by the classifier.
func (s Severity) rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMed:
		return 2
	case SeverityHigh:
		return 3
	default:
		return 0
	}
}

// Less reports whether s sorts strictly below other under NONE < Low < Med < High.
func (s Severity) Less(other Severity) bool { return s.rank() < other.rank() }

// Input is everything a rule predicate/evidence projector may read: the
// schema-stable Signals plus the one piece of artifact-identity evidence
// (its size) that R-SIZE-01 depends on. Nothing here is raw bytes.
type Input struct {
	Signals    signals.Signals
	SizeBytes  int64
}

// Evidence is a key -> value mapping drawn from a rule's declared
// schema-path dependencies; R-SIZE-01 additionally cites its configured
// threshold under "threshold_bytes".
type Evidence map[string]any

// Rule is one static catalog entry: identity, policy, and the pure
// predicate/evidence pair. Predicate and Evidence are total functions of
// Input; they must never panic or depend on anything but their declared
// SchemaPaths.
type Rule struct {
	ID          string
	Severity    Severity
	Category    string
	Title       string
	AppliesTo   string
	SchemaPaths []string
	Predicate   func(Input) bool
	Evidence    func(Input) Evidence
	Message     func(Input) string
}

// TriggeredRule is the evaluator's per-hit output, per spec.md §3.
type TriggeredRule struct {
	RuleID   string
	Severity Severity
	Title    string
	Message  string
	Evidence Evidence
}

// Catalog is the ordered, versioned rule table (spec.md §4.5). CatalogVersion
// gates breaking changes to rule meanings; bump it whenever a rule's
// predicate or severity changes.
const CatalogVersion = "1.0.0"

// SizeParams externalizes R-SIZE-01's threshold and severity, per spec.md
// §9's Open Question and DESIGN.md's decision to resolve it via
// internal/policyconfig. The catalog is built once from these parameters and
// never re-reads them at evaluation time (spec.md §9: "catalog is data, not
// code").
type SizeParams struct {
	ThresholdBytes int64
	Severity       Severity
}

// DefaultSizeParams is the compiled-in fallback: 200 KiB, Med, matching
// spec.md §9's explicit suggestion.
func DefaultSizeParams() SizeParams {
	return SizeParams{ThresholdBytes: 200 * 1024, Severity: SeverityMed}
}

// NewCatalog builds the fixed five-rule catalog (spec.md §4.5), with
// R-SIZE-01's threshold/severity injected from sp.
func NewCatalog(sp SizeParams) []Rule {
	return []Rule{
		{
			ID:          "R-MEM-01",
			Severity:    SeverityMed,
			Category:    "memory",
			Title:       "Unbounded memory",
			AppliesTo:   "module",
			SchemaPaths: []string{"memory.has_max", "memory.min_pages"},
			Predicate: func(in Input) bool {
				return !in.Signals.Memory.HasMax
			},
			Evidence: func(in Input) Evidence {
				return Evidence{
					"memory.has_max":  in.Signals.Memory.HasMax,
					"memory.min_pages": in.Signals.Memory.MinPages,
				}
			},
			Message: func(in Input) string {
				return "module memory declares no maximum page limit"
			},
		},
		{
			ID:          "R-MEM-02",
			Severity:    SeverityHigh,
			Category:    "memory",
			Title:       "Runtime memory growth",
			AppliesTo:   "function",
			SchemaPaths: []string{"instructions.has_memory_grow", "instructions.memory_grow_count"},
			Predicate: func(in Input) bool {
				return in.Signals.Instructions.HasMemoryGrow
			},
			Evidence: func(in Input) Evidence {
				return Evidence{
					"instructions.has_memory_grow":   in.Signals.Instructions.HasMemoryGrow,
					"instructions.memory_grow_count": in.Signals.Instructions.MemoryGrowCount,
				}
			},
			Message: func(in Input) string {
				return fmt.Sprintf("memory.grow present (%d occurrence(s))", in.Signals.Instructions.MemoryGrowCount)
			},
		},
		{
			ID:          "R-CALL-01",
			Severity:    SeverityHigh,
			Category:    "control-flow",
			Title:       "Indirect dispatch",
			AppliesTo:   "function",
			SchemaPaths: []string{"instructions.has_call_indirect", "instructions.call_indirect_count"},
			Predicate: func(in Input) bool {
				return in.Signals.Instructions.HasCallIndirect
			},
			Evidence: func(in Input) Evidence {
				return Evidence{
					"instructions.has_call_indirect":   in.Signals.Instructions.HasCallIndirect,
					"instructions.call_indirect_count": in.Signals.Instructions.CallIndirectCount,
				}
			},
			Message: func(in Input) string {
				return fmt.Sprintf("call_indirect present (%d occurrence(s))", in.Signals.Instructions.CallIndirectCount)
			},
		},
		{
			ID:          "R-LOOP-01",
			Severity:    SeverityMed,
			Category:    "control-flow",
			Title:       "Loop constructs",
			AppliesTo:   "function",
			SchemaPaths: []string{"instructions.has_loop", "instructions.loop_count"},
			Predicate: func(in Input) bool {
				return in.Signals.Instructions.HasLoop
			},
			Evidence: func(in Input) Evidence {
				return Evidence{
					"instructions.has_loop":   in.Signals.Instructions.HasLoop,
					"instructions.loop_count": in.Signals.Instructions.LoopCount,
				}
			},
			Message: func(in Input) string {
				return fmt.Sprintf("loop construct present (%d occurrence(s))", in.Signals.Instructions.LoopCount)
			},
		},
		{
			ID:          "R-SIZE-01",
			Severity:    sp.Severity,
			Category:    "size",
			Title:       "Oversized artifact",
			AppliesTo:   "module",
			SchemaPaths: []string{"artifact.size_bytes"},
			Predicate: func(in Input) bool {
				return in.SizeBytes > sp.ThresholdBytes
			},
			Evidence: func(in Input) Evidence {
				return Evidence{
					"artifact.size_bytes": in.SizeBytes,
					"threshold_bytes":     sp.ThresholdBytes,
				}
			},
			Message: func(in Input) string {
				return fmt.Sprintf("artifact size %d bytes exceeds threshold %d bytes", in.SizeBytes, sp.ThresholdBytes)
			},
		},
	}
}

// Evaluate applies every catalog rule to in, returning triggered rules
// sorted by rule_id (spec.md §4.6). It is order-independent: the return
// order does not depend on the catalog's declaration order, only on rule_id.
func Evaluate(catalog []Rule, in Input) []TriggeredRule {
	var out []TriggeredRule
	for _, r := range catalog {
		if !r.Predicate(in) {
			continue
		}
		out = append(out, TriggeredRule{
			RuleID:   r.ID,
			Severity: r.Severity,
			Title:    r.Title,
			Message:  r.Message(in),
			Evidence: r.Evidence(in),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RuleID < out[j].RuleID })
	return out
}

// MaxSeverity returns the highest severity among triggered, or the zero
// value (rank 0, "NONE" in the classifier) when triggered is empty.
func MaxSeverity(triggered []TriggeredRule) Severity {
	var max Severity
	for _, t := range triggered {
		if max.Less(t.Severity) {
			max = t.Severity
		}
	}
	return max
}
