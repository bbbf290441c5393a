// Package classify implements the Classifier: a pure, total function
// collapsing an evaluator's triggered-rule set into a Classification under a
// fixed (or swappable) policy, per spec.md §4.7. Classification cannot fail.
package classify

import (
	"fmt"
	"sort"

	"github.com/0xphen/sebi/internal/rules"
)

// Level is the fixed three-level risk verdict enum.
type Level string

const (
	LevelSafe     Level = "SAFE"
	LevelRisk     Level = "RISK"
	LevelHighRisk Level = "HIGH_RISK"
)

// HighestSeverity adds the NONE rung below rules.Severity's three levels, for
// the classification's highest_severity field.
type HighestSeverity string

const (
	SeverityNone HighestSeverity = "NONE"
	SeverityLow  HighestSeverity = "Low"
	SeverityMed  HighestSeverity = "Med"
	SeverityHigh HighestSeverity = "High"
)

// Classification is the pipeline's final verdict, per spec.md §3.
type Classification struct {
	Level            Level           `json:"level"`
	Policy           string          `json:"policy"`
	Reason           string          `json:"reason"`
	HighestSeverity  HighestSeverity `json:"highest_severity"`
	TriggeredRuleIDs []string        `json:"triggered_rule_ids"`
	ExitCode         int             `json:"exit_code"`
}

// Default applies spec.md §4.7's default policy to triggered. It is a pure
// function of highest_severity (invariant 6 of spec.md §3).
func Default(triggered []rules.TriggeredRule) Classification {
	ids := make([]string, len(triggered))
	for i, t := range triggered {
		ids[i] = t.RuleID
	}
	sort.Strings(ids)

	highest := rules.MaxSeverity(triggered)

	var level Level
	var exitCode int
	switch highest {
	case rules.SeverityHigh:
		level, exitCode = LevelHighRisk, 2
	case rules.SeverityMed, rules.SeverityLow:
		level, exitCode = LevelRisk, 1
	default:
		level, exitCode = LevelSafe, 0
	}

	return Classification{
		Level:            level,
		Policy:           "default",
		Reason:           reason(ids),
		HighestSeverity:  highestSeverity(highest),
		TriggeredRuleIDs: ids,
		ExitCode:         exitCode,
	}
}

func highestSeverity(s rules.Severity) HighestSeverity {
	switch s {
	case rules.SeverityHigh:
		return SeverityHigh
	case rules.SeverityMed:
		return SeverityMed
	case rules.SeverityLow:
		return SeverityLow
	default:
		return SeverityNone
	}
}

func reason(ids []string) string {
	if len(ids) == 0 {
		return "no rules triggered"
	}
	if len(ids) == 1 {
		return fmt.Sprintf("%s triggered", ids[0])
	}
	return fmt.Sprintf("%d rules triggered", len(ids))
}
