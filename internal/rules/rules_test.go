package rules

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/0xphen/sebi/internal/signals"
)

func sigWith(mutate func(*signals.Signals)) signals.Signals {
	sig := signals.Signals{}
	mutate(&sig)
	return sig
}

func TestEvaluate_NoneTriggeredOnSafeInput(t *testing.T) {
	catalog := NewCatalog(DefaultSizeParams())
	sig := sigWith(func(s *signals.Signals) {
		maxp := uint32(4)
		s.Memory.HasMax = true
		s.Memory.MaxPages = &maxp
	})
	triggered := Evaluate(catalog, Input{Signals: sig, SizeBytes: 100})
	require.Empty(t, triggered)
}

func TestEvaluate_MemUnbounded(t *testing.T) {
	catalog := NewCatalog(DefaultSizeParams())
	sig := sigWith(func(s *signals.Signals) { s.Memory.HasMax = false })
	triggered := Evaluate(catalog, Input{Signals: sig, SizeBytes: 0})
	require.Len(t, triggered, 1)
	require.Equal(t, "R-MEM-01", triggered[0].RuleID)
	require.Equal(t, SeverityMed, triggered[0].Severity)
}

func TestEvaluate_AllFourInstructionAndMemorySignals(t *testing.T) {
	catalog := NewCatalog(DefaultSizeParams())
	sig := sigWith(func(s *signals.Signals) {
		s.Memory.HasMax = false
		s.Instructions.HasMemoryGrow = true
		s.Instructions.HasCallIndirect = true
		s.Instructions.HasLoop = true
	})
	triggered := Evaluate(catalog, Input{Signals: sig, SizeBytes: 0})
	ids := make([]string, len(triggered))
	for i, tr := range triggered {
		ids[i] = tr.RuleID
	}
	require.Equal(t, []string{"R-CALL-01", "R-LOOP-01", "R-MEM-01", "R-MEM-02"}, ids)
	require.Equal(t, SeverityHigh, MaxSeverity(triggered))
}

func TestEvaluate_SortedByRuleIDAndOrderIndependentOfCatalogOrder(t *testing.T) {
	catalog := NewCatalog(DefaultSizeParams())
	reversed := make([]Rule, len(catalog))
	for i, r := range catalog {
		reversed[len(catalog)-1-i] = r
	}
	sig := sigWith(func(s *signals.Signals) {
		s.Memory.HasMax = false
		s.Instructions.HasLoop = true
	})
	a := Evaluate(catalog, Input{Signals: sig, SizeBytes: 0})
	b := Evaluate(reversed, Input{Signals: sig, SizeBytes: 0})
	require.Equal(t, a, b)
}

func TestEvaluate_SizeRuleHonorsInjectedThresholdAndSeverity(t *testing.T) {
	catalog := NewCatalog(SizeParams{ThresholdBytes: 10, Severity: SeverityHigh})
	sig := signals.Signals{}
	triggered := Evaluate(catalog, Input{Signals: sig, SizeBytes: 11})
	// Zero-valued Signals have has_max == false, so R-MEM-01 fires too and
	// sorts first.
	require.Len(t, triggered, 2)
	require.Equal(t, "R-SIZE-01", triggered[1].RuleID)
	require.Equal(t, SeverityHigh, triggered[1].Severity)
}

func TestEvaluate_CatalogMonotonicity(t *testing.T) {
	catalog := NewCatalog(DefaultSizeParams())
	sig := sigWith(func(s *signals.Signals) { s.Instructions.HasLoop = true })
	before := Evaluate(catalog, Input{Signals: sig, SizeBytes: 0})

	extended := append(append([]Rule{}, catalog...), Rule{
		ID:       "R-NEVER-01",
		Severity: SeverityLow,
		Predicate: func(Input) bool { return false },
		Evidence:  func(Input) Evidence { return Evidence{} },
		Message:   func(Input) string { return "" },
	})
	after := Evaluate(extended, Input{Signals: sig, SizeBytes: 0})
	require.Equal(t, before, after)
}

func TestSeverityLess_TotalOrder(t *testing.T) {
	require.True(t, Severity("").Less(SeverityLow))
	require.True(t, SeverityLow.Less(SeverityMed))
	require.True(t, SeverityMed.Less(SeverityHigh))
	require.False(t, SeverityHigh.Less(SeverityMed))
}
