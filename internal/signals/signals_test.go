package signals

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/0xphen/sebi/internal/facts"
)

func TestProject_NoMemory(t *testing.T) {
	sig := Project(&facts.RawFacts{})
	require.Equal(t, 0, sig.Memory.MemoryCount)
	require.Nil(t, sig.Memory.MinPages)
	require.Nil(t, sig.Memory.MaxPages)
	require.False(t, sig.Memory.HasMax)
}

func TestProject_FirstMemoryDrivesRepresentativeSignals(t *testing.T) {
	rf := &facts.RawFacts{
		Memories: []facts.Memory{
			{MinPages: 2, Source: facts.MemoryDeclared},
			{MinPages: 1, MaxPages: 16, HasMax: true, Source: facts.MemoryImported},
		},
	}
	sig := Project(rf)
	require.Equal(t, 2, sig.Memory.MemoryCount)
	require.Equal(t, uint32(2), *sig.Memory.MinPages)
	require.False(t, sig.Memory.HasMax)
	require.Nil(t, sig.Memory.MaxPages)
}

func TestProject_InstructionHasBooleansMatchCounts(t *testing.T) {
	rf := &facts.RawFacts{LoopCount: 3, CallIndirectCount: 0, MemoryGrowCount: 1}
	sig := Project(rf)
	require.True(t, sig.Instructions.HasLoop)
	require.False(t, sig.Instructions.HasCallIndirect)
	require.True(t, sig.Instructions.HasMemoryGrow)
	require.Equal(t, 3, sig.Instructions.LoopCount)
}

func TestProject_ImportsSortedByModuleNameKind(t *testing.T) {
	rf := &facts.RawFacts{
		Imports: []facts.Import{
			{Module: "env", Name: "b", Kind: facts.KindFunc},
			{Module: "env", Name: "a", Kind: facts.KindMemory},
			{Module: "abc", Name: "z", Kind: facts.KindFunc},
		},
	}
	sig := Project(rf)
	require.Equal(t, "abc", sig.ImportsExports.Imports[0].Module)
	require.Equal(t, "a", sig.ImportsExports.Imports[1].Name)
	require.Equal(t, "b", sig.ImportsExports.Imports[2].Name)
}

func TestProject_ExportsSortedByNameThenKind(t *testing.T) {
	rf := &facts.RawFacts{
		Exports: []facts.Export{
			{Name: "run", Kind: facts.KindFunc},
			{Name: "memory", Kind: facts.KindMemory},
			{Name: "memory", Kind: facts.KindFunc},
		},
	}
	sig := Project(rf)
	require.Equal(t, "memory", sig.ImportsExports.Exports[0].Name)
	require.Equal(t, facts.KindFunc, sig.ImportsExports.Exports[0].Kind)
	require.Equal(t, facts.KindMemory, sig.ImportsExports.Exports[1].Kind)
	require.Equal(t, "run", sig.ImportsExports.Exports[2].Name)
}

func TestProject_OrderingIsIndependentOfInputOrder(t *testing.T) {
	a := &facts.RawFacts{
		Imports: []facts.Import{
			{Module: "env", Name: "a", Kind: facts.KindFunc},
			{Module: "env", Name: "b", Kind: facts.KindFunc},
		},
	}
	b := &facts.RawFacts{
		Imports: []facts.Import{
			{Module: "env", Name: "b", Kind: facts.KindFunc},
			{Module: "env", Name: "a", Kind: facts.KindFunc},
		},
	}
	require.Equal(t, Project(a), Project(b))
}

func TestProject_EmptyListsAreNonNil(t *testing.T) {
	sig := Project(&facts.RawFacts{})
	require.NotNil(t, sig.ImportsExports.Imports)
	require.NotNil(t, sig.ImportsExports.Exports)
	require.Empty(t, sig.ImportsExports.Imports)
	require.Empty(t, sig.ImportsExports.Exports)
}
