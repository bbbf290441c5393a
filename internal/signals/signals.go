// Package signals implements the Signal projector: a pure, deterministic
// mapping from the parser's RawFacts into the schema-stable Signals
// vocabulary that every downstream stage (rule catalog, evaluator,
// classifier, report assembler) reads instead of raw binary facts. No rule
// evaluation happens here; this package only normalizes and sorts.
package signals

import (
	"sort"

	"github.com/0xphen/sebi/internal/facts"
)

// Module groups module-wide counts.
type Module struct {
	FunctionCount int `json:"function_count"`
	SectionCount  int `json:"section_count"`
}

// Memory groups the schema's memory signals, derived from the first memory
// in module order when one or more memories are present (spec.md §3/§4.4).
type Memory struct {
	MemoryCount int     `json:"memory_count"`
	MinPages    *uint32 `json:"min_pages"`
	MaxPages    *uint32 `json:"max_pages"`
	HasMax      bool    `json:"has_max"`
}

// Import is one sorted import entry.
type Import struct {
	Module string     `json:"module"`
	Name   string     `json:"name"`
	Kind   facts.Kind `json:"kind"`
}

// Export is one sorted export entry.
type Export struct {
	Name string     `json:"name"`
	Kind facts.Kind `json:"kind"`
}

// ImportsExports groups the import/export signals, including the full sorted
// lists (always present; empty rather than omitted when there are none).
type ImportsExports struct {
	ImportCount int      `json:"import_count"`
	ExportCount int      `json:"export_count"`
	Imports     []Import `json:"imports"`
	Exports     []Export `json:"exports"`
}

// Instructions groups the three counted instruction signals.
type Instructions struct {
	HasMemoryGrow    bool `json:"has_memory_grow"`
	MemoryGrowCount  int  `json:"memory_grow_count"`
	HasCallIndirect  bool `json:"has_call_indirect"`
	CallIndirectCount int `json:"call_indirect_count"`
	HasLoop          bool `json:"has_loop"`
	LoopCount        int  `json:"loop_count"`
}

// Signals is the schema-stable projection of RawFacts, per spec.md §3.
type Signals struct {
	Module         Module         `json:"module"`
	Memory         Memory         `json:"memory"`
	ImportsExports ImportsExports `json:"imports_exports"`
	Instructions   Instructions   `json:"instructions"`
}

// Project maps RawFacts into Signals. It is a pure function: identical
// RawFacts values always yield byte-identical Signals, including list
// ordering (spec.md §4.4, invariant 7 of spec.md §3).
func Project(rf *facts.RawFacts) Signals {
	imports := make([]Import, len(rf.Imports))
	for i, im := range rf.Imports {
		imports[i] = Import{Module: im.Module, Name: im.Name, Kind: im.Kind}
	}
	sort.Slice(imports, func(i, j int) bool {
		a, b := imports[i], imports[j]
		if a.Module != b.Module {
			return a.Module < b.Module
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.Kind.Rank() < b.Kind.Rank()
	})

	exports := make([]Export, len(rf.Exports))
	for i, ex := range rf.Exports {
		exports[i] = Export{Name: ex.Name, Kind: ex.Kind}
	}
	sort.Slice(exports, func(i, j int) bool {
		a, b := exports[i], exports[j]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.Kind.Rank() < b.Kind.Rank()
	})

	var mem Memory
	mem.MemoryCount = len(rf.Memories)
	if mem.MemoryCount > 0 {
		first := rf.Memories[0]
		min := first.MinPages
		mem.MinPages = &min
		if first.HasMax {
			max := first.MaxPages
			mem.MaxPages = &max
		}
		mem.HasMax = first.HasMax
	}

	return Signals{
		Module: Module{
			FunctionCount: rf.FunctionCount,
			SectionCount:  rf.SectionCount,
		},
		Memory: mem,
		ImportsExports: ImportsExports{
			ImportCount: len(imports),
			ExportCount: len(exports),
			Imports:     imports,
			Exports:     exports,
		},
		Instructions: Instructions{
			HasMemoryGrow:     rf.MemoryGrowCount > 0,
			MemoryGrowCount:   rf.MemoryGrowCount,
			HasCallIndirect:   rf.CallIndirectCount > 0,
			CallIndirectCount: rf.CallIndirectCount,
			HasLoop:           rf.LoopCount > 0,
			LoopCount:         rf.LoopCount,
		},
	}
}
