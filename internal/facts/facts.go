// Package facts defines RawFacts, the parser's raw, interpretation-free
// output. RawFacts is never exposed in a Report; internal/signals projects it
// into the schema-stable Signals vocabulary.
package facts

// Kind is the shared import/export item kind vocabulary.
type Kind string

const (
	KindFunc   Kind = "func"
	KindMemory Kind = "memory"
	KindTable  Kind = "table"
	KindGlobal Kind = "global"
	KindTag    Kind = "tag"
)

// Rank gives the ordering used when sorting imports/exports, per the schema
// contract "func < memory < table < global < tag" — independent of the wire
// encoding's own kind byte values.
func (k Kind) Rank() int {
	switch k {
	case KindFunc:
		return 0
	case KindMemory:
		return 1
	case KindTable:
		return 2
	case KindGlobal:
		return 3
	case KindTag:
		return 4
	default:
		return 5
	}
}

// MemorySource records whether a memory descriptor came from an import or a
// module-local declaration.
type MemorySource string

const (
	MemoryDeclared MemorySource = "declared"
	MemoryImported MemorySource = "imported"
)

// Memory is one memory descriptor: (min, max?, source).
type Memory struct {
	MinPages uint32
	MaxPages uint32 // only meaningful when HasMax
	HasMax   bool
	Source   MemorySource
}

// Import is one entry of the import section.
type Import struct {
	Module string
	Name   string
	Kind   Kind
}

// Export is one entry of the export section.
type Export struct {
	Name string
	Kind Kind
}

// RawFacts is the parser's complete output for one artifact.
type RawFacts struct {
	FunctionCount int
	SectionCount  int

	Memories []Memory
	Imports  []Import
	Exports  []Export

	MemoryGrowCount  int
	CallIndirectCount int
	LoopCount        int
}
