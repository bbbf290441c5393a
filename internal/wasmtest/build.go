// Package wasmtest hand-assembles minimal WASM binary fixtures for tests.
// Fixture compilation from textual WebAssembly is named out of scope in
// spec.md §1; these helpers build the handful of byte sequences the test
// suite needs directly, the way wazero's own binary encoder tests build
// expected byte slices by hand.
package wasmtest

import "github.com/0xphen/sebi/internal/leb128"

const (
	sectionCustom byte = iota
	sectionType
	sectionImport
	sectionFunction
	sectionTable
	sectionMemory
	sectionGlobal
	sectionExport
	sectionStart
	sectionElement
	sectionCode
	sectionData
)

// Module assembles a full module byte sequence from already-encoded
// sections, in the order given; it does not reorder them by section ID
// (spec.md §4.2: sections are walked in file order).
func Module(sections ...[]byte) []byte {
	out := append([]byte{}, Header()...)
	for _, s := range sections {
		out = append(out, s...)
	}
	return out
}

// Header returns the 8-byte WASM magic + version preamble.
func Header() []byte {
	return []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}
}

func section(id byte, body []byte) []byte {
	out := []byte{id}
	out = append(out, U32(uint32(len(body)))...)
	return append(out, body...)
}

// U32 LEB128-encodes v.
func U32(v uint32) []byte { return leb128.EncodeUint32(v) }

// I32 signed-LEB128-encodes v.
func I32(v int32) []byte { return leb128.EncodeInt32(v) }

// Name length-prefix-encodes s as a WASM "name" value.
func Name(s string) []byte {
	out := U32(uint32(len(s)))
	return append(out, []byte(s)...)
}

// Limits encodes a (flags, min, max?) limits triple.
func Limits(min uint32, max *uint32) []byte {
	if max == nil {
		return append([]byte{0x00}, U32(min)...)
	}
	out := append([]byte{0x01}, U32(min)...)
	return append(out, U32(*max)...)
}

// MemorySection builds a memory section declaring a single memory.
func MemorySection(min uint32, max *uint32) []byte {
	body := append(U32(1), Limits(min, max)...)
	return section(sectionMemory, body)
}

// ImportMemorySection builds an import section importing a single memory
// named module.name.
func ImportMemorySection(module, name string, min uint32, max *uint32) []byte {
	body := U32(1)
	body = append(body, Name(module)...)
	body = append(body, Name(name)...)
	body = append(body, 0x02) // kind: memory
	body = append(body, Limits(min, max)...)
	return section(sectionImport, body)
}

// ExportSection builds an export section from (name, kind, index) triples.
// kind uses wire encoding: 0=func,1=table,2=memory,3=global.
func ExportSection(exports ...Export) []byte {
	body := U32(uint32(len(exports)))
	for _, e := range exports {
		body = append(body, Name(e.Name)...)
		body = append(body, e.Kind)
		body = append(body, U32(e.Index)...)
	}
	return section(sectionExport, body)
}

// Export is one export-section entry.
type Export struct {
	Name  string
	Kind  byte
	Index uint32
}

// FunctionSection declares n functions all of type index 0 (the analyzer
// never interprets types, so the exact type index is immaterial).
func FunctionSection(n int) []byte {
	body := U32(uint32(n))
	for i := 0; i < n; i++ {
		body = append(body, U32(0)...)
	}
	return section(sectionFunction, body)
}

// TypeSection builds a minimal type section with n copies of `() -> ()`,
// enough to satisfy a function section's type indices structurally (the
// analyzer never reads this section's contents).
func TypeSection(n int) []byte {
	body := U32(uint32(n))
	for i := 0; i < n; i++ {
		body = append(body, 0x60, 0x00, 0x00) // func, 0 params, 0 results
	}
	return section(sectionType, body)
}

// CodeSection builds a code section from raw function bodies (each already
// including its locals header and trailing `end`).
func CodeSection(bodies ...[]byte) []byte {
	body := U32(uint32(len(bodies)))
	for _, b := range bodies {
		body = append(body, U32(uint32(len(b)))...)
		body = append(body, b...)
	}
	return section(sectionCode, body)
}

// Concat joins byte-slice fragments, e.g. instruction sequences.
func Concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// FuncBody builds a function body with no declared locals, from already
// concatenated instruction bytes (use Concat to assemble them).
func FuncBody(instructions []byte) []byte {
	return append([]byte{0x00}, instructions...) // 0 local-decl groups
}

const (
	OpEnd          byte = 0x0b
	OpLoop         byte = 0x03
	OpBlock        byte = 0x02
	OpCallIndirect byte = 0x11
	OpMemoryGrow   byte = 0x40
	OpNop          byte = 0x01
	OpDrop         byte = 0x1a
)

// Loop wraps body in a `loop` construct (blocktype empty = 0x40) closed by
// `end`.
func Loop(body []byte) []byte {
	return Concat([]byte{OpLoop, 0x40}, body, []byte{OpEnd})
}

// CallIndirect encodes `call_indirect (type typeIdx) (table tableIdx)`.
func CallIndirect(typeIdx, tableIdx uint32) []byte {
	return Concat([]byte{OpCallIndirect}, U32(typeIdx), U32(tableIdx))
}

// MemoryGrow encodes `memory.grow 0`.
func MemoryGrow() []byte {
	return []byte{OpMemoryGrow, 0x00}
}
