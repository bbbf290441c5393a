// Package wasm implements the Parser and (nested within it) the Scanner
// components of the SEBI pipeline: it decodes a WebAssembly binary module's
// section structure and, for each function body in the code section, walks
// the instruction stream to count loop/call_indirect/memory.grow
// occurrences.
//
// It recognizes the MVP instruction set plus the reference-types,
// bulk-memory and (common) SIMD/threads extensions, decoding every opcode's
// immediates so the byte cursor stays correct. Coverage is pinned by
// DESIGN.md; anything unrecognized degrades that one function body's
// contribution rather than the whole parse (see code.go).
package wasm

// SectionID identifies a top-level module section, in file order.
type SectionID byte

const (
	SectionIDCustom SectionID = iota
	SectionIDType
	SectionIDImport
	SectionIDFunction
	SectionIDTable
	SectionIDMemory
	SectionIDGlobal
	SectionIDExport
	SectionIDStart
	SectionIDElement
	SectionIDCode
	SectionIDData
)

// SectionIDName returns the canonical lower-case section name.
func SectionIDName(id SectionID) string {
	switch id {
	case SectionIDCustom:
		return "custom"
	case SectionIDType:
		return "type"
	case SectionIDImport:
		return "import"
	case SectionIDFunction:
		return "function"
	case SectionIDTable:
		return "table"
	case SectionIDMemory:
		return "memory"
	case SectionIDGlobal:
		return "global"
	case SectionIDExport:
		return "export"
	case SectionIDStart:
		return "start"
	case SectionIDElement:
		return "element"
	case SectionIDCode:
		return "code"
	case SectionIDData:
		return "data"
	default:
		return "unknown"
	}
}

// Wire encoding of import/export descriptor kind bytes.
const (
	wireKindFunc   byte = 0x00
	wireKindTable  byte = 0x01
	wireKindMemory byte = 0x02
	wireKindGlobal byte = 0x03
	wireKindTag    byte = 0x04
)

// Magic/version header every module begins with.
var (
	wasmMagic   = [4]byte{0x00, 0x61, 0x73, 0x6d}
	wasmVersion = [4]byte{0x01, 0x00, 0x00, 0x00}
)

// Opcodes relevant to the scanner's counters and to immediate decoding of
// control-flow-shaped instructions. Named the way wazero names its opcode
// constants (OpcodeXxx).
const (
	OpcodeUnreachable byte = 0x00
	OpcodeNop         byte = 0x01
	OpcodeBlock       byte = 0x02
	OpcodeLoop        byte = 0x03
	OpcodeIf          byte = 0x04
	OpcodeElse        byte = 0x05
	OpcodeEnd         byte = 0x0b
	OpcodeBr          byte = 0x0c
	OpcodeBrIf        byte = 0x0d
	OpcodeBrTable     byte = 0x0e
	OpcodeReturn      byte = 0x0f
	OpcodeCall        byte = 0x10
	OpcodeCallIndirect byte = 0x11

	OpcodeDrop    byte = 0x1a
	OpcodeSelect  byte = 0x1b
	OpcodeSelectT byte = 0x1c

	OpcodeLocalGet  byte = 0x20
	OpcodeLocalSet  byte = 0x21
	OpcodeLocalTee  byte = 0x22
	OpcodeGlobalGet byte = 0x23
	OpcodeGlobalSet byte = 0x24
	OpcodeTableGet  byte = 0x25
	OpcodeTableSet  byte = 0x26

	// Memory load/store family, all taking a memarg(align, offset) immediate.
	OpcodeI32Load    byte = 0x28
	OpcodeI64Store32 byte = 0x3e

	OpcodeMemorySize byte = 0x3f
	OpcodeMemoryGrow byte = 0x40

	OpcodeI32Const byte = 0x41
	OpcodeI64Const byte = 0x42
	OpcodeF32Const byte = 0x43
	OpcodeF64Const byte = 0x44

	OpcodeRefNull   byte = 0xd0
	OpcodeRefIsNull byte = 0xd1
	OpcodeRefFunc   byte = 0xd2

	// Prefix bytes: the following byte(s) encode a ULEB128 sub-opcode.
	OpcodePrefixMisc   byte = 0xfc // bulk-memory, trunc_sat
	OpcodePrefixSIMD   byte = 0xfd // v128
	OpcodePrefixThread byte = 0xfe // atomics
)
