package wasm

import (
	"fmt"

	"github.com/0xphen/sebi/internal/facts"
	"github.com/0xphen/sebi/internal/leb128"
)

// ParseResult is the Parser's output: RawFacts plus any warnings collected
// along the way. Unsupported is set when at least one function body's
// contribution had to be discarded because the scanner could not decode one
// of its opcodes (spec.md §4.2/§7).
type ParseResult struct {
	Facts       *facts.RawFacts
	Warnings    []string
	Unsupported bool
}

// Parse walks a WASM binary module's section structure in file order,
// producing RawFacts. It returns a fatal error only for conditions spec.md
// §4.2 classifies as parse_error: missing/invalid magic or version, or a
// structurally truncated section. A function body the scanner cannot fully
// decode degrades that body's contribution and sets Unsupported, but is not
// fatal, since the code section's per-body size prefix keeps the rest of the
// walk synchronized regardless.
func Parse(data []byte) (*ParseResult, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("%w: file too short", ErrInvalidMagic)
	}
	var magic [4]byte
	copy(magic[:], data[0:4])
	if magic != wasmMagic {
		return nil, ErrInvalidMagic
	}
	var version [4]byte
	copy(version[:], data[4:8])
	if version != wasmVersion {
		return nil, ErrInvalidVersion
	}

	result := &ParseResult{Facts: &facts.RawFacts{}}
	off := uint64(8)

	for off < uint64(len(data)) {
		if off >= uint64(len(data)) {
			break
		}
		id := SectionID(data[off])
		off++

		size, n, err := leb128.DecodeUint32(data[off:])
		if err != nil {
			return nil, fmt.Errorf("%w: section %s size", ErrMalformedLEB128, SectionIDName(id))
		}
		off += n

		if off+uint64(size) > uint64(len(data)) {
			return nil, fmt.Errorf("%w: section %s", ErrTruncatedSection, SectionIDName(id))
		}
		body := data[off : off+uint64(size)]
		off += uint64(size)

		result.Facts.SectionCount++

		switch id {
		case SectionIDImport:
			if err := decodeImportSection(body, result.Facts); err != nil {
				return nil, fmt.Errorf("wasm: import section: %w", err)
			}
		case SectionIDMemory:
			if err := decodeMemorySection(body, result.Facts); err != nil {
				return nil, fmt.Errorf("wasm: memory section: %w", err)
			}
		case SectionIDFunction:
			count, err := decodeFunctionSection(body)
			if err != nil {
				return nil, fmt.Errorf("wasm: function section: %w", err)
			}
			result.Facts.FunctionCount = count
		case SectionIDExport:
			if err := decodeExportSection(body, result.Facts); err != nil {
				return nil, fmt.Errorf("wasm: export section: %w", err)
			}
		case SectionIDCode:
			if err := decodeCodeSection(body, result); err != nil {
				return nil, fmt.Errorf("wasm: code section: %w", err)
			}
		default:
			// Custom/unknown/type/table/global/start/element/data sections:
			// counted toward section_count (already incremented above) but
			// carry no signal-relevant facts.
		}
	}

	return result, nil
}

func decodeImportSection(body []byte, rf *facts.RawFacts) error {
	count, n, err := leb128.DecodeUint32(body)
	if err != nil {
		return ErrMalformedLEB128
	}
	off := n

	for i := uint32(0); i < count; i++ {
		module, n, err := decodeName(body[off:])
		if err != nil {
			return err
		}
		off += n

		name, n, err := decodeName(body[off:])
		if err != nil {
			return err
		}
		off += n

		if off >= uint64(len(body)) {
			return ErrTruncatedSection
		}
		kindByte := body[off]
		off++

		kind, err := kindFromWire(kindByte)
		if err != nil {
			return err
		}

		rf.Imports = append(rf.Imports, facts.Import{Module: module, Name: name, Kind: kind})

		switch kindByte {
		case wireKindFunc:
			n, err := skipLEBu32(body[off:])
			if err != nil {
				return err
			}
			off += n
		case wireKindTable:
			if off >= uint64(len(body)) {
				return ErrTruncatedSection
			}
			off++ // reftype byte
			_, n, err := decodeLimits(body[off:])
			if err != nil {
				return err
			}
			off += n
		case wireKindMemory:
			l, n, err := decodeLimits(body[off:])
			if err != nil {
				return err
			}
			off += n
			rf.Memories = append(rf.Memories, facts.Memory{
				MinPages: l.min, MaxPages: l.max, HasMax: l.hasMax, Source: facts.MemoryImported,
			})
		case wireKindGlobal:
			if off+1 >= uint64(len(body)) {
				return ErrTruncatedSection
			}
			off += 2 // valtype byte + mutability byte
		case wireKindTag:
			if off >= uint64(len(body)) {
				return ErrTruncatedSection
			}
			off++ // attribute byte
			n, err := skipLEBu32(body[off:])
			if err != nil {
				return err
			}
			off += n
		}
	}
	return nil
}

func decodeMemorySection(body []byte, rf *facts.RawFacts) error {
	count, n, err := leb128.DecodeUint32(body)
	if err != nil {
		return ErrMalformedLEB128
	}
	off := n
	for i := uint32(0); i < count; i++ {
		l, n, err := decodeLimits(body[off:])
		if err != nil {
			return err
		}
		off += n
		rf.Memories = append(rf.Memories, facts.Memory{
			MinPages: l.min, MaxPages: l.max, HasMax: l.hasMax, Source: facts.MemoryDeclared,
		})
	}
	return nil
}

func decodeFunctionSection(body []byte) (int, error) {
	count, _, err := leb128.DecodeUint32(body)
	if err != nil {
		return 0, ErrMalformedLEB128
	}
	return int(count), nil
}

func decodeExportSection(body []byte, rf *facts.RawFacts) error {
	count, n, err := leb128.DecodeUint32(body)
	if err != nil {
		return ErrMalformedLEB128
	}
	off := n
	for i := uint32(0); i < count; i++ {
		name, n, err := decodeName(body[off:])
		if err != nil {
			return err
		}
		off += n

		if off >= uint64(len(body)) {
			return ErrTruncatedSection
		}
		kindByte := body[off]
		off++

		kind, err := kindFromWire(kindByte)
		if err != nil {
			return err
		}

		n, err = skipLEBu32(body[off:]) // the exported item's index
		if err != nil {
			return err
		}
		off += n

		rf.Exports = append(rf.Exports, facts.Export{Name: name, Kind: kind})
	}
	return nil
}

// decodeCodeSection walks the size-framed vector of function bodies. A body
// the scanner cannot fully decode has its contribution discarded and is
// reported as a warning; the outer walk stays synchronized via each body's
// own byte-length prefix regardless.
func decodeCodeSection(body []byte, result *ParseResult) error {
	count, n, err := leb128.DecodeUint32(body)
	if err != nil {
		return ErrMalformedLEB128
	}
	off := n
	for i := uint32(0); i < count; i++ {
		size, n, err := leb128.DecodeUint32(body[off:])
		if err != nil {
			return ErrMalformedLEB128
		}
		off += n
		if off+uint64(size) > uint64(len(body)) {
			return ErrTruncatedSection
		}
		funcBody := body[off : off+uint64(size)]
		off += uint64(size)

		counts, err := scanFunctionBody(funcBody)
		if err != nil {
			result.Unsupported = true
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("code section: function %d: %v", i, err))
			continue
		}
		addCounts(result.Facts, counts)
	}
	return nil
}

func kindFromWire(b byte) (facts.Kind, error) {
	switch b {
	case wireKindFunc:
		return facts.KindFunc, nil
	case wireKindTable:
		return facts.KindTable, nil
	case wireKindMemory:
		return facts.KindMemory, nil
	case wireKindGlobal:
		return facts.KindGlobal, nil
	case wireKindTag:
		return facts.KindTag, nil
	default:
		return "", fmt.Errorf("wasm: unknown import/export kind byte 0x%02x", b)
	}
}

// decodeName reads a WASM "name" value: a u32 LEB128 byte length followed by
// that many UTF-8 bytes.
func decodeName(buf []byte) (string, uint64, error) {
	length, n, err := leb128.DecodeUint32(buf)
	if err != nil {
		return "", 0, ErrMalformedLEB128
	}
	off := n + uint64(length)
	if err := need(buf, off); err != nil {
		return "", 0, err
	}
	return string(buf[n:off]), off, nil
}
