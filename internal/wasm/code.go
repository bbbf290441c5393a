package wasm

import (
	"github.com/0xphen/sebi/internal/facts"
	"github.com/0xphen/sebi/internal/leb128"
)

// codeCounts accumulates one function body's contribution to RawFacts.
type codeCounts struct {
	loop          int
	callIndirect  int
	memoryGrow    int
}

// decodeLocals reads the function body's vec(locals) header, returning the
// byte offset at which the instruction stream begins.
func decodeLocals(body []byte) (uint64, error) {
	numGroups, n, err := leb128.DecodeUint32(body)
	if err != nil {
		return 0, ErrMalformedLEB128
	}
	off := n
	for i := uint32(0); i < numGroups; i++ {
		if off >= uint64(len(body)) {
			return 0, ErrTruncatedSection
		}
		_, n, err := leb128.DecodeUint32(body[off:])
		if err != nil {
			return 0, ErrMalformedLEB128
		}
		off += n
		if off >= uint64(len(body)) {
			return 0, ErrTruncatedSection
		}
		off++ // value-type byte
	}
	return off, nil
}

// scanFunctionBody walks one code-section function body (locals header plus
// instruction stream terminated by the function's outer `end`), counting
// loop/call_indirect/memory.grow occurrences per spec.md §4.3.
//
// It is a single-pass structural walker: every opcode's immediates are
// decoded (not interpreted) purely to advance the cursor. Any opcode or
// prefixed sub-opcode this function does not recognize returns
// ErrUnsupportedOpcode; the caller (decodeCodeSection) discards that one
// function's contribution rather than failing the whole module, since each
// function body is already framed by an explicit byte-length prefix in the
// wire format.
func scanFunctionBody(body []byte) (codeCounts, error) {
	var counts codeCounts

	off, err := decodeLocals(body)
	if err != nil {
		return counts, err
	}

	depth := 1 // the function body's own implicit block
	for depth > 0 {
		if off >= uint64(len(body)) {
			return counts, ErrTruncatedSection
		}
		op := body[off]
		off++

		switch {
		case op == OpcodeBlock || op == OpcodeLoop || op == OpcodeIf:
			if op == OpcodeLoop {
				counts.loop++
			}
			depth++
			n, err := skipBlockType(body[off:])
			if err != nil {
				return counts, err
			}
			off += n

		case op == OpcodeElse:
			// no immediate; does not change depth

		case op == OpcodeEnd:
			depth--

		case op == OpcodeCallIndirect:
			counts.callIndirect++
			n, err := skipLEBu32x2(body[off:])
			if err != nil {
				return counts, err
			}
			off += n

		case op == OpcodeMemoryGrow:
			counts.memoryGrow++
			if off >= uint64(len(body)) {
				return counts, ErrTruncatedSection
			}
			off++ // reserved byte

		default:
			n, err := skipImmediate(op, body[off:])
			if err != nil {
				return counts, err
			}
			off += n
		}
	}
	return counts, nil
}

// skipBlockType consumes a blocktype immediate: either a single 0x40 (empty),
// a single value-type byte, or a signed LEB128 s33 type index. All three
// share the same leading-byte LEB128 shape, so decoding as s33 handles every
// case uniformly.
func skipBlockType(buf []byte) (uint64, error) {
	_, n, err := leb128.DecodeInt33AsInt64(buf)
	if err != nil {
		return 0, ErrMalformedLEB128
	}
	return n, nil
}

func skipLEBu32(buf []byte) (uint64, error) {
	_, n, err := leb128.DecodeUint32(buf)
	if err != nil {
		return 0, ErrMalformedLEB128
	}
	return n, nil
}

func skipLEBu32x2(buf []byte) (uint64, error) {
	n1, err := skipLEBu32(buf)
	if err != nil {
		return 0, err
	}
	n2, err := skipLEBu32(buf[n1:])
	if err != nil {
		return 0, err
	}
	return n1 + n2, nil
}

// memarg is align (u32 LEB) followed by offset (u32 LEB).
func skipMemarg(buf []byte) (uint64, error) { return skipLEBu32x2(buf) }

func need(buf []byte, n uint64) error {
	if uint64(len(buf)) < n {
		return ErrTruncatedSection
	}
	return nil
}

// skipImmediate advances past the immediate(s) of any opcode not already
// special-cased in scanFunctionBody's switch (control-flow opcodes that
// affect depth or the scanner's counters are handled directly there).
func skipImmediate(op byte, buf []byte) (uint64, error) {
	switch {
	case op == OpcodeUnreachable || op == OpcodeNop || op == OpcodeReturn ||
		op == OpcodeDrop || op == OpcodeSelect || op == OpcodeRefIsNull:
		return 0, nil

	case op == OpcodeBr || op == OpcodeBrIf || op == OpcodeCall ||
		op == OpcodeLocalGet || op == OpcodeLocalSet || op == OpcodeLocalTee ||
		op == OpcodeGlobalGet || op == OpcodeGlobalSet ||
		op == OpcodeTableGet || op == OpcodeTableSet ||
		op == OpcodeRefFunc:
		return skipLEBu32(buf)

	case op == OpcodeBrTable:
		count, n, err := leb128.DecodeUint32(buf)
		if err != nil {
			return 0, ErrMalformedLEB128
		}
		off := n
		for i := uint32(0); i < count; i++ {
			n, err := skipLEBu32(buf[off:])
			if err != nil {
				return 0, err
			}
			off += n
		}
		n, err = skipLEBu32(buf[off:])
		if err != nil {
			return 0, err
		}
		return off + n, nil

	case op == OpcodeSelectT:
		count, n, err := leb128.DecodeUint32(buf)
		if err != nil {
			return 0, ErrMalformedLEB128
		}
		off := n + uint64(count)
		if err := need(buf, off); err != nil {
			return 0, err
		}
		return off, nil

	case op >= OpcodeI32Load && op <= OpcodeI64Store32:
		return skipMemarg(buf)

	case op == OpcodeMemorySize:
		if err := need(buf, 1); err != nil {
			return 0, err
		}
		return 1, nil

	case op == OpcodeI32Const:
		_, n, err := leb128.DecodeInt32(buf)
		if err != nil {
			return 0, ErrMalformedLEB128
		}
		return n, nil

	case op == OpcodeI64Const:
		_, n, err := leb128.DecodeInt64(buf)
		if err != nil {
			return 0, ErrMalformedLEB128
		}
		return n, nil

	case op == OpcodeF32Const:
		if err := need(buf, 4); err != nil {
			return 0, err
		}
		return 4, nil

	case op == OpcodeF64Const:
		if err := need(buf, 8); err != nil {
			return 0, err
		}
		return 8, nil

	case op == OpcodeRefNull:
		if err := need(buf, 1); err != nil {
			return 0, err
		}
		return 1, nil

	case op >= 0x45 && op <= 0xc4:
		// Numeric comparison/arithmetic/conversion opcodes: no immediates.
		return 0, nil

	case op == OpcodePrefixMisc:
		return skipMiscPrefixed(buf)

	case op == OpcodePrefixSIMD:
		return skipSIMDPrefixed(buf)

	case op == OpcodePrefixThread:
		return skipThreadPrefixed(buf)

	default:
		return 0, ErrUnsupportedOpcode
	}
}

// skipMiscPrefixed handles the 0xFC-prefixed opcodes: saturating truncation
// (sub-opcodes 0-7, no immediate) and bulk-memory/table operations
// (sub-opcodes 8-17).
func skipMiscPrefixed(buf []byte) (uint64, error) {
	sub, n, err := leb128.DecodeUint32(buf)
	if err != nil {
		return 0, ErrMalformedLEB128
	}
	off := n

	switch {
	case sub <= 7:
		return off, nil
	case sub == 8: // memory.init
		n1, err := skipLEBu32(buf[off:])
		if err != nil {
			return 0, err
		}
		off += n1
		if err := need(buf[off:], 1); err != nil {
			return 0, err
		}
		return off + 1, nil
	case sub == 9: // data.drop
		n1, err := skipLEBu32(buf[off:])
		if err != nil {
			return 0, err
		}
		return off + n1, nil
	case sub == 10: // memory.copy: two reserved bytes
		if err := need(buf[off:], 2); err != nil {
			return 0, err
		}
		return off + 2, nil
	case sub == 11: // memory.fill: one reserved byte
		if err := need(buf[off:], 1); err != nil {
			return 0, err
		}
		return off + 1, nil
	case sub == 12: // table.init
		return skipLEBu32x2Offset(buf, off)
	case sub == 13: // elem.drop
		n1, err := skipLEBu32(buf[off:])
		if err != nil {
			return 0, err
		}
		return off + n1, nil
	case sub == 14: // table.copy
		return skipLEBu32x2Offset(buf, off)
	case sub == 15, sub == 16, sub == 17: // table.grow/size/fill
		n1, err := skipLEBu32(buf[off:])
		if err != nil {
			return 0, err
		}
		return off + n1, nil
	default:
		return 0, ErrUnsupportedOpcode
	}
}

func skipLEBu32x2Offset(buf []byte, off uint64) (uint64, error) {
	n, err := skipLEBu32x2(buf[off:])
	if err != nil {
		return 0, err
	}
	return off + n, nil
}

// skipSIMDPrefixed handles the common 0xFD-prefixed (v128) opcodes: loads and
// stores (memarg, some with an additional lane index byte), v128.const and
// i8x16.shuffle (16 raw bytes), single-lane extract/replace (one lane-index
// byte), and the large remaining family of purely stack-based arithmetic /
// comparison / lane-shuffle-free operations that take no immediate at all.
func skipSIMDPrefixed(buf []byte) (uint64, error) {
	sub, n, err := leb128.DecodeUint32(buf)
	if err != nil {
		return 0, ErrMalformedLEB128
	}
	off := n

	switch {
	case sub <= 0x0b: // v128.load* / v128.store, all memarg-shaped
		n1, err := skipMemarg(buf[off:])
		if err != nil {
			return 0, err
		}
		return off + n1, nil
	case sub == 0x0c: // v128.const
		if err := need(buf[off:], 16); err != nil {
			return 0, err
		}
		return off + 16, nil
	case sub == 0x0d: // i8x16.shuffle
		if err := need(buf[off:], 16); err != nil {
			return 0, err
		}
		return off + 16, nil
	case sub >= 0x54 && sub <= 0x5d: // load_lane/store_lane/load32_zero/load64_zero family
		n1, err := skipMemarg(buf[off:])
		if err != nil {
			return 0, err
		}
		off += n1
		if sub >= 0x54 && sub <= 0x5b { // *_lane variants carry a lane index byte
			if err := need(buf[off:], 1); err != nil {
				return 0, err
			}
			off++
		}
		return off, nil
	case sub >= 0x15 && sub <= 0x22: // extract_lane/replace_lane: one lane-index byte
		if err := need(buf[off:], 1); err != nil {
			return 0, err
		}
		return off + 1, nil
	case sub >= 0x0e && sub <= 0xff:
		// Remaining SIMD arithmetic/comparison/splat/bitwise ops operate
		// purely on stack v128 operands: no immediate.
		return off, nil
	default:
		return 0, ErrUnsupportedOpcode
	}
}

// skipThreadPrefixed handles 0xFE-prefixed atomic opcodes: atomic.fence (one
// reserved byte) and the memarg-shaped atomic load/store/RMW family.
func skipThreadPrefixed(buf []byte) (uint64, error) {
	sub, n, err := leb128.DecodeUint32(buf)
	if err != nil {
		return 0, ErrMalformedLEB128
	}
	off := n

	if sub == 0x03 { // atomic.fence
		if err := need(buf[off:], 1); err != nil {
			return 0, err
		}
		return off + 1, nil
	}
	n1, err := skipMemarg(buf[off:])
	if err != nil {
		return 0, err
	}
	return off + n1, nil
}

// addCounts folds one function body's codeCounts into the RawFacts running
// totals.
func addCounts(r *facts.RawFacts, c codeCounts) {
	r.LoopCount += c.loop
	r.CallIndirectCount += c.callIndirect
	r.MemoryGrowCount += c.memoryGrow
}
