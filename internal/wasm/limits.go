package wasm

import "github.com/0xphen/sebi/internal/leb128"

// limits is the decoded form of the WASM (flags, min, max?) limits triple
// used for both memory and table descriptors.
type limits struct {
	min    uint32
	max    uint32
	hasMax bool
}

// decodeLimits reads a limits structure starting at buf[0], returning the
// limits and the number of bytes consumed. flags bit 0 indicates presence of
// max; spec.md §4.2 requires max be decoded strictly from that bit, never a
// sentinel value.
func decodeLimits(buf []byte) (limits, uint64, error) {
	if len(buf) == 0 {
		return limits{}, 0, ErrMalformedLimits
	}
	flags := buf[0]
	off := uint64(1)

	min, n, err := leb128.DecodeUint32(buf[off:])
	if err != nil {
		return limits{}, 0, ErrMalformedLimits
	}
	off += n

	l := limits{min: min}
	if flags&0x01 != 0 {
		max, n, err := leb128.DecodeUint32(buf[off:])
		if err != nil {
			return limits{}, 0, ErrMalformedLimits
		}
		off += n
		l.max = max
		l.hasMax = true
	}
	return l, off, nil
}
