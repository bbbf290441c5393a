package wasm

import "errors"

// Sentinel parse errors, wrapped with context as they propagate up to
// Inspect. Matching spec.md §7's parser error taxonomy.
var (
	ErrInvalidMagic     = errors.New("wasm: invalid magic number")
	ErrInvalidVersion   = errors.New("wasm: unsupported binary version")
	ErrTruncatedSection = errors.New("wasm: truncated section")
	ErrMalformedLimits  = errors.New("wasm: malformed limits")
	ErrMalformedLEB128  = errors.New("wasm: malformed LEB128 integer")

	// ErrUnsupportedOpcode is returned by the scanner for an opcode (or
	// prefixed sub-opcode) it cannot decode the immediates of. The parser
	// catches this per function body; it never escapes as a module-level
	// parse failure because the code section's size-prefixed framing lets
	// the outer walk skip past the affected body safely.
	ErrUnsupportedOpcode = errors.New("wasm: unsupported opcode")
)
