// Package loader implements the Loader component: reads an artifact's bytes
// from disk, bounds its size, and computes a content digest through an
// injectable Digester capability (spec.md §1, §4.1). The digest is computed
// once over the full on-disk byte stream before any parsing begins, so a
// mismatch between loaded bytes and parsed bytes is impossible by
// construction.
package loader

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
)

// MaxArtifactBytes bounds artifact size to a ceiling comfortably above any
// realistic Stylus contract binary, guarding against pathological inputs.
const MaxArtifactBytes = 64 * 1024 * 1024 // 64 MiB

// Sentinel loader errors, matching spec.md §4.1's error taxonomy.
var (
	ErrNotFound         = errors.New("loader: artifact not found")
	ErrPermissionDenied = errors.New("loader: permission denied")
	ErrTooLarge         = errors.New("loader: artifact exceeds maximum size")
)

// Digester computes a named digest algorithm over a byte buffer. The default
// implementation is SHA-256; spec.md §3 treats hashing as an injectable
// capability, not a fixed cryptographic commitment baked into the loader.
type Digester interface {
	Algorithm() string
	Sum(data []byte) string
}

// sha256Digester is the default Digester.
type sha256Digester struct{}

func (sha256Digester) Algorithm() string { return "sha256" }

func (sha256Digester) Sum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// DefaultDigester returns the SHA-256 Digester used when no other capability
// is injected.
func DefaultDigester() Digester { return sha256Digester{} }

// Hash is the artifact's content digest, per spec.md §6's wire format.
type Hash struct {
	Algorithm string `json:"algorithm"`
	Value     string `json:"value"`
}

// Artifact is an immutable loaded binary handle, per spec.md §3.
type Artifact struct {
	Path      string
	SizeBytes int64
	Hash      Hash
	Bytes     []byte
}

// Load reads path, bounds its size, and computes its digest via digester (nil
// selects DefaultDigester). Path is informational only; it is copied into the
// Artifact for reporting but never reparsed from.
func Load(path string, digester Digester) (*Artifact, error) {
	if digester == nil {
		digester = DefaultDigester()
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, wrapStatError(path, err)
	}
	if info.Size() > MaxArtifactBytes {
		return nil, fmt.Errorf("%w: %s is %d bytes (max %d)", ErrTooLarge, path, info.Size(), MaxArtifactBytes)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, wrapStatError(path, err)
	}
	if int64(len(data)) > MaxArtifactBytes {
		return nil, fmt.Errorf("%w: %s is %d bytes (max %d)", ErrTooLarge, path, len(data), MaxArtifactBytes)
	}

	return &Artifact{
		Path:      path,
		SizeBytes: int64(len(data)),
		Hash:      Hash{Algorithm: digester.Algorithm(), Value: digester.Sum(data)},
		Bytes:     data,
	}, nil
}

func wrapStatError(path string, err error) error {
	switch {
	case errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	case errors.Is(err, os.ErrPermission):
		return fmt.Errorf("%w: %s", ErrPermissionDenied, path)
	default:
		return fmt.Errorf("loader: %s: %w", path, err)
	}
}
