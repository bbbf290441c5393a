package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_ComputesSizeAndDigest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "artifact.wasm")
	require.NoError(t, os.WriteFile(path, []byte("hello wasm"), 0o644))

	art, err := Load(path, nil)
	require.NoError(t, err)
	require.Equal(t, int64(len("hello wasm")), art.SizeBytes)
	require.Equal(t, "sha256", art.Hash.Algorithm)
	require.Len(t, art.Hash.Value, 64)
	require.Equal(t, path, art.Path)
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.wasm"), nil)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLoad_TooLarge(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big.wasm")
	require.NoError(t, os.WriteFile(path, make([]byte, MaxArtifactBytes+1), 0o644))

	_, err := Load(path, nil)
	require.ErrorIs(t, err, ErrTooLarge)
}

func TestLoad_DeterministicDigest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.wasm")
	require.NoError(t, os.WriteFile(path, []byte{0x00, 0x61, 0x73, 0x6d}, 0o644))

	a1, err := Load(path, nil)
	require.NoError(t, err)
	a2, err := Load(path, nil)
	require.NoError(t, err)
	require.Equal(t, a1.Hash, a2.Hash)
}

type fakeDigester struct{}

func (fakeDigester) Algorithm() string       { return "fake" }
func (fakeDigester) Sum(data []byte) string { return "deadbeef" }

func TestLoad_InjectedDigester(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.wasm")
	require.NoError(t, os.WriteFile(path, []byte{0x01}, 0o644))

	art, err := Load(path, fakeDigester{})
	require.NoError(t, err)
	require.Equal(t, "fake", art.Hash.Algorithm)
	require.Equal(t, "deadbeef", art.Hash.Value)
}
