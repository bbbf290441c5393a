package policyconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileYieldsDefault(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoad_NonexistentPathYieldsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoad_OverridesThresholdAndSeverity(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
policy: strict
size_threshold_bytes: 1024
size_rule_severity: High
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "strict", cfg.Policy)
	require.Equal(t, int64(1024), cfg.SizeThresholdBytes)
	require.Equal(t, "High", cfg.SizeRuleSeverity)

	sp := cfg.SizeParams()
	require.Equal(t, int64(1024), sp.ThresholdBytes)
}

func TestLoad_RejectsInvalidSeverity(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("size_rule_severity: Critical\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}
