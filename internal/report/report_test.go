package report

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/0xphen/sebi/internal/classify"
	"github.com/0xphen/sebi/internal/loader"
	"github.com/0xphen/sebi/internal/rules"
	"github.com/0xphen/sebi/internal/signals"
)

func TestAssemble_WarningsDedupedAndSorted(t *testing.T) {
	art := &loader.Artifact{Path: "a.wasm", SizeBytes: 10, Hash: loader.Hash{Algorithm: "sha256", Value: "ab"}}
	catalog := rules.NewCatalog(rules.DefaultSizeParams())

	rep := Assemble(Tool{Name: "sebi", Version: "test"}, art, signals.Signals{}, catalog, nil,
		classify.Default(nil), StatusParseError, []string{"z warning", "a warning", "a warning"})

	require.Equal(t, []string{"a warning", "z warning"}, rep.Analysis.Warnings)
	require.Equal(t, StatusParseError, rep.Analysis.Status)
}

func TestAssemble_CatalogAlwaysFullFiveRules(t *testing.T) {
	art := &loader.Artifact{Hash: loader.Hash{Algorithm: "sha256", Value: "ab"}}
	catalog := rules.NewCatalog(rules.DefaultSizeParams())
	rep := Assemble(Tool{}, art, signals.Signals{}, catalog, nil, classify.Default(nil), StatusOK, nil)
	require.Len(t, rep.Rules.Catalog, 5)
}

func TestAssemble_EmptyListsSerializeAsNonNil(t *testing.T) {
	art := &loader.Artifact{Hash: loader.Hash{Algorithm: "sha256", Value: "ab"}}
	rep := Assemble(Tool{}, art, signals.Signals{}, nil, nil, classify.Default(nil), StatusOK, nil)
	require.NotNil(t, rep.Analysis.Warnings)
	require.NotNil(t, rep.Rules.Triggered)
}

func TestAssemble_SchemaVersionFixed(t *testing.T) {
	art := &loader.Artifact{Hash: loader.Hash{Algorithm: "sha256", Value: "ab"}}
	rep := Assemble(Tool{}, art, signals.Signals{}, nil, nil, classify.Default(nil), StatusOK, nil)
	require.Equal(t, "0.1.0", rep.SchemaVersion)
}
