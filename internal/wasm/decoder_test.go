package wasm

import (
	"testing"

	"github.com/0xphen/sebi/internal/wasmtest"
	"github.com/stretchr/testify/require"
)

func TestParse_InvalidMagic(t *testing.T) {
	_, err := Parse([]byte{0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00})
	require.ErrorIs(t, err, ErrInvalidMagic)
}

func TestParse_TooShort(t *testing.T) {
	_, err := Parse([]byte{0x00, 0x61})
	require.Error(t, err)
}

func TestParse_EmptyModule(t *testing.T) {
	result, err := Parse(wasmtest.Module())
	require.NoError(t, err)
	require.Equal(t, 0, result.Facts.SectionCount)
	require.Equal(t, 0, result.Facts.FunctionCount)
	require.Empty(t, result.Facts.Memories)
	require.False(t, result.Unsupported)
}

func TestParse_SafeCounterScenario(t *testing.T) {
	max := uint32(4)
	mod := wasmtest.Module(
		wasmtest.MemorySection(1, &max),
		wasmtest.TypeSection(1),
		wasmtest.FunctionSection(1),
		wasmtest.CodeSection(wasmtest.FuncBody([]byte{wasmtest.OpEnd})),
	)
	result, err := Parse(mod)
	require.NoError(t, err)
	require.Len(t, result.Facts.Memories, 1)
	require.Equal(t, uint32(1), result.Facts.Memories[0].MinPages)
	require.True(t, result.Facts.Memories[0].HasMax)
	require.Equal(t, uint32(4), result.Facts.Memories[0].MaxPages)
	require.Equal(t, 0, result.Facts.LoopCount)
	require.Equal(t, 0, result.Facts.CallIndirectCount)
	require.Equal(t, 0, result.Facts.MemoryGrowCount)
	require.Equal(t, 1, result.Facts.FunctionCount)
}

func TestParse_UnboundedMemoryWithNestedLoops(t *testing.T) {
	body := wasmtest.FuncBody(wasmtest.Concat(
		wasmtest.Loop(wasmtest.Loop([]byte{wasmtest.OpNop})),
		[]byte{wasmtest.OpEnd},
	))
	mod := wasmtest.Module(
		wasmtest.MemorySection(2, nil),
		wasmtest.TypeSection(1),
		wasmtest.FunctionSection(1),
		wasmtest.CodeSection(body),
	)
	result, err := Parse(mod)
	require.NoError(t, err)
	require.False(t, result.Facts.Memories[0].HasMax)
	require.Equal(t, 2, result.Facts.LoopCount)
}

func TestParse_DynamicDispatchAndGrowth(t *testing.T) {
	max := uint32(256)
	body := wasmtest.FuncBody(wasmtest.Concat(
		wasmtest.MemoryGrow(),
		wasmtest.CallIndirect(0, 0),
		[]byte{wasmtest.OpEnd},
	))
	mod := wasmtest.Module(
		wasmtest.MemorySection(2, &max),
		wasmtest.TypeSection(1),
		wasmtest.FunctionSection(1),
		wasmtest.CodeSection(body),
	)
	result, err := Parse(mod)
	require.NoError(t, err)
	require.Equal(t, 1, result.Facts.MemoryGrowCount)
	require.Equal(t, 1, result.Facts.CallIndirectCount)
	require.True(t, result.Facts.Memories[0].HasMax)
}

func TestParse_TripleNestedLoopCounting(t *testing.T) {
	body := wasmtest.FuncBody(wasmtest.Concat(
		wasmtest.Loop(wasmtest.Loop(wasmtest.Loop([]byte{wasmtest.OpNop}))),
		[]byte{wasmtest.OpEnd},
	))
	mod := wasmtest.Module(
		wasmtest.TypeSection(1),
		wasmtest.FunctionSection(1),
		wasmtest.CodeSection(body),
	)
	result, err := Parse(mod)
	require.NoError(t, err)
	require.Equal(t, 3, result.Facts.LoopCount)
}

func TestParse_MultipleMemoryGrowAcrossFunctions(t *testing.T) {
	bodyA := wasmtest.FuncBody(wasmtest.Concat(wasmtest.MemoryGrow(), []byte{wasmtest.OpEnd}))
	bodyB := wasmtest.FuncBody(wasmtest.Concat(
		wasmtest.MemoryGrow(), wasmtest.MemoryGrow(), []byte{wasmtest.OpEnd},
	))
	mod := wasmtest.Module(
		wasmtest.TypeSection(1),
		wasmtest.FunctionSection(2),
		wasmtest.CodeSection(bodyA, bodyB),
	)
	result, err := Parse(mod)
	require.NoError(t, err)
	require.Equal(t, 3, result.Facts.MemoryGrowCount)
}

func TestParse_ImportedBoundedMemory(t *testing.T) {
	max := uint32(16)
	mod := wasmtest.Module(
		wasmtest.ImportMemorySection("env", "memory", 1, &max),
	)
	result, err := Parse(mod)
	require.NoError(t, err)
	require.Len(t, result.Facts.Memories, 1)
	require.Equal(t, "env", result.Facts.Imports[0].Module)
	require.True(t, result.Facts.Memories[0].HasMax)
}

func TestParse_ImportedUnboundedMemory(t *testing.T) {
	mod := wasmtest.Module(
		wasmtest.ImportMemorySection("env", "memory", 2, nil),
	)
	result, err := Parse(mod)
	require.NoError(t, err)
	require.False(t, result.Facts.Memories[0].HasMax)
}

func TestParse_ExportsRecorded(t *testing.T) {
	mod := wasmtest.Module(
		wasmtest.TypeSection(1),
		wasmtest.FunctionSection(1),
		wasmtest.ExportSection(wasmtest.Export{Name: "run", Kind: 0x00, Index: 0}),
		wasmtest.CodeSection(wasmtest.FuncBody([]byte{wasmtest.OpEnd})),
	)
	result, err := Parse(mod)
	require.NoError(t, err)
	require.Len(t, result.Facts.Exports, 1)
	require.Equal(t, "run", result.Facts.Exports[0].Name)
}

func TestParse_UnsupportedOpcodeDegradesOnlyThatFunction(t *testing.T) {
	bad := wasmtest.FuncBody([]byte{0xff, wasmtest.OpEnd}) // 0xff is not a valid opcode
	good := wasmtest.FuncBody(wasmtest.Concat(wasmtest.MemoryGrow(), []byte{wasmtest.OpEnd}))
	mod := wasmtest.Module(
		wasmtest.TypeSection(1),
		wasmtest.FunctionSection(2),
		wasmtest.CodeSection(bad, good),
	)
	result, err := Parse(mod)
	require.NoError(t, err)
	require.True(t, result.Unsupported)
	require.Len(t, result.Warnings, 1)
	require.Equal(t, 1, result.Facts.MemoryGrowCount)
}
