package heap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocGlobalSequential(t *testing.T) {
	h := New(NewLimits())

	a, err := h.AllocGlobal("a")
	require.NoError(t, err)
	assert.Equal(t, VariableOffset, a)

	b, err := h.AllocGlobal("b")
	require.NoError(t, err)
	assert.Equal(t, VariableOffset+1, b)

	off, ok := h.Resolve("a")
	assert.True(t, ok)
	assert.Equal(t, a, off)
}

func TestAllocLocalStacksAboveGlobals(t *testing.T) {
	h := New(NewLimits())
	_, err := h.AllocGlobal("g")
	require.NoError(t, err)

	l, err := h.AllocLocal("x")
	require.NoError(t, err)
	assert.Equal(t, VariableOffset+1, l)
}

func TestResolvePrefersLocals(t *testing.T) {
	h := New(NewLimits())
	gOff, err := h.AllocGlobal("n")
	require.NoError(t, err)
	lOff, err := h.AllocLocal("n")
	require.NoError(t, err)
	require.NotEqual(t, gOff, lOff)

	off, ok := h.Resolve("n")
	require.True(t, ok)
	assert.Equal(t, lOff, off)
}

func TestClearLocals(t *testing.T) {
	h := New(NewLimits())
	_, err := h.AllocLocal("x")
	require.NoError(t, err)
	assert.True(t, h.HasLocal("x"))

	h.ClearLocals()
	assert.False(t, h.HasLocal("x"))
	_, ok := h.Resolve("x")
	assert.False(t, ok)
}

func TestAllocArray(t *testing.T) {
	h := New(NewLimits())
	arr, err := h.AllocArray("a", 5)
	require.NoError(t, err)
	assert.Equal(t, ArrayOffset, arr.Offset)
	assert.Equal(t, 5, arr.Size)

	arr2, err := h.AllocArray("b", 3)
	require.NoError(t, err)
	assert.Equal(t, ArrayOffset+5, arr2.Offset)
}

func TestCapacityErrors(t *testing.T) {
	h := New(Limits{MaxVariables: 2, VariableOffset: 0, MaxArray: 3, ArrayOffset: 100, FunctionOffsetStart: 10})

	_, err := h.AllocGlobal("a")
	require.NoError(t, err)
	_, err = h.AllocGlobal("b")
	require.NoError(t, err)
	_, err = h.AllocGlobal("c")
	require.Error(t, err)
	var capErr *CapacityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, "MAX_VARIABLES", capErr.Limit)

	_, err = h.AllocArray("arr", 4)
	require.Error(t, err)
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, "MAX_ARRAY", capErr.Limit)
}

func TestIsGlobalIsArray(t *testing.T) {
	h := New(NewLimits())
	_, err := h.AllocGlobal("g")
	require.NoError(t, err)
	_, err = h.AllocArray("arr", 2)
	require.NoError(t, err)

	assert.True(t, h.IsGlobal("g"))
	assert.False(t, h.IsGlobal("arr"))
	assert.True(t, h.IsArray("arr"))
	assert.False(t, h.IsArray("g"))
}
