// Package heap implements the LSCVM compiler's linear heap memory map: three
// monotonic bump allocators (globals, locals, arrays) over disjoint regions,
// plus the symbol tables that back variable and array name resolution
// (spec §3, §4.2).
package heap

import (
	"fmt"

	"github.com/dolthub/swiss"
)

// Default region layout (spec §3). Overridable via internal/config.
const (
	FunctionOffsetStart = 10
	MaxVariables        = 32
	VariableOffset      = 0
	MaxArray            = 128
	ArrayOffset         = 32
)

// Array is a symbol-table entry for an array: its base heap offset and
// element count.
type Array struct {
	Offset int
	Size   int
}

// Limits configures the capacity of each region. Zero-value Limits is
// invalid; use NewLimits for the spec-default layout or build one from
// internal/config for a user-adjusted layout.
type Limits struct {
	FunctionOffsetStart int
	MaxVariables        int
	VariableOffset      int
	MaxArray            int
	ArrayOffset         int
}

// NewLimits returns the spec §3 default region layout.
func NewLimits() Limits {
	return Limits{
		FunctionOffsetStart: FunctionOffsetStart,
		MaxVariables:        MaxVariables,
		VariableOffset:      VariableOffset,
		MaxArray:            MaxArray,
		ArrayOffset:         ArrayOffset,
	}
}

// Heap owns the three symbol tables (globals, locals, arrays) and the bump
// allocators that assign their offsets. A Heap is owned by exactly one
// lang/compiler.Compiler for the lifetime of a single translation.
type Heap struct {
	limits Limits

	globals *swiss.Map[string, int]
	locals  *swiss.Map[string, int]
	arrays  *swiss.Map[string, Array]

	numGlobals int
	numLocals  int
	arraySize  int // sum of allocated array sizes so far
}

// New returns a Heap configured with lim (use NewLimits() for spec
// defaults).
func New(lim Limits) *Heap {
	return &Heap{
		limits:  lim,
		globals: swiss.NewMap[string, int](uint32(lim.MaxVariables)),
		locals:  swiss.NewMap[string, int](uint32(lim.MaxVariables)),
		arrays:  swiss.NewMap[string, Array](uint32(lim.MaxArray)),
	}
}

// Limits returns the region layout this heap was constructed with.
func (h *Heap) Limits() Limits { return h.limits }

// CapacityError reports that a region's capacity was exceeded; the message
// names the exceeded limit, per spec §7.
type CapacityError struct {
	Limit string
	Max   int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("heap: capacity exceeded: %s (max %d)", e.Limit, e.Max)
}

// AllocGlobal assigns name the next global offset
// (VariableOffset + count-of-globals-so-far). It fails once the number of
// globals would exceed MaxVariables; locals are not counted here, since
// they are allocated only after every global (spec §4.2).
func (h *Heap) AllocGlobal(name string) (int, error) {
	offset := h.limits.VariableOffset + h.numGlobals
	if offset-h.limits.VariableOffset >= h.limits.MaxVariables {
		return 0, &CapacityError{Limit: "MAX_VARIABLES", Max: h.limits.MaxVariables}
	}
	h.globals.Put(name, offset)
	h.numGlobals++
	return offset, nil
}

// AllocLocal assigns name the next local offset, immediately above all
// currently-known globals (spec §4.2). Globals must therefore be fully
// allocated before any function is compiled.
func (h *Heap) AllocLocal(name string) (int, error) {
	offset := h.limits.VariableOffset + h.numGlobals + h.numLocals
	if offset-h.limits.VariableOffset >= h.limits.MaxVariables {
		return 0, &CapacityError{Limit: "MAX_VARIABLES", Max: h.limits.MaxVariables}
	}
	h.locals.Put(name, offset)
	h.numLocals++
	return offset, nil
}

// AllocArray assigns name an array of size cells, immediately above all
// previously allocated arrays.
func (h *Heap) AllocArray(name string, size int) (Array, error) {
	offset := h.limits.ArrayOffset + h.arraySize
	if h.arraySize+size > h.limits.MaxArray {
		return Array{}, &CapacityError{Limit: "MAX_ARRAY", Max: h.limits.MaxArray}
	}
	arr := Array{Offset: offset, Size: size}
	h.arrays.Put(name, arr)
	h.arraySize += size
	return arr, nil
}

// ClearLocals empties the local symbol table, called at the end of each
// function compilation (spec §4.5 step 7). Globals and arrays are
// untouched.
func (h *Heap) ClearLocals() {
	h.locals = swiss.NewMap[string, int](uint32(h.limits.MaxVariables))
	h.numLocals = 0
}

// Resolve looks up name as a variable, checking locals first then globals,
// per spec §4.2's address-resolution rule. The second return value is
// false if name is not a known variable.
func (h *Heap) Resolve(name string) (int, bool) {
	if off, ok := h.locals.Get(name); ok {
		return off, true
	}
	if off, ok := h.globals.Get(name); ok {
		return off, true
	}
	return 0, false
}

// Array looks up name in the array symbol table.
func (h *Heap) Array(name string) (Array, bool) {
	return h.arrays.Get(name)
}

// IsGlobal reports whether name is currently a known global (used by the
// discovery pass to detect re-declaration).
func (h *Heap) IsGlobal(name string) bool {
	_, ok := h.globals.Get(name)
	return ok
}

// HasLocal reports whether name is currently a known local (used by
// discovery to avoid re-allocating a name already bound, e.g. a
// parameter).
func (h *Heap) HasLocal(name string) bool {
	_, ok := h.locals.Get(name)
	return ok
}

// IsArray reports whether name is currently a known array.
func (h *Heap) IsArray(name string) bool {
	_, ok := h.arrays.Get(name)
	return ok
}
