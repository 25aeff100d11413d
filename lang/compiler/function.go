package compiler

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/corvidhall/lscvm/lang/ast"
	"github.com/corvidhall/lscvm/lang/numenc"
	"github.com/corvidhall/lscvm/lang/opcode"
)

// FunctionEntry is a function-table entry: the position at which the
// function's body begins, and its emitted opcode body (including the
// trailing RETURN). Offset is measured from the start of the function
// table, not from the start of the program; the absolute VM
// instruction-pointer position of the body is FunctionOffsetStart+Offset.
type FunctionEntry struct {
	Offset  int
	Opcodes string
}

// FunctionTable is the compiler's ordered function table (spec §3): a name
// to FunctionEntry map that preserves insertion order, since the Go map
// backing it does not. Entries are never removed once added.
type FunctionTable struct {
	order   []string
	entries map[string]*FunctionEntry
}

func newFunctionTable() *FunctionTable {
	return &FunctionTable{entries: make(map[string]*FunctionEntry)}
}

// Reserve creates an entry for name at offset, before its body has been
// compiled (spec §4.5 step 1), so that a function calling itself can
// resolve its own call target. It fails if name is already reserved:
// redefining a function is not part of the supported source subset.
func (t *FunctionTable) Reserve(name string, offset int) (*FunctionEntry, error) {
	if _, exists := t.entries[name]; exists {
		return nil, fmt.Errorf("function %q already defined", name)
	}
	e := &FunctionEntry{Offset: offset}
	t.entries[name] = e
	t.order = append(t.order, name)
	return e, nil
}

// Lookup resolves name to its FunctionEntry. Only functions compiled
// earlier in source order (or the function currently being compiled, via
// its own reserved entry) are resolvable; spec §4.6 compiles functions in
// source order with no backpatching across siblings, so a call from a
// function body to a function defined later in the file is an
// undefined-function error. Top-level statements are lowered after every
// function has been compiled, so they can call any of them.
func (t *FunctionTable) Lookup(name string) (*FunctionEntry, bool) {
	e, ok := t.entries[name]
	return e, ok
}

// Names returns the function names in insertion (source) order.
func (t *FunctionTable) Names() []string {
	return slices.Clone(t.order)
}

// TotalLength returns the combined length of every reserved function's
// emitted Opcodes, used to size the program prologue (spec §4.6 step 4).
func (t *FunctionTable) TotalLength() int {
	total := 0
	for _, name := range t.order {
		total += len(t.entries[name].Opcodes)
	}
	return total
}

// Concat returns every function body concatenated in insertion order,
// the layout the prologue's relative jump assumes.
func (t *FunctionTable) Concat() string {
	var b strings.Builder
	for _, name := range t.order {
		b.WriteString(t.entries[name].Opcodes)
	}
	return b.String()
}

// compileFunction implements spec §4.5.
func (c *Compiler) compileFunction(fn *ast.FunctionDef) error {
	entry, err := c.functions.Reserve(fn.Name, c.funcsLen)
	if err != nil {
		return errorf(KindUnsupported, fn.Pos, "%v", err)
	}

	for _, arg := range fn.Args {
		if _, err := c.heap.AllocLocal(arg); err != nil {
			return wrapCapacity(err, fn.Pos)
		}
	}

	var b strings.Builder

	// Prologue: pop each parameter into its local slot, in reverse
	// declaration order (spec §4.5 step 3): callers push args left-to-right,
	// so the last value pushed belongs to the last parameter.
	for i := len(fn.Args) - 1; i >= 0; i-- {
		offset, ok := c.heap.Resolve(fn.Args[i])
		if !ok {
			return errorf(KindUndefined, fn.Pos, "internal error: parameter %q not allocated", fn.Args[i])
		}
		b.WriteString(numenc.MustEncode(offset))
		b.WriteString(opcode.HEAP_WRITE.String())
	}

	if err := c.discoverFunctionLocals(fn.Body); err != nil {
		return wrapCapacity(err, fn.Pos)
	}

	for _, stmt := range fn.Body {
		s, err := c.lowerStmt(stmt)
		if err != nil {
			return err
		}
		b.WriteString(s)
	}
	b.WriteString(opcode.RETURN.String())

	body := b.String()
	entry.Opcodes = body
	c.heap.ClearLocals()
	c.funcsLen += len(body)
	c.log.Debug("function compiled", "name", fn.Name, "offset", entry.Offset, "body_length", len(body))
	return nil
}
