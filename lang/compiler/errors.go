package compiler

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/corvidhall/lscvm/lang/ast"
	"github.com/corvidhall/lscvm/lang/heap"
)

// Kind categorizes a CompileError per spec §7's two fatal error categories
// (plus KindUndefined for the "unknown variable"/"undefined function"
// hard errors called out separately in that section).
type Kind int

const (
	// KindCapacity: a user-adjustable constant is insufficient (too many
	// variables, arrays, too-long function prologue, array region full).
	KindCapacity Kind = iota
	// KindUnsupported: the AST contains a node kind, operator, or shape the
	// compiler cannot lower.
	KindUnsupported
	// KindUndefined: unknown variable at read or write, or call to an
	// undefined function.
	KindUndefined
)

func (k Kind) String() string {
	switch k {
	case KindCapacity:
		return "capacity"
	case KindUnsupported:
		return "unsupported"
	case KindUndefined:
		return "undefined"
	default:
		return "error"
	}
}

// CompileError is a single fatal translation error, with a source line
// reference where available (spec §7). There is no partial compilation: the
// first CompileError aborts the whole translation.
type CompileError struct {
	Kind Kind
	Pos  ast.Pos // 0 if unknown
	Msg  string
}

func (e *CompileError) Error() string {
	if e.Pos == 0 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	}
	return fmt.Sprintf("line %d: %s: %s", e.Pos, e.Kind, e.Msg)
}

// errorf builds a *CompileError, the only constructor lowering code should
// use so every error carries a Kind.
func errorf(kind Kind, pos ast.Pos, format string, args ...interface{}) *CompileError {
	return &CompileError{Kind: kind, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// ErrorList collects CompileErrors, mirroring the teacher's
// scanner.ErrorList pattern. lang/compiler never accumulates more than one
// error in practice (translation aborts on first failure, per spec §7):
// Compile returns that single *CompileError, not an ErrorList. ErrorList is
// kept as a collection type for callers that gather several errors.
type ErrorList []*CompileError

func (el ErrorList) Error() string {
	switch len(el) {
	case 0:
		return "no errors"
	case 1:
		return el[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d errors:\n", len(el))
	for _, e := range el {
		b.WriteString("  ")
		b.WriteString(e.Error())
		b.WriteByte('\n')
	}
	return b.String()
}

// Sort orders errors by source position, unknown positions (0) last.
func (el ErrorList) Sort() {
	sort.SliceStable(el, func(i, j int) bool {
		pi, pj := el[i].Pos, el[j].Pos
		if pi == 0 {
			return false
		}
		if pj == 0 {
			return true
		}
		return pi < pj
	})
}

// Err returns nil if el is empty, else el itself as an error.
func (el ErrorList) Err() error {
	if len(el) == 0 {
		return nil
	}
	return el
}

// wrapCapacity normalizes an error returned by lang/heap into a
// *CompileError. Discovery and function compilation call heap allocators
// directly, so their errors surface as *heap.CapacityError rather than
// already being a *CompileError; err passed through unchanged if it is
// already one (or nil).
func wrapCapacity(err error, pos ast.Pos) error {
	if err == nil {
		return nil
	}
	var ce *CompileError
	if errors.As(err, &ce) {
		return ce
	}
	var el ErrorList
	if errors.As(err, &el) {
		return el
	}
	var capErr *heap.CapacityError
	if errors.As(err, &capErr) {
		return errorf(KindCapacity, pos, "%v", capErr)
	}
	return errorf(KindCapacity, pos, "%v", err)
}
