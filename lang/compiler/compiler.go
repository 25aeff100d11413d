// Package compiler translates a parsed chunk of the supported source
// subset into an LSCVM opcode string (spec §4).
package compiler

import (
	"log/slog"
	"strings"

	"github.com/corvidhall/lscvm/internal/logging"
	"github.com/corvidhall/lscvm/lang/ast"
	"github.com/corvidhall/lscvm/lang/heap"
	"github.com/corvidhall/lscvm/lang/numenc"
	"github.com/corvidhall/lscvm/lang/opcode"
)

// Compiler holds all translation state for a single Compile call. A
// Compiler is single-use: construct a fresh one per chunk.
type Compiler struct {
	heap      *heap.Heap
	functions *FunctionTable
	funcsLen  int
	limits    heap.Limits
	log       *slog.Logger
}

// New returns a Compiler configured with lim.
func New(limits heap.Limits) *Compiler {
	return &Compiler{
		heap:      heap.New(limits),
		functions: newFunctionTable(),
		limits:    limits,
		log:       logging.Default(logging.Translator),
	}
}

// NewWithDefaults returns a Compiler using spec §3's default region layout.
func NewWithDefaults() *Compiler {
	return New(heap.NewLimits())
}

// SetLogger overrides the Compiler's diagnostic logger (the CLI wires in
// one configured from internal/config's log level; tests and library
// callers are free to leave the default in place).
func (c *Compiler) SetLogger(l *slog.Logger) {
	c.log = l
}

// Compile implements spec §4.6: top-level discovery, then every top-level
// FunctionDef compiled in source order, then (if any functions exist) a
// prologue jumping over the function table, then the remaining top-level
// statements lowered in order.
func Compile(chunk *ast.Chunk) (string, error) {
	return NewWithDefaults().Compile(chunk)
}

// Compile runs the full translation pipeline against chunk.
func (c *Compiler) Compile(chunk *ast.Chunk) (string, error) {
	if err := c.discoverTopLevel(chunk.Body); err != nil {
		return "", wrapCapacity(err, 0)
	}
	c.log.Debug("top-level discovery complete", "statements", len(chunk.Body))

	var rest []ast.Stmt
	for _, stmt := range chunk.Body {
		fn, ok := stmt.(*ast.FunctionDef)
		if !ok {
			rest = append(rest, stmt)
			continue
		}
		if err := c.compileFunction(fn); err != nil {
			return "", err
		}
	}

	var program strings.Builder
	if len(c.functions.Names()) > 0 {
		c.log.Debug("function table built", "functions", c.functions.Names(), "total_length", c.functions.TotalLength())
		prologue, err := c.buildPrologue()
		if err != nil {
			return "", err
		}
		program.WriteString(prologue)
		program.WriteString(c.functions.Concat())
	}

	body, err := c.lowerStmts(rest)
	if err != nil {
		return "", err
	}
	program.WriteString(body)

	return program.String(), nil
}

// buildPrologue implements spec §4.6 step 4: a relative GO jump over the
// concatenated function table, padded with NOP so the jump instruction
// sits at FunctionOffsetStart-1 and the function table itself always
// starts at FunctionOffsetStart, the fixed origin every function-table
// offset (spec §3, §4.5) is computed relative to.
func (c *Compiler) buildPrologue() (string, error) {
	total := c.functions.TotalLength()
	enc, err := numenc.Encode(total)
	if err != nil {
		return "", errorf(KindCapacity, 0, "function table prologue: %v", err)
	}

	// The GO opcode must land at FunctionOffsetStart-1 so that, once executed,
	// the instruction pointer advances to FunctionOffsetStart+total: exactly
	// past the function table, which begins at FunctionOffsetStart.
	padTo := c.limits.FunctionOffsetStart - 1
	if len(enc)+1 > c.limits.FunctionOffsetStart {
		return "", errorf(KindCapacity, 0,
			"function table jump encoding (%d chars) does not fit before FUNCTION_OFFSET_START (%d)",
			len(enc)+1, c.limits.FunctionOffsetStart)
	}

	var b strings.Builder
	b.WriteString(enc)
	for b.Len() < padTo {
		b.WriteString(opcode.NOP.String())
	}
	b.WriteString(opcode.GO.String())
	return b.String(), nil
}
