package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvidhall/lscvm/lang/ast"
	"github.com/corvidhall/lscvm/lang/opcode"
)

func TestFunctionTableReserveAndLookup(t *testing.T) {
	ft := newFunctionTable()
	entry, err := ft.Reserve("add", 0)
	require.NoError(t, err)
	assert.Equal(t, 0, entry.Offset)

	found, ok := ft.Lookup("add")
	require.True(t, ok)
	assert.Same(t, entry, found)

	_, err = ft.Reserve("add", 4)
	assert.Error(t, err, "redefining a function must fail")
}

func TestFunctionTableOrderPreserved(t *testing.T) {
	ft := newFunctionTable()
	_, err := ft.Reserve("a", 0)
	require.NoError(t, err)
	_, err = ft.Reserve("b", 3)
	require.NoError(t, err)
	ft.entries["a"].Opcodes = "xyz"
	ft.entries["b"].Opcodes = "qr"

	assert.Equal(t, []string{"a", "b"}, ft.Names())
	assert.Equal(t, 5, ft.TotalLength())
	assert.Equal(t, "xyzqr", ft.Concat())
}

func TestCompileFunctionPrologueAndReturn(t *testing.T) {
	c := newTestCompiler(t)
	fn := &ast.FunctionDef{
		Name: "add",
		Args: []string{"a", "b"},
		Body: []ast.Stmt{
			&ast.Return{Value: &ast.BinOp{Op: ast.Add, Left: &ast.Name{Ident: "a"}, Right: &ast.Name{Ident: "b"}}},
		},
	}
	require.NoError(t, c.compileFunction(fn))

	entry, ok := c.functions.Lookup("add")
	require.True(t, ok)
	assert.True(t, opcode.ValidString(entry.Opcodes))
	assert.Equal(t, byte(opcode.RETURN), entry.Opcodes[len(entry.Opcodes)-1])
	assert.Equal(t, 2, countOccurrences(entry.Opcodes, opcode.HEAP_WRITE), "one write per parameter")
	assert.False(t, c.heap.HasLocal("a"), "locals are cleared once the function is compiled")
}

func TestCompileFunctionRedefinitionRejected(t *testing.T) {
	c := newTestCompiler(t)
	fn := &ast.FunctionDef{Name: "f", Body: []ast.Stmt{&ast.Return{Value: &ast.Num{Value: 0}}}}
	require.NoError(t, c.compileFunction(fn))
	err := c.compileFunction(fn)
	require.Error(t, err)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, KindUnsupported, ce.Kind)
}

func TestCompileFunctionArrayLocalRejected(t *testing.T) {
	c := newTestCompiler(t)
	fn := &ast.FunctionDef{
		Name: "f",
		Body: []ast.Stmt{
			&ast.Assign{Target: &ast.Name{Ident: "arr"}, Value: &ast.ListExpr{Elts: []ast.Expr{&ast.Num{Value: 1}}}},
			&ast.Return{Value: &ast.Num{Value: 0}},
		},
	}
	err := c.compileFunction(fn)
	require.Error(t, err)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, KindUnsupported, ce.Kind)
}
