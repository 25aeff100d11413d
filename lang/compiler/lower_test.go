package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvidhall/lscvm/lang/ast"
	"github.com/corvidhall/lscvm/lang/heap"
	"github.com/corvidhall/lscvm/lang/opcode"
)

func newTestCompiler(t *testing.T) *Compiler {
	t.Helper()
	return New(heap.NewLimits())
}

func TestLowerExprName(t *testing.T) {
	c := newTestCompiler(t)
	_, err := c.heap.AllocGlobal("x")
	require.NoError(t, err)

	out, err := c.lowerExpr(&ast.Name{Ident: "x"})
	require.NoError(t, err)
	assert.True(t, opcode.ValidString(out))
	assert.Equal(t, byte(opcode.HEAP_READ), out[len(out)-1])
}

func TestLowerExprUnknownName(t *testing.T) {
	c := newTestCompiler(t)
	_, err := c.lowerExpr(&ast.Name{Ident: "missing"})
	require.Error(t, err)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, KindUndefined, ce.Kind)
}

func TestLowerListLiteralRejectedAsExpr(t *testing.T) {
	c := newTestCompiler(t)
	_, err := c.lowerExpr(&ast.ListExpr{Elts: []ast.Expr{&ast.Num{Value: 1}}})
	require.Error(t, err)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, KindUnsupported, ce.Kind)
}

func TestLowerBinOp(t *testing.T) {
	c := newTestCompiler(t)
	out, err := c.lowerExpr(&ast.BinOp{
		Op:    ast.Add,
		Left:  &ast.Num{Value: 2},
		Right: &ast.Num{Value: 3},
	})
	require.NoError(t, err)
	assert.True(t, opcode.ValidString(out))
	assert.Equal(t, byte(opcode.STACK_ADD), out[len(out)-1])
}

func TestLowerCompareEachOperator(t *testing.T) {
	c := newTestCompiler(t)
	for _, op := range []ast.CompareOp{ast.Eq, ast.NotEq, ast.Lt, ast.LtE, ast.Gt, ast.GtE} {
		out, err := c.lowerCompare(&ast.Compare{
			Op:    op,
			Left:  &ast.Num{Value: 3},
			Right: &ast.Num{Value: 2},
		})
		require.NoError(t, err, op)
		assert.True(t, opcode.ValidString(out), op)
	}
}

func TestLowerCallUndefinedFunction(t *testing.T) {
	c := newTestCompiler(t)
	_, err := c.lowerCall(&ast.Call{Func: "nope", Args: nil})
	require.Error(t, err)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, KindUndefined, ce.Kind)
}

func TestLowerCallPuts(t *testing.T) {
	c := newTestCompiler(t)
	out, err := c.lowerCall(&ast.Call{Func: ast.BuiltinPuts, Args: []ast.Expr{&ast.Num{Value: 1}}})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestLowerIfStructure(t *testing.T) {
	c := newTestCompiler(t)
	out, err := c.lowerIf(&ast.If{
		Test: &ast.Compare{Op: ast.Gt, Left: &ast.Num{Value: 1}, Right: &ast.Num{Value: 0}},
		Body: []ast.Stmt{&ast.ExprStmt{Value: &ast.Call{Func: ast.BuiltinPutchar, Args: []ast.Expr{&ast.Num{Value: 65}}}}},
	})
	require.NoError(t, err)
	assert.True(t, opcode.ValidString(out))
	assert.Contains(t, out, opcode.CONDITIONAL_JUMP.String())
}

func TestLowerWhileDropsJumpLiteralsOnExit(t *testing.T) {
	c := newTestCompiler(t)
	_, err := c.heap.AllocGlobal("i")
	require.NoError(t, err)

	out, err := c.lowerWhile(&ast.While{
		Test: &ast.Compare{Op: ast.Lt, Left: &ast.Name{Ident: "i"}, Right: &ast.Num{Value: 10}},
		Body: []ast.Stmt{&ast.AugAssign{Target: &ast.Name{Ident: "i"}, Op: ast.Add, Value: &ast.Num{Value: 1}}},
	})
	require.NoError(t, err)
	assert.True(t, opcode.ValidString(out))
	// the loop cleans up its two duplicated jump-distance copies on exit
	assert.Equal(t, byte(opcode.STACK_DROP), out[len(out)-1])
	assert.Equal(t, byte(opcode.STACK_DROP), out[len(out)-2])
}

func TestLowerAssignArrayLiteral(t *testing.T) {
	c := newTestCompiler(t)
	_, err := c.heap.AllocArray("a", 2)
	require.NoError(t, err)

	out, err := c.lowerAssign(&ast.Assign{
		Target: &ast.Name{Ident: "a"},
		Value:  &ast.ListExpr{Elts: []ast.Expr{&ast.Num{Value: 7}, &ast.Num{Value: 8}}},
	})
	require.NoError(t, err)
	assert.True(t, opcode.ValidString(out))
	assert.Equal(t, 2, countOccurrences(out, opcode.HEAP_WRITE))
}

func countOccurrences(s string, op opcode.Opcode) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if opcode.Opcode(s[i]) == op {
			n++
		}
	}
	return n
}
