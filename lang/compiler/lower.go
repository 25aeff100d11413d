package compiler

import (
	"strings"

	"github.com/corvidhall/lscvm/lang/ast"
	"github.com/corvidhall/lscvm/lang/numenc"
	"github.com/corvidhall/lscvm/lang/opcode"
)

// binOpOpcode maps an ast.BinOpKind to its LSCVM arithmetic opcode
// (spec §4.4).
func binOpOpcode(op ast.BinOpKind) opcode.Opcode {
	switch op {
	case ast.Add:
		return opcode.STACK_ADD
	case ast.Sub:
		return opcode.STACK_SUBTRACT
	case ast.Mult:
		return opcode.STACK_MULTIPLY
	case ast.Div:
		return opcode.STACK_DIVIDE
	default:
		return 0
	}
}

// lowerExpr lowers a single expression node, leaving exactly one value on
// the stack (spec §4.4's expression-stack-gain invariant).
func (c *Compiler) lowerExpr(e ast.Expr) (string, error) {
	switch n := e.(type) {
	case *ast.Name:
		offset, ok := c.heap.Resolve(n.Ident)
		if !ok {
			return "", errorf(KindUndefined, n.Pos, "unknown variable %q", n.Ident)
		}
		return numenc.MustEncode(offset) + opcode.HEAP_READ.String(), nil

	case *ast.Num:
		s, err := numenc.Encode(n.Value)
		if err != nil {
			return "", errorf(KindUnsupported, n.Pos, "numeric literal %d: %v", n.Value, err)
		}
		return s, nil

	case *ast.BinOp:
		op := binOpOpcode(n.Op)
		if op == 0 {
			return "", errorf(KindUnsupported, n.Pos, "unsupported binary operator %s", n.Op)
		}
		left, err := c.lowerExpr(n.Left)
		if err != nil {
			return "", err
		}
		right, err := c.lowerExpr(n.Right)
		if err != nil {
			return "", err
		}
		return left + right + op.String(), nil

	case *ast.BoolOp:
		if len(n.Values) < 2 {
			return "", errorf(KindUnsupported, n.Pos, "boolean operator needs at least two operands")
		}
		var b strings.Builder
		for _, v := range n.Values {
			s, err := c.lowerExpr(v)
			if err != nil {
				return "", err
			}
			b.WriteString(s)
		}
		var combine opcode.Opcode
		switch n.Op {
		case ast.And:
			combine = opcode.STACK_MULTIPLY
		case ast.Or:
			combine = opcode.STACK_ADD
		default:
			return "", errorf(KindUnsupported, n.Pos, "unsupported boolean operator")
		}
		for i := 0; i < len(n.Values)-1; i++ {
			b.WriteString(combine.String())
		}
		return b.String(), nil

	case *ast.Compare:
		return c.lowerCompare(n)

	case *ast.Subscript:
		return c.lowerSubscript(n, ast.Load)

	case *ast.Call:
		return c.lowerCall(n)

	case *ast.ListExpr:
		return "", errorf(KindUnsupported, n.Pos, "a list literal is only valid as the value of a top-level assignment")

	default:
		return "", errorf(KindUnsupported, e.Line(), "unsupported expression node")
	}
}

// lowerSubscript implements spec §4.4's Subscript handler: the array's base
// offset, plus the lowered index, added together to form the heap address,
// then either HEAP_READ (Load) or HEAP_WRITE (Store, value already pushed
// below the address by the caller).
func (c *Compiler) lowerSubscript(n *ast.Subscript, ctx ast.ExprContext) (string, error) {
	arr, ok := c.heap.Array(n.Array.Ident)
	if !ok {
		return "", errorf(KindUndefined, n.Pos, "unknown array %q", n.Array.Ident)
	}
	idx, err := c.lowerExpr(n.Index)
	if err != nil {
		return "", err
	}
	addr := numenc.MustEncode(arr.Offset) + idx + opcode.STACK_ADD.String()
	if ctx == ast.Store {
		return addr + opcode.HEAP_WRITE.String(), nil
	}
	return addr + opcode.HEAP_READ.String(), nil
}

// zeroToOne converts a raw value already on top of the stack into a 1 if it
// is zero, 0 otherwise (spec §4.4's "standard zero-to-one, nonzero-to-zero
// sequence"). The 3-character skip length is computed with the numeric
// encoder rather than hardcoded, since encode(0) and encode(1) are each
// guaranteed to be exactly one character.
func zeroToOne() string {
	skip := numenc.MustEncode(3) // length of: push0 push1 GO
	return skip +
		opcode.CONDITIONAL_JUMP.String() +
		numenc.MustEncode(0) +
		numenc.MustEncode(1) +
		opcode.GO.String() +
		numenc.MustEncode(1)
}

// nonzeroToOne is zeroToOne's mirror image: 1 if the raw value is nonzero,
// 0 if it is zero (used by NotEq, spec §4.4).
func nonzeroToOne() string {
	skip := numenc.MustEncode(3)
	return skip +
		opcode.CONDITIONAL_JUMP.String() +
		numenc.MustEncode(1) +
		numenc.MustEncode(1) +
		opcode.GO.String() +
		numenc.MustEncode(0)
}

// lowerCompare implements spec §4.4's Compare handler: exactly one operator
// and one comparator, synthesized from the single STACK_COMPARE primitive
// (0 on equal, +1 on left>right, -1 on left<right).
func (c *Compiler) lowerCompare(n *ast.Compare) (string, error) {
	left, err := c.lowerExpr(n.Left)
	if err != nil {
		return "", err
	}
	right, err := c.lowerExpr(n.Right)
	if err != nil {
		return "", err
	}
	base := left + right + opcode.STACK_COMPARE.String()

	switch n.Op {
	case ast.Eq:
		return base + zeroToOne(), nil
	case ast.NotEq:
		return base + nonzeroToOne(), nil
	case ast.Gt:
		return base + numenc.MustEncode(1) + opcode.STACK_SUBTRACT.String() + zeroToOne(), nil
	case ast.Lt:
		return base + numenc.MustEncode(1) + opcode.STACK_ADD.String() + zeroToOne(), nil
	case ast.GtE, ast.LtE:
		// GtE / LtE are under-specified by spec §4.4 beyond "duplicate the
		// adjusted compare result and test both for zero; two conditional
		// jumps and a STACK_DROP yield 1 when either holds" (see DESIGN.md).
		// This implementation composes the already-specified Eq and
		// Gt/Lt idioms with the already-specified boolean-Or combinator
		// (STACK_ADD): GtE = Eq(l,r) + Gt(l,r), LtE = Eq(l,r) + Lt(l,r). Since
		// STACK_COMPARE can only ever yield one of {-1,0,1}, at most one
		// operand of the Or is ever 1, so the sum is always exactly 0 or 1.
		eq := base + zeroToOne()
		var strict string
		if n.Op == ast.GtE {
			strict = base + numenc.MustEncode(1) + opcode.STACK_SUBTRACT.String() + zeroToOne()
		} else {
			strict = base + numenc.MustEncode(1) + opcode.STACK_ADD.String() + zeroToOne()
		}
		return eq + strict + opcode.STACK_ADD.String(), nil
	default:
		return "", errorf(KindUnsupported, n.Pos, "unsupported comparison operator")
	}
}

// lowerCall implements spec §4.4's Call handler.
func (c *Compiler) lowerCall(n *ast.Call) (string, error) {
	switch n.Func {
	case ast.BuiltinPutchar, ast.BuiltinPutint:
		if len(n.Args) != 1 {
			return "", errorf(KindUnsupported, n.Pos, "%s expects exactly one argument", n.Func)
		}
		arg, err := c.lowerExpr(n.Args[0])
		if err != nil {
			return "", err
		}
		if n.Func == ast.BuiltinPutchar {
			return arg + opcode.PRINT_ASCII.String(), nil
		}
		return arg + opcode.PRINT_NUM.String(), nil

	case ast.BuiltinPuts:
		// puts is a recognized built-in that emits no opcode (spec §4.4, §9).
		for _, a := range n.Args {
			if _, err := c.lowerExpr(a); err != nil {
				return "", err
			}
		}
		return "", nil
	}

	fn, ok := c.functions.Lookup(n.Func)
	if !ok {
		return "", errorf(KindUndefined, n.Pos, "call to undefined function %q", n.Func)
	}
	var b strings.Builder
	for _, a := range n.Args {
		s, err := c.lowerExpr(a)
		if err != nil {
			return "", err
		}
		b.WriteString(s)
	}
	// fn.Offset is relative to the function table's own start (spec §3,
	// §4.5); the absolute CALL target also needs FunctionOffsetStart, the
	// fixed origin the prologue's GO lands the instruction pointer at.
	b.WriteString(numenc.MustEncode(c.limits.FunctionOffsetStart + fn.Offset))
	b.WriteString(opcode.CALL.String())
	return b.String(), nil
}

// lowerStmts concatenates the lowering of each statement in order.
func (c *Compiler) lowerStmts(stmts []ast.Stmt) (string, error) {
	var b strings.Builder
	for _, s := range stmts {
		ls, err := c.lowerStmt(s)
		if err != nil {
			return "", err
		}
		b.WriteString(ls)
	}
	return b.String(), nil
}

// lowerStmt lowers a single statement node, with net stack effect zero
// (spec §4.4's statement-stack-neutrality invariant) except for ExprStmt,
// whose documented deviation is described on ast.ExprStmt and in spec §9.
func (c *Compiler) lowerStmt(s ast.Stmt) (string, error) {
	switch n := s.(type) {
	case *ast.Assign:
		return c.lowerAssign(n)
	case *ast.AugAssign:
		return c.lowerAugAssign(n)
	case *ast.If:
		return c.lowerIf(n)
	case *ast.While:
		return c.lowerWhile(n)
	case *ast.Return:
		val, err := c.lowerExpr(n.Value)
		if err != nil {
			return "", err
		}
		return val, nil
	case *ast.ExprStmt:
		val, err := c.lowerExpr(n.Value)
		if err != nil {
			return "", err
		}
		return val, nil
	case *ast.ImportFrom:
		if n.Module != "stubs" {
			return "", errorf(KindUnsupported, n.Pos, "unsupported import from %q", n.Module)
		}
		return "", nil
	case *ast.FunctionDef:
		// nested function definitions are never lowered inline; they are only
		// ever discovered and compiled at the top level (spec §4.6, §1 Non-goals).
		return "", errorf(KindUnsupported, n.Pos, "nested function definitions are not supported")
	default:
		return "", errorf(KindUnsupported, s.Line(), "unsupported statement node")
	}
}

// writeVar emits the opcodes to store the top-of-stack value into name's
// heap slot.
func (c *Compiler) writeVar(name string, pos ast.Pos) (string, error) {
	offset, ok := c.heap.Resolve(name)
	if !ok {
		return "", errorf(KindUndefined, pos, "unknown variable %q", name)
	}
	return numenc.MustEncode(offset) + opcode.HEAP_WRITE.String(), nil
}

// lowerAssign implements spec §4.4's three Assign shapes.
func (c *Compiler) lowerAssign(n *ast.Assign) (string, error) {
	if _, ok := n.Target.(*ast.ListExpr); ok {
		return "", errorf(KindUnsupported, n.Pos, "multi-target assignment is unsupported")
	}

	if name, ok := n.Target.(*ast.Name); ok {
		if list, ok := n.Value.(*ast.ListExpr); ok {
			arr, ok := c.heap.Array(name.Ident)
			if !ok {
				return "", errorf(KindUndefined, n.Pos, "unknown array %q", name.Ident)
			}
			var b strings.Builder
			for i, elt := range list.Elts {
				v, err := c.lowerExpr(elt)
				if err != nil {
					return "", err
				}
				b.WriteString(v)
				b.WriteString(numenc.MustEncode(arr.Offset + i))
				b.WriteString(opcode.HEAP_WRITE.String())
			}
			return b.String(), nil
		}

		val, err := c.lowerExpr(n.Value)
		if err != nil {
			return "", err
		}
		wr, err := c.writeVar(name.Ident, n.Pos)
		if err != nil {
			return "", err
		}
		return val + wr, nil
	}

	if sub, ok := n.Target.(*ast.Subscript); ok {
		val, err := c.lowerExpr(n.Value)
		if err != nil {
			return "", err
		}
		store, err := c.lowerSubscript(sub, ast.Store)
		if err != nil {
			return "", err
		}
		return val + store, nil
	}

	return "", errorf(KindUnsupported, n.Pos, "unsupported assignment target")
}

// lowerAugAssign implements spec §4.4's AugAssign handler.
func (c *Compiler) lowerAugAssign(n *ast.AugAssign) (string, error) {
	op := binOpOpcode(n.Op)
	if op == 0 {
		return "", errorf(KindUnsupported, n.Pos, "unsupported augmented-assignment operator")
	}
	read, err := c.lowerExpr(n.Target)
	if err != nil {
		return "", err
	}
	val, err := c.lowerExpr(n.Value)
	if err != nil {
		return "", err
	}
	write, err := c.writeVar(n.Target.Ident, n.Pos)
	if err != nil {
		return "", err
	}
	return read + val + op.String() + write, nil
}

// lowerIf implements spec §4.4's If handler.
func (c *Compiler) lowerIf(n *ast.If) (string, error) {
	test, err := c.lowerExpr(n.Test)
	if err != nil {
		return "", err
	}
	body, err := c.lowerStmts(n.Body)
	if err != nil {
		return "", err
	}
	orelse, err := c.lowerStmts(n.Orelse)
	if err != nil {
		return "", err
	}
	// the then-branch skips the else-branch on fallthrough
	body = body + numenc.MustEncode(len(orelse)) + opcode.GO.String()
	return test + numenc.MustEncode(len(body)) + opcode.CONDITIONAL_JUMP.String() + body + orelse, nil
}

// lowerWhile implements spec §4.6's backward-jump While pattern.
//
// "body'" (spec §4.4's While pseudocode) is taken to mean the body plus the
// trailing backward GO, i.e. the span the forward jump must clear entirely
// to exit the loop; see DESIGN.md for the full derivation of the two jump
// lengths.
func (c *Compiler) lowerWhile(n *ast.While) (string, error) {
	test, err := c.lowerExpr(n.Test)
	if err != nil {
		return "", err
	}
	body, err := c.lowerStmts(n.Body)
	if err != nil {
		return "", err
	}

	dup := numenc.MustEncode(0) + opcode.STACK_FIND.String()

	// The exit jump must clear the trailing backward GO as well as the body:
	// landing ON that GO would pop the surviving loop-counter duplicate and
	// jump backward again, turning loop exit into another iteration. So the
	// forward distance is len(body)+1 (body, then its GO), not len(body).
	forward := numenc.MustEncode(len(body) + 1)
	core := dup + test + forward + opcode.CONDITIONAL_JUMP.String() + body + opcode.GO.String()
	backward := numenc.EncodeSigned(-len(core))

	return backward + core + opcode.STACK_DROP.String() + opcode.STACK_DROP.String(), nil
}
