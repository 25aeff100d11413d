package compiler

import (
	"github.com/corvidhall/lscvm/lang/ast"
)

// discoverTopLevel implements spec §4.3's top-level pass: every Assign
// target reachable from the top level (recursing through If/While bodies,
// but never into a FunctionDef) becomes either an array (list-literal
// value) or a global (a plain-name target with any other value); a
// subscript target is ignored, it mutates an existing array rather than
// declaring one. AugAssign statements are not visited by this pass: their
// targets must already be declared by a plain Assign.
//
// Open question resolved here (see DESIGN.md): spec §4.3 only says the pass
// is "applied to the top-level tree", without stating whether it recurses
// into nested if/while blocks. This implementation recurses, since a
// top-level `if`/`while` body is still top-level code, so an Assign there
// declares a global or array just as it would outside the block.
func (c *Compiler) discoverTopLevel(stmts []ast.Stmt) error {
	return walkAssignTargets(stmts, false, func(assign *ast.Assign) error {
		return c.declareFromAssign(assign)
	})
}

// discoverFunctionLocals implements spec §4.5 step 4: every Assign and
// AugAssign target reachable from a function body (same recursion rule as
// discoverTopLevel) that is not already a parameter becomes a local. A list
// literal as an Assign value inside a function is rejected: arrays cannot
// be declared in function scope (spec §4.3, §7).
func (c *Compiler) discoverFunctionLocals(stmts []ast.Stmt) error {
	return walkAssignTargets(stmts, true, func(assign *ast.Assign) error {
		name, ok := assign.Target.(*ast.Name)
		if !ok {
			return nil // subscript target: mutates an existing array, not a declaration
		}
		if _, isList := assign.Value.(*ast.ListExpr); isList {
			return errorf(KindUnsupported, assign.Line(), "array %q cannot be declared inside a function body", name.Ident)
		}
		return c.allocLocalIfNew(name.Ident)
	})
}

// declareFromAssign applies spec §4.3's top-level classification rule to a
// single Assign node.
func (c *Compiler) declareFromAssign(assign *ast.Assign) error {
	switch target := assign.Target.(type) {
	case *ast.Subscript:
		return nil // mutates an existing array
	case *ast.Name:
		if list, ok := assign.Value.(*ast.ListExpr); ok {
			if c.heap.IsArray(target.Ident) {
				return nil // already declared (e.g. re-initialized)
			}
			_, err := c.heap.AllocArray(target.Ident, len(list.Elts))
			return err
		}
		if c.heap.IsGlobal(target.Ident) {
			return nil
		}
		_, err := c.heap.AllocGlobal(target.Ident)
		return err
	default:
		return errorf(KindUnsupported, assign.Line(), "unsupported assignment target")
	}
}

func (c *Compiler) allocLocalIfNew(name string) error {
	if c.heap.HasLocal(name) {
		return nil
	}
	_, err := c.heap.AllocLocal(name)
	return err
}

// walkAssignTargets recursively visits stmts (descending into If/While
// bodies, never into FunctionDef) and calls visit for each Assign
// encountered; when includeAug is true it also resolves AugAssign targets
// as plain-name locals via the same allocation path function discovery
// uses.
func walkAssignTargets(stmts []ast.Stmt, includeAug bool, visit func(*ast.Assign) error) error {
	var walk func([]ast.Stmt) error
	walk = func(stmts []ast.Stmt) error {
		for _, stmt := range stmts {
			switch s := stmt.(type) {
			case *ast.Assign:
				if err := visit(s); err != nil {
					return err
				}
			case *ast.AugAssign:
				if !includeAug {
					continue
				}
				if err := visit(&ast.Assign{Target: s.Target, Value: s.Value, Pos: s.Pos}); err != nil {
					return err
				}
			case *ast.If:
				if err := walk(s.Body); err != nil {
					return err
				}
				if err := walk(s.Orelse); err != nil {
					return err
				}
			case *ast.While:
				if err := walk(s.Body); err != nil {
					return err
				}
			case *ast.FunctionDef:
				// never descend into nested function bodies (spec §4.3)
			}
		}
		return nil
	}
	return walk(stmts)
}
