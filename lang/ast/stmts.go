package ast

// Assign is a single-target assignment `target = value`. Multi-target
// assignment (`a = b = 1`) is not represented by this AST and is therefore
// unsupported, per spec §4.4.
//
// Target is one of:
//   - *Name, with Value a *ListExpr: declares (at top level) or writes to
//     (inside a function it is rejected, see spec §4.3) an array.
//   - *Name, any other Value: a scalar write.
//   - *Subscript (Ctx is ignored on input and treated as Store): an
//     existing array element write.
type Assign struct {
	Target Expr
	Value  Expr
	Pos    Pos
}

func (n *Assign) Line() Pos { return n.Pos }
func (*Assign) stmtNode()   {}

// AugAssign is `target op= value`, e.g. `i += 1`. Target must be a *Name;
// augmented array-element assignment is not part of the supported subset.
type AugAssign struct {
	Target *Name
	Op     BinOpKind
	Value  Expr
	Pos    Pos
}

func (n *AugAssign) Line() Pos { return n.Pos }
func (*AugAssign) stmtNode()   {}

// If is a conditional with an optional else branch (Orelse may be empty).
// `while ... else` has no analogue here; the parser contract has no Stmt
// kind for it, so it surfaces as an unsupported construct upstream.
type If struct {
	Test   Expr
	Body   []Stmt
	Orelse []Stmt
	Pos    Pos
}

func (n *If) Line() Pos { return n.Pos }
func (*If) stmtNode()   {}

// While is a loop with no else clause (spec's supported subset excludes
// `while ... else`, see §6).
type While struct {
	Test Expr
	Body []Stmt
	Pos  Pos
}

func (n *While) Line() Pos { return n.Pos }
func (*While) stmtNode()   {}

// FunctionDef is a top-level function definition with positional
// parameters only. Nested function definitions are walked over (ignored)
// by the discovery pass but never lowered as nested functions: general
// function nesting is a spec Non-goal.
type FunctionDef struct {
	Name string
	Args []string
	Body []Stmt
	Pos  Pos
}

func (n *FunctionDef) Line() Pos { return n.Pos }
func (*FunctionDef) stmtNode()   {}

// Return leaves Value's lowered result on the stack for the caller; the
// enclosing function compilation appends the trailing RETURN opcode.
type Return struct {
	Value Expr
	Pos   Pos
}

func (n *Return) Line() Pos { return n.Pos }
func (*Return) stmtNode()   {}

// ExprStmt is a bare expression used as a statement (e.g. a call for its
// side effect). Per spec §4.4/§9, any residual stack value is not popped;
// this is a documented behavioral quirk carried over from the source
// system, not an oversight.
type ExprStmt struct {
	Value Expr
	Pos   Pos
}

func (n *ExprStmt) Line() Pos { return n.Pos }
func (*ExprStmt) stmtNode()   {}

// ImportFrom represents `from <module> import *`; only Module == "stubs"
// is recognized, and it is silently ignored by lowering (spec §4.4).
type ImportFrom struct {
	Module string
	Pos    Pos
}

func (n *ImportFrom) Line() Pos { return n.Pos }
func (*ImportFrom) stmtNode()   {}
