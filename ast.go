// ast.go — syntax tree for the C-like subset.
//
// The AST is a closed set of variants: a Node interface with one concrete
// struct per construct, matched exhaustively by type switch. Nodes are
// produced once by the parser and are immutable afterwards. Positions are not
// stored on nodes; all diagnostics are emitted while the parser still holds
// the offending token.
package cflow

// Node is implemented by every AST variant.
type Node interface {
	node()
}

// LitKind distinguishes the four literal forms.
type LitKind int

const (
	LitNumber LitKind = iota
	LitString
	LitChar
	LitBool
)

// Program is the root: an ordered list of top-level statements and
// declarations.
type Program struct {
	Stmts []Node
}

// Block is a braced statement sequence.
type Block struct {
	Stmts []Node
}

// Decl is a variable declaration. Type carries the assembled type string:
// base type, then one '*' per pointer marker, then one "[]" per array suffix.
// Init is nil when no initializer was written.
type Decl struct {
	Name  string
	Type  string
	Const bool
	Init  Node
}

// FuncDef is a function definition. Params is the raw text scanned between
// the parentheses; parameters are intentionally not bound into scope.
type FuncDef struct {
	Name    string
	RetType string
	Params  string
	Body    *Block
}

// If is a conditional. Else is nil when absent.
type If struct {
	Cond Node
	Then Node
	Else Node
}

// While is a pre-tested loop.
type While struct {
	Cond Node
	Body Node
}

// DoWhile is a post-tested loop.
type DoWhile struct {
	Body Node
	Cond Node
}

// For is a three-clause loop; any clause may be nil.
type For struct {
	Init Node
	Cond Node
	Post Node
	Body Node
}

// Return carries an optional value.
type Return struct {
	Value Node
}

// Break and Continue are bare keywords; they carry no loop binding.
type Break struct{}
type Continue struct{}

// Delete is a delete or delete[] statement.
type Delete struct {
	Target Node
	Array  bool
}

// ExprStmt wraps an expression used as a statement.
type ExprStmt struct {
	X Node
}

// Assign is an assignment expression; Op is always "=".
type Assign struct {
	Target Node
	Op     string
	Value  Node
}

// Binary is an infix operation.
type Binary struct {
	Op   string
	L, R Node
}

// Unary is a prefix or postfix operation.
type Unary struct {
	Op      string
	X       Node
	Postfix bool
}

// Index is a bracketed element access.
type Index struct {
	X Node
	I Node
}

// New is a new-expression; Size is nil for the scalar form.
type New struct {
	Type string
	Size Node
}

// InitList is a brace-enclosed literal list.
type InitList struct {
	Elems []Node
}

// Literal is one of the four literal kinds; Text is the raw lexeme.
type Literal struct {
	Kind LitKind
	Text string
}

// IdentExpr is a name use.
type IdentExpr struct {
	Name string
}

// Bad is the error-literal placeholder produced when no expression could be
// parsed at a position; the offending lexeme is kept for display.
type Bad struct {
	Text string
}

func (*Program) node()   {}
func (*Block) node()     {}
func (*Decl) node()      {}
func (*FuncDef) node()   {}
func (*If) node()        {}
func (*While) node()     {}
func (*DoWhile) node()   {}
func (*For) node()       {}
func (*Return) node()    {}
func (*Break) node()     {}
func (*Continue) node()  {}
func (*Delete) node()    {}
func (*ExprStmt) node()  {}
func (*Assign) node()    {}
func (*Binary) node()    {}
func (*Unary) node()     {}
func (*Index) node()     {}
func (*New) node()       {}
func (*InitList) node()  {}
func (*Literal) node()   {}
func (*IdentExpr) node() {}
func (*Bad) node()       {}
