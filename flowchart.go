// flowchart.go — AST → flowchart graph synthesis.
//
// BuildGraph walks a finished AST and produces a node/edge Graph, the single
// source of truth for both diagram notations (render.go). Synthesis is a pure
// function of the tree's shape: node ids are assigned by a monotonically
// increasing counter, so the same tree always yields the same graph.
//
// The builder threads a frontier of dangling predecessor nodes through the
// statement sequence: every newly emitted node receives one edge from each
// frontier member and becomes the sole frontier itself. Branching constructs
// widen the frontier (both arms of an if/else stay pending until the next
// node is emitted); loops narrow it back to the governing decision node after
// closing their back edge.
//
// The first two unlabeled edges leaving a decision node are auto-labeled
// "yes" then "no", in emission order, tracked by a per-node counter.
//
// break and continue become plain process nodes wired to whatever statement
// follows in the emitted sequence; they do not rewire to the enclosing loop's
// exit or back-edge target.
package cflow

import "strings"

// Shape classifies a flowchart node; each renderer maps it to its notation.
type Shape int

const (
	ShapeTerminator Shape = iota // start/end ovals
	ShapeProcess                 // plain statement box
	ShapeIO                      // input/output parallelogram
	ShapeDecision                // branch diamond
	ShapeLoopPrep                // loop initialization hexagon
	ShapeCall                    // function definition / subroutine box
)

var shapeNames = map[Shape]string{
	ShapeTerminator: "terminator",
	ShapeProcess:    "process",
	ShapeIO:         "io",
	ShapeDecision:   "decision",
	ShapeLoopPrep:   "loop-prep",
	ShapeCall:       "call",
}

func (s Shape) String() string {
	if n, ok := shapeNames[s]; ok {
		return n
	}
	return "process"
}

// GNode is one flowchart node. IDs start at 1 and increase in emission order.
type GNode struct {
	ID    int
	Shape Shape
	Label string
}

// GEdge is one directed edge; Label is empty for plain arrows.
type GEdge struct {
	From, To int
	Label    string
}

// Graph is the built diagram model, discarded after serialization.
type Graph struct {
	Name  string
	Nodes []GNode
	Edges []GEdge

	decisionEdges map[int]int // edges emitted so far per decision node
}

// Render serializes the graph with the given renderer.
func (g *Graph) Render(r Renderer) string { return r.Render(g) }

func (g *Graph) node(id int) *GNode {
	if id < 1 || id > len(g.Nodes) {
		return nil
	}
	return &g.Nodes[id-1]
}

// addEdge appends an edge, auto-labeling the first two otherwise-unlabeled
// edges out of a decision node "yes" and "no".
func (g *Graph) addEdge(from, to int, label string) {
	if n := g.node(from); n != nil && n.Shape == ShapeDecision {
		count := g.decisionEdges[from]
		g.decisionEdges[from] = count + 1
		if label == "" {
			switch count {
			case 0:
				label = "yes"
			case 1:
				label = "no"
			}
		}
	}
	g.Edges = append(g.Edges, GEdge{From: from, To: to, Label: label})
}

// ioNames are the stream identifiers whose mention turns a statement node
// into an io parallelogram.
var ioNames = map[string]bool{"cin": true, "cout": true, "cerr": true, "clog": true}

// BuildGraph synthesizes the flowchart for prog under the given diagram name.
// It never fails: constructs outside the known set degrade to one generic
// process node.
func BuildGraph(prog *Program, name string) *Graph {
	b := &builder{g: &Graph{Name: name, decisionEdges: make(map[int]int)}}
	b.emit(ShapeTerminator, "Start")
	if prog != nil {
		b.stmts(prog.Stmts)
	}
	b.emit(ShapeTerminator, "End")
	return b.g
}

type builder struct {
	g        *Graph
	frontier []int
}

// emit creates a node, wires every frontier member into it, and makes it the
// new frontier.
func (b *builder) emit(shape Shape, label string) int {
	id := len(b.g.Nodes) + 1
	b.g.Nodes = append(b.g.Nodes, GNode{ID: id, Shape: shape, Label: label})
	for _, p := range b.frontier {
		b.g.addEdge(p, id, "")
	}
	b.frontier = []int{id}
	return id
}

func (b *builder) stmts(list []Node) {
	for _, s := range list {
		b.stmt(s)
	}
}

func (b *builder) stmt(n Node) {
	switch x := n.(type) {
	case *Block:
		b.stmts(x.Stmts)

	case *If:
		b.ifStmt(x)

	case *While:
		b.whileStmt(x)

	case *DoWhile:
		b.doWhileStmt(x)

	case *For:
		b.forStmt(x)

	case *FuncDef:
		b.emit(ShapeCall, x.Name+"("+x.Params+")")
		if x.Body != nil {
			b.stmts(x.Body.Stmts)
		}

	case *Break:
		b.emit(ShapeProcess, "break")

	case *Continue:
		b.emit(ShapeProcess, "continue")

	case *Return:
		label := "return"
		if x.Value != nil {
			label += " " + exprLabel(x.Value)
		}
		b.emit(b.stmtShape(x.Value), label)

	case *Decl:
		b.emit(b.stmtShape(x.Init), declLabel(x))

	case *Delete:
		kw := "delete"
		if x.Array {
			kw = "delete[]"
		}
		b.emit(ShapeProcess, kw+" "+exprLabel(x.Target))

	case *ExprStmt:
		b.emit(b.stmtShape(x), exprLabel(x))

	case nil:
		// empty branch or clause: nothing to emit

	default:
		// best-effort generic node; synthesis is total
		b.emit(ShapeProcess, exprLabel(n))
	}
}

func (b *builder) stmtShape(expr Node) Shape {
	if mentionsIO(expr) {
		return ShapeIO
	}
	return ShapeProcess
}

// ifStmt emits the decision and roots each present branch at it. The
// construct's exit is the union of both branch exits when both exist, the
// sole branch's exit when only one exists, or the decision itself when
// neither has content.
func (b *builder) ifStmt(x *If) {
	d := b.emit(ShapeDecision, exprLabel(x.Cond))

	b.frontier = []int{d}
	b.stmt(x.Then)
	exits := b.frontier

	if x.Else != nil {
		b.frontier = []int{d}
		b.stmt(x.Else)
		exits = mergeExits(exits, b.frontier)
	}
	b.frontier = exits
}

// whileStmt closes the body back onto the condition; control continues from
// the false side of the decision.
func (b *builder) whileStmt(x *While) {
	d := b.emit(ShapeDecision, exprLabel(x.Cond))

	b.frontier = []int{d}
	b.stmt(x.Body)
	for _, p := range b.frontier {
		b.g.addEdge(p, d, "")
	}
	b.frontier = []int{d}
}

// doWhileStmt runs the body first, emits the decision after it, and wires
// the decision back to the loop's entry predecessors.
func (b *builder) doWhileStmt(x *DoWhile) {
	entry := b.frontier
	b.stmt(x.Body)
	d := b.emit(ShapeDecision, exprLabel(x.Cond))
	for _, p := range entry {
		b.g.addEdge(d, p, "")
	}
	b.frontier = []int{d}
}

// forStmt desugars into an initialization node, the condition decision, the
// body, and an increment node (when present) closing the back edge.
func (b *builder) forStmt(x *For) {
	if x.Init != nil {
		b.emit(ShapeLoopPrep, stmtLabel(x.Init))
	}

	condLabel := "true"
	if x.Cond != nil {
		condLabel = exprLabel(x.Cond)
	}
	d := b.emit(ShapeDecision, condLabel)

	b.frontier = []int{d}
	b.stmt(x.Body)

	if x.Post != nil {
		b.emit(ShapeProcess, exprLabel(x.Post))
		b.g.addEdge(b.frontier[0], d, "")
	} else {
		for _, p := range b.frontier {
			b.g.addEdge(p, d, "")
		}
	}
	b.frontier = []int{d}
}

func mergeExits(a, b []int) []int {
	out := append([]int(nil), a...)
	for _, id := range b {
		dup := false
		for _, have := range out {
			if have == id {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, id)
		}
	}
	return out
}

// mentionsIO reports whether the expression tree mentions a recognized
// stream identifier, looking through binary/unary/assignment/statement
// wrappers.
func mentionsIO(n Node) bool {
	switch x := n.(type) {
	case *IdentExpr:
		return ioNames[x.Name]
	case *Binary:
		return mentionsIO(x.L) || mentionsIO(x.R)
	case *Unary:
		return mentionsIO(x.X)
	case *Assign:
		return mentionsIO(x.Target) || mentionsIO(x.Value)
	case *ExprStmt:
		return mentionsIO(x.X)
	}
	return false
}

// declLabel renders a declaration node's text: type, name, optional
// initializer.
func declLabel(d *Decl) string {
	var b strings.Builder
	if d.Const {
		b.WriteString("const ")
	}
	b.WriteString(d.Type)
	b.WriteByte(' ')
	b.WriteString(d.Name)
	if d.Init != nil {
		b.WriteString(" = ")
		b.WriteString(exprLabel(d.Init))
	}
	return b.String()
}

// stmtLabel renders a statement-position node (for-loop init clauses are
// either declarations or expression statements).
func stmtLabel(n Node) string {
	switch x := n.(type) {
	case *Decl:
		return declLabel(x)
	case *ExprStmt:
		return exprLabel(x.X)
	}
	return exprLabel(n)
}

// exprLabel reconstructs an expression as parenthesization-free infix text.
func exprLabel(n Node) string {
	switch x := n.(type) {
	case *Literal:
		return x.Text
	case *IdentExpr:
		return x.Name
	case *Binary:
		return exprLabel(x.L) + " " + x.Op + " " + exprLabel(x.R)
	case *Unary:
		if x.Postfix {
			return exprLabel(x.X) + x.Op
		}
		return x.Op + exprLabel(x.X)
	case *Assign:
		return exprLabel(x.Target) + " = " + exprLabel(x.Value)
	case *Index:
		return exprLabel(x.X) + "[" + exprLabel(x.I) + "]"
	case *New:
		s := "new " + x.Type
		if x.Size != nil {
			s += "[" + exprLabel(x.Size) + "]"
		}
		return s
	case *InitList:
		parts := make([]string, len(x.Elems))
		for i, e := range x.Elems {
			parts[i] = exprLabel(e)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case *ExprStmt:
		return exprLabel(x.X)
	case *Bad:
		if x.Text == "" {
			return "?"
		}
		return x.Text
	case nil:
		return ""
	}
	return "?"
}
