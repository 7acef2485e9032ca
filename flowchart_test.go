// flowchart_test.go
package cflow

import "testing"

func buildSrc(t *testing.T, src string) *Graph {
	t.Helper()
	res := Parse(src)
	if res.Program == nil {
		t.Fatalf("no tree for:\n%s\ndiags: %v", src, res.Errors)
	}
	return BuildGraph(res.Program, "test")
}

func decisionNodes(g *Graph) []GNode {
	var out []GNode
	for _, n := range g.Nodes {
		if n.Shape == ShapeDecision {
			out = append(out, n)
		}
	}
	return out
}

func edgesFrom(g *Graph, id int) []GEdge {
	var out []GEdge
	for _, e := range g.Edges {
		if e.From == id {
			out = append(out, e)
		}
	}
	return out
}

func edgesTo(g *Graph, id int) []GEdge {
	var out []GEdge
	for _, e := range g.Edges {
		if e.To == id {
			out = append(out, e)
		}
	}
	return out
}

func findNode(t *testing.T, g *Graph, label string) GNode {
	t.Helper()
	for _, n := range g.Nodes {
		if n.Label == label {
			return n
		}
	}
	t.Fatalf("no node labeled %q in %+v", label, g.Nodes)
	return GNode{}
}

func Test_Flowchart_Terminators(t *testing.T) {
	g := buildSrc(t, "int x = 1;")
	if len(g.Nodes) != 3 {
		t.Fatalf("want Start, one process, End; got %+v", g.Nodes)
	}
	if g.Nodes[0].Shape != ShapeTerminator || g.Nodes[0].Label != "Start" {
		t.Fatalf("first node must be the Start terminator, got %+v", g.Nodes[0])
	}
	last := g.Nodes[len(g.Nodes)-1]
	if last.Shape != ShapeTerminator || last.Label != "End" {
		t.Fatalf("last node must be the End terminator, got %+v", last)
	}
}

func Test_Flowchart_IfElse_Converges(t *testing.T) {
	g := buildSrc(t, "int a = 1; int b = 2; int x = 0; if (a > b) { x = a; } else { x = b; }")

	ds := decisionNodes(g)
	if len(ds) != 1 {
		t.Fatalf("want exactly one decision node, got %+v", ds)
	}
	d := ds[0]
	if d.Label != "a > b" {
		t.Fatalf("decision label: got %q", d.Label)
	}

	out := edgesFrom(g, d.ID)
	if len(out) != 2 || out[0].Label != "yes" || out[1].Label != "no" {
		t.Fatalf("decision edges: want yes then no, got %+v", out)
	}
	if out[0].To == out[1].To {
		t.Fatalf("branch arms must lead to distinct nodes")
	}
	thenNode, elseNode := g.node(out[0].To), g.node(out[1].To)
	if thenNode.Shape != ShapeProcess || elseNode.Shape != ShapeProcess {
		t.Fatalf("branch targets must be process nodes, got %v and %v", thenNode.Shape, elseNode.Shape)
	}

	// both arms converge into the same subsequent node (the End terminator)
	after1, after2 := edgesFrom(g, thenNode.ID), edgesFrom(g, elseNode.ID)
	if len(after1) != 1 || len(after2) != 1 || after1[0].To != after2[0].To {
		t.Fatalf("branch exits must converge, got %+v and %+v", after1, after2)
	}
	if g.node(after1[0].To).Shape != ShapeTerminator {
		t.Fatalf("converged successor should be End here, got %+v", g.node(after1[0].To))
	}
}

func Test_Flowchart_If_Without_Else(t *testing.T) {
	g := buildSrc(t, "int x = 0; if (x > 0) { x = 1; } x = 2;")
	d := decisionNodes(g)[0]
	then := findNode(t, g, "x = 1")
	next := findNode(t, g, "x = 2")

	out := edgesFrom(g, d.ID)
	if len(out) != 1 || out[0].To != then.ID || out[0].Label != "yes" {
		t.Fatalf("only the then arm leaves the decision, got %+v", out)
	}
	in := edgesTo(g, next.ID)
	if len(in) != 1 || in[0].From != then.ID {
		t.Fatalf("the successor hangs off the sole branch exit, got %+v", in)
	}
}

func Test_Flowchart_While_BackEdge(t *testing.T) {
	g := buildSrc(t, "int x = 0; int n = 3; while (x < n) { x = x + 1; }")

	ds := decisionNodes(g)
	if len(ds) != 1 {
		t.Fatalf("want one decision node, got %+v", ds)
	}
	d := ds[0]
	body := findNode(t, g, "x = x + 1")

	foundBack := false
	for _, e := range edgesFrom(g, body.ID) {
		if e.To == d.ID {
			foundBack = true
		}
	}
	if !foundBack {
		t.Fatalf("want a back edge from the loop body to the condition")
	}

	out := edgesFrom(g, d.ID)
	if len(out) != 2 || out[0].Label != "yes" || out[1].Label != "no" {
		t.Fatalf("loop decision edges: want yes into the body, no onward; got %+v", out)
	}
	if g.node(out[1].To).Label != "End" {
		t.Fatalf("the no edge continues past the loop, got %+v", g.node(out[1].To))
	}
}

func Test_Flowchart_DoWhile_BackEdge(t *testing.T) {
	g := buildSrc(t, "int x = 0; do { x = x + 1; } while (x < 3);")

	d := decisionNodes(g)[0]
	entryPred := findNode(t, g, "int x = 0")

	out := edgesFrom(g, d.ID)
	if len(out) != 2 {
		t.Fatalf("want back edge plus exit, got %+v", out)
	}
	if out[0].To != entryPred.ID || out[0].Label != "yes" {
		t.Fatalf("back edge must target the loop's entry predecessor, got %+v", out[0])
	}
	if out[1].Label != "no" || g.node(out[1].To).Label != "End" {
		t.Fatalf("exit edge: got %+v", out[1])
	}
}

func Test_Flowchart_For_Desugars(t *testing.T) {
	g := buildSrc(t, "for (int i = 0; i < 3; i++) { cout << i; }")

	prep := findNode(t, g, "int i = 0")
	if prep.Shape != ShapeLoopPrep {
		t.Fatalf("init clause must be a loop-prep node, got %+v", prep)
	}
	d := decisionNodes(g)[0]
	if d.Label != "i < 3" {
		t.Fatalf("condition label: got %q", d.Label)
	}
	body := findNode(t, g, "cout << i")
	if body.Shape != ShapeIO {
		t.Fatalf("stream statement must be an io node, got %+v", body)
	}
	inc := findNode(t, g, "i++")
	if inc.Shape != ShapeProcess {
		t.Fatalf("increment node: got %+v", inc)
	}

	foundBack := false
	for _, e := range edgesFrom(g, inc.ID) {
		if e.To == d.ID {
			foundBack = true
		}
	}
	if !foundBack {
		t.Fatalf("increment must close the back edge to the condition")
	}
}

func Test_Flowchart_For_No_Increment_Direct_BackEdge(t *testing.T) {
	g := buildSrc(t, "int i = 0; for (; i < 3;) { i = i + 1; }")
	d := decisionNodes(g)[0]
	body := findNode(t, g, "i = i + 1")
	back := false
	for _, e := range edgesFrom(g, body.ID) {
		if e.To == d.ID {
			back = true
		}
	}
	if !back {
		t.Fatalf("body exit must reach the condition directly when no increment exists")
	}
	for _, n := range g.Nodes {
		if n.Shape == ShapeLoopPrep {
			t.Fatalf("no loop-prep node without an init clause, got %+v", n)
		}
	}
}

func Test_Flowchart_Break_Not_Rewired(t *testing.T) {
	g := buildSrc(t, "int x = 0; while (x < 3) { break; x = 1; }")

	brk := findNode(t, g, "break")
	if brk.Shape != ShapeProcess {
		t.Fatalf("break is a plain process node, got %+v", brk)
	}
	next := findNode(t, g, "x = 1")
	out := edgesFrom(g, brk.ID)
	if len(out) != 1 || out[0].To != next.ID {
		t.Fatalf("break wires only to the following statement, got %+v", out)
	}
}

func Test_Flowchart_IO_Shapes(t *testing.T) {
	g := buildSrc(t, "int x = 0; cin >> x; cout << x + 1; x = x + 1;")
	if findNode(t, g, "cin >> x").Shape != ShapeIO {
		t.Fatalf("cin statement must be io")
	}
	if findNode(t, g, "cout << x + 1").Shape != ShapeIO {
		t.Fatalf("cout statement must be io")
	}
	if findNode(t, g, "x = x + 1").Shape != ShapeProcess {
		t.Fatalf("plain assignment must be process")
	}
}

func Test_Flowchart_FuncDef_Call_Shape(t *testing.T) {
	g := buildSrc(t, "void f() { return; }")
	fn := findNode(t, g, "f()")
	if fn.Shape != ShapeCall {
		t.Fatalf("function header must use the call shape, got %+v", fn)
	}
	if findNode(t, g, "return").Shape != ShapeProcess {
		t.Fatalf("return body node missing")
	}
}

func Test_Flowchart_Decision_AutoLabel_Counter(t *testing.T) {
	g := &Graph{Name: "unit", decisionEdges: make(map[int]int)}
	g.Nodes = []GNode{
		{ID: 1, Shape: ShapeDecision, Label: "q"},
		{ID: 2, Shape: ShapeProcess, Label: "a"},
		{ID: 3, Shape: ShapeProcess, Label: "b"},
		{ID: 4, Shape: ShapeProcess, Label: "c"},
	}
	g.addEdge(1, 2, "")
	g.addEdge(1, 3, "")
	g.addEdge(1, 4, "")
	want := []string{"yes", "no", ""}
	for i, e := range g.Edges {
		if e.Label != want[i] {
			t.Fatalf("edge %d: want label %q, got %q", i, want[i], e.Label)
		}
	}
}

func Test_Flowchart_Explicit_Label_Counts(t *testing.T) {
	g := &Graph{Name: "unit", decisionEdges: make(map[int]int)}
	g.Nodes = []GNode{
		{ID: 1, Shape: ShapeDecision, Label: "q"},
		{ID: 2, Shape: ShapeProcess, Label: "a"},
		{ID: 3, Shape: ShapeProcess, Label: "b"},
	}
	g.addEdge(1, 2, "maybe")
	g.addEdge(1, 3, "")
	if g.Edges[0].Label != "maybe" {
		t.Fatalf("explicit label must be kept, got %q", g.Edges[0].Label)
	}
	if g.Edges[1].Label != "no" {
		t.Fatalf("an explicit edge still advances the counter, got %q", g.Edges[1].Label)
	}
}

func Test_Flowchart_Deterministic(t *testing.T) {
	src := "int x = 0; while (x < 2) { if (x > 0) { x = 2; } else { x = 1; } }"
	a := buildSrc(t, src).Render(DotRenderer{})
	b := buildSrc(t, src).Render(DotRenderer{})
	if a != b {
		t.Fatalf("synthesis must be deterministic:\n%s\nvs\n%s", a, b)
	}
}
