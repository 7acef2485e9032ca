// render.go — diagram serialization back ends.
//
// Both notations are pure formatting passes over the Graph built in
// flowchart.go; neither re-walks the AST. DotRenderer emits Graphviz dot with
// explicit per-node shape attributes and tail-label edge annotations;
// MermaidRenderer emits flowchart markup with the shape encoded in the node
// bracket syntax and edge labels inline between pipes.
package cflow

import (
	"fmt"
	"strings"
)

// Renderer serializes a Graph to one diagram notation.
type Renderer interface {
	Render(g *Graph) string
}

/* ---------- Graphviz dot ---------- */

// DotRenderer emits the attributed directed-graph notation.
type DotRenderer struct{}

var dotShapes = map[Shape]string{
	ShapeTerminator: "ellipse",
	ShapeProcess:    "box",
	ShapeIO:         "parallelogram",
	ShapeDecision:   "diamond",
	ShapeLoopPrep:   "hexagon",
	ShapeCall:       "box",
}

func (DotRenderer) Render(g *Graph) string {
	var b strings.Builder
	fmt.Fprintf(&b, "digraph %q {\n", g.Name)
	b.WriteString("\trankdir=TB;\n")
	b.WriteString("\tnode [fontname=\"Helvetica\"];\n\n")

	for _, n := range g.Nodes {
		attrs := fmt.Sprintf("shape=%s, label=%q", dotShapes[n.Shape], n.Label)
		if n.Shape == ShapeCall {
			attrs += ", peripheries=2"
		}
		fmt.Fprintf(&b, "\tn%d [%s];\n", n.ID, attrs)
	}
	b.WriteByte('\n')

	for _, e := range g.Edges {
		if e.Label == "" {
			fmt.Fprintf(&b, "\tn%d -> n%d;\n", e.From, e.To)
			continue
		}
		// edge labels sit near the tail so branch arms stay readable
		fmt.Fprintf(&b, "\tn%d -> n%d [taillabel=%q, labeldistance=2.5, labelangle=45];\n",
			e.From, e.To, e.Label)
	}
	b.WriteString("}\n")
	return b.String()
}

/* ---------- mermaid flowchart markup ---------- */

// MermaidRenderer emits the flow-diagram markup notation.
type MermaidRenderer struct{}

func (MermaidRenderer) Render(g *Graph) string {
	var b strings.Builder
	b.WriteString("flowchart TD\n")

	for _, n := range g.Nodes {
		fmt.Fprintf(&b, "\tn%d%s\n", n.ID, mermaidNode(n))
	}

	for _, e := range g.Edges {
		if e.Label == "" {
			fmt.Fprintf(&b, "\tn%d --> n%d\n", e.From, e.To)
			continue
		}
		fmt.Fprintf(&b, "\tn%d -->|%s| n%d\n", e.From, e.Label, e.To)
	}
	return b.String()
}

// mermaidNode encodes the shape in the bracket syntax around the quoted
// label.
func mermaidNode(n GNode) string {
	label := `"` + strings.ReplaceAll(n.Label, `"`, `#quot;`) + `"`
	switch n.Shape {
	case ShapeTerminator:
		return "([" + label + "])"
	case ShapeIO:
		return "[/" + label + "/]"
	case ShapeDecision:
		return "{" + label + "}"
	case ShapeLoopPrep:
		return "{{" + label + "}}"
	case ShapeCall:
		return "[[" + label + "]]"
	default:
		return "[" + label + "]"
	}
}
