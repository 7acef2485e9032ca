// printer.go — textual dump of the parse tree.
//
// PrintTree renders the AST as an indented outline, one construct per line,
// with expressions inlined in their infix form. The dump is for humans (the
// 'ast' CLI subcommand and test failure output); nothing parses it back.
package cflow

import (
	"fmt"
	"strings"
)

/* ---------- small writer with indentation ---------- */

type treeOut struct {
	b     *strings.Builder
	depth int
}

func (o *treeOut) line(format string, args ...any) {
	o.b.WriteString(strings.Repeat("  ", o.depth))
	fmt.Fprintf(o.b, format, args...)
	o.b.WriteByte('\n')
}

func (o *treeOut) indented(fn func()) {
	o.depth++
	fn()
	o.depth--
}

/* ---------- PUBLIC API ---------- */

// PrintTree renders prog as an indented outline. A nil program (the
// catch-all fault path) renders as a single marker line.
func PrintTree(prog *Program) string {
	var b strings.Builder
	o := &treeOut{b: &b}
	if prog == nil {
		o.line("<no tree>")
		return b.String()
	}
	o.line("program")
	o.indented(func() {
		for _, s := range prog.Stmts {
			printStmt(o, s)
		}
	})
	return b.String()
}

func printStmt(o *treeOut, n Node) {
	switch x := n.(type) {
	case *Block:
		o.line("block")
		o.indented(func() {
			for _, s := range x.Stmts {
				printStmt(o, s)
			}
		})

	case *Decl:
		c := ""
		if x.Const {
			c = "const "
		}
		if x.Init != nil {
			o.line("decl %s%s %s = %s", c, x.Type, x.Name, exprLabel(x.Init))
		} else {
			o.line("decl %s%s %s", c, x.Type, x.Name)
		}

	case *FuncDef:
		o.line("func %s %s(%s)", x.RetType, x.Name, x.Params)
		if x.Body != nil {
			o.indented(func() {
				for _, s := range x.Body.Stmts {
					printStmt(o, s)
				}
			})
		}

	case *If:
		o.line("if %s", exprLabel(x.Cond))
		o.indented(func() { printBranch(o, "then", x.Then) })
		if x.Else != nil {
			o.indented(func() { printBranch(o, "else", x.Else) })
		}

	case *While:
		o.line("while %s", exprLabel(x.Cond))
		o.indented(func() { printStmt(o, x.Body) })

	case *DoWhile:
		o.line("do-while %s", exprLabel(x.Cond))
		o.indented(func() { printStmt(o, x.Body) })

	case *For:
		o.line("for [%s] [%s] [%s]", stmtLabel(x.Init), exprLabel(x.Cond), exprLabel(x.Post))
		o.indented(func() { printStmt(o, x.Body) })

	case *Return:
		if x.Value != nil {
			o.line("return %s", exprLabel(x.Value))
		} else {
			o.line("return")
		}

	case *Break:
		o.line("break")

	case *Continue:
		o.line("continue")

	case *Delete:
		kw := "delete"
		if x.Array {
			kw = "delete[]"
		}
		o.line("%s %s", kw, exprLabel(x.Target))

	case *ExprStmt:
		o.line("expr %s", exprLabel(x.X))

	case nil:
		o.line("<empty>")

	default:
		o.line("expr %s", exprLabel(n))
	}
}

func printBranch(o *treeOut, name string, n Node) {
	o.line("%s", name)
	o.indented(func() { printStmt(o, n) })
}
