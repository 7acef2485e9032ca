// Package cflow is a front end for a constrained C++-like procedural subset:
// a tokenizer, a recursive-descent parser with a block-scoped symbol table
// and a permissive type-compatibility checker, and a flowchart synthesizer
// that turns the parse tree into a directed diagram in Graphviz dot or
// mermaid notation.
//
// Typical use:
//
//	res := cflow.Parse(src)
//	for _, d := range res.Errors {
//		fmt.Print(cflow.FormatDiag(src, "SYNTAX ERROR", d))
//	}
//	if res.Program != nil {
//		g := cflow.BuildGraph(res.Program, "main")
//		fmt.Print(g.Render(cflow.DotRenderer{}))
//	}
//
// Analyses share no state: every Parse call builds its own lexer, scope
// stack and diagnostics, so independent goroutines may analyze different
// sources concurrently as long as they do not share a Result.
package cflow

// Version is the library version reported by the CLI.
const Version = "0.3.1"

// BuildDate is stamped by the release build; "dev" otherwise.
var BuildDate = "dev"
