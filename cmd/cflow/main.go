package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	cflow "github.com/flowgraph-dev/cflow"
)

const (
	appName     = "cflow"
	historyFile = ".cflow_history"
	promptMain  = "==> "
)

var banner = fmt.Sprintf("cflow %s REPL\nCtrl+C cancels input, Ctrl+D exits. Type :quit to exit.", cflow.Version)

func red(s string) string  { return "\x1b[31m" + s + "\x1b[0m" }
func blue(s string) string { return "\x1b[94m" + s + "\x1b[0m" }

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd := os.Args[1]
	switch cmd {
	case "check":
		os.Exit(cmdCheck(os.Args[2:]))
	case "graph":
		os.Exit(cmdGraph(os.Args[2:]))
	case "ast":
		os.Exit(cmdAst(os.Args[2:]))
	case "repl":
		os.Exit(cmdRepl(os.Args[2:]))
	case "version":
		fmt.Println(cflow.Version)
		return
	case "-h", "--help", "help":
		usage()
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", appName, cmd)
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Printf(`cflow %s (built %s)

Usage:
  %s check <file>                          Parse and report diagnostics.
  %s graph <file> [-f dot|mermaid] [-n N]  Emit the flowchart for a source file.
  %s ast <file>                            Dump the parse tree.
  %s repl                                  Start the interactive REPL.
  %s version                               Print the compiled version.

`, cflow.Version, cflow.BuildDate, appName, appName, appName, appName, appName)
}

// -----------------------------------------------------------------------------
// check
// -----------------------------------------------------------------------------

func cmdCheck(args []string) int {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "usage: %s check <file>\n", appName)
		return 2
	}
	src, ok := readSource(args[0])
	if !ok {
		return 1
	}

	res := cflow.Parse(src)
	n := printDiags(src, res)
	if n == 0 {
		fmt.Println("ok")
		return 0
	}
	return 1
}

// printDiags writes both diagnostic channels as caret snippets and returns
// the total count.
func printDiags(src string, res *cflow.Result) int {
	for _, d := range res.LexErrors {
		fmt.Fprint(os.Stderr, cflow.FormatDiag(src, "LEXICAL ERROR", d))
	}
	for _, d := range res.Errors {
		fmt.Fprint(os.Stderr, cflow.FormatDiag(src, "SYNTAX ERROR", d))
	}
	return len(res.LexErrors) + len(res.Errors)
}

// -----------------------------------------------------------------------------
// graph
// -----------------------------------------------------------------------------

func cmdGraph(args []string) int {
	fs := flag.NewFlagSet("graph", flag.ExitOnError)
	format := fs.String("f", "dot", "output notation: dot or mermaid")
	name := fs.String("n", "", "diagram name (default: source file base name)")
	out := fs.String("o", "", "output file (default: stdout)")
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "usage: %s graph <file> [-f dot|mermaid] [-n name] [-o out]\n", appName)
		return 2
	}
	file := fs.Arg(0)
	src, ok := readSource(file)
	if !ok {
		return 1
	}

	var r cflow.Renderer
	switch *format {
	case "dot":
		r = cflow.DotRenderer{}
	case "mermaid":
		r = cflow.MermaidRenderer{}
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown format %q (want dot or mermaid)\n", appName, *format)
		return 2
	}

	res := cflow.Parse(src)
	printDiags(src, res)
	if res.Program == nil {
		fmt.Fprintf(os.Stderr, "%s: no parse tree; cannot build a flowchart\n", appName)
		return 1
	}

	diagName := *name
	if diagName == "" {
		diagName = strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	}
	text := cflow.BuildGraph(res.Program, diagName).Render(r)

	if *out == "" {
		fmt.Print(text)
		return 0
	}
	if err := os.WriteFile(*out, []byte(text), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot write %s: %v\n", appName, *out, err)
		return 1
	}
	return 0
}

// -----------------------------------------------------------------------------
// ast
// -----------------------------------------------------------------------------

func cmdAst(args []string) int {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "usage: %s ast <file>\n", appName)
		return 2
	}
	src, ok := readSource(args[0])
	if !ok {
		return 1
	}

	res := cflow.Parse(src)
	printDiags(src, res)
	fmt.Print(cflow.PrintTree(res.Program))
	return 0
}

// -----------------------------------------------------------------------------
// repl
// -----------------------------------------------------------------------------

func cmdRepl(_ []string) int {
	fmt.Println(banner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	for {
		line, err := ln.Prompt(promptMain)
		if err != nil { // Ctrl+D / Ctrl+C
			fmt.Println()
			return 0
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		ln.AppendHistory(line)

		switch trimmed {
		case ":quit", ":q":
			return 0
		case ":help":
			fmt.Println("Enter a statement to see its tree and flowchart.\n:quit exits.")
			continue
		}

		res := cflow.Parse(line)
		for _, d := range res.LexErrors {
			fmt.Print(red(cflow.FormatDiag(line, "LEXICAL ERROR", d)))
		}
		for _, d := range res.Errors {
			fmt.Print(red(cflow.FormatDiag(line, "SYNTAX ERROR", d)))
		}
		if res.Program == nil {
			continue
		}
		fmt.Print(blue(cflow.PrintTree(res.Program)))
		fmt.Print(cflow.BuildGraph(res.Program, "repl").Render(cflow.MermaidRenderer{}))
	}
}

func readSource(path string) (string, bool) {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, path, err)
		return "", false
	}
	return string(src), true
}
