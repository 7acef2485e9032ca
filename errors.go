// errors.go — diagnostics and caret-snippet rendering.
//
// Diagnostics are plain values, never panics: the front end accumulates them
// in two append-only channels (lexical and syntactic/semantic) and always runs
// to completion. This file defines the shared Diag value and a formatter that
// renders any diagnostic against the original source as a readable snippet
// with a caret pointing at the offending column:
//
//	SYNTAX ERROR at 3:5: expected ';' after statement
//
//	   2 | int x = 1
//	   3 |     int y = 2;
//	       |    ^
//	   4 | }
//
// The snippet includes up to one line of context before and after the error,
// numbers the lines, and places the caret under the 1-based column. Output is
// plain text, suitable for logs and terminals. The formatter is independent
// of the front end and can be used anywhere a Diag and its source meet.
package cflow

import (
	"fmt"
	"strings"
)

// Diag is one diagnostic. Line and Col are 1-based; a zero Line marks a
// diagnostic with no position (the catch-all fault path).
type Diag struct {
	Line int
	Col  int
	Msg  string
}

func (d Diag) String() string {
	if d.Line == 0 {
		return d.Msg
	}
	return fmt.Sprintf("%d:%d: %s", d.Line, d.Col, d.Msg)
}

// FormatDiag renders a caret-annotated snippet for d against src. The header
// names the channel ("LEXICAL ERROR", "SYNTAX ERROR"). Out-of-range positions
// are clamped so the caret can always be rendered; a position-less Diag gets
// a one-line header with no snippet.
func FormatDiag(src, header string, d Diag) string {
	if d.Line == 0 {
		return fmt.Sprintf("%s: %s\n", header, d.Msg)
	}
	return prettySnippet(src, header, d.Line, d.Col, d.Msg)
}

// prettySnippet builds the snippet with a header and a caret. It shows at
// most one previous and one next line when available. Coordinates are treated
// as 1-based and clamped to the source bounds.
func prettySnippet(src, header string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if line < 1 {
		line = 1
	}
	if col < 1 {
		col = 1
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	if line > len(lines) {
		line = len(lines)
	}
	lineTxt := lines[line-1]

	var b strings.Builder
	fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lineTxt)
	caretPad := col - 1
	if caretPad > len(lineTxt) {
		caretPad = len(lineTxt)
	}
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", caretPad))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
