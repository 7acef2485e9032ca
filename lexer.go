// lexer.go — tokenizer for the C-like source subset.
//
// The lexer converts an in-memory source string into a classified, positioned
// token stream. It is deliberately forgiving: no input aborts the scan. Lexical
// problems (unterminated literals, bad escapes) are recorded as diagnostics on
// a side channel and scanning continues; the returned stream always ends with
// exactly one EOF sentinel.
//
// Notable behaviors:
//   - '//' and '/*...*/' comments are discarded.
//   - '#'-prefixed lines are captured verbatim as a single Preproc token and
//     never interpreted.
//   - 'true'/'false' are carved out of the identifier path as Bool tokens.
//   - Multi-character operators are matched greedily before single-character
//     fallbacks.
//   - Unrecognized bytes are dropped from the stream without a diagnostic.
package cflow

import "strings"

// TokenKind classifies a token. The specific operator or keyword is carried by
// the Lexeme; the kind only names the lexical class.
type TokenKind int

const (
	EOF TokenKind = iota
	Unknown
	Ident
	Number
	String // double-quoted, lexeme keeps delimiters and escapes verbatim
	Char   // single-quoted, same verbatim rule
	Bool   // "true" or "false"
	Keyword
	Operator
	Punct   // ( ) { } [ ] ; ,
	Preproc // one full '#...' line, captured verbatim
)

var tokenKindNames = map[TokenKind]string{
	EOF:      "eof",
	Unknown:  "unknown",
	Ident:    "identifier",
	Number:   "number",
	String:   "string",
	Char:     "char",
	Bool:     "bool",
	Keyword:  "keyword",
	Operator: "operator",
	Punct:    "punctuation",
	Preproc:  "preprocessor",
}

func (k TokenKind) String() string {
	if s, ok := tokenKindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Token is a lexical token. Line and Col are 1-based and point at the token's
// first character. Tokens are immutable once produced.
type Token struct {
	Kind   TokenKind
	Lexeme string
	Line   int
	Col    int
}

// keywords is the fixed keyword set: primitive type names, control keywords,
// the C++ logical words, and the structural declaration keywords the parser
// recognizes.
var keywords = map[string]bool{
	// types
	"void": true, "bool": true, "char": true, "short": true, "int": true,
	"long": true, "float": true, "double": true, "string": true,
	// control
	"if": true, "else": true, "while": true, "do": true, "for": true,
	"return": true, "break": true, "continue": true,
	"switch": true, "case": true, "default": true,
	// logical words
	"and": true, "or": true, "not": true,
	// declarations & misc
	"const": true, "struct": true, "class": true, "enum": true,
	"union": true, "namespace": true, "using": true,
	"new": true, "delete": true,
}

// typeKeywords is the subset of keywords that may open a declaration.
var typeKeywords = map[string]bool{
	"void": true, "bool": true, "char": true, "short": true, "int": true,
	"long": true, "float": true, "double": true, "string": true,
}

// IsTypeKeyword reports whether lexeme names a primitive type.
func IsTypeKeyword(lexeme string) bool { return typeKeywords[lexeme] }

// twoCharOps lists the multi-character operators, matched greedily.
var twoCharOps = map[string]bool{
	"==": true, "!=": true, "<=": true, ">=": true,
	"&&": true, "||": true, "++": true, "--": true,
	"->": true, "::": true, "<<": true, ">>": true,
}

// Lexer scans one source string. Construct with NewLexer; Scan may be called
// once per instance.
type Lexer struct {
	src   string
	start int // start index of current token
	cur   int // current index
	line  int // 1-based
	col   int // 1-based column of src[cur]

	toks  []Token
	diags []Diag

	// position of the current token's first character
	tokLine int
	tokCol  int
}

// NewLexer creates a lexer for the given source text.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src, line: 1, col: 1}
}

// Errors returns the lexical diagnostics accumulated so far, in source order.
func (l *Lexer) Errors() []Diag { return l.diags }

// Scan tokenizes the entire source. It never fails: problems are recorded via
// Errors() and the result always ends with one EOF token.
func (l *Lexer) Scan() []Token {
	for {
		tok := l.scanToken()
		if tok.Kind == EOF {
			return l.toks
		}
	}
}

/* ---------- low-level cursor ---------- */

func (l *Lexer) isAtEnd() bool { return l.cur >= len(l.src) }

func (l *Lexer) peek() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	return l.src[l.cur], true
}

func (l *Lexer) peekN(n int) (byte, bool) {
	idx := l.cur + n
	if idx >= len(l.src) {
		return 0, false
	}
	return l.src[idx], true
}

func (l *Lexer) advance() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	ch := l.src[l.cur]
	l.cur++
	if ch == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return ch, true
}

func (l *Lexer) addToken(kind TokenKind) Token {
	tok := Token{
		Kind:   kind,
		Lexeme: l.src[l.start:l.cur],
		Line:   l.tokLine,
		Col:    l.tokCol,
	}
	l.toks = append(l.toks, tok)
	l.start = l.cur
	return tok
}

func (l *Lexer) errorf(msg string) {
	l.diags = append(l.diags, Diag{Line: l.tokLine, Col: l.tokCol, Msg: msg})
}

func (l *Lexer) skipWhitespace() {
	for !l.isAtEnd() {
		ch, _ := l.peek()
		switch ch {
		case ' ', '\t', '\r', '\n':
			l.advance()
			l.start = l.cur
		default:
			return
		}
	}
}

/* ---------- byte predicates ---------- */

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isAlpha(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_' }
func isAlphaNum(b byte) bool {
	return isAlpha(b) || isDigit(b)
}

/* ---------- scanners ---------- */

// scanQuoted reads a string or char literal whose opening delimiter has been
// consumed. Backslash escapes are kept verbatim (the escaped byte is consumed
// so an escaped delimiter does not close the literal). An unterminated literal
// is a non-fatal diagnostic; the token is still produced from whatever was
// scanned.
func (l *Lexer) scanQuoted(delim byte, kind TokenKind, what string) Token {
	for !l.isAtEnd() {
		ch, _ := l.advance()
		if ch == delim {
			return l.addToken(kind)
		}
		if ch == '\\' && !l.isAtEnd() {
			l.advance()
		}
	}
	l.errorf("unterminated " + what + " literal")
	return l.addToken(kind)
}

// scanNumber reads a numeric literal: decimal with an optional fraction, or a
// 0x/0b prefixed integer. Any trailing alphanumeric run (type suffixes like
// 'f' or 'L', and exponent text) is consumed as part of the literal.
func (l *Lexer) scanNumber() Token {
	for {
		b, ok := l.peek()
		if !ok || !isAlphaNum(b) {
			break
		}
		l.advance()
	}
	// optional fraction
	if b, ok := l.peek(); ok && b == '.' {
		if b2, ok2 := l.peekN(1); ok2 && isDigit(b2) {
			l.advance() // '.'
			for {
				b, ok := l.peek()
				if !ok || !isAlphaNum(b) {
					break
				}
				l.advance()
			}
		}
	}
	return l.addToken(Number)
}

// scanIdent reads [A-Za-z_][A-Za-z0-9_]* and classifies it.
func (l *Lexer) scanIdent() Token {
	for {
		b, ok := l.peek()
		if !ok || !isAlphaNum(b) {
			break
		}
		l.advance()
	}
	lex := l.src[l.start:l.cur]
	if lex == "true" || lex == "false" {
		return l.addToken(Bool)
	}
	if keywords[lex] {
		return l.addToken(Keyword)
	}
	return l.addToken(Ident)
}

// scanPreproc captures the rest of a '#' line verbatim (newline excluded).
func (l *Lexer) scanPreproc() Token {
	for {
		b, ok := l.peek()
		if !ok || b == '\n' {
			break
		}
		l.advance()
	}
	return l.addToken(Preproc)
}

func (l *Lexer) skipLineComment() {
	for {
		b, ok := l.peek()
		if !ok || b == '\n' {
			return
		}
		l.advance()
	}
}

func (l *Lexer) skipBlockComment() {
	// reaching EOF inside a block comment is tolerated
	for !l.isAtEnd() {
		ch, _ := l.advance()
		if ch == '*' {
			if b, ok := l.peek(); ok && b == '/' {
				l.advance()
				return
			}
		}
	}
}

/* ---------- main scanner ---------- */

func (l *Lexer) scanToken() Token {
	for {
		l.skipWhitespace()
		l.tokLine = l.line
		l.tokCol = l.col
		l.start = l.cur

		if l.isAtEnd() {
			return l.addToken(EOF)
		}

		ch, _ := l.advance()

		switch ch {
		case '(', ')', '{', '}', '[', ']', ';', ',':
			return l.addToken(Punct)
		case '#':
			return l.scanPreproc()
		case '/':
			if b, ok := l.peek(); ok && b == '/' {
				l.skipLineComment()
				l.start = l.cur
				continue
			}
			if b, ok := l.peek(); ok && b == '*' {
				l.advance()
				l.skipBlockComment()
				l.start = l.cur
				continue
			}
			return l.addToken(Operator)
		case '"':
			return l.scanQuoted('"', String, "string")
		case '\'':
			return l.scanQuoted('\'', Char, "char")
		}

		if isDigit(ch) {
			return l.scanNumber()
		}
		if isAlpha(ch) {
			return l.scanIdent()
		}

		// greedy two-character operators
		if b, ok := l.peek(); ok {
			if twoCharOps[string(ch)+string(b)] {
				l.advance()
				return l.addToken(Operator)
			}
		}
		if strings.IndexByte("=+-*<>!&|%^~.?:", ch) >= 0 {
			return l.addToken(Operator)
		}

		// Unrecognized byte: classified Unknown and dropped from the stream.
		l.start = l.cur
	}
}
