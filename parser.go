// parser.go — recursive-descent parser for the C-like subset.
//
// OVERVIEW
// --------
// The parser consumes the token stream produced by the lexer (lexer.go) and
// builds the AST (ast.go), consulting the ScopeManager (scope.go) during the
// descent for declaration/use/type checks. All diagnostics are accumulated,
// never thrown: a statement that fails to parse is skipped to the next
// statement boundary (';', or a block delimiter) and parsing resumes. One
// error is recorded per resynchronization; a recovery flag suppresses repeat
// diagnostics until the grammar successfully consumes a token past the
// failure point.
//
// Top level: preprocessor lines are skipped structurally, 'using namespace X;'
// directives are validated and discarded, everything else is a statement or a
// declaration, looping until end of file.
//
// Expression grammar (ascending precedence):
//
//	assignment (right-assoc)
//	logical-or
//	logical-and
//	equality            == !=
//	relational          < <= > >=  << >>   (shifts share this level)
//	additive            + -
//	multiplicative      * / %
//	unary prefix        + - ! ++ --
//	postfix             trailing ++/--, then [expr] index suffixes
//	primary             ( expr ) | { list } | new T | new T[n] | ident | literal
//
// Each identifier reached in primary position triggers a Require scope check.
// An unparsable token in primary position is reported once and consumed as a
// Bad placeholder so the caller always gets a node back.
//
// The single public entry point, Parse, wraps the whole descent in a
// catch-all that converts any unexpected internal fault into one diagnostic
// with no position and yields no tree.
package cflow

import (
	"fmt"
	"strings"
)

// Result is the front-end output: the tree (nil only on the catch-all fault
// path), both diagnostic channels, and the populated scope stack.
type Result struct {
	Program   *Program
	LexErrors []Diag
	Errors    []Diag
	Scopes    *ScopeManager
}

// Parse runs the full front end over one in-memory source string.
func Parse(src string) *Result {
	lx := NewLexer(src)
	toks := lx.Scan()

	p := &parser{toks: toks}
	p.scopes = NewScopeManager(p.report)

	res := &Result{LexErrors: lx.Errors(), Scopes: p.scopes}
	func() {
		defer func() {
			if r := recover(); r != nil {
				res.Program = nil
				p.diags = append(p.diags, Diag{Msg: fmt.Sprintf("internal parser fault: %v", r)})
			}
		}()
		res.Program = p.program()
	}()
	res.Errors = p.diags
	return res
}

// parser holds all mutable parse state; nothing is ambient or global.
type parser struct {
	toks   []Token
	i      int
	scopes *ScopeManager
	diags  []Diag

	// set on a syntax error, cleared on the next successful grammar match;
	// suppresses repeat diagnostics for the same failure point
	recovering bool
}

/* ---------- token basics ---------- */

func (p *parser) peek() Token {
	if p.i >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF sentinel
	}
	return p.toks[p.i]
}

func (p *parser) prev() Token { return p.toks[p.i-1] }

func (p *parser) atEnd() bool { return p.peek().Kind == EOF }

// advance moves past the current token without touching the recovery flag;
// resynchronization uses it to skip.
func (p *parser) advance() Token {
	t := p.peek()
	if !p.atEnd() {
		p.i++
	}
	return t
}

// consume moves past the current token and clears the recovery flag: the
// grammar made progress.
func (p *parser) consume() Token {
	t := p.advance()
	p.recovering = false
	return t
}

func (p *parser) checkOp(lexemes ...string) bool {
	t := p.peek()
	if t.Kind != Operator {
		return false
	}
	for _, lx := range lexemes {
		if t.Lexeme == lx {
			return true
		}
	}
	return false
}

func (p *parser) checkPunct(lexeme string) bool {
	t := p.peek()
	return t.Kind == Punct && t.Lexeme == lexeme
}

func (p *parser) checkKw(word string) bool {
	t := p.peek()
	return t.Kind == Keyword && t.Lexeme == word
}

func (p *parser) matchOp(lexemes ...string) bool {
	if p.checkOp(lexemes...) {
		p.consume()
		return true
	}
	return false
}

func (p *parser) matchPunct(lexeme string) bool {
	if p.checkPunct(lexeme) {
		p.consume()
		return true
	}
	return false
}

func (p *parser) matchKw(word string) bool {
	if p.checkKw(word) {
		p.consume()
		return true
	}
	return false
}

/* ---------- diagnostics & recovery ---------- */

// report appends a semantic diagnostic unconditionally. It is also the sink
// the ScopeManager writes through, so scope and parser diagnostics stay in
// one ordered channel.
func (p *parser) report(d Diag) {
	p.diags = append(p.diags, d)
}

// syntaxError records a parse error at tok unless the parser is already
// recovering from an earlier failure at the same point.
func (p *parser) syntaxError(tok Token, msg string) {
	if p.recovering {
		return
	}
	p.recovering = true
	p.diags = append(p.diags, Diag{Line: tok.Line, Col: tok.Col, Msg: msg})
}

// synchronize skips to the next statement boundary: past a ';', or up to (not
// past) a block delimiter.
func (p *parser) synchronize() {
	for !p.atEnd() {
		t := p.peek()
		if t.Kind == Punct {
			switch t.Lexeme {
			case ";":
				p.advance()
				return
			case "{", "}":
				return
			}
		}
		p.advance()
	}
}

func (p *parser) expectPunct(lexeme, msg string) bool {
	if p.matchPunct(lexeme) {
		return true
	}
	p.syntaxError(p.peek(), msg)
	return false
}

func (p *parser) expectSemi(what string) {
	if p.matchPunct(";") {
		return
	}
	p.syntaxError(p.peek(), "expected ';' after "+what)
	p.synchronize()
}

/* ---------- program / directives ---------- */

func (p *parser) program() *Program {
	prog := &Program{}
	for !p.atEnd() {
		if p.peek().Kind == Preproc {
			p.consume()
			continue
		}
		if p.checkKw("using") {
			p.usingDirective()
			continue
		}
		if s := p.statement(); s != nil {
			prog.Stmts = append(prog.Stmts, s)
		}
	}
	return prog
}

// usingDirective validates 'using namespace X;' and discards the name.
func (p *parser) usingDirective() {
	p.consume() // 'using'
	if !p.matchKw("namespace") {
		p.syntaxError(p.peek(), "expected 'namespace' after 'using'")
		p.synchronize()
		return
	}
	if p.peek().Kind != Ident {
		p.syntaxError(p.peek(), "expected namespace name")
		p.synchronize()
		return
	}
	p.consume() // name, discarded after validation
	p.expectSemi("using directive")
}

/* ---------- statements ---------- */

func (p *parser) statement() Node {
	switch {
	case p.peek().Kind == Preproc:
		p.consume()
		return nil
	case p.checkPunct(";"):
		p.consume() // empty statement
		return nil
	case p.checkPunct("{"):
		return p.blockStmt()
	case p.checkKw("if"):
		return p.ifStmt()
	case p.checkKw("while"):
		return p.whileStmt()
	case p.checkKw("do"):
		return p.doWhileStmt()
	case p.checkKw("for"):
		return p.forStmt()
	case p.checkKw("break"):
		p.consume()
		p.expectSemi("'break'")
		return &Break{}
	case p.checkKw("continue"):
		p.consume()
		p.expectSemi("'continue'")
		return &Continue{}
	case p.checkKw("return"):
		return p.returnStmt()
	case p.checkKw("delete"):
		return p.deleteStmt()
	case p.checkKw("using"):
		p.usingDirective()
		return nil
	}

	if n, ok := p.tryDeclaration(); ok {
		return n
	}
	return p.exprStatement()
}

// blockStmt parses '{ ... }' inside its own fresh scope.
func (p *parser) blockStmt() Node {
	p.expectPunct("{", "expected '{'")
	p.scopes.EnterScope()
	blk := &Block{}
	for !p.atEnd() && !p.checkPunct("}") {
		if s := p.statement(); s != nil {
			blk.Stmts = append(blk.Stmts, s)
		}
	}
	p.expectPunct("}", "expected '}' to close block")
	p.scopes.ExitScope()
	return blk
}

// condition parses a parenthesized loop/branch condition. A missing opening
// parenthesis is a diagnostic; the condition is then parsed bare.
func (p *parser) condition(kw string) Node {
	if p.matchPunct("(") {
		c := p.expression()
		p.expectPunct(")", "expected ')' after "+kw+" condition")
		return c
	}
	p.syntaxError(p.peek(), "expected '(' after '"+kw+"'")
	return p.expression()
}

func (p *parser) ifStmt() Node {
	p.consume() // 'if'
	cond := p.condition("if")

	p.scopes.EnterScope()
	then := p.statement()
	p.scopes.ExitScope()

	var els Node
	if p.matchKw("else") {
		p.scopes.EnterScope()
		els = p.statement()
		p.scopes.ExitScope()
	}
	return &If{Cond: cond, Then: then, Else: els}
}

func (p *parser) whileStmt() Node {
	p.consume() // 'while'
	cond := p.condition("while")
	body := p.statement()
	return &While{Cond: cond, Body: body}
}

func (p *parser) doWhileStmt() Node {
	p.consume() // 'do'
	body := p.statement()
	if !p.matchKw("while") {
		p.syntaxError(p.peek(), "expected 'while' after do-loop body")
		p.synchronize()
		return &DoWhile{Body: body, Cond: &Bad{}}
	}
	cond := p.condition("while")
	p.expectSemi("do-while loop")
	return &DoWhile{Body: body, Cond: cond}
}

// forStmt opens one scope spanning the init clause, condition, increment and
// body, closed after the body.
func (p *parser) forStmt() Node {
	p.consume() // 'for'
	p.scopes.EnterScope()
	defer p.scopes.ExitScope()

	p.expectPunct("(", "expected '(' after 'for'")

	var init Node
	if p.matchPunct(";") {
		// empty init
	} else if n, ok := p.tryDeclaration(); ok {
		init = n // declaration consumes its own ';'
	} else {
		init = &ExprStmt{X: p.expression()}
		p.expectPunct(";", "expected ';' after for-loop initializer")
	}

	var cond Node
	if !p.checkPunct(";") {
		cond = p.expression()
	}
	p.expectPunct(";", "expected ';' after for-loop condition")

	var post Node
	if !p.checkPunct(")") {
		post = p.expression()
	}
	p.expectPunct(")", "expected ')' to close for-loop header")

	body := p.statement()
	return &For{Init: init, Cond: cond, Post: post, Body: body}
}

func (p *parser) returnStmt() Node {
	p.consume() // 'return'
	var val Node
	if !p.checkPunct(";") {
		val = p.expression()
	}
	p.expectSemi("return statement")
	return &Return{Value: val}
}

func (p *parser) deleteStmt() Node {
	p.consume() // 'delete'
	arr := false
	if p.matchPunct("[") {
		p.expectPunct("]", "expected ']' after 'delete['")
		arr = true
	}
	target := p.expression()
	p.expectSemi("delete statement")
	return &Delete{Target: target, Array: arr}
}

/* ---------- declarations ---------- */

// containerTypeNames is the identifier whitelist accepted as declaration type
// names alongside the type keywords.
var containerTypeNames = map[string]bool{"vector": true, "map": true}

// atTypeName reports whether the current token can open a declaration.
func (p *parser) atTypeName() bool {
	t := p.peek()
	if t.Kind == Keyword && typeKeywords[t.Lexeme] {
		return true
	}
	return t.Kind == Ident && containerTypeNames[t.Lexeme]
}

// tryDeclaration dispatches between declaration and statement parsing. An
// optional leading 'const' is recorded; a stray 'const' not followed by a
// type name is itself an error, after which control falls through to
// statement parsing.
func (p *parser) tryDeclaration() (Node, bool) {
	isConst := false
	if p.checkKw("const") {
		constTok := p.peek()
		p.consume()
		isConst = true
		if !p.atTypeName() {
			p.syntaxError(constTok, "'const' must be followed by a type name")
			return nil, false
		}
	} else if !p.atTypeName() {
		return nil, false
	}
	return p.declaration(isConst), true
}

func (p *parser) declaration(isConst bool) Node {
	baseTok := p.consume()
	typ := baseTok.Lexeme
	if baseTok.Kind == Ident && p.checkOp("<") {
		p.skipTemplateArgs()
	}
	for p.matchOp("*") {
		typ += "*"
	}

	nameTok := p.peek()
	if nameTok.Kind != Ident {
		p.syntaxError(nameTok, "expected identifier in declaration")
		p.synchronize()
		return nil
	}
	p.consume()

	if p.checkPunct("(") {
		return p.funcDecl(nameTok, typ, isConst)
	}
	return p.varDecl(nameTok, typ, isConst)
}

// skipTemplateArgs skips a '<...>' template argument list as balanced-bracket
// text; the arguments are not parsed. '>>' closes two levels.
func (p *parser) skipTemplateArgs() {
	p.consume() // '<'
	depth := 1
	for depth > 0 {
		if p.atEnd() {
			p.syntaxError(p.peek(), "unterminated template argument list")
			return
		}
		t := p.advance()
		if t.Kind == Operator {
			switch t.Lexeme {
			case "<":
				depth++
			case ">":
				depth--
			case ">>":
				depth -= 2
			}
		}
	}
}

// varDecl parses array suffixes, an optional initializer, and declares the
// name into the current scope. Array-size sub-expressions are parsed for
// their symbol-use side effects and then discarded; only the textual "[]"
// marker is retained in the type.
func (p *parser) varDecl(nameTok Token, typ string, isConst bool) Node {
	for p.matchPunct("[") {
		if !p.checkPunct("]") {
			p.expression() // size, discarded
		}
		p.expectPunct("]", "expected ']' in array declarator")
		typ += "[]"
	}

	var init Node
	if p.matchOp("=") {
		init = p.expression()
	} else if p.checkPunct("{") {
		init = p.braceList()
	}

	entry := p.scopes.Declare(nameTok.Lexeme, SymVar, typ, isConst, nameTok.Line, nameTok.Col)
	if init != nil {
		rt := InferType(init, p.scopes)
		if !AreTypesCompatible(strings.ToLower(typ), rt) {
			p.report(Diag{Line: nameTok.Line, Col: nameTok.Col,
				Msg: fmt.Sprintf("incompatible types: cannot initialize '%s' of type %s with a value of type %s",
					nameTok.Lexeme, typ, rt)})
		}
		entry.IsInitialized = true
	} else if isConst {
		p.report(Diag{Line: nameTok.Line, Col: nameTok.Col,
			Msg: "const variable '" + nameTok.Lexeme + "' must be initialized"})
	}

	p.expectSemi("declaration")
	return &Decl{Name: nameTok.Lexeme, Type: typ, Const: isConst, Init: init}
}

// funcDecl declares the name into the enclosing scope, scans the parameter
// list as balanced parentheses without binding parameters, and parses the
// body inside a fresh scope. A missing opening brace is a warning; an
// implicit body is then parsed statement-by-statement until a return (or end
// of file), still inside a fresh scope.
func (p *parser) funcDecl(nameTok Token, retType string, isConst bool) Node {
	_ = isConst // 'const' on a function declarator carries no meaning here
	p.scopes.Declare(nameTok.Lexeme, SymFunc, retType, false, nameTok.Line, nameTok.Col)

	params := p.scanParams()

	var body *Block
	if p.checkPunct("{") {
		body, _ = p.blockStmt().(*Block)
	} else {
		p.report(Diag{Line: p.peek().Line, Col: p.peek().Col,
			Msg: "expected '{' to begin body of function '" + nameTok.Lexeme + "'"})
		p.scopes.EnterScope()
		body = &Block{}
		for !p.atEnd() {
			s := p.statement()
			if s != nil {
				body.Stmts = append(body.Stmts, s)
			}
			if _, isRet := s.(*Return); isRet {
				break
			}
		}
		p.scopes.ExitScope()
	}
	return &FuncDef{Name: nameTok.Lexeme, RetType: retType, Params: params, Body: body}
}

// scanParams consumes a balanced parenthesized parameter list and returns its
// raw text. Parameters are intentionally not bound into scope.
func (p *parser) scanParams() string {
	p.expectPunct("(", "expected '(' to start parameter list")
	depth := 1
	var parts []string
	for depth > 0 {
		if p.atEnd() {
			p.syntaxError(p.peek(), "unterminated parameter list")
			break
		}
		t := p.advance()
		if t.Kind == Punct {
			switch t.Lexeme {
			case "(":
				depth++
			case ")":
				depth--
				if depth == 0 {
					continue
				}
			}
		}
		if depth > 0 {
			parts = append(parts, t.Lexeme)
		}
	}
	return strings.Join(parts, " ")
}

/* ---------- expressions ---------- */

func (p *parser) exprStatement() Node {
	e := p.expression()
	p.expectSemi("statement")
	return &ExprStmt{X: e}
}

func (p *parser) expression() Node { return p.assignment() }

func (p *parser) assignment() Node {
	left := p.logicalOr()
	if p.matchOp("=") {
		opTok := p.prev()
		right := p.assignment() // right-associative
		p.assignSideEffects(left, right, opTok)
		return &Assign{Target: left, Op: "=", Value: right}
	}
	return left
}

// assignSideEffects applies the scope checks for an assignment whose left
// side is a bare identifier: assigning to a const entry is an error (the
// assignment node is still produced); otherwise the declared type and the
// inferred right-hand type are checked for compatibility and the entry is
// marked initialized regardless of the compatibility outcome.
func (p *parser) assignSideEffects(left, right Node, opTok Token) {
	id, ok := left.(*IdentExpr)
	if !ok {
		return
	}
	e := p.scopes.Lookup(id.Name)
	if e == nil {
		return
	}
	if e.IsConst {
		p.report(Diag{Line: opTok.Line, Col: opTok.Col,
			Msg: "cannot assign to const '" + id.Name + "'"})
		return
	}
	lt := strings.ToLower(e.Type)
	rt := InferType(right, p.scopes)
	if !AreTypesCompatible(lt, rt) {
		p.report(Diag{Line: opTok.Line, Col: opTok.Col,
			Msg: fmt.Sprintf("incompatible types: cannot assign %s to '%s' of type %s",
				rt, id.Name, lt)})
	}
	e.IsInitialized = true
}

func (p *parser) logicalOr() Node {
	left := p.logicalAnd()
	for {
		switch {
		case p.matchOp("||"):
			left = &Binary{Op: "||", L: left, R: p.logicalAnd()}
		case p.matchKw("or"):
			left = &Binary{Op: "or", L: left, R: p.logicalAnd()}
		default:
			return left
		}
	}
}

func (p *parser) logicalAnd() Node {
	left := p.equality()
	for {
		switch {
		case p.matchOp("&&"):
			left = &Binary{Op: "&&", L: left, R: p.equality()}
		case p.matchKw("and"):
			left = &Binary{Op: "and", L: left, R: p.equality()}
		default:
			return left
		}
	}
}

func (p *parser) equality() Node {
	left := p.relational()
	for p.matchOp("==", "!=") {
		op := p.prev().Lexeme
		left = &Binary{Op: op, L: left, R: p.relational()}
	}
	return left
}

// relational also hosts the shift operators, which share this level.
func (p *parser) relational() Node {
	left := p.additive()
	for p.matchOp("<", "<=", ">", ">=", "<<", ">>") {
		op := p.prev().Lexeme
		left = &Binary{Op: op, L: left, R: p.additive()}
	}
	return left
}

func (p *parser) additive() Node {
	left := p.multiplicative()
	for p.matchOp("+", "-") {
		op := p.prev().Lexeme
		left = &Binary{Op: op, L: left, R: p.multiplicative()}
	}
	return left
}

func (p *parser) multiplicative() Node {
	left := p.unary()
	for p.matchOp("*", "/", "%") {
		op := p.prev().Lexeme
		left = &Binary{Op: op, L: left, R: p.unary()}
	}
	return left
}

func (p *parser) unary() Node {
	if p.matchOp("+", "-", "!", "++", "--") {
		op := p.prev().Lexeme
		return &Unary{Op: op, X: p.unary()}
	}
	if p.matchKw("not") {
		return &Unary{Op: "not", X: p.unary()}
	}
	return p.postfix()
}

// postfix handles a trailing ++/--, then any number of index suffixes.
func (p *parser) postfix() Node {
	x := p.primary()
	if p.matchOp("++", "--") {
		opTok := p.prev()
		p.postfixSideEffects(x, opTok)
		x = &Unary{Op: opTok.Lexeme, X: x, Postfix: true}
	}
	for p.matchPunct("[") {
		i := p.expression()
		p.expectPunct("]", "expected ']' after index expression")
		x = &Index{X: x, I: i}
	}
	return x
}

// postfixSideEffects mirrors the assignment checks for ++/-- on a bare
// identifier: const is an error, otherwise the entry is marked initialized.
func (p *parser) postfixSideEffects(x Node, opTok Token) {
	id, ok := x.(*IdentExpr)
	if !ok {
		return
	}
	e := p.scopes.Lookup(id.Name)
	if e == nil {
		return
	}
	if e.IsConst {
		p.report(Diag{Line: opTok.Line, Col: opTok.Col,
			Msg: "cannot modify const '" + id.Name + "'"})
		return
	}
	e.IsInitialized = true
}

func (p *parser) primary() Node {
	t := p.peek()
	switch {
	case p.matchPunct("("):
		e := p.expression()
		p.expectPunct(")", "expected ')'")
		return e

	case p.checkPunct("{"):
		return p.braceList()

	case p.checkKw("new"):
		return p.newExpr()

	case t.Kind == Ident:
		p.consume()
		p.scopes.Require(t.Lexeme, t.Line, t.Col)
		return &IdentExpr{Name: t.Lexeme}

	case t.Kind == Number:
		p.consume()
		return &Literal{Kind: LitNumber, Text: t.Lexeme}

	case t.Kind == String:
		p.consume()
		return &Literal{Kind: LitString, Text: t.Lexeme}

	case t.Kind == Char:
		p.consume()
		return &Literal{Kind: LitChar, Text: t.Lexeme}

	case t.Kind == Bool:
		p.consume()
		return &Literal{Kind: LitBool, Text: t.Lexeme}
	}

	what := t.Lexeme
	if t.Kind == EOF {
		what = "end of file"
	}
	p.syntaxError(t, "expected expression, found '"+what+"'")
	if !p.atEnd() {
		p.advance()
	}
	return &Bad{Text: t.Lexeme}
}

// braceList parses '{ e1, e2, ... }'; the list is typed as the opaque
// "array".
func (p *parser) braceList() Node {
	p.expectPunct("{", "expected '{'")
	lst := &InitList{}
	if p.matchPunct("}") {
		return lst
	}
	for {
		lst.Elems = append(lst.Elems, p.expression())
		if !p.matchPunct(",") {
			break
		}
	}
	p.expectPunct("}", "expected '}' to close initializer list")
	return lst
}

// newExpr parses 'new Type' and 'new Type[size]'.
func (p *parser) newExpr() Node {
	p.consume() // 'new'
	t := p.peek()
	if !(t.Kind == Keyword && typeKeywords[t.Lexeme]) &&
		!(t.Kind == Ident) {
		p.syntaxError(t, "expected type name after 'new'")
		return &Bad{Text: t.Lexeme}
	}
	p.consume()
	n := &New{Type: t.Lexeme}
	if p.matchPunct("[") {
		n.Size = p.expression()
		p.expectPunct("]", "expected ']' after array size")
	}
	return n
}
