// parser_test.go
package cflow

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func parseSrc(t *testing.T, src string) *Result {
	t.Helper()
	res := Parse(src)
	if res.Program == nil {
		t.Fatalf("no parse tree for:\n%s\ndiags: %v", src, res.Errors)
	}
	return res
}

func wantClean(t *testing.T, res *Result) {
	t.Helper()
	if len(res.LexErrors) != 0 || len(res.Errors) != 0 {
		t.Fatalf("want no diagnostics, got lex=%v parse=%v", res.LexErrors, res.Errors)
	}
}

func hasDiag(diags []Diag, substr string) bool {
	for _, d := range diags {
		if strings.Contains(d.Msg, substr) {
			return true
		}
	}
	return false
}

func Test_Parser_Declarations_Clean(t *testing.T) {
	res := parseSrc(t, "int x = 5; bool f = true;")
	wantClean(t, res)

	want := &Program{Stmts: []Node{
		&Decl{Name: "x", Type: "int", Init: &Literal{Kind: LitNumber, Text: "5"}},
		&Decl{Name: "f", Type: "bool", Init: &Literal{Kind: LitBool, Text: "true"}},
	}}
	if diff := cmp.Diff(want, res.Program); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
	for _, name := range []string{"x", "f"} {
		e := res.Scopes.Lookup(name)
		if e == nil || !e.IsInitialized {
			t.Fatalf("%q must be declared and initialized, got %+v", name, e)
		}
	}
}

func Test_Parser_Assign_Incompatible_Type(t *testing.T) {
	res := parseSrc(t, `int x; x = "hi";`)
	if !hasDiag(res.Errors, "'x'") || !hasDiag(res.Errors, "incompatible") {
		t.Fatalf("want an incompatible-assignment diagnostic naming x, got %v", res.Errors)
	}
	if len(res.Program.Stmts) != 2 {
		t.Fatalf("both statements must survive, got %d", len(res.Program.Stmts))
	}
	if e := res.Scopes.Lookup("x"); e == nil || !e.IsInitialized {
		t.Fatalf("x must be marked initialized regardless of compatibility, got %+v", e)
	}
}

func Test_Parser_Const_Assignment(t *testing.T) {
	res := parseSrc(t, "const int c = 5; c = 6;")
	if len(res.Errors) != 1 || !strings.Contains(res.Errors[0].Msg, "cannot assign to const 'c'") {
		t.Fatalf("want exactly one const diagnostic, got %v", res.Errors)
	}
}

func Test_Parser_Const_Requires_Initializer(t *testing.T) {
	res := parseSrc(t, "const int c;")
	if len(res.Errors) != 1 || !strings.Contains(res.Errors[0].Msg, "must be initialized") {
		t.Fatalf("want one missing-initializer diagnostic, got %v", res.Errors)
	}
}

func Test_Parser_Duplicate_Declaration(t *testing.T) {
	res := parseSrc(t, "int x; int x;")
	if len(res.Errors) != 1 || !strings.Contains(res.Errors[0].Msg, "duplicate declaration of 'x'") {
		t.Fatalf("want one duplicate diagnostic, got %v", res.Errors)
	}
}

func Test_Parser_Uninitialized_Use(t *testing.T) {
	res := parseSrc(t, "int x; int y = x;")
	if len(res.Errors) != 1 || !strings.Contains(res.Errors[0].Msg, "use of uninitialized variable 'x'") {
		t.Fatalf("want one uninitialized-use diagnostic, got %v", res.Errors)
	}
}

func Test_Parser_IfElse_Structure(t *testing.T) {
	res := parseSrc(t, "int a = 1; int b = 2; int x = 0; if (a > b) { x = a; } else { x = b; }")
	wantClean(t, res)

	stmt := res.Program.Stmts[3]
	iff, ok := stmt.(*If)
	if !ok {
		t.Fatalf("want an if statement, got %T", stmt)
	}
	cond, ok := iff.Cond.(*Binary)
	if !ok || cond.Op != ">" {
		t.Fatalf("condition: want a > comparison, got %+v", iff.Cond)
	}
	thenBlk, ok := iff.Then.(*Block)
	if !ok || len(thenBlk.Stmts) != 1 {
		t.Fatalf("then branch: want a one-statement block, got %+v", iff.Then)
	}
	if iff.Else == nil {
		t.Fatalf("else branch must be present")
	}
}

func Test_Parser_While_And_DoWhile(t *testing.T) {
	res := parseSrc(t, "int x = 0; while (x < 3) { x = x + 1; } do { x = x - 1; } while (x > 0);")
	wantClean(t, res)
	if _, ok := res.Program.Stmts[1].(*While); !ok {
		t.Fatalf("want a while loop, got %T", res.Program.Stmts[1])
	}
	if _, ok := res.Program.Stmts[2].(*DoWhile); !ok {
		t.Fatalf("want a do-while loop, got %T", res.Program.Stmts[2])
	}
}

func Test_Parser_For_Header_Scope(t *testing.T) {
	res := parseSrc(t, "for (int i = 0; i < 3; i++) { int j = i; }")
	wantClean(t, res)

	f, ok := res.Program.Stmts[0].(*For)
	if !ok {
		t.Fatalf("want a for loop, got %T", res.Program.Stmts[0])
	}
	if _, ok := f.Init.(*Decl); !ok {
		t.Fatalf("init clause: want a declaration, got %T", f.Init)
	}
	post, ok := f.Post.(*Unary)
	if !ok || post.Op != "++" || !post.Postfix {
		t.Fatalf("post clause: want postfix ++, got %+v", f.Post)
	}
	if res.Scopes.Lookup("i") != nil {
		t.Fatalf("loop variable must not escape the for-header scope")
	}
}

func Test_Parser_Array_Declaration(t *testing.T) {
	res := parseSrc(t, "int arr[] = {1, 2, 3};")
	wantClean(t, res)
	d := res.Program.Stmts[0].(*Decl)
	if d.Type != "int[]" {
		t.Fatalf("array type: want int[], got %q", d.Type)
	}
	lst, ok := d.Init.(*InitList)
	if !ok || len(lst.Elems) != 3 {
		t.Fatalf("initializer: want a 3-element list, got %+v", d.Init)
	}
}

func Test_Parser_Pointer_New_Delete(t *testing.T) {
	res := parseSrc(t, "int* p = new int[4]; delete[] p;")
	wantClean(t, res)
	d := res.Program.Stmts[0].(*Decl)
	if d.Type != "int*" {
		t.Fatalf("pointer type: want int*, got %q", d.Type)
	}
	nw, ok := d.Init.(*New)
	if !ok || nw.Type != "int" || nw.Size == nil {
		t.Fatalf("initializer: want new int[4], got %+v", d.Init)
	}
	del, ok := res.Program.Stmts[1].(*Delete)
	if !ok || !del.Array {
		t.Fatalf("want delete[], got %+v", res.Program.Stmts[1])
	}
}

func Test_Parser_Template_Container(t *testing.T) {
	res := parseSrc(t, "vector<int> v;")
	wantClean(t, res)
	d := res.Program.Stmts[0].(*Decl)
	if d.Name != "v" || d.Type != "vector" {
		t.Fatalf("container declaration: got %+v", d)
	}
}

func Test_Parser_Using_And_Streams(t *testing.T) {
	res := parseSrc(t, "#include <iostream>\nusing namespace std;\nint x = 1;\ncout << x << endl;")
	wantClean(t, res)
	// the directive and the preprocessor line leave no tree nodes
	if len(res.Program.Stmts) != 2 {
		t.Fatalf("want declaration and stream statement only, got %d stmts", len(res.Program.Stmts))
	}
}

func Test_Parser_Function_Params_Not_Bound(t *testing.T) {
	res := parseSrc(t, "int add(int a, int b) { return a + b; }")
	fd, ok := res.Program.Stmts[0].(*FuncDef)
	if !ok {
		t.Fatalf("want a function definition, got %T", res.Program.Stmts[0])
	}
	if fd.Name != "add" || fd.RetType != "int" {
		t.Fatalf("function header: got %+v", fd)
	}
	if fd.Params != "int a , int b" {
		t.Fatalf("raw parameter text: got %q", fd.Params)
	}
	// parameters are intentionally not bound into scope, so the body sees
	// a and b as undeclared
	if !hasDiag(res.Errors, "undeclared identifier 'a'") || !hasDiag(res.Errors, "undeclared identifier 'b'") {
		t.Fatalf("want undeclared diagnostics for both parameters, got %v", res.Errors)
	}
	if res.Scopes.Lookup("add") == nil {
		t.Fatalf("the function name itself must be declared")
	}
}

func Test_Parser_Missing_Semicolon_Recovers(t *testing.T) {
	res := parseSrc(t, "int x = 1 int y = 2; int z = 3;")
	if len(res.Errors) == 0 {
		t.Fatalf("want a missing-semicolon diagnostic")
	}
	if res.Scopes.Lookup("x") == nil || res.Scopes.Lookup("z") == nil {
		t.Fatalf("parsing must continue past the failure")
	}
}

func Test_Parser_Recovery_Suppresses_Cascades(t *testing.T) {
	res := parseSrc(t, "int = ; int ok = 1;")
	if len(res.Errors) != 1 {
		t.Fatalf("want exactly one diagnostic for one failure point, got %v", res.Errors)
	}
	if res.Scopes.Lookup("ok") == nil {
		t.Fatalf("parsing must resume at the next statement")
	}
}

func Test_Parser_Unterminated_String_Channel(t *testing.T) {
	res := Parse(`string s = "abc`)
	if len(res.LexErrors) != 1 {
		t.Fatalf("want one lexical diagnostic, got %v", res.LexErrors)
	}
	if res.Program == nil {
		t.Fatalf("lexical trouble must not abort parsing")
	}
}

func Test_Parser_Block_Scope_Shadowing(t *testing.T) {
	res := parseSrc(t, "int x = 1; { double x = 2.5; x = 3.0; } x = 2;")
	wantClean(t, res)
	e := res.Scopes.Lookup("x")
	if e == nil || e.Type != "int" {
		t.Fatalf("global x must be back in view after the block, got %+v", e)
	}
}

func Test_Parser_Condition_Missing_Paren(t *testing.T) {
	res := parseSrc(t, "int x = 1; if x > 0 { x = 0; }")
	if len(res.Errors) != 1 || !strings.Contains(res.Errors[0].Msg, "expected '(' after 'if'") {
		t.Fatalf("want one missing-parenthesis diagnostic, got %v", res.Errors)
	}
	if _, ok := res.Program.Stmts[1].(*If); !ok {
		t.Fatalf("the if statement must still be built")
	}
}
