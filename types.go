// types.go — primitive type inference and the compatibility heuristic.
//
// This is not a type system. Inference is a pure, local function over the
// AST (one level of recursion into children, no environments beyond the live
// scope stack), and compatibility is a deliberately permissive, asymmetric,
// string-based heuristic used only for assignment/initialization diagnostics.
// The rule ordering below is part of the observable behavior: for example
// AreTypesCompatible("double","int") is true while
// AreTypesCompatible("int","double") is false.
package cflow

import "strings"

// integer-family primitive names.
var intFamily = map[string]bool{"int": true, "short": true, "long": true}

// floating-family primitive names.
var floatFamily = map[string]bool{"double": true, "float": true}

func isArithmeticOp(op string) bool {
	switch op {
	case "+", "-", "*", "/", "%":
		return true
	}
	return false
}

func isBoolOp(op string) bool {
	switch op {
	case "&&", "||", "and", "or",
		"==", "!=", "<", "<=", ">", ">=":
		return true
	}
	return false
}

// InferType computes the loose primitive type of an expression. Identifiers
// resolve against the live scope stack (their declared type, lower-cased) and
// fall back to "undeclared"; anything outside the known patterns is
// "unknown".
func InferType(n Node, sc *ScopeManager) string {
	switch x := n.(type) {
	case *Literal:
		switch x.Kind {
		case LitNumber:
			if strings.ContainsAny(x.Text, ".eE") {
				return "double"
			}
			return "int"
		case LitString:
			return "string"
		case LitChar:
			return "char"
		case LitBool:
			return "bool"
		}
		return "unknown"

	case *IdentExpr:
		if e := sc.Lookup(x.Name); e != nil {
			return strings.ToLower(e.Type)
		}
		return "undeclared"

	case *Binary:
		if isBoolOp(x.Op) {
			return "bool"
		}
		if isArithmeticOp(x.Op) {
			lt := InferType(x.L, sc)
			rt := InferType(x.R, sc)
			if floatFamily[lt] || floatFamily[rt] {
				return "double"
			}
			if intFamily[lt] || intFamily[rt] {
				return "int"
			}
			return "unknown"
		}
		return "unknown"

	case *Unary:
		if x.Op == "!" || x.Op == "not" {
			return "bool"
		}
		return InferType(x.X, sc)

	case *Index:
		return "int"

	case *New:
		return x.Type + "*"

	case *Delete:
		return "void"

	case *InitList:
		return "array"

	case *Assign:
		return InferType(x.Target, sc)

	case *ExprStmt:
		return InferType(x.X, sc)
	}
	return "unknown"
}

// AreTypesCompatible applies the assignment-compatibility heuristic,
// left-type-against-right-type, in this exact order:
//
//  1. exact string match;
//  2. an array-suffixed left type accepts a right type of "array";
//  3. two pointer types are compatible regardless of pointee;
//  4. the integer family (int/short/long) is mutually compatible;
//  5. double/float on the left accept any numeric primitive on the right;
//  6. bool only accepts bool;
//  7. string and char require an exact match;
//  8. anything else is incompatible.
func AreTypesCompatible(left, right string) bool {
	if left == right {
		return true
	}
	if strings.Contains(left, "[") && right == "array" {
		return true
	}
	if strings.Contains(left, "*") && strings.Contains(right, "*") {
		return true
	}
	if intFamily[left] && intFamily[right] {
		return true
	}
	if floatFamily[left] {
		return intFamily[right] || floatFamily[right]
	}
	if left == "bool" {
		return right == "bool"
	}
	if left == "string" || left == "char" {
		return left == right
	}
	return false
}
