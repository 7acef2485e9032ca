// scope.go — block-scoped symbol table.
//
// Scopes form a strict LIFO stack bracketing each block, function body and
// for-header. The global scope (depth 1) is created at construction,
// pre-populated with the standard stream objects and container type names,
// and persists for the lifetime of the analysis: ExitScope is a no-op once
// only the global scope remains.
//
// Entries are owned by the scope that declared them. The Shadowed field is a
// non-owning back-reference into an enclosing scope, kept only so diagnostics
// can mention what a declaration hides; its lifetime is bounded by the
// enclosing scope and it must never be treated as owning.
package cflow

// SymKind classifies a symbol table entry.
type SymKind int

const (
	SymVar SymKind = iota
	SymFunc
	SymParam
	SymType
	SymStd
)

var symKindNames = map[SymKind]string{
	SymVar:   "var",
	SymFunc:  "func",
	SymParam: "param",
	SymType:  "type",
	SymStd:   "std",
}

func (k SymKind) String() string {
	if s, ok := symKindNames[k]; ok {
		return s
	}
	return "var"
}

// Entry is one declared symbol. IsInitialized is the only field mutated after
// declaration: it flips to true on the first assignment (or immediately, for
// builtins and type names, which are always considered ready).
type Entry struct {
	Name          string
	Kind          SymKind
	Type          string // primitive name, possibly with '*' / "[]" decoration
	Depth         int
	IsConst       bool
	IsInitialized bool
	Line, Col     int    // declaration site
	Shadowed      *Entry // same-named entry in an enclosing scope, diagnostics only
}

// Scope is one lexical region. Bindings are keyed by name; insertion order is
// irrelevant.
type Scope struct {
	Depth    int
	Parent   *Scope
	Bindings map[string]*Entry
}

// ScopeManager maintains the scope stack. Diagnostics produced by Declare and
// Require are passed to the report callback when one was supplied, otherwise
// they accumulate internally and are available via Diags.
type ScopeManager struct {
	top    *Scope
	report func(Diag)
	diags  []Diag
}

// builtinStreams are pre-declared with kind std so they pass Require without
// uninitialized warnings.
var builtinStreams = map[string]string{
	"cin":  "istream",
	"cout": "ostream",
	"cerr": "ostream",
	"clog": "ostream",
	"endl": "manipulator",
}

// builtinContainers are the generic container names the parser accepts as
// declaration type names.
var builtinContainers = []string{"vector", "map"}

// NewScopeManager creates a manager holding only the global scope, with the
// builtin identifiers already declared. report may be nil.
func NewScopeManager(report func(Diag)) *ScopeManager {
	sm := &ScopeManager{
		top:    &Scope{Depth: 1, Bindings: make(map[string]*Entry)},
		report: report,
	}
	for name, typ := range builtinStreams {
		sm.top.Bindings[name] = &Entry{
			Name: name, Kind: SymStd, Type: typ, Depth: 1, IsInitialized: true,
		}
	}
	for _, name := range builtinContainers {
		sm.top.Bindings[name] = &Entry{
			Name: name, Kind: SymType, Type: name, Depth: 1, IsInitialized: true,
		}
	}
	return sm
}

// Diags returns diagnostics accumulated internally (only when no report
// callback was supplied).
func (sm *ScopeManager) Diags() []Diag { return sm.diags }

// Depth returns the depth of the innermost scope (1 = global).
func (sm *ScopeManager) Depth() int { return sm.top.Depth }

// Current returns the innermost scope.
func (sm *ScopeManager) Current() *Scope { return sm.top }

func (sm *ScopeManager) emit(d Diag) {
	if sm.report != nil {
		sm.report(d)
		return
	}
	sm.diags = append(sm.diags, d)
}

// EnterScope pushes a fresh scope whose parent is the current top.
func (sm *ScopeManager) EnterScope() {
	sm.top = &Scope{
		Depth:    sm.top.Depth + 1,
		Parent:   sm.top,
		Bindings: make(map[string]*Entry),
	}
}

// ExitScope pops the innermost scope. Popping the global scope is forbidden;
// the call is a no-op when only the global scope remains.
func (sm *ScopeManager) ExitScope() {
	if sm.top.Parent == nil {
		return
	}
	sm.top = sm.top.Parent
}

// Declare binds name in the innermost scope. If name already exists there, a
// duplicate-declaration diagnostic is recorded and the existing entry is
// returned unchanged — parsing continues with the original binding. The new
// entry's Shadowed link is the result of Lookup taken before insertion, and
// IsInitialized starts true only for kinds std and type.
func (sm *ScopeManager) Declare(name string, kind SymKind, typ string, isConst bool, line, col int) *Entry {
	if existing, ok := sm.top.Bindings[name]; ok {
		sm.emit(Diag{Line: line, Col: col,
			Msg: "duplicate declaration of '" + name + "' in the same scope"})
		return existing
	}
	e := &Entry{
		Name:          name,
		Kind:          kind,
		Type:          typ,
		Depth:         sm.top.Depth,
		IsConst:       isConst,
		IsInitialized: kind == SymStd || kind == SymType,
		Line:          line,
		Col:           col,
		Shadowed:      sm.Lookup(name),
	}
	sm.top.Bindings[name] = e
	return e
}

// Lookup searches innermost → outward through parent links; the first match
// wins. It returns nil when the name is unbound.
func (sm *ScopeManager) Lookup(name string) *Entry {
	for s := sm.top; s != nil; s = s.Parent {
		if e, ok := s.Bindings[name]; ok {
			return e
		}
	}
	return nil
}

// Require performs a lookup for a use site. A missing name records an
// "undeclared identifier" diagnostic and returns nil. A found-but-
// uninitialized entry (for kinds other than std and type) records a non-fatal
// "use of uninitialized variable" diagnostic; the entry is still returned.
func (sm *ScopeManager) Require(name string, line, col int) *Entry {
	e := sm.Lookup(name)
	if e == nil {
		sm.emit(Diag{Line: line, Col: col, Msg: "undeclared identifier '" + name + "'"})
		return nil
	}
	if !e.IsInitialized && e.Kind != SymStd && e.Kind != SymType {
		sm.emit(Diag{Line: line, Col: col, Msg: "use of uninitialized variable '" + name + "'"})
	}
	return e
}
