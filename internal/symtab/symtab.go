// Package symtab implements the compiler core's Symbol / Scope Store (component B): a per-function
// LocalTable and a module-wide GlobalTable, both keyed by name, mirroring the teacher's symTab type
// in ir/llvm/transform.go generalized to the two-tier scope model SPEC_FULL.md §3 requires.
package symtab

import (
	"sync"

	"tinygo.org/x/go-llvm"

	"avrc/internal/diag"
	"avrc/internal/value"
)

// Scope identifies where a Symbol's storage lives.
type Scope int

const (
	Local Scope = iota
	Global
)

// Symbol is (name, type, storage pointer, scope). Writes to a Symbol always go through Storage;
// reads emit a load from it. A Symbol's Type never changes after creation.
type Symbol struct {
	Name    string
	Type    value.Type
	Storage llvm.Value
	Scope   Scope
}

// GlobalTable is the single module-wide symbol table. It carries a sync.RWMutex, mirroring the
// teacher's symTab. Standard-library modules may be parsed concurrently per Options.Threads, but
// the parsing goroutines never touch this table; it is read and written only by the emitter.
type GlobalTable struct {
	mu sync.RWMutex
	m  map[string]*Symbol
}

// NewGlobalTable returns an empty GlobalTable.
func NewGlobalTable() *GlobalTable {
	return &GlobalTable{m: make(map[string]*Symbol, 16)}
}

// Lookup finds name in the global table.
func (g *GlobalTable) Lookup(name string) (*Symbol, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	s, ok := g.m[name]
	return s, ok
}

// Define adds a new global Symbol. Defining a name that already exists with a different Type is a
// type error; the same Type is allowed to overwrite the stored storage handle. The emitter calls
// Define only for the first module-scope assignment of a name (a later assignment updates the
// existing global's initializer instead), but Define itself stays permissive the way the teacher's
// genDeclarationGlobal only checks presence, not type.
func (g *GlobalTable) Define(name string, t value.Type, storage llvm.Value) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if existing, ok := g.m[name]; ok && existing.Type != t {
		return &diag.TypeError{Expected: existing.Type.String(), Found: t.String()}
	}
	g.m[name] = &Symbol{Name: name, Type: t, Storage: storage, Scope: Global}
	return nil
}

// LocalTable holds one function's local variables. It is created when the emitter enters a
// function definition and discarded when it leaves; unlike GlobalTable it needs no mutex because
// function bodies are always emitted on the single active builder (SPEC_FULL.md §5).
type LocalTable struct {
	m map[string]*Symbol
}

// NewLocalTable returns an empty LocalTable.
func NewLocalTable() *LocalTable {
	return &LocalTable{m: make(map[string]*Symbol, 8)}
}

// Lookup finds name in the local table only (no fallthrough to global; callers compose that via
// the Scopes type below).
func (l *LocalTable) Lookup(name string) (*Symbol, bool) {
	s, ok := l.m[name]
	return s, ok
}

// Define adds or updates a local binding. Redefining with the same Type keeps the existing Symbol
// and sets its Storage to storage (Define allocates nothing); redefining with a different Type is
// a type error. The caller (the emitter) is responsible for allocating Storage the first time a name is
// seen and passing the existing Storage back in on subsequent rebindings.
func (l *LocalTable) Define(name string, t value.Type, storage llvm.Value) (*Symbol, error) {
	if existing, ok := l.m[name]; ok {
		if existing.Type != t {
			return nil, &diag.TypeError{Expected: existing.Type.String(), Found: t.String()}
		}
		existing.Storage = storage
		return existing, nil
	}
	sym := &Symbol{Name: name, Type: t, Storage: storage, Scope: Local}
	l.m[name] = sym
	return sym, nil
}

// Scopes composes a LocalTable (which may be nil at module scope) with the GlobalTable, giving the
// emitter the single `lookup(name)` operation SPEC_FULL.md §4.B describes: local lookups precede
// global lookups.
type Scopes struct {
	Local  *LocalTable
	Global *GlobalTable
}

// Lookup resolves name, trying the active local table first, then the global table.
func (s Scopes) Lookup(name string) (*Symbol, bool) {
	if s.Local != nil {
		if sym, ok := s.Local.Lookup(name); ok {
			return sym, true
		}
	}
	return s.Global.Lookup(name)
}
