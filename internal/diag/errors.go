// Package diag defines the compiler's error taxonomy. Every kind carries an optional source
// location so the top-level reporter can print a traceback-style message (file, line:column,
// kind, message) the way the teacher's src/main.go prints the error chain returned by run().
package diag

import "fmt"

// Location is a source position: row and column, both 1-indexed. The zero Location means "no
// location known" and is omitted from formatted messages.
type Location struct {
	Line int
	Col  int
}

// Known reports whether l carries a real position.
func (l Location) Known() bool {
	return l.Line > 0
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Col)
}

// NameError reports an unresolved identifier or callee.
type NameError struct {
	Name string
	Loc  Location
}

func (e *NameError) Error() string {
	return locate(e.Loc, fmt.Sprintf("NameError: undefined name %q", e.Name))
}

// SyntaxError reports a construct the grammar allows but this compiler rejects structurally,
// e.g. 'return' outside a function, or a missing parameter type annotation.
type SyntaxError struct {
	Desc string
	Loc  Location
}

func (e *SyntaxError) Error() string {
	return locate(e.Loc, fmt.Sprintf("SyntaxError: %s", e.Desc))
}

// TypeError reports a type mismatch: a return type mismatch, a cross-family operator, or a
// redefinition of a symbol with a different type.
type TypeError struct {
	Expected string
	Found    string
	Loc      Location
}

func (e *TypeError) Error() string {
	return locate(e.Loc, fmt.Sprintf("TypeError: expected %s, found %s", e.Expected, e.Found))
}

// NotImplementedError reports a construct this specification explicitly excludes: chained
// comparisons, tuple-unpacking assignment, complex literals, and similar.
type NotImplementedError struct {
	Desc string
	Loc  Location
}

func (e *NotImplementedError) Error() string {
	return locate(e.Loc, fmt.Sprintf("NotImplemented: %s", e.Desc))
}

func locate(loc Location, msg string) string {
	if loc.Known() {
		return fmt.Sprintf("%s: %s", loc, msg)
	}
	return msg
}

// Fatal wraps an internal invariant violation: a bug in the emitter itself (e.g. a Value/Type
// mismatch the emitter constructed), never a user-facing error. Fatal errors are not part of the
// taxonomy surfaced to users; they indicate the compiler, not the input program, is broken.
type Fatal struct {
	Msg string
}

func (e *Fatal) Error() string {
	return fmt.Sprintf("internal compiler error: %s", e.Msg)
}

// Bug constructs a Fatal error from a formatted message, mirroring fmt.Errorf's ergonomics.
func Bug(format string, args ...interface{}) error {
	return &Fatal{Msg: fmt.Sprintf(format, args...)}
}
