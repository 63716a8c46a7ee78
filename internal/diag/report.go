package diag

import (
	"errors"
	"fmt"
	"io"
)

// Report prints a single traceback-style diagnostic line for err to w, prefixed with the source
// file that was being compiled. It unwraps err looking for one of the taxonomy types so the
// message reads "file, line:col, kind: message" even when the error has been wrapped on its way
// up through the emitter and orchestrator, mirroring the teacher's habit of wrapping with
// fmt.Errorf("...: %s", err) at every call site and printing the final chain once in main().
func Report(w io.Writer, file string, err error) {
	var ne *NameError
	var se *SyntaxError
	var te *TypeError
	var nie *NotImplementedError
	var fe *Fatal

	switch {
	case errors.As(err, &ne):
		fmt.Fprintf(w, "%s: %s\n", file, ne.Error())
	case errors.As(err, &se):
		fmt.Fprintf(w, "%s: %s\n", file, se.Error())
	case errors.As(err, &te):
		fmt.Fprintf(w, "%s: %s\n", file, te.Error())
	case errors.As(err, &nie):
		fmt.Fprintf(w, "%s: %s\n", file, nie.Error())
	case errors.As(err, &fe):
		fmt.Fprintf(w, "%s: %s\n", file, fe.Error())
	default:
		fmt.Fprintf(w, "%s: %s\n", file, err)
	}
}

// LibraryParseError identifies which standard-library file failed to parse; library-parse
// failures are fatal per spec and must name the offending file, not just the underlying error.
type LibraryParseError struct {
	Path string
	Err  error
}

func (e *LibraryParseError) Error() string {
	return fmt.Sprintf("standard library module %q: %s", e.Path, e.Err)
}

func (e *LibraryParseError) Unwrap() error {
	return e.Err
}
