package launch

import (
	"errors"
	"fmt"
	"io"
	"runtime/debug"
	"strings"
)

// Fault is a panic recovered from a delegated call.
type Fault struct {
	Value any
	Stack []byte
}

func (f *Fault) Error() string {
	return fmt.Sprintf("panic: %v", f.Value)
}

// Unwrap exposes the panic value when it was itself an error.
func (f *Fault) Unwrap() error {
	if err, ok := f.Value.(error); ok {
		return err
	}
	return nil
}

// Attempt runs fn and converts a panic into a *Fault error, so a delegated
// call always ends in either a value or an error.
func Attempt[T any](fn func() (T, error)) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			result = zero
			err = &Fault{Value: r, Stack: debug.Stack()}
		}
	}()
	return fn()
}

// WriteDiagnostics prints err and every cause below it, one per line,
// followed by the stack of a recovered panic if there is one.
func WriteDiagnostics(w io.Writer, err error) {
	if err == nil {
		return
	}
	writeChain(w, err, 0)

	var fault *Fault
	if errors.As(err, &fault) && len(fault.Stack) > 0 {
		fmt.Fprintln(w)
		fmt.Fprint(w, strings.TrimRight(string(fault.Stack), "\n"))
		fmt.Fprintln(w)
	}
}

func writeChain(w io.Writer, err error, depth int) {
	indent := strings.Repeat("  ", depth)
	if depth == 0 {
		fmt.Fprintf(w, "%s%v\n", indent, err)
	} else {
		fmt.Fprintf(w, "%sCaused by: %v\n", indent, err)
	}

	switch x := err.(type) {
	case interface{ Unwrap() []error }:
		for _, cause := range x.Unwrap() {
			if cause != nil {
				writeChain(w, cause, depth+1)
			}
		}
	case interface{ Unwrap() error }:
		if cause := x.Unwrap(); cause != nil {
			writeChain(w, cause, depth+1)
		}
	}
}
