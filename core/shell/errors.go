package shell

import (
	"errors"
	"fmt"
	"io/fs"
)

// SyntaxErrorKind classifies a failure to tokenize or parse a command line.
type SyntaxErrorKind int

const (
	// ExpectedString means an operator or the end of input appeared where a
	// command, argument or redirect target was required.
	ExpectedString SyntaxErrorKind = iota
	// InvalidSyntax means no token matched the input.
	InvalidSyntax
)

func (k SyntaxErrorKind) String() string {
	switch k {
	case ExpectedString:
		return "expected string"
	case InvalidSyntax:
		return "invalid syntax"
	default:
		return fmt.Sprintf("SyntaxErrorKind(%d)", int(k))
	}
}

// SyntaxError is returned when a command line can't be parsed. Nothing from
// the line is executed.
type SyntaxError struct {
	Kind SyntaxErrorKind
	// Pos is the byte offset of the offending input.
	Pos int
	// Text is the offending token, empty at the end of input.
	Text string
}

func (e *SyntaxError) Error() string {
	if e.Text == "" {
		return fmt.Sprintf("syntax error: %s at end of input", e.Kind)
	}
	return fmt.Sprintf("syntax error: %s near %q (column %d)", e.Kind, e.Text, e.Pos+1)
}

// ExecErrorKind classifies a failure to start an invocation.
type ExecErrorKind int

const (
	// CommandNotFound means the executable could not be spawned.
	CommandNotFound ExecErrorKind = iota
	// RedirectIOError means a redirect target could not be opened or created.
	RedirectIOError
)

func (k ExecErrorKind) String() string {
	switch k {
	case CommandNotFound:
		return "command not found"
	case RedirectIOError:
		return "redirect failed"
	default:
		return fmt.Sprintf("ExecErrorKind(%d)", int(k))
	}
}

// ExecError is returned when an invocation can't be started. Invocations
// that already ran keep their effects; the rest of the chain is abandoned.
type ExecError struct {
	Kind ExecErrorKind
	// Name is the offending command or path.
	Name string
	Err  error
}

func (e *ExecError) Error() string {
	switch {
	case e.Kind == CommandNotFound && errors.Is(e.Err, fs.ErrPermission):
		return fmt.Sprintf("permission denied: %s", e.Name)
	case e.Kind == CommandNotFound:
		return fmt.Sprintf("command not found: %s", e.Name)
	case errors.Is(e.Err, fs.ErrNotExist):
		return fmt.Sprintf("no such file or directory: %s", e.Name)
	case errors.Is(e.Err, fs.ErrPermission):
		return fmt.Sprintf("permission denied: %s", e.Name)
	default:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Name, e.Err)
	}
}

func (e *ExecError) Unwrap() error {
	return e.Err
}
