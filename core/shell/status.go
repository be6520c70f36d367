package shell

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"syscall"
)

// Statuses of lines that failed before an invocation finished.
const (
	statusFailure   = 1
	statusSyntax    = 2
	statusCannotRun = 126
	statusNotFound  = 127
)

// Status is the outcome of a finished invocation. A process killed by a
// signal has a zero Code and a non-zero Signal.
type Status struct {
	Code   int
	Signal syscall.Signal
}

// StatusSuccess is the status of a successful invocation.
var StatusSuccess = Status{}

// Success reports whether the invocation exited normally with code 0.
func (s Status) Success() bool {
	return s.Signal == 0 && s.Code == 0
}

// Signaled reports whether the invocation was killed by a signal.
func (s Status) Signaled() bool {
	return s.Signal != 0
}

func (s Status) String() string {
	if s.Signaled() {
		return fmt.Sprintf("signal: %s", s.Signal)
	}
	return fmt.Sprintf("exit status %d", s.Code)
}

func statusOf(state *os.ProcessState) Status {
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return Status{Signal: ws.Signal()}
	}
	return Status{Code: state.ExitCode()}
}

// ErrorStatus is the status recorded for a line that failed with err: 2 for
// syntax errors, 127 for a missing command, 126 for one that can't be run and
// 1 otherwise.
func ErrorStatus(err error) Status {
	var syntaxErr *SyntaxError
	var execErr *ExecError

	switch {
	case errors.As(err, &syntaxErr):
		return Status{Code: statusSyntax}
	case errors.As(err, &execErr) && execErr.Kind == CommandNotFound:
		if errors.Is(execErr, fs.ErrPermission) {
			return Status{Code: statusCannotRun}
		}
		return Status{Code: statusNotFound}
	default:
		return Status{Code: statusFailure}
	}
}
