package cmd

import (
	"syscall"

	"github.com/josephlewis42/dcsh/core/shell"
)

const (
	interruptSignal  = syscall.SIGINT
	signalExitOffset = 128
)

// signalStatus converts a status to a process exit code, mapping a signal to
// 128 plus its number.
func signalStatus(status shell.Status) int {
	if status.Signaled() {
		return signalExitOffset + int(status.Signal)
	}
	return status.Code
}

// statusExit returns an *shell.ExitRequest for a non-zero status.
func statusExit(status shell.Status) error {
	if code := signalStatus(status); code != 0 {
		return &shell.ExitRequest{Code: code}
	}
	return nil
}

func errorStatus(err error) int {
	return signalStatus(shell.ErrorStatus(err))
}
