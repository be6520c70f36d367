package tty

import (
	"os"
)

// Input reads from a terminal or pipe one byte per Read, so nothing past the
// current line is consumed before the command that should read it runs.
type Input struct {
	f *os.File
}

// NewInput reads from f.
func NewInput(f *os.File) *Input {
	return &Input{f: f}
}

func (in *Input) Read(p []byte) (int, error) {
	if len(p) > 1 {
		p = p[:1]
	}
	return in.f.Read(p)
}

// Pending reports whether more input can be read without blocking.
func (in *Input) Pending() bool {
	return pending(in.f)
}
