// Package tty controls the terminal the shell is attached to.
package tty

import (
	"fmt"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// DefaultWidth is reported when the terminal size can't be read.
const DefaultWidth = 80

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Terminal switches a terminal between raw and cooked mode. Enabling or
// disabling twice in a row is a no-op.
type Terminal struct {
	fd int

	mu    sync.Mutex
	saved *term.State
}

// New wraps the terminal open as f.
func New(f *os.File) *Terminal {
	return &Terminal{fd: int(f.Fd())}
}

// EnableRaw puts the terminal in raw mode, saving the previous state.
func (t *Terminal) EnableRaw() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.saved != nil {
		return nil
	}

	state, err := term.MakeRaw(t.fd)
	if err != nil {
		return fmt.Errorf("make raw: %w", err)
	}
	t.saved = state
	return nil
}

// DisableRaw restores the state saved by EnableRaw.
func (t *Terminal) DisableRaw() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.saved == nil {
		return nil
	}

	if err := term.Restore(t.fd, t.saved); err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	t.saved = nil
	return nil
}

// IsRaw reports whether EnableRaw is in effect.
func (t *Terminal) IsRaw() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.saved != nil
}

// Width returns the number of columns of the terminal.
func (t *Terminal) Width() int {
	width, _, err := term.GetSize(t.fd)
	if err != nil || width <= 0 {
		return DefaultWidth
	}
	return width
}
