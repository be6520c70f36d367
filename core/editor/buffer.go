// Package editor implements the raw-mode line editor: the edit buffer, the
// history navigator and the key event loop that drives them.
package editor

import (
	"fmt"
	"io"

	"github.com/mattn/go-runewidth"
)

// Buffer is the line being edited, split at the cursor. left holds the runes
// before the cursor in order; right holds the runes after it in reverse so
// both ends at the cursor are the slice tails.
type Buffer struct {
	left  []rune
	right []rune
}

// NewBuffer creates a buffer holding line with the cursor at its end.
func NewBuffer(line string) *Buffer {
	b := &Buffer{}
	b.Replace(line)
	return b
}

// Insert adds r before the cursor.
func (b *Buffer) Insert(r rune) {
	b.left = append(b.left, r)
}

// MoveLeft moves the cursor one rune left, if possible.
func (b *Buffer) MoveLeft() {
	if n := len(b.left); n > 0 {
		b.right = append(b.right, b.left[n-1])
		b.left = b.left[:n-1]
	}
}

// MoveRight moves the cursor one rune right, if possible.
func (b *Buffer) MoveRight() {
	if n := len(b.right); n > 0 {
		b.left = append(b.left, b.right[n-1])
		b.right = b.right[:n-1]
	}
}

// Home moves the cursor to the start of the line.
func (b *Buffer) Home() {
	for len(b.left) > 0 {
		b.MoveLeft()
	}
}

// End moves the cursor to the end of the line.
func (b *Buffer) End() {
	for len(b.right) > 0 {
		b.MoveRight()
	}
}

// Backspace removes the rune before the cursor.
func (b *Buffer) Backspace() {
	if n := len(b.left); n > 0 {
		b.left = b.left[:n-1]
	}
}

// Delete removes the rune after the cursor.
func (b *Buffer) Delete() {
	if n := len(b.right); n > 0 {
		b.right = b.right[:n-1]
	}
}

// Cursor returns the cursor position in runes.
func (b *Buffer) Cursor() int {
	return len(b.left)
}

// Len returns the length of the line in runes.
func (b *Buffer) Len() int {
	return len(b.left) + len(b.right)
}

// Replace sets the whole line and puts the cursor at its end.
func (b *Buffer) Replace(line string) {
	b.left = []rune(line)
	b.right = b.right[:0]
}

// Contents returns the line.
func (b *Buffer) Contents() string {
	out := make([]rune, 0, b.Len())
	out = append(out, b.left...)
	for i := len(b.right) - 1; i >= 0; i-- {
		out = append(out, b.right[i])
	}
	return string(out)
}

// Render clears the current terminal row, draws the marker and the line, then
// puts the terminal cursor after the marker and the runes left of the cursor.
// The marker may contain escape sequences, markerWidth is its visible width.
func (b *Buffer) Render(w io.Writer, marker string, markerWidth int) error {
	col := markerWidth + runewidth.StringWidth(string(b.left))

	_, err := fmt.Fprintf(w, "\r\x1b[K%s%s\r", marker, b.Contents())
	if err == nil && col > 0 {
		_, err = fmt.Fprintf(w, "\x1b[%dC", col)
	}
	return err
}
