package editor

import "sync"

// Recorder receives lines pushed into the history, typically to persist them.
type Recorder interface {
	AddCmd(text string) (int, error)
}

// History is the list of committed lines with a browsing cursor. A cursor
// equal to the number of lines means no entry is being browsed. Builtins
// read it from their own goroutines, so every method locks.
type History struct {
	mu     sync.Mutex
	lines  []string
	cursor int
	max    int

	// Recorder, if set, is told about every pushed line.
	Recorder Recorder
	// OnError is called when the recorder fails.
	OnError func(error)
}

// NewHistory creates a history holding lines, keeping at most max of them
// (0 means no limit).
func NewHistory(max int, lines ...string) *History {
	h := &History{max: max}
	h.lines = append(h.lines, lines...)
	h.trim()
	h.cursor = len(h.lines)
	return h
}

func (h *History) trim() {
	if h.max > 0 && len(h.lines) > h.max {
		h.lines = append([]string(nil), h.lines[len(h.lines)-h.max:]...)
	}
}

// Push appends line and stops browsing.
func (h *History) Push(line string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.lines = append(h.lines, line)
	h.trim()
	h.cursor = len(h.lines)

	if h.Recorder != nil {
		if _, err := h.Recorder.AddCmd(line); err != nil && h.OnError != nil {
			h.OnError(err)
		}
	}
}

// Up moves to the previous entry and returns it. At the oldest entry it keeps
// returning that entry; with no entries it returns "".
func (h *History) Up() string {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.lines) == 0 {
		return ""
	}
	if h.cursor > 0 {
		h.cursor--
	}
	return h.lines[h.cursor]
}

// Down moves to the next entry and returns it, or "" once past the newest.
func (h *History) Down() string {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cursor < len(h.lines) {
		h.cursor++
	}
	if h.cursor == len(h.lines) {
		return ""
	}
	return h.lines[h.cursor]
}

// Browsing reports whether the cursor is on a stored entry.
func (h *History) Browsing() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.cursor < len(h.lines)
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.lines)
}

// Entries returns a copy of the stored lines, oldest first.
func (h *History) Entries() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	return append([]string(nil), h.lines...)
}

// Clear removes every entry. A recorder that can be cleared is cleared too.
func (h *History) Clear() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.lines = nil
	h.cursor = 0

	if c, ok := h.Recorder.(interface{ Clear() error }); ok {
		return c.Clear()
	}
	return nil
}
