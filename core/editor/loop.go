package editor

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/abiosoft/readline"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"
)

// ErrInterrupt is returned by Run when the user pressed Ctrl-C.
var ErrInterrupt = readline.ErrInterrupt

// EventSource yields key events, usually a *Decoder.
type EventSource interface {
	Next() (Event, error)
}

// RawMode toggles the terminal between raw and cooked input.
type RawMode interface {
	EnableRaw() error
	DisableRaw() error
}

// Executor runs one committed line.
type Executor interface {
	Execute(line string) error
}

// Loop reads key events, edits the current line and hands committed lines to
// the Executor.
type Loop struct {
	Events  EventSource
	Raw     RawMode
	Exec    Executor
	History *History

	// Out receives the prompt, Err receives diagnostics.
	Out io.Writer
	Err io.Writer

	// Name prefixes diagnostics.
	Name        string
	Marker      string
	MarkerColor *color.Color
	ErrColor    *color.Color

	Logger *zap.Logger

	buf *Buffer
}

func (l *Loop) defaults() {
	if l.History == nil {
		l.History = NewHistory(0)
	}
	if l.Logger == nil {
		l.Logger = zap.NewNop()
	}
	if l.ErrColor == nil {
		l.ErrColor = color.New(color.FgRed)
	}
	if l.Err == nil {
		l.Err = l.Out
	}
}

// Run puts the terminal in raw mode and processes key events until input
// ends, Ctrl-D or Ctrl-C is pressed, or a committed line asks the shell to
// exit. Raw mode is always disabled on return.
//
// Run returns nil on end of input or Ctrl-D, ErrInterrupt on Ctrl-C and the
// Executor's error when it carries an exit code.
func (l *Loop) Run() error {
	l.defaults()

	if err := l.Raw.EnableRaw(); err != nil {
		return fmt.Errorf("enable raw mode: %w", err)
	}
	defer func() {
		if err := l.Raw.DisableRaw(); err != nil {
			l.Logger.Warn("disable raw mode", zap.Error(err))
		}
	}()

	l.buf = NewBuffer("")
	l.render()

	for {
		ev, err := l.Events.Next()
		switch {
		case err == io.EOF:
			fmt.Fprint(l.Out, "\r\n")
			return nil
		case err != nil:
			return fmt.Errorf("read key: %w", err)
		}

		if ev.Mod != ModNone {
			switch {
			case ev.IsCtrl('c'):
				fmt.Fprint(l.Out, "\r\n")
				return ErrInterrupt
			case ev.IsCtrl('d'):
				fmt.Fprint(l.Out, "\r\n")
				return nil
			}
			continue
		}

		switch ev.Key {
		case KeyEnter:
			if err := l.commit(); err != nil {
				return err
			}
		case KeyRune:
			l.buf.Insert(ev.Rune)
		case KeyLeft:
			l.buf.MoveLeft()
		case KeyRight:
			l.buf.MoveRight()
		case KeyHome:
			l.buf.Home()
		case KeyEnd:
			l.buf.End()
		case KeyBackspace:
			l.buf.Backspace()
		case KeyDelete:
			l.buf.Delete()
		case KeyUp:
			if l.History.Len() > 0 {
				l.buf.Replace(l.History.Up())
			}
		case KeyDown:
			if l.History.Browsing() {
				l.buf.Replace(l.History.Down())
			}
		}

		l.render()
	}
}

func (l *Loop) render() {
	marker := l.Marker
	if l.MarkerColor != nil {
		marker = l.MarkerColor.Sprint(l.Marker)
	}
	if err := l.buf.Render(l.Out, marker, runewidth.StringWidth(l.Marker)); err != nil {
		l.Logger.Debug("render prompt", zap.Error(err))
	}
}

// commit executes the current line with raw mode disabled and starts a fresh
// buffer. Only errors carrying an exit code are returned.
func (l *Loop) commit() error {
	line := l.buf.Contents()
	l.buf = NewBuffer("")
	fmt.Fprint(l.Out, "\r\n")

	err := l.execute(line)

	if strings.TrimSpace(line) != "" {
		l.History.Push(line)
	}

	var exit interface{ ExitCode() int }
	if errors.As(err, &exit) {
		return err
	}
	return nil
}

func (l *Loop) execute(line string) error {
	if err := l.Raw.DisableRaw(); err != nil {
		l.Logger.Warn("disable raw mode", zap.Error(err))
	}
	defer func() {
		if err := l.Raw.EnableRaw(); err != nil {
			l.Logger.Warn("enable raw mode", zap.Error(err))
		}
	}()

	err := l.Exec.Execute(line)
	if err == nil {
		return nil
	}

	var exit interface{ ExitCode() int }
	if !errors.As(err, &exit) {
		l.ErrColor.Fprintf(l.Err, "%s: %v\n", l.Name, err)
	}
	return err
}
