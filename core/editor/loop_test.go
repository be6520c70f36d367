package editor

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type eventList struct {
	events []Event
}

func (e *eventList) Next() (Event, error) {
	if len(e.events) == 0 {
		return Event{}, io.EOF
	}
	ev := e.events[0]
	e.events = e.events[1:]
	return ev, nil
}

func keys(s string) []Event {
	var out []Event
	for _, r := range s {
		out = append(out, Event{Key: KeyRune, Rune: r})
	}
	return out
}

func events(parts ...interface{}) *eventList {
	list := &eventList{}
	for _, p := range parts {
		switch v := p.(type) {
		case string:
			list.events = append(list.events, keys(v)...)
		case Event:
			list.events = append(list.events, v)
		case Key:
			list.events = append(list.events, Event{Key: v})
		}
	}
	return list
}

type fakeRaw struct {
	calls     []string
	enableErr error
}

func (f *fakeRaw) EnableRaw() error {
	f.calls = append(f.calls, "enable")
	return f.enableErr
}

func (f *fakeRaw) DisableRaw() error {
	f.calls = append(f.calls, "disable")
	return nil
}

type exitErr int

func (e exitErr) Error() string { return fmt.Sprintf("exit %d", int(e)) }
func (e exitErr) ExitCode() int { return int(e) }

type fakeExec struct {
	raw    *fakeRaw
	lines  []string
	errs   map[string]error
	rawLog []string
}

func (f *fakeExec) Execute(line string) error {
	f.lines = append(f.lines, line)
	f.rawLog = append(f.rawLog, f.raw.calls[len(f.raw.calls)-1])
	return f.errs[line]
}

type loopTest struct {
	loop *Loop
	raw  *fakeRaw
	exec *fakeExec
	out  *bytes.Buffer
	err  *bytes.Buffer
}

func newLoopTest(ev *eventList, history ...string) *loopTest {
	raw := &fakeRaw{}
	exec := &fakeExec{raw: raw, errs: map[string]error{}}
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}

	errColor := color.New(color.FgRed)
	errColor.DisableColor()

	return &loopTest{
		loop: &Loop{
			Events:   ev,
			Raw:      raw,
			Exec:     exec,
			History:  NewHistory(0, history...),
			Out:      out,
			Err:      errOut,
			Name:     "dcsh",
			Marker:   "$ ",
			ErrColor: errColor,
		},
		raw:  raw,
		exec: exec,
		out:  out,
		err:  errOut,
	}
}

func TestLoopCommitsLines(t *testing.T) {
	lt := newLoopTest(events("echo hi", KeyEnter, "ls", KeyEnter))
	require.NoError(t, lt.loop.Run())

	assert.Equal(t, []string{"echo hi", "ls"}, lt.exec.lines)
	assert.Equal(t, []string{"echo hi", "ls"}, lt.loop.History.Entries())
	assert.Equal(t, []string{"disable", "disable"}, lt.exec.rawLog, "commands run in cooked mode")
	assert.Equal(t, []string{"enable", "disable", "enable", "disable", "enable", "disable"}, lt.raw.calls)
}

func TestLoopEditing(t *testing.T) {
	lt := newLoopTest(events("ac", KeyLeft, "b", KeyEnd, "x", KeyBackspace, KeyHome, "_", KeyDelete, KeyEnter))
	require.NoError(t, lt.loop.Run())

	assert.Equal(t, []string{"_bc"}, lt.exec.lines)
}

func TestLoopHistoryNavigation(t *testing.T) {
	lt := newLoopTest(events(KeyUp, KeyUp, KeyDown, KeyEnter), "first", "second")
	require.NoError(t, lt.loop.Run())

	assert.Equal(t, []string{"second"}, lt.exec.lines)
	assert.Equal(t, []string{"first", "second", "second"}, lt.loop.History.Entries())
}

func TestLoopDownWithoutBrowsingKeepsLine(t *testing.T) {
	lt := newLoopTest(events("typed", KeyDown, KeyEnter), "old")
	require.NoError(t, lt.loop.Run())

	assert.Equal(t, []string{"typed"}, lt.exec.lines)
}

func TestLoopControlKeysNeverReachBuffer(t *testing.T) {
	lt := newLoopTest(events("a", Ctrl('x'), Event{Key: KeyRune, Rune: 'f', Mod: ModAlt}, "b", KeyEnter))
	require.NoError(t, lt.loop.Run())

	assert.Equal(t, []string{"ab"}, lt.exec.lines)
}

func TestLoopBlankLinesSkipHistory(t *testing.T) {
	lt := newLoopTest(events(KeyEnter, "  ", KeyEnter))
	require.NoError(t, lt.loop.Run())

	assert.Equal(t, []string{"", "  "}, lt.exec.lines)
	assert.Equal(t, 0, lt.loop.History.Len())
}

func TestLoopReportsErrorsAndContinues(t *testing.T) {
	lt := newLoopTest(events("nope", KeyEnter, "ok", KeyEnter))
	lt.exec.errs["nope"] = errors.New("command not found: nope")
	require.NoError(t, lt.loop.Run())

	assert.Equal(t, "dcsh: command not found: nope\n", lt.err.String())
	assert.Equal(t, []string{"nope", "ok"}, lt.exec.lines)
	assert.Equal(t, []string{"nope", "ok"}, lt.loop.History.Entries())
}

func TestLoopExit(t *testing.T) {
	lt := newLoopTest(events("exit 3", KeyEnter, "never", KeyEnter))
	lt.exec.errs["exit 3"] = exitErr(3)

	err := lt.loop.Run()
	var exit interface{ ExitCode() int }
	require.True(t, errors.As(err, &exit))
	assert.Equal(t, 3, exit.ExitCode())

	assert.Equal(t, []string{"exit 3"}, lt.exec.lines)
	assert.Empty(t, lt.err.String())
	assert.Equal(t, "disable", lt.raw.calls[len(lt.raw.calls)-1])
}

func TestLoopCtrlKeys(t *testing.T) {
	cases := map[string]struct {
		key  Event
		want error
	}{
		"interrupt": {key: Ctrl('c'), want: ErrInterrupt},
		"eof":       {key: Ctrl('d'), want: nil},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			lt := newLoopTest(events("ls", tc.key, "pwd", KeyEnter))
			assert.Equal(t, tc.want, lt.loop.Run())
			assert.Empty(t, lt.exec.lines)
			assert.Equal(t, []string{"enable", "disable"}, lt.raw.calls)
		})
	}
}

func TestLoopEnableRawFails(t *testing.T) {
	lt := newLoopTest(events("ls", KeyEnter))
	lt.raw.enableErr = errors.New("not a terminal")

	assert.EqualError(t, lt.loop.Run(), "enable raw mode: not a terminal")
	assert.Empty(t, lt.exec.lines)
}

func TestLoopRendersPrompt(t *testing.T) {
	lt := newLoopTest(events("hi"))
	require.NoError(t, lt.loop.Run())

	assert.True(t, strings.HasSuffix(lt.out.String(), "\r\x1b[K$ hi\r\x1b[4C\r\n"), "%q", lt.out.String())
}

func TestLoopWithDecoder(t *testing.T) {
	lt := newLoopTest(&eventList{})
	lt.loop.Events = NewDecoder(strings.NewReader("ab\x1b[D\x1b[3~c\r\x04"))
	require.NoError(t, lt.loop.Run())

	assert.Equal(t, []string{"ac"}, lt.exec.lines)
}
