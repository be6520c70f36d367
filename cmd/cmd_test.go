package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/josephlewis42/dcsh/core/store"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() {
		resetFlags(rootCmd)
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	var out bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)

	err := rootCmd.Execute()
	return out.String(), err
}

func exitCode(t *testing.T, err error) int {
	t.Helper()

	if err == nil {
		return 0
	}
	var exit interface{ ExitCode() int }
	require.True(t, errors.As(err, &exit), "not an exit code: %v", err)
	return exit.ExitCode()
}

func TestRootCommandFlag(t *testing.T) {
	dir := t.TempDir()

	cases := map[string]struct {
		line     string
		wantOut  string
		wantCode int
	}{
		"echo":          {line: "echo hi", wantOut: "hi\n"},
		"status":        {line: "false", wantCode: 1},
		"exit":          {line: "exit 3", wantCode: 3},
		"not found":     {line: "dcsh-no-such-command", wantOut: "dcsh: command not found: dcsh-no-such-command\n", wantCode: 127},
		"syntax error":  {line: "ls |", wantCode: 2},
		"chain":         {line: "false || echo fallback", wantOut: "fallback\n"},
		"killed":        {line: `sh -c "kill -9 $$"`, wantCode: 137},
		"builtin pipes": {line: "help | grep exit", wantOut: "exit\n"},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			out, err := runCLI(t, "", "--config", dir, "-c", tc.line)
			assert.Equal(t, tc.wantCode, exitCode(t, err))
			if tc.wantOut != "" {
				assert.Equal(t, tc.wantOut, out)
			}
		})
	}
}

func TestRootStdinLines(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, "greeting = hello\necho $greeting world\n\nexit\n", "--config", dir)
	assert.NoError(t, err)
	assert.Equal(t, "hello world\n", out)
}

func TestRootStdinLeavesRestForCommands(t *testing.T) {
	dir := t.TempDir()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	_, err = w.WriteString("cat\necho not run by the shell\n")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	t.Cleanup(func() {
		resetFlags(rootCmd)
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
	var out bytes.Buffer
	rootCmd.SetArgs([]string{"--config", dir})
	rootCmd.SetIn(r)
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)

	assert.NoError(t, rootCmd.Execute())
	assert.Equal(t, "echo not run by the shell\n", out.String())
}

func TestRootStdinStopsAtFirstError(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, "echo one\ncat < "+filepath.Join(dir, "missing")+"\necho two\n", "--config", dir)
	assert.Equal(t, 1, exitCode(t, err))
	assert.Contains(t, out, "one\n")
	assert.Contains(t, out, "no such file or directory")
	assert.NotContains(t, out, "two")
}

func TestRootScriptFile(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "script.dcsh")
	out, err := runCLI(t, "", "init", "--config", dir)
	require.NoError(t, err, out)

	require.NoError(t, writeFile(script, "x = 1\necho $x \"${ x }\" > "+filepath.Join(dir, "out.txt")+"\ncat "+filepath.Join(dir, "out.txt")+"\n"))

	out, err = runCLI(t, "", "--config", dir, script)
	assert.NoError(t, err)
	assert.Equal(t, "1 1\n", out)
}

func TestInit(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".dcsh")

	out, err := runCLI(t, "", "init", "--config", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote config.yaml to "+dir)

	_, err = runCLI(t, "", "init", "--config", dir)
	assert.Error(t, err, "init refuses to overwrite")
}

func TestHistoryCommand(t *testing.T) {
	dir := t.TempDir()
	_, err := runCLI(t, "", "init", "--config", dir)
	require.NoError(t, err)

	st, err := store.Open(filepath.Join(dir, "history.db"))
	require.NoError(t, err)
	_, err = st.AddCmd("ls -al")
	require.NoError(t, err)
	_, err = st.AddCmd("echo hi")
	require.NoError(t, err)
	require.NoError(t, st.Close())

	out, err := runCLI(t, "", "history", "--config", dir)
	require.NoError(t, err)
	assert.Equal(t, "    1  ls -al\n    2  echo hi\n", out)

	out, err = runCLI(t, "", "history", "--config", dir, "-o", "yaml")
	require.NoError(t, err)
	assert.Equal(t, "- seq: 1\n  text: ls -al\n- seq: 2\n  text: echo hi\n", out)

	_, err = runCLI(t, "", "history", "--config", dir, "-o", "xml")
	assert.Error(t, err)

	_, err = runCLI(t, "", "history", "--config", dir, "--clear")
	require.NoError(t, err)

	out, err = runCLI(t, "", "history", "--config", dir)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestShellRecordsHistory(t *testing.T) {
	dir := t.TempDir()
	_, err := runCLI(t, "", "--config", dir, "-c", "echo recorded")
	require.NoError(t, err)

	st, err := store.Open(filepath.Join(dir, "history.db"))
	require.NoError(t, err)
	defer st.Close()

	cmds, err := st.Cmds()
	require.NoError(t, err)
	assert.Empty(t, cmds, "only the line editor records history")
}

func TestBuiltinsCommand(t *testing.T) {
	out, err := runCLI(t, "", "builtins")
	require.NoError(t, err)
	assert.Equal(t, "cd\nexit\nhelp\nhistory\ntype\n", out)
}

func TestEventsReport(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, writeFile(filepath.Join(dir, "config.yaml"), `
shell_name: dcsh
prompt: "$ "
prompt_color: none
color: never
history:
  file: ""
  max_entries: 0
log:
  file: events.log
  level: debug
`))

	_, err := runCLI(t, "", "--config", dir, "-c", "echo logged")
	require.NoError(t, err)

	out, err := runCLI(t, "", "events", "report", "--config", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "log_entries: 3\n")
	assert.Contains(t, out, "echo: 1\n")
	assert.Contains(t, out, "exit status 0: 1\n")
}
