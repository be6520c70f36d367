package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/fatih/color"
	"github.com/josephlewis42/dcsh/core/config"
	"github.com/josephlewis42/dcsh/core/editor"
	"github.com/josephlewis42/dcsh/core/shell"
	"github.com/josephlewis42/dcsh/core/tty"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	cfgPath string
	command string
)

func configDir() (string, error) {
	if cfgPath != "" {
		return cfgPath, nil
	}
	return config.DefaultDir()
}

func loadConfig() (*config.Configuration, error) {
	dir, err := configDir()
	if err != nil {
		return nil, err
	}
	return config.Load(afero.NewOsFs(), dir)
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dcsh [script]",
	Short: "A small interactive command shell",
	Long: `dcsh runs command lines made of pipelines, redirections and the
&&, || and ; operators, with $NAME variables set by NAME = value lines.

Without arguments it reads from the terminal with a line editor, or line by
line from stdin when stdin isn't a terminal. A script file or -c runs
non-interactively and stops at the first error.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		stdio := shell.Stdio{In: cmd.InOrStdin(), Out: cmd.OutOrStdout(), Err: cmd.ErrOrStderr()}
		sess, err := openSession(cfg, stdio)
		if err != nil {
			return err
		}
		defer sess.Close()

		switch {
		case cmd.Flags().Changed("command"):
			return runLines(sess.shell, strings.NewReader(command), cmd.ErrOrStderr())

		case len(args) == 1:
			fd, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer fd.Close()
			return runLines(sess.shell, fd, cmd.ErrOrStderr())

		case isTerminal(cmd.InOrStdin()):
			return runInteractive(cmd, sess)

		default:
			in := cmd.InOrStdin()
			if f, ok := in.(*os.File); ok {
				// Lines after the current one belong to whatever it runs.
				in = tty.NewInput(f)
			}
			return runLines(sess.shell, in, cmd.ErrOrStderr())
		}
	},
}

func isTerminal(v interface{}) bool {
	f, ok := v.(*os.File)
	return ok && tty.IsTerminal(f)
}

// runLines executes r line by line, stopping at the first error.
func runLines(sh *shell.Shell, r io.Reader, errOut io.Writer) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		err := sh.Execute(scanner.Text())
		if err == nil {
			continue
		}

		var exit *shell.ExitRequest
		if errors.As(err, &exit) {
			return statusExit(shell.Status{Code: exit.Code})
		}
		fmt.Fprintf(errOut, "%s: %v\n", sh.Name, err)
		return &shell.ExitRequest{Code: errorStatus(err)}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	return statusExit(sh.LastStatus())
}

func runInteractive(cmd *cobra.Command, sess *session) error {
	in := cmd.InOrStdin().(*os.File)
	color.NoColor = !sess.cfg.UseColor(isTerminal(cmd.OutOrStdout()))

	// Ctrl-C is meant for the foreground child; the shell itself reads it as
	// a key in raw mode.
	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	go func() {
		for range interrupts {
		}
	}()
	defer func() {
		signal.Stop(interrupts)
		close(interrupts)
	}()

	loop := &editor.Loop{
		Events:      editor.NewDecoder(tty.NewInput(in)),
		Raw:         tty.New(in),
		Exec:        sess.shell,
		History:     sess.history,
		Out:         cmd.OutOrStdout(),
		Err:         cmd.ErrOrStderr(),
		Name:        sess.cfg.ShellName,
		Marker:      sess.cfg.Prompt,
		MarkerColor: promptColor(sess.cfg.PromptColor),
		Logger:      sess.log,
	}

	err := loop.Run()
	switch {
	case err == nil:
		return statusExit(sess.shell.LastStatus())
	case errors.Is(err, editor.ErrInterrupt):
		return &shell.ExitRequest{Code: signalStatus(shell.Status{Signal: interruptSignal})}
	default:
		return err
	}
}

var promptColors = map[string]color.Attribute{
	"red":     color.FgRed,
	"green":   color.FgGreen,
	"yellow":  color.FgYellow,
	"blue":    color.FgBlue,
	"magenta": color.FgMagenta,
	"cyan":    color.FgCyan,
}

func promptColor(name string) *color.Color {
	attr, ok := promptColors[name]
	if !ok {
		return nil
	}
	return color.New(attr, color.Bold)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()

	var exit interface{ ExitCode() int }
	if errors.As(err, &exit) {
		os.Exit(exit.ExitCode())
	}
	cobra.CheckErr(err)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config directory (default $HOME/.dcsh)")
	rootCmd.Flags().StringVarP(&command, "command", "c", "", "run the given command line and exit")
}
