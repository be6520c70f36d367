package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/josephlewis42/dcsh/core/store"
	"github.com/josephlewis42/dcsh/core/tty"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"
)

var (
	historyClear  bool
	historyOutput string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show or clear the saved command history.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		path := cfg.HistoryPath()
		if path == "" {
			return errors.New("history isn't saved, set history.file in the configuration")
		}

		st, err := store.Open(path)
		if err != nil {
			return err
		}
		defer st.Close()

		if historyClear {
			return st.Clear()
		}

		cmds, err := st.Cmds()
		if err != nil {
			return err
		}

		return printHistory(cmd.OutOrStdout(), cmds, historyOutput)
	},
}

func printHistory(w io.Writer, cmds []store.Cmd, format string) error {
	switch format {
	case "yaml":
		if cmds == nil {
			cmds = []store.Cmd{}
		}
		out, err := yaml.Marshal(cmds)
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err

	case "text":
		width := 0
		if f, ok := w.(*os.File); ok && tty.IsTerminal(f) {
			width = tty.New(f).Width()
		}

		for _, c := range cmds {
			line := fmt.Sprintf("% 5d  %s", c.Seq, c.Text)
			if width > 0 {
				line = runewidth.Truncate(line, width, "...")
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		return nil

	default:
		return fmt.Errorf("unknown output format %q, use text or yaml", format)
	}
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "Delete every saved entry.")
	historyCmd.Flags().StringVarP(&historyOutput, "output", "o", "text", "Output format: text or yaml.")
}
