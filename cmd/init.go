package cmd

import (
	"fmt"

	"github.com/josephlewis42/dcsh/core/config"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// initCmd writes the default configuration
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration to the config directory.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		dir, err := configDir()
		if err != nil {
			return err
		}

		cfg, err := config.Initialize(afero.NewOsFs(), dir)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s to %s\n", config.ConfigurationName, cfg.Dir())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
