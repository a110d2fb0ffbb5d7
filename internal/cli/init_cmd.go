package cli

import (
	"fmt"

	"github.com/pfrederiksen/showlist-watch/internal/config"
	"github.com/spf13/cobra"
)

var (
	flagForce bool
	flagPrint bool
)

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a sample configuration file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if flagPrint {
				_, err := fmt.Fprint(cmd.OutOrStdout(), config.SampleConfig())
				return err
			}

			path := config.DefaultConfigPath
			if len(args) == 1 {
				path = args[0]
			} else if flagConfig != "" {
				path = flagConfig
			}

			expanded, err := config.ExpandPath(path)
			if err != nil {
				return err
			}
			if err := config.CreateSample(expanded, flagForce); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample config to %s\n", expanded)
			return nil
		},
	}

	cmd.Flags().BoolVar(&flagForce, "force", false, "Overwrite an existing config file")
	cmd.Flags().BoolVar(&flagPrint, "print", false, "Print the sample config to stdout instead of writing it")
	cmd.MarkFlagsMutuallyExclusive("force", "print")

	return cmd
}
