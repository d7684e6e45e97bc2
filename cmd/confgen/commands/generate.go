package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/confgen/internal/app"
)

func (c *CLI) newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [modules...]",
		Short: "Probe the platform and generate the build plan and capability header",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalogPath, err := cmd.Flags().GetString("catalog")
			if err != nil {
				return err
			}
			outDir, err := cmd.Flags().GetString("out")
			if err != nil {
				return err
			}
			jobs, err := cmd.Flags().GetInt("jobs")
			if err != nil {
				return err
			}
			enable, err := cmd.Flags().GetStringSlice("enable")
			if err != nil {
				return err
			}
			disable, err := cmd.Flags().GetStringSlice("disable")
			if err != nil {
				return err
			}

			return c.app.Run(cmd.Context(), app.RunOptions{
				CatalogPath: catalogPath,
				OutputDir:   outDir,
				Modules:     args,
				Enable:      enable,
				Disable:     disable,
				Jobs:        jobs,
			})
		},
	}

	cmd.Flags().StringSlice("enable", nil, "Force a feature to be treated as present")
	cmd.Flags().StringSlice("disable", nil, "Force a feature to be treated as absent")

	return cmd
}
