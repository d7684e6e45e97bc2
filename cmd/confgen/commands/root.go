// Package commands implements the CLI commands for the confgen tool.
package commands

import (
	"context"

	"github.com/spf13/cobra"
	"go.trai.ch/confgen/internal/app"
)

// CLI represents the command line interface for confgen.
type CLI struct {
	app     *app.App
	rootCmd *cobra.Command
}

// New creates a new CLI instance with the given app.
func New(a *app.App) *CLI {
	rootCmd := &cobra.Command{
		Use:           "confgen",
		Short:         "Probe the build environment and generate a build plan",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringP("catalog", "c", "confgen.yaml", "Path to the feature/module catalog")
	rootCmd.PersistentFlags().StringP("out", "o", ".", "Directory receiving the generated artifacts")
	rootCmd.PersistentFlags().IntP("jobs", "j", 0, "Probe parallelism (0 = number of CPUs)")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newGenerateCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}
