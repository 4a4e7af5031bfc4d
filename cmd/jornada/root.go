package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"jornada/internal/cli"
	"jornada/internal/config"
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "jornada",
		Short: "Work-time and task tracking backend",
		Long: `jornada runs the work-time tracking API server and ships the
administrative commands for bootstrapping and account recovery.
Running it without a subcommand starts the server.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}

	root.AddCommand(newServeCommand())
	root.AddCommand(newCreateManagerCommand())
	root.AddCommand(newResetPasswordCommand())
	root.AddCommand(newVersionCommand())

	return root
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func newCreateManagerCommand() *cobra.Command {
	var email string
	var name string

	command := &cobra.Command{
		Use:   "create-manager",
		Short: "Create the initial manager account",
		Long: `Creates the manager account for a fresh installation. The command
refuses to run when a manager already exists and prompts for the
password on the terminal.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return cli.RunCreateManagerCommand(cfg.DatabasePath, email, name, cfg.Location())
		},
	}

	command.Flags().StringVar(&email, "email", "", "manager email address")
	command.Flags().StringVar(&name, "name", "", "manager display name")
	_ = command.MarkFlagRequired("email")
	_ = command.MarkFlagRequired("name")

	return command
}

func newResetPasswordCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset-password <email>",
		Short: "Reset a user's password to a temporary one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return cli.RunResetPasswordCommand(cfg.DatabasePath, args[0])
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("jornada %s (%s)\n", version, commit)
		},
	}
}
