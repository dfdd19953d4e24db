package cli

import (
	"errors"
	"fmt"

	"github.com/nixpig/superchroot/internal/logging"
	"github.com/nixpig/superchroot/internal/operations"
	"github.com/nixpig/superchroot/internal/validation"
	"github.com/spf13/cobra"
)

func RootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "superchroot [flags] ROOT [COMMAND [ARG...]]",
		Short: "Run a command in an isolated root filesystem.",
		Long: "Run a command with ROOT as its root filesystem, in new mount, PID, IPC " +
			"and UTS namespaces, with fresh /proc, /sys and a minimal /dev.\n\n" +
			"COMMAND defaults to /bin/sh. The exit code is the exit code of COMMAND.",
		Example: "  superchroot /srv/alpine\n" +
			"  superchroot --readonly /srv/alpine ls -la /",
		Version: "0.0.1",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logfile, _ := cmd.Flags().GetString("log")
			debug, _ := cmd.Flags().GetBool("debug")

			if err := logging.Setup(logfile, debug); err != nil {
				return fmt.Errorf("initialise logging: %w", err)
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return &UsageError{Err: errors.New("missing ROOT")}
			}

			readonly, _ := cmd.Flags().GetBool("readonly")
			hostname, _ := cmd.Flags().GetString("hostname")
			logfile, _ := cmd.Flags().GetString("log")
			debug, _ := cmd.Flags().GetBool("debug")

			if cmd.Flags().Changed("hostname") {
				if err := validation.Hostname(hostname); err != nil {
					return &UsageError{Err: fmt.Errorf("invalid hostname: %w", err)}
				}
			}

			code, err := operations.Run(&operations.RunOpts{
				Root:     args[0],
				Readonly: readonly,
				Hostname: hostname,
				Args:     args[1:],
				LogFile:  logfile,
				Debug:    debug,
			})
			if err != nil {
				return fmt.Errorf("run: %w", err)
			}

			if code != 0 {
				return &ExitError{Code: code}
			}

			return nil
		},
	}

	// Everything after ROOT belongs to COMMAND.
	cmd.Flags().SetInterspersed(false)

	cmd.Flags().BoolP(
		"readonly",
		"r",
		false,
		"Remount ROOT read-only inside the new mount namespace",
	)

	cmd.Flags().StringP(
		"hostname",
		"",
		"",
		"Hostname inside the new UTS namespace",
	)

	cmd.PersistentFlags().StringP(
		"log",
		"l",
		"",
		"Destination to write logs (default is stderr)",
	)

	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})

	cmd.CompletionOptions.DisableDefaultCmd = true

	return cmd
}
