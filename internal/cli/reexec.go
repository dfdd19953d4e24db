package cli

import (
	"fmt"

	"github.com/nixpig/superchroot/internal/operations"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func reexecCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "reexec [flags] ROOT COMMAND [ARG...]",
		Short:   "Reexec isolated process\n\n \033[31m ⚠ FOR INTERNAL USE ONLY - DO NOT RUN DIRECTLY ⚠ \033[0m",
		Example: "\n -- FOR INTERNAL USE ONLY --",
		Args:    cobra.MinimumNArgs(2),
		Hidden:  true, // this command is only used internally
		RunE: func(cmd *cobra.Command, args []string) error {
			readonly, _ := cmd.Flags().GetBool("readonly")
			hostname, _ := cmd.Flags().GetString("hostname")

			if err := operations.Reexec(&operations.ReexecOpts{
				Root:     args[0],
				Readonly: readonly,
				Hostname: hostname,
				Args:     args[1:],
			}); err != nil {
				logrus.Errorf("reexec operation failed: %s", err)
				return fmt.Errorf("reexec: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().SetInterspersed(false)

	cmd.Flags().BoolP("readonly", "r", false, "Remount ROOT read-only")
	cmd.Flags().StringP("hostname", "", "", "Hostname to set")

	return cmd
}
