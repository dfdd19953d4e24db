package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/nixpig/superchroot/internal/operations"
	"github.com/nixpig/superchroot/internal/platform"
	"github.com/sirupsen/logrus"
)

const (
	exitFailure = 1
	exitUsage   = 2
)

var checkPrivileges = platform.CheckPrivileges

// UsageError is returned for a malformed invocation.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

// ExitError carries the exit code of a command that ran inside the new root
// and exited non-zero.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("command exited with code %d", e.Code)
}

// Execute runs the root command with args, reports any failure to stderr and
// returns the exit code for the process. Privileges are checked before args
// are looked at.
func Execute(args []string, stderr io.Writer) int {
	if err := checkPrivileges(); err != nil {
		stderr.Write(fmt.Appendf(nil, "superchroot: %s\n", err))
		return exitCode(err)
	}

	root := RootCmd()

	// Outside the isolated process "reexec" is just a ROOT like any other.
	if operations.IsReexec() {
		root.AddCommand(reexecCmd())
	}

	root.SetArgs(args)
	root.SetErr(stderr)

	cmd, err := root.ExecuteC()
	if cmd == nil {
		cmd = root
	}

	var exitErr *ExitError
	var usageErr *UsageError

	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		// The command's own exit code is passed on without a message.
	case errors.As(err, &usageErr):
		stderr.Write(fmt.Appendf(nil, "Error: %s\n\n%s", err, cmd.UsageString()))
	default:
		if logrus.StandardLogger().Out != os.Stderr {
			logrus.WithError(err).Error("superchroot failed")
		}

		stderr.Write(fmt.Appendf(nil, "superchroot: %s\n", err))
	}

	return exitCode(err)
}

// exitCode maps the error returned by a command to the process exit code.
func exitCode(err error) int {
	if err == nil {
		return 0
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		return exitUsage
	}

	return exitFailure
}
