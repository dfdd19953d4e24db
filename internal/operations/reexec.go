package operations

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/nixpig/superchroot/internal/platform"
	"github.com/sirupsen/logrus"
)

// defaultPath is the PATH of every command run inside a new root.
const defaultPath = "/usr/local/sbin:/usr/local/bin:/usr/sbin:/usr/bin:/sbin:/bin"

// ReexecEnv is set in the environment of the isolated process started by Run.
const ReexecEnv = "_SUPERCHROOT_REEXEC"

var (
	// ErrMissingCommand is returned when the isolated process is given no
	// command to execute.
	ErrMissingCommand = errors.New("command is required")
	// ErrNotIsolated is returned when Reexec is not running as PID 1 of a new
	// PID namespace.
	ErrNotIsolated = errors.New("not running as init of a new PID namespace")
)

// ReexecOpts holds the options for the Reexec operation.
type ReexecOpts struct {
	// Root is the absolute path of the directory to enter.
	Root string
	// Readonly remounts Root read-only before entering it.
	Readonly bool
	// Hostname is set in the UTS namespace, if not empty.
	Hostname string
	// Args is the command to exec once inside Root.
	Args []string
}

// Reexec is the entry point of the isolated process. It runs as PID 1 of the
// new PID namespace, prepares Root and execs the command inside it. It only
// returns on failure.
func Reexec(opts *ReexecOpts) error {
	if len(opts.Args) == 0 {
		return ErrMissingCommand
	}

	// Everything below changes the mount table of the calling namespace.
	if err := checkIsolated(os.Getpid()); err != nil {
		return err
	}

	// Subsequent syscalls need to happen in a single-threaded context.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	log := logrus.WithFields(logrus.Fields{
		"root": opts.Root,
		"pid":  os.Getpid(),
	})

	if opts.Hostname != "" {
		log.WithField("hostname", opts.Hostname).Debug("set hostname")

		if err := platform.SetHostname(opts.Hostname); err != nil {
			return err
		}
	}

	log.WithField("readonly", opts.Readonly).Debug("prepare rootfs")
	if err := platform.PrepareRootfs(opts.Root, opts.Readonly); err != nil {
		return fmt.Errorf("prepare rootfs: %w", err)
	}

	log.Debug("create devices")
	if err := platform.CreateDeviceNodes(platform.DefaultDevices, opts.Root); err != nil {
		return fmt.Errorf("create devices: %w", err)
	}

	if err := platform.CreateDefaultSymlinks(opts.Root); err != nil {
		return fmt.Errorf("create default symlinks: %w", err)
	}

	if err := platform.EnterRoot(opts.Root); err != nil {
		return fmt.Errorf("enter root: %w", err)
	}

	if err := platform.Exec(opts.Args, execEnv(os.Getenv)); err != nil {
		return fmt.Errorf("exec command: %w", err)
	}

	panic("if you got here then something wrong that is not recoverable")
}

// IsReexec reports whether the calling process is the isolated process
// started by Run.
func IsReexec() bool {
	return os.Getenv(ReexecEnv) == "1" && checkIsolated(os.Getpid()) == nil
}

func checkIsolated(pid int) error {
	if pid != 1 {
		return fmt.Errorf("%w: pid is %d", ErrNotIsolated, pid)
	}

	return nil
}

// execEnv is the complete environment of the command run inside the new root.
// SHELL and TERM are carried over from the invoker, empty when unset; nothing
// else from the host environment is.
func execEnv(getenv func(string) string) []string {
	return []string{
		"HOME=/root",
		"SHELL=" + getenv("SHELL"),
		"PATH=" + defaultPath,
		"TERM=" + getenv("TERM"),
	}
}
