package operations

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/nixpig/superchroot/internal/platform"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// DefaultCommand is run inside the new root when no command is given.
var DefaultCommand = []string{"/bin/sh"}

// ErrNotDirectory is returned when the target root is not a directory.
var ErrNotDirectory = errors.New("not a directory")

// RunOpts holds the options for the Run operation.
type RunOpts struct {
	// Root is the directory that becomes the new root filesystem.
	Root string
	// Readonly remounts Root read-only inside the new mount namespace.
	Readonly bool
	// Hostname is set in the new UTS namespace, if not empty.
	Hostname string
	// Args is the command to run inside the new root. DefaultCommand is used
	// when empty.
	Args []string
	// LogFile is the location of the file used for logging.
	LogFile string
	// Debug enables debug logging in the isolated process.
	Debug bool
}

// Run starts an isolated process that sets up Root and execs Args inside it,
// then waits for it. The returned exit code is the command's exit code, or 1
// when it was killed by a signal or could not be waited for.
func Run(opts *RunOpts) (int, error) {
	root, err := resolveRoot(opts.Root)
	if err != nil {
		return 0, err
	}

	cloneFlags, err := platform.CloneFlags(platform.IsolatedNamespaces)
	if err != nil {
		return 0, fmt.Errorf("clone flags: %w", err)
	}

	args := reexecArgs(root, opts)
	env := append(os.Environ(), ReexecEnv+"=1")

	logrus.WithFields(logrus.Fields{
		"root":        root,
		"readonly":    opts.Readonly,
		"argv":        args,
		"clone_flags": fmt.Sprintf("%#x", cloneFlags),
	}).Debug("start isolated process")

	// Terminal-generated signals also reach the child, which decides what to
	// do with them. The supervisor must outlive it to report its exit code.
	stop := ignoreInterrupts(func(sig os.Signal) {
		logrus.WithField("signal", sig).Debug("supervisor ignored signal")
	})
	defer stop()

	pid, err := platform.StartIsolated(args, env, cloneFlags)
	if err != nil {
		return 0, fmt.Errorf("start isolated process: %w", err)
	}

	ws, err := platform.WaitChild(pid)
	if err != nil {
		logrus.WithError(err).Error("wait for isolated process")
	}

	code := platform.ExitCode(ws, err)

	logrus.WithFields(logrus.Fields{
		"pid":       pid,
		"exit_code": code,
		"signaled":  ws.Signaled(),
	}).Debug("isolated process finished")

	return code, nil
}

// ignoreInterrupts catches SIGINT and SIGQUIT, passing each to received, until
// the returned function is called. Caught signals revert to their default
// disposition across exec, so the child is not affected.
func ignoreInterrupts(received func(os.Signal)) func() {
	sigs := make(chan os.Signal, 1)
	done := make(chan struct{})

	signal.Notify(sigs, unix.SIGINT, unix.SIGQUIT)

	go func() {
		for {
			select {
			case sig := <-sigs:
				received(sig)
			case <-done:
				return
			}
		}
	}()

	return func() {
		signal.Stop(sigs)
		close(done)
	}
}

// resolveRoot checks that root is an existing directory and returns its
// absolute path.
func resolveRoot(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("absolute path from root: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("stat root: %w", err)
	}

	if !info.IsDir() {
		return "", fmt.Errorf("root %s: %w", abs, ErrNotDirectory)
	}

	return abs, nil
}

// reexecArgs builds the argv that re-executes the running binary as the
// isolated process for root.
func reexecArgs(root string, opts *RunOpts) []string {
	args := []string{"/proc/self/exe", "reexec"}

	if opts.Readonly {
		args = append(args, "--readonly")
	}

	if opts.Hostname != "" {
		args = append(args, "--hostname", opts.Hostname)
	}

	if opts.LogFile != "" {
		args = append(args, "--log", opts.LogFile)
	}

	if opts.Debug {
		args = append(args, "--debug")
	}

	command := opts.Args
	if len(command) == 0 {
		command = DefaultCommand
	}

	args = append(args, root)
	args = append(args, command...)

	return args
}
