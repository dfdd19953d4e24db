package platform

import (
	"errors"
	"fmt"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// fallbackExitCode is reported when the child did not exit normally or could
// not be waited for.
const fallbackExitCode = 1

// StartIsolated forks and execs argv with the given environment, creating the
// namespaces in cloneflags for the new process in the same clone. The child
// shares the caller's stdin, stdout and stderr. It returns the child's PID as
// seen from the caller's PID namespace.
func StartIsolated(argv, env []string, cloneflags uintptr) (int, error) {
	if len(argv) == 0 {
		return 0, errors.New("empty argv")
	}

	pid, err := syscall.ForkExec(argv[0], argv, &syscall.ProcAttr{
		Env: env,
		Files: []uintptr{
			os.Stdin.Fd(),
			os.Stdout.Fd(),
			os.Stderr.Fd(),
		},
		Sys: &syscall.SysProcAttr{
			Cloneflags: cloneflags,
		},
	})
	if err != nil {
		return 0, fmt.Errorf(
			"clone (argv0=%s, flags=%#x): %w",
			argv[0], cloneflags, err,
		)
	}

	return pid, nil
}

// WaitChild blocks until the child with the given pid terminates and returns
// its wait status.
func WaitChild(pid int) (unix.WaitStatus, error) {
	var ws unix.WaitStatus

	for {
		_, err := unix.Wait4(pid, &ws, 0, nil)
		if err == nil {
			return ws, nil
		}

		if !errors.Is(err, unix.EINTR) {
			return ws, fmt.Errorf("wait for child process %d: %w", pid, err)
		}
	}
}

// ExitCode translates the result of WaitChild into the exit code the
// supervisor reports. A normal exit yields the child's own exit status;
// anything else, including a failed wait, yields 1.
func ExitCode(ws unix.WaitStatus, err error) int {
	if err != nil {
		return fallbackExitCode
	}

	if ws.Exited() {
		return ws.ExitStatus()
	}

	return fallbackExitCode
}
