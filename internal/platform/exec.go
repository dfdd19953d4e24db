package platform

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// Exec replaces the current process image with argv, run with exactly the
// given env. argv[0] is resolved against the PATH in env, not the caller's.
// Exec only returns on failure.
func Exec(argv, env []string) error {
	if len(argv) == 0 {
		return errors.New("empty argv")
	}

	bin, err := lookPath(argv[0], env)
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"bin":  bin,
		"argv": argv,
		"env":  env,
	}).Debug("exec")

	if err := unix.Exec(bin, argv, env); err != nil {
		return fmt.Errorf("execve (argv0=%s, argv=%s): %w", bin, argv, err)
	}

	panic("unreachable")
}

func lookPath(file string, env []string) (string, error) {
	if err := unix.Setenv("PATH", envValue(env, "PATH")); err != nil {
		return "", fmt.Errorf("set PATH: %w", err)
	}

	bin, err := exec.LookPath(file)
	if err != nil {
		return "", fmt.Errorf("find path of %s: %w", file, err)
	}

	return bin, nil
}

// envValue returns the value of the last key entry in env, or "" if there is
// none.
func envValue(env []string, key string) string {
	var value string

	for _, e := range env {
		k, v, ok := strings.Cut(e, "=")
		if ok && k == key {
			value = v
		}
	}

	return value
}
