package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/nixpig/superchroot/internal/platform"
	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	scenarios := map[string]struct {
		err  error
		code int
	}{
		"no error":             {err: nil, code: 0},
		"command exit code":    {err: &ExitError{Code: 42}, code: 42},
		"wrapped exit code":    {err: fmt.Errorf("run: %w", &ExitError{Code: 2}), code: 2},
		"usage error":          {err: &UsageError{Err: errors.New("missing ROOT")}, code: 2},
		"not root":             {err: platform.ErrNotRoot, code: 1},
		"missing capabilities": {err: platform.ErrMissingCapabilities, code: 1},
		"pipeline failure":     {err: errors.New("mount proc"), code: 1},
	}

	for scenario, data := range scenarios {
		t.Run(scenario, func(t *testing.T) {
			assert.Equal(t, data.code, exitCode(data.err))
		})
	}
}

func TestUsageErrorUnwrap(t *testing.T) {
	cause := errors.New("unknown flag: --bogus")
	err := &UsageError{Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "unknown flag: --bogus", err.Error())
}

func stubPrivileges(t *testing.T, err error) {
	t.Helper()

	orig := checkPrivileges
	checkPrivileges = func() error { return err }

	t.Cleanup(func() { checkPrivileges = orig })
}

func TestExecuteHelpAndVersion(t *testing.T) {
	for _, args := range [][]string{{"--help"}, {"-h"}, {"--version"}} {
		t.Run(args[0], func(t *testing.T) {
			stubPrivileges(t, nil)

			var stderr bytes.Buffer

			assert.Equal(t, 0, Execute(args, &stderr))
			assert.Empty(t, stderr.String())
		})
	}
}

func TestExecuteUnprivileged(t *testing.T) {
	scenarios := map[string]struct {
		args []string
	}{
		"help":         {args: []string{"--help"}},
		"version":      {args: []string{"--version"}},
		"unknown flag": {args: []string{"--bogus", "/srv/root"}},
		"no args":      {args: []string{}},
		"run":          {args: []string{"--readonly", "/srv/root", "/bin/true"}},
	}

	for scenario, data := range scenarios {
		t.Run(scenario, func(t *testing.T) {
			stubPrivileges(t, platform.ErrNotRoot)

			var stderr bytes.Buffer

			assert.Equal(t, 1, Execute(data.args, &stderr))
			assert.Equal(t, "superchroot: must be run as root\n", stderr.String())
		})
	}
}

func TestExecuteUnknownFlag(t *testing.T) {
	stubPrivileges(t, nil)

	var stderr bytes.Buffer

	code := Execute([]string{"--bogus", "/srv/root"}, &stderr)

	assert.Equal(t, 2, code)
	assert.Contains(t, stderr.String(), "unknown flag: --bogus")
	assert.Contains(t, stderr.String(), "Usage:")
}

func TestExecuteMissingRoot(t *testing.T) {
	stubPrivileges(t, nil)

	var stderr bytes.Buffer

	code := Execute([]string{}, &stderr)

	assert.Equal(t, 2, code)
	assert.Contains(t, stderr.String(), "missing ROOT")
	assert.Contains(t, stderr.String(), "Usage:")
}

func TestExecuteRootNamedReexec(t *testing.T) {
	stubPrivileges(t, nil)
	chdir(t, t.TempDir())

	var stderr bytes.Buffer

	code := Execute([]string{"reexec", "/bin/sh", "-c", "exit 3"}, &stderr)

	// "reexec" is resolved as ROOT relative to the working directory, where
	// it does not exist, so nothing is mounted.
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "superchroot: run: stat root")
	assert.NotContains(t, stderr.String(), "superchroot: reexec:")
}

// chdir changes the working directory for the duration of the test,
// restoring it on cleanup (equivalent to testing.T.Chdir in Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
