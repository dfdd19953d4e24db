package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd(t *testing.T) {
	cmd := RootCmd()

	assert.Equal(t, "superchroot [flags] ROOT [COMMAND [ARG...]]", cmd.Use)

	readonlyFlag := cmd.Flag("readonly")
	require.NotNil(t, readonlyFlag)
	assert.Equal(t, "r", readonlyFlag.Shorthand)
	assert.Equal(t, "false", readonlyFlag.DefValue)

	assert.NotNil(t, cmd.Flag("hostname"))

	logFlag := cmd.PersistentFlags().Lookup("log")
	require.NotNil(t, logFlag)
	assert.Equal(t, "l", logFlag.Shorthand)

	debugFlag := cmd.PersistentFlags().Lookup("debug")
	require.NotNil(t, debugFlag)
	assert.Equal(t, "d", debugFlag.Shorthand)
}

func TestRootCmdStopsParsingFlagsAtRoot(t *testing.T) {
	cmd := RootCmd()

	require.NoError(t, cmd.ParseFlags([]string{"-r", "/srv/root", "ls", "-la", "--readonly"}))

	readonly, err := cmd.Flags().GetBool("readonly")
	require.NoError(t, err)
	assert.True(t, readonly)

	assert.Equal(t, []string{"/srv/root", "ls", "-la", "--readonly"}, cmd.Flags().Args())
}

func TestReexecCmd(t *testing.T) {
	cmd := reexecCmd()

	assert.Equal(t, "reexec", cmd.Name())
	assert.True(t, cmd.Hidden)

	args := []string{"--readonly", "/srv/root", "/bin/sh"}
	require.NoError(t, cmd.ParseFlags(args))

	readonly, err := cmd.Flags().GetBool("readonly")
	require.NoError(t, err)
	assert.True(t, readonly)
	assert.Equal(t, []string{"/srv/root", "/bin/sh"}, cmd.Flags().Args())

	assert.Error(t, cmd.Args(cmd, []string{"/srv/root"}))
	assert.NoError(t, cmd.Args(cmd, []string{"/srv/root", "/bin/sh"}))
}

func TestRootCmdHasNoReexecCommand(t *testing.T) {
	cmd := RootCmd()

	for _, args := range [][]string{
		{"/srv/root", "reexec"},
		{"reexec", "/bin/sh"},
		{"reexec", "--readonly", "/srv/root", "/bin/sh"},
	} {
		found, _, err := cmd.Find(args)
		require.NoError(t, err)

		assert.Equal(t, cmd, found)
	}
}
