package cli

import (
	"testing"

	"github.com/nixpig/superchroot/internal/operations"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReexecCmdLogsFailureAtError(t *testing.T) {
	hook := test.NewGlobal()
	t.Cleanup(func() {
		logrus.StandardLogger().ReplaceHooks(make(logrus.LevelHooks))
	})

	cmd := reexecCmd()
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.SetArgs([]string{t.TempDir(), "/bin/sh"})

	// The test process is not PID 1, so the pipeline refuses to start.
	err := cmd.Execute()
	assert.ErrorIs(t, err, operations.ErrNotIsolated)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Contains(t, entry.Message, "reexec operation failed")
}
