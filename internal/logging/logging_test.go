package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigure(t *testing.T) {
	scenarios := map[string]struct {
		debug      bool
		level      logrus.Level
		wantDebug  bool
		wantCaller bool
	}{
		"info": {
			debug:     false,
			level:     logrus.InfoLevel,
			wantDebug: false,
		},
		"debug": {
			debug:      true,
			level:      logrus.DebugLevel,
			wantDebug:  true,
			wantCaller: true,
		},
	}

	for scenario, data := range scenarios {
		t.Run(scenario, func(t *testing.T) {
			var buf bytes.Buffer

			logger := logrus.New()
			configure(logger, &buf, data.debug)
			assert.Equal(t, data.level, logger.GetLevel())
			assert.Equal(t, data.wantCaller, logger.ReportCaller)

			logger.Debug("debug message")
			logger.Info("info message")

			assert.Contains(t, buf.String(), "info message")
			if data.wantDebug {
				assert.Contains(t, buf.String(), "debug message")
			} else {
				assert.NotContains(t, buf.String(), "debug message")
			}
		})
	}
}

func TestSetupLogFile(t *testing.T) {
	std := logrus.StandardLogger()
	out, level := std.Out, std.GetLevel()
	t.Cleanup(func() {
		std.SetOutput(out)
		std.SetLevel(level)
		std.SetReportCaller(false)
	})

	logfile := filepath.Join(t.TempDir(), "nested", "superchroot.log")

	require.NoError(t, Setup(logfile, true))

	logrus.WithField("target", "/srv/root").Debug("mount proc")

	contents, err := os.ReadFile(logfile)
	require.NoError(t, err)
	assert.Contains(t, string(contents), "mount proc")
	assert.Contains(t, string(contents), "target=/srv/root")
}

func TestSetupInvalidLogFile(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	err := Setup(filepath.Join(blocker, "superchroot.log"), false)

	assert.ErrorContains(t, err, "create log directory")
}
