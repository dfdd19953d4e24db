package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Setup configures the standard logger used across superchroot. Logs are
// appended to logfile, creating it and its directory if needed, or written to
// stderr when logfile is empty.
func Setup(logfile string, debug bool) error {
	var out io.Writer = os.Stderr

	if logfile != "" {
		f, err := openLogFile(logfile)
		if err != nil {
			return err
		}

		out = f
	}

	configure(logrus.StandardLogger(), out, debug)

	return nil
}

// configure points logger at out. If debug is true then the log level is set
// to DEBUG and the caller is reported, else it's INFO.
func configure(logger *logrus.Logger, out io.Writer, debug bool) {
	logger.SetOutput(out)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	level := logrus.InfoLevel
	if debug {
		level = logrus.DebugLevel
	}

	logger.SetLevel(level)
	logger.SetReportCaller(debug)
}

func openLogFile(logfile string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(logfile), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	f, err := os.OpenFile(
		logfile,
		os.O_CREATE|os.O_APPEND|os.O_WRONLY,
		0o644,
	)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", logfile, err)
	}

	return f, nil
}
