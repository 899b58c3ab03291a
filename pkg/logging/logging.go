// Package logging configures the process-wide logrus logger.
//
// The terminal belongs to the picker, so logs never go to stdout or
// stderr. They are discarded unless debugging is enabled, in which case
// they are appended to a file in the temporary directory.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// FileName is the debug log written under os.TempDir.
const FileName = "proclean-debug.log"

// Path returns the location of the debug log.
func Path() string {
	return filepath.Join(os.TempDir(), FileName)
}

// Setup configures logger. With debug off everything is discarded. The
// returned function closes the log file and must be called on exit.
func Setup(logger *logrus.Logger, debug bool) (func() error, error) {
	logger.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000",
	})

	if !debug {
		logger.SetOutput(io.Discard)
		logger.SetLevel(logrus.WarnLevel)
		return func() error { return nil }, nil
	}

	f, err := os.OpenFile(Path(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		logger.SetOutput(io.Discard)
		return func() error { return nil }, fmt.Errorf("failed to open debug log: %w", err)
	}
	logger.SetOutput(f)
	logger.SetLevel(logrus.DebugLevel)
	logger.WithField("pid", os.Getpid()).Debug("debug logging enabled")
	return f.Close, nil
}
