// Package logutil provides logging utilities.
//
// Loggers are created with a prefix and write to a shared destination, which
// is discarded by default and can be redirected at runtime.
package logutil

import (
	"fmt"
	"io"
	"log"
	"os"
)

var out io.Writer = io.Discard

var loggers []*log.Logger

// GetLogger gets a logger with a prefix.
func GetLogger(prefix string) *log.Logger {
	logger := log.New(out, prefix, log.LstdFlags)
	loggers = append(loggers, logger)
	return logger
}

// SetOutput redirects the output of all loggers, including all future ones
// created by GetLogger, to the given writer.
func SetOutput(newOut io.Writer) {
	out = newOut
	for _, logger := range loggers {
		logger.SetOutput(out)
	}
}

// SetOutputFile redirects the output of all loggers to the named file. If the
// name is empty, loggers are redirected to discard output.
func SetOutputFile(fname string) error {
	if fname == "" {
		SetOutput(io.Discard)
		return nil
	}
	file, err := os.OpenFile(fname, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file %v: %v", fname, err)
	}
	SetOutput(file)
	return nil
}
