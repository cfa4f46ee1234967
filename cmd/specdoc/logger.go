package main

import (
	"io"

	"github.com/sirupsen/logrus"
)

// newLogger creates the diagnostic logger. Default level is warn;
// verbose lowers it to debug and quiet raises it to error.
func newLogger(w io.Writer, quiet, verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		DisableColors:    true,
	})
	setLogLevel(log, quiet, verbose)
	return log
}

// setLogLevel applies -q/-v to an existing logger. Quiet wins.
func setLogLevel(log *logrus.Logger, quiet, verbose bool) {
	switch {
	case quiet:
		log.SetLevel(logrus.ErrorLevel)
	case verbose:
		log.SetLevel(logrus.DebugLevel)
	default:
		log.SetLevel(logrus.WarnLevel)
	}
}
