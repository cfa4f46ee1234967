package main

import (
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now    func() time.Time
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *logrus.Logger // Reconfigured per command from -q/-v
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:    time.Now,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Logger: newLogger(os.Stderr, false, false),
	}
}
