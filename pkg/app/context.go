package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Context holds application-wide configuration and state
type Context struct {
	context.Context

	// Output preferences
	OutputFormat string
	Verbose      bool
	Quiet        bool
	Debug        bool

	// Identifies every log line of one run
	RunID string

	// Logger carries the run_id field
	Logger *logrus.Entry

	logFile io.Closer
}

// NewContext creates a new application context logging to stderr
func NewContext() *Context {
	runID := uuid.NewString()
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.WarnLevel)

	return &Context{
		Context: context.Background(),
		RunID:   runID,
		Logger:  logger.WithField("run_id", runID),
	}
}

// Level returns the log level selected by the verbosity flags. Quiet wins
// over debug, debug over verbose.
func (c *Context) Level() logrus.Level {
	switch {
	case c.Quiet:
		return logrus.WarnLevel
	case c.Debug:
		return logrus.DebugLevel
	case c.Verbose:
		return logrus.InfoLevel
	default:
		return logrus.WarnLevel
	}
}

// ConfigureLogging applies the verbosity flags and, when logFile is set,
// copies every log line to that file as well
func (c *Context) ConfigureLogging(logFile string) error {
	logger := c.Logger.Logger
	logger.SetLevel(c.Level())

	if logFile == "" {
		return nil
	}

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
	if err != nil {
		return NewError(ErrCodeConfiguration, fmt.Sprintf("cannot open log file %s", logFile), err)
	}
	logger.SetOutput(io.MultiWriter(logger.Out, f))
	c.logFile = f
	return nil
}

// Close releases the log file, if any
func (c *Context) Close() error {
	if c.logFile == nil {
		return nil
	}
	err := c.logFile.Close()
	c.logFile = nil
	return err
}

// WithCancel creates a cancellable context
func (c *Context) WithCancel() (*Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(c.Context)
	newCtx := *c
	newCtx.Context = ctx
	return &newCtx, cancel
}

// WithSignals creates a context that is cancelled on SIGINT or SIGTERM
func (c *Context) WithSignals() (*Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	newCtx := *c
	newCtx.Context = ctx
	return &newCtx, stop
}

// Log outputs an informational message, shown with --verbose
func (c *Context) Log(message string) {
	c.Logger.Info(message)
}
