// Package device runs the host tools that manipulate block devices.
package device

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/deploymenttheory/go-lvmsnap/internal/interfaces"
)

// MaxLoggedOutput caps the bytes of stdout copied into a debug log line
const MaxLoggedOutput = 2048

// Runner executes host tools and captures their output
type Runner struct {
	logger *logrus.Entry
	tracer trace.Tracer
}

// Ensure interface compliance
var _ interfaces.CommandRunner = (*Runner)(nil)

// NewRunner creates a Runner logging through logger
func NewRunner(logger *logrus.Entry) *Runner {
	return &Runner{
		logger: logger,
		tracer: otel.Tracer("github.com/deploymenttheory/go-lvmsnap/internal/device"),
	}
}

// CommandError is returned when a tool exits unsuccessfully
type CommandError struct {
	Name   string
	Args   []string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	cmdline := strings.TrimSpace(e.Name + " " + strings.Join(e.Args, " "))
	if e.Stderr != "" {
		return fmt.Sprintf("%s: %v: %s", cmdline, e.Err, e.Stderr)
	}
	return fmt.Sprintf("%s: %v", cmdline, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Run executes name with args, blocking until it exits, and returns stdout
func (r *Runner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	ctx, span := r.tracer.Start(ctx, "exec/"+name, trace.WithAttributes(
		attribute.String("cmd.name", name),
		attribute.StringSlice("cmd.args", args),
	))
	defer span.End()

	cmd := exec.CommandContext(ctx, name, args...)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()

	fields := logrus.Fields{
		"command":     name,
		"args":        args,
		"duration_ms": time.Since(start).Milliseconds(),
	}
	if cmd.ProcessState != nil {
		fields["exit_code"] = cmd.ProcessState.ExitCode()
	}
	if s := strings.TrimSpace(stdout.String()); s != "" {
		fields["stdout"] = truncate(s, MaxLoggedOutput)
	}
	if s := strings.TrimSpace(stderr.String()); s != "" {
		fields["stderr"] = s
	}
	r.logger.WithFields(fields).Debug("command completed")

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return stdout.Bytes(), &CommandError{
			Name:   name,
			Args:   args,
			Stderr: strings.TrimSpace(stderr.String()),
			Err:    err,
		}
	}

	span.SetStatus(codes.Ok, "command succeeded")
	return stdout.Bytes(), nil
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return fmt.Sprintf("%s... (%d bytes truncated)", s[:limit], len(s)-limit)
}

// LookPath resolves name against PATH
func (r *Runner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
