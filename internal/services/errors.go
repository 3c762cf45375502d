package services

import (
	"errors"
	"fmt"
)

var (
	// ErrNotPrivileged is returned when the process cannot manage volumes.
	ErrNotPrivileged = errors.New("insufficient privilege")

	// ErrToolUnavailable is returned when a required host tool is missing.
	ErrToolUnavailable = errors.New("tool unavailable")

	// ErrMountBusy is returned when a second mount is registered while
	// another one is live.
	ErrMountBusy = errors.New("a mount is already active")
)

// Op names the pipeline stage an OperationError came from
type Op string

const (
	OpEnumerate    Op = "enumerate"
	OpSnapshot     Op = "snapshot"
	OpPartitionMap Op = "partition-map"
	OpMount        Op = "mount"
	OpArchive      Op = "archive"
)

// OperationError ties a fatal error to the stage that raised it
type OperationError struct {
	Op     Op
	Target string
	Err    error
}

func (e *OperationError) Error() string {
	if e.Target == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Target, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

func opError(op Op, target string, err error) error {
	return &OperationError{Op: op, Target: target, Err: err}
}
