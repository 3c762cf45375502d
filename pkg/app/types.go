package app

import (
	"errors"
	"fmt"
)

// CommonError represents application-level errors
type CommonError struct {
	Code    string
	Message string
	Cause   error
}

func (e *CommonError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *CommonError) Unwrap() error {
	return e.Cause
}

// Common error codes
const (
	ErrCodeConfiguration    = "CONFIGURATION"
	ErrCodePermission       = "PERMISSION_DENIED"
	ErrCodeToolUnavailable  = "TOOL_UNAVAILABLE"
	ErrCodeEnumeration      = "ENUMERATION"
	ErrCodeSnapshot         = "SNAPSHOT_OPERATION"
	ErrCodePartitionMapping = "PARTITION_MAPPING"
	ErrCodeMount            = "MOUNT"
	ErrCodeArchive          = "ARCHIVE"
	ErrCodeCleanup          = "CLEANUP"
	ErrCodeInterrupted      = "INTERRUPTED"
	ErrCodeInternal         = "INTERNAL"
)

// NewError creates a new CommonError
func NewError(code, message string, cause error) *CommonError {
	return &CommonError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// ErrorCode returns the code of the first CommonError in err's chain, or
// ErrCodeInternal
func ErrorCode(err error) string {
	var ce *CommonError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ErrCodeInternal
}

// ExitCode returns the process exit status for the outcome of a command
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}
