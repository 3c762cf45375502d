package backup

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/deploymenttheory/go-lvmsnap/internal/device"
	"github.com/deploymenttheory/go-lvmsnap/internal/interfaces"
	"github.com/deploymenttheory/go-lvmsnap/internal/services"
	"github.com/deploymenttheory/go-lvmsnap/pkg/app"
)

// Preflight checks the host before any resource is touched
type Preflight interface {
	Check(backendTool string) error
}

// PreflightFunc adapts a function to Preflight
type PreflightFunc func(backendTool string) error

// Check implements Preflight
func (f PreflightFunc) Check(backendTool string) error {
	return f(backendTool)
}

// Dependencies are the host collaborators of a run
type Dependencies struct {
	Runner    interfaces.CommandRunner
	Mounter   interfaces.Mounter
	Fs        afero.Fs
	Preflight Preflight
}

// HostDependencies drives the real host tools
func HostDependencies(logger *logrus.Entry) Dependencies {
	runner := device.NewRunner(logger)
	return Dependencies{
		Runner:    runner,
		Mounter:   services.NewMountService(logger),
		Fs:        afero.NewOsFs(),
		Preflight: services.NewPreflightService(runner, logger),
	}
}

// Handle runs a backup against the host
func Handle(ctx *app.Context, req *Request) (*Response, error) {
	return HandleWith(ctx, req, HostDependencies(ctx.Logger))
}

// HandleWith runs a backup with the given collaborators. Whenever a
// snapshot pass started, the response is returned together with the error
// and carries the cleanup report.
func HandleWith(ctx *app.Context, req *Request, deps Dependencies) (*Response, error) {
	startTime := time.Now()

	// 1. Validate request
	if err := req.Validate(); err != nil {
		return nil, err
	}
	exclusions, _ := req.Exclusions()

	// 2. Check privilege and tooling
	archiver, err := services.NewArchiver(services.ArchiveConfig{
		Backend:     req.Backend,
		Compression: req.Compression,
		Overwrite:   req.Overwrite,
	}, deps.Runner, deps.Fs, ctx.Logger)
	if err != nil {
		return nil, app.NewError(app.ErrCodeConfiguration, "invalid archive settings", err)
	}
	if deps.Preflight != nil {
		if err := deps.Preflight.Check(archiver.Tool()); err != nil {
			return nil, classify(err)
		}
	}

	ctx.Logger.WithFields(logrus.Fields{
		"backend":     archiver.Name(),
		"destination": req.Destination,
		"prefix":      req.SnapshotPrefix,
		"dry_run":     req.DryRun,
	}).Info("starting backup")

	// 3. Run the pipeline; cleanup runs inside whatever happens
	svc := services.NewBackupService(
		services.NewLVMService(deps.Runner, ctx.Logger),
		services.NewKpartxService(deps.Runner, ctx.Logger),
		deps.Mounter,
		archiver,
		deps.Fs,
		ctx.Logger,
		services.BackupConfig{
			Snapshot: services.SnapshotConfig{
				Prefix:  req.SnapshotPrefix,
				Exclude: exclusions,
				DryRun:  req.DryRun,
			},
			Mount: services.MountConfig{
				ReadWrite:         req.ReadWrite,
				IgnoreMountErrors: req.IgnoreMountErrors,
				Options:           req.MountOptions,
				MountDir:          req.MountDir,
			},
			Destination: req.Destination,
		},
	)
	result, runErr := svc.Run(ctx)

	response := &Response{
		RunID:    ctx.RunID,
		Backend:  archiver.Name(),
		DryRun:   req.DryRun,
		Duration: time.Since(startTime),
		Snapshot: result.Snapshots,
		Archives: result.Archives,
		Skipped:  result.Skipped,
		Cleanup:  result.Cleanup,
	}

	if cleanupErr := result.Cleanup.Err(); cleanupErr != nil {
		ctx.Logger.WithError(app.NewError(app.ErrCodeCleanup, "cleanup incomplete", cleanupErr)).
			Error("some resources could not be released, see the cleanup report")
	}

	if runErr != nil {
		err := classify(runErr)
		// a killed tool reports its own failure, the cancelled context is the cause
		if ctx.Err() != nil && app.ErrorCode(err) != app.ErrCodeInterrupted {
			err = app.NewError(app.ErrCodeInterrupted, "backup interrupted", runErr)
		}
		response.Error = err.Error()
		return response, err
	}

	ctx.Log("backup completed")
	return response, nil
}

// classify maps a pipeline failure to its application error code
func classify(err error) error {
	var opErr *services.OperationError
	switch {
	case errors.Is(err, services.ErrNotPrivileged):
		return app.NewError(app.ErrCodePermission, "insufficient privilege", err)
	case errors.Is(err, services.ErrToolUnavailable):
		return app.NewError(app.ErrCodeToolUnavailable, "required tool missing", err)
	case errors.Is(err, context.Canceled):
		return app.NewError(app.ErrCodeInterrupted, "backup interrupted", err)
	case errors.As(err, &opErr):
		switch opErr.Op {
		case services.OpEnumerate:
			return app.NewError(app.ErrCodeEnumeration, "volume enumeration failed", err)
		case services.OpSnapshot:
			return app.NewError(app.ErrCodeSnapshot, "snapshot operation failed", err)
		case services.OpPartitionMap:
			return app.NewError(app.ErrCodePartitionMapping, "partition mapping failed", err)
		case services.OpMount:
			return app.NewError(app.ErrCodeMount, "mount failed", err)
		case services.OpArchive:
			return app.NewError(app.ErrCodeArchive, "archive failed", err)
		}
	}
	return app.NewError(app.ErrCodeInternal, "backup failed", err)
}
