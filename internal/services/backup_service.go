package services

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/deploymenttheory/go-lvmsnap/internal/interfaces"
)

// BackupConfig holds everything a backup run needs to know
type BackupConfig struct {
	Snapshot    SnapshotConfig
	Mount       MountConfig
	Destination string
}

// BackupResult summarises a backup run
type BackupResult struct {
	Snapshots *SnapshotResult `json:"snapshots" yaml:"snapshots"`
	Archives  []ArchiveRecord `json:"archives,omitempty" yaml:"archives,omitempty"`
	Skipped   []SkippedMount  `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Cleanup   *CleanupReport  `json:"cleanup" yaml:"cleanup"`
}

// BackupService runs the snapshot, mount and archive pipeline and always
// finishes with a cleanup, whatever way the pipeline ends.
type BackupService struct {
	tracker      *ResourceTracker
	destination  *Destination
	orchestrator *SnapshotOrchestrator
	mounter      *PartitionMounter
	cleanup      *CleanupController
	logger       *logrus.Entry
	dryRun       bool
}

// NewBackupService wires the pipeline around a fresh ResourceTracker
func NewBackupService(
	volumeManager interfaces.VolumeManager,
	mapper interfaces.PartitionMapper,
	mounter interfaces.Mounter,
	archiver interfaces.Archiver,
	fs afero.Fs,
	logger *logrus.Entry,
	config BackupConfig,
) *BackupService {
	tracker := NewResourceTracker()
	destination := NewDestination(fs, config.Destination)

	return &BackupService{
		tracker:      tracker,
		destination:  destination,
		orchestrator: NewSnapshotOrchestrator(volumeManager, mapper, tracker, logger, config.Snapshot),
		mounter:      NewPartitionMounter(mapper, mounter, archiver, tracker, destination, fs, logger, config.Mount),
		cleanup:      NewCleanupController(tracker, volumeManager, mapper, mounter, fs, logger),
		logger:       logger,
		dryRun:       config.Snapshot.DryRun,
	}
}

// Tracker returns the tracker holding the resources of this run
func (b *BackupService) Tracker() *ResourceTracker {
	return b.tracker
}

// Run executes the pipeline. The returned result is never nil and always
// carries the cleanup report, including when err is set.
func (b *BackupService) Run(ctx context.Context) (result *BackupResult, err error) {
	result = &BackupResult{}
	defer func() {
		result.Cleanup = b.cleanup.Run(ctx)
	}()

	if !b.dryRun {
		if err := b.destination.Prepare(); err != nil {
			return result, opError(OpArchive, b.destination.Prefix(), err)
		}
	}

	snapshots, err := b.orchestrator.Run(ctx)
	result.Snapshots = snapshots
	if err != nil {
		return result, err
	}
	if b.dryRun {
		return result, nil
	}

	for _, snap := range snapshots.Created {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		mounted, err := b.mounter.Process(ctx, snap)
		result.Archives = append(result.Archives, mounted.Archives...)
		result.Skipped = append(result.Skipped, mounted.Skipped...)
		if err != nil {
			return result, err
		}
	}

	b.logger.WithFields(logrus.Fields{
		"snapshots": len(snapshots.Created),
		"archives":  len(result.Archives),
		"skipped":   len(result.Skipped),
	}).Info("backup finished")
	return result, nil
}
