package services

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/deploymenttheory/go-lvmsnap/internal/interfaces"
	"github.com/deploymenttheory/go-lvmsnap/internal/types"
)

// CleanupReport lists what a cleanup released and what it failed to release
type CleanupReport struct {
	Unmounted        []string `json:"unmounted,omitempty" yaml:"unmounted,omitempty"`
	MappingsRemoved  []string `json:"mappings_removed,omitempty" yaml:"mappings_removed,omitempty"`
	SnapshotsRemoved []string `json:"snapshots_removed,omitempty" yaml:"snapshots_removed,omitempty"`
	Failures         []string `json:"failures,omitempty" yaml:"failures,omitempty"`

	errs *multierror.Error
}

// Err returns the collected failures, or nil when everything was released
func (r *CleanupReport) Err() error {
	if r == nil {
		return nil
	}
	return r.errs.ErrorOrNil()
}

// Operations returns the number of resources the cleanup acted on
func (r *CleanupReport) Operations() int {
	return len(r.Unmounted) + len(r.MappingsRemoved) + len(r.SnapshotsRemoved) + len(r.Failures)
}

func (r *CleanupReport) fail(err error) {
	r.errs = multierror.Append(r.errs, err)
	r.Failures = append(r.Failures, err.Error())
}

// CleanupController drains a ResourceTracker. Every step is best-effort:
// failures are logged and reported but never returned, and all registries
// are empty afterwards, so a second run does nothing.
type CleanupController struct {
	tracker *ResourceTracker
	volumes interfaces.VolumeManager
	mapper  interfaces.PartitionMapper
	mounter interfaces.Mounter
	fs      afero.Fs
	logger  *logrus.Entry
}

// NewCleanupController creates a new CleanupController
func NewCleanupController(
	tracker *ResourceTracker,
	volumes interfaces.VolumeManager,
	mapper interfaces.PartitionMapper,
	mounter interfaces.Mounter,
	fs afero.Fs,
	logger *logrus.Entry,
) *CleanupController {
	return &CleanupController{
		tracker: tracker,
		volumes: volumes,
		mapper:  mapper,
		mounter: mounter,
		fs:      fs,
		logger:  logger,
	}
}

// Run releases the mount, then the partition mappings, then the snapshots.
// It ignores cancellation of ctx so an interrupted run still unwinds.
func (c *CleanupController) Run(ctx context.Context) *CleanupReport {
	ctx = context.WithoutCancel(ctx)
	report := &CleanupReport{}

	if c.tracker.Empty() {
		return report
	}
	c.logger.Info("cleaning up")

	if dir := c.tracker.MountDir(); dir != "" {
		c.releaseMount(dir, report)
		c.tracker.ClearMount()
	}

	mappings := c.tracker.Mappings()
	for i := len(mappings) - 1; i >= 0; i-- {
		device := mappings[i]
		if err := c.mapper.RemoveMappings(ctx, device); err != nil {
			c.logger.WithError(err).WithField("device", device).Error("failed to remove partition mappings")
			report.fail(err)
			continue
		}
		report.MappingsRemoved = append(report.MappingsRemoved, device)
	}
	c.tracker.ClearMappings()

	snapshots := c.tracker.Snapshots()
	for i := len(snapshots) - 1; i >= 0; i-- {
		snap := snapshots[i]
		if err := RemoveSnapshot(ctx, c.volumes, c.mapper, c.logger, snap); err != nil {
			c.logger.WithError(err).WithField("snapshot", snap.FullName()).Error("failed to remove snapshot")
			report.fail(err)
			continue
		}
		report.SnapshotsRemoved = append(report.SnapshotsRemoved, snap.FullName())
	}
	c.tracker.ClearSnapshots()

	if err := report.Err(); err != nil {
		c.logger.WithField("failures", len(report.Failures)).Warn("cleanup finished with failures")
	}
	return report
}

func (c *CleanupController) releaseMount(dir string, report *CleanupReport) {
	logger := c.logger.WithField("mount", dir)

	mounted, err := c.mounter.IsMounted(dir)
	if err != nil {
		// unknown state, try to unmount anyway
		logger.WithError(err).Debug("could not read mount state")
		mounted = true
	}
	if mounted {
		if err := c.mounter.Unmount(dir); err != nil {
			logger.WithError(err).Error("failed to unmount")
			report.fail(err)
			return
		}
		report.Unmounted = append(report.Unmounted, dir)
	}

	if err := c.fs.Remove(dir); err != nil {
		logger.WithError(err).Error("failed to remove mount directory")
		report.fail(fmt.Errorf("failed to remove mount directory %s: %w", dir, err))
	}
}

// RemoveSnapshot removes a snapshot volume. When direct removal fails, the
// partition mappings of the device are dropped and removal is retried once.
func RemoveSnapshot(ctx context.Context, volumes interfaces.VolumeManager, mapper interfaces.PartitionMapper, logger *logrus.Entry, snap types.Snapshot) error {
	err := volumes.RemoveLogicalVolume(ctx, snap.Group, snap.Name)
	if err == nil {
		return nil
	}

	logger.WithError(err).WithField("snapshot", snap.FullName()).Warn("removal failed, dropping partition mappings and retrying")
	if mapErr := mapper.RemoveMappings(ctx, snap.Path); mapErr != nil {
		logger.WithError(mapErr).WithField("device", snap.Path).Debug("no partition mappings dropped")
	}

	if err := volumes.RemoveLogicalVolume(ctx, snap.Group, snap.Name); err != nil {
		return fmt.Errorf("failed to remove snapshot %s after dropping mappings: %w", snap.FullName(), err)
	}
	return nil
}
