package services

import (
	"context"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/deploymenttheory/go-lvmsnap/internal/interfaces"
	"github.com/deploymenttheory/go-lvmsnap/internal/types"
)

// MountConfig controls how snapshot filesystems are mounted
type MountConfig struct {
	// Map and mount read-write instead of read-only
	ReadWrite bool

	// Downgrade mount failures to warnings
	IgnoreMountErrors bool

	// Extra mount options
	Options []string

	// Parent of the temporary mount directories, the OS temp dir when empty
	MountDir string
}

// ArchiveRecord describes one copied filesystem
type ArchiveRecord struct {
	Snapshot    string `json:"snapshot" yaml:"snapshot"`
	Device      string `json:"device" yaml:"device"`
	Partition   int    `json:"partition,omitempty" yaml:"partition,omitempty"`
	Destination string `json:"destination" yaml:"destination"`
}

// SkippedMount describes a filesystem whose mount failure was tolerated
type SkippedMount struct {
	Device string `json:"device" yaml:"device"`
	Error  string `json:"error" yaml:"error"`
}

// MountResult summarises the processing of one snapshot
type MountResult struct {
	Archives []ArchiveRecord `json:"archives,omitempty" yaml:"archives,omitempty"`
	Skipped  []SkippedMount  `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// PartitionMounter maps a snapshot's partitions, mounts each one in turn and
// hands it to the archiver. Devices without a partition table are mounted
// whole.
type PartitionMounter struct {
	mapper      interfaces.PartitionMapper
	mounter     interfaces.Mounter
	archiver    interfaces.Archiver
	tracker     *ResourceTracker
	destination *Destination
	fs          afero.Fs
	logger      *logrus.Entry
	config      MountConfig
}

// NewPartitionMounter creates a new PartitionMounter
func NewPartitionMounter(
	mapper interfaces.PartitionMapper,
	mounter interfaces.Mounter,
	archiver interfaces.Archiver,
	tracker *ResourceTracker,
	destination *Destination,
	fs afero.Fs,
	logger *logrus.Entry,
	config MountConfig,
) *PartitionMounter {
	return &PartitionMounter{
		mapper:      mapper,
		mounter:     mounter,
		archiver:    archiver,
		tracker:     tracker,
		destination: destination,
		fs:          fs,
		logger:      logger,
		config:      config,
	}
}

// Process copies every filesystem inside snap. Partition n of the snapshot
// of vg/lv is written to <prefix>vg-lv-n, a whole-device filesystem to
// <prefix>vg-lv.
func (p *PartitionMounter) Process(ctx context.Context, snap types.Snapshot) (*MountResult, error) {
	result := &MountResult{}
	logger := p.logger.WithFields(logrus.Fields{
		"snapshot": snap.FullName(),
		"device":   snap.Path,
	})

	parts, err := p.mapper.ListPartitions(ctx, snap.Path)
	if err != nil {
		p.logDiagnostics(logger, snap.Path)
		return result, opError(OpPartitionMap, snap.Path, err)
	}

	if len(parts) == 0 {
		logger.Info("no partition table, mounting whole device")
		stem := p.destination.Stem(snap.Group, snap.Origin, 0)
		if err := p.mountAndArchive(ctx, snap, snap.Path, 0, stem, result); err != nil {
			return result, err
		}
		return result, nil
	}

	logger.WithField("partitions", len(parts)).Info("mapping partitions")
	if err := p.mapper.AddMappings(ctx, snap.Path, p.config.ReadWrite); err != nil {
		return result, opError(OpPartitionMap, snap.Path, err)
	}
	p.tracker.RegisterMapping(snap.Path)

	for _, part := range parts {
		stem := p.destination.Stem(snap.Group, snap.Origin, part.Index)
		if err := p.mountAndArchive(ctx, snap, part.Path, part.Index, stem, result); err != nil {
			return result, err
		}
	}

	// the snapshot itself stays until the final cleanup, its mappings do not
	if err := p.mapper.RemoveMappings(ctx, snap.Path); err != nil {
		logger.WithError(err).Warn("failed to remove partition mappings, leaving them for cleanup")
		return result, nil
	}
	p.tracker.RemoveMapping(snap.Path)
	return result, nil
}

// mountAndArchive runs one mount, copy and unmount cycle. The mount
// directory is registered before mounting, so cleanup finds it if the copy
// fails.
func (p *PartitionMounter) mountAndArchive(ctx context.Context, snap types.Snapshot, device string, index int, stem string, result *MountResult) error {
	mounted := types.MountedPartition{Device: device, Index: index}
	logger := p.logger.WithField("device", device)

	dir, err := afero.TempDir(p.fs, p.config.MountDir, "lvmsnap-")
	if err != nil {
		return opError(OpMount, device, err)
	}
	if err := p.tracker.RegisterMount(dir); err != nil {
		_ = p.fs.Remove(dir)
		return opError(OpMount, device, err)
	}
	mounted.MountDir = dir
	logger = logger.WithField("mount", dir)

	options := interfaces.MountOptions{
		ReadOnly: !p.config.ReadWrite,
		Extra:    p.config.Options,
	}
	if err := p.mounter.Mount(device, dir, options); err != nil {
		p.release(logger, dir)
		if p.config.IgnoreMountErrors {
			logger.WithError(err).Warn("mount failed, skipping")
			result.Skipped = append(result.Skipped, SkippedMount{Device: device, Error: err.Error()})
			return nil
		}
		return opError(OpMount, device, err)
	}

	dest, err := p.archiver.Archive(ctx, mounted.MountDir, stem)
	if err != nil {
		return opError(OpArchive, device, err)
	}
	result.Archives = append(result.Archives, ArchiveRecord{
		Snapshot:    snap.FullName(),
		Device:      mounted.Device,
		Partition:   mounted.Index,
		Destination: dest,
	})

	if err := p.mounter.Unmount(dir); err != nil {
		return opError(OpMount, device, err)
	}
	p.release(logger, dir)
	return nil
}

// release removes an unmounted mount directory and forgets it
func (p *PartitionMounter) release(logger *logrus.Entry, dir string) {
	if err := p.fs.Remove(dir); err != nil {
		logger.WithError(err).Warn("failed to remove mount directory")
	}
	p.tracker.ClearMount()
}

// logDiagnostics logs the parent directory and file status of a device
// whose partition table could not be read
func (p *PartitionMounter) logDiagnostics(logger *logrus.Entry, device string) {
	parent := filepath.Dir(device)
	if entries, err := afero.ReadDir(p.fs, parent); err != nil {
		logger.WithError(err).WithField("dir", parent).Error("cannot list device directory")
	} else {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		logger.WithFields(logrus.Fields{"dir": parent, "entries": names}).Error("device directory")
	}

	if info, err := p.fs.Stat(device); err != nil {
		logger.WithError(err).Error("cannot stat device")
	} else {
		logger.WithFields(logrus.Fields{
			"mode": info.Mode().String(),
			"size": info.Size(),
		}).Error("device status")
	}
}
