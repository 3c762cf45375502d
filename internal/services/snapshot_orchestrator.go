package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/docker/go-units"
	"github.com/sirupsen/logrus"

	"github.com/deploymenttheory/go-lvmsnap/internal/interfaces"
	"github.com/deploymenttheory/go-lvmsnap/internal/parsers/volumes"
	"github.com/deploymenttheory/go-lvmsnap/internal/types"
)

// DefaultSnapshotPrefix is prepended to the origin name of every snapshot
const DefaultSnapshotPrefix = "bak_snap_"

// ValidateSnapshotPrefix rejects prefixes the volume manager cannot use in
// a volume name
func ValidateSnapshotPrefix(prefix string) error {
	if prefix == "" {
		return errors.New("snapshot prefix must not be empty")
	}
	if strings.ContainsAny(prefix, "/ ") {
		return fmt.Errorf("snapshot prefix %q must not contain '/' or spaces", prefix)
	}
	return nil
}

// Exclusion names a volume that must never be snapshotted
type Exclusion struct {
	Group string
	Name  string
}

// ParseExclusion parses a group/name pair
func ParseExclusion(s string) (Exclusion, error) {
	group, name, ok := strings.Cut(s, "/")
	if !ok || group == "" || name == "" || strings.Contains(name, "/") {
		return Exclusion{}, fmt.Errorf("invalid exclusion %q, expected group/name", s)
	}
	return Exclusion{Group: group, Name: name}, nil
}

func (e Exclusion) String() string {
	return e.Group + "/" + e.Name
}

// SnapshotConfig controls snapshot selection
type SnapshotConfig struct {
	Prefix  string
	Exclude []Exclusion
	DryRun  bool
}

// Rejection records a volume that was not snapshotted and why
type Rejection struct {
	Volume string `json:"volume" yaml:"volume"`
	Reason string `json:"reason" yaml:"reason"`
}

// SnapshotResult summarises both snapshot passes
type SnapshotResult struct {
	StaleRemoved []string         `json:"stale_removed,omitempty" yaml:"stale_removed,omitempty"`
	Created      []types.Snapshot `json:"created,omitempty" yaml:"created,omitempty"`
	Rejected     []Rejection      `json:"rejected,omitempty" yaml:"rejected,omitempty"`
	Excluded     []string         `json:"excluded,omitempty" yaml:"excluded,omitempty"`
	Planned      []string         `json:"planned,omitempty" yaml:"planned,omitempty"`
}

// SnapshotOrchestrator removes snapshots left over from earlier runs and
// creates a fresh snapshot of every eligible volume.
type SnapshotOrchestrator struct {
	volumes interfaces.VolumeManager
	mapper  interfaces.PartitionMapper
	tracker *ResourceTracker
	logger  *logrus.Entry
	config  SnapshotConfig
	free    map[string]uint64
}

// NewSnapshotOrchestrator creates a new SnapshotOrchestrator
func NewSnapshotOrchestrator(
	volumeManager interfaces.VolumeManager,
	mapper interfaces.PartitionMapper,
	tracker *ResourceTracker,
	logger *logrus.Entry,
	config SnapshotConfig,
) *SnapshotOrchestrator {
	if config.Prefix == "" {
		config.Prefix = DefaultSnapshotPrefix
	}
	return &SnapshotOrchestrator{
		volumes: volumeManager,
		mapper:  mapper,
		tracker: tracker,
		logger:  logger,
		config:  config,
	}
}

// Run enumerates the volumes, removes stale snapshots and then creates new
// ones. Created snapshots are registered with the tracker as they appear, so
// a failure part way leaves them for cleanup.
func (o *SnapshotOrchestrator) Run(ctx context.Context) (*SnapshotResult, error) {
	result := &SnapshotResult{}

	lvs, err := o.volumes.ListLogicalVolumes(ctx)
	if err != nil {
		return result, opError(OpEnumerate, "", err)
	}

	removed, err := o.RemoveStale(ctx, lvs, result)
	if err != nil {
		return result, err
	}

	// list again so removed snapshots drop out of the creation pass
	if removed > 0 && !o.config.DryRun {
		if lvs, err = o.volumes.ListLogicalVolumes(ctx); err != nil {
			return result, opError(OpEnumerate, "", err)
		}
	}

	o.loadGroupFree(ctx)

	if err := o.CreateSnapshots(ctx, lvs, result); err != nil {
		return result, err
	}
	return result, nil
}

// IsStale reports whether lv is a snapshot left behind by an earlier run
func (o *SnapshotOrchestrator) IsStale(lv types.LogicalVolume) bool {
	return strings.HasPrefix(lv.Name, o.config.Prefix) ||
		lv.Origin != "" ||
		volumes.NewAttributeReader(lv.Attr).IsCopyOnWrite()
}

// RemoveStale removes every stale snapshot in lvs and returns how many were
// removed. A removal that still fails after dropping mappings is fatal.
func (o *SnapshotOrchestrator) RemoveStale(ctx context.Context, lvs []types.LogicalVolume, result *SnapshotResult) (int, error) {
	removed := 0
	for _, lv := range lvs {
		if !o.IsStale(lv) {
			continue
		}

		logger := o.logger.WithField("volume", lv.FullName())
		if o.config.DryRun {
			logger.Info("would remove stale snapshot")
			result.StaleRemoved = append(result.StaleRemoved, lv.FullName())
			continue
		}

		logger.Info("removing stale snapshot")
		path := lv.Path
		if path == "" {
			path = filepath.Join("/dev", lv.Group, lv.Name)
		}
		snap := types.Snapshot{Name: lv.Name, Group: lv.Group, Path: path, Origin: lv.Origin}
		if err := RemoveSnapshot(ctx, o.volumes, o.mapper, o.logger, snap); err != nil {
			return removed, opError(OpSnapshot, lv.FullName(), err)
		}
		result.StaleRemoved = append(result.StaleRemoved, lv.FullName())
		removed++
	}
	return removed, nil
}

// CreateSnapshots snapshots every eligible volume in lvs. Ineligible volumes
// are logged and skipped; a failed creation is fatal.
func (o *SnapshotOrchestrator) CreateSnapshots(ctx context.Context, lvs []types.LogicalVolume, result *SnapshotResult) error {
	for _, lv := range lvs {
		logger := o.logger.WithField("volume", lv.FullName())

		if o.excluded(lv) {
			logger.Info("volume excluded")
			result.Excluded = append(result.Excluded, lv.FullName())
			continue
		}
		// only reachable in a dry run, the real pass has already removed them
		if o.IsStale(lv) {
			continue
		}

		attrs := volumes.NewAttributeReader(lv.Attr)
		for _, warning := range attrs.Warnings() {
			logger.WithField("attr", lv.Attr).Warn(warning)
		}

		ok, reason := CheckEligibility(attrs)
		if !ok {
			logger.WithField("reason", reason).Warn("cannot snapshot " + reason)
			result.Rejected = append(result.Rejected, Rejection{Volume: lv.FullName(), Reason: reason})
			continue
		}

		name := o.config.Prefix + lv.Name
		if o.config.DryRun {
			logger.WithField("snapshot", name).Info("would create snapshot")
			result.Planned = append(result.Planned, lv.Group+"/"+name)
			continue
		}

		thin := attrs.IsThinType()
		if free, ok := o.free[lv.Group]; ok && !thin {
			logger.WithField("size", units.BytesSize(float64(free/2))).Debug("snapshot takes half of the group free space")
		}

		snap, err := o.volumes.CreateSnapshot(ctx, lv, name, thin)
		if err != nil {
			return opError(OpSnapshot, lv.FullName(), err)
		}
		o.tracker.RegisterSnapshot(snap)
		result.Created = append(result.Created, snap)
	}
	return nil
}

// loadGroupFree reads the free space of every group for logging. The
// volume manager sizes snapshots itself, so a failed report is not fatal.
func (o *SnapshotOrchestrator) loadGroupFree(ctx context.Context) {
	groups, err := o.volumes.ListVolumeGroups(ctx)
	if err != nil {
		o.logger.WithError(err).Debug("volume group report unavailable")
		return
	}
	o.free = make(map[string]uint64, len(groups))
	for _, g := range groups {
		o.free[g.Name] = g.Free
	}
}

func (o *SnapshotOrchestrator) excluded(lv types.LogicalVolume) bool {
	for _, e := range o.config.Exclude {
		if e.Group == lv.Group && e.Name == lv.Name {
			return true
		}
	}
	return false
}
