package interfaces

import (
	"context"

	"github.com/deploymenttheory/go-lvmsnap/internal/types"
)

// VolumeAttributeReader decodes a logical volume attribute code
type VolumeAttributeReader interface {
	// Code returns the raw attribute code
	Code() string

	// VolumeType returns the decoded volume type (position 0)
	VolumeType() string

	// Permissions returns the decoded permissions (position 1)
	Permissions() string

	// AllocationPolicy returns the decoded allocation policy (position 2)
	AllocationPolicy() string

	// FixedMinor returns the decoded fixed minor flag (position 3)
	FixedMinor() string

	// State returns the decoded activation state (position 4)
	State() string

	// DeviceOpen returns the decoded open/device state (position 5)
	DeviceOpen() string

	// TargetType returns the decoded target type (position 6)
	TargetType() string

	// ZeroOnAllocate returns the decoded zero-on-allocate flag (position 7)
	ZeroOnAllocate() string

	// Health returns the decoded volume health (position 8)
	Health() string

	// SkipActivation returns the decoded skip activation flag (position 9)
	SkipActivation() string

	// Descriptions returns all ten decoded values in position order
	Descriptions() []string

	// Warnings returns one message per position holding an unknown character
	Warnings() []string

	IsCopyOnWrite() bool
	IsLocked() bool
	IsPvmove() bool
	IsCacheType() bool
	IsAnyCacheTarget() bool
	IsMirrorTargetOrPvmove() bool
	IsMirror() bool
	IsMergingOrigin() bool
	IsThinVolume() bool
	IsThinType() bool
	IsMetadata() bool
	IsRaidTarget() bool
	IsRaid() bool
}

// VolumeManager queries and changes logical volumes through the volume manager
type VolumeManager interface {
	// ListLogicalVolumes returns every logical volume in report order
	ListLogicalVolumes(ctx context.Context) ([]types.LogicalVolume, error)

	// ListVolumeGroups returns every volume group in report order
	ListVolumeGroups(ctx context.Context) ([]types.VolumeGroup, error)

	// CreateSnapshot creates a snapshot named name of the origin volume.
	// Thin snapshots are created without an explicit size.
	CreateSnapshot(ctx context.Context, origin types.LogicalVolume, name string, thin bool) (types.Snapshot, error)

	// RemoveLogicalVolume removes group/name
	RemoveLogicalVolume(ctx context.Context, group, name string) error
}
