package types

// LogicalVolume is one row of the volume manager's logical volume report.
// Records are produced fresh on every run and are read-only afterwards.
type LogicalVolume struct {
	// Name of the logical volume
	Name string `json:"name" yaml:"name"`

	// Name of the volume group the volume belongs to
	Group string `json:"group" yaml:"group"`

	// Block device path, e.g. /dev/vg0/data. Blank for internal volumes.
	Path string `json:"path" yaml:"path"`

	// Size in bytes
	Size uint64 `json:"size" yaml:"size"`

	// Raw ten character attribute code (lv_attr)
	Attr string `json:"attr" yaml:"attr"`

	// Origin volume name for snapshots and thin snapshots, empty otherwise
	Origin string `json:"origin,omitempty" yaml:"origin,omitempty"`

	// Segment type, e.g. linear, striped, thin, thin-pool
	SegType string `json:"segtype" yaml:"segtype"`
}

// FullName returns the group/name form used by the volume manager tools.
func (lv LogicalVolume) FullName() string {
	return lv.Group + "/" + lv.Name
}

// VolumeGroup is one row of the volume manager's volume group report.
type VolumeGroup struct {
	Name string `json:"name" yaml:"name"`
	Size uint64 `json:"size" yaml:"size"`
	Free uint64 `json:"free" yaml:"free"`
}

// Snapshot describes a copy-on-write snapshot created by this process.
type Snapshot struct {
	// Snapshot volume name (prefix + origin name)
	Name string `json:"name" yaml:"name"`

	// Owning volume group
	Group string `json:"group" yaml:"group"`

	// Block device path of the snapshot
	Path string `json:"path" yaml:"path"`

	// Name of the volume the snapshot was taken from
	Origin string `json:"origin" yaml:"origin"`
}

// FullName returns the group/name form of the snapshot volume.
func (s Snapshot) FullName() string {
	return s.Group + "/" + s.Name
}

// Partition is one entry of a device's partition table as exposed by the
// device-mapper partition mapping tool.
type Partition struct {
	// Mapped device name, e.g. vg0-bak_snap_data1
	Name string `json:"name" yaml:"name"`

	// Mapped device path, e.g. /dev/mapper/vg0-bak_snap_data1
	Path string `json:"path" yaml:"path"`

	// 1-based position within the partition table
	Index int `json:"index" yaml:"index"`

	// Start sector and length in sectors
	Start  uint64 `json:"start" yaml:"start"`
	Length uint64 `json:"length" yaml:"length"`
}

// MountedPartition exists for the duration of one mount, copy and unmount cycle.
type MountedPartition struct {
	Device   string
	MountDir string
	Index    int
}
