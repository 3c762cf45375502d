// File: internal/interfaces/block_device.go
package interfaces

import (
	"context"

	"github.com/deploymenttheory/go-lvmsnap/internal/types"
)

// PartitionMapper exposes the partitions inside a block device as
// individually addressable device-mapper nodes
type PartitionMapper interface {
	// ListPartitions returns the partition table of device in table order
	ListPartitions(ctx context.Context, device string) ([]types.Partition, error)

	// AddMappings maps all partitions of device at once
	AddMappings(ctx context.Context, device string, readWrite bool) error

	// RemoveMappings drops every partition mapping of device
	RemoveMappings(ctx context.Context, device string) error
}

// CommandRunner executes host tools
type CommandRunner interface {
	// Run executes name with args and returns its standard output
	Run(ctx context.Context, name string, args ...string) ([]byte, error)

	// LookPath resolves name against PATH
	LookPath(name string) (string, error)
}
