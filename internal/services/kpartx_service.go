package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/deploymenttheory/go-lvmsnap/internal/interfaces"
	"github.com/deploymenttheory/go-lvmsnap/internal/parsers/partitions"
	"github.com/deploymenttheory/go-lvmsnap/internal/types"
)

// KpartxService maps partitions of a block device through kpartx
type KpartxService struct {
	runner interfaces.CommandRunner
	logger *logrus.Entry
}

// Ensure interface compliance
var _ interfaces.PartitionMapper = (*KpartxService)(nil)

// NewKpartxService creates a new KpartxService
func NewKpartxService(runner interfaces.CommandRunner, logger *logrus.Entry) *KpartxService {
	return &KpartxService{runner: runner, logger: logger}
}

// ListPartitions returns the partition table of device without mapping it
func (k *KpartxService) ListPartitions(ctx context.Context, device string) ([]types.Partition, error) {
	out, err := k.runner.Run(ctx, "kpartx", "-l", device)
	if err != nil {
		return nil, fmt.Errorf("failed to read partition table of %s: %w", device, err)
	}
	parts, err := partitions.ParseKpartxList(out)
	if err != nil {
		return nil, fmt.Errorf("failed to read partition table of %s: %w", device, err)
	}
	k.logger.WithFields(logrus.Fields{
		"device":     device,
		"partitions": len(parts),
	}).Debug("read partition table")
	return parts, nil
}

// AddMappings maps every partition of device at once and waits for the
// device nodes to appear
func (k *KpartxService) AddMappings(ctx context.Context, device string, readWrite bool) error {
	args := []string{"-a", "-s"}
	if !readWrite {
		args = append(args, "-r")
	}
	args = append(args, device)

	if _, err := k.runner.Run(ctx, "kpartx", args...); err != nil {
		return fmt.Errorf("failed to map partitions of %s: %w", device, err)
	}
	return nil
}

// RemoveMappings drops every partition mapping of device
func (k *KpartxService) RemoveMappings(ctx context.Context, device string) error {
	if _, err := k.runner.Run(ctx, "kpartx", "-d", device); err != nil {
		return fmt.Errorf("failed to remove partition mappings of %s: %w", device, err)
	}
	return nil
}
