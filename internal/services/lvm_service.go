package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/deploymenttheory/go-lvmsnap/internal/interfaces"
	"github.com/deploymenttheory/go-lvmsnap/internal/parsers/volumes"
	"github.com/deploymenttheory/go-lvmsnap/internal/types"
)

var (
	// ErrNotFound is returned when the volume or group does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInUse is returned when the volume is open or mounted.
	ErrInUse = errors.New("in use")

	// ErrAlreadyExists is returned when a volume with the same name exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrResourceExhausted is returned when the group has no free space left.
	ErrResourceExhausted = errors.New("resource exhausted")
)

// SnapshotExtents is the share of the group's free space given to a
// non-thin snapshot
const SnapshotExtents = "50%FREE"

// LVMService talks to the volume manager through its command line tools
type LVMService struct {
	runner interfaces.CommandRunner
	logger *logrus.Entry
	devDir string
}

// Ensure interface compliance
var _ interfaces.VolumeManager = (*LVMService)(nil)

// NewLVMService creates a new LVMService
func NewLVMService(runner interfaces.CommandRunner, logger *logrus.Entry) *LVMService {
	return &LVMService{
		runner: runner,
		logger: logger,
		devDir: "/dev",
	}
}

// ListLogicalVolumes returns every logical volume in the order the volume
// manager reports them. Any failure fails the whole enumeration.
func (s *LVMService) ListLogicalVolumes(ctx context.Context) ([]types.LogicalVolume, error) {
	out, err := s.runner.Run(ctx, "lvs",
		"--reportformat", "json",
		"--units", "b",
		"--nosuffix",
		"--options", strings.Join(volumes.LVReportColumns, ","),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list logical volumes: %w", getErrorType(err))
	}

	lvs, err := volumes.ParseLVReport(out)
	if err != nil {
		return nil, err
	}

	s.logger.WithField("count", len(lvs)).Debug("enumerated logical volumes")
	return lvs, nil
}

// ListVolumeGroups returns every volume group in report order
func (s *LVMService) ListVolumeGroups(ctx context.Context) ([]types.VolumeGroup, error) {
	out, err := s.runner.Run(ctx, "vgs",
		"--reportformat", "json",
		"--units", "b",
		"--nosuffix",
		"--options", strings.Join(volumes.VGReportColumns, ","),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list volume groups: %w", getErrorType(err))
	}
	return volumes.ParseVGReport(out)
}

// CreateSnapshot creates name as a snapshot of origin. Thin snapshots
// inherit the pool's allocation; all others get half of the group's free
// space.
func (s *LVMService) CreateSnapshot(ctx context.Context, origin types.LogicalVolume, name string, thin bool) (types.Snapshot, error) {
	args := []string{"--snapshot", "--name", name}
	if thin {
		// thin snapshots are flagged to skip activation by default
		args = append(args, "--setactivationskip", "n")
	} else {
		args = append(args, "--extents", SnapshotExtents)
	}
	args = append(args, origin.FullName())

	s.logger.WithFields(logrus.Fields{
		"origin":   origin.FullName(),
		"snapshot": name,
		"thin":     thin,
	}).Info("creating snapshot")

	if _, err := s.runner.Run(ctx, "lvcreate", args...); err != nil {
		return types.Snapshot{}, fmt.Errorf("failed to create snapshot %s/%s: %w", origin.Group, name, getErrorType(err))
	}

	return types.Snapshot{
		Name:   name,
		Group:  origin.Group,
		Path:   s.DevicePath(origin.Group, name),
		Origin: origin.Name,
	}, nil
}

// RemoveLogicalVolume removes group/name without prompting
func (s *LVMService) RemoveLogicalVolume(ctx context.Context, group, name string) error {
	s.logger.WithField("volume", group+"/"+name).Info("removing logical volume")

	if _, err := s.runner.Run(ctx, "lvremove", "--force", group+"/"+name); err != nil {
		return fmt.Errorf("failed to remove %s/%s: %w", group, name, getErrorType(err))
	}
	return nil
}

// DevicePath returns the device node of group/name
func (s *LVMService) DevicePath(group, name string) string {
	return filepath.Join(s.devDir, group, name)
}

// getErrorType determines the error type based on the error message.
// The volume manager's messages are not stable enough to match exactly.
func getErrorType(err error) error {
	switch {
	case containsIgnoreCase(err.Error(), "failed to find"),
		containsIgnoreCase(err.Error(), "not found"):
		return fmt.Errorf("%w: %s", ErrNotFound, err.Error())
	case containsIgnoreCase(err.Error(), "in use"),
		containsIgnoreCase(err.Error(), "is open"):
		return fmt.Errorf("%w: %s", ErrInUse, err.Error())
	case containsIgnoreCase(err.Error(), "already exists"):
		return fmt.Errorf("%w: %s", ErrAlreadyExists, err.Error())
	case containsIgnoreCase(err.Error(), "insufficient free space"):
		return fmt.Errorf("%w: %s", ErrResourceExhausted, err.Error())
	default:
		return err
	}
}

// containsIgnoreCase checks if a string contains a substring ignoring case.
func containsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
