package services

import (
	"fmt"

	"github.com/moby/sys/mountinfo"
	"github.com/sirupsen/logrus"
	mountutils "k8s.io/mount-utils"

	"github.com/deploymenttheory/go-lvmsnap/internal/interfaces"
)

// MountService mounts snapshot filesystems through the host mount binary
type MountService struct {
	mounter mountutils.Interface
	logger  *logrus.Entry
}

// Ensure interface compliance
var _ interfaces.Mounter = (*MountService)(nil)

// NewMountService creates a MountService using the mount binary found on PATH
func NewMountService(logger *logrus.Entry) *MountService {
	return &MountService{
		mounter: mountutils.New(""),
		logger:  logger,
	}
}

// Mount mounts device on dir, letting mount detect the filesystem type
func (m *MountService) Mount(device, dir string, options interfaces.MountOptions) error {
	opts := []string{"rw"}
	if options.ReadOnly {
		opts = []string{"ro"}
	}
	opts = append(opts, options.Extra...)

	logger := m.logger.WithFields(logrus.Fields{
		"device":  device,
		"mount":   dir,
		"options": opts,
	})
	logger.Debug("mounting device")

	if err := m.mounter.Mount(device, dir, "", opts); err != nil {
		logger.WithError(err).Debug("mount failed")
		return fmt.Errorf("failed to mount %s on %s: %w", device, dir, err)
	}
	return nil
}

// Unmount unmounts dir
func (m *MountService) Unmount(dir string) error {
	m.logger.WithField("mount", dir).Debug("unmounting")
	if err := m.mounter.Unmount(dir); err != nil {
		return fmt.Errorf("failed to unmount %s: %w", dir, err)
	}
	return nil
}

// IsMounted reports whether dir is a mount point according to the kernel's
// mount table
func (m *MountService) IsMounted(dir string) (bool, error) {
	mounted, err := mountinfo.Mounted(dir)
	if err != nil {
		return false, fmt.Errorf("failed to check mount state of %s: %w", dir, err)
	}
	return mounted, nil
}
