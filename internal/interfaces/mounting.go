// File: internal/interfaces/mounting.go
package interfaces

import "context"

// Mounter mounts and unmounts block devices
type Mounter interface {
	// Mount mounts device on dir
	Mount(device, dir string, options MountOptions) error

	// Unmount unmounts dir
	Unmount(dir string) error

	// IsMounted reports whether dir is a mount point
	IsMounted(dir string) (bool, error)
}

// MountOptions contains options for mounting a snapshot filesystem
type MountOptions struct {
	// Whether to mount in read-only mode
	ReadOnly bool

	// Extra options passed through with -o
	Extra []string
}

// Archiver copies a mounted tree to a destination
type Archiver interface {
	// Name returns the backend name
	Name() string

	// Tool returns the host tool the backend drives
	Tool() string

	// Destination returns the final destination path for a name stem
	Destination(stem string) string

	// Archive copies sourceDir to the destination derived from stem and
	// returns that destination
	Archive(ctx context.Context, sourceDir, stem string) (string, error)
}
