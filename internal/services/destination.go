package services

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/afero"
)

// Destination derives archive name stems from the configured prefix. A
// prefix ending in a separator names a directory, anything else is a
// filename stem that the group and volume names are appended to.
type Destination struct {
	fs     afero.Fs
	prefix string
}

// NewDestination creates a Destination for prefix
func NewDestination(fs afero.Fs, prefix string) *Destination {
	return &Destination{fs: fs, prefix: prefix}
}

// Prefix returns the configured prefix
func (d *Destination) Prefix() string {
	return d.prefix
}

// IsDirectory reports whether the prefix names a directory
func (d *Destination) IsDirectory() bool {
	return strings.HasSuffix(d.prefix, string(os.PathSeparator))
}

// Prepare creates the destination directory when the prefix names one
func (d *Destination) Prepare() error {
	if !d.IsDirectory() {
		return nil
	}
	if err := d.fs.MkdirAll(d.prefix, 0o755); err != nil {
		return fmt.Errorf("failed to create destination directory %s: %w", d.prefix, err)
	}
	return nil
}

// Stem returns the name stem for a volume. index is the 1-based partition
// number, or 0 for a whole-volume mount.
func (d *Destination) Stem(group, volume string, index int) string {
	stem := d.prefix + group + "-" + volume
	if index > 0 {
		stem += "-" + strconv.Itoa(index)
	}
	return stem
}
