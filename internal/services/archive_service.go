package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/deploymenttheory/go-lvmsnap/internal/interfaces"
)

// ErrDestinationExists is returned when an archive file is already present
// and overwriting was not requested.
var ErrDestinationExists = errors.New("destination exists")

// Backend names
const (
	BackendTar   = "tar"
	BackendRsync = "rsync"
)

// ReservedEntry is never copied out of a mounted filesystem
const ReservedEntry = "lost+found"

// compressionFlags maps an archive extension to the tar option selecting it
var compressionFlags = map[string]string{
	"bz2": "-j",
	"gz":  "-z",
	"xz":  "-J",
	"zst": "--zstd",
}

// DefaultCompression is the archive compression used when none is configured
const DefaultCompression = "bz2"

// Compressions returns the supported compression extensions in sorted order
func Compressions() []string {
	out := make([]string, 0, len(compressionFlags))
	for ext := range compressionFlags {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// Backends returns the supported backend names
func Backends() []string {
	return []string{BackendTar, BackendRsync}
}

// ArchiveConfig holds the settings shared by both archive backends
type ArchiveConfig struct {
	Backend     string
	Compression string
	Overwrite   bool
}

// NewArchiver returns the backend selected by config
func NewArchiver(config ArchiveConfig, runner interfaces.CommandRunner, fs afero.Fs, logger *logrus.Entry) (interfaces.Archiver, error) {
	switch config.Backend {
	case "", BackendTar:
		compression := config.Compression
		if compression == "" {
			compression = DefaultCompression
		}
		if _, ok := compressionFlags[compression]; !ok {
			return nil, fmt.Errorf("unsupported compression %q, expected one of %s",
				compression, strings.Join(Compressions(), ", "))
		}
		return &TarArchiver{
			runner:      runner,
			fs:          fs,
			logger:      logger,
			compression: compression,
			overwrite:   config.Overwrite,
		}, nil
	case BackendRsync:
		return &RsyncArchiver{runner: runner, logger: logger}, nil
	default:
		return nil, fmt.Errorf("unsupported backend %q, expected one of %s",
			config.Backend, strings.Join(Backends(), ", "))
	}
}

// TarArchiver writes one compressed tar file per mounted filesystem
type TarArchiver struct {
	runner      interfaces.CommandRunner
	fs          afero.Fs
	logger      *logrus.Entry
	compression string
	overwrite   bool
}

// Ensure interface compliance
var _ interfaces.Archiver = (*TarArchiver)(nil)

// Name implements interfaces.Archiver
func (a *TarArchiver) Name() string { return BackendTar }

// Tool implements interfaces.Archiver
func (a *TarArchiver) Tool() string { return "tar" }

// Destination implements interfaces.Archiver
func (a *TarArchiver) Destination(stem string) string {
	return stem + ".tar." + a.compression
}

// Archive implements interfaces.Archiver. An existing file is an error
// unless overwrite is set, in which case it is deleted before tar runs.
func (a *TarArchiver) Archive(ctx context.Context, sourceDir, stem string) (string, error) {
	dest := a.Destination(stem)

	exists, err := afero.Exists(a.fs, dest)
	if err != nil {
		return "", fmt.Errorf("failed to check %s: %w", dest, err)
	}
	if exists {
		if !a.overwrite {
			return "", fmt.Errorf("%w: %s", ErrDestinationExists, dest)
		}
		a.logger.WithField("destination", dest).Warn("overwriting existing archive")
		if err := a.fs.Remove(dest); err != nil {
			return "", fmt.Errorf("failed to remove old archive %s: %w", dest, err)
		}
	}

	a.logger.WithFields(logrus.Fields{
		"source":      sourceDir,
		"destination": dest,
	}).Info("archiving")

	_, err = a.runner.Run(ctx, "tar",
		"-C", sourceDir,
		"--exclude=./"+ReservedEntry,
		compressionFlags[a.compression],
		"-cf", dest,
		".",
	)
	if err != nil {
		return "", fmt.Errorf("failed to archive %s to %s: %w", sourceDir, dest, err)
	}
	return dest, nil
}

// RsyncArchiver mirrors each mounted filesystem into a directory
type RsyncArchiver struct {
	runner interfaces.CommandRunner
	logger *logrus.Entry
}

// Ensure interface compliance
var _ interfaces.Archiver = (*RsyncArchiver)(nil)

// Name implements interfaces.Archiver
func (a *RsyncArchiver) Name() string { return BackendRsync }

// Tool implements interfaces.Archiver
func (a *RsyncArchiver) Tool() string { return "rsync" }

// Destination implements interfaces.Archiver
func (a *RsyncArchiver) Destination(stem string) string {
	return stem
}

// Archive implements interfaces.Archiver. Files missing from the source are
// deleted from the mirror.
func (a *RsyncArchiver) Archive(ctx context.Context, sourceDir, stem string) (string, error) {
	dest := a.Destination(stem)

	a.logger.WithFields(logrus.Fields{
		"source":      sourceDir,
		"destination": dest,
	}).Info("mirroring")

	_, err := a.runner.Run(ctx, "rsync",
		"-a",
		"--delete",
		"--exclude=/"+ReservedEntry,
		strings.TrimSuffix(sourceDir, "/")+"/",
		strings.TrimSuffix(dest, "/")+"/",
	)
	if err != nil {
		return "", fmt.Errorf("failed to mirror %s to %s: %w", sourceDir, dest, err)
	}
	return dest, nil
}
