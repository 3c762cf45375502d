package backup

import (
	"time"

	"github.com/deploymenttheory/go-lvmsnap/internal/services"
)

// Request represents a backup run
type Request struct {
	// Volumes never snapshotted, as group/name
	Exclude []string

	// Prepended to the origin name of every snapshot
	SnapshotPrefix string

	// Mount behaviour
	IgnoreMountErrors bool
	ReadWrite         bool
	MountOptions      []string
	MountDir          string

	// Destination prefix; a trailing separator names a directory
	Destination string

	// Archive backend and tar compression
	Backend     string
	Compression string
	Overwrite   bool

	// Report what would happen without touching any volume
	DryRun bool
}

// Response summarises a backup run
type Response struct {
	RunID    string                   `json:"run_id" yaml:"run_id"`
	Backend  string                   `json:"backend" yaml:"backend"`
	DryRun   bool                     `json:"dry_run,omitempty" yaml:"dry_run,omitempty"`
	Duration time.Duration            `json:"duration" yaml:"duration"`
	Snapshot *services.SnapshotResult `json:"snapshots,omitempty" yaml:"snapshots,omitempty"`
	Archives []services.ArchiveRecord `json:"archives,omitempty" yaml:"archives,omitempty"`
	Skipped  []services.SkippedMount  `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Cleanup  *services.CleanupReport  `json:"cleanup,omitempty" yaml:"cleanup,omitempty"`
	Error    string                   `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewRequest returns a request carrying the default settings
func NewRequest() *Request {
	return &Request{
		SnapshotPrefix: services.DefaultSnapshotPrefix,
		Destination:    "./",
		Backend:        services.BackendTar,
		Compression:    services.DefaultCompression,
	}
}
