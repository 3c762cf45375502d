package services

import (
	"fmt"
	"sync"

	"github.com/deploymenttheory/go-lvmsnap/internal/types"
)

// ResourceTracker records every external resource held by the run: the live
// mount directory, active partition mappings and created snapshots. Entries
// are appended when acquired and drained by the CleanupController.
type ResourceTracker struct {
	mu        sync.Mutex
	mountDir  string
	mappings  []string
	snapshots []types.Snapshot
}

// NewResourceTracker creates an empty ResourceTracker
func NewResourceTracker() *ResourceTracker {
	return &ResourceTracker{}
}

// RegisterMount records dir as the live mount. Only one mount may be live.
func (t *ResourceTracker) RegisterMount(dir string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.mountDir != "" {
		return fmt.Errorf("%w: %s", ErrMountBusy, t.mountDir)
	}
	t.mountDir = dir
	return nil
}

// ClearMount forgets the live mount
func (t *ResourceTracker) ClearMount() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.mountDir = ""
}

// MountDir returns the live mount directory, or "" when nothing is mounted
func (t *ResourceTracker) MountDir() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.mountDir
}

// RegisterMapping records device as having active partition mappings
func (t *ResourceTracker) RegisterMapping(device string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.mappings = append(t.mappings, device)
}

// RemoveMapping forgets the mappings of a single device once they were
// released outside of cleanup
func (t *ResourceTracker) RemoveMapping(device string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, d := range t.mappings {
		if d == device {
			t.mappings = append(t.mappings[:i], t.mappings[i+1:]...)
			return
		}
	}
}

// ClearMappings forgets every mapping
func (t *ResourceTracker) ClearMappings() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.mappings = nil
}

// Mappings returns the mapped devices in registration order
func (t *ResourceTracker) Mappings() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.mappings))
	copy(out, t.mappings)
	return out
}

// RegisterSnapshot records a snapshot created by this run
func (t *ResourceTracker) RegisterSnapshot(snapshot types.Snapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snapshots = append(t.snapshots, snapshot)
}

// ClearSnapshots forgets every snapshot
func (t *ResourceTracker) ClearSnapshots() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snapshots = nil
}

// Snapshots returns the held snapshots in creation order
func (t *ResourceTracker) Snapshots() []types.Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]types.Snapshot, len(t.snapshots))
	copy(out, t.snapshots)
	return out
}

// Empty reports whether nothing is held
func (t *ResourceTracker) Empty() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.mountDir == "" && len(t.mappings) == 0 && len(t.snapshots) == 0
}
