package backup

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/deploymenttheory/go-lvmsnap/internal/services"
	"github.com/deploymenttheory/go-lvmsnap/internal/types"
)

func sampleResponse() *Response {
	return &Response{
		RunID:    "3f1c9a2e-0000-4000-8000-000000000000",
		Backend:  "tar",
		Duration: 1500 * time.Millisecond,
		Snapshot: &services.SnapshotResult{
			StaleRemoved: []string{"vg0/bak_snap_old"},
			Created: []types.Snapshot{
				{Name: "bak_snap_data", Group: "vg0", Path: "/dev/vg0/bak_snap_data", Origin: "data"},
			},
			Rejected: []services.Rejection{{Volume: "vg0/pool0", Reason: "thin pool type volumes"}},
			Excluded: []string{"vg0/swap"},
		},
		Archives: []services.ArchiveRecord{
			{Snapshot: "vg0/bak_snap_data", Device: "/dev/mapper/vg0-bak_snap_data1", Partition: 1, Destination: "./vg0-data-1.tar.bz2"},
		},
		Cleanup: &services.CleanupReport{SnapshotsRemoved: []string{"vg0/bak_snap_data"}},
	}
}

func TestFormatOutput_Table(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, FormatOutput(&buf, sampleResponse(), "table"))

	out := buf.String()
	assert.Contains(t, out, "Removed 1 stale snapshot(s)")
	assert.Contains(t, out, "vg0/pool0")
	assert.Contains(t, out, "thin pool type volumes")
	assert.Contains(t, out, "vg0/swap")
	assert.Contains(t, out, "./vg0-data-1.tar.bz2")
	assert.Contains(t, out, "Backed up 1 filesystem(s) from 1 snapshot(s) in 1.5s")
}

func TestFormatOutput_TableDryRun(t *testing.T) {
	var buf bytes.Buffer
	resp := &Response{
		DryRun:   true,
		Snapshot: &services.SnapshotResult{Planned: []string{"vg0/bak_snap_data"}},
	}

	require.NoError(t, FormatOutput(&buf, resp, "table"))

	assert.Contains(t, buf.String(), "Would snapshot 1 volume(s)")
	assert.NotContains(t, buf.String(), "Backed up")
}

func TestFormatOutput_TableCleanupFailures(t *testing.T) {
	var buf bytes.Buffer
	resp := sampleResponse()
	resp.Cleanup.Failures = []string{"failed to remove vg0/bak_snap_data: in use"}
	resp.Error = "archive failed"

	require.NoError(t, FormatOutput(&buf, resp, "table"))

	assert.Contains(t, buf.String(), "Cleanup left 1 resource(s) behind")
	assert.Contains(t, buf.String(), "before failing")
}

func TestFormatOutput_JSON(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, FormatOutput(&buf, sampleResponse(), "json"))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "tar", decoded["backend"])
	archives := decoded["archives"].([]any)
	assert.Equal(t, "./vg0-data-1.tar.bz2", archives[0].(map[string]any)["destination"])
}

func TestFormatOutput_YAML(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, FormatOutput(&buf, sampleResponse(), "yaml"))

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "3f1c9a2e-0000-4000-8000-000000000000", decoded["run_id"])
}

func TestFormatOutput_Unsupported(t *testing.T) {
	assert.Error(t, FormatOutput(&bytes.Buffer{}, sampleResponse(), "xml"))
}
