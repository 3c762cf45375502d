package list

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/deploymenttheory/go-lvmsnap/internal/types"
)

func sampleResponse() *Response {
	return &Response{
		Volumes: []VolumeInfo{
			{
				LogicalVolume: types.LogicalVolume{Name: "data", Group: "vg0", Path: "/dev/vg0/data", Size: 10 << 30, Attr: "-wi-ao----", SegType: "linear"},
				Eligible:      true,
				Attributes:    []AttributeField{{Name: "volume type", Value: "normal"}},
			},
			{
				LogicalVolume: types.LogicalVolume{Name: "pool0", Group: "vg0", Size: 50 << 30, Attr: "twi-aotz--", SegType: "thin-pool"},
				Reason:        "thin pool type volumes",
			},
			{
				LogicalVolume: types.LogicalVolume{Name: "bak_snap_home", Group: "vg0", Size: 1 << 30, Attr: "swi-a-s---", Origin: "home"},
				Stale:         true,
			},
		},
		Groups: []types.VolumeGroup{{Name: "vg0", Size: 100 << 30, Free: 20 << 30}},
	}
}

func TestFormatOutput_Table(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, FormatOutput(&buf, sampleResponse(), "table"))

	out := buf.String()
	assert.Contains(t, out, "vg0/data")
	assert.Contains(t, out, "10GiB")
	assert.Contains(t, out, "skip: thin pool type volumes")
	assert.Contains(t, out, "stale snapshot")
	assert.Contains(t, out, "volume type:")
	assert.Contains(t, out, "20GiB")
	assert.Contains(t, out, "3 volume(s), 1 eligible for backup, 1 stale snapshot(s)")
}

func TestFormatOutput_TableEmpty(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, FormatOutput(&buf, &Response{}, "table"))

	assert.Equal(t, "No logical volumes found\n", buf.String())
}

func TestFormatOutput_JSON(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, FormatOutput(&buf, sampleResponse(), "json"))

	var decoded struct {
		Volumes []map[string]any `json:"volumes"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded.Volumes, 3)
	assert.Equal(t, "vg0", decoded.Volumes[0]["group"])
	assert.Equal(t, true, decoded.Volumes[0]["eligible"])
	assert.Equal(t, "thin pool type volumes", decoded.Volumes[1]["reason"])
}

func TestFormatOutput_YAML(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, FormatOutput(&buf, sampleResponse(), "yaml"))

	var decoded struct {
		Volumes []map[string]any `yaml:"volumes"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "data", decoded.Volumes[0]["name"])
	assert.Equal(t, "home", decoded.Volumes[2]["origin"])
}

func TestFormatOutput_Unsupported(t *testing.T) {
	assert.Error(t, FormatOutput(&bytes.Buffer{}, sampleResponse(), "csv"))
}
