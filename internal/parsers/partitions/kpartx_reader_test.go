package partitions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-lvmsnap/internal/types"
)

func TestParseKpartxList(t *testing.T) {
	output := "vg0-bak_snap_data1 : 0 204800 /dev/vg0/bak_snap_data 2048\n" +
		"vg0-bak_snap_data2 : 0 1843200 /dev/vg0/bak_snap_data 206848\n"

	partitions, err := ParseKpartxList([]byte(output))
	require.NoError(t, err)
	require.Len(t, partitions, 2)

	assert.Equal(t, types.Partition{
		Name:   "vg0-bak_snap_data1",
		Path:   "/dev/mapper/vg0-bak_snap_data1",
		Index:  1,
		Start:  2048,
		Length: 204800,
	}, partitions[0])
	assert.Equal(t, 2, partitions[1].Index)
	assert.Equal(t, uint64(206848), partitions[1].Start)
}

func TestParseKpartxList_NoPartitions(t *testing.T) {
	partitions, err := ParseKpartxList([]byte("\n"))
	require.NoError(t, err)
	assert.Empty(t, partitions)
}

func TestParseKpartxList_SkipsDiagnostics(t *testing.T) {
	output := "GPT:Primary header thinks Alt. header is not at the end of the disk.\n" +
		"loop0p1 : 0 2048 /dev/loop0 2048\n"

	partitions, err := ParseKpartxList([]byte(output))
	require.NoError(t, err)
	require.Len(t, partitions, 1)
	assert.Equal(t, "/dev/mapper/loop0p1", partitions[0].Path)
}

func TestParseKpartxList_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		output string
	}{
		{name: "no separator", output: "garbage line\n"},
		{name: "too few fields", output: "p1 : 0 2048\n"},
		{name: "bad length", output: "p1 : 0 big /dev/x 2048\n"},
		{name: "bad start", output: "p1 : 0 2048 /dev/x start\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseKpartxList([]byte(tt.output))
			assert.Error(t, err)
		})
	}
}
