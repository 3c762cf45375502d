package services

import (
	"context"
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-lvmsnap/internal/helpers"
	"github.com/deploymenttheory/go-lvmsnap/internal/interfaces"
	"github.com/deploymenttheory/go-lvmsnap/internal/types"
)

// optionRecorder keeps the options of every mount
type optionRecorder struct {
	*helpers.FakeMounter
	options []interfaces.MountOptions
}

func (r *optionRecorder) Mount(device, dir string, options interfaces.MountOptions) error {
	r.options = append(r.options, options)
	return r.FakeMounter.Mount(device, dir, options)
}

var dataSnapshot = types.Snapshot{
	Name:   "bak_snap_data",
	Group:  "vg0",
	Path:   "/dev/vg0/bak_snap_data",
	Origin: "data",
}

type mounterFixture struct {
	runner  *helpers.FakeRunner
	mounter *helpers.FakeMounter
	fs      afero.Fs
	tracker *ResourceTracker
}

func newMounterFixture() *mounterFixture {
	return &mounterFixture{
		runner:  helpers.NewFakeRunner(),
		mounter: helpers.NewFakeMounter(),
		fs:      afero.NewMemMapFs(),
		tracker: NewResourceTracker(),
	}
}

func (f *mounterFixture) build(t *testing.T, config MountConfig) *PartitionMounter {
	t.Helper()
	logger := testLogger()
	archiver, err := NewArchiver(ArchiveConfig{}, f.runner, f.fs, logger)
	require.NoError(t, err)
	if config.MountDir == "" {
		config.MountDir = "/mnt"
	}
	require.NoError(t, f.fs.MkdirAll(config.MountDir, 0o755))
	return NewPartitionMounter(
		NewKpartxService(f.runner, logger),
		f.mounter,
		archiver,
		f.tracker,
		NewDestination(f.fs, "./"),
		f.fs,
		logger,
		config,
	)
}

func TestPartitionMounter_Partitions(t *testing.T) {
	f := newMounterFixture()
	f.runner.On("kpartx -l", helpers.OK(kpartxList(dataSnapshot.Path, "vg0-bak_snap_data", 2)))
	p := f.build(t, MountConfig{})

	result, err := p.Process(context.Background(), dataSnapshot)

	require.NoError(t, err)
	require.Len(t, result.Archives, 2)
	assert.Equal(t, ArchiveRecord{
		Snapshot:    "vg0/bak_snap_data",
		Device:      "/dev/mapper/vg0-bak_snap_data1",
		Partition:   1,
		Destination: "./vg0-data-1.tar.bz2",
	}, result.Archives[0])
	assert.Equal(t, "./vg0-data-2.tar.bz2", result.Archives[1].Destination)

	calls := f.runner.Calls()
	require.Len(t, calls, 5)
	assert.Equal(t, "kpartx -l /dev/vg0/bak_snap_data", calls[0])
	assert.Equal(t, "kpartx -a -s -r /dev/vg0/bak_snap_data", calls[1])
	assert.Contains(t, calls[2], "-cf ./vg0-data-1.tar.bz2")
	assert.Contains(t, calls[3], "-cf ./vg0-data-2.tar.bz2")
	assert.Equal(t, "kpartx -d /dev/vg0/bak_snap_data", calls[4])

	history := f.mounter.History()
	require.Len(t, history, 4)
	assert.Regexp(t, `^mount ro /dev/mapper/vg0-bak_snap_data1 /mnt/lvmsnap-\d+$`, history[0])
	assert.Regexp(t, `^umount /mnt/lvmsnap-\d+$`, history[1])
	assert.Regexp(t, `^mount ro /dev/mapper/vg0-bak_snap_data2 /mnt/lvmsnap-\d+$`, history[2])

	assert.True(t, f.tracker.Empty(), "mount and mapping are released once the snapshot is done")
	entries, err := afero.ReadDir(f.fs, "/mnt")
	require.NoError(t, err)
	assert.Empty(t, entries, "temporary mount directories are removed")
}

func TestPartitionMounter_ReadWrite(t *testing.T) {
	f := newMounterFixture()
	f.runner.On("kpartx -l", helpers.OK(kpartxList(dataSnapshot.Path, "vg0-bak_snap_data", 1)))
	p := f.build(t, MountConfig{ReadWrite: true})

	_, err := p.Process(context.Background(), dataSnapshot)

	require.NoError(t, err)
	assert.Equal(t, []string{"kpartx -a -s /dev/vg0/bak_snap_data"}, f.runner.CallsWithPrefix("kpartx -a"))
	assert.Regexp(t, `^mount rw `, f.mounter.History()[0])
}

func TestPartitionMounter_WholeDevice(t *testing.T) {
	f := newMounterFixture()
	f.runner.On("kpartx -l", helpers.OK(""))
	p := f.build(t, MountConfig{})

	result, err := p.Process(context.Background(), dataSnapshot)

	require.NoError(t, err)
	require.Len(t, result.Archives, 1)
	assert.Equal(t, "./vg0-data.tar.bz2", result.Archives[0].Destination)
	assert.Zero(t, result.Archives[0].Partition)
	assert.Regexp(t, `^mount ro /dev/vg0/bak_snap_data /mnt/`, f.mounter.History()[0])
	assert.Empty(t, f.runner.CallsWithPrefix("kpartx -a"))
	assert.Empty(t, f.runner.CallsWithPrefix("kpartx -d"))
	assert.True(t, f.tracker.Empty())
}

func TestPartitionMounter_PartitionTableFailure(t *testing.T) {
	f := newMounterFixture()
	f.runner.On("kpartx -l", helpers.Fail("read error, sector 0"))
	p := f.build(t, MountConfig{})

	_, err := p.Process(context.Background(), dataSnapshot)

	var opErr *OperationError
	require.True(t, errors.As(err, &opErr))
	assert.Equal(t, OpPartitionMap, opErr.Op)
	assert.Empty(t, f.mounter.History(), "mapping failure must not fall back to a whole-device mount")
}

func TestPartitionMounter_MappingFailure(t *testing.T) {
	f := newMounterFixture()
	f.runner.
		On("kpartx -l", helpers.OK(kpartxList(dataSnapshot.Path, "vg0-bak_snap_data", 1))).
		On("kpartx -a", helpers.Fail("device-mapper: create ioctl failed: Device or resource busy"))
	p := f.build(t, MountConfig{})

	_, err := p.Process(context.Background(), dataSnapshot)

	var opErr *OperationError
	require.True(t, errors.As(err, &opErr))
	assert.Equal(t, OpPartitionMap, opErr.Op)
	assert.Empty(t, f.mounter.History())
}

func TestPartitionMounter_MountErrors(t *testing.T) {
	mountErr := errors.New("wrong fs type, bad option, bad superblock")

	t.Run("fatal by default", func(t *testing.T) {
		f := newMounterFixture()
		f.runner.On("kpartx -l", helpers.OK(kpartxList(dataSnapshot.Path, "vg0-bak_snap_data", 2)))
		f.mounter.FailMount("/dev/mapper/vg0-bak_snap_data1", mountErr)
		p := f.build(t, MountConfig{})

		_, err := p.Process(context.Background(), dataSnapshot)

		var opErr *OperationError
		require.True(t, errors.As(err, &opErr))
		assert.Equal(t, OpMount, opErr.Op)
		assert.ErrorIs(t, err, mountErr)
		assert.Empty(t, f.runner.CallsWithPrefix("tar"))
		assert.Empty(t, f.tracker.MountDir(), "failed mount directory is released")
		assert.Equal(t, []string{dataSnapshot.Path}, f.tracker.Mappings(), "mapping is left for cleanup")
	})

	t.Run("tolerated", func(t *testing.T) {
		f := newMounterFixture()
		f.runner.On("kpartx -l", helpers.OK(kpartxList(dataSnapshot.Path, "vg0-bak_snap_data", 2)))
		f.mounter.FailMount("/dev/mapper/vg0-bak_snap_data1", mountErr)
		p := f.build(t, MountConfig{IgnoreMountErrors: true})

		result, err := p.Process(context.Background(), dataSnapshot)

		require.NoError(t, err)
		require.Len(t, result.Skipped, 1)
		assert.Equal(t, "/dev/mapper/vg0-bak_snap_data1", result.Skipped[0].Device)
		require.Len(t, result.Archives, 1)
		assert.Equal(t, "./vg0-data-2.tar.bz2", result.Archives[0].Destination)
		assert.True(t, f.tracker.Empty())
	})
}

func TestPartitionMounter_ArchiveFailureLeavesMountForCleanup(t *testing.T) {
	f := newMounterFixture()
	f.runner.
		On("kpartx -l", helpers.OK(kpartxList(dataSnapshot.Path, "vg0-bak_snap_data", 1))).
		On("tar", helpers.Fail("tar: ./: Cannot savedir"))
	p := f.build(t, MountConfig{})

	_, err := p.Process(context.Background(), dataSnapshot)

	var opErr *OperationError
	require.True(t, errors.As(err, &opErr))
	assert.Equal(t, OpArchive, opErr.Op)
	assert.NotEmpty(t, f.tracker.MountDir())
	assert.Equal(t, 1, f.mounter.Mounted())
}

func TestPartitionMounter_ExtraMountOptions(t *testing.T) {
	f := newMounterFixture()
	recorder := &optionRecorder{FakeMounter: f.mounter}
	logger := testLogger()
	archiver, err := NewArchiver(ArchiveConfig{}, f.runner, f.fs, logger)
	require.NoError(t, err)
	p := NewPartitionMounter(
		NewKpartxService(f.runner, logger),
		recorder,
		archiver,
		f.tracker,
		NewDestination(f.fs, "./"),
		f.fs,
		logger,
		MountConfig{Options: []string{"noload", "nouuid"}, MountDir: "/mnt"},
	)

	_, err = p.Process(context.Background(), dataSnapshot)

	require.NoError(t, err)
	require.Len(t, recorder.options, 1)
	assert.True(t, recorder.options[0].ReadOnly)
	assert.Equal(t, []string{"noload", "nouuid"}, recorder.options[0].Extra)
}
