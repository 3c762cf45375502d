package backup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-lvmsnap/internal/services"
	"github.com/deploymenttheory/go-lvmsnap/pkg/app"
)

func TestRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(r *Request)
		wantErr bool
	}{
		{name: "defaults", modify: func(r *Request) {}},
		{name: "exclusions", modify: func(r *Request) { r.Exclude = []string{"vg0/swap", " vg1/scratch "} }},
		{name: "rsync", modify: func(r *Request) { r.Backend = "rsync"; r.Compression = "" }},
		{name: "zstd", modify: func(r *Request) { r.Compression = "zst" }},
		{name: "mount options", modify: func(r *Request) { r.MountOptions = []string{"noload", "nouuid"} }},
		{name: "empty prefix", modify: func(r *Request) { r.SnapshotPrefix = "" }, wantErr: true},
		{name: "prefix with slash", modify: func(r *Request) { r.SnapshotPrefix = "vg0/snap" }, wantErr: true},
		{name: "exclusion without group", modify: func(r *Request) { r.Exclude = []string{"swap"} }, wantErr: true},
		{name: "exclusion with empty name", modify: func(r *Request) { r.Exclude = []string{"vg0/"} }, wantErr: true},
		{name: "empty destination", modify: func(r *Request) { r.Destination = "" }, wantErr: true},
		{name: "unknown backend", modify: func(r *Request) { r.Backend = "dd" }, wantErr: true},
		{name: "unknown compression", modify: func(r *Request) { r.Compression = "lzo" }, wantErr: true},
		{name: "joined mount options", modify: func(r *Request) { r.MountOptions = []string{"noload,nouuid"} }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := NewRequest()
			tt.modify(req)

			err := req.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, app.ErrCodeConfiguration, app.ErrorCode(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestRequest_Exclusions(t *testing.T) {
	req := NewRequest()
	req.Exclude = []string{"vg0/swap", "vg1/scratch"}

	exclusions, err := req.Exclusions()

	require.NoError(t, err)
	assert.Equal(t, []services.Exclusion{
		{Group: "vg0", Name: "swap"},
		{Group: "vg1", Name: "scratch"},
	}, exclusions)
}
