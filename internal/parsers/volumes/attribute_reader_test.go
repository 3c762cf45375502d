package volumes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-lvmsnap/internal/interfaces"
)

func predicates(r interfaces.VolumeAttributeReader) map[string]bool {
	return map[string]bool{
		"IsCopyOnWrite":          r.IsCopyOnWrite(),
		"IsLocked":               r.IsLocked(),
		"IsPvmove":               r.IsPvmove(),
		"IsCacheType":            r.IsCacheType(),
		"IsAnyCacheTarget":       r.IsAnyCacheTarget(),
		"IsMirrorTargetOrPvmove": r.IsMirrorTargetOrPvmove(),
		"IsMirror":               r.IsMirror(),
		"IsMergingOrigin":        r.IsMergingOrigin(),
		"IsThinVolume":           r.IsThinVolume(),
		"IsThinType":             r.IsThinType(),
		"IsMetadata":             r.IsMetadata(),
		"IsRaidTarget":           r.IsRaidTarget(),
		"IsRaid":                 r.IsRaid(),
	}
}

func TestAttributeReader_Predicates(t *testing.T) {
	tests := []struct {
		name string
		code string
		set  []string
	}{
		{name: "normal linear volume", code: "-wi-a-----"},
		{name: "snapshot", code: "swi-a-s---", set: []string{"IsCopyOnWrite"}},
		{name: "merging snapshot", code: "Swi-a-s---", set: []string{"IsCopyOnWrite"}},
		{name: "locked allocation", code: "-wI-a-----", set: []string{"IsLocked"}},
		{name: "pvmove", code: "p-C-aom---", set: []string{"IsPvmove", "IsLocked", "IsMirrorTargetOrPvmove"}},
		{name: "cache volume", code: "Cwi-a-C---", set: []string{"IsCacheType", "IsAnyCacheTarget"}},
		{name: "mirror", code: "mwi-a-m---", set: []string{"IsMirror", "IsMirrorTargetOrPvmove"}},
		{name: "mirror without sync", code: "Mwi-a-m---", set: []string{"IsMirror", "IsMirrorTargetOrPvmove"}},
		{name: "origin with merging snapshot", code: "Owi-a-s---", set: []string{"IsMergingOrigin"}},
		{name: "thin pool", code: "twi-aotz--", set: []string{"IsThinType"}},
		{name: "thin volume", code: "Vwi-a-tz--", set: []string{"IsThinVolume", "IsThinType"}},
		{name: "pool metadata", code: "ewi-ao----", set: []string{"IsMetadata"}},
		{name: "raid", code: "rwi-a-r---", set: []string{"IsRaid", "IsRaidTarget"}},
		{name: "raid without sync", code: "Rwi-a-r---", set: []string{"IsRaid", "IsRaidTarget"}},
		{name: "raid image", code: "iwi-aor---", set: []string{"IsRaidTarget"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := predicates(NewAttributeReader(tt.code))
			want := map[string]bool{}
			for name := range got {
				want[name] = false
			}
			for _, name := range tt.set {
				want[name] = true
			}
			assert.Equal(t, want, got)
		})
	}
}

func TestAttributeReader_Descriptions(t *testing.T) {
	r := NewAttributeReader("-wi-a-----")

	assert.Equal(t, []string{
		"normal",
		"writable",
		"inherited",
		"dynamic minor",
		"active",
		"closed",
		"normal",
		"not zeroed",
		"ok",
		"activate",
	}, r.Descriptions())
	assert.Empty(t, r.Warnings())
	assert.Equal(t, "-wi-a-----", r.Code())
}

func TestAttributeReader_ThinPoolFields(t *testing.T) {
	r := NewAttributeReader("twi-aotz--")

	assert.Equal(t, "thin pool", r.VolumeType())
	assert.Equal(t, "writable", r.Permissions())
	assert.Equal(t, "inherited", r.AllocationPolicy())
	assert.Equal(t, "dynamic minor", r.FixedMinor())
	assert.Equal(t, "active", r.State())
	assert.Equal(t, "open", r.DeviceOpen())
	assert.Equal(t, "thin", r.TargetType())
	assert.Equal(t, "zeroed", r.ZeroOnAllocate())
	assert.Equal(t, "ok", r.Health())
	assert.Equal(t, "activate", r.SkipActivation())
}

func TestAttributeReader_UnknownCharacters(t *testing.T) {
	r := NewAttributeReader("qwi-a-s-?k")

	assert.Equal(t, "Unknown 1st attribute: q", r.VolumeType())
	assert.Equal(t, "Unknown 9th attribute: ?", r.Health())
	assert.Equal(t, "skip activation", r.SkipActivation())

	warnings := r.Warnings()
	require.Len(t, warnings, 2)
	assert.Contains(t, warnings[0], "volume type")
	assert.Contains(t, warnings[1], "health")

	// predicates on unknown characters fall back to false
	assert.False(t, r.IsCopyOnWrite())
	assert.False(t, r.IsThinVolume())
}

func TestAttributeReader_ShortCode(t *testing.T) {
	r := NewAttributeReader("-wi-a-")

	descriptions := r.Descriptions()
	require.Len(t, descriptions, 10)
	assert.Equal(t, "active", descriptions[4])
	assert.Equal(t, `Unknown 7th attribute: ""`, descriptions[6])
	assert.Equal(t, `Unknown 10th attribute: ""`, descriptions[9])

	// length warning plus positions 7 to 10
	assert.Len(t, r.Warnings(), 5)
	assert.False(t, r.IsThinType())
	assert.False(t, r.IsRaidTarget())
}

func TestAttributeReader_EveryPositionDecodes(t *testing.T) {
	alphabet := "-abcdeghiklmnoprstuvwzACDEFIMORSTVWX?"
	for pos := 0; pos < 10; pos++ {
		for i := 0; i < len(alphabet); i++ {
			code := []byte("----------")
			code[pos] = alphabet[i]
			r := NewAttributeReader(string(code))
			descriptions := r.Descriptions()
			require.Len(t, descriptions, 10)
			for _, d := range descriptions {
				assert.NotEmpty(t, d)
			}
			assert.LessOrEqual(t, len(r.Warnings()), 1)
		}
	}
}

func TestOrdinal(t *testing.T) {
	assert.Equal(t, "1st", ordinal(1))
	assert.Equal(t, "2nd", ordinal(2))
	assert.Equal(t, "3rd", ordinal(3))
	assert.Equal(t, "4th", ordinal(4))
	assert.Equal(t, "10th", ordinal(10))
	assert.Equal(t, "11th", ordinal(11))
	assert.Equal(t, "22nd", ordinal(22))
}
