package volumes

import (
	"fmt"

	"github.com/deploymenttheory/go-lvmsnap/internal/interfaces"
	"github.com/deploymenttheory/go-lvmsnap/internal/types"
)

// attributeReader implements the VolumeAttributeReader interface
type attributeReader struct {
	code string
}

// Ensure interface compliance
var _ interfaces.VolumeAttributeReader = (*attributeReader)(nil)

// NewAttributeReader creates a VolumeAttributeReader for a raw lv_attr code.
// It never fails: unknown characters are reported through Warnings.
func NewAttributeReader(code string) interfaces.VolumeAttributeReader {
	return &attributeReader{code: code}
}

// at returns the character at pos, or 0 when the code is too short
func (a *attributeReader) at(pos int) byte {
	if pos < 0 || pos >= len(a.code) {
		return 0
	}
	return a.code[pos]
}

// describe decodes a single position
func (a *attributeReader) describe(pos int) string {
	c := a.at(pos)
	if desc, ok := types.LVAttrDescriptions[pos][c]; ok {
		return desc
	}
	return fmt.Sprintf("Unknown %s attribute: %s", ordinal(pos+1), printable(c))
}

func (a *attributeReader) known(pos int) bool {
	_, ok := types.LVAttrDescriptions[pos][a.at(pos)]
	return ok
}

func (a *attributeReader) Code() string {
	return a.code
}

func (a *attributeReader) VolumeType() string {
	return a.describe(types.LVAttrPosVolumeType)
}

func (a *attributeReader) Permissions() string {
	return a.describe(types.LVAttrPosPermissions)
}

func (a *attributeReader) AllocationPolicy() string {
	return a.describe(types.LVAttrPosAllocationPolicy)
}

func (a *attributeReader) FixedMinor() string {
	return a.describe(types.LVAttrPosFixedMinor)
}

func (a *attributeReader) State() string {
	return a.describe(types.LVAttrPosState)
}

func (a *attributeReader) DeviceOpen() string {
	return a.describe(types.LVAttrPosDeviceOpen)
}

func (a *attributeReader) TargetType() string {
	return a.describe(types.LVAttrPosTargetType)
}

func (a *attributeReader) ZeroOnAllocate() string {
	return a.describe(types.LVAttrPosZero)
}

func (a *attributeReader) Health() string {
	return a.describe(types.LVAttrPosHealth)
}

func (a *attributeReader) SkipActivation() string {
	return a.describe(types.LVAttrPosSkipActivation)
}

// Descriptions returns all ten decoded values in position order
func (a *attributeReader) Descriptions() []string {
	out := make([]string, types.LVAttrLength)
	for pos := range out {
		out[pos] = a.describe(pos)
	}
	return out
}

// Warnings returns one message per position that could not be decoded
func (a *attributeReader) Warnings() []string {
	var warnings []string
	if len(a.code) != types.LVAttrLength {
		warnings = append(warnings, fmt.Sprintf("attribute code %q has %d characters, expected %d", a.code, len(a.code), types.LVAttrLength))
	}
	for pos := 0; pos < types.LVAttrLength; pos++ {
		if !a.known(pos) {
			warnings = append(warnings, fmt.Sprintf("%s: %s", types.LVAttrFieldNames[pos], a.describe(pos)))
		}
	}
	return warnings
}

// Implementation of the classification predicates. Each reads one position.

func (a *attributeReader) IsCopyOnWrite() bool {
	c := a.at(types.LVAttrPosVolumeType)
	return c == types.LVTypeSnapshot || c == types.LVTypeSnapshotMerging
}

func (a *attributeReader) IsLocked() bool {
	switch a.at(types.LVAttrPosAllocationPolicy) {
	case 'A', 'C', 'I', 'L', 'N':
		return true
	default:
		return false
	}
}

func (a *attributeReader) IsPvmove() bool {
	return a.at(types.LVAttrPosVolumeType) == types.LVTypePvmove
}

func (a *attributeReader) IsCacheType() bool {
	return a.at(types.LVAttrPosVolumeType) == types.LVTypeCache
}

func (a *attributeReader) IsAnyCacheTarget() bool {
	return a.at(types.LVAttrPosTargetType) == types.LVTargetCache
}

func (a *attributeReader) IsMirrorTargetOrPvmove() bool {
	return a.at(types.LVAttrPosTargetType) == types.LVTargetMirror
}

func (a *attributeReader) IsMirror() bool {
	c := a.at(types.LVAttrPosVolumeType)
	return c == types.LVTypeMirrored || c == types.LVTypeMirroredNoSync
}

func (a *attributeReader) IsMergingOrigin() bool {
	return a.at(types.LVAttrPosVolumeType) == types.LVTypeOriginMerging
}

func (a *attributeReader) IsThinVolume() bool {
	return a.at(types.LVAttrPosVolumeType) == types.LVTypeThinVolume
}

func (a *attributeReader) IsThinType() bool {
	return a.at(types.LVAttrPosTargetType) == types.LVTargetThin
}

func (a *attributeReader) IsMetadata() bool {
	return a.at(types.LVAttrPosVolumeType) == types.LVTypeMetadata
}

func (a *attributeReader) IsRaidTarget() bool {
	return a.at(types.LVAttrPosTargetType) == types.LVTargetRaid
}

func (a *attributeReader) IsRaid() bool {
	c := a.at(types.LVAttrPosVolumeType)
	return c == types.LVTypeRaid || c == types.LVTypeRaidNoSync
}

// ordinal renders 1 as "1st", 2 as "2nd" and so on
func ordinal(n int) string {
	suffix := "th"
	switch {
	case n%100 >= 11 && n%100 <= 13:
	case n%10 == 1:
		suffix = "st"
	case n%10 == 2:
		suffix = "nd"
	case n%10 == 3:
		suffix = "rd"
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

// printable renders a missing position as an empty quote pair
func printable(c byte) string {
	if c == 0 {
		return `""`
	}
	return string(rune(c))
}
