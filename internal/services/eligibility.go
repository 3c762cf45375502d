package services

import (
	"github.com/deploymenttheory/go-lvmsnap/internal/interfaces"
)

// EligibilityRule rejects a volume for Reason when Matches returns true
type EligibilityRule struct {
	Reason  string
	Matches func(attrs interfaces.VolumeAttributeReader) bool
}

// EligibilityRules are evaluated in order; the first match decides.
var EligibilityRules = []EligibilityRule{
	{
		Reason:  "snapshots",
		Matches: interfaces.VolumeAttributeReader.IsCopyOnWrite,
	},
	{
		Reason:  "locked volumes",
		Matches: interfaces.VolumeAttributeReader.IsLocked,
	},
	{
		Reason:  "pvmoved volumes",
		Matches: interfaces.VolumeAttributeReader.IsPvmove,
	},
	{
		Reason:  "origin that has a merging snapshot",
		Matches: interfaces.VolumeAttributeReader.IsMergingOrigin,
	},
	{
		// snapshots of cache volumes are possible but not yet trusted here
		Reason:  "cache",
		Matches: interfaces.VolumeAttributeReader.IsAnyCacheTarget,
	},
	{
		Reason: "thin pool type volumes",
		Matches: func(a interfaces.VolumeAttributeReader) bool {
			return a.IsThinType() && !a.IsThinVolume()
		},
	},
	{
		Reason:  "mirror subvolumes or mirrors",
		Matches: interfaces.VolumeAttributeReader.IsMirrorTargetOrPvmove,
	},
	{
		Reason: "raid subvolumes",
		Matches: func(a interfaces.VolumeAttributeReader) bool {
			return a.IsRaidTarget() && !a.IsRaid()
		},
	},
}

// CheckEligibility returns whether a snapshot may be taken of a volume with
// the given attributes, and the rejection reason when it may not.
func CheckEligibility(attrs interfaces.VolumeAttributeReader) (bool, string) {
	for _, rule := range EligibilityRules {
		if rule.Matches(attrs) {
			return false, rule.Reason
		}
	}
	return true, ""
}
