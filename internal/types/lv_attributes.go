package types

// Logical Volume Attribute Code
// The lv_attr column reported by lvs is a fixed-width string of ten characters.
// Each position has its own alphabet; '-' means the property is not set.
// Reference: lvs(8), "lv_attr bits"

// LVAttrLength is the number of positions in a complete attribute code.
const LVAttrLength = 10

// Attribute positions within the code.
const (
	LVAttrPosVolumeType       = 0
	LVAttrPosPermissions      = 1
	LVAttrPosAllocationPolicy = 2
	LVAttrPosFixedMinor       = 3
	LVAttrPosState            = 4
	LVAttrPosDeviceOpen       = 5
	LVAttrPosTargetType       = 6
	LVAttrPosZero             = 7
	LVAttrPosHealth           = 8
	LVAttrPosSkipActivation   = 9
)

// LVAttrUnset is the character used at any position whose property is not set.
const LVAttrUnset byte = '-'

// Volume type (position 0)
const (
	LVTypeCache           = 'C'
	LVTypeMirrored        = 'm'
	LVTypeMirroredNoSync  = 'M'
	LVTypeOrigin          = 'o'
	LVTypeOriginMerging   = 'O'
	LVTypeRaid            = 'r'
	LVTypeRaidNoSync      = 'R'
	LVTypeSnapshot        = 's'
	LVTypeSnapshotMerging = 'S'
	LVTypePvmove          = 'p'
	LVTypeVirtual         = 'v'
	LVTypeImage           = 'i'
	LVTypeImageOutOfSync  = 'I'
	LVTypeMirrorLog       = 'l'
	LVTypeUnderConversion = 'c'
	LVTypeThinVolume      = 'V'
	LVTypeThinPool        = 't'
	LVTypeThinPoolData    = 'T'
	LVTypeVdoPool         = 'd'
	LVTypeVdoPoolData     = 'D'
	LVTypeMetadata        = 'e'
	LVTypeIntegrity       = 'g'
	LVTypeWritecache      = 'W'
	LVTypeNormal          = LVAttrUnset
)

// Permissions (position 1)
const (
	LVPermWritable           = 'w'
	LVPermReadOnly           = 'r'
	LVPermReadOnlyActivation = 'R'
)

// Allocation policy (position 2). Upper case means the policy is locked
// against allocation changes, for example during pvmove.
const (
	LVAllocAnywhere   = 'a'
	LVAllocContiguous = 'c'
	LVAllocInherited  = 'i'
	LVAllocCling      = 'l'
	LVAllocNormal     = 'n'
)

// Fixed minor (position 3)
const LVFixedMinor = 'm'

// State (position 4)
const (
	LVStateActive                   = 'a'
	LVStateHistorical               = 'h'
	LVStateSuspended                = 's'
	LVStateInvalidSnapshot          = 'I'
	LVStateSuspendedInvalidSnapshot = 'S'
	LVStateMergeFailed              = 'm'
	LVStateSuspendedMergeFailed     = 'M'
	LVStateNoTables                 = 'd'
	LVStateInactiveTable            = 'i'
	LVStateThinPoolCheck            = 'c'
	LVStateSuspendedThinPoolCheck   = 'C'
	LVStateUnknown                  = 'X'
)

// Device open (position 5)
const (
	LVDeviceOpen    = 'o'
	LVDeviceUnknown = 'X'
)

// Target type (position 6)
const (
	LVTargetCache     = 'C'
	LVTargetMirror    = 'm'
	LVTargetRaid      = 'r'
	LVTargetSnapshot  = 's'
	LVTargetThin      = 't'
	LVTargetUnknown   = 'u'
	LVTargetVirtual   = 'v'
	LVTargetVdo       = 'd'
	LVTargetIntegrity = 'g'
)

// Zero on allocate (position 7)
const LVZeroBlocks = 'z'

// Health (position 8)
const (
	LVHealthPartial       = 'p'
	LVHealthRefreshNeeded = 'r'
	LVHealthMismatches    = 'm'
	LVHealthWriteMostly   = 'w'
	LVHealthReshaping     = 's'
	LVHealthRemove        = 'R'
	LVHealthUnknown       = 'X'
	LVHealthError         = 'E'
	LVHealthFailed        = 'F'
	LVHealthOutOfData     = 'D'
	LVHealthMetadataRO    = 'M'
)

// Skip activation (position 9)
const LVSkipActivation = 'k'

// LVAttrFieldNames names the ten decoded fields in position order.
var LVAttrFieldNames = [LVAttrLength]string{
	"volume type",
	"permissions",
	"allocation policy",
	"fixed minor",
	"state",
	"device",
	"target type",
	"zero",
	"health",
	"skip activation",
}

// LVAttrDescriptions maps every known character at every position to its
// human readable description.
var LVAttrDescriptions = [LVAttrLength]map[byte]string{
	LVAttrPosVolumeType: {
		LVTypeCache:           "cache",
		LVTypeMirrored:        "mirrored",
		LVTypeMirroredNoSync:  "mirrored without initial sync",
		LVTypeOrigin:          "origin",
		LVTypeOriginMerging:   "origin with merging snapshot",
		LVTypeRaid:            "raid",
		LVTypeRaidNoSync:      "raid without initial sync",
		LVTypeSnapshot:        "snapshot",
		LVTypeSnapshotMerging: "merging snapshot",
		LVTypePvmove:          "pvmove",
		LVTypeVirtual:         "virtual",
		LVTypeImage:           "mirror or raid image",
		LVTypeImageOutOfSync:  "mirror or raid image out-of-sync",
		LVTypeMirrorLog:       "mirror log device",
		LVTypeUnderConversion: "under conversion",
		LVTypeThinVolume:      "thin volume",
		LVTypeThinPool:        "thin pool",
		LVTypeThinPoolData:    "thin pool data",
		LVTypeVdoPool:         "vdo pool",
		LVTypeVdoPoolData:     "vdo pool data",
		LVTypeMetadata:        "raid or pool metadata or pool metadata spare",
		LVTypeIntegrity:       "integrity",
		LVTypeWritecache:      "writecache",
		LVTypeNormal:          "normal",
	},
	LVAttrPosPermissions: {
		LVPermWritable:           "writable",
		LVPermReadOnly:           "read-only",
		LVPermReadOnlyActivation: "read-only activation of non-read-only volume",
		LVAttrUnset:              "none",
	},
	LVAttrPosAllocationPolicy: {
		LVAllocAnywhere:        "anywhere",
		LVAllocContiguous:      "contiguous",
		LVAllocInherited:       "inherited",
		LVAllocCling:           "cling",
		LVAllocNormal:          "normal",
		LVAllocAnywhere - 32:   "anywhere (locked)",
		LVAllocContiguous - 32: "contiguous (locked)",
		LVAllocInherited - 32:  "inherited (locked)",
		LVAllocCling - 32:      "cling (locked)",
		LVAllocNormal - 32:     "normal (locked)",
		LVAttrUnset:            "none",
	},
	LVAttrPosFixedMinor: {
		LVFixedMinor: "fixed minor",
		LVAttrUnset:  "dynamic minor",
	},
	LVAttrPosState: {
		LVStateActive:                   "active",
		LVStateHistorical:               "historical",
		LVStateSuspended:                "suspended",
		LVStateInvalidSnapshot:          "invalid snapshot",
		LVStateSuspendedInvalidSnapshot: "suspended invalid snapshot",
		LVStateMergeFailed:              "snapshot merge failed",
		LVStateSuspendedMergeFailed:     "suspended snapshot merge failed",
		LVStateNoTables:                 "mapped device present without tables",
		LVStateInactiveTable:            "mapped device present with inactive table",
		LVStateThinPoolCheck:            "thin-pool check needed",
		LVStateSuspendedThinPoolCheck:   "suspended thin-pool check needed",
		LVStateUnknown:                  "unknown",
		LVAttrUnset:                     "inactive",
	},
	LVAttrPosDeviceOpen: {
		LVDeviceOpen:    "open",
		LVDeviceUnknown: "unknown",
		LVAttrUnset:     "closed",
	},
	LVAttrPosTargetType: {
		LVTargetCache:     "cache",
		LVTargetMirror:    "mirror",
		LVTargetRaid:      "raid",
		LVTargetSnapshot:  "snapshot",
		LVTargetThin:      "thin",
		LVTargetUnknown:   "unknown",
		LVTargetVirtual:   "virtual",
		LVTargetVdo:       "vdo",
		LVTargetIntegrity: "integrity",
		LVAttrUnset:       "normal",
	},
	LVAttrPosZero: {
		LVZeroBlocks: "zeroed",
		LVAttrUnset:  "not zeroed",
	},
	LVAttrPosHealth: {
		LVHealthPartial:       "partial",
		LVHealthRefreshNeeded: "refresh needed",
		LVHealthMismatches:    "mismatches exist",
		LVHealthWriteMostly:   "writemostly",
		LVHealthReshaping:     "reshaping",
		LVHealthRemove:        "remove after reshape",
		LVHealthUnknown:       "unknown",
		LVHealthError:         "error",
		LVHealthFailed:        "failed",
		LVHealthOutOfData:     "out of data space",
		LVHealthMetadataRO:    "metadata read only",
		LVAttrUnset:           "ok",
	},
	LVAttrPosSkipActivation: {
		LVSkipActivation: "skip activation",
		LVAttrUnset:      "activate",
	},
}
