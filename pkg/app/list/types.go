package list

import (
	"github.com/docker/go-units"

	"github.com/deploymenttheory/go-lvmsnap/internal/services"
	"github.com/deploymenttheory/go-lvmsnap/internal/types"
)

// Request represents a volume listing request
type Request struct {
	// Include the ten decoded attribute fields of every volume
	Attributes bool

	// Used to flag leftovers of earlier runs
	SnapshotPrefix string

	// Volumes a backup would skip, as group/name
	Exclude []string
}

// NewRequest returns a request carrying the default settings
func NewRequest() *Request {
	return &Request{SnapshotPrefix: services.DefaultSnapshotPrefix}
}

// Response represents the volume listing
type Response struct {
	Volumes []VolumeInfo        `json:"volumes" yaml:"volumes"`
	Groups  []types.VolumeGroup `json:"groups" yaml:"groups"`
}

// VolumeInfo is one logical volume with its backup verdict
type VolumeInfo struct {
	types.LogicalVolume `yaml:",inline"`

	Eligible bool   `json:"eligible" yaml:"eligible"`
	Stale    bool   `json:"stale,omitempty" yaml:"stale,omitempty"`
	Excluded bool   `json:"excluded,omitempty" yaml:"excluded,omitempty"`
	Reason   string `json:"reason,omitempty" yaml:"reason,omitempty"`

	Attributes []AttributeField `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Warnings   []string         `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// AttributeField is one decoded position of the attribute code
type AttributeField struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Verdict returns the short backup verdict shown in tables
func (v VolumeInfo) Verdict() string {
	switch {
	case v.Stale:
		return "stale snapshot"
	case v.Excluded:
		return "excluded"
	case v.Eligible:
		return "eligible"
	default:
		return "skip: " + v.Reason
	}
}

// FormatSize returns the size in binary units, e.g. 10GiB
func (v VolumeInfo) FormatSize() string {
	return units.BytesSize(float64(v.Size))
}
