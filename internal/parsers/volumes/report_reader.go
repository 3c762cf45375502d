package volumes

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/deploymenttheory/go-lvmsnap/internal/types"
)

// LVReportColumns are the lvs columns requested for a logical volume report
var LVReportColumns = []string{"lv_name", "vg_name", "lv_path", "lv_size", "lv_attr", "origin", "segtype"}

// VGReportColumns are the vgs columns requested for a volume group report
var VGReportColumns = []string{"vg_name", "vg_size", "vg_free"}

// byteString is a size reported by the volume manager as a string of bytes
type byteString uint64

// UnmarshalJSON implements the json.Unmarshaler interface.
func (b *byteString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "B")
	if s == "" {
		*b = 0
		return nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid byte size %q: %w", s, err)
	}
	*b = byteString(v)
	return nil
}

type lvRow struct {
	Name    string     `json:"lv_name"`
	Group   string     `json:"vg_name"`
	Path    string     `json:"lv_path"`
	Size    byteString `json:"lv_size"`
	Attr    string     `json:"lv_attr"`
	Origin  string     `json:"origin"`
	SegType string     `json:"segtype"`
}

type vgRow struct {
	Name string     `json:"vg_name"`
	Size byteString `json:"vg_size"`
	Free byteString `json:"vg_free"`
}

// ParseLVReport decodes the JSON report of lvs into logical volume records,
// preserving report order. Rows from every report section are concatenated.
func ParseLVReport(data []byte) ([]types.LogicalVolume, error) {
	var report struct {
		Report []struct {
			LV []lvRow `json:"lv"`
		} `json:"report"`
	}
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to parse lvs report: %w", err)
	}

	volumes := []types.LogicalVolume{}
	for _, section := range report.Report {
		for _, row := range section.LV {
			if row.Name == "" || row.Group == "" {
				return nil, fmt.Errorf("lvs report row without name or group: %+v", row)
			}
			volumes = append(volumes, types.LogicalVolume{
				Name:    row.Name,
				Group:   row.Group,
				Path:    row.Path,
				Size:    uint64(row.Size),
				Attr:    row.Attr,
				Origin:  row.Origin,
				SegType: row.SegType,
			})
		}
	}
	return volumes, nil
}

// ParseVGReport decodes the JSON report of vgs into volume group records
func ParseVGReport(data []byte) ([]types.VolumeGroup, error) {
	var report struct {
		Report []struct {
			VG []vgRow `json:"vg"`
		} `json:"report"`
	}
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to parse vgs report: %w", err)
	}

	groups := []types.VolumeGroup{}
	for _, section := range report.Report {
		for _, row := range section.VG {
			groups = append(groups, types.VolumeGroup{
				Name: row.Name,
				Size: uint64(row.Size),
				Free: uint64(row.Free),
			})
		}
	}
	return groups, nil
}
