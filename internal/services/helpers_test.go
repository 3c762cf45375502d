package services

import (
	"encoding/json"
	"io"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/deploymenttheory/go-lvmsnap/internal/types"
)

const gib = 1 << 30

func testLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.SetLevel(logrus.DebugLevel)
	return logrus.NewEntry(logger)
}

// lvsReport renders volumes the way lvs --reportformat json prints them
func lvsReport(lvs ...types.LogicalVolume) string {
	rows := make([]map[string]string, 0, len(lvs))
	for _, lv := range lvs {
		rows = append(rows, map[string]string{
			"lv_name": lv.Name,
			"vg_name": lv.Group,
			"lv_path": lv.Path,
			"lv_size": strconv.FormatUint(lv.Size, 10),
			"lv_attr": lv.Attr,
			"origin":  lv.Origin,
			"segtype": lv.SegType,
		})
	}
	out, _ := json.Marshal(map[string]any{
		"report": []map[string]any{{"lv": rows}},
	})
	return string(out)
}

// vgsReport renders groups the way vgs --reportformat json prints them
func vgsReport(vgs ...types.VolumeGroup) string {
	rows := make([]map[string]string, 0, len(vgs))
	for _, vg := range vgs {
		rows = append(rows, map[string]string{
			"vg_name": vg.Name,
			"vg_size": strconv.FormatUint(vg.Size, 10),
			"vg_free": strconv.FormatUint(vg.Free, 10),
		})
	}
	out, _ := json.Marshal(map[string]any{
		"report": []map[string]any{{"vg": rows}},
	})
	return string(out)
}

func linearVolume(group, name string) types.LogicalVolume {
	return types.LogicalVolume{
		Name:    name,
		Group:   group,
		Path:    "/dev/" + group + "/" + name,
		Size:    10 * gib,
		Attr:    "-wi-ao----",
		SegType: "linear",
	}
}

// kpartxList renders one kpartx -l line per partition of device
func kpartxList(device, mapped string, count int) string {
	out := ""
	for i := 1; i <= count; i++ {
		out += mapped + strconv.Itoa(i) + " : 0 204800 " + device + " " + strconv.Itoa(2048*i) + "\n"
	}
	return out
}
