// Package partitions reads the partition listings printed by kpartx.
package partitions

import (
	"bufio"
	"bytes"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/deploymenttheory/go-lvmsnap/internal/types"
)

// MapperDir is where device-mapper exposes mapped partitions
const MapperDir = "/dev/mapper"

// ParseKpartxList decodes the output of `kpartx -l <device>`.
//
// Each line has the form
//
//	vg0-bak_snap_data1 : 0 204800 /dev/vg0/bak_snap_data 2048
//
// i.e. mapped name, colon, start within the mapping, length in sectors,
// parent device and start sector on the parent. Lines are returned in table
// order with a 1-based index. Empty output means the device has no
// partition table.
func ParseKpartxList(data []byte) ([]types.Partition, error) {
	partitions := []types.Partition{}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		name, rest, ok := strings.Cut(line, " : ")
		if !ok {
			// kpartx prints diagnostics such as "GPT:Primary header..." on stdout
			if strings.Contains(line, ":") && !strings.Contains(line, " : ") {
				continue
			}
			return nil, fmt.Errorf("unexpected kpartx line: %q", line)
		}

		fields := strings.Fields(rest)
		if len(fields) < 4 {
			return nil, fmt.Errorf("unexpected kpartx line: %q", line)
		}

		length, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid partition length in %q: %w", line, err)
		}
		start, err := strconv.ParseUint(fields[3], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid partition start in %q: %w", line, err)
		}

		name = strings.TrimSpace(name)
		partitions = append(partitions, types.Partition{
			Name:   name,
			Path:   filepath.Join(MapperDir, name),
			Index:  len(partitions) + 1,
			Start:  start,
			Length: length,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read kpartx output: %w", err)
	}

	return partitions, nil
}
