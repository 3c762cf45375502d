package list

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/docker/go-units"
	"gopkg.in/yaml.v3"
)

// FormatOutput writes the volume listing in the requested format
func FormatOutput(w io.Writer, response *Response, format string) error {
	switch format {
	case "json":
		return formatJSON(w, response)
	case "yaml":
		return formatYAML(w, response)
	case "table":
		return formatTable(w, response)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// formatTable formats volumes as a table, followed by the groups
func formatTable(w io.Writer, response *Response) error {
	if len(response.Volumes) == 0 {
		fmt.Fprintln(w, "No logical volumes found")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "VOLUME\tSIZE\tATTR\tSEGTYPE\tBACKUP\n")
	fmt.Fprintf(tw, "------\t----\t----\t-------\t------\n")
	for _, v := range response.Volumes {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", v.FullName(), v.FormatSize(), v.Attr, v.SegType, v.Verdict())
	}
	tw.Flush()

	for _, v := range response.Volumes {
		if len(v.Attributes) == 0 && len(v.Warnings) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s (%s):\n", v.FullName(), v.Attr)
		for _, a := range v.Attributes {
			fmt.Fprintf(w, "  %-18s %s\n", a.Name+":", a.Value)
		}
		for _, warning := range v.Warnings {
			fmt.Fprintf(w, "  warning: %s\n", warning)
		}
	}

	if len(response.Groups) > 0 {
		fmt.Fprintln(w)
		tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "GROUP\tSIZE\tFREE\n")
		fmt.Fprintf(tw, "-----\t----\t----\n")
		for _, g := range response.Groups {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", g.Name, units.BytesSize(float64(g.Size)), units.BytesSize(float64(g.Free)))
		}
		tw.Flush()
	}

	fmt.Fprintf(w, "\n%s\n", FormatSummary(response))
	return nil
}

// formatJSON formats the listing as JSON
func formatJSON(w io.Writer, response *Response) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(response)
}

// formatYAML formats the listing as YAML
func formatYAML(w io.Writer, response *Response) error {
	encoder := yaml.NewEncoder(w)
	defer encoder.Close()
	encoder.SetIndent(2)
	return encoder.Encode(response)
}

// FormatSummary provides a one line summary
func FormatSummary(response *Response) string {
	eligible, stale := 0, 0
	for _, v := range response.Volumes {
		if v.Eligible {
			eligible++
		}
		if v.Stale {
			stale++
		}
	}
	summary := fmt.Sprintf("%d volume(s), %d eligible for backup", len(response.Volumes), eligible)
	if stale > 0 {
		summary += fmt.Sprintf(", %d stale snapshot(s)", stale)
	}
	return summary
}
