package backup

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"
)

// FormatOutput writes a backup summary in the requested format
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

// formatTable formats the summary as tables, one per section
func formatTable(w io.Writer, response *Response) error {
	if s := response.Snapshot; s != nil {
		if len(s.StaleRemoved) > 0 {
			verb := "Removed"
			if response.DryRun {
				verb = "Would remove"
			}
			fmt.Fprintf(w, "%s %d stale snapshot(s):\n", verb, len(s.StaleRemoved))
			for _, name := range s.StaleRemoved {
				fmt.Fprintf(w, "  %s\n", name)
			}
			fmt.Fprintln(w)
		}

		if len(s.Rejected) > 0 || len(s.Excluded) > 0 {
			tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "SKIPPED VOLUME\tREASON\n")
			fmt.Fprintf(tw, "--------------\t------\n")
			for _, r := range s.Rejected {
				fmt.Fprintf(tw, "%s\t%s\n", r.Volume, r.Reason)
			}
			for _, name := range s.Excluded {
				fmt.Fprintf(tw, "%s\t%s\n", name, "excluded")
			}
			tw.Flush()
			fmt.Fprintln(w)
		}

		if response.DryRun {
			fmt.Fprintf(w, "Would snapshot %d volume(s):\n", len(s.Planned))
			for _, name := range s.Planned {
				fmt.Fprintf(w, "  %s\n", name)
			}
			return nil
		}
	}

	if len(response.Archives) > 0 {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "SNAPSHOT\tDEVICE\tDESTINATION\n")
		fmt.Fprintf(tw, "--------\t------\t-----------\n")
		for _, a := range response.Archives {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", a.Snapshot, a.Device, a.Destination)
		}
		tw.Flush()
		fmt.Fprintln(w)
	}

	for _, s := range response.Skipped {
		fmt.Fprintf(w, "Skipped %s: %s\n", s.Device, s.Error)
	}

	if c := response.Cleanup; c != nil && len(c.Failures) > 0 {
		fmt.Fprintf(w, "Cleanup left %d resource(s) behind:\n", len(c.Failures))
		for _, f := range c.Failures {
			fmt.Fprintf(w, "  %s\n", f)
		}
	}

	fmt.Fprintf(w, "%s in %v\n", FormatSummary(response), response.Duration.Round(time.Millisecond))
	return nil
}

// formatJSON formats the summary as JSON
func formatJSON(w io.Writer, response *Response) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(response)
}

// formatYAML formats the summary as YAML
func formatYAML(w io.Writer, response *Response) error {
	encoder := yaml.NewEncoder(w)
	defer encoder.Close()
	encoder.SetIndent(2)
	return encoder.Encode(response)
}

// FormatSummary provides a one line summary
func FormatSummary(response *Response) string {
	created := 0
	if response.Snapshot != nil {
		created = len(response.Snapshot.Created)
	}
	summary := fmt.Sprintf("Backed up %d filesystem(s) from %d snapshot(s)", len(response.Archives), created)
	if len(response.Skipped) > 0 {
		summary += fmt.Sprintf(", %d skipped", len(response.Skipped))
	}
	if response.Error != "" {
		summary += " before failing"
	}
	return summary
}
