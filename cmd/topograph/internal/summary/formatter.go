// Package summary prints the outcome of topograph commands.
package summary

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/nfrund/topograph/internal/diff"
	"github.com/nfrund/topograph/internal/extraction"
	"github.com/nfrund/topograph/internal/remap"
)

// ExtractionDisplay is the machine-readable extraction summary.
type ExtractionDisplay struct {
	RunID                  string         `json:"run_id"`
	Nodes                  int            `json:"nodes"`
	Rules                  map[string]int `json:"rules"`
	Connections            int            `json:"connections"`
	Drawn                  int            `json:"drawn"`
	UnsubscribedPublishers int            `json:"unsubscribed_publishers"`
	UnpublishedSubscribers int            `json:"unpublished_subscribers"`
	UnclaimedRules         int            `json:"unclaimed_rules"`
	UnmatchedExclusions    []string       `json:"unmatched_exclusions,omitempty"`
	Diagram                string         `json:"diagram,omitempty"`
}

var origins = []remap.Origin{
	remap.OriginXMLScopeWide,
	remap.OriginXMLIncludedArgument,
	remap.OriginXMLDirect,
	remap.OriginPython,
}

// NewExtractionDisplay flattens an extraction report.
func NewExtractionDisplay(rep *extraction.Report) ExtractionDisplay {
	d := ExtractionDisplay{
		RunID:               rep.RunID,
		Nodes:               len(rep.Nodes),
		Rules:               make(map[string]int, len(origins)),
		Drawn:               len(rep.Drawn),
		UnmatchedExclusions: rep.UnmatchedExclusions,
		Diagram:             rep.Diagram.ImagePath,
	}
	for _, o := range origins {
		d.Rules[string(o)] = rep.RulesByOrigin[o]
	}
	if rep.Result != nil {
		d.Connections = len(rep.Result.Connections)
		d.UnsubscribedPublishers = len(rep.Result.UnsubscribedPublishers)
		d.UnpublishedSubscribers = len(rep.Result.UnpublishedSubscribers)
		d.UnclaimedRules = len(rep.Result.Unclaimed)
	}
	return d
}

// DisplayExtraction writes the extraction summary as a table or as JSON.
func DisplayExtraction(w io.Writer, rep *extraction.Report, format string) error {
	d := NewExtractionDisplay(rep)
	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(d)
	case "table":
		displayExtractionTable(w, d)
		return nil
	default:
		return fmt.Errorf("unsupported output format '%s'. Use 'table' or 'json'", format)
	}
}

func displayExtractionTable(out io.Writer, d ExtractionDisplay) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "ITEM\tCOUNT")
	fmt.Fprintln(w, "----\t-----")
	fmt.Fprintf(w, "nodes\t%d\n", d.Nodes)
	for _, o := range origins {
		fmt.Fprintf(w, "rules (%s)\t%d\n", o, d.Rules[string(o)])
	}
	fmt.Fprintf(w, "connections\t%d\n", d.Connections)
	fmt.Fprintf(w, "drawn connections\t%d\n", d.Drawn)
	fmt.Fprintf(w, "unsubscribed publishers\t%d\n", d.UnsubscribedPublishers)
	fmt.Fprintf(w, "unpublished subscribers\t%d\n", d.UnpublishedSubscribers)
	fmt.Fprintf(w, "unclaimed rules\t%d\n", d.UnclaimedRules)
	for _, name := range d.UnmatchedExclusions {
		fmt.Fprintf(w, "unmatched exclusion\t%s\n", name)
	}
	if d.Diagram != "" {
		fmt.Fprintf(w, "diagram\t%s\n", d.Diagram)
	}
}

// DisplayDiff writes the diff summary table.
func DisplayDiff(out io.Writer, rep *diff.Report) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "ITEM\tCOUNT")
	fmt.Fprintln(w, "----\t-----")
	fmt.Fprintf(w, "common connections\t%d\n", len(rep.Result.Common))
	fmt.Fprintf(w, "added connections\t%d\n", len(rep.Result.Added))
	if rep.Diagram.ImagePath != "" {
		fmt.Fprintf(w, "diagram\t%s\n", rep.Diagram.ImagePath)
	}
}
