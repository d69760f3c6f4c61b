package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/nfrund/topograph/cmd/topograph/internal/summary"
	"github.com/nfrund/topograph/internal/extraction"
	"github.com/nfrund/topograph/internal/topology"
)

var extractOutputFormat string

var extractCmd = &cobra.Command{
	Use:   "extract <source-dir> <output-dir> [exclusion-list]",
	Short: "Extract the connection graph of a source tree",
	Long: `Scan every C++ source unit and launch description under <source-dir> and
write the extraction artifacts into <output-dir>, which is created if missing:

  remap.csv            remap rules recovered from launch descriptions
  connection.csv       publisher, topic and subscribers per connection
  match.csv            every recognized publish and subscribe call site
  non_connect_pub.csv  published topics nobody subscribes to
  non_connect_sub.csv  subscribed topics nobody publishes
  connect_graph.dot    diagram source, rendered next to it by graphviz

The optional [exclusion-list] is a comma-separated list of node or topic
names left out of the diagram. connection.csv is written unfiltered.

Examples:
  topograph extract ./src ./out
  topograph extract ./src ./out rosout,parameter_events
  topograph extract ./src ./out --format json`,
	Args: cobra.RangeArgs(2, 3),
	Run:  extractHandler,
}

func extractHandler(cmd *cobra.Command, args []string) {
	opts := extraction.Options{
		SourceDir: args[0],
		OutputDir: args[1],
	}
	if len(args) == 3 {
		opts.Exclusions = topology.ParseExclusions(args[2])
	}

	rep, err := extraction.New(osFs, cfg, renderer(), nil).Run(cmd.Context(), opts)
	if rep != nil {
		if displayErr := summary.DisplayExtraction(os.Stdout, rep, extractOutputFormat); displayErr != nil {
			fail("%v", displayErr)
		}
	}
	if err != nil {
		fail("%v", err)
	}
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVarP(&extractOutputFormat, "format", "f", "table", "Summary format (table, json)")
}
