package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nfrund/topograph/cmd/topograph/internal/summary"
	"github.com/nfrund/topograph/internal/diagram"
	"github.com/nfrund/topograph/internal/diff"
)

var diffNoView bool

var diffCmd = &cobra.Command{
	Use:   "diff <new-connection-csv> <old-connection-csv> <output-dir>",
	Short: "Highlight the connections a newer extraction added",
	Long: `Compare two connection.csv files and render diff_graph into <output-dir>.
Connections present in both files are drawn in black, connections only the
newer file carries are highlighted. Connections only the older file carries
are not shown.

The rendered diagram is opened in the desktop viewer unless --no-view is
given or TOPOGRAPH_OPEN_VIEWER is false.

Examples:
  topograph diff ./out/connection.csv ./baseline/connection.csv ./out
  topograph diff new.csv old.csv ./diff --no-view`,
	Args: cobra.ExactArgs(3),
	Run:  diffHandler,
}

func diffHandler(cmd *cobra.Command, args []string) {
	rep, err := diff.NewDiffer(osFs, renderer(), nil).Run(cmd.Context(), args[0], args[1], args[2], cfg.DiffFormat)
	if err != nil {
		fail("%v", err)
	}

	summary.DisplayDiff(os.Stdout, rep)

	if diffNoView || !cfg.OpenViewer {
		return
	}
	if err := diagram.Open(rep.Diagram.ImagePath); err != nil {
		slog.Warn("Failed to open diagram viewer", "file", rep.Diagram.ImagePath, "error", err)
	}
}

func init() {
	rootCmd.AddCommand(diffCmd)

	diffCmd.Flags().BoolVar(&diffNoView, "no-view", false, "Do not open the rendered diagram")
}
