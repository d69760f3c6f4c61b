// Package diff compares two connection lists and draws the result with the
// rows only the newer list carries highlighted.
package diff

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/nfrund/topograph/internal/diagram"
	"github.com/nfrund/topograph/internal/report"
	"github.com/spf13/afero"
)

// GraphName is the base name of the diff diagram artifacts.
const GraphName = "diff_graph"

// Result partitions the rows of the newer list.
type Result struct {
	// Common holds new rows matched by an old row, in new-list order.
	Common [][]string
	// Added holds new rows with no remaining old match, in new-list order.
	Added [][]string
}

// Compare matches every new row against the old rows. An old row matches at
// most one new row. Rows present only in the old list are not reported.
func Compare(newRows, oldRows [][]string) Result {
	used := make([]bool, len(oldRows))
	var res Result
	for _, row := range newRows {
		if i := unusedMatch(row, oldRows, used); i >= 0 {
			used[i] = true
			res.Common = append(res.Common, row)
			continue
		}
		res.Added = append(res.Added, row)
	}
	return res
}

func unusedMatch(row []string, oldRows [][]string, used []bool) int {
	for i, old := range oldRows {
		if !used[i] && slices.Equal(row, old) {
			return i
		}
	}
	return -1
}

// Draw builds the diff diagram. Common rows are drawn first in black, then
// added rows in the highlight style.
func Draw(res Result) *diagram.Graph {
	g := diagram.New()
	for _, row := range res.Common {
		g.AddConnection(row, diagram.Neutral)
	}
	for _, row := range res.Added {
		g.AddConnection(row, diagram.Highlight)
	}
	return g
}

// Report describes one diff run.
type Report struct {
	Result  Result
	Diagram diagram.Artifact
}

// Differ reads, compares and renders connection lists.
type Differ struct {
	fs       afero.Fs
	renderer diagram.Renderer
	logger   *slog.Logger
}

// NewDiffer creates a differ. A nil logger uses slog.Default().
func NewDiffer(fs afero.Fs, renderer diagram.Renderer, logger *slog.Logger) *Differ {
	if logger == nil {
		logger = slog.Default()
	}
	return &Differ{fs: fs, renderer: renderer, logger: logger}
}

// Run compares newPath against oldPath and renders the diagram into outDir.
func (d *Differ) Run(ctx context.Context, newPath, oldPath, outDir, format string) (*Report, error) {
	newRows, err := report.ReadConnectionsFile(d.fs, newPath)
	if err != nil {
		return nil, err
	}
	oldRows, err := report.ReadConnectionsFile(d.fs, oldPath)
	if err != nil {
		return nil, err
	}
	if err := report.PrepareDir(d.fs, outDir); err != nil {
		return nil, err
	}

	rep := &Report{Result: Compare(newRows, oldRows)}
	d.logger.Info("Compared connection lists",
		"new", newPath,
		"old", oldPath,
		"common", len(rep.Result.Common),
		"added", len(rep.Result.Added))

	rep.Diagram, err = diagram.Publish(ctx, d.fs, d.renderer, Draw(rep.Result), outDir, GraphName, format)
	if err != nil {
		return rep, fmt.Errorf("failed to render diff diagram: %w", err)
	}
	return rep, nil
}
