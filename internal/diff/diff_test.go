package diff

import (
	"context"
	"testing"

	"github.com/nfrund/topograph/internal/diagram"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		name     string
		newRows  [][]string
		oldRows  [][]string
		expected Result
	}{
		{
			name:    "added and common rows",
			newRows: [][]string{{"A", "/t", "B"}, {"C", "/u", "D"}},
			oldRows: [][]string{{"A", "/t", "B"}},
			expected: Result{
				Common: [][]string{{"A", "/t", "B"}},
				Added:  [][]string{{"C", "/u", "D"}},
			},
		},
		{
			name:    "old row matches once",
			newRows: [][]string{{"A", "/t", "B"}, {"A", "/t", "B"}},
			oldRows: [][]string{{"A", "/t", "B"}},
			expected: Result{
				Common: [][]string{{"A", "/t", "B"}},
				Added:  [][]string{{"A", "/t", "B"}},
			},
		},
		{
			name:     "removed rows are not reported",
			newRows:  [][]string{{"A", "/t", "B"}},
			oldRows:  [][]string{{"X", "/gone", "Y"}, {"A", "/t", "B"}},
			expected: Result{Common: [][]string{{"A", "/t", "B"}}},
		},
		{
			name:     "subscriber order matters",
			newRows:  [][]string{{"A", "/t", "B", "C"}},
			oldRows:  [][]string{{"A", "/t", "C", "B"}},
			expected: Result{Added: [][]string{{"A", "/t", "B", "C"}}},
		},
		{
			name:     "empty new list",
			oldRows:  [][]string{{"A", "/t", "B"}},
			expected: Result{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Compare(tt.newRows, tt.oldRows))
		})
	}
}

func TestCompare_IdenticalListsAddNothing(t *testing.T) {
	rows := [][]string{{"A", "/t", "B"}, {"B", "/u", "A", "C"}}
	res := Compare(rows, rows)

	assert.Empty(t, res.Added)
	assert.Equal(t, rows, res.Common)
}

func TestDraw_CommonFirstThenHighlighted(t *testing.T) {
	g := Draw(Result{
		Common: [][]string{{"A", "/t", "B"}},
		Added:  [][]string{{"A", "/t", "B", "C"}, {"D", "/u", "B"}},
	})

	assert.Equal(t, []diagram.Edge{
		{From: "A", To: "/t", Style: diagram.Neutral},
		{From: "/t", To: "B", Style: diagram.Neutral},
		{From: "/t", To: "C", Style: diagram.Highlight},
		{From: "D", To: "/u", Style: diagram.Highlight},
		{From: "/u", To: "B", Style: diagram.Highlight},
	}, g.Edges())
}

type fakeRenderer struct {
	formats []string
}

func (f *fakeRenderer) Render(_ context.Context, _, _, format string) error {
	f.formats = append(f.formats, format)
	return nil
}

func TestDiffer_Run(t *testing.T) {
	memFs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(memFs, "/runs/new.csv", []byte("A,/t,B\nC,/u,D\n"), 0644))
	require.NoError(t, afero.WriteFile(memFs, "/runs/old.csv", []byte("A,/t,B\n"), 0644))

	t.Run("renders the diff graph", func(t *testing.T) {
		r := &fakeRenderer{}
		rep, err := NewDiffer(memFs, r, nil).Run(context.Background(), "/runs/new.csv", "/runs/old.csv", "/runs/diff", "png")
		require.NoError(t, err)

		assert.Equal(t, [][]string{{"C", "/u", "D"}}, rep.Result.Added)
		assert.Equal(t, "/runs/diff/diff_graph.png", rep.Diagram.ImagePath)
		assert.Equal(t, []string{"png"}, r.formats)

		dot, err := afero.ReadFile(memFs, "/runs/diff/diff_graph.dot")
		require.NoError(t, err)
		assert.Contains(t, string(dot), `"C" -> "/u" [color="#d9534f", penwidth=3];`)
		assert.Contains(t, string(dot), `"A" -> "/t" [color="black"];`)
	})

	t.Run("missing input", func(t *testing.T) {
		_, err := NewDiffer(memFs, &fakeRenderer{}, nil).Run(context.Background(), "/runs/none.csv", "/runs/old.csv", "/runs/diff", "png")
		assert.Error(t, err)
	})
}
