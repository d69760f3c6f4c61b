// Package report writes the CSV artifacts of an extraction run and reads
// connection lists back for comparison.
package report

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/nfrund/topograph/internal/remap"
	"github.com/nfrund/topograph/internal/scanner"
	"github.com/nfrund/topograph/internal/topology"
	"github.com/spf13/afero"
)

// Artifact file names inside the output directory.
const (
	RemapFile        = "remap.csv"
	ConnectionFile   = "connection.csv"
	MatchFile        = "match.csv"
	UnsubscribedFile = "non_connect_pub.csv"
	UnpublishedFile  = "non_connect_sub.csv"
)

// ErrNotDirectory is returned when the output path exists but is not a directory.
var ErrNotDirectory = errors.New("output path is not a directory")

var (
	remapHeader  = []string{"Node", "Original", "New"}
	matchHeader  = []string{"Code", "BytePos", "Statement", "Topic"}
	orphanHeader = []string{"Topic", "Node", "FilePath"}
)

// PrepareDir makes sure dir exists and is a directory.
func PrepareDir(fs afero.Fs, dir string) error {
	info, err := fs.Stat(dir)
	switch {
	case err == nil:
		if !info.IsDir() {
			return fmt.Errorf("%w: %s", ErrNotDirectory, dir)
		}
		return nil
	case os.IsNotExist(err):
		if err := fs.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
		return nil
	default:
		return fmt.Errorf("failed to stat output directory %s: %w", dir, err)
	}
}

// WriteFile encodes a CSV artifact in memory and stores it at path.
func WriteFile(fs afero.Fs, path string, write func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := afero.WriteFile(fs, path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// WriteRemaps writes the remap rules. The header names three columns while
// each row carries four: owner, original, resolved and origin.
func WriteRemaps(w io.Writer, rules []remap.Rule) error {
	rows := make([][]string, 0, len(rules)+1)
	rows = append(rows, remapHeader)
	for _, r := range rules {
		rows = append(rows, r.Row())
	}
	return writeAll(w, rows)
}

// WriteConnections writes one row per connection with no header.
func WriteConnections(w io.Writer, conns []topology.Connection) error {
	rows := make([][]string, 0, len(conns))
	for _, c := range conns {
		rows = append(rows, c.Row())
	}
	return writeAll(w, rows)
}

// WriteMatches writes every recognized call site of every node.
func WriteMatches(w io.Writer, nodes []*scanner.Node) error {
	rows := [][]string{matchHeader}
	for _, n := range nodes {
		for _, loc := range n.Locations {
			rows = append(rows, []string{loc.File, strconv.Itoa(loc.Offset), loc.Statement, loc.Topic})
		}
	}
	return writeAll(w, rows)
}

// WriteOrphans writes the unsubscribed publishers or the unpublished subscribers.
func WriteOrphans(w io.Writer, orphans []topology.Orphan) error {
	rows := make([][]string, 0, len(orphans)+1)
	rows = append(rows, orphanHeader)
	for _, o := range orphans {
		rows = append(rows, o.Row())
	}
	return writeAll(w, rows)
}

// ReadConnections reads a connection list written by WriteConnections.
// Rows may have any number of fields.
func ReadConnections(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read connection list: %w", err)
	}
	return rows, nil
}

// ReadConnectionsFile opens and reads a connection list.
func ReadConnectionsFile(fs afero.Fs, path string) ([][]string, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	rows, err := ReadConnections(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

func writeAll(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}
