// Package extraction runs the full pipeline over a source tree: fact
// scanning, remap resolution, connection assembly, CSV artifacts and the
// rendered application graph.
package extraction

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/nfrund/topograph/internal/config"
	"github.com/nfrund/topograph/internal/corpus"
	"github.com/nfrund/topograph/internal/diagram"
	"github.com/nfrund/topograph/internal/launch"
	"github.com/nfrund/topograph/internal/remap"
	"github.com/nfrund/topograph/internal/report"
	"github.com/nfrund/topograph/internal/scanner"
	"github.com/nfrund/topograph/internal/topology"
	"github.com/spf13/afero"
)

// GraphName is the base name of the connection diagram artifacts.
const GraphName = "connect_graph"

const (
	launchXMLPattern    = "**/*.xml"
	launchPythonPattern = "**/*.py"
)

// Options selects the input tree, the output directory and the node or
// topic names left out of the diagram.
type Options struct {
	SourceDir  string
	OutputDir  string
	Exclusions []string
}

// Report summarizes one extraction run.
type Report struct {
	RunID string
	Nodes []*scanner.Node
	Rules []remap.Rule
	// RulesByOrigin counts rules per resolution path.
	RulesByOrigin map[remap.Origin]int
	Result        *topology.Result
	// Drawn holds the connections left after exclusions.
	Drawn []topology.Connection
	// UnmatchedExclusions lists exclusion names that matched nothing.
	UnmatchedExclusions []string
	Diagram             diagram.Artifact
}

// Extractor wires the pipeline stages together.
type Extractor struct {
	fs       afero.Fs
	cfg      *config.Config
	renderer diagram.Renderer
	logger   *slog.Logger
}

// New creates an extractor. A nil logger uses slog.Default().
func New(fs afero.Fs, cfg *config.Config, renderer diagram.Renderer, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{fs: fs, cfg: cfg, renderer: renderer, logger: logger}
}

// Run executes one extraction. On a rendering failure the report is returned
// together with the error, since every CSV artifact has been written by then.
func (e *Extractor) Run(ctx context.Context, opts Options) (*Report, error) {
	rep := &Report{RunID: uuid.NewString()}
	logger := e.logger.With("run_id", rep.RunID)

	src, err := corpus.Open(e.fs, opts.SourceDir)
	if err != nil {
		return nil, err
	}
	if err := report.PrepareDir(e.fs, opts.OutputDir); err != nil {
		return nil, err
	}
	logger.Info("Starting extraction", "source", src.Root(), "output", opts.OutputDir)

	rep.Nodes, err = e.scanNodes(src)
	if err != nil {
		return nil, err
	}
	logger.Info("Scanned source units", "nodes", len(rep.Nodes))

	store, err := e.collectRules(src, logger)
	if err != nil {
		return nil, err
	}
	rep.Rules = store.Rules()
	rep.RulesByOrigin = store.CountByOrigin()
	logger.Info("Collected remap rules", "rules", store.Len())

	if err := e.write(opts.OutputDir, report.RemapFile, func(w io.Writer) error {
		return report.WriteRemaps(w, rep.Rules)
	}); err != nil {
		return nil, err
	}

	rep.Result = topology.NewAssembler(logger).Assemble(rep.Nodes, rep.Rules)
	logger.Info("Assembled connections",
		"connections", len(rep.Result.Connections),
		"unsubscribed", len(rep.Result.UnsubscribedPublishers),
		"unpublished", len(rep.Result.UnpublishedSubscribers),
		"unclaimed_rules", len(rep.Result.Unclaimed))

	if err := e.writeResult(opts.OutputDir, rep); err != nil {
		return nil, err
	}

	rep.Drawn, rep.UnmatchedExclusions = topology.Exclude(rep.Result.Connections, opts.Exclusions)
	for _, name := range rep.UnmatchedExclusions {
		logger.Warn("Exclusion matched no node or topic", "name", name)
	}

	g := diagram.New()
	for _, c := range rep.Drawn {
		g.AddConnection(c.Row(), diagram.Plain)
	}
	rep.Diagram, err = diagram.Publish(ctx, e.fs, e.renderer, g, opts.OutputDir, GraphName, e.cfg.DiagramFormat)
	if err != nil {
		return rep, fmt.Errorf("failed to render connection diagram: %w", err)
	}
	logger.Info("Rendered connection diagram", "file", rep.Diagram.ImagePath)

	return rep, nil
}

func (e *Extractor) scanNodes(src *corpus.Corpus) ([]*scanner.Node, error) {
	files, err := src.Glob(e.cfg.SourcePatterns)
	if err != nil {
		return nil, err
	}

	nodes := make([]*scanner.Node, 0, len(files))
	for _, f := range files {
		data, err := src.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read source unit %s: %w", f, err)
		}
		nodes = append(nodes, scanner.Scan(src.Path(f), string(data)))
	}
	return nodes, nil
}

func (e *Extractor) collectRules(src *corpus.Corpus, logger *slog.Logger) (*remap.Store, error) {
	store := remap.NewStore()

	xmlFiles, err := src.Glob(launchXMLPattern)
	if err != nil {
		return nil, err
	}
	resolver := launch.NewResolver(src, logger)
	for _, f := range xmlFiles {
		rules, err := resolver.ResolveFile(f)
		if err != nil {
			return nil, err
		}
		store.Add(rules...)
	}

	pyFiles, err := src.Glob(launchPythonPattern)
	if err != nil {
		return nil, err
	}
	for _, f := range pyFiles {
		data, err := src.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read launch script %s: %w", f, err)
		}
		store.Add(launch.ExtractPython(string(data))...)
	}

	return store, nil
}

func (e *Extractor) writeResult(dir string, rep *Report) error {
	artifacts := []struct {
		name  string
		write func(io.Writer) error
	}{
		{report.ConnectionFile, func(w io.Writer) error { return report.WriteConnections(w, rep.Result.Connections) }},
		{report.MatchFile, func(w io.Writer) error { return report.WriteMatches(w, rep.Nodes) }},
		{report.UnsubscribedFile, func(w io.Writer) error { return report.WriteOrphans(w, rep.Result.UnsubscribedPublishers) }},
		{report.UnpublishedFile, func(w io.Writer) error { return report.WriteOrphans(w, rep.Result.UnpublishedSubscribers) }},
	}
	for _, a := range artifacts {
		if err := e.write(dir, a.name, a.write); err != nil {
			return err
		}
	}
	return nil
}

func (e *Extractor) write(dir, name string, fn func(io.Writer) error) error {
	return report.WriteFile(e.fs, filepath.Join(dir, name), fn)
}
