package diagram

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pkg/browser"
	"github.com/spf13/afero"
)

// Renderer turns a DOT file into an image artifact.
type Renderer interface {
	Render(ctx context.Context, dotPath, outPath, format string) error
}

// Graphviz renders by running the graphviz dot executable.
type Graphviz struct {
	Binary string
}

// Render runs dot on the given file.
func (g Graphviz) Render(ctx context.Context, dotPath, outPath, format string) error {
	binary := g.Binary
	if binary == "" {
		binary = "dot"
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, "-T"+format, "-o", outPath, dotPath)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to render %s with %s: %w: %s", dotPath, binary, err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

// Artifact names the files produced for one diagram.
type Artifact struct {
	DotPath   string
	ImagePath string
}

// Publish writes the DOT source of g as <dir>/<name>.dot and renders it next
// to it as <dir>/<name>.<format>. The DOT file is kept when rendering fails.
func Publish(ctx context.Context, fs afero.Fs, r Renderer, g *Graph, dir, name, format string) (Artifact, error) {
	art := Artifact{
		DotPath:   filepath.Join(dir, name+".dot"),
		ImagePath: filepath.Join(dir, name+"."+format),
	}

	var buf bytes.Buffer
	if err := g.WriteDot(&buf); err != nil {
		return art, fmt.Errorf("failed to encode diagram: %w", err)
	}
	if err := afero.WriteFile(fs, art.DotPath, buf.Bytes(), 0644); err != nil {
		return art, fmt.Errorf("failed to write %s: %w", art.DotPath, err)
	}

	if err := r.Render(ctx, art.DotPath, art.ImagePath, format); err != nil {
		return art, err
	}
	return art, nil
}

// Open shows a rendered diagram in the desktop viewer.
func Open(path string) error {
	return browser.OpenFile(path)
}
