package corpus

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	ErrSourceMissing = errors.New("source directory does not exist")
	ErrNotDirectory  = errors.New("source path is not a directory")
)

// Corpus is a read-only view of a source tree. Paths handed in and out are
// slash-separated and relative to the root.
type Corpus struct {
	root string
	fs   afero.Fs
}

// Open roots a corpus at dir on the given filesystem.
func Open(fs afero.Fs, dir string) (*Corpus, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", dir, err)
	}

	info, err := fs.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSourceMissing, dir)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}

	return &Corpus{
		root: dir,
		fs:   afero.NewBasePathFs(fs, root),
	}, nil
}

// Root returns the directory the corpus was opened with.
func (c *Corpus) Root() string {
	return c.root
}

// Path joins a corpus-relative path onto the root for reporting.
func (c *Corpus) Path(rel string) string {
	return filepath.Join(c.root, filepath.FromSlash(rel))
}

// Glob enumerates files matching a doublestar pattern, sorted. Every call
// walks the tree again, so callers never share a consumed result.
func (c *Corpus) Glob(pattern string) ([]string, error) {
	matches, err := doublestar.Glob(afero.NewIOFS(c.fs), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("failed to glob %q: %w", pattern, err)
	}
	sort.Strings(matches)
	return matches, nil
}

// ReadFile returns the UTF-8 contents of a corpus file with any byte order
// mark removed.
func (c *Corpus) ReadFile(rel string) ([]byte, error) {
	f, err := c.fs.Open(filepath.FromSlash(rel))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(transform.NewReader(f, unicode.UTF8BOM.NewDecoder()))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", rel, err)
	}
	return data, nil
}
