package launch

import (
	"log/slog"

	"github.com/nfrund/topograph/internal/remap"
)

// Source is the read side of a file corpus.
type Source interface {
	Glob(pattern string) ([]string, error)
	ReadFile(path string) ([]byte, error)
}

// Resolver recovers remap rules from XML launch descriptions.
type Resolver struct {
	src    Source
	logger *slog.Logger
}

// NewResolver creates a resolver reading from src. A nil logger uses slog.Default().
func NewResolver(src Source, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{src: src, logger: logger}
}

// ResolveFile parses one launch description from the corpus and returns its
// rules. Documents whose root is not a launch element yield no rules.
func (r *Resolver) ResolveFile(path string) ([]remap.Rule, error) {
	root, err := r.load(path)
	if err != nil {
		return nil, err
	}
	return r.Resolve(path, root)
}

// Resolve returns the scope-wide, included-argument and direct rules of a
// parsed document, in that order.
func (r *Resolver) Resolve(path string, root *Element) ([]remap.Rule, error) {
	if !root.IsLaunch() {
		r.logger.Debug("Skipping non-launch document", "file", path, "root", root.Name())
		return nil, nil
	}

	tree := NewTree(root)
	loc := tree.Locate()
	defaults := ScopeDefaults(tree, loc.NodeScope.Depth)

	var rules []remap.Rule
	for _, sr := range loc.SetRemaps {
		if rule, ok := r.rule(path, sr, remap.OwnerNone, remap.OriginXMLScopeWide, defaults); ok {
			rules = append(rules, rule)
		}
	}

	for _, site := range includeSites(tree) {
		included, err := r.resolveInclude(path, site)
		if err != nil {
			return nil, err
		}
		rules = append(rules, included...)
	}

	for _, node := range loc.Nodes {
		owner := nodeOwner(node)
		for _, rm := range node.ChildrenNamed(tagRemap) {
			if rule, ok := r.rule(path, rm, owner, remap.OriginXMLDirect, defaults); ok {
				rules = append(rules, rule)
			}
		}
	}

	r.logger.Debug("Resolved launch description", "file", path, "rules", len(rules))
	return rules, nil
}

func (r *Resolver) resolveInclude(path string, site IncludeSite) ([]remap.Rule, error) {
	files, err := r.src.Glob(site.Pattern)
	if err != nil {
		return nil, &Error{Kind: ErrorIncludeFailed, File: path, Message: "cannot locate " + site.File, Cause: err}
	}
	if len(files) == 0 {
		r.logger.Warn("Included launch file not found in corpus", "file", path, "include", site.File)
	}

	var rules []remap.Rule
	for _, f := range files {
		root, err := r.load(f)
		if err != nil {
			return nil, &Error{Kind: ErrorIncludeFailed, File: path, Message: "cannot resolve include " + f, Cause: err}
		}
		rules = append(rules, includedRules(root, site.Bindings)...)
	}
	return rules, nil
}

func (r *Resolver) load(path string) (*Element, error) {
	data, err := r.src.ReadFile(path)
	if err != nil {
		return nil, &Error{Kind: ErrorReadFailed, File: path, Message: "cannot read launch description", Cause: err}
	}
	root, err := Parse(data)
	if err != nil {
		return nil, &Error{Kind: ErrorParseFailed, File: path, Message: "malformed launch description", Cause: err}
	}
	return root, nil
}

// rule builds a rule from a from/to declaration, resolving argument
// defaults in the target.
func (r *Resolver) rule(path string, decl *Element, owner string, origin remap.Origin, defaults Bindings) (remap.Rule, bool) {
	from, okFrom := decl.Attr("from")
	to, okTo := decl.Attr("to")
	if !okFrom || !okTo {
		r.logger.Debug("Ignoring incomplete remap declaration", "file", path, "tag", decl.Name())
		return remap.Rule{}, false
	}

	resolved, missing := defaults.Resolve(to)
	for _, name := range missing {
		r.logger.Warn("Remap target references undeclared argument", "file", path, "arg", name, "to", to)
	}

	return remap.Rule{
		Owner:    owner,
		Original: from,
		Resolved: resolved,
		Origin:   origin,
	}, true
}

func nodeOwner(node *Element) string {
	for _, attr := range []string{"pkg", "name", "exec"} {
		if v, ok := node.Attr(attr); ok && v != "" {
			return v
		}
	}
	return remap.OwnerNone
}
