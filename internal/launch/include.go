package launch

import (
	"regexp"
	"strings"

	"github.com/nfrund/topograph/internal/remap"
)

var substitutionPrefix = regexp.MustCompile(`^(\$\([^)]+\))+`)

const launchXMLSuffix = ".launch.xml"

// IncludeSite is one include reference together with the bindings it forwards.
type IncludeSite struct {
	File     string
	Pattern  string
	Bindings Bindings
}

// IncludePattern turns an include file reference into a corpus glob. The
// leading substitutions (package share lookups and the like) are dropped and
// the remainder is matched anywhere in the corpus. Only XML launch files
// qualify.
func IncludePattern(file string) (string, bool) {
	rest := strings.TrimSpace(substitutionPrefix.ReplaceAllString(strings.TrimSpace(file), ""))
	if strings.Contains(rest, "$(") || !strings.HasSuffix(rest, launchXMLSuffix) {
		return "", false
	}
	rest = strings.TrimLeft(rest, "/")
	if strings.HasPrefix(rest, "**/") {
		return rest, true
	}
	return "**/" + rest, true
}

// includeSites finds the include references of a document: those of the
// outermost level that has any, plus those one group level further in. Each
// site sees the bindings of the scopes enclosing it.
func includeSites(tree *Tree) []IncludeSite {
	level, ok := tree.ShallowestWith(tagInclude)
	if !ok {
		return nil
	}

	levels := []Scope{level}
	if inner, ok := tree.Level(level.Depth + 1); ok {
		levels = append(levels, inner)
	}

	var sites []IncludeSite
	for _, l := range levels {
		defaults := ScopeDefaults(tree, l.Depth)
		for _, inc := range l.Children(tagInclude) {
			file, ok := inc.Attr("file")
			if !ok {
				continue
			}
			pattern, ok := IncludePattern(includeRemainder(file, defaults))
			if !ok {
				continue
			}
			sites = append(sites, IncludeSite{
				File:     file,
				Pattern:  pattern,
				Bindings: includeBindings(inc, defaults),
			})
		}
	}
	return sites
}

// includeRemainder drops the leading substitutions of an include reference
// and resolves the argument placeholders left in the rest.
func includeRemainder(file string, defaults Bindings) string {
	rest := substitutionPrefix.ReplaceAllString(strings.TrimSpace(file), "")
	rest, _ = defaults.Resolve(rest)
	return rest
}

// includeBindings collects the literal argument values passed at an include site.
func includeBindings(inc *Element, defaults Bindings) Bindings {
	b := make(Bindings)
	for _, arg := range inc.ChildrenNamed(tagArg) {
		name, ok := arg.Attr("name")
		if !ok {
			continue
		}
		raw, ok := arg.Attr("value")
		if !ok {
			continue
		}
		value, _ := defaults.Resolve(raw)
		if substitutable(name, raw, value) {
			b[name] = value
		}
	}
	return b
}

// includedRules resolves the remaps of an included document against the
// bindings forwarded by the include site. Only remaps whose target references
// a forwarded argument produce rules.
func includedRules(root *Element, forwarded Bindings) []remap.Rule {
	if !root.IsLaunch() || len(forwarded) == 0 {
		return nil
	}

	bindings := forwarded.Over(DeclaredDefaults(root))
	loc := NewTree(root).Locate()

	var rules []remap.Rule
	for _, node := range loc.Nodes {
		for _, rm := range node.ChildrenNamed(tagRemap) {
			from, okFrom := rm.Attr("from")
			to, okTo := rm.Attr("to")
			if !okFrom || !okTo || !referencesAny(to, forwarded) {
				continue
			}
			resolved, _ := bindings.Resolve(to)
			rules = append(rules, remap.Rule{
				Owner:    remap.OwnerNone,
				Original: from,
				Resolved: resolved,
				Origin:   remap.OriginXMLIncludedArgument,
			})
		}
	}
	return rules
}

func referencesAny(value string, b Bindings) bool {
	for _, name := range References(value) {
		if _, ok := b[name]; ok {
			return true
		}
	}
	return false
}
