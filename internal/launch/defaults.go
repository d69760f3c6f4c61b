package launch

import (
	"regexp"
	"strings"
)

var placeholder = regexp.MustCompile(`\$\(var\s+([^)\s]+)\s*\)`)

// Bindings maps argument names to literal values.
type Bindings map[string]string

// DeclaredDefaults reads the argument defaults declared at the document
// root. An argument without a default binds to its own name.
func DeclaredDefaults(root *Element) Bindings {
	b := make(Bindings)
	for _, child := range root.Children {
		name, ok := child.Attr("name")
		if !ok {
			continue
		}
		switch child.Name() {
		case tagArg:
			if def, ok := child.Attr("default"); ok {
				b[name] = def
			} else {
				b[name] = name
			}
		case tagLet:
			if value, ok := child.Attr("value"); ok {
				b[name] = value
			}
		}
	}
	return b
}

// ScopeDefaults layers the bindings visible at the given scope depth: the
// document root defaults, then every arg default and let declared in the
// groups of each level down to depth. Inner declarations win.
func ScopeDefaults(tree *Tree, depth int) Bindings {
	b := DeclaredDefaults(tree.Root)
	for _, level := range tree.Levels() {
		if level.Depth == 0 {
			continue
		}
		if level.Depth > depth {
			break
		}
		for _, group := range level.Elements {
			b = groupBindings(group).Over(b)
		}
	}
	return b
}

// groupBindings reads the bindings a group declares. An arg without a
// default does not shadow an outer binding.
func groupBindings(group *Element) Bindings {
	b := make(Bindings)
	for _, child := range group.Children {
		name, ok := child.Attr("name")
		if !ok {
			continue
		}
		switch child.Name() {
		case tagArg:
			if def, ok := child.Attr("default"); ok {
				b[name] = def
			}
		case tagLet:
			if value, ok := child.Attr("value"); ok {
				b[name] = value
			}
		}
	}
	return b
}

// Over returns a copy of b with base filling in names b does not bind.
func (b Bindings) Over(base Bindings) Bindings {
	out := make(Bindings, len(base)+len(b))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}

// References lists the argument names referenced by value, in order.
func References(value string) []string {
	var names []string
	for _, m := range placeholder.FindAllStringSubmatch(value, -1) {
		names = append(names, m[1])
	}
	return names
}

// Resolve substitutes every argument placeholder in value. A placeholder
// naming an unbound argument is replaced by the argument name and reported
// in missing.
func (b Bindings) Resolve(value string) (resolved string, missing []string) {
	resolved = placeholder.ReplaceAllStringFunc(value, func(ref string) string {
		name := placeholder.FindStringSubmatch(ref)[1]
		if v, ok := b[name]; ok {
			return v
		}
		missing = append(missing, name)
		return name
	})
	return resolved, missing
}

// substitutable reports whether an include argument value can stand in for
// a topic name.
func substitutable(name, raw, resolved string) bool {
	if raw == name {
		return false
	}
	switch strings.TrimSpace(resolved) {
	case "", "true", "false":
		return false
	}
	return true
}
