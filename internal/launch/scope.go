package launch

// Scope is one nesting level of a launch description. Depth 0 holds the
// root element; depth n holds every group nested n levels below it.
type Scope struct {
	Depth    int
	Elements []*Element
}

// Children collects the direct children with the given tag across the whole level.
func (s Scope) Children(name string) []*Element {
	var out []*Element
	for _, e := range s.Elements {
		out = append(out, e.ChildrenNamed(name)...)
	}
	return out
}

// Nodes returns the node declarations of the level.
func (s Scope) Nodes() []*Element {
	return s.Children(tagNode)
}

// HasRemaps reports whether any node of the level declares a remap.
func (s Scope) HasRemaps() bool {
	for _, n := range s.Nodes() {
		if len(n.ChildrenNamed(tagRemap)) > 0 {
			return true
		}
	}
	return false
}

// Tree indexes the scope levels of a launch description.
type Tree struct {
	Root   *Element
	levels []Scope
}

// NewTree descends from root through nested groups while a deeper level exists.
func NewTree(root *Element) *Tree {
	t := &Tree{Root: root}
	level := Scope{Depth: 0, Elements: []*Element{root}}
	for len(level.Elements) > 0 {
		t.levels = append(t.levels, level)
		level = Scope{Depth: level.Depth + 1, Elements: level.Children(tagGroup)}
	}
	return t
}

// Levels returns every scope level, outermost first.
func (t *Tree) Levels() []Scope {
	return t.levels
}

// Deepest returns the innermost scope level.
func (t *Tree) Deepest() Scope {
	return t.levels[len(t.levels)-1]
}

// DeepestWithNodes returns the innermost level that declares nodes.
func (t *Tree) DeepestWithNodes() (Scope, bool) {
	for i := len(t.levels) - 1; i >= 0; i-- {
		if len(t.levels[i].Nodes()) > 0 {
			return t.levels[i], true
		}
	}
	return Scope{}, false
}

// NearestWithRemap ascends from the given level, inclusive, to the first
// level whose nodes declare remaps.
func (t *Tree) NearestWithRemap(from Scope) (Scope, bool) {
	for i := from.Depth; i >= 0; i-- {
		if t.levels[i].HasRemaps() {
			return t.levels[i], true
		}
	}
	return Scope{}, false
}

// ShallowestWith returns the outermost level with a direct child of the given tag.
func (t *Tree) ShallowestWith(name string) (Scope, bool) {
	for _, level := range t.levels {
		if len(level.Children(name)) > 0 {
			return level, true
		}
	}
	return Scope{}, false
}

// Level returns the scope at the given depth if it exists.
func (t *Tree) Level(depth int) (Scope, bool) {
	if depth < 0 || depth >= len(t.levels) {
		return Scope{}, false
	}
	return t.levels[depth], true
}

// Locators names the declarations a resolution pass reads.
type Locators struct {
	// NodeScope is the innermost level declaring nodes, or the innermost
	// level when no level does.
	NodeScope Scope
	// RemapScope is the nearest level at or above NodeScope whose nodes
	// declare remaps. Nodes is empty when there is none.
	RemapScope Scope
	Nodes      []*Element
	// SetRemaps are the scope-wide remaps visible from NodeScope.
	SetRemaps []*Element
}

// Locate runs the scope search over the tree.
func (t *Tree) Locate() Locators {
	nodeScope, ok := t.DeepestWithNodes()
	if !ok {
		nodeScope = t.Deepest()
	}

	loc := Locators{NodeScope: nodeScope}
	if remapScope, ok := t.NearestWithRemap(nodeScope); ok {
		loc.RemapScope = remapScope
		loc.Nodes = remapScope.Nodes()
	}

	for depth := 0; depth <= nodeScope.Depth; depth++ {
		loc.SetRemaps = append(loc.SetRemaps, t.levels[depth].Children(tagSetRemap)...)
	}
	return loc
}
