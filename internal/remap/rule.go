// Package remap holds the topic remapping rules recovered from launch
// descriptions and the store that accumulates them.
package remap

// Origin identifies the resolution path that produced a rule. The value is
// the tag written to remap.csv.
type Origin string

const (
	OriginXMLDirect           Origin = "xml"
	OriginXMLScopeWide        Origin = "set"
	OriginXMLIncludedArgument Origin = "arg"
	OriginPython              Origin = "python"
)

// OwnerNone marks a rule that is not bound to a single node declaration.
const OwnerNone = "none"

// Rule substitutes Resolved for Original at node instantiation time.
type Rule struct {
	Owner    string
	Original string
	Resolved string
	Origin   Origin
}

// Row returns the remap.csv representation of the rule.
func (r Rule) Row() []string {
	return []string{r.Owner, r.Original, r.Resolved, string(r.Origin)}
}
