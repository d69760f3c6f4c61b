// Package diagram builds the styled directed graph of a connection list and
// renders it through graphviz.
package diagram

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Shape is the graphviz node shape.
type Shape string

const (
	Circle Shape = "circle"
	Square Shape = "square"
)

// Style carries the drawing attributes of a node or edge. The zero value
// leaves graphviz defaults in place.
type Style struct {
	Color    string
	PenWidth float64
}

var (
	Plain     = Style{}
	Neutral   = Style{Color: "black"}
	Highlight = Style{Color: "#d9534f", PenWidth: 3}
)

// Node is a graph vertex.
type Node struct {
	ID    string
	Shape Shape
	Style Style
}

// Edge is a directed graph edge.
type Edge struct {
	From  string
	To    string
	Style Style
}

type edgeKey struct {
	from string
	to   string
}

// Graph is built in one rendering pass. It owns the set of edges emitted so
// far; an edge between the same two vertices is kept only the first time.
type Graph struct {
	nodes     []Node
	nodeIndex map[string]int
	edges     []Edge
	seen      map[edgeKey]bool
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodeIndex: make(map[string]int),
		seen:      make(map[edgeKey]bool),
	}
}

// AddNode declares a vertex. Declaring it again replaces its shape and
// style but keeps its position.
func (g *Graph) AddNode(id string, shape Shape, style Style) {
	n := Node{ID: id, Shape: shape, Style: style}
	if i, ok := g.nodeIndex[id]; ok {
		g.nodes[i] = n
		return
	}
	g.nodeIndex[id] = len(g.nodes)
	g.nodes = append(g.nodes, n)
}

// AddEdge emits an edge unless the same edge was emitted before in this
// pass. It reports whether the edge was added.
func (g *Graph) AddEdge(from, to string, style Style) bool {
	key := edgeKey{from: from, to: to}
	if g.seen[key] {
		return false
	}
	g.seen[key] = true
	g.edges = append(g.edges, Edge{From: from, To: to, Style: style})
	return true
}

// AddConnection draws one connection row [publisher, topic, subscriber...]:
// the publisher as a circle, the topic as a square, and an edge from the
// topic to each subscriber. Empty subscriber fields are skipped.
func (g *Graph) AddConnection(row []string, style Style) {
	if len(row) < 2 {
		return
	}
	pub, topic := row[0], row[1]

	g.AddNode(pub, Circle, style)
	g.AddNode(topic, Square, style)
	g.AddEdge(pub, topic, style)

	for _, sub := range row[2:] {
		if sub == "" {
			continue
		}
		g.AddNode(sub, Circle, style)
		g.AddEdge(topic, sub, style)
	}
}

// Nodes returns the vertices in declaration order.
func (g *Graph) Nodes() []Node {
	return g.nodes
}

// Edges returns the edges in emission order.
func (g *Graph) Edges() []Edge {
	return g.edges
}

// WriteDot emits a left-to-right GraphViz definition of the graph.
func (g *Graph) WriteDot(w io.Writer) error {
	var b strings.Builder
	b.WriteString("digraph {\n")
	b.WriteString("\trankdir=LR;\n")
	for _, n := range g.nodes {
		fmt.Fprintf(&b, "\t%s %s;\n", quote(n.ID), attrs(append([]string{"shape=" + string(n.Shape)}, n.Style.attrs()...)))
	}
	for _, e := range g.edges {
		line := fmt.Sprintf("\t%s -> %s", quote(e.From), quote(e.To))
		if a := e.Style.attrs(); len(a) > 0 {
			line += " " + attrs(a)
		}
		b.WriteString(line + ";\n")
	}
	b.WriteString("}\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func (s Style) attrs() []string {
	var out []string
	if s.Color != "" {
		out = append(out, "color="+quote(s.Color))
	}
	if s.PenWidth > 0 {
		out = append(out, "penwidth="+strconv.FormatFloat(s.PenWidth, 'f', -1, 64))
	}
	return out
}

func attrs(list []string) string {
	return "[" + strings.Join(list, ", ") + "]"
}

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", "")

func quote(id string) string {
	return `"` + dotEscaper.Replace(id) + `"`
}
