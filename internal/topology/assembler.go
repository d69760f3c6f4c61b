// Package topology merges scanned publish/subscribe facts with remap rules
// into the connection list of the application graph.
package topology

import (
	"log/slog"

	"github.com/nfrund/topograph/internal/remap"
	"github.com/nfrund/topograph/internal/scanner"
)

// Connection is one publisher-topic pair with every subscriber reached
// through that topic, in first-seen order. It always has a subscriber.
type Connection struct {
	Publisher   string
	Topic       string
	Subscribers []string
}

// Row returns the connection.csv representation.
func (c Connection) Row() []string {
	return append([]string{c.Publisher, c.Topic}, c.Subscribers...)
}

// Orphan is a raw publish or subscribe fact that reaches no counterpart.
type Orphan struct {
	Topic    string
	Node     string
	FilePath string
}

// Row returns the non_connect_*.csv representation.
func (o Orphan) Row() []string {
	return []string{o.Topic, o.Node, o.FilePath}
}

// Result is the outcome of one assembly pass.
type Result struct {
	Connections            []Connection
	UnsubscribedPublishers []Orphan
	UnpublishedSubscribers []Orphan
	// Unclaimed lists the rules no fact consumed.
	Unclaimed []remap.Rule
}

// pair is a (node, topic) edge end. fact indexes the raw fact it derives from.
type pair struct {
	node  string
	topic string
	fact  int
}

type fact struct {
	node  *scanner.Node
	topic string
}

// Assembler builds connection lists.
type Assembler struct {
	logger *slog.Logger
}

// NewAssembler creates an assembler. A nil logger uses slog.Default().
func NewAssembler(logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{logger: logger}
}

// Assemble merges node facts with rules. Each rule is consumed by at most
// one pair; publisher pairs are matched before subscriber pairs. Pairs added
// by a rule are matched again, so rule chains resolve transitively.
func (a *Assembler) Assemble(nodes []*scanner.Node, rules []remap.Rule) *Result {
	a.warnDuplicateNames(nodes)

	var pubFacts, subFacts []fact
	for _, n := range nodes {
		for _, t := range n.Publishes() {
			pubFacts = append(pubFacts, fact{node: n, topic: t})
		}
		for _, t := range n.Subscribes() {
			subFacts = append(subFacts, fact{node: n, topic: t})
		}
	}

	claims := remap.NewClaims(rules)
	pubs := applyRules(claims, pairsOf(pubFacts))
	subs := applyRules(claims, pairsOf(subFacts))

	subsByTopic := make(map[string][]pair)
	for _, s := range subs {
		subsByTopic[s.topic] = append(subsByTopic[s.topic], s)
	}

	result := &Result{Unclaimed: claims.Unclaimed()}
	connectedPubs := make(map[int]bool)
	connectedSubs := make(map[int]bool)
	for _, p := range pubs {
		matched := subsByTopic[p.topic]
		if len(matched) == 0 {
			continue
		}

		seen := make(map[string]bool, len(matched))
		conn := Connection{Publisher: p.node, Topic: p.topic}
		for _, s := range matched {
			connectedSubs[s.fact] = true
			if seen[s.node] {
				continue
			}
			seen[s.node] = true
			conn.Subscribers = append(conn.Subscribers, s.node)
		}
		connectedPubs[p.fact] = true
		result.Connections = append(result.Connections, conn)
	}

	result.UnsubscribedPublishers = orphans(pubFacts, connectedPubs)
	result.UnpublishedSubscribers = orphans(subFacts, connectedSubs)

	for _, r := range result.Unclaimed {
		a.logger.Debug("Remap rule matched no topic", "owner", r.Owner, "from", r.Original, "to", r.Resolved, "origin", r.Origin)
	}
	return result
}

func pairsOf(facts []fact) []pair {
	pairs := make([]pair, len(facts))
	for i, f := range facts {
		pairs[i] = pair{node: f.node.Name, topic: f.topic, fact: i}
	}
	return pairs
}

// applyRules appends a remapped pair for every rule claimed by a pair's topic.
// Pairs appended during the loop are visited as well.
func applyRules(claims *remap.Claims, pairs []pair) []pair {
	for i := 0; i < len(pairs); i++ {
		for _, r := range claims.Claim(pairs[i].topic) {
			pairs = append(pairs, pair{node: pairs[i].node, topic: r.Resolved, fact: pairs[i].fact})
		}
	}
	return pairs
}

func orphans(facts []fact, connected map[int]bool) []Orphan {
	var out []Orphan
	for i, f := range facts {
		if connected[i] {
			continue
		}
		out = append(out, Orphan{Topic: f.topic, Node: f.node.Name, FilePath: f.node.File})
	}
	return out
}

// warnDuplicateNames reports source units sharing a node name. Their facts
// are kept and merge into one graph node.
func (a *Assembler) warnDuplicateNames(nodes []*scanner.Node) {
	files := make(map[string]string, len(nodes))
	for _, n := range nodes {
		if first, ok := files[n.Name]; ok {
			a.logger.Warn("Source units share a node name; their facts are merged", "node", n.Name, "first", first, "file", n.File)
			continue
		}
		files[n.Name] = n.File
	}
}
