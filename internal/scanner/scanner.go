// Package scanner extracts publish/subscribe facts from C++ source text.
//
// The scan is purely lexical: a call site is recognised by its function name
// and the first quoted string in its argument list is taken as the topic.
package scanner

import (
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// CallKind distinguishes publisher creation from subscription.
type CallKind string

const (
	Publish   CallKind = "publish"
	Subscribe CallKind = "subscribe"
)

// TopicKind records whether a topic came from a quoted string.
type TopicKind string

const (
	Literal    TopicKind = "literal"
	NonLiteral TopicKind = "non_literal"
)

var (
	publishPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\Wadvertise(<[^\(]+>)?\((?P<param>[^;]+)\);`),
		regexp.MustCompile(`\Wcreate_publisher(<[^\(]+>)?\((?P<param>[^;]+)\);`),
	}
	subscribePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\Wsubscribe(<[^\(]+>)?\((?P<param>[^;]+)\);`),
		regexp.MustCompile(`\Wcreate_subscription(<[^\(]+>)?\((?P<param>[^;]+)\);`),
	}

	literalTopic    = regexp.MustCompile(`"([^"]+)"`)
	nonLiteralTopic = regexp.MustCompile(`([^"]+)`)
)

// Location is one matched call site.
type Location struct {
	File      string
	Offset    int
	Statement string
	// Topic is empty when no topic could be identified in the arguments.
	Topic     string
	TopicKind TopicKind
	Kind      CallKind
}

// Node holds the facts scanned from one source unit. It is not modified
// after Scan returns.
type Node struct {
	Name       string
	File       string
	publishes  map[string]struct{}
	subscribes map[string]struct{}
	Locations  []Location
}

// NodeName derives a node identity from a source file name.
func NodeName(file string) string {
	base := filepath.Base(file)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Scan collects the publish and subscribe facts of one source unit.
func Scan(file, text string) *Node {
	pubs, pubLocations := Topics(file, text, Publish)
	subs, subLocations := Topics(file, text, Subscribe)

	return &Node{
		Name:       NodeName(file),
		File:       file,
		publishes:  pubs,
		subscribes: subs,
		Locations:  append(pubLocations, subLocations...),
	}
}

// NewNode builds a node from already known topic lists.
func NewNode(name, file string, publishes, subscribes []string) *Node {
	n := &Node{
		Name:       name,
		File:       file,
		publishes:  make(map[string]struct{}, len(publishes)),
		subscribes: make(map[string]struct{}, len(subscribes)),
	}
	for _, t := range publishes {
		n.publishes[t] = struct{}{}
	}
	for _, t := range subscribes {
		n.subscribes[t] = struct{}{}
	}
	return n
}

// Publishes returns the published topics in sorted order.
func (n *Node) Publishes() []string {
	return sortedKeys(n.publishes)
}

// Subscribes returns the subscribed topics in sorted order.
func (n *Node) Subscribes() []string {
	return sortedKeys(n.subscribes)
}

// Topics finds every call site of the given kind in text. It returns the set
// of identified topics and one location per match.
func Topics(file, text string, kind CallKind) (map[string]struct{}, []Location) {
	patterns := publishPatterns
	if kind == Subscribe {
		patterns = subscribePatterns
	}

	topics := make(map[string]struct{})
	var locations []Location
	for _, pattern := range patterns {
		param := pattern.SubexpIndex("param")
		for _, m := range pattern.FindAllStringSubmatchIndex(text, -1) {
			topic, topicKind := ExtractTopic(text[m[2*param]:m[2*param+1]])
			if topic != "" {
				topics[topic] = struct{}{}
			}
			locations = append(locations, Location{
				File:      file,
				Offset:    m[0],
				Statement: text[m[0]:m[1]],
				Topic:     topic,
				TopicKind: topicKind,
				Kind:      kind,
			})
		}
	}
	return topics, locations
}

// ExtractTopic picks a topic out of a call's argument text. A quoted string
// wins; otherwise the leading unquoted text is returned as a non-literal topic.
func ExtractTopic(param string) (string, TopicKind) {
	if m := literalTopic.FindStringSubmatch(param); m != nil {
		return m[1], Literal
	}
	if m := nonLiteralTopic.FindStringSubmatch(param); m != nil {
		return m[1], NonLiteral
	}
	return "", ""
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
