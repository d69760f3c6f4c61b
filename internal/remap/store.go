package remap

// Store accumulates rules from every extraction path in the order they were
// found.
type Store struct {
	rules []Rule
}

// NewStore creates an empty rule store.
func NewStore() *Store {
	return &Store{}
}

// Add appends rules to the store.
func (s *Store) Add(rules ...Rule) {
	s.rules = append(s.rules, rules...)
}

// Rules returns a copy of the accumulated rules.
func (s *Store) Rules() []Rule {
	out := make([]Rule, len(s.rules))
	copy(out, s.rules)
	return out
}

// Len returns the number of accumulated rules.
func (s *Store) Len() int {
	return len(s.rules)
}

// CountByOrigin tallies the rules per origin.
func (s *Store) CountByOrigin() map[Origin]int {
	counts := make(map[Origin]int)
	for _, r := range s.rules {
		counts[r.Origin]++
	}
	return counts
}

// Claims tracks which rules of a fixed collection have been consumed. A rule
// is handed out by Claim at most once.
type Claims struct {
	rules      []Rule
	claimed    []bool
	byOriginal map[string][]int
}

// NewClaims indexes rules by their original topic. The slice is copied.
func NewClaims(rules []Rule) *Claims {
	c := &Claims{
		rules:      make([]Rule, len(rules)),
		claimed:    make([]bool, len(rules)),
		byOriginal: make(map[string][]int),
	}
	copy(c.rules, rules)
	for i, r := range c.rules {
		c.byOriginal[r.Original] = append(c.byOriginal[r.Original], i)
	}
	return c
}

// Claim consumes every unclaimed rule whose original equals topic and
// returns them in insertion order.
func (c *Claims) Claim(topic string) []Rule {
	var out []Rule
	for _, i := range c.byOriginal[topic] {
		if c.claimed[i] {
			continue
		}
		c.claimed[i] = true
		out = append(out, c.rules[i])
	}
	return out
}

// Unclaimed returns the rules that no fact consumed.
func (c *Claims) Unclaimed() []Rule {
	var out []Rule
	for i, r := range c.rules {
		if !c.claimed[i] {
			out = append(out, r)
		}
	}
	return out
}
