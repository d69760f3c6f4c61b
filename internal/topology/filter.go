package topology

import "strings"

// ParseExclusions splits a comma-separated exclusion list.
func ParseExclusions(list string) []string {
	var names []string
	for _, name := range strings.Split(list, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// Exclude removes names from a connection list. A connection whose publisher
// or topic is excluded is dropped; excluded subscribers are removed from the
// connection, which is dropped when no subscriber remains. The names that
// occur nowhere are returned.
func Exclude(conns []Connection, names []string) ([]Connection, []string) {
	excluded := make(map[string]bool, len(names))
	for _, n := range names {
		excluded[n] = true
	}
	matched := make(map[string]bool, len(names))

	var out []Connection
	for _, c := range conns {
		drop := false
		for _, field := range []string{c.Publisher, c.Topic} {
			if excluded[field] {
				matched[field] = true
				drop = true
			}
		}

		var subs []string
		for _, s := range c.Subscribers {
			if excluded[s] {
				matched[s] = true
				continue
			}
			subs = append(subs, s)
		}
		if drop || len(subs) == 0 {
			continue
		}
		out = append(out, Connection{Publisher: c.Publisher, Topic: c.Topic, Subscribers: subs})
	}

	var unmatched []string
	for _, n := range names {
		if !matched[n] {
			unmatched = append(unmatched, n)
		}
	}
	return out, unmatched
}
