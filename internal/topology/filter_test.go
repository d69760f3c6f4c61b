package topology

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExclude(t *testing.T) {
	conns := []Connection{
		{Publisher: "nodeA", Topic: "/t", Subscribers: []string{"nodeB"}},
		{Publisher: "nodeC", Topic: "/t", Subscribers: []string{"nodeA", "nodeB"}},
		{Publisher: "nodeC", Topic: "/u", Subscribers: []string{"nodeA"}},
		{Publisher: "nodeD", Topic: "/rosout", Subscribers: []string{"nodeB"}},
	}

	got, unmatched := Exclude(conns, []string{"nodeA", "/rosout", "ghost"})

	assert.Equal(t, []Connection{
		{Publisher: "nodeC", Topic: "/t", Subscribers: []string{"nodeB"}},
	}, got)
	assert.Equal(t, []string{"ghost"}, unmatched)
	assert.Equal(t, []string{"nodeA", "nodeB"}, conns[1].Subscribers, "input must not be modified")
}

func TestExclude_NoNames(t *testing.T) {
	conns := []Connection{{Publisher: "p", Topic: "/t", Subscribers: []string{"s"}}}

	got, unmatched := Exclude(conns, nil)

	assert.Equal(t, conns, got)
	assert.Empty(t, unmatched)
}

func TestParseExclusions(t *testing.T) {
	assert.Equal(t, []string{"nodeA", "/tf"}, ParseExclusions("nodeA, /tf,,"))
	assert.Empty(t, ParseExclusions(""))
}
