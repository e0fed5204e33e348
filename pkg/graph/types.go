package graph

import (
	"fmt"
	"slices"

	"github.com/matzehuels/glyphgraph/pkg/glyph"
	"github.com/matzehuels/glyphgraph/pkg/grid"
)

// =============================================================================
// Node
// =============================================================================

// Node is one glyph in the published graph.
type Node struct {
	Name        string    `json:"name" yaml:"name" bson:"name"`
	Connections []string  `json:"connections" yaml:"connections" bson:"connections"`
	Center      grid.Cell `json:"center" yaml:"center" bson:"center"`
}

// =============================================================================
// Graph
// =============================================================================

// Graph is the ordered node list. Order matches glyph ids.
type Graph []Node

// NodeCount returns the number of nodes.
func (g Graph) NodeCount() int { return len(g) }

// EdgeCount returns the number of undirected edges.
func (g Graph) EdgeCount() int {
	n := 0
	for _, node := range g {
		n += len(node.Connections)
	}
	return n
}

// Lookup returns the node named name.
func (g Graph) Lookup(name string) (Node, bool) {
	for _, n := range g {
		if n.Name == name {
			return n, true
		}
	}
	return Node{}, false
}

// Incoming returns the names of the nodes that list name as a connection,
// in graph order. Together with the node's own connections these are all of
// its neighbors.
func (g Graph) Incoming(name string) []string {
	var in []string
	for _, n := range g {
		if slices.Contains(n.Connections, name) {
			in = append(in, n.Name)
		}
	}
	return in
}

// Neighbors returns every node connected to name, sorted.
func (g Graph) Neighbors(name string) []string {
	var out []string
	if n, ok := g.Lookup(name); ok {
		out = append(out, n.Connections...)
	}
	out = append(out, g.Incoming(name)...)
	slices.Sort(out)
	return slices.Compact(out)
}

// Validate checks that names are unique, non-empty, and that every
// connection names a later node.
func (g Graph) Validate() error {
	index := make(map[string]int, len(g))
	for i, n := range g {
		if n.Name == "" {
			return fmt.Errorf("node %d has no name", i)
		}
		if _, dup := index[n.Name]; dup {
			return fmt.Errorf("duplicate node name %q", n.Name)
		}
		index[n.Name] = i
	}
	for i, n := range g {
		for _, c := range n.Connections {
			j, ok := index[c]
			if !ok {
				return fmt.Errorf("node %q connects to unknown node %q", n.Name, c)
			}
			if j <= i {
				return fmt.Errorf("node %q lists earlier or same node %q", n.Name, c)
			}
		}
	}
	return nil
}

// =============================================================================
// Assembly
// =============================================================================

// Assemble builds the published graph from components in id order and their
// reachability. Node i lists the sorted names of the reachable components
// with an id greater than i, so every edge appears once.
func Assemble(comps []glyph.Component, reach glyph.Reachability) Graph {
	out := make(Graph, len(comps))
	for i, c := range comps {
		conns := []string{}
		if c.ID < len(reach) {
			for _, id := range reach[c.ID] {
				if id > c.ID {
					conns = append(conns, comps[id].Name)
				}
			}
		}
		slices.Sort(conns)
		out[i] = Node{Name: c.Name, Connections: conns, Center: c.Center}
	}
	return out
}
