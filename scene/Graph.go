package scene

import (
	"fmt"
)

// Graph is a scene tree together with the name→node table used to
// resolve every named entity reference. The table is built once, so
// unresolvable references are caught when actors, rewards, and
// sensors are constructed rather than when they are first evaluated.
type Graph struct {
	root   *Node
	nodes  []*Node
	byName map[string]*Node
}

// NewGraph builds the name table of the tree rooted at root. Node names
// must be unique and non-empty. The current transform of every node is
// recorded as its initial transform.
func NewGraph(root *Node) (*Graph, error) {
	if root == nil {
		return nil, fmt.Errorf("newGraph: nil root")
	}

	g := &Graph{root: root, byName: make(map[string]*Node)}
	var err error
	root.Walk(func(n *Node) {
		if err != nil {
			return
		}
		if n.name == "" {
			if n.parent == nil {
				err = fmt.Errorf("newGraph: root node has no name")
			} else {
				err = fmt.Errorf("newGraph: node with empty name under %q",
					n.parent.Name())
			}
			return
		}
		if _, ok := g.byName[n.name]; ok {
			err = fmt.Errorf("newGraph: duplicate node name %q", n.name)
			return
		}
		g.byName[n.name] = n
		g.nodes = append(g.nodes, n)
		n.Capture()
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

// Root returns the root node of the scene
func (g *Graph) Root() *Node {
	return g.root
}

// Nodes returns every node of the scene in depth-first order
func (g *Graph) Nodes() []*Node {
	return g.nodes
}

// Len returns the number of nodes in the scene
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Lookup returns the node with the given name
func (g *Graph) Lookup(name string) (*Node, bool) {
	n, ok := g.byName[name]
	return n, ok
}

// Entity returns the node with the given name as an Entity, or nil if
// no such node exists. The empty name always resolves to nil.
func (g *Graph) Entity(name string) Entity {
	if name == "" {
		return nil
	}
	if n, ok := g.byName[name]; ok {
		return n
	}
	return nil
}
