package emit

import (
	"fmt"

	"github.com/cloudblocks/tfgen/infra"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/simple"
)

type dotNode struct {
	id   int64
	node infra.Node
}

func (n dotNode) ID() int64 { return n.id }
func (n dotNode) DOTID() string { return n.node.UID() }
func (n dotNode) Attributes() []encoding.Attribute {
	return []encoding.Attribute{
		{Key: "label", Value: fmt.Sprintf("%q", n.node.UID()+"\n"+string(n.node.Kind()))},
		{Key: "shape", Value: "box"},
	}
}

// Dot returns the nodes and their dependencies as a Graphviz graph. Edges
// point from a dependency to the node that depends on it.
func Dot(name string, nodes []infra.Node) ([]byte, error) {
	g := simple.NewDirectedGraph()
	ids := make(map[infra.Node]dotNode)

	var add func(n infra.Node) dotNode
	add = func(n infra.Node) dotNode {
		if dn, ok := ids[n]; ok {
			return dn
		}
		dn := dotNode{id: int64(len(ids)), node: n}
		ids[n] = dn
		g.AddNode(dn)
		for _, d := range n.DependsOn() {
			parent := add(d)
			if parent.id != dn.id {
				g.SetEdge(g.NewEdge(parent, dn))
			}
		}
		return dn
	}
	for _, n := range nodes {
		add(n)
	}

	data, err := dot.Marshal(g, name, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "marshal dot")
	}
	return data, nil
}
