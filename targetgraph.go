package nowarngraph

import (
	"fmt"
)

// A GraphNode is one flattened entry of a resolved dependency graph: a package or project at a
// specific version, together with its outgoing dependency edges.  Project nodes additionally carry
// a reference to the project's own restore spec.
type GraphNode struct {
	// Identity is the node's package id and resolved version.  The id must be non-empty.
	Identity PackageIdentity

	// Project reports whether this node is a project reference rather than a package.
	Project bool

	// Outgoing lists the ids of the node's direct dependencies within the same graph.  Edges
	// referencing an id that has no corresponding node in the graph are silently ignored.
	Outgoing []PackageId

	// Spec is the referenced project's own restore spec.  It must be non-nil when Project is
	// true and is ignored otherwise.
	Spec *ProjectSpec
}

// Id returns the node's package id.
func (n *GraphNode) Id() PackageId {
	return n.Identity.Id
}

func (n *GraphNode) String() string {
	return n.Identity.String()
}

// GraphNodeCompare is used to sort a collection of [GraphNode] values.  It returns the return
// value of [PackageIdentityCompare] applied to the nodes' identities.
func GraphNodeCompare(a, b *GraphNode) int {
	return PackageIdentityCompare(a.Identity, b.Identity)
}

// A TargetGraph is the resolved dependency graph of the consuming project for one target
// framework (and optionally one runtime identifier), presented as a flat list of nodes.  The graph
// is directed and may be cyclic.
type TargetGraph struct {
	// Framework is the target framework this graph was resolved for.
	Framework Framework

	// RuntimeId is the runtime identifier this graph was resolved for, or the empty string for
	// the framework-only graph.  Runtime-qualified graphs carry no warning configuration of
	// their own and are skipped by [Resolve].
	RuntimeId string

	// Nodes are the flattened entries of the graph, including the consuming project itself.
	Nodes []GraphNode
}

// Lookup returns a map from package id to node.  It panics if any node has an empty id or if a
// project node is missing its spec payload; both indicate a malformed graph supplied by the
// caller, not a recoverable input condition.
func (g *TargetGraph) Lookup() map[PackageId]*GraphNode {
	ret := make(map[PackageId]*GraphNode, len(g.Nodes))
	for i := range g.Nodes {
		n := &g.Nodes[i]
		if n.Id() == "" {
			panic(fmt.Errorf("graph for framework %v contains a node with an empty id", g.Framework))
		}
		if n.Project && n.Spec == nil {
			panic(fmt.Errorf("project node %v is missing its spec payload", n))
		}
		ret[n.Id()] = n
	}
	return ret
}
