package nowarngraph

import (
	"log/slog"

	mapset "github.com/deckarep/golang-set/v2"
)

// An indexEntry is the per-node view of a [TargetGraph] used by the walk: the node's outgoing
// edges, whether it is a project, and (for projects whose nearest compatible framework resolved)
// the project's own warning configuration.
type indexEntry struct {
	outgoing []PackageId
	project  bool
	warn     *WarnProperties
}

// buildIndex flattens the graph into a lookup keyed by package id, computes each project node's
// warning configuration at its nearest compatible framework, and collects the set of package (not
// project) ids in the graph.
func buildIndex(g *TargetGraph, cache *warnPropsCache, nearest NearestFunc) (map[PackageId]indexEntry, mapset.Set[PackageId]) {
	nodes := g.Lookup()
	index := make(map[PackageId]indexEntry, len(nodes))
	closure := mapset.NewThreadUnsafeSetWithSize[PackageId](len(nodes))
	for id, n := range nodes {
		ent := indexEntry{outgoing: n.Outgoing, project: n.Project}
		if n.Project {
			if fw, ok := nearest(n.Spec.Frameworks, g.Framework); ok {
				w := cache.get(n.Spec, fw)
				ent.warn = &w
			} else {
				// The project declares no framework compatible with this graph's framework.
				// Its edges are still traversed, but it contributes no suppression.
				slog.Debug("no compatible framework for transitive project",
					"project", n.Spec.Id, "framework", g.Framework)
			}
		} else {
			closure.Add(id)
		}
		index[id] = ent
	}
	return index, closure
}

// A pathNode is a queued walk step: a node to expand, together with the warning configuration
// accumulated along the path that led to it.
type pathNode struct {
	id   PackageId
	path WarnProperties
}

// admit decides whether a dequeued node should be expanded.  A node is admitted on first sight.  A
// revisit is refused when the incoming path configuration is a subset of the previously admitted
// one: such a path cannot contribute any suppression beyond what has already been propagated.
// Otherwise the stored entry is replaced with the intersection of the two configurations and the
// node is admitted again.  A replacement does not always shrink the entry (the package-specific
// intersection keeps keys present on only one side); the walk terminates on cyclic graphs because
// [transitiveNoWarn] only queues nodes that are not yet in seen.
func admit(seen map[PackageId]WarnProperties, n pathNode) bool {
	prior, ok := seen[n.id]
	if !ok {
		seen[n.id] = n.path
		return true
	}
	if n.path.SubsetOf(prior) {
		return false
	}
	seen[n.id] = n.path.Intersect(prior)
	return true
}

// transitiveNoWarn walks one resolved graph breadth-first from the consuming project and returns,
// for each package in the graph, the codes suppressed along every path from the project to that
// package.  Project nodes on a path union their configuration into the path; competing paths to
// the same package intersect.  Packages whose intersection empties are dropped from the running
// closure, and the walk terminates as soon as every package has been settled.
func transitiveNoWarn(g *TargetGraph, parent *ProjectSpec, cache *warnPropsCache, nearest NearestFunc) PackageSuppressions {
	index, closure := buildIndex(g, cache, nearest)
	parentId := parent.Id
	seed := WarnProperties{
		ProjectWide:     parent.ProjectWide,
		PackageSpecific: parent.PackageSpecific.ForFramework(g.Framework),
	}
	seen := map[PackageId]WarnProperties{parentId: seed}
	var queue []pathNode
	for _, dep := range index[parentId].outgoing {
		queue = append(queue, pathNode{id: dep, path: seed})
	}
	result := PackageSuppressions{}
	for len(queue) > 0 && !closure.IsEmpty() {
		n := queue[0]
		queue = queue[1:]
		ent, ok := index[n.id]
		if !ok {
			// Dangling edge; nothing to do.
			continue
		}
		if !admit(seen, n) {
			continue
		}
		switch {
		case ent.project:
			merged := n.path
			if ent.warn != nil {
				merged = n.path.Merge(*ent.warn)
			}
			for _, dep := range ent.outgoing {
				if _, ok := seen[dep]; !ok {
					queue = append(queue, pathNode{id: dep, path: merged})
				}
			}
		case closure.Contains(n.id):
			effective := n.path.Effective(n.id)
			if prior, ok := result[n.id]; ok {
				effective = intersectCodes(prior, effective)
			}
			if effective == nil || effective.IsEmpty() {
				// A path reached this package without suppressing anything; intersection
				// can never grow, so the package is settled as unsuppressed.
				delete(result, n.id)
				closure.Remove(n.id)
			} else {
				result[n.id] = effective
			}
			// Packages do not contribute configuration of their own; the path value passes
			// through unchanged.
			for _, dep := range ent.outgoing {
				if _, ok := seen[dep]; !ok {
					queue = append(queue, pathNode{id: dep, path: n.path})
				}
			}
		default:
			// A package already settled as unsuppressed.  Its edges were enqueued when it was
			// first expanded.
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}
