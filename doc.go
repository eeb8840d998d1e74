// Package nowarngraph computes the transitive warning suppressions of a project from its resolved
// dependency graphs.
//
// # Quick Start
//
// (The following is also available as a package-level example.)
//
// Obtain a resolution document, either from a file via [LoadDocument], from a build tool's output
// via [DocumentFromTool], or from bytes via [ParseDocument]:
//
//	doc, err := nowarngraph.LoadDocument("obj/resolution.json")
//	if err != nil {
//		return err
//	}
//
// Use [Resolve] to compute the per-framework, per-package suppressed codes:
//
//	res := nowarngraph.Resolve(doc.Graphs, doc.Project, nil)
//
// Then examine the result:
//
//	for _, fw := range res.Frameworks {
//		for id, codes := range res.PackageSpecific[fw] {
//			fmt.Printf("%v %v %v\n", fw, id, nowarngraph.SortedCodes(codes))
//		}
//	}
//
// # Introduction
//
// Build systems let a project suppress diagnostic codes raised while restoring its dependencies.
// Suppressions can be declared project-wide (every code in the project's NoWarn list is silenced
// for every package) or per package (a code is silenced only for a named package, optionally only
// for some target frameworks).
//
// Suppressions become interesting when projects reference other projects.  If the consuming
// project references library project B, and B suppresses a code for one of its own dependencies,
// should the consumer's restore silence that code too?  The answer the resolver implements is:
// only if every chain of references from the consumer to the affected package suppresses it.  A
// suppression declared somewhere along one path must not hide a warning that a second,
// non-suppressing path would have surfaced.
//
// Concretely, walking from the consuming project toward a package:
//
//   - Along a single path, suppressions accumulate.  Each project node on the path contributes its
//     own configuration, so the set of suppressed codes grows (union).
//   - Across competing paths to the same package, suppressions must agree.  Only the codes
//     suppressed on every path survive (intersection).
//
// This union-along-a-path, intersect-across-paths asymmetry is the heart of the computation.  It
// is also why the result cannot be read off the graph locally; a package deep in the graph may
// lose a suppression because of an unrelated shallow edge that reaches it without suppressing
// anything.
//
// The consuming project's own project-wide suppressions are in effect everywhere already, so the
// result's per-package sets are the interesting output; see [TransitiveNoWarn].
//
// # Terminology
//
//   - The consuming project (or parent) is the project whose restore is being resolved.  It is the
//     root of every graph and the source of the seed configuration.
//   - A resolution document ([Document]) is the consuming project's restore spec plus its resolved
//     dependency graphs, one [TargetGraph] per (framework, runtime identifier) pair.
//   - A framework-only graph is a [TargetGraph] with an empty runtime identifier.  Graphs with a
//     runtime identifier describe runtime-specific asset selection, carry no warning configuration
//     of their own, and are skipped by [Resolve].
//   - A project node is a graph node backed by another project in the same build, carrying that
//     project's own [ProjectSpec].  A package node is anything else (a node restored from a
//     package feed).  Only project nodes contribute suppressions; only package nodes appear in the
//     result.
//   - A path configuration ([WarnProperties]) is the warning configuration accumulated along one
//     path from the consuming project to a node: a project-wide code set plus per-package code
//     sets.
//   - The effective suppressions of a path at a package are the union of the path's project-wide
//     codes and the codes the path declares for that specific package.
//
// # Resolution Behavior
//
// [Resolve] processes each framework-only graph independently and unions the per-graph results per
// framework.  For one graph it does the following:
//
//  1. Seed a breadth-first walk at the consuming project with the project's configuration
//     restricted to the graph's framework.
//  2. On reaching a project node, select the referenced project's nearest compatible framework
//     (see [NearestFunc]), slice its declared configuration to that framework, and union the slice
//     into the path configuration before expanding the node's edges.  If no declared framework is
//     compatible, the project contributes nothing, but its edges are still traversed.
//  3. On reaching a package node, intersect the path's effective suppressions for that package
//     with whatever earlier paths established.  If the intersection is empty the package is
//     settled as unsuppressed and can never re-enter the result.
//  4. On revisiting any node, compare the incoming path configuration with the configuration
//     stored at the node.  If the incoming configuration is a subset of the stored one, the
//     revisit is refused; such a path cannot withhold any suppression beyond what has already been
//     propagated.  Otherwise the stored configuration is replaced with the intersection of the two
//     and the node is expanded again.  Expanding a node queues only those of its dependencies that
//     have not been reached yet, which makes the walk terminate on cyclic graphs.
//
// The walk also stops early once every package node in the graph has been settled, which matters
// for large graphs whose projects cluster near the root.
//
// Dependency edges that reference an id with no corresponding node in the graph are ignored.  Ids,
// codes, and framework monikers are case-insensitive; the Parse functions canonicalize them.
//
// # Frameworks
//
// A referenced project may target different frameworks than the consumer.  Which declared
// framework's configuration applies is an ecosystem policy question, so the resolver delegates it
// to a caller-supplied [NearestFunc].  [NearestExact] (the default) only matches identical
// frameworks and treats a project with no declared frameworks as unconstrained.
//
// # Exact Resolution
//
// [ResolveSat] answers the same question by a different route: it encodes graph reachability as a
// propositional formula and asks, per package and candidate code, whether a path from the
// consuming project avoids every declaration of that code.  It is slower and exists mainly as an
// independent oracle for testing [Resolve]; the two agree on well-behaved graphs.
//
// # Walking Graphs
//
// Independent of resolution, [WalkTargetGraph] visits the nodes and edges of a [TargetGraph] in
// parallel while preserving topological callback ordering, and [AllGraphNodes] exposes the same
// walk as an iterator.
package nowarngraph
