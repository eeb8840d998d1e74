package nowarngraph

import (
	"slices"

	"github.com/crillab/gophersat/solver"
	mapset "github.com/deckarep/golang-set/v2"
)

// ResolveSat computes the same result as [Resolve] by encoding each question "does a dependency
// path exist from the consuming project to this package that never suppresses this code" as a
// Boolean satisfiability problem and solving it with a SAT solver.  A code is transitively
// suppressed for a package exactly when no such avoiding path exists.
//
// Reachability is encoded by unrolling: variables R(k, n) assert that node n is reachable from the
// consuming project in at most k steps while traversing only nodes that do not suppress the code,
// with each level defined from the previous by a biconditional.  The unrolled formula has exactly
// one model, so the solver's model directly reads off the fixpoint.
//
// This is a slow reference implementation, useful for cross-checking [Resolve] on small graphs.
// It solves one SAT problem per (package, code) pair.
func ResolveSat(graphs []TargetGraph, parent *ProjectSpec, nearest NearestFunc) *TransitiveNoWarn {
	if nearest == nil {
		nearest = NearestExact
	}
	cache := newWarnPropsCache()
	ret := &TransitiveNoWarn{PackageSpecific: map[Framework]PackageSuppressions{}}
	for i := range graphs {
		g := &graphs[i]
		if g.RuntimeId != "" {
			continue
		}
		res := satNoWarn(g, parent, cache, nearest)
		if prior, ok := ret.PackageSpecific[g.Framework]; ok {
			ret.PackageSpecific[g.Framework] = prior.Merge(res)
		} else {
			ret.PackageSpecific[g.Framework] = res
		}
		if !slices.Contains(ret.Frameworks, g.Framework) {
			ret.Frameworks = append(ret.Frameworks, g.Framework)
		}
	}
	return ret
}

func satNoWarn(g *TargetGraph, parent *ProjectSpec, cache *warnPropsCache, nearest NearestFunc) PackageSuppressions {
	index, closure := buildIndex(g, cache, nearest)
	if _, ok := index[parent.Id]; !ok {
		return nil
	}
	seed := WarnProperties{
		ProjectWide:     parent.ProjectWide,
		PackageSpecific: parent.PackageSpecific.ForFramework(g.Framework),
	}
	// Enumerate the nodes reachable from the consuming project, in a deterministic order.
	reachable := slices.SortedFunc(AllGraphNodes(g, parent.Id), GraphNodeCompare)
	ids := make([]PackageId, 0, len(reachable))
	for _, n := range reachable {
		ids = append(ids, n.Id())
	}
	// Collect the candidate codes: a code nobody suppresses cannot survive an intersection over
	// paths, so only codes appearing in the parent's or some reachable project's configuration
	// need to be checked.
	candidates := mapset.NewThreadUnsafeSet[Code]()
	addCandidates := func(w WarnProperties) {
		if w.ProjectWide != nil {
			candidates = candidates.Union(w.ProjectWide)
		}
		for _, cs := range w.PackageSpecific {
			if cs != nil {
				candidates = candidates.Union(cs)
			}
		}
	}
	addCandidates(seed)
	for _, id := range ids {
		if ent := index[id]; ent.warn != nil {
			addCandidates(*ent.warn)
		}
	}
	var result PackageSuppressions
	for _, p := range ids {
		if !closure.Contains(p) || p == parent.Id {
			continue
		}
		var codes mapset.Set[Code]
		for c := range mapset.Elements(candidates) {
			if !avoidingPathExists(index, ids, parent.Id, seed, p, c) {
				if codes == nil {
					codes = mapset.NewThreadUnsafeSet[Code]()
				}
				codes.Add(c)
			}
		}
		if codes != nil && !codes.IsEmpty() {
			if result == nil {
				result = PackageSuppressions{}
			}
			result[p] = codes
		}
	}
	return result
}

// avoidingPathExists reports whether a path from the consuming project to target exists that never
// suppresses code (neither project-wide nor specifically for target) at any traversed node.
func avoidingPathExists(index map[PackageId]indexEntry, ids []PackageId, parentId PackageId,
	seed WarnProperties, target PackageId, code Code) bool {

	passes := func(id PackageId) bool {
		if id == parentId {
			eff := seed.Effective(target)
			return eff == nil || !eff.Contains(code)
		}
		ent := index[id]
		if !ent.project || ent.warn == nil {
			return true
		}
		eff := ent.warn.Effective(target)
		return eff == nil || !eff.Contains(code)
	}
	if !passes(parentId) {
		// Every path starts at the consuming project, so no path can avoid the code.
		return false
	}
	nodeVar := map[PackageId]int{}
	for i, id := range ids {
		nodeVar[id] = i
	}
	// Incoming edges from passing sources, restricted to the reachable node set.
	incoming := map[PackageId][]PackageId{}
	for _, id := range ids {
		if !passes(id) {
			continue
		}
		for _, dep := range index[id].outgoing {
			if _, ok := nodeVar[dep]; ok {
				incoming[dep] = append(incoming[dep], id)
			}
		}
	}
	levels := len(ids)
	lit := func(level int, id PackageId) int {
		return int(solver.Var(level*len(ids) + nodeVar[id]).Int())
	}
	constrs := []solver.PBConstr{
		// Level zero: only the consuming project is reachable in zero steps.
		solver.PropClause(lit(0, parentId)),
	}
	for _, id := range ids {
		if id != parentId {
			constrs = append(constrs, solver.PropClause(-lit(0, id)))
		}
	}
	// Each level is the previous level plus one hop from a passing source.  The biconditional
	// makes the model unique, so a plain Solve yields the reachability fixpoint.
	for level := 0; level < levels; level++ {
		for _, id := range ids {
			next := lit(level+1, id)
			cur := lit(level, id)
			expand := []int{-next, cur}
			constrs = append(constrs, solver.PropClause(next, -cur))
			for _, src := range incoming[id] {
				from := lit(level, src)
				expand = append(expand, from)
				constrs = append(constrs, solver.PropClause(next, -from))
			}
			constrs = append(constrs, solver.PropClause(expand...))
		}
	}
	s := solver.New(solver.ParsePBConstrs(constrs))
	if status := s.Solve(); status != solver.Sat {
		panic("bug: the reachability encoding is always satisfiable")
	}
	model := s.Model()
	return model[levels*len(ids)+nodeVar[target]]
}
