package nowarngraph

import (
	"log/slog"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
)

// A TransitiveNoWarn is the result of resolving a consuming project's transitive warning
// suppressions: for each processed target framework, the packages that retained at least one
// suppressed code across every path from the project to the package.
type TransitiveNoWarn struct {
	// ProjectWide is always nil.  The consuming project's own project-wide suppressions are
	// already globally in effect; this resolver only surfaces the per-package additions that
	// arise transitively.
	ProjectWide mapset.Set[Code]

	// PackageSpecific maps each processed framework to the packages with transitively
	// suppressed codes for that framework.  A framework that was processed but yielded no
	// suppressions maps to an empty (nil) value.
	PackageSpecific map[Framework]PackageSuppressions

	// Frameworks lists the frameworks that were actually processed, in first-encounter order.
	Frameworks []Framework
}

// Codes returns the suppressed codes recorded for the given framework and package, or nil.
func (t *TransitiveNoWarn) Codes(fw Framework, id PackageId) mapset.Set[Code] {
	return t.PackageSpecific[fw][id]
}

// Resolve computes, per target framework of the consuming project, the set of diagnostic codes
// that must be suppressed for each transitive package because every dependency path from the
// project to that package suppresses them.
//
// Graphs with a non-empty runtime identifier are skipped; only framework-only graphs contribute.
// For each remaining graph the consuming project's configuration, restricted to the graph's
// framework, seeds a breadth-first walk (see the package-level documentation for the merge and
// intersection rules), and the per-walk results are unioned per framework.
//
// The nearest argument selects a referenced project's framework slice relative to the consumer's
// framework; if nil, [NearestExact] is used.
//
// Resolve is a pure in-memory computation: it performs no I/O and is safe to call concurrently
// with other Resolve calls on disjoint inputs.
func Resolve(graphs []TargetGraph, parent *ProjectSpec, nearest NearestFunc) *TransitiveNoWarn {
	if nearest == nil {
		nearest = NearestExact
	}
	cache := newWarnPropsCache()
	ret := &TransitiveNoWarn{PackageSpecific: map[Framework]PackageSuppressions{}}
	for i := range graphs {
		g := &graphs[i]
		if g.RuntimeId != "" {
			slog.Debug("skipping runtime-qualified graph",
				"framework", g.Framework, "runtimeId", g.RuntimeId)
			continue
		}
		res := transitiveNoWarn(g, parent, cache, nearest)
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
