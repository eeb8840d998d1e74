package nowarngraph

import (
	mapset "github.com/deckarep/golang-set/v2"
)

// SuppressionItems is the raw, declaration-shaped form of a project's package-specific warning
// configuration: for each diagnostic code, the packages it is suppressed for, and for each such
// package, the frameworks the suppression applies to.  This mirrors how per-package suppressions
// are declared in a project file (one item per code/package pair, optionally conditioned on a
// framework).  A nil framework set means the suppression applies to every framework.
type SuppressionItems map[Code]map[PackageId]mapset.Set[Framework]

// ForFramework reindexes the declaration-shaped items into a [PackageSuppressions] restricted to
// the given framework.  Returns nil if nothing applies.
func (si SuppressionItems) ForFramework(fw Framework) PackageSuppressions {
	var ret PackageSuppressions
	for code, byId := range si {
		for id, fws := range byId {
			if fws != nil && !fws.Contains(fw) {
				continue
			}
			if ret == nil {
				ret = PackageSuppressions{}
			}
			cs := ret[id]
			if cs == nil {
				cs = mapset.NewThreadUnsafeSet[Code]()
				ret[id] = cs
			}
			cs.Add(code)
		}
	}
	return ret
}

// ByFramework reindexes the declaration-shaped items into one [PackageSuppressions] per framework.
// Items that apply to every framework (nil framework set) are not expanded here; use
// [SuppressionItems.ForFramework] with a concrete framework instead.
func (si SuppressionItems) ByFramework() map[Framework]PackageSuppressions {
	ret := map[Framework]PackageSuppressions{}
	for code, byId := range si {
		for id, fws := range byId {
			if fws == nil {
				continue
			}
			for fw := range mapset.Elements(fws) {
				byFw := ret[fw]
				if byFw == nil {
					byFw = PackageSuppressions{}
					ret[fw] = byFw
				}
				cs := byFw[id]
				if cs == nil {
					cs = mapset.NewThreadUnsafeSet[Code]()
					byFw[id] = cs
				}
				cs.Add(code)
			}
		}
	}
	return ret
}

// A ProjectSpec is the warning-relevant slice of a project's restore specification: its identity,
// the frameworks it targets, and its declared warning configuration.  For the consuming (parent)
// project this is an input to [Resolve]; for transitive projects it is attached to the project's
// node in the flattened graph.
type ProjectSpec struct {
	// Id is the project's identity as it appears in dependency graphs.
	Id PackageId

	// Path is the project's file path.  It is only used as a (case-insensitive) cache key when
	// the same project spec is visited repeatedly across frameworks; if empty, Id is used
	// instead.
	Path string

	// Frameworks are the project's declared target frameworks, used to select the nearest
	// compatible framework relative to the consumer.
	Frameworks []Framework

	// ProjectWide is the set of codes the project suppresses for every package.
	ProjectWide mapset.Set[Code]

	// PackageSpecific is the project's declared per-package suppression configuration.
	PackageSpecific SuppressionItems
}
