package nowarngraph

import (
	mapset "github.com/deckarep/golang-set/v2"
)

// PackageSuppressions maps a [PackageId] to the set of diagnostic codes suppressed for that
// specific package.  A nil map and a missing key are both treated as "no codes suppressed".
type PackageSuppressions map[PackageId]mapset.Set[Code]

// Merge returns the per-key union of the two maps.  If either map is empty the other is returned
// as-is.  Neither input is modified; the returned map may share code sets with the inputs, so
// callers must treat the sets as immutable.
func (ps PackageSuppressions) Merge(other PackageSuppressions) PackageSuppressions {
	if len(other) == 0 {
		return ps
	}
	if len(ps) == 0 {
		return other
	}
	ret := make(PackageSuppressions, len(ps)+len(other))
	for id, cs := range ps {
		ret[id] = cs
	}
	for id, cs := range other {
		ret[id] = unionCodes(ret[id], cs)
	}
	return ret
}

// Intersect returns the per-key intersection of the two maps over the union of their keys.  A key
// missing from one side keeps the other side's codes: a nil side means "no constraint yet", not
// "nothing suppressed".  (This matters in the admission cache, where an intersection must not
// collapse unknown entries to empty prematurely.)  If either map is nil the other is returned
// as-is.
func (ps PackageSuppressions) Intersect(other PackageSuppressions) PackageSuppressions {
	if ps == nil {
		return other
	}
	if other == nil {
		return ps
	}
	ret := make(PackageSuppressions, max(len(ps), len(other)))
	for id, cs := range ps {
		if ocs, ok := other[id]; ok {
			ret[id] = intersectCodes(cs, ocs)
		} else {
			ret[id] = cs
		}
	}
	for id, cs := range other {
		if _, ok := ps[id]; !ok {
			ret[id] = cs
		}
	}
	return ret
}

// SubsetOf reports whether every code suppressed by ps for some package is also suppressed by
// other for that package.  An empty (or nil) ps is a subset of anything.
func (ps PackageSuppressions) SubsetOf(other PackageSuppressions) bool {
	for id, cs := range ps {
		if cs == nil || cs.IsEmpty() {
			continue
		}
		ocs := other[id]
		if ocs == nil || !cs.IsSubset(ocs) {
			return false
		}
	}
	return true
}

// Equal reports whether the two maps suppress the same codes for the same packages.  A nil or
// empty code set compares equal to a missing key.
func (ps PackageSuppressions) Equal(other PackageSuppressions) bool {
	for id, cs := range ps {
		if !codesEqual(cs, other[id]) {
			return false
		}
	}
	for id, cs := range other {
		if _, ok := ps[id]; !ok && !codesEqual(cs, nil) {
			return false
		}
	}
	return true
}

// IsEmpty reports whether no package has any suppressed code.
func (ps PackageSuppressions) IsEmpty() bool {
	for _, cs := range ps {
		if cs != nil && !cs.IsEmpty() {
			return false
		}
	}
	return true
}

// WarnProperties is the warning configuration carried by a node, or accumulated along a path in
// the graph walk: a set of codes suppressed for every package, plus codes suppressed only for
// specific packages.  Either component may be nil, which is treated as empty everywhere except in
// the admission cache's intersection, where nil means "unknown so far" (see
// [WarnProperties.Intersect]).
type WarnProperties struct {
	ProjectWide     mapset.Set[Code]
	PackageSpecific PackageSuppressions
}

// Merge returns the union of the two configurations: the project-wide sets are unioned and the
// package-specific maps are merged per key.  This is how a project node on a path adds its own
// configuration to the suppression accumulated so far.
func (w WarnProperties) Merge(other WarnProperties) WarnProperties {
	return WarnProperties{
		ProjectWide:     unionCodes(w.ProjectWide, other.ProjectWide),
		PackageSpecific: w.PackageSpecific.Merge(other.PackageSpecific),
	}
}

// Intersect returns the component-wise intersection of the two configurations, with nil components
// meaning "no constraint yet" (the other side's value is kept).  The graph walk stores the
// intersection of competing paths in its seen map: future admissions only need to distinguish what
// both prior paths still share.
func (w WarnProperties) Intersect(other WarnProperties) WarnProperties {
	return WarnProperties{
		ProjectWide:     intersectCodes(w.ProjectWide, other.ProjectWide),
		PackageSpecific: w.PackageSpecific.Intersect(other.PackageSpecific),
	}
}

// SubsetOf reports whether w suppresses nothing beyond what other suppresses: the project-wide set
// must be a subset, and every package-specific entry must be covered.  A path whose accumulated
// configuration is a subset of an already-admitted configuration cannot contribute new suppression
// and need not be expanded again.
func (w WarnProperties) SubsetOf(other WarnProperties) bool {
	return codesSubset(w.ProjectWide, other.ProjectWide) && w.PackageSpecific.SubsetOf(other.PackageSpecific)
}

// Equal reports structural equality, treating nil components as empty.
func (w WarnProperties) Equal(other WarnProperties) bool {
	return codesEqual(w.ProjectWide, other.ProjectWide) && w.PackageSpecific.Equal(other.PackageSpecific)
}

// IsEmpty reports whether the configuration suppresses nothing at all.
func (w WarnProperties) IsEmpty() bool {
	return (w.ProjectWide == nil || w.ProjectWide.IsEmpty()) && w.PackageSpecific.IsEmpty()
}

// Effective returns the codes this configuration suppresses for the given package: the
// project-wide codes plus any codes specific to that package.
func (w WarnProperties) Effective(id PackageId) mapset.Set[Code] {
	return unionCodes(w.ProjectWide, w.PackageSpecific[id])
}

// unionCodes returns the union of two code sets.  If either set is nil the other is returned
// as-is, and if the sets are equal by content one of them is returned rather than a fresh copy.
func unionCodes(a, b mapset.Set[Code]) mapset.Set[Code] {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if a.Equal(b) {
		return a
	}
	return a.Union(b)
}

// intersectCodes returns the intersection of two code sets.  A nil set means "no constraint yet",
// so if either set is nil the other is returned as-is.
func intersectCodes(a, b mapset.Set[Code]) mapset.Set[Code] {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if a.Equal(b) {
		return a
	}
	return a.Intersect(b)
}

// codesSubset reports whether a is a subset of b, treating nil as empty.
func codesSubset(a, b mapset.Set[Code]) bool {
	if a == nil || a.IsEmpty() {
		return true
	}
	if b == nil {
		return false
	}
	return a.IsSubset(b)
}

// codesEqual reports whether a and b contain the same codes, treating nil as empty.
func codesEqual(a, b mapset.Set[Code]) bool {
	if a == nil {
		return b == nil || b.IsEmpty()
	}
	if b == nil {
		return a.IsEmpty()
	}
	return a.Equal(b)
}
