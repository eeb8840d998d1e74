package nowarngraph

import (
	"slices"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

// A Framework identifies a target runtime profile (e.g., "net6.0").  A project's warning
// configuration is sliced per [Framework], and the resolver produces one suppression map per
// [Framework] of the consuming project.
//
// Framework equality is case-insensitive, which [ParseFramework] implements by canonicalizing to
// lower case.  Deciding whether two different frameworks are compatible is delegated to the caller
// via a [NearestFunc].
type Framework string

// ParseFramework canonicalizes a framework moniker string to a [Framework].  Leading and trailing
// whitespace is removed and the remainder is converted to lower case so that two spellings of the
// same framework compare equal.
func ParseFramework(s string) Framework {
	return Framework(strings.ToLower(strings.TrimSpace(s)))
}

// FrameworkCompare is used to sort a collection of [Framework] values.
func FrameworkCompare(a, b Framework) int {
	return strings.Compare(string(a), string(b))
}

// Frameworks constructs a set of [Framework] values from the given strings.  Each string is
// canonicalized via [ParseFramework].  Returns nil if no strings are given; in declaration-shaped
// configuration a nil framework set means "applies to every framework".
func Frameworks(ss ...string) mapset.Set[Framework] {
	if len(ss) == 0 {
		return nil
	}
	ret := mapset.NewThreadUnsafeSetWithSize[Framework](len(ss))
	for _, s := range ss {
		ret.Add(ParseFramework(s))
	}
	return ret
}

// A NearestFunc selects the best match for the desired [Framework] among the frameworks declared
// by a referenced project.  The boolean result reports whether any declared framework is
// compatible with the desired framework; if it is false, the referenced project contributes no
// warning configuration to paths that traverse it (its edges are still traversed).
//
// Framework compatibility rules live outside this package; callers supply whatever policy their
// ecosystem defines.  [NearestExact] is a simple policy suitable for tests and for inputs whose
// frameworks have already been aligned.
type NearestFunc func(declared []Framework, desired Framework) (Framework, bool)

// NearestExact is a [NearestFunc] that matches a declared framework only if it equals the desired
// framework.  A project that declares no frameworks at all is treated as unconstrained and matches
// any desired framework.
func NearestExact(declared []Framework, desired Framework) (Framework, bool) {
	if len(declared) == 0 {
		return desired, true
	}
	if slices.Contains(declared, desired) {
		return desired, true
	}
	return "", false
}
