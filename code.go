package nowarngraph

import (
	"slices"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

// A Code identifies a restore diagnostic (e.g., a warning number such as "NW1603").  Codes are
// opaque to this package; they are only compared for set membership.  Comparison is
// case-insensitive, which [ParseCode] implements by canonicalizing to upper case.
type Code string

// ParseCode canonicalizes a diagnostic code string to a [Code].  Leading and trailing whitespace is
// removed and the remainder is converted to upper case so that two spellings of the same code
// compare equal.
func ParseCode(s string) Code {
	return Code(strings.ToUpper(strings.TrimSpace(s)))
}

// CodeCompare is used to sort a collection of [Code] values.
func CodeCompare(a, b Code) int {
	return strings.Compare(string(a), string(b))
}

// Codes constructs a set of [Code] values from the given strings.  Each string is canonicalized via
// [ParseCode].  Returns nil if no strings are given; this package treats a nil set the same as an
// empty set.
func Codes(ss ...string) mapset.Set[Code] {
	if len(ss) == 0 {
		return nil
	}
	ret := mapset.NewThreadUnsafeSetWithSize[Code](len(ss))
	for _, s := range ss {
		ret.Add(ParseCode(s))
	}
	return ret
}

// SortedCodes returns the codes in the given set sorted by [CodeCompare].  A nil set yields nil.
func SortedCodes(cs mapset.Set[Code]) []Code {
	if cs == nil {
		return nil
	}
	return slices.SortedFunc(mapset.Elements(cs), CodeCompare)
}
