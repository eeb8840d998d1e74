package nowarngraph

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// A PackageId identifies a package (or project) in a dependency graph, without regard to version.
// Identifier equality is case-insensitive, which [ParsePackageId] implements by canonicalizing to
// lower case.
type PackageId string

// ParsePackageId canonicalizes a package identifier string to a [PackageId].  Leading and trailing
// whitespace is removed and the remainder is converted to lower case so that two spellings of the
// same identifier compare equal.
func ParsePackageId(s string) PackageId {
	return PackageId(strings.ToLower(strings.TrimSpace(s)))
}

// A PackageIdentity identifies a specific version of a specific package.  The resolver itself keys
// everything by [PackageId] (a resolved graph contains at most one version of each package); the
// version is carried for display and for callers that want to relate the suppression map back to
// the resolved selection.
type PackageIdentity struct {
	Id      PackageId
	Version string
}

// NewPackageIdentity constructs a new [PackageIdentity] from its id and version components.  The
// id is canonicalized via [ParsePackageId].
func NewPackageIdentity(id, ver string) PackageIdentity {
	return PackageIdentity{Id: ParsePackageId(id), Version: ver}
}

// ParsePackageIdentity breaks an "id[@version]" string into its id and version components.
func ParsePackageIdentity(idVer string) PackageIdentity {
	parts := append(strings.SplitN(idVer, "@", 2), "")
	return NewPackageIdentity(parts[0], parts[1])
}

// Check asserts that the id is non-empty and the version, if present, is canonical semver.
func (p PackageIdentity) Check() error {
	if p.Id == "" {
		return errors.New("package id is the empty string")
	}
	got := p.Version
	if got == "" {
		return nil
	}
	if want := semver.Canonical(got) + semver.Build(got); !semver.IsValid(got) || got != want {
		return fmt.Errorf("version is non-canonical; got %v, want %v", got, want)
	}
	return nil
}

func (p PackageIdentity) String() string {
	if p.Version == "" {
		return string(p.Id)
	}
	return string(p.Id) + "@" + p.Version
}

// PackageIdentityCompare returns [strings.Compare] using each [PackageIdentity]'s id if the two
// ids differ, otherwise it returns [semver.Compare] using each [PackageIdentity]'s version.
func PackageIdentityCompare(a, b PackageIdentity) int {
	if cmp := strings.Compare(string(a.Id), string(b.Id)); cmp != 0 {
		return cmp
	}
	return semver.Compare(a.Version, b.Version)
}
