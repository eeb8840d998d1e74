// Package fakegraph makes it easy to construct in-memory resolved dependency graphs and project
// specs to facilitate testing.
package fakegraph

import (
	mapset "github.com/deckarep/golang-set/v2"
	nwg "github.com/rhansen/nowarngraph"
)

// A SpecOption controls the construction of a fake [nwg.ProjectSpec].
type SpecOption func(*nwg.ProjectSpec)

// Path returns an option that sets the project's file path (used as the warning configuration
// cache key).
func Path(path string) SpecOption {
	return func(spec *nwg.ProjectSpec) {
		spec.Path = path
	}
}

// Targets returns an option that sets the project's declared target frameworks.
func Targets(fws ...string) SpecOption {
	return func(spec *nwg.ProjectSpec) {
		spec.Frameworks = nil
		for _, fw := range fws {
			spec.Frameworks = append(spec.Frameworks, nwg.ParseFramework(fw))
		}
	}
}

// Wide returns an option that adds the given codes to the project's project-wide suppressions.
func Wide(codes ...string) SpecOption {
	return func(spec *nwg.ProjectSpec) {
		if cs := nwg.Codes(codes...); cs != nil {
			if spec.ProjectWide == nil {
				spec.ProjectWide = cs
			} else {
				spec.ProjectWide = spec.ProjectWide.Union(cs)
			}
		}
	}
}

// PkgNoWarn returns an option that adds one declared per-package suppression item: code is
// suppressed for the package with the given id, restricted to the given frameworks.  No frameworks
// means the item applies to every framework.
func PkgNoWarn(code, id string, fws ...string) SpecOption {
	return func(spec *nwg.ProjectSpec) {
		c := nwg.ParseCode(code)
		pkgId := nwg.ParsePackageId(id)
		if spec.PackageSpecific == nil {
			spec.PackageSpecific = nwg.SuppressionItems{}
		}
		byId := spec.PackageSpecific[c]
		if byId == nil {
			byId = map[nwg.PackageId]mapset.Set[nwg.Framework]{}
			spec.PackageSpecific[c] = byId
		}
		prior, ok := byId[pkgId]
		switch {
		case !ok:
			byId[pkgId] = nwg.Frameworks(fws...)
		case prior == nil || len(fws) == 0:
			byId[pkgId] = nil
		default:
			byId[pkgId] = prior.Union(nwg.Frameworks(fws...))
		}
	}
}

// Spec constructs a fake [nwg.ProjectSpec] with the given id, modified by the given options.
func Spec(id string, opts ...SpecOption) *nwg.ProjectSpec {
	spec := &nwg.ProjectSpec{Id: nwg.ParsePackageId(id)}
	for _, opt := range opts {
		opt(spec)
	}
	return spec
}

// A GraphOption controls the construction of a fake [nwg.TargetGraph].
type GraphOption func(*nwg.TargetGraph)

// Rid returns an option that sets the graph's runtime identifier, making it a runtime-qualified
// graph.
func Rid(rid string) GraphOption {
	return func(g *nwg.TargetGraph) {
		g.RuntimeId = rid
	}
}

// Package returns an option that appends a package node to the graph.  The idVer argument has the
// form "id[@version]"; deps name the ids of the node's direct dependencies.
func Package(idVer string, deps ...string) GraphOption {
	return func(g *nwg.TargetGraph) {
		g.Nodes = append(g.Nodes, nwg.GraphNode{
			Identity: nwg.ParsePackageIdentity(idVer),
			Outgoing: depIds(deps),
		})
	}
}

// Project returns an option that appends a project node to the graph, carrying the given spec.
func Project(spec *nwg.ProjectSpec, deps ...string) GraphOption {
	return func(g *nwg.TargetGraph) {
		g.Nodes = append(g.Nodes, nwg.GraphNode{
			Identity: nwg.PackageIdentity{Id: spec.Id},
			Project:  true,
			Outgoing: depIds(deps),
			Spec:     spec,
		})
	}
}

func depIds(deps []string) []nwg.PackageId {
	var ret []nwg.PackageId
	for _, dep := range deps {
		ret = append(ret, nwg.ParsePackageId(dep))
	}
	return ret
}

// Graph constructs a fake [nwg.TargetGraph] for the given framework, populated by the given
// options.
func Graph(fw string, opts ...GraphOption) nwg.TargetGraph {
	g := nwg.TargetGraph{Framework: nwg.ParseFramework(fw)}
	for _, opt := range opts {
		opt(&g)
	}
	return g
}
