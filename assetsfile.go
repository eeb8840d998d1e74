package nowarngraph

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/rhansen/nowarngraph/internal/command"
)

// A Document is the deserialized form of a resolution document: the consuming project's restore
// spec together with the resolved dependency graphs, one per (framework, runtime identifier) pair.
// It is the unit of input accepted by the command-line tool and by callers that persist resolution
// results to disk.
type Document struct {
	Project *ProjectSpec
	Graphs  []TargetGraph
}

type documentJson struct {
	Project *projectJson `json:"project"`
	Graphs  []graphJson  `json:"graphs"`
}

type projectJson struct {
	Id            string              `json:"id"`
	Path          string              `json:"path,omitempty"`
	Frameworks    []string            `json:"frameworks,omitempty"`
	NoWarn        []string            `json:"noWarn,omitempty"`
	PackageNoWarn []packageNoWarnJson `json:"packageNoWarn,omitempty"`
}

// A packageNoWarnJson is one declared per-package suppression item: a code suppressed for a
// package, optionally conditioned on a set of frameworks.  An absent frameworks list means the
// suppression applies to every framework.
type packageNoWarnJson struct {
	Code       string   `json:"code"`
	Id         string   `json:"id"`
	Frameworks []string `json:"frameworks,omitempty"`
}

type graphJson struct {
	Framework         string     `json:"framework"`
	RuntimeIdentifier string     `json:"runtimeIdentifier,omitempty"`
	Nodes             []nodeJson `json:"nodes"`
}

type nodeJson struct {
	Id           string       `json:"id"`
	Version      string       `json:"version,omitempty"`
	Dependencies []string     `json:"dependencies,omitempty"`
	Project      *projectJson `json:"project,omitempty"`
}

func (pj *projectJson) toSpec() (*ProjectSpec, error) {
	id := ParsePackageId(pj.Id)
	if id == "" {
		return nil, fmt.Errorf("project is missing an id")
	}
	spec := &ProjectSpec{Id: id, Path: pj.Path}
	for _, fw := range pj.Frameworks {
		spec.Frameworks = append(spec.Frameworks, ParseFramework(fw))
	}
	spec.ProjectWide = Codes(pj.NoWarn...)
	for _, item := range pj.PackageNoWarn {
		code := ParseCode(item.Code)
		pkgId := ParsePackageId(item.Id)
		if code == "" || pkgId == "" {
			return nil, fmt.Errorf("project %v has a packageNoWarn item with an empty code or id", id)
		}
		if spec.PackageSpecific == nil {
			spec.PackageSpecific = SuppressionItems{}
		}
		byId := spec.PackageSpecific[code]
		if byId == nil {
			byId = map[PackageId]mapset.Set[Framework]{}
			spec.PackageSpecific[code] = byId
		}
		fws, ok := byId[pkgId]
		if !ok {
			fws = Frameworks(item.Frameworks...)
			byId[pkgId] = fws
			continue
		}
		// Merging a framework-conditioned item into an unconditional one (or vice versa) keeps
		// the broader of the two.
		if fws == nil {
			continue
		}
		if more := Frameworks(item.Frameworks...); more == nil {
			byId[pkgId] = nil
		} else {
			byId[pkgId] = fws.Union(more)
		}
	}
	return spec, nil
}

func (gj *graphJson) toGraph() (TargetGraph, error) {
	g := TargetGraph{Framework: ParseFramework(gj.Framework), RuntimeId: gj.RuntimeIdentifier}
	if g.Framework == "" {
		return g, fmt.Errorf("graph is missing a framework")
	}
	seen := map[PackageId]bool{}
	for i := range gj.Nodes {
		nj := &gj.Nodes[i]
		node := GraphNode{Identity: NewPackageIdentity(nj.Id, nj.Version)}
		if err := node.Identity.Check(); err != nil {
			return g, fmt.Errorf("graph for framework %v: node %q: %w", g.Framework, nj.Id, err)
		}
		if seen[node.Id()] {
			return g, fmt.Errorf("graph for framework %v contains %v more than once",
				g.Framework, node.Id())
		}
		seen[node.Id()] = true
		for _, dep := range nj.Dependencies {
			depId := ParsePackageId(dep)
			if depId == "" {
				return g, fmt.Errorf("graph for framework %v: node %v has an empty dependency id",
					g.Framework, node.Id())
			}
			node.Outgoing = append(node.Outgoing, depId)
		}
		if nj.Project != nil {
			spec, err := nj.Project.toSpec()
			if err != nil {
				return g, fmt.Errorf("graph for framework %v: node %v: %w", g.Framework, node.Id(), err)
			}
			if spec.Id != node.Id() {
				return g, fmt.Errorf("graph for framework %v: node %v has a spec with mismatched id %v",
					g.Framework, node.Id(), spec.Id)
			}
			node.Project = true
			node.Spec = spec
		}
		g.Nodes = append(g.Nodes, node)
	}
	return g, nil
}

func (dj *documentJson) toDocument() (*Document, error) {
	if dj.Project == nil {
		return nil, fmt.Errorf("document is missing the consuming project")
	}
	spec, err := dj.Project.toSpec()
	if err != nil {
		return nil, err
	}
	doc := &Document{Project: spec}
	for i := range dj.Graphs {
		g, err := dj.Graphs[i].toGraph()
		if err != nil {
			return nil, err
		}
		doc.Graphs = append(doc.Graphs, g)
	}
	return doc, nil
}

// ParseDocument deserializes a resolution document from its JSON encoding.  The consuming
// project's id, the graph frameworks, and all package ids are canonicalized, and node versions are
// required to be canonical.  Graphs containing the same package id more than once are rejected.
func ParseDocument(data []byte) (*Document, error) {
	var dj documentJson
	if err := json.Unmarshal(data, &dj); err != nil {
		return nil, fmt.Errorf("failed to decode resolution document: %w", err)
	}
	return dj.toDocument()
}

// LoadDocument reads and parses the resolution document at the given path.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// DocumentFromTool runs the given command in the given working directory and parses its standard
// output as a stream of JSON resolution documents, returning the first.  This supports build tools
// that emit the resolved graphs directly rather than writing an intermediate file.
func DocumentFromTool(ctx context.Context, wd string, args ...string) (*Document, error) {
	docs, done := command.DecodeJsonStream[*documentJson](ctx, wd, args...)
	raw := slices.Collect(docs)
	if err := done(); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("command %v produced no resolution document", args)
	}
	return raw[0].toDocument()
}
