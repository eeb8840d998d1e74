package nowarngraph_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/go-cmp/cmp"
	. "github.com/rhansen/nowarngraph"
)

var setOpts = cmp.Options{
	cmp.Comparer(func(a, b mapset.Set[Code]) bool {
		switch {
		case a == nil:
			return b == nil || b.IsEmpty()
		case b == nil:
			return a.IsEmpty()
		}
		return a.Equal(b)
	}),
	cmp.Comparer(func(a, b mapset.Set[Framework]) bool {
		switch {
		case a == nil:
			return b == nil || b.IsEmpty()
		case b == nil:
			return a.IsEmpty()
		}
		return a.Equal(b)
	}),
}

func TestParseDocument(t *testing.T) {
	t.Parallel()
	doc, err := ParseDocument([]byte(`{
		"project": {
			"id": "My.App",
			"path": "/src/app/App.proj",
			"frameworks": ["net6.0", "net5.0"],
			"noWarn": ["nw1603", " NW1701 "],
			"packageNoWarn": [
				{"code": "NW1605", "id": "Lib.X", "frameworks": ["net6.0"]},
				{"code": "NW1605", "id": "Lib.X", "frameworks": ["net5.0"]},
				{"code": "NW1608", "id": "Lib.Y"}
			]
		},
		"graphs": [
			{
				"framework": "net6.0",
				"nodes": [
					{"id": "My.App", "project": {"id": "My.App"}, "dependencies": ["Lib.X"]},
					{"id": "Lib.X", "version": "v1.2.3", "dependencies": ["Lib.Y"]},
					{"id": "Lib.Y", "version": "v2.0.0"}
				]
			},
			{
				"framework": "net6.0",
				"runtimeIdentifier": "linux-x64",
				"nodes": []
			}
		]
	}`))
	if err != nil {
		t.Fatal(err)
	}
	wantSpec := &ProjectSpec{
		Id:          "my.app",
		Path:        "/src/app/App.proj",
		Frameworks:  []Framework{"net6.0", "net5.0"},
		ProjectWide: Codes("NW1603", "NW1701"),
		PackageSpecific: SuppressionItems{
			"NW1605": {"lib.x": Frameworks("net6.0", "net5.0")},
			"NW1608": {"lib.y": nil},
		},
	}
	if diff := cmp.Diff(wantSpec, doc.Project, setOpts); diff != "" {
		t.Errorf("project spec differs (-want +got):\n%s", diff)
	}
	wantGraphs := []TargetGraph{
		{
			Framework: "net6.0",
			Nodes: []GraphNode{
				{
					Identity: PackageIdentity{Id: "my.app"},
					Project:  true,
					Spec:     &ProjectSpec{Id: "my.app"},
					Outgoing: []PackageId{"lib.x"},
				},
				{
					Identity: PackageIdentity{Id: "lib.x", Version: "v1.2.3"},
					Outgoing: []PackageId{"lib.y"},
				},
				{Identity: PackageIdentity{Id: "lib.y", Version: "v2.0.0"}},
			},
		},
		{Framework: "net6.0", RuntimeId: "linux-x64"},
	}
	if diff := cmp.Diff(wantGraphs, doc.Graphs, setOpts); diff != "" {
		t.Errorf("graphs differ (-want +got):\n%s", diff)
	}
}

func TestParseDocument_MergeUnconditionalWins(t *testing.T) {
	// An unconditional packageNoWarn item absorbs a framework-conditioned duplicate regardless of
	// declaration order.
	t.Parallel()
	for _, tc := range []struct {
		desc  string
		items string
	}{
		{
			desc: "conditional first",
			items: `[{"code": "NW1605", "id": "x", "frameworks": ["net6.0"]},
				{"code": "NW1605", "id": "x"}]`,
		},
		{
			desc: "unconditional first",
			items: `[{"code": "NW1605", "id": "x"},
				{"code": "NW1605", "id": "x", "frameworks": ["net6.0"]}]`,
		},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()
			doc, err := ParseDocument([]byte(`{
				"project": {"id": "a", "packageNoWarn": ` + tc.items + `}
			}`))
			if err != nil {
				t.Fatal(err)
			}
			fws, ok := doc.Project.PackageSpecific["NW1605"]["x"]
			if !ok {
				t.Fatal("merged suppression item is missing")
			}
			if fws != nil {
				t.Errorf("got frameworks %v, want unconditional", fws)
			}
		})
	}
}

func TestParseDocument_Errors(t *testing.T) {
	t.Parallel()
	for _, tc := range []struct {
		desc    string
		json    string
		wantErr string
	}{
		{
			desc:    "malformed JSON",
			json:    `{`,
			wantErr: "failed to decode resolution document",
		},
		{
			desc:    "missing project",
			json:    `{"graphs": []}`,
			wantErr: "missing the consuming project",
		},
		{
			desc:    "project with empty id",
			json:    `{"project": {"id": "  "}}`,
			wantErr: "missing an id",
		},
		{
			desc: "packageNoWarn with empty code",
			json: `{"project": {"id": "a",
				"packageNoWarn": [{"code": "", "id": "x"}]}}`,
			wantErr: "empty code or id",
		},
		{
			desc: "packageNoWarn with empty id",
			json: `{"project": {"id": "a",
				"packageNoWarn": [{"code": "NW1605", "id": " "}]}}`,
			wantErr: "empty code or id",
		},
		{
			desc: "graph missing framework",
			json: `{"project": {"id": "a"},
				"graphs": [{"framework": "", "nodes": []}]}`,
			wantErr: "missing a framework",
		},
		{
			desc: "non-canonical version",
			json: `{"project": {"id": "a"},
				"graphs": [{"framework": "net6.0", "nodes": [{"id": "x", "version": "1.2.3"}]}]}`,
			wantErr: "non-canonical",
		},
		{
			desc: "duplicate node",
			json: `{"project": {"id": "a"},
				"graphs": [{"framework": "net6.0", "nodes": [
					{"id": "X", "version": "v1.0.0"},
					{"id": "x", "version": "v2.0.0"}]}]}`,
			wantErr: "more than once",
		},
		{
			desc: "empty dependency id",
			json: `{"project": {"id": "a"},
				"graphs": [{"framework": "net6.0", "nodes": [
					{"id": "x", "dependencies": [" "]}]}]}`,
			wantErr: "empty dependency id",
		},
		{
			desc: "node spec id mismatch",
			json: `{"project": {"id": "a"},
				"graphs": [{"framework": "net6.0", "nodes": [
					{"id": "a", "project": {"id": "b"}}]}]}`,
			wantErr: "mismatched id",
		},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()
			_, err := ParseDocument([]byte(tc.json))
			if err == nil {
				t.Fatal("got nil error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("got error %q, want it to contain %q", err, tc.wantErr)
			}
		})
	}
}

func TestLoadDocument(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "resolution.json")
	if err := os.WriteFile(path, []byte(`{"project": {"id": "a"}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	doc, err := LoadDocument(path)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := doc.Project.Id, PackageId("a"); got != want {
		t.Errorf("got project id %v, want %v", got, want)
	}
}

func TestLoadDocument_Errors(t *testing.T) {
	t.Parallel()
	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		if _, err := LoadDocument(filepath.Join(t.TempDir(), "nope.json")); err == nil {
			t.Fatal("got nil error")
		}
	})
	t.Run("parse error names the file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "bad.json")
		if err := os.WriteFile(path, []byte(`{"graphs": []}`), 0o644); err != nil {
			t.Fatal(err)
		}
		_, err := LoadDocument(path)
		if err == nil {
			t.Fatal("got nil error")
		}
		if !strings.Contains(err.Error(), path) {
			t.Errorf("got error %q, want it to contain %q", err, path)
		}
	})
}

func TestDocumentFromTool(t *testing.T) {
	t.Parallel()
	doc, err := DocumentFromTool(t.Context(), t.TempDir(),
		"echo", `{"project": {"id": "a"}, "graphs": [{"framework": "net6.0", "nodes": []}]}`)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := doc.Project.Id, PackageId("a"); got != want {
		t.Errorf("got project id %v, want %v", got, want)
	}
	if got, want := len(doc.Graphs), 1; got != want {
		t.Errorf("got %v graphs, want %v", got, want)
	}
}

func TestDocumentFromTool_NoOutput(t *testing.T) {
	t.Parallel()
	_, err := DocumentFromTool(t.Context(), t.TempDir(), "true")
	if err == nil {
		t.Fatal("got nil error")
	}
	if !strings.Contains(err.Error(), "no resolution document") {
		t.Errorf("got error %q, want it to mention the missing document", err)
	}
}
