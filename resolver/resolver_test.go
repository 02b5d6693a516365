package resolver

import (
	"context"
	"testing"
)

// fakeRegistry is a fixture Catalog + ModCache, built as literal Go data the
// way gps's solve_test.go builds a fixture SourceManager rather than
// loading fixture files off disk.
type fakeRegistry struct {
	modVersions    map[string][]string
	modMeta        map[string]map[string]*ModMeta
	loaderVersions map[string]string // version -> gameVersion
}

func (f *fakeRegistry) ListMatchingVersions(_ context.Context, id string, constraints []string) ([]string, error) {
	if id == ItemSML {
		var out []string
		for v := range f.loaderVersions {
			ok, err := SatisfiesAll(v, constraints)
			if err != nil {
				return nil, err
			}
			if ok {
				out = append(out, v)
			}
		}
		return out, nil
	}

	versions, known := f.modVersions[id]
	if !known {
		return nil, &ModNotFoundError{ID: id}
	}
	var out []string
	for _, v := range versions {
		ok, err := SatisfiesAll(v, constraints)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeRegistry) GetModMetadata(_ context.Context, id, version string) (*ModMeta, error) {
	return f.GetMetadata(context.Background(), id, version)
}

func (f *fakeRegistry) GetMetadata(_ context.Context, id, version string) (*ModMeta, error) {
	byVersion, known := f.modMeta[id]
	if !known {
		return nil, &ModNotFoundError{ID: id}
	}
	meta, known := byVersion[version]
	if !known {
		return nil, &ModNotFoundError{ID: id, Version: version}
	}
	return meta, nil
}

func (f *fakeRegistry) ListLoaderVersions(ctx context.Context) ([]LoaderInfo, error) {
	var out []LoaderInfo
	for v, gv := range f.loaderVersions {
		out = append(out, LoaderInfo{Version: v, GameVersion: gv})
	}
	return out, nil
}

func (f *fakeRegistry) GetLoaderInfo(_ context.Context, version string) (*LoaderInfo, error) {
	gv, known := f.loaderVersions[version]
	if !known {
		return nil, nil
	}
	return &LoaderInfo{Version: version, GameVersion: gv}, nil
}

// newFixture builds the registry used by the spec's worked scenarios: SML
// at 1.0.0/1.0.1/2.0.0 each requiring game >=109000, a dependency-free mod
// "6vQ6ckVYFiidDh", and "dummyMod1" at four versions whose constraints on
// SML and 6vQ6ckVYFiidDh are chosen to exercise acceptance, highest-version
// preference, downgrade, and manifest-mismatch rejection in turn.
func newFixture() *fakeRegistry {
	return &fakeRegistry{
		loaderVersions: map[string]string{
			"1.0.0": "109000",
			"1.0.1": "109000",
			"2.0.0": "109000",
		},
		modVersions: map[string][]string{
			sixV: {"1.4.1"},
			"dummyMod1": {"1.0.0", "1.0.1", "1.0.2", "1.0.3"},
		},
		modMeta: map[string]map[string]*ModMeta{
			sixV: {
				"1.4.1": {ModID: sixV, Version: "1.4.1"},
			},
			"dummyMod1": {
				// SML constraints are declared directly in each version's
				// dependency map (not synthesized from a loaderVersion
				// field), so they can express more than the ">=" shape
				// loaderVersion coercion would produce.
				"1.0.0": {ModID: "dummyMod1", Version: "1.0.0", Dependencies: map[string]string{ItemSML: "2.0.0", sixV: "^1.5.0"}},
				"1.0.1": {ModID: "dummyMod1", Version: "1.0.1", Dependencies: map[string]string{ItemSML: ">=1.0.0", sixV: "^1.2.0"}},
				"1.0.2": {ModID: "dummyMod1", Version: "1.0.2", Dependencies: map[string]string{ItemSML: "1.0.1", sixV: "^1.3.0"}},
				"1.0.3": {ModID: "dummyMod1", Version: "1.0.3", Dependencies: map[string]string{ItemSML: "^1.0.0", sixV: "^1.5.2"}},
			},
		},
	}
}

const sixV = "6vQ6ckVYFiidDh"

func newScenarioGraph() *Graph {
	g := NewGraph(nil)
	g.Add(&Node{ID: ItemGame, Version: "109000.0.0", IsInManifest: true})
	return g
}

func TestScenario1_InstallDependencyFreeMod(t *testing.T) {
	reg := newFixture()
	g := newScenarioGraph()
	r := NewResolver(reg, reg, nil)
	m := Manifest{ItemGame: ">=109000.0.0"}

	if err := r.Install(context.Background(), g, m, sixV, "1.4.1"); err != nil {
		t.Fatalf("Install(%s@1.4.1): %v", sixV, err)
	}

	if len(g.Nodes()) != 2 {
		t.Fatalf("expected game + mod, got %v", g.Nodes())
	}
	n, ok := g.Get(sixV)
	if !ok || n.Version != "1.4.1" {
		t.Fatalf("expected %s@1.4.1 in graph, got %+v", sixV, n)
	}
}

func TestScenario2_ManifestMismatchOnIncompatibleCaretRange(t *testing.T) {
	reg := newFixture()
	g := newScenarioGraph()
	r := NewResolver(reg, reg, nil)
	m := Manifest{ItemGame: ">=109000.0.0"}
	mustInstall(t, r, g, m, sixV, "1.4.1")

	before := snapshotVersions(g)

	err := r.Install(context.Background(), g, m, "dummyMod1", "1.0.0")
	if _, ok := err.(*DependencyManifestMismatchError); !ok {
		t.Fatalf("expected DependencyManifestMismatchError, got %v", err)
	}

	after := snapshotVersions(g)
	if !mapsEqual(before, after) {
		t.Fatalf("graph changed despite failed install: before=%v after=%v", before, after)
	}
}

func TestScenario3_InstallSucceedsAndPrefersHighestLoader(t *testing.T) {
	reg := newFixture()
	g := newScenarioGraph()
	r := NewResolver(reg, reg, nil)
	m := Manifest{ItemGame: ">=109000.0.0"}
	mustInstall(t, r, g, m, sixV, "1.4.1")

	if err := r.Install(context.Background(), g, m, "dummyMod1", "1.0.1"); err != nil {
		t.Fatalf("Install(dummyMod1@1.0.1): %v", err)
	}

	assertVersion(t, g, "dummyMod1", "1.0.1")
	assertVersion(t, g, sixV, "1.4.1")
	assertVersion(t, g, ItemSML, "2.0.0")
}

func TestScenario4_InstallDowngradesLoader(t *testing.T) {
	reg := newFixture()
	g := newScenarioGraph()
	r := NewResolver(reg, reg, nil)
	m := Manifest{ItemGame: ">=109000.0.0"}
	mustInstall(t, r, g, m, sixV, "1.4.1")
	mustInstall(t, r, g, m, "dummyMod1", "1.0.1")

	if err := r.Install(context.Background(), g, m, "dummyMod1", "1.0.2"); err != nil {
		t.Fatalf("Install(dummyMod1@1.0.2): %v", err)
	}

	assertVersion(t, g, ItemSML, "1.0.1")
	smlNode, _ := g.Get(ItemSML)
	if smlNode.IsInManifest {
		t.Fatal("SML should not be manifest-pinned, it was pulled in transitively")
	}
}

func TestScenario5_SecondManifestMismatchLeavesGraphIntact(t *testing.T) {
	reg := newFixture()
	g := newScenarioGraph()
	r := NewResolver(reg, reg, nil)
	m := Manifest{ItemGame: ">=109000.0.0"}
	mustInstall(t, r, g, m, sixV, "1.4.1")
	mustInstall(t, r, g, m, "dummyMod1", "1.0.1")
	mustInstall(t, r, g, m, "dummyMod1", "1.0.2")

	before := snapshotVersions(g)

	err := r.Install(context.Background(), g, m, "dummyMod1", "1.0.3")
	if _, ok := err.(*DependencyManifestMismatchError); !ok {
		t.Fatalf("expected DependencyManifestMismatchError, got %v", err)
	}

	after := snapshotVersions(g)
	if !mapsEqual(before, after) {
		t.Fatalf("graph changed despite failed install: before=%v after=%v", before, after)
	}
}

func TestScenario6_UninstallRefusedWhileDependantsExist(t *testing.T) {
	reg := newFixture()
	g := newScenarioGraph()
	r := NewResolver(reg, reg, nil)
	m := Manifest{ItemGame: ">=109000.0.0"}
	mustInstall(t, r, g, m, sixV, "1.4.1")
	mustInstall(t, r, g, m, "dummyMod1", "1.0.1")

	before := snapshotVersions(g)
	if err := r.Uninstall(g, m, sixV); err == nil {
		t.Fatal("expected Uninstall to be refused while dummyMod1 still depends on it")
	}
	after := snapshotVersions(g)
	if !mapsEqual(before, after) {
		t.Fatalf("graph changed despite refused uninstall: before=%v after=%v", before, after)
	}
}

func TestManifestNodesSurviveAFailedValidation(t *testing.T) {
	reg := newFixture()
	g := newScenarioGraph()
	r := NewResolver(reg, reg, nil)
	m := Manifest{ItemGame: ">=109000.0.0"}
	mustInstall(t, r, g, m, sixV, "1.4.1")

	_ = r.Install(context.Background(), g, m, "dummyMod1", "1.0.0")

	n, ok := g.Get(sixV)
	if !ok || !n.IsInManifest || n.Version != "1.4.1" {
		t.Fatalf("manifest node was mutated by a failed validation: %+v", n)
	}
}

func TestValidateAllIsNoOpOnAlreadyValidGraph(t *testing.T) {
	reg := newFixture()
	g := newScenarioGraph()
	r := NewResolver(reg, reg, nil)
	m := Manifest{ItemGame: ">=109000.0.0"}
	mustInstall(t, r, g, m, sixV, "1.4.1")
	mustInstall(t, r, g, m, "dummyMod1", "1.0.1")

	before := snapshotVersions(g)
	if err := r.ValidateAll(context.Background(), g); err != nil {
		t.Fatalf("ValidateAll on a valid graph errored: %v", err)
	}
	after := snapshotVersions(g)
	if !mapsEqual(before, after) {
		t.Fatalf("ValidateAll mutated an already-valid graph: before=%v after=%v", before, after)
	}
}

func TestCancelledDuringValidate(t *testing.T) {
	reg := newFixture()
	g := newScenarioGraph()
	r := NewResolver(reg, reg, nil)
	r.SetCancelToken(alwaysCancelled{})

	g.Add(&Node{ID: sixV, Dependencies: map[string]string{}})
	err := r.ValidateAll(context.Background(), g)
	if _, ok := err.(*CancelledError); !ok {
		t.Fatalf("expected CancelledError, got %v", err)
	}
}

type alwaysCancelled struct{}

func (alwaysCancelled) Cancelled() bool { return true }

func mustInstall(t *testing.T, r *Resolver, g *Graph, m Manifest, id, constraint string) {
	t.Helper()
	if err := r.Install(context.Background(), g, m, id, constraint); err != nil {
		t.Fatalf("Install(%s@%s): %v", id, constraint, err)
	}
}

func snapshotVersions(g *Graph) map[string]string {
	out := make(map[string]string)
	for _, n := range g.Nodes() {
		out[n.ID] = n.Version
	}
	return out
}

func assertVersion(t *testing.T, g *Graph, id, want string) {
	t.Helper()
	n, ok := g.Get(id)
	if !ok {
		t.Fatalf("expected %s in graph", id)
	}
	if n.Version != want {
		t.Fatalf("%s = %s, want %s", id, n.Version, want)
	}
}

func mapsEqual(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}
