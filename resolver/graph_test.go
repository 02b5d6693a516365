package resolver

import "testing"

func TestGraphAddIsIdempotentByID(t *testing.T) {
	g := NewGraph(nil)
	g.Add(&Node{ID: "foo", Version: "1.0.0"})
	g.Add(&Node{ID: "foo", Version: "2.0.0"})

	n, ok := g.Get("foo")
	if !ok {
		t.Fatal("expected node foo to exist")
	}
	if n.Version != "1.0.0" {
		t.Fatalf("second Add mutated the graph: version = %s, want 1.0.0", n.Version)
	}
}

func TestLoadFromLockfileThenToLockfileRoundTrips(t *testing.T) {
	lock := Lockfile{
		"A": LockEntry{Version: "1.0.0", Dependencies: map[string]string{"B": "^1.0.0"}},
		"B": LockEntry{Version: "1.2.0"},
	}

	g := NewGraph(nil)
	g.LoadFromLockfile(lock)
	got := g.ToLockfile()

	if len(got) != len(lock) {
		t.Fatalf("round trip changed entry count: got %d, want %d", len(got), len(lock))
	}
	for id, entry := range lock {
		gotEntry, ok := got[id]
		if !ok || gotEntry.Version != entry.Version {
			t.Fatalf("round trip lost or changed %s: got %+v, want %+v", id, gotEntry, entry)
		}
	}
}

func TestDependantsOfAndRoots(t *testing.T) {
	g := NewGraph(nil)
	g.Add(&Node{ID: "A", Dependencies: map[string]string{"B": "^1.0.0"}})
	g.Add(&Node{ID: "B"})
	g.Add(&Node{ID: "C"})

	deps := g.DependantsOf("B")
	if len(deps) != 1 || deps[0].ID != "A" {
		t.Fatalf("DependantsOf(B) = %v, want [A]", deps)
	}

	roots := g.Roots()
	if len(roots) != 2 {
		t.Fatalf("Roots() = %v, want 2 nodes (A and C)", roots)
	}
}

func TestCleanupRemovesDanglingNodesToFixedPoint(t *testing.T) {
	g := NewGraph(nil)
	// A -> B -> C, none in manifest. Removing A should cascade: once A is
	// gone (A has no dependants and isn't pinned), B loses its only
	// dependant and becomes dangling too, then C.
	g.Add(&Node{ID: "A", Dependencies: map[string]string{"B": "^1.0.0"}})
	g.Add(&Node{ID: "B", Dependencies: map[string]string{"C": "^1.0.0"}})
	g.Add(&Node{ID: "C"})

	a, _ := g.Get("A")
	g.Remove(a)
	g.Cleanup()

	if len(g.Nodes()) != 0 {
		t.Fatalf("expected cascading cleanup to empty the graph, got %v", g.Nodes())
	}
}

func TestCleanupIsIdempotent(t *testing.T) {
	g := NewGraph(nil)
	g.Add(&Node{ID: "root", IsInManifest: true, Dependencies: map[string]string{"leaf": "^1.0.0"}})
	g.Add(&Node{ID: "leaf"})
	g.Add(&Node{ID: "orphan"})

	g.Cleanup()
	first := g.Nodes()
	g.Cleanup()
	second := g.Nodes()

	if len(first) != len(second) || len(first) != 2 {
		t.Fatalf("Cleanup was not idempotent: first=%v second=%v", first, second)
	}
}

func TestIsDanglingRespectsManifest(t *testing.T) {
	g := NewGraph(nil)
	n := &Node{ID: "pinned", IsInManifest: true}
	g.Add(n)

	if g.IsDangling(n) {
		t.Fatal("a manifest node with no dependants must not be dangling")
	}
}
