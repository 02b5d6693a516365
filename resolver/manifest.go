// Manifest operations: the orchestration layer's view of the user's
// declared items, kept here because every implementation of it (the CLI,
// tests) needs the same three actions over the same Graph/Resolver pair.
// This is explicitly not part of the solving core - see spec section 4.5 -
// but is grounded the same way gps's manifest.go turns a raw user file into
// typed constraints.
package resolver

import "context"

// Manifest is the user-declared set of items and the constraint each is
// pinned by. The reserved ids SML and SatisfactoryGame sit on equal footing
// with mod ids.
type Manifest map[string]string

// ApplyManifestFlags re-derives IsInManifest on every node in g from m:
// present in m => sticky, absent => not. Nodes absent from g entirely are
// left for the caller to pre-insert before validating.
func ApplyManifestFlags(g *Graph, m Manifest) {
	for _, n := range g.Nodes() {
		_, pinned := m[n.ID]
		n.IsInManifest = pinned
	}
}

// Install declares id@constraint in the manifest, pre-inserts a node for it
// if the catalog can resolve one matching constraint, and revalidates the
// whole graph. On any error the graph is left exactly as it was before the
// call (restored from the lockfile snapshot taken at entry).
func (r *Resolver) Install(ctx context.Context, g *Graph, m Manifest, id, constraint string) error {
	if r.cancelled() {
		return &CancelledError{}
	}
	snapshot := g.ToLockfile()
	flagSnapshot := make(map[string]bool, len(g.nodes))
	for nid, n := range g.nodes {
		flagSnapshot[nid] = n.IsInManifest
	}
	prevEntry, hadPrev := m[id]

	m[id] = constraint
	ApplyManifestFlags(g, m)

	existing, exists := g.Get(id)
	needsReplace := true
	if exists {
		ok, err := Satisfies(existing.Version, constraint)
		if err == nil && ok {
			needsReplace = false
		}
	}

	if needsReplace {
		versions, err := r.catalog.ListMatchingVersions(ctx, id, []string{constraint})
		if err != nil {
			r.restoreGraph(g, snapshot, flagSnapshot)
			r.rollbackManifest(m, id, prevEntry, hadPrev)
			return err
		}
		versions = sortVersionsAscending(versions)
		if len(versions) == 0 {
			r.restoreGraph(g, snapshot, flagSnapshot)
			r.rollbackManifest(m, id, prevEntry, hadPrev)
			return &UnsolvableDependencyError{DepID: id, Depender: "<manifest>"}
		}
		if r.cancelled() {
			r.restoreGraph(g, snapshot, flagSnapshot)
			r.rollbackManifest(m, id, prevEntry, hadPrev)
			return &CancelledError{}
		}
		node, err := getItemData(ctx, r.catalog, r.cache, id, versions[len(versions)-1])
		if err != nil {
			r.restoreGraph(g, snapshot, flagSnapshot)
			r.rollbackManifest(m, id, prevEntry, hadPrev)
			return err
		}
		node.IsInManifest = true
		if exists {
			g.Remove(existing)
		}
		g.Add(node)
	}

	if err := r.ValidateAll(ctx, g); err != nil {
		r.restoreGraph(g, snapshot, flagSnapshot)
		r.rollbackManifest(m, id, prevEntry, hadPrev)
		return err
	}
	return nil
}

// Uninstall removes id from the manifest and the graph, refusing if other
// nodes still depend on it: the resolver does not silently orphan a
// dependency just because the user's own entry for it is gone.
func (r *Resolver) Uninstall(g *Graph, m Manifest, id string) error {
	node, exists := g.Get(id)
	if !exists {
		delete(m, id)
		return nil
	}
	if dependants := g.DependantsOf(id); len(dependants) > 0 {
		return &InvalidLockfileOperationError{
			Msg: id + " is still required by " + dependants[0].ID + "; uninstall that first",
		}
	}
	delete(m, id)
	g.Remove(node)
	g.Cleanup()
	return nil
}

// Update is Install with the same id, used when the caller wants to change
// an existing manifest pin's constraint (e.g. "update X" to a new version).
func (r *Resolver) Update(ctx context.Context, g *Graph, m Manifest, id, constraint string) error {
	return r.Install(ctx, g, m, id, constraint)
}

func (r *Resolver) rollbackManifest(m Manifest, id, prevEntry string, hadPrev bool) {
	if hadPrev {
		m[id] = prevEntry
	} else {
		delete(m, id)
	}
}

func (r *Resolver) restoreGraph(g *Graph, snapshot Lockfile, flagSnapshot map[string]bool) {
	g.nodes = make(map[string]*Node)
	g.LoadFromLockfile(snapshot)
	for id, n := range g.nodes {
		n.IsInManifest = flagSnapshot[id]
	}
}
