package resolver

import (
	"context"
	"sort"

	"github.com/sirupsen/logrus"
)

// CancelToken is checked before each Catalog call and at entry to each
// recursive Validate. A nil CancelToken is never cancelled.
type CancelToken interface {
	Cancelled() bool
}

// Diagnostics is an optional sink for resolver events, independent of the
// logrus logger, so callers (such as internal/metrics) can count attempts
// without scraping log lines. Every method is called synchronously on the
// resolver's single goroutine.
type Diagnostics interface {
	OnBacktrack(depID, rejectedVersion string)
	OnCandidateAccepted(depID, version string)
}

// noopDiagnostics implements Diagnostics with no-ops.
type noopDiagnostics struct{}

func (noopDiagnostics) OnBacktrack(string, string)         {}
func (noopDiagnostics) OnCandidateAccepted(string, string) {}

// Resolver drives validation of a Graph against a Catalog and ModCache. It
// is single-threaded cooperative: the only suspension points are Catalog
// and ModCache calls.
type Resolver struct {
	catalog Catalog
	cache   ModCache
	l       *logrus.Logger
	diag    Diagnostics
	cancel  CancelToken

	attempts int
}

// NewResolver builds a Resolver over catalog and cache. A nil logger
// defaults to logrus.New(), matching gps's NewSolver.
func NewResolver(catalog Catalog, cache ModCache, l *logrus.Logger) *Resolver {
	if l == nil {
		l = logrus.New()
	}
	return &Resolver{catalog: catalog, cache: cache, l: l, diag: noopDiagnostics{}}
}

// SetDiagnostics installs a Diagnostics sink. Passing nil restores the
// no-op default.
func (r *Resolver) SetDiagnostics(d Diagnostics) {
	if d == nil {
		d = noopDiagnostics{}
	}
	r.diag = d
}

// SetCancelToken installs a cooperative cancellation token.
func (r *Resolver) SetCancelToken(c CancelToken) {
	r.cancel = c
}

// Attempts returns the number of candidates trialled across the resolver's
// lifetime, mirroring gps's Result.Attempts().
func (r *Resolver) Attempts() int {
	return r.attempts
}

func (r *Resolver) cancelled() bool {
	return r.cancel != nil && r.cancel.Cancelled()
}

// ValidateAll invokes Validate on every node currently in the graph, in a
// fixed (sorted-by-id) order for reproducibility. It is a no-op - and makes
// no catalog calls beyond what memoization already forces - on an
// already-valid graph.
func (r *Resolver) ValidateAll(ctx context.Context, g *Graph) error {
	ids := make([]string, 0, len(g.nodes))
	for _, n := range g.Nodes() {
		ids = append(ids, n.ID)
	}

	for _, id := range ids {
		if r.cancelled() {
			return &CancelledError{}
		}
		// re-fetch rather than reuse the snapshot pointer: an earlier
		// validate in this pass may have replaced or removed this id as
		// part of someone else's backtracking.
		n, stillPresent := g.Get(id)
		if !stillPresent {
			continue
		}
		if err := r.Validate(ctx, g, n); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks every dependency of node against the graph, resolving or
// replacing incompatible dependencies via backtracking search. See
// validateDependency for the algorithm.
func (r *Resolver) Validate(ctx context.Context, g *Graph, node *Node) error {
	if r.cancelled() {
		return &CancelledError{}
	}

	depIds := make([]string, 0, len(node.Dependencies))
	for depID := range node.Dependencies {
		depIds = append(depIds, depID)
	}
	sort.Strings(depIds)

	for _, depID := range depIds {
		constraint := node.Dependencies[depID]
		if err := r.validateDependency(ctx, g, node, depID, constraint); err != nil {
			return err
		}
	}
	return nil
}

// validateDependency implements spec section 4.5 steps 1-3 for a single
// (depId, constraint) pair of node.
func (r *Resolver) validateDependency(ctx context.Context, g *Graph, node *Node, depID, constraint string) error {
	if r.cancelled() {
		return &CancelledError{}
	}

	existing, hasExisting := g.Get(depID)
	if hasExisting {
		ok, err := Satisfies(existing.Version, constraint)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}

	// existing (if any) is missing or incompatible.
	if hasExisting && existing.IsInManifest {
		return &DependencyManifestMismatchError{
			DepID:           depID,
			DepVersion:      existing.Version,
			Depender:        node.ID,
			DependerVersion: node.Version,
			Constraint:      constraint,
		}
	}

	if hasExisting {
		g.Remove(existing)
	}

	candidates, err := r.catalog.ListMatchingVersions(ctx, depID, g.constraintsOn(depID))
	if err != nil {
		if hasExisting {
			g.Add(existing)
		}
		return err
	}
	candidates = sortVersionsAscending(candidates)

	for i := len(candidates) - 1; i >= 0; i-- {
		if r.cancelled() {
			return &CancelledError{}
		}
		v := candidates[i]
		r.attempts++

		child, err := getItemData(ctx, r.catalog, r.cache, depID, v)
		if err != nil {
			r.diag.OnBacktrack(depID, v)
			r.l.WithFields(logrus.Fields{"id": depID, "version": v, "cause": err}).Debug("candidate metadata unavailable, backtracking")
			continue
		}

		g.Add(child)
		err = r.Validate(ctx, g, child)
		if err == nil {
			r.diag.OnCandidateAccepted(depID, v)
			r.l.WithFields(logrus.Fields{"id": depID, "version": v}).Info("accepted candidate")
			return nil
		}

		if _, fatal := err.(*DependencyManifestMismatchError); fatal {
			// a hard conflict: no further candidate for depID can fix a
			// manifest pin elsewhere in the graph, so propagate immediately
			// rather than keep trying (see spec section 7/9).
			g.Remove(child)
			if hasExisting {
				g.Add(existing)
			}
			return err
		}
		if _, fatal := err.(*CancelledError); fatal {
			g.Remove(child)
			return err
		}

		g.Remove(child)
		r.diag.OnBacktrack(depID, v)
		r.l.WithFields(logrus.Fields{"id": depID, "version": v, "cause": err}).Debug("candidate rejected, backtracking")
	}

	if hasExisting {
		g.Add(existing)
	}
	return &UnsolvableDependencyError{DepID: depID, Depender: node.ID}
}
