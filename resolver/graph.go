package resolver

import (
	"sort"

	"github.com/sirupsen/logrus"
)

// Node is one pinned item in the resolution graph.
type Node struct {
	ID           string
	Version      string
	Dependencies map[string]string // depId -> constraint, exact strings as declared
	IsInManifest bool
}

// Graph is the in-memory resolution graph: an unordered collection of nodes
// keyed by id, with the invariants of spec section 3 - unique id, manifest
// preservation, and (post-cleanup) no dangling nodes.
//
// Nodes are mutable only through Add/Remove; their Version and Dependencies
// are never edited in place once inserted, matching gps's preference for
// removing and re-adding over mutating a selected atom.
type Graph struct {
	nodes map[string]*Node
	l     *logrus.Logger
}

// NewGraph returns an empty graph. A nil logger defaults to logrus.New(),
// matching gps's NewSolver.
func NewGraph(l *logrus.Logger) *Graph {
	if l == nil {
		l = logrus.New()
	}
	return &Graph{nodes: make(map[string]*Node), l: l}
}

// LoadFromLockfile populates the graph from lock. All entries enter with
// IsInManifest=false; callers mark manifest entries afterward.
func (g *Graph) LoadFromLockfile(lock Lockfile) {
	for id, entry := range lock {
		deps := make(map[string]string, len(entry.Dependencies))
		for k, v := range entry.Dependencies {
			deps[k] = v
		}
		g.nodes[id] = &Node{
			ID:           id,
			Version:      entry.Version,
			Dependencies: deps,
		}
	}
}

// ToLockfile serializes the current nodes. Manifest membership is not
// serialized - it is re-derived from the caller's manifest on reload.
func (g *Graph) ToLockfile() Lockfile {
	lock := make(Lockfile, len(g.nodes))
	for id, n := range g.nodes {
		deps := make(map[string]string, len(n.Dependencies))
		for k, v := range n.Dependencies {
			deps[k] = v
		}
		lock[id] = LockEntry{Version: n.Version, Dependencies: deps}
	}
	return lock
}

// Get returns the node with the given id, if any.
func (g *Graph) Get(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Add appends node to the graph. If a node with the same id already exists,
// Add is a no-op - the resolver relies on this to safely retry insertion
// during backtracking.
func (g *Graph) Add(node *Node) {
	if _, exists := g.nodes[node.ID]; exists {
		g.l.WithFields(logrus.Fields{"id": node.ID}).Debug("add: node already present, no-op")
		return
	}
	g.nodes[node.ID] = node
}

// Remove deletes the node with the given id. It is a no-op if absent.
func (g *Graph) Remove(node *Node) {
	if node == nil {
		return
	}
	delete(g.nodes, node.ID)
}

// Nodes returns every node in the graph, sorted by id for deterministic
// iteration.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// DependantsOf returns every node whose dependency map names id as a key.
func (g *Graph) DependantsOf(id string) []*Node {
	var out []*Node
	for _, n := range g.Nodes() {
		if _, ok := n.Dependencies[id]; ok {
			out = append(out, n)
		}
	}
	return out
}

// Roots returns nodes with no dependants.
func (g *Graph) Roots() []*Node {
	var out []*Node
	for _, n := range g.Nodes() {
		if len(g.DependantsOf(n.ID)) == 0 {
			out = append(out, n)
		}
	}
	return out
}

// IsDangling reports whether node has no dependants and is not in the
// manifest.
func (g *Graph) IsDangling(node *Node) bool {
	if node.IsInManifest {
		return false
	}
	return len(g.DependantsOf(node.ID)) == 0
}

// Cleanup removes dangling nodes, iterating to a fixed point so that nodes
// which become dangling only because an earlier removal dropped their last
// dependant are also removed.
func (g *Graph) Cleanup() {
	for {
		var dangling []*Node
		for _, n := range g.Nodes() {
			if g.IsDangling(n) {
				dangling = append(dangling, n)
			}
		}
		if len(dangling) == 0 {
			return
		}
		for _, n := range dangling {
			g.l.WithFields(logrus.Fields{"id": n.ID}).Debug("cleanup: removing dangling node")
			g.Remove(n)
		}
	}
}

// constraintsOn collects the constraints every current node in the graph
// places on depId - this implicitly includes the constraint of the node
// being validated, since that node is already present in the graph.
func (g *Graph) constraintsOn(depId string) []string {
	var out []string
	for _, n := range g.Nodes() {
		if c, ok := n.Dependencies[depId]; ok {
			out = append(out, c)
		}
	}
	return out
}
