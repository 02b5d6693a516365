// Package resolver computes a concrete, internally consistent lockfile from
// a user manifest of mods and a game/loader version, each pinned by a semver
// constraint.
//
// The package is organized the way gps organizes a dependency solver: a
// version algebra (version.go), an abstract view of the remote catalog
// (catalog.go), the in-memory resolution graph and its invariants
// (graph.go), the backtracking validate/validateAll algorithm (resolver.go),
// and the lockfile codec plus diff (lockfile.go).
package resolver
