package resolver

import "fmt"

// traceError is implemented by errors that can render a more verbose,
// context-carrying form for a --verbose CLI path, mirroring gps's
// traceError interface.
type traceError interface {
	error
	traceString() string
}

// ModNotFoundError means the catalog knows no such id, or no such
// (id, version) pair.
type ModNotFoundError struct {
	ID      string
	Version string // empty if the id itself is unknown
}

func (e *ModNotFoundError) Error() string {
	if e.Version == "" {
		return fmt.Sprintf("no such mod %q in the catalog", e.ID)
	}
	return fmt.Sprintf("mod %q has no published version %q", e.ID, e.Version)
}

func (e *ModNotFoundError) traceString() string {
	return e.Error()
}

// InvalidLockfileOperationError indicates a logic bug in the caller or
// resolver, such as attempting to resolve a node for SatisfactoryGame.
type InvalidLockfileOperationError struct {
	Msg string
}

func (e *InvalidLockfileOperationError) Error() string {
	return "invalid lockfile operation: " + e.Msg
}

func (e *InvalidLockfileOperationError) traceString() string {
	return e.Error()
}

// DependencyManifestMismatchError is raised when satisfying a dependency
// would require changing the version of a manifest-pinned node. It is the
// one candidate-rejection error that propagates immediately instead of
// being swallowed by the candidate loop: the manifest cannot be changed by
// the resolver, so trying more candidates for the depender cannot fix it.
type DependencyManifestMismatchError struct {
	DepID           string
	DepVersion      string
	Depender        string
	DependerVersion string
	Constraint      string
}

func (e *DependencyManifestMismatchError) Error() string {
	return fmt.Sprintf(
		"%s at %s requires %s to satisfy %s, but %s is pinned at %s in your manifest; you must manually adjust %s",
		e.Depender, e.DependerVersion, e.DepID, e.Constraint, e.DepID, e.DepVersion, e.DepID,
	)
}

func (e *DependencyManifestMismatchError) traceString() string {
	return fmt.Sprintf("manifest mismatch: %s@%s wants %s@%s (pinned %s from %s@%s)",
		e.Depender, e.DependerVersion, e.DepID, e.Constraint, e.DepVersion, e.Depender, e.DependerVersion)
}

// UnsolvableDependencyError means no catalog version of depID satisfies the
// conjoined constraints imposed by every current depender.
type UnsolvableDependencyError struct {
	DepID    string
	Depender string
}

func (e *UnsolvableDependencyError) Error() string {
	return fmt.Sprintf("no compatible version found for %s, required by %s", e.DepID, e.Depender)
}

func (e *UnsolvableDependencyError) traceString() string {
	return e.Error()
}

// CancelledError means the caller's CancelToken fired mid-resolution.
type CancelledError struct{}

func (e *CancelledError) Error() string {
	return "resolution cancelled"
}

func (e *CancelledError) traceString() string {
	return e.Error()
}
