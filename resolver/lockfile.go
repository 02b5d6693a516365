// Copied in shape from gps's lock.go: a raw JSON struct decoded off an
// io.Reader into the typed form, and symmetrically encoded back.
package resolver

import (
	"encoding/json"
	"io"
	"sort"
)

// LockEntry is one item's serialized record in a Lockfile.
type LockEntry struct {
	Version      string            `json:"version"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

// Lockfile is the serialized resolution result: id -> {version, dependencies}.
// Key order is not significant; manifest membership is never serialized.
type Lockfile map[string]LockEntry

// ReadLockfile decodes a Lockfile from its JSON form.
func ReadLockfile(r io.Reader) (Lockfile, error) {
	lock := make(Lockfile)
	if err := json.NewDecoder(r).Decode(&lock); err != nil {
		return nil, err
	}
	return lock, nil
}

// WriteLockfile encodes lock as indented JSON with deterministic key order.
func WriteLockfile(w io.Writer, lock Lockfile) error {
	ids := make([]string, 0, len(lock))
	for id := range lock {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	ordered := make(map[string]LockEntry, len(lock))
	for _, id := range ids {
		ordered[id] = lock[id]
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ordered)
}

// Diff is the install/uninstall delta between two lockfiles.
type Diff struct {
	Install   map[string]string // id -> new version
	Uninstall []string          // ids to remove, sorted for reproducibility
}

// DiffLockfiles computes the delta between old and new. Uninstall contains
// every id present in old that is either absent from new or whose version
// differs; Install contains every id present in new that is either absent
// from old or whose version differs, mapped to the new version. A version
// change therefore appears in both lists. Callers are expected to process
// Uninstall before Install.
func DiffLockfiles(old, new Lockfile) Diff {
	d := Diff{Install: make(map[string]string)}

	for id, oldEntry := range old {
		newEntry, stillPresent := new[id]
		if !stillPresent || newEntry.Version != oldEntry.Version {
			d.Uninstall = append(d.Uninstall, id)
		}
	}
	sort.Strings(d.Uninstall)

	for id, newEntry := range new {
		oldEntry, wasPresent := old[id]
		if !wasPresent || oldEntry.Version != newEntry.Version {
			d.Install[id] = newEntry.Version
		}
	}

	return d
}
