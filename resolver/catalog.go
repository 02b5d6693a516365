package resolver

import (
	"context"
	"sync"
	"time"
)

// ModMeta is a single (id, version)'s dependency metadata, as reported by
// the mod cache (or, for SML, by the catalog directly).
type ModMeta struct {
	ModID         string
	Version       string
	Dependencies  map[string]string // depId -> constraint
	LoaderVersion string            // sml_version; empty if the mod declares none
}

// LoaderInfo is one published version of the loader (SML).
type LoaderInfo struct {
	Version     string
	GameVersion string // the bare build number or semver the loader requires
}

// Catalog enumerates available versions of an item and fetches a mod's
// dependency metadata. It is an external collaborator: the gRPC
// client that actually talks to the remote mod registry lives outside this
// package (see catalogclient), and is reached only through this interface.
//
// Implementations must return ModNotFoundError when an id has no published
// versions at all, and an empty, non-error slice when the id exists but no
// version matches the requested constraints.
type Catalog interface {
	ListMatchingVersions(ctx context.Context, id string, constraints []string) ([]string, error)
	GetModMetadata(ctx context.Context, id, version string) (*ModMeta, error)
	ListLoaderVersions(ctx context.Context) ([]LoaderInfo, error)
	GetLoaderInfo(ctx context.Context, version string) (*LoaderInfo, error)
}

// ModCache is the on-disk mod cache: it downloads and unzips a mod archive
// on miss, and parses its metadata. Out of core scope; reached only
// through this interface. modcache.Store, the implementation smlctl uses,
// does not download: it serves only metadata already stored with Put and
// reports any other (id, version) as ModNotFoundError.
type ModCache interface {
	GetMetadata(ctx context.Context, id, version string) (*ModMeta, error)
}

// memoEntry is one cached Catalog response.
type memoEntry struct {
	val     interface{}
	err     error
	expires time.Time
}

// MemoizingCatalog wraps a Catalog with an in-memory, per-request-key TTL
// cache owned by this value, per the "Shared resources" note: the cache lives behind the
// Catalog interface so it can be injected and disabled during tests by
// simply not wrapping the fake Catalog with one of these.
type MemoizingCatalog struct {
	Catalog
	ttl time.Duration

	mu    sync.Mutex
	cache map[string]memoEntry
}

// NewMemoizingCatalog wraps inner with a 5-minute memoization TTL.
func NewMemoizingCatalog(inner Catalog) *MemoizingCatalog {
	return &MemoizingCatalog{
		Catalog: inner,
		ttl:     5 * time.Minute,
		cache:   make(map[string]memoEntry),
	}
}

func (m *MemoizingCatalog) memoize(key string, fn func() (interface{}, error)) (interface{}, error) {
	m.mu.Lock()
	if e, ok := m.cache[key]; ok && time.Now().Before(e.expires) {
		m.mu.Unlock()
		return e.val, e.err
	}
	m.mu.Unlock()

	val, err := fn()

	m.mu.Lock()
	m.cache[key] = memoEntry{val: val, err: err, expires: time.Now().Add(m.ttl)}
	m.mu.Unlock()

	return val, err
}

func (m *MemoizingCatalog) ListMatchingVersions(ctx context.Context, id string, constraints []string) ([]string, error) {
	key := "ListMatchingVersions:" + id + ":" + joinConstraints(constraints)
	v, err := m.memoize(key, func() (interface{}, error) {
		return m.Catalog.ListMatchingVersions(ctx, id, constraints)
	})
	if err != nil {
		return nil, err
	}
	return v.([]string), nil
}

func (m *MemoizingCatalog) GetModMetadata(ctx context.Context, id, version string) (*ModMeta, error) {
	key := "GetModMetadata:" + id + ":" + version
	v, err := m.memoize(key, func() (interface{}, error) {
		return m.Catalog.GetModMetadata(ctx, id, version)
	})
	if err != nil {
		return nil, err
	}
	return v.(*ModMeta), nil
}

func (m *MemoizingCatalog) ListLoaderVersions(ctx context.Context) ([]LoaderInfo, error) {
	v, err := m.memoize("ListLoaderVersions", func() (interface{}, error) {
		return m.Catalog.ListLoaderVersions(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]LoaderInfo), nil
}

func (m *MemoizingCatalog) GetLoaderInfo(ctx context.Context, version string) (*LoaderInfo, error) {
	key := "GetLoaderInfo:" + version
	v, err := m.memoize(key, func() (interface{}, error) {
		return m.Catalog.GetLoaderInfo(ctx, version)
	})
	if err != nil {
		return nil, err
	}
	return v.(*LoaderInfo), nil
}

func joinConstraints(cs []string) string {
	out := ""
	for i, c := range cs {
		if i > 0 {
			out += "&"
		}
		out += c
	}
	return out
}
