package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/mrhid6/SatisfactoryModLauncherAPI/catalogclient"
	"github.com/mrhid6/SatisfactoryModLauncherAPI/internal/config"
	"github.com/mrhid6/SatisfactoryModLauncherAPI/internal/metrics"
	"github.com/mrhid6/SatisfactoryModLauncherAPI/internal/modcache"
	"github.com/mrhid6/SatisfactoryModLauncherAPI/resolver"
)

// app bundles the collaborators every subcommand needs, built fresh per
// invocation rather than held as package-level state - smlctl is a
// one-shot CLI, not a long-running process.
type app struct {
	cfg      *config.Config
	resolver *resolver.Resolver
	cache    *modcache.Store
	manifest resolver.Manifest
	graph    *resolver.Graph
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	catalogConn, err := catalogclient.Dial(cfg.CatalogAddr)
	if err != nil {
		return nil, fmt.Errorf("dial catalog: %w", err)
	}

	var catalog resolver.Catalog = catalogConn
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		catalog = catalogclient.NewRedisCache(catalogConn, rdb, cfg.CacheTTL)
	} else {
		catalog = resolver.NewMemoizingCatalog(catalogConn)
	}

	store, err := modcache.NewStore(cfg.ModCacheDB)
	if err != nil {
		return nil, fmt.Errorf("open mod cache: %w", err)
	}

	r := resolver.NewResolver(catalog, store, logrus.New())
	r.SetDiagnostics(metrics.Diagnostics{})

	return &app{cfg: cfg, resolver: r, cache: store}, nil
}

func (a *app) close() {
	_ = a.cache.Close()
}

// loadState reads the manifest and lockfile named by the root command's
// flags into an in-memory Manifest and Graph, applying manifest flags so
// sticky nodes are marked before any resolver call runs.
func (a *app) loadState(manifestPath, lockfilePath string) error {
	m, err := readManifest(manifestPath)
	if err != nil {
		return err
	}

	g := resolver.NewGraph(nil)
	if f, err := os.Open(lockfilePath); err == nil {
		defer f.Close()
		lock, err := resolver.ReadLockfile(f)
		if err != nil {
			return fmt.Errorf("read lockfile: %w", err)
		}
		g.LoadFromLockfile(lock)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("open lockfile: %w", err)
	}
	resolver.ApplyManifestFlags(g, m)

	a.manifest = m
	a.graph = g
	return nil
}

func (a *app) saveState(lockfilePath string) error {
	f, err := os.Create(lockfilePath)
	if err != nil {
		return fmt.Errorf("write lockfile: %w", err)
	}
	defer f.Close()
	return resolver.WriteLockfile(f, a.graph.ToLockfile())
}

func readManifest(path string) (resolver.Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return resolver.Manifest{}, nil
		}
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()

	var raw map[string]string
	if err := json.NewDecoder(f).Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return resolver.Manifest(raw), nil
}

func writeManifest(path string, m resolver.Manifest) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]string(m))
}
