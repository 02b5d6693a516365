// Package modcache is the on-disk mod cache: it indexes downloaded mod
// archives and their parsed metadata in a local sqlite database, so the
// resolver's ModCache.GetMetadata doesn't re-download and re-unzip an
// archive it has already seen. Out of the core resolver's scope, but the
// concrete implementation the core is run against.
package modcache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mrhid6/SatisfactoryModLauncherAPI/resolver"
)

// Store manages the SQLite connection and schema for the mod cache index.
type Store struct {
	db *sql.DB
}

// NewStore opens (creating if absent) the sqlite database at dbPath and
// enables WAL mode for concurrent readers during a resolve.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON;"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("schema migration failed: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS mod_metadata (
		mod_id TEXT NOT NULL,
		version TEXT NOT NULL,
		loader_version TEXT,
		dependencies JSON NOT NULL,
		archive_path TEXT NOT NULL,
		cached_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (mod_id, version)
	);

	CREATE INDEX IF NOT EXISTS idx_mod_metadata_mod_id ON mod_metadata(mod_id);
	`
	_, err := s.db.Exec(query)
	return err
}

// storedMeta is the JSON shape persisted in the dependencies column.
type storedMeta struct {
	Dependencies map[string]string `json:"dependencies"`
}

// Put indexes a parsed mod's metadata against the archive it came from.
// A second Put for the same (id, version) overwrites the prior row: a
// re-download of an already-cached version is assumed to be equivalent,
// not a new fact.
func (s *Store) Put(ctx context.Context, meta *resolver.ModMeta, archivePath string) error {
	payload, err := json.Marshal(storedMeta{Dependencies: meta.Dependencies})
	if err != nil {
		return fmt.Errorf("marshal dependencies: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO mod_metadata (mod_id, version, loader_version, dependencies, archive_path)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(mod_id, version) DO UPDATE SET
			loader_version = excluded.loader_version,
			dependencies = excluded.dependencies,
			archive_path = excluded.archive_path
	`, meta.ModID, meta.Version, meta.LoaderVersion, string(payload), archivePath)
	return err
}

// GetMetadata implements resolver.ModCache. A cache miss is reported as
// *resolver.ModNotFoundError so callers don't need to special-case "not
// downloaded yet" separately from "doesn't exist" - the caller above this
// Store (the one responsible for downloading) is expected to catch that
// error, fetch the archive, Put it, and retry.
func (s *Store) GetMetadata(ctx context.Context, id, version string) (*resolver.ModMeta, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT loader_version, dependencies FROM mod_metadata
		WHERE mod_id = ? AND version = ?
	`, id, version)

	var loaderVersion string
	var payload string
	var nullLoader sql.NullString
	if err := row.Scan(&nullLoader, &payload); err != nil {
		if err == sql.ErrNoRows {
			return nil, &resolver.ModNotFoundError{ID: id, Version: version}
		}
		return nil, fmt.Errorf("query mod_metadata: %w", err)
	}
	loaderVersion = nullLoader.String

	var stored storedMeta
	if err := json.Unmarshal([]byte(payload), &stored); err != nil {
		return nil, fmt.Errorf("unmarshal dependencies for %s@%s: %w", id, version, err)
	}

	return &resolver.ModMeta{
		ModID:         id,
		Version:       version,
		Dependencies:  stored.Dependencies,
		LoaderVersion: loaderVersion,
	}, nil
}

// Evict removes a (id, version)'s cached row, forcing the next
// GetMetadata to miss and the caller to re-download.
func (s *Store) Evict(ctx context.Context, id, version string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM mod_metadata WHERE mod_id = ? AND version = ?`, id, version)
	return err
}
