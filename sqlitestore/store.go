// Package sqlitestore persists hexmap store contents to a local SQLite file.
//
// The engine requires synchronous reads during a render pass, so every read
// is served from an in-memory mirror; writes mutate the mirror immediately
// and are flushed to disk by a debounced autosave timer (and on Close).
package sqlitestore

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/fablemap/hexmap"
)

const defaultDebounce = 2 * time.Second

const schema = `
CREATE TABLE IF NOT EXISTS hexes (
	q INTEGER NOT NULL,
	r INTEGER NOT NULL,
	biome_id TEXT NOT NULL,
	label TEXT NOT NULL,
	notes TEXT NOT NULL,
	PRIMARY KEY (q, r)
);

CREATE TABLE IF NOT EXISTS biomes (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	color TEXT NOT NULL,
	pattern TEXT NOT NULL,
	description TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS markers (
	q INTEGER NOT NULL,
	r INTEGER NOT NULL,
	icon TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS map_meta (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// Option configures an open call.
type Option func(*Store)

// WithDebounce sets the autosave delay after the last write. Zero flushes on
// every write.
func WithDebounce(d time.Duration) Option {
	return func(s *Store) { s.debounce = d }
}

// WithLogger sets the diagnostics logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// Store is a hexmap.Store backed by a SQLite file with a synchronous
// in-memory mirror. Safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	db       *sqlx.DB
	mirror   *hexmap.MemStore
	dirty    bool
	timer    *time.Timer
	debounce time.Duration
	log      *slog.Logger
	closed   bool
}

var _ hexmap.Store = (*Store)(nil)

// Open opens or creates the database at path, migrates the schema, and loads
// the full contents into the mirror.
func Open(path string, opts ...Option) (*Store, error) {
	db, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	s := &Store{
		db:       db,
		mirror:   hexmap.NewMemStore(0, 0),
		debounce: defaultDebounce,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.load(); err != nil {
		db.Close()
		return nil, fmt.Errorf("load: %w", err)
	}
	return s, nil
}

// load reads the whole database into the mirror.
func (s *Store) load() error {
	var snap hexmap.Snapshot
	if err := s.db.Select(&snap.Hexes, "SELECT q, r, biome_id, label, notes FROM hexes"); err != nil {
		return fmt.Errorf("hexes: %w", err)
	}
	if err := s.db.Select(&snap.Biomes, "SELECT id, name, color, pattern, description FROM biomes"); err != nil {
		return fmt.Errorf("biomes: %w", err)
	}
	if err := s.db.Select(&snap.Markers, "SELECT q, r, icon FROM markers"); err != nil {
		return fmt.Errorf("markers: %w", err)
	}
	snap.MapWidth = s.metaInt("map_width")
	snap.MapHeight = s.metaInt("map_height")
	if err := s.mirror.Restore(snap); err != nil {
		return err
	}
	s.mirror.SetDefaultBiome(s.metaString("default_biome"))
	s.log.Info("hexmap store loaded",
		"hexes", len(snap.Hexes), "biomes", len(snap.Biomes), "markers", len(snap.Markers))
	return nil
}

func (s *Store) metaString(key string) string {
	var value string
	if err := s.db.Get(&value, "SELECT value FROM map_meta WHERE key = ?", key); err != nil {
		return ""
	}
	return value
}

func (s *Store) metaInt(key string) int {
	var value int
	if err := s.db.Get(&value, "SELECT value FROM map_meta WHERE key = ?", key); err != nil {
		return 0
	}
	return value
}

// markDirty schedules a debounced flush. Callers must not hold s.mu.
func (s *Store) markDirty() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.dirty = true
	if s.debounce <= 0 {
		go s.flushAsync()
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, s.flushAsync)
}

func (s *Store) flushAsync() {
	if err := s.Flush(); err != nil {
		s.log.Error("hexmap store autosave failed", "err", err)
	}
}

// Flush writes the mirror to disk as a full replace, pruning hex rows whose
// fields are all defaults (their absence renders identically).
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty || s.closed {
		return nil
	}

	snap := hexmap.TakeSnapshot(s.mirror)
	defaultBiome := s.mirror.DefaultBiome()

	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"hexes", "biomes", "markers"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return err
		}
	}

	for _, rec := range snap.Hexes {
		if rec.BiomeID == defaultBiome && rec.Label == "" && rec.Notes == "" {
			continue
		}
		_, err := tx.Exec(
			"INSERT INTO hexes (q, r, biome_id, label, notes) VALUES (?, ?, ?, ?, ?)",
			rec.Q, rec.R, rec.BiomeID, rec.Label, rec.Notes,
		)
		if err != nil {
			return fmt.Errorf("insert hex (%d,%d): %w", rec.Q, rec.R, err)
		}
	}
	for _, b := range snap.Biomes {
		_, err := tx.Exec(
			"INSERT INTO biomes (id, name, color, pattern, description) VALUES (?, ?, ?, ?, ?)",
			b.ID, b.Name, b.Color, string(b.Pattern), b.Description,
		)
		if err != nil {
			return fmt.Errorf("insert biome %q: %w", b.ID, err)
		}
	}
	for _, m := range snap.Markers {
		if _, err := tx.Exec("INSERT INTO markers (q, r, icon) VALUES (?, ?, ?)", m.Q, m.R, m.Icon); err != nil {
			return fmt.Errorf("insert marker (%d,%d): %w", m.Q, m.R, err)
		}
	}
	for key, value := range map[string]string{
		"map_width":     fmt.Sprintf("%d", snap.MapWidth),
		"map_height":    fmt.Sprintf("%d", snap.MapHeight),
		"default_biome": defaultBiome,
	} {
		if _, err := tx.Exec("INSERT OR REPLACE INTO map_meta (key, value) VALUES (?, ?)", key, value); err != nil {
			return fmt.Errorf("meta %q: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	s.dirty = false
	s.log.Info("hexmap store saved", "hexes", len(snap.Hexes), "biomes", len(snap.Biomes))
	return nil
}

// Close stops the autosave timer, flushes pending writes, and closes the
// database.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.mu.Unlock()

	if err := s.Flush(); err != nil {
		return err
	}

	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return s.db.Close()
}

// SetDefaultBiome sets the biome id assigned to lazily created records.
func (s *Store) SetDefaultBiome(id string) {
	s.mirror.SetDefaultBiome(id)
	s.markDirty()
}

// SetMapBounds replaces the authored map extent.
func (s *Store) SetMapBounds(width, height int) {
	s.mirror.SetMapBounds(width, height)
	s.markDirty()
}

// --- hexmap.Store: reads from the mirror, writes through it ---

// GetHex returns the record at (q, r), if one exists.
func (s *Store) GetHex(q, r int) (hexmap.HexRecord, bool) {
	return s.mirror.GetHex(q, r)
}

// UpsertHex applies mutate to the record at (q, r), creating it lazily.
func (s *Store) UpsertHex(q, r int, mutate func(*hexmap.HexRecord)) hexmap.HexRecord {
	rec := s.mirror.UpsertHex(q, r, mutate)
	s.markDirty()
	return rec
}

// ListHexes returns all records ordered by (R, Q).
func (s *Store) ListHexes() []hexmap.HexRecord {
	return s.mirror.ListHexes()
}

// ListBiomes returns all biome definitions ordered by ID.
func (s *Store) ListBiomes() []hexmap.Biome {
	return s.mirror.ListBiomes()
}

// GetBiome returns the biome with the given id, if defined.
func (s *Store) GetBiome(id string) (hexmap.Biome, bool) {
	return s.mirror.GetBiome(id)
}

// PutBiome creates or replaces a biome definition.
func (s *Store) PutBiome(b hexmap.Biome) error {
	if err := s.mirror.PutBiome(b); err != nil {
		return err
	}
	s.markDirty()
	return nil
}

// RemoveBiome deletes an unreferenced biome.
func (s *Store) RemoveBiome(id string) error {
	if err := s.mirror.RemoveBiome(id); err != nil {
		return err
	}
	s.markDirty()
	return nil
}

// ListMarkers returns all markers ordered by (R, Q, Icon).
func (s *Store) ListMarkers() []hexmap.Marker {
	return s.mirror.ListMarkers()
}

// AddMarker pins a marker.
func (s *Store) AddMarker(m hexmap.Marker) {
	s.mirror.AddMarker(m)
	s.markDirty()
}

// RemoveMarker removes one marker equal to m.
func (s *Store) RemoveMarker(m hexmap.Marker) bool {
	removed := s.mirror.RemoveMarker(m)
	if removed {
		s.markDirty()
	}
	return removed
}

// MapBounds returns the authored map extent in hex-count units.
func (s *Store) MapBounds() (width, height int) {
	return s.mirror.MapBounds()
}
