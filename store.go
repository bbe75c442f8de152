package hexmap

import (
	"errors"
	"sort"
	"sync"
)

// Sentinel errors returned by Store implementations.
var (
	// ErrBiomeInUse rejects removal of a biome still referenced by a hex
	// record. No record may ever hold a dangling biome id through a remove.
	ErrBiomeInUse = errors.New("hexmap: biome is referenced by hex records")
	// ErrUnknownPattern rejects a biome whose pattern is not registered.
	ErrUnknownPattern = errors.New("hexmap: unknown biome pattern")
)

// HexRecord is the authored content of a single cell. Records are sparse:
// only cells the user has edited exist, and identity is the (Q, R) pair.
// The JSON field names are part of the import/export format.
type HexRecord struct {
	Q       int    `json:"q" db:"q"`
	R       int    `json:"r" db:"r"`
	BiomeID string `json:"biomeId" db:"biome_id"`
	Label   string `json:"label" db:"label"`
	Notes   string `json:"notes" db:"notes"`
}

// Coord returns the record's cell address.
func (h HexRecord) Coord() Axial {
	return Axial{Q: h.Q, R: h.R}
}

// Biome is a named terrain category referenced by HexRecord.BiomeID.
// Color is a "#rrggbb" string (see ParseColor).
type Biome struct {
	ID          string      `json:"id" db:"id"`
	Name        string      `json:"name" db:"name"`
	Color       string      `json:"color" db:"color"`
	Pattern     PatternKind `json:"pattern" db:"pattern"`
	Description string      `json:"description" db:"description"`
}

// Marker is a point-of-interest glyph pinned to a cell, independent of any
// HexRecord. A cell may host zero or more markers.
type Marker struct {
	Q    int    `json:"q" db:"q"`
	R    int    `json:"r" db:"r"`
	Icon string `json:"icon" db:"icon"`
}

// Store is the data-access contract the engine renders from and edits
// through. The engine never caches results across frames; every render pass
// re-reads, so implementations must answer synchronously (an asynchronous
// persistence layer has to keep an in-memory mirror, as sqlitestore does).
type Store interface {
	// GetHex returns the record at (q, r), if one exists.
	GetHex(q, r int) (HexRecord, bool)
	// UpsertHex applies mutate to the record at (q, r), creating it first
	// with the store's default biome if absent, and returns the result.
	UpsertHex(q, r int, mutate func(*HexRecord)) HexRecord
	// ListHexes returns all records ordered by (R, Q).
	ListHexes() []HexRecord

	// ListBiomes returns all biome definitions ordered by ID.
	ListBiomes() []Biome
	// GetBiome returns the biome with the given id, if defined.
	GetBiome(id string) (Biome, bool)
	// PutBiome creates or replaces a biome definition.
	PutBiome(b Biome) error
	// RemoveBiome deletes an unreferenced biome. Returns ErrBiomeInUse if
	// any hex record still references it.
	RemoveBiome(id string) error

	// ListMarkers returns all markers ordered by (R, Q, Icon).
	ListMarkers() []Marker
	// AddMarker pins a marker.
	AddMarker(m Marker)
	// RemoveMarker removes one marker equal to m, reporting whether one
	// was found.
	RemoveMarker(m Marker) bool

	// MapBounds returns the authored map extent in hex-count units,
	// used for initial view centering.
	MapBounds() (width, height int)
}

// MemStore is the in-memory Store. It is safe for concurrent use, so a
// data-entry UI may edit while the engine renders.
type MemStore struct {
	mu           sync.RWMutex
	hexes        map[Axial]HexRecord
	biomes       map[string]Biome
	markers      []Marker
	boundsW      int
	boundsH      int
	defaultBiome string
}

// NewMemStore creates an empty store with the given map bounds in hex counts.
func NewMemStore(width, height int) *MemStore {
	return &MemStore{
		hexes:   make(map[Axial]HexRecord),
		biomes:  make(map[string]Biome),
		boundsW: width,
		boundsH: height,
	}
}

// SetDefaultBiome sets the biome id assigned to lazily created records.
func (s *MemStore) SetDefaultBiome(id string) {
	s.mu.Lock()
	s.defaultBiome = id
	s.mu.Unlock()
}

// DefaultBiome returns the biome id assigned to lazily created records.
func (s *MemStore) DefaultBiome() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.defaultBiome
}

// SetMapBounds replaces the authored map extent.
func (s *MemStore) SetMapBounds(width, height int) {
	s.mu.Lock()
	s.boundsW, s.boundsH = width, height
	s.mu.Unlock()
}

// GetHex returns the record at (q, r), if one exists.
func (s *MemStore) GetHex(q, r int) (HexRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.hexes[Axial{Q: q, R: r}]
	return rec, ok
}

// UpsertHex applies mutate to the record at (q, r), creating it lazily with
// the default biome if absent.
func (s *MemStore) UpsertHex(q, r int, mutate func(*HexRecord)) HexRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := Axial{Q: q, R: r}
	rec, ok := s.hexes[key]
	if !ok {
		rec = HexRecord{Q: q, R: r, BiomeID: s.defaultBiome}
	}
	if mutate != nil {
		mutate(&rec)
	}
	// Identity is positional; a mutator cannot move the record.
	rec.Q, rec.R = q, r
	s.hexes[key] = rec
	return rec
}

// ListHexes returns all records ordered by (R, Q).
func (s *MemStore) ListHexes() []HexRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]HexRecord, 0, len(s.hexes))
	for _, rec := range s.hexes {
		out = append(out, rec)
	}
	sortHexRecords(out)
	return out
}

// ListBiomes returns all biome definitions ordered by ID.
func (s *MemStore) ListBiomes() []Biome {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Biome, 0, len(s.biomes))
	for _, b := range s.biomes {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// GetBiome returns the biome with the given id, if defined.
func (s *MemStore) GetBiome(id string) (Biome, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.biomes[id]
	return b, ok
}

// PutBiome creates or replaces a biome definition. The pattern must be
// registered (PatternNone is always valid).
func (s *MemStore) PutBiome(b Biome) error {
	if !PatternRegistered(b.Pattern) {
		return ErrUnknownPattern
	}
	s.mu.Lock()
	s.biomes[b.ID] = b
	s.mu.Unlock()
	return nil
}

// RemoveBiome deletes an unreferenced biome; removal of a biome any record
// still points at is rejected with ErrBiomeInUse.
func (s *MemStore) RemoveBiome(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.hexes {
		if rec.BiomeID == id {
			return ErrBiomeInUse
		}
	}
	delete(s.biomes, id)
	return nil
}

// ListMarkers returns all markers ordered by (R, Q, Icon).
func (s *MemStore) ListMarkers() []Marker {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Marker, len(s.markers))
	copy(out, s.markers)
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.R != b.R {
			return a.R < b.R
		}
		if a.Q != b.Q {
			return a.Q < b.Q
		}
		return a.Icon < b.Icon
	})
	return out
}

// AddMarker pins a marker.
func (s *MemStore) AddMarker(m Marker) {
	s.mu.Lock()
	s.markers = append(s.markers, m)
	s.mu.Unlock()
}

// RemoveMarker removes one marker equal to m.
func (s *MemStore) RemoveMarker(m Marker) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, have := range s.markers {
		if have == m {
			s.markers = append(s.markers[:i], s.markers[i+1:]...)
			return true
		}
	}
	return false
}

// MapBounds returns the authored map extent in hex-count units.
func (s *MemStore) MapBounds() (width, height int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.boundsW, s.boundsH
}

func sortHexRecords(recs []HexRecord) {
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].R != recs[j].R {
			return recs[i].R < recs[j].R
		}
		return recs[i].Q < recs[j].Q
	})
}
