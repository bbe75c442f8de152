package hexmap

import (
	"encoding/json"
	"fmt"
)

// Snapshot is the serialisable representation of a store's contents. The
// field shapes match the surrounding application's export files exactly, so
// a snapshot written here round-trips through that tooling unchanged.
type Snapshot struct {
	MapWidth  int         `json:"mapWidth"`
	MapHeight int         `json:"mapHeight"`
	Biomes    []Biome     `json:"biomes"`
	Hexes     []HexRecord `json:"hexes"`
	Markers   []Marker    `json:"markers"`
}

// TakeSnapshot captures the full contents of any Store.
func TakeSnapshot(s Store) Snapshot {
	w, h := s.MapBounds()
	return Snapshot{
		MapWidth:  w,
		MapHeight: h,
		Biomes:    s.ListBiomes(),
		Hexes:     s.ListHexes(),
		Markers:   s.ListMarkers(),
	}
}

// ExportJSON serializes the store's contents.
func (s *MemStore) ExportJSON() ([]byte, error) {
	return json.MarshalIndent(TakeSnapshot(s), "", "  ")
}

// ImportJSON replaces the store's contents with the given snapshot data.
// Biomes with unregistered patterns are rejected; hex records referencing
// unknown biomes are kept (rendering falls back to the neutral fill).
func (s *MemStore) ImportJSON(data []byte) error {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("parse snapshot: %w", err)
	}
	return s.Restore(snap)
}

// Restore replaces the store's contents with the given snapshot.
func (s *MemStore) Restore(snap Snapshot) error {
	for _, b := range snap.Biomes {
		if !PatternRegistered(b.Pattern) {
			return fmt.Errorf("biome %q: %w", b.ID, ErrUnknownPattern)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.boundsW = snap.MapWidth
	s.boundsH = snap.MapHeight
	s.biomes = make(map[string]Biome, len(snap.Biomes))
	for _, b := range snap.Biomes {
		s.biomes[b.ID] = b
	}
	s.hexes = make(map[Axial]HexRecord, len(snap.Hexes))
	for _, rec := range snap.Hexes {
		s.hexes[rec.Coord()] = rec
	}
	s.markers = append(s.markers[:0], snap.Markers...)
	return nil
}
