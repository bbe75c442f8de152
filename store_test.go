package hexmap

import (
	"errors"
	"testing"
)

func newSeededStore(t *testing.T) *MemStore {
	t.Helper()
	s := NewMemStore(20, 15)
	biomes := []Biome{
		{ID: "sea", Name: "Sea", Color: "#2d5a8e", Pattern: PatternWave},
		{ID: "forest", Name: "Forest", Color: "#3f7a46", Pattern: PatternTree},
		{ID: "desert", Name: "Desert", Color: "#caa96a", Pattern: PatternDune},
	}
	for _, b := range biomes {
		if err := s.PutBiome(b); err != nil {
			t.Fatalf("PutBiome(%q): %v", b.ID, err)
		}
	}
	s.SetDefaultBiome("sea")
	return s
}

func TestUpsertCreatesWithDefaultBiome(t *testing.T) {
	s := newSeededStore(t)

	if _, ok := s.GetHex(4, -2); ok {
		t.Fatal("record exists before upsert")
	}

	rec := s.UpsertHex(4, -2, nil)
	if rec.BiomeID != "sea" {
		t.Errorf("BiomeID = %q, want default %q", rec.BiomeID, "sea")
	}
	if rec.Q != 4 || rec.R != -2 {
		t.Errorf("coords = (%d,%d), want (4,-2)", rec.Q, rec.R)
	}

	got, ok := s.GetHex(4, -2)
	if !ok || got != rec {
		t.Errorf("GetHex = %+v, %v", got, ok)
	}
}

func TestUpsertMutatesInPlace(t *testing.T) {
	s := newSeededStore(t)

	s.UpsertHex(1, 1, func(r *HexRecord) { r.Label = "Harbor" })
	rec := s.UpsertHex(1, 1, func(r *HexRecord) { r.BiomeID = "forest" })

	if rec.Label != "Harbor" || rec.BiomeID != "forest" {
		t.Errorf("rec = %+v, want label and biome both set", rec)
	}
}

// TestUpsertPinsIdentity: a mutator cannot move a record to another cell.
func TestUpsertPinsIdentity(t *testing.T) {
	s := newSeededStore(t)

	rec := s.UpsertHex(2, 3, func(r *HexRecord) {
		r.Q = 99
		r.R = 99
	})
	if rec.Q != 2 || rec.R != 3 {
		t.Errorf("record moved to (%d,%d)", rec.Q, rec.R)
	}
	if _, ok := s.GetHex(99, 99); ok {
		t.Error("phantom record at (99,99)")
	}
}

func TestRemoveBiomeReferentialIntegrity(t *testing.T) {
	s := newSeededStore(t)
	s.UpsertHex(0, 0, func(r *HexRecord) { r.BiomeID = "forest" })

	if err := s.RemoveBiome("forest"); !errors.Is(err, ErrBiomeInUse) {
		t.Errorf("RemoveBiome(referenced) = %v, want ErrBiomeInUse", err)
	}
	if _, ok := s.GetBiome("forest"); !ok {
		t.Error("referenced biome was removed anyway")
	}

	if err := s.RemoveBiome("desert"); err != nil {
		t.Errorf("RemoveBiome(unreferenced) = %v", err)
	}
	if _, ok := s.GetBiome("desert"); ok {
		t.Error("unreferenced biome still present")
	}
}

func TestPutBiomeRejectsUnknownPattern(t *testing.T) {
	s := NewMemStore(0, 0)

	err := s.PutBiome(Biome{ID: "x", Pattern: PatternKind("no-such-pattern")})
	if !errors.Is(err, ErrUnknownPattern) {
		t.Errorf("PutBiome = %v, want ErrUnknownPattern", err)
	}
	if err := s.PutBiome(Biome{ID: "plain", Pattern: PatternNone}); err != nil {
		t.Errorf("PutBiome with PatternNone = %v", err)
	}
}

func TestListHexesOrdered(t *testing.T) {
	s := newSeededStore(t)
	for _, c := range []Axial{{2, 0}, {-1, 1}, {0, 0}, {5, -2}, {1, 0}} {
		s.UpsertHex(c.Q, c.R, nil)
	}

	recs := s.ListHexes()
	want := []Axial{{5, -2}, {0, 0}, {1, 0}, {2, 0}, {-1, 1}}
	if len(recs) != len(want) {
		t.Fatalf("got %d records, want %d", len(recs), len(want))
	}
	for i, rec := range recs {
		if rec.Coord() != want[i] {
			t.Errorf("record %d at %v, want %v", i, rec.Coord(), want[i])
		}
	}
}

func TestMarkers(t *testing.T) {
	s := newSeededStore(t)

	s.AddMarker(Marker{Q: 1, R: 0, Icon: "*"})
	s.AddMarker(Marker{Q: 0, R: 0, Icon: "!"})
	s.AddMarker(Marker{Q: 0, R: 0, Icon: "!"}) // duplicates are allowed

	if got := len(s.ListMarkers()); got != 3 {
		t.Fatalf("got %d markers, want 3", got)
	}

	if !s.RemoveMarker(Marker{Q: 0, R: 0, Icon: "!"}) {
		t.Error("RemoveMarker did not find an existing marker")
	}
	if got := len(s.ListMarkers()); got != 2 {
		t.Errorf("got %d markers after remove, want 2", got)
	}
	if s.RemoveMarker(Marker{Q: 9, R: 9, Icon: "?"}) {
		t.Error("RemoveMarker reported success for a missing marker")
	}
}

func TestMapBounds(t *testing.T) {
	s := NewMemStore(20, 15)
	if w, h := s.MapBounds(); w != 20 || h != 15 {
		t.Errorf("MapBounds = (%d,%d)", w, h)
	}
	s.SetMapBounds(8, 6)
	if w, h := s.MapBounds(); w != 8 || h != 6 {
		t.Errorf("MapBounds after set = (%d,%d)", w, h)
	}
}

func TestListBiomesOrdered(t *testing.T) {
	s := newSeededStore(t)
	biomes := s.ListBiomes()
	for i := 1; i < len(biomes); i++ {
		if biomes[i-1].ID >= biomes[i].ID {
			t.Errorf("biomes out of order: %q before %q", biomes[i-1].ID, biomes[i].ID)
		}
	}
}
