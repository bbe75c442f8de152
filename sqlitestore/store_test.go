package sqlitestore

import (
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/fablemap/hexmap"
)

func openTestStore(t *testing.T, path string) *Store {
	t.Helper()
	s, err := Open(path,
		WithDebounce(time.Hour), // tests flush explicitly
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	if err != nil {
		t.Fatalf("Open(%q): %v", path, err)
	}
	return s
}

func seedTestStore(t *testing.T, s *Store) {
	t.Helper()
	biomes := []hexmap.Biome{
		{ID: "sea", Name: "Sea", Color: "#2d5a8e", Pattern: hexmap.PatternWave},
		{ID: "forest", Name: "Forest", Color: "#3f7a46", Pattern: hexmap.PatternTree},
	}
	for _, b := range biomes {
		if err := s.PutBiome(b); err != nil {
			t.Fatalf("PutBiome(%q): %v", b.ID, err)
		}
	}
	s.SetDefaultBiome("sea")
	s.SetMapBounds(20, 15)
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.db")

	s := openTestStore(t, path)
	seedTestStore(t, s)
	s.UpsertHex(0, 0, func(r *hexmap.HexRecord) {
		r.BiomeID = "forest"
		r.Label = "Eldenwood"
		r.Notes = "ancient"
	})
	s.AddMarker(hexmap.Marker{Q: 0, R: 0, Icon: "*"})
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s2 := openTestStore(t, path)
	defer s2.Close()

	rec, ok := s2.GetHex(0, 0)
	if !ok {
		t.Fatal("record lost across reopen")
	}
	if rec.BiomeID != "forest" || rec.Label != "Eldenwood" || rec.Notes != "ancient" {
		t.Errorf("record = %+v", rec)
	}
	if len(s2.ListBiomes()) != 2 {
		t.Errorf("got %d biomes, want 2", len(s2.ListBiomes()))
	}
	if len(s2.ListMarkers()) != 1 {
		t.Errorf("got %d markers, want 1", len(s2.ListMarkers()))
	}
	if w, h := s2.MapBounds(); w != 20 || h != 15 {
		t.Errorf("bounds = (%d,%d), want (20,15)", w, h)
	}

	// The default biome is metadata, so lazy creation behaves identically
	// after a restart.
	if rec := s2.UpsertHex(9, 9, nil); rec.BiomeID != "sea" {
		t.Errorf("lazily created record has biome %q, want %q", rec.BiomeID, "sea")
	}
}

// TestReadsServedFromMirror: reads answer synchronously before any flush has
// happened, because the engine re-reads the store mid-frame.
func TestReadsServedFromMirror(t *testing.T) {
	s := openTestStore(t, filepath.Join(t.TempDir(), "world.db"))
	defer s.Close()
	seedTestStore(t, s)

	s.UpsertHex(3, -1, func(r *hexmap.HexRecord) { r.Label = "Fresh" })
	rec, ok := s.GetHex(3, -1)
	if !ok || rec.Label != "Fresh" {
		t.Errorf("GetHex = %+v, %v before flush", rec, ok)
	}
	if got := len(s.ListHexes()); got != 1 {
		t.Errorf("ListHexes = %d records before flush, want 1", got)
	}
}

func TestFlushPrunesAllDefaultRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.db")

	s := openTestStore(t, path)
	seedTestStore(t, s)
	s.UpsertHex(5, 5, nil) // default biome, no label or notes
	s.UpsertHex(1, 1, func(r *hexmap.HexRecord) { r.Label = "Keep" })
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s2 := openTestStore(t, path)
	defer s2.Close()

	if _, ok := s2.GetHex(5, 5); ok {
		t.Error("all-default row survived the flush")
	}
	if rec, ok := s2.GetHex(1, 1); !ok || rec.Label != "Keep" {
		t.Errorf("labeled row = %+v, %v", rec, ok)
	}
}

func TestReferentialIntegrityPassThrough(t *testing.T) {
	s := openTestStore(t, filepath.Join(t.TempDir(), "world.db"))
	defer s.Close()
	seedTestStore(t, s)

	s.UpsertHex(0, 0, func(r *hexmap.HexRecord) { r.BiomeID = "forest" })
	if err := s.RemoveBiome("forest"); !errors.Is(err, hexmap.ErrBiomeInUse) {
		t.Errorf("RemoveBiome(referenced) = %v, want ErrBiomeInUse", err)
	}
	if err := s.PutBiome(hexmap.Biome{ID: "x", Pattern: hexmap.PatternKind("bad")}); !errors.Is(err, hexmap.ErrUnknownPattern) {
		t.Errorf("PutBiome(bad pattern) = %v, want ErrUnknownPattern", err)
	}
}

func TestExplicitFlush(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.db")

	s := openTestStore(t, path)
	seedTestStore(t, s)
	s.UpsertHex(2, 2, func(r *hexmap.HexRecord) { r.Label = "Flushed" })
	if err := s.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	// A second store over the same file sees the flushed row.
	var count int
	if err := s.db.Get(&count, "SELECT COUNT(*) FROM hexes"); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("hexes on disk = %d, want 1", count)
	}
	s.Close()
}

func TestRemoveMarkerPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.db")

	s := openTestStore(t, path)
	seedTestStore(t, s)
	m := hexmap.Marker{Q: 1, R: 1, Icon: "!"}
	s.AddMarker(m)
	if !s.RemoveMarker(m) {
		t.Fatal("RemoveMarker did not find the marker")
	}
	s.Close()

	s2 := openTestStore(t, path)
	defer s2.Close()
	if got := len(s2.ListMarkers()); got != 0 {
		t.Errorf("got %d markers after reopen, want 0", got)
	}
}
