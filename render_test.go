package hexmap

import (
	"reflect"
	"testing"
)

func newTestRenderer(t *testing.T) (*Renderer, *MemStore) {
	t.Helper()
	store := newSeededStore(t)
	store.UpsertHex(0, 0, func(r *HexRecord) {
		r.BiomeID = "forest"
		r.Label = "Eldenwood"
	})
	store.UpsertHex(1, 0, func(r *HexRecord) { r.BiomeID = "sea" })
	store.UpsertHex(2, -1, func(r *HexRecord) { r.BiomeID = "ghost" }) // dangling
	store.AddMarker(Marker{Q: 1, R: 0, Icon: "*"})
	return newRenderer(store, NewViewport(), 30, nil), store
}

// band collapses the per-hex layers into the fixed z-order bands: all hex
// drawing precedes hover, hover precedes selection, then labels, then markers.
func band(l renderLayer) int {
	switch l {
	case layerHexFill, layerPattern, layerHexStroke:
		return 0
	case layerHover:
		return 1
	case layerSelection:
		return 2
	case layerLabel:
		return 3
	default:
		return 4
	}
}

func TestBuildOpsDeterministic(t *testing.T) {
	r, _ := newTestRenderer(t)
	hover := &Axial{Q: 1, R: 0}
	selected := &Axial{Q: 0, R: 0}

	first := append([]renderOp(nil), r.buildOps(hover, selected)...)
	second := r.buildOps(hover, selected)

	if !reflect.DeepEqual(first, second) {
		t.Error("two passes over identical state produced different op lists")
	}
}

func TestBuildOpsZOrder(t *testing.T) {
	r, _ := newTestRenderer(t)
	hover := &Axial{Q: 0, R: 0}
	selected := &Axial{Q: 0, R: 0} // same cell: selection must come after hover

	ops := r.buildOps(hover, selected)
	layers := opsByLayer(ops)

	prev := -1
	for i, l := range layers {
		if b := band(l); b < prev {
			t.Fatalf("op %d (layer %d) drawn after band %d", i, l, prev)
		} else if b > prev {
			prev = b
		}
	}

	var sawHover, sawSelection, sawLabel, sawMarker bool
	for _, l := range layers {
		switch l {
		case layerHover:
			sawHover = true
		case layerSelection:
			sawSelection = true
		case layerLabel:
			sawLabel = true
		case layerMarker:
			sawMarker = true
		}
	}
	if !sawHover || !sawSelection || !sawLabel || !sawMarker {
		t.Errorf("missing bands: hover=%v selection=%v label=%v marker=%v",
			sawHover, sawSelection, sawLabel, sawMarker)
	}
}

func TestBuildOpsHexOrdering(t *testing.T) {
	r, _ := newTestRenderer(t)
	ops := r.buildOps(nil, nil)

	// Fill ops appear in (R, Q) order: (2,-1), (0,0), (1,0).
	var fills []renderOp
	for _, op := range ops {
		if op.layer == layerHexFill {
			fills = append(fills, op)
		}
	}
	if len(fills) != 3 {
		t.Fatalf("got %d fill ops, want 3", len(fills))
	}
	wantCenters := []Axial{{Q: 2, R: -1}, {Q: 0, R: 0}, {Q: 1, R: 0}}
	for i, want := range wantCenters {
		cx, cy := want.ToPixel(30)
		corners := Corners(cx, cy, 30)
		if !reflect.DeepEqual(fills[i].pts, corners[:]) {
			t.Errorf("fill %d is not hex %v", i, want)
		}
	}
}

// TestDanglingBiomeFallsBackToNeutralFill: a record whose biome id is
// undefined still renders, with the neutral fill and no pattern.
func TestDanglingBiomeFallsBackToNeutralFill(t *testing.T) {
	r, _ := newTestRenderer(t)
	ops := r.buildOps(nil, nil)

	cx, cy := (Axial{Q: 2, R: -1}).ToPixel(30)
	corners := Corners(cx, cy, 30)
	for _, op := range ops {
		if op.layer == layerHexFill && reflect.DeepEqual(op.pts, corners[:]) {
			if op.col != neutralFill {
				t.Errorf("dangling-biome fill = %v, want neutral %v", op.col, neutralFill)
			}
			return
		}
	}
	t.Fatal("hex with dangling biome id was dropped")
}

func TestPatternOverlayEmitted(t *testing.T) {
	r, _ := newTestRenderer(t)
	ops := r.buildOps(nil, nil)

	var patternOps int
	for _, op := range ops {
		if op.layer == layerPattern {
			patternOps++
		}
	}
	// Two of the three hexes have registered patterns (tree, wave); the
	// dangling one resolves to PatternNone.
	if patternOps == 0 {
		t.Fatal("no pattern ops for biomes with registered patterns")
	}
}

func TestLabelOpsOnlyForLabeledHexes(t *testing.T) {
	r, _ := newTestRenderer(t)
	ops := r.buildOps(nil, nil)

	var labels []renderOp
	for _, op := range ops {
		if op.layer == layerLabel {
			labels = append(labels, op)
		}
	}
	if len(labels) != 1 {
		t.Fatalf("got %d label ops, want 1", len(labels))
	}
	if labels[0].text != "Eldenwood" || !labels[0].plate {
		t.Errorf("label op = %+v", labels[0])
	}
	cx, cy := (Axial{Q: 0, R: 0}).ToPixel(30)
	if labels[0].x != cx || labels[0].y <= cy {
		t.Errorf("label anchored at (%v,%v), want below center (%v,%v)", labels[0].x, labels[0].y, cx, cy)
	}
}

func TestMarkerOpsRiseAboveCenter(t *testing.T) {
	r, _ := newTestRenderer(t)
	ops := r.buildOps(nil, nil)

	cx, cy := (Axial{Q: 1, R: 0}).ToPixel(30)
	for _, op := range ops {
		if op.layer == layerMarker {
			if op.text != "*" {
				t.Errorf("marker text = %q", op.text)
			}
			if op.x != cx || op.y >= cy {
				t.Errorf("marker at (%v,%v), want above center (%v,%v)", op.x, op.y, cx, cy)
			}
			return
		}
	}
	t.Fatal("no marker op emitted")
}

func TestSelectionHighlightHasRim(t *testing.T) {
	r, _ := newTestRenderer(t)
	selected := &Axial{Q: 0, R: 0}
	ops := r.buildOps(nil, selected)

	var fill, rim bool
	for _, op := range ops {
		if op.layer != layerSelection {
			continue
		}
		switch op.kind {
		case opFill:
			fill = true
		case opStroke:
			rim = true
		}
	}
	if !fill || !rim {
		t.Errorf("selection highlight: fill=%v rim=%v, want both", fill, rim)
	}

	// Hover is fill-only.
	hover := &Axial{Q: 0, R: 0}
	for _, op := range r.buildOps(hover, nil) {
		if op.layer == layerHover && op.kind == opStroke {
			t.Error("hover highlight has a rim stroke")
		}
	}
}

func TestHighlightOnUnpopulatedCell(t *testing.T) {
	r, _ := newTestRenderer(t)
	hover := &Axial{Q: -7, R: 4} // no record there
	ops := r.buildOps(hover, nil)

	for _, op := range ops {
		if op.layer == layerHover {
			return
		}
	}
	t.Fatal("hover over an unpopulated cell emitted no highlight")
}

func TestShadeClamps(t *testing.T) {
	c := shade(neutralFill, 300)
	if c.R != 255 || c.G != 255 || c.B != 255 {
		t.Errorf("shade(+300) = %v, want white", c)
	}
	c = shade(neutralFill, -300)
	if c.R != 0 || c.G != 0 || c.B != 0 {
		t.Errorf("shade(-300) = %v, want black", c)
	}
	if c.A != neutralFill.A {
		t.Error("shade changed alpha")
	}
}
