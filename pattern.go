package hexmap

import (
	"math"
	"math/rand"
)

// PatternFunc draws one biome's procedural decoration into the cell centered
// at (cx, cy) with circumradius size. Shapes are deterministic with a small
// positional jitter taken from rng, which the renderer seeds per cell so that
// consecutive frames are identical.
type PatternFunc func(b *Brush, cx, cy, size float64, rng *rand.Rand)

// patternRegistry maps pattern kinds to their drawing strategies. New
// patterns are added here (or via RegisterPattern) without touching the
// renderer's hex loop.
var patternRegistry = map[PatternKind]PatternFunc{
	PatternWave:    drawWave,
	PatternTree:    drawTree,
	PatternPeak:    drawPeak,
	PatternDune:    drawDune,
	PatternSnow:    drawSnow,
	PatternMarsh:   drawMarsh,
	PatternLava:    drawLava,
	PatternCrystal: drawCrystal,
}

// RegisterPattern adds or replaces a pattern strategy. Call during program
// init, before any rendering; the registry is not synchronized.
func RegisterPattern(kind PatternKind, fn PatternFunc) {
	patternRegistry[kind] = fn
}

// PatternRegistered reports whether kind has a drawing strategy.
// PatternNone is always valid and draws nothing.
func PatternRegistered(kind PatternKind) bool {
	if kind == PatternNone {
		return true
	}
	_, ok := patternRegistry[kind]
	return ok
}

// Patterns returns the kinds currently registered, in no particular order.
func Patterns() []PatternKind {
	out := make([]PatternKind, 0, len(patternRegistry))
	for k := range patternRegistry {
		out = append(out, k)
	}
	return out
}

// patternSeed derives a stable per-cell RNG seed so jitter does not crawl
// between frames.
func patternSeed(a Axial) int64 {
	h := uint64(int64(a.Q))*0x9E3779B97F4A7C15 ^ uint64(int64(a.R))*0x517CC1B727220A95
	return int64(h)
}

// jitter returns a value in [-amount, amount).
func jitter(rng *rand.Rand, amount float64) float64 {
	return (rng.Float64()*2 - 1) * amount
}

// --- Strategies ---

// drawWave lays three horizontal wave lines across the cell.
func drawWave(b *Brush, cx, cy, size float64, rng *rand.Rand) {
	for row := -1; row <= 1; row++ {
		y := cy + float64(row)*size*0.32 + jitter(rng, size*0.05)
		phase := jitter(rng, math.Pi)
		const segments = 8
		pts := make([]Vec2, segments+1)
		for i := 0; i <= segments; i++ {
			t := float64(i)/segments*2 - 1 // -1..1
			pts[i] = Vec2{
				X: cx + t*size*0.55,
				Y: y + math.Sin(t*3+phase)*size*0.08,
			}
		}
		b.Polyline(pts...)
	}
}

// drawTree scatters three small conifers.
func drawTree(b *Brush, cx, cy, size float64, rng *rand.Rand) {
	for i := 0; i < 3; i++ {
		x := cx + jitter(rng, size*0.4)
		y := cy + jitter(rng, size*0.35)
		h := size*0.36 + jitter(rng, size*0.06)
		w := h * 0.6
		b.Polygon(
			Vec2{X: x, Y: y - h/2},
			Vec2{X: x - w/2, Y: y + h/2},
			Vec2{X: x + w/2, Y: y + h/2},
		)
		b.Line(x, y+h/2, x, y+h/2+h*0.25)
	}
}

// drawPeak draws a large and a small mountain triangle.
func drawPeak(b *Brush, cx, cy, size float64, rng *rand.Rand) {
	x := cx + jitter(rng, size*0.15)
	y := cy + size*0.15
	h := size * 0.7
	w := size * 0.8
	b.Polygon(
		Vec2{X: x, Y: y - h/2},
		Vec2{X: x - w/2, Y: y + h/2},
		Vec2{X: x + w/2, Y: y + h/2},
	)
	x2 := x + w*0.45
	b.Polygon(
		Vec2{X: x2, Y: y - h*0.1},
		Vec2{X: x2 - w*0.3, Y: y + h/2},
		Vec2{X: x2 + w*0.3, Y: y + h/2},
	)
	// Snow cap on the main peak.
	b.Line(x-w*0.12, y-h*0.15, x+w*0.12, y-h*0.15)
}

// drawDune draws stacked shallow arcs.
func drawDune(b *Brush, cx, cy, size float64, rng *rand.Rand) {
	for row := 0; row < 3; row++ {
		x := cx + jitter(rng, size*0.2)
		y := cy + (float64(row)-1)*size*0.3
		w := size*0.5 + jitter(rng, size*0.1)
		const segments = 6
		pts := make([]Vec2, segments+1)
		for i := 0; i <= segments; i++ {
			t := float64(i)/segments*2 - 1
			pts[i] = Vec2{
				X: x + t*w/2,
				Y: y - (1-t*t)*size*0.12,
			}
		}
		b.Polyline(pts...)
	}
}

// drawSnow scatters three six-armed flakes.
func drawSnow(b *Brush, cx, cy, size float64, rng *rand.Rand) {
	for i := 0; i < 3; i++ {
		x := cx + jitter(rng, size*0.45)
		y := cy + jitter(rng, size*0.4)
		r := size * 0.14
		for arm := 0; arm < 3; arm++ {
			angle := math.Pi / 3 * float64(arm)
			dx := math.Cos(angle) * r
			dy := math.Sin(angle) * r
			b.Line(x-dx, y-dy, x+dx, y+dy)
		}
	}
}

// drawMarsh draws grass tufts over short water dashes.
func drawMarsh(b *Brush, cx, cy, size float64, rng *rand.Rand) {
	for i := 0; i < 4; i++ {
		x := cx + jitter(rng, size*0.45)
		y := cy + jitter(rng, size*0.35)
		h := size * 0.22
		b.Line(x, y, x, y-h)
		b.Line(x, y, x-h*0.5, y-h*0.8)
		b.Line(x, y, x+h*0.5, y-h*0.8)
		b.Line(x-h*0.6, y+h*0.3, x+h*0.6, y+h*0.3)
	}
}

// drawLava draws two jagged crack lines.
func drawLava(b *Brush, cx, cy, size float64, rng *rand.Rand) {
	for i := 0; i < 2; i++ {
		y := cy + (float64(i)-0.5)*size*0.4
		const segments = 5
		pts := make([]Vec2, segments+1)
		for j := 0; j <= segments; j++ {
			t := float64(j)/segments*2 - 1
			up := 1.0
			if j%2 == 1 {
				up = -1.0
			}
			pts[j] = Vec2{
				X: cx + t*size*0.5,
				Y: y + up*size*0.1 + jitter(rng, size*0.04),
			}
		}
		b.Polyline(pts...)
	}
}

// drawCrystal draws two rhombus outlines.
func drawCrystal(b *Brush, cx, cy, size float64, rng *rand.Rand) {
	for i := 0; i < 2; i++ {
		x := cx + jitter(rng, size*0.3)
		y := cy + jitter(rng, size*0.25)
		w := size * (0.28 - 0.08*float64(i))
		h := w * 1.6
		b.Ring(
			Vec2{X: x, Y: y - h/2},
			Vec2{X: x + w/2, Y: y},
			Vec2{X: x, Y: y + h/2},
			Vec2{X: x - w/2, Y: y},
		)
		b.Line(x, y-h/2, x, y+h/2)
	}
}
