package hexmap

import (
	"fmt"
	"image/color"
)

// Vec2 is a 2D point or offset used throughout the API.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() (x, y float64) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// PatternKind selects the procedural decoration drawn over a biome's fill.
// The string values are the ones stored in JSON snapshots and in the
// persistent store, so they must stay stable.
type PatternKind string

const (
	PatternNone    PatternKind = ""        // flat fill, no decoration
	PatternWave    PatternKind = "wave"    // horizontal wave lines (water)
	PatternTree    PatternKind = "tree"    // small conifers (forest)
	PatternPeak    PatternKind = "peak"    // triangular peaks (mountains)
	PatternDune    PatternKind = "dune"    // shallow arcs (desert)
	PatternSnow    PatternKind = "snow"    // six-armed flakes (tundra)
	PatternMarsh   PatternKind = "marsh"   // grass tufts over water dashes
	PatternLava    PatternKind = "lava"    // jagged cracks (volcanic)
	PatternCrystal PatternKind = "crystal" // rhombus outlines (caverns)
)

// MouseButton identifies a mouse button reported to the input adapter.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button
	MouseButtonMiddle                    // middle mouse button
)

// neutralFill is the fallback fill used for records whose biome reference is
// missing or whose color string fails to parse. Rendering must never drop a
// hex over a dangling biome id.
var neutralFill = color.RGBA{R: 0x6b, G: 0x6b, B: 0x72, A: 0xff}

// ParseColor parses a CSS-style "#rrggbb" or "#rgb" color string.
// Reports ok=false on any malformed input.
func ParseColor(s string) (color.RGBA, bool) {
	if len(s) == 0 || s[0] != '#' {
		return color.RGBA{}, false
	}
	hexVal := func(b byte) (uint8, bool) {
		switch {
		case b >= '0' && b <= '9':
			return b - '0', true
		case b >= 'a' && b <= 'f':
			return b - 'a' + 10, true
		case b >= 'A' && b <= 'F':
			return b - 'A' + 10, true
		}
		return 0, false
	}
	switch len(s) {
	case 7: // #rrggbb
		var out [3]uint8
		for i := 0; i < 3; i++ {
			hi, ok1 := hexVal(s[1+i*2])
			lo, ok2 := hexVal(s[2+i*2])
			if !ok1 || !ok2 {
				return color.RGBA{}, false
			}
			out[i] = hi<<4 | lo
		}
		return color.RGBA{R: out[0], G: out[1], B: out[2], A: 0xff}, true
	case 4: // #rgb
		var out [3]uint8
		for i := 0; i < 3; i++ {
			v, ok := hexVal(s[1+i])
			if !ok {
				return color.RGBA{}, false
			}
			out[i] = v<<4 | v
		}
		return color.RGBA{R: out[0], G: out[1], B: out[2], A: 0xff}, true
	}
	return color.RGBA{}, false
}

// FormatColor renders c as a "#rrggbb" string, the inverse of ParseColor.
func FormatColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// luminance returns the average channel intensity, used to pick contrasting
// text and pattern colors over arbitrary biome fills.
func luminance(c color.RGBA) int {
	return (int(c.R) + int(c.G) + int(c.B)) / 3
}
