package hexmap

import "math"

// Axial is a hex cell address in axial coordinates (Q, R) on a flat-top
// lattice. The third cube coordinate S = -Q - R is implied, never stored.
type Axial struct {
	Q, R int
}

const sqrt3 = 1.7320508075688772935

// neighborOffsets lists the 6 adjacent cells, starting East and going
// clockwise on screen (Y down).
var neighborOffsets = [6]Axial{
	{Q: 1, R: 0}, {Q: 1, R: -1}, {Q: 0, R: -1},
	{Q: -1, R: 0}, {Q: -1, R: 1}, {Q: 0, R: 1},
}

// S returns the implied third cube coordinate. Q + R + S is always zero.
func (a Axial) S() int {
	return -a.Q - a.R
}

// Add returns the component-wise sum of two axial coordinates.
func (a Axial) Add(b Axial) Axial {
	return Axial{Q: a.Q + b.Q, R: a.R + b.R}
}

// Sub returns the component-wise difference of two axial coordinates.
func (a Axial) Sub(b Axial) Axial {
	return Axial{Q: a.Q - b.Q, R: a.R - b.R}
}

// Distance returns the hex-grid distance (minimum number of steps) to b.
func (a Axial) Distance(b Axial) int {
	dq := a.Q - b.Q
	dr := a.R - b.R
	return (abs(dq) + abs(dr) + abs(dq+dr)) / 2
}

// Neighbors returns the six cells adjacent to a.
func (a Axial) Neighbors() [6]Axial {
	var out [6]Axial
	for i, d := range neighborOffsets {
		out[i] = a.Add(d)
	}
	return out
}

// ToPixel converts the cell to the pixel position of its center, in world
// space, for a flat-top layout with circumradius size.
func (a Axial) ToPixel(size float64) (x, y float64) {
	x = size * 1.5 * float64(a.Q)
	y = size * (sqrt3/2*float64(a.Q) + sqrt3*float64(a.R))
	return
}

// PixelToHex converts a world-space point to the cell whose Voronoi region
// contains it: the exact inverse of ToPixel followed by cube rounding.
func PixelToHex(x, y, size float64) Axial {
	qf, rf := PixelToHexFractional(x, y, size)
	return RoundAxial(qf, rf)
}

// PixelToHexFractional inverts ToPixel without rounding, returning the
// fractional axial coordinates of a world-space point.
func PixelToHexFractional(x, y, size float64) (qf, rf float64) {
	qf = (2.0 / 3.0) * x / size
	rf = (-1.0/3.0*x + sqrt3/3.0*y) / size
	return
}

// RoundAxial maps fractional axial coordinates to the nearest integer cell.
//
// Each cube coordinate is rounded independently; the one with the largest
// rounding error is then recomputed from the other two so that q+r+s = 0
// holds exactly. Ties fix s, so the independently rounded q and r stand.
func RoundAxial(qf, rf float64) Axial {
	sf := -qf - rf

	q := math.Round(qf)
	r := math.Round(rf)
	s := math.Round(sf)

	dq := math.Abs(q - qf)
	dr := math.Abs(r - rf)
	ds := math.Abs(s - sf)

	switch {
	case dq > dr && dq > ds:
		q = -r - s
	case dr > dq && dr > ds:
		r = -q - s
	}
	return Axial{Q: int(q), R: int(r)}
}

// Corners returns the six corner points of the hexagon centered at (cx, cy)
// with circumradius size. Corner i sits at angle 60°*i − 30° from the center.
func Corners(cx, cy, size float64) [6]Vec2 {
	var out [6]Vec2
	for i := 0; i < 6; i++ {
		angle := math.Pi/3*float64(i) - math.Pi/6
		out[i] = Vec2{
			X: cx + size*math.Cos(angle),
			Y: cy + size*math.Sin(angle),
		}
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
