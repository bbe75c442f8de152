package hexmap

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Default zoom limits applied when a Config leaves them zero.
const (
	defaultMinZoom = 0.25
	defaultMaxZoom = 4.0
)

// flyAnim holds active fly-to tweens for the viewport offsets.
type flyAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// zoomAnim tweens the zoom level while holding a screen anchor fixed.
type zoomAnim struct {
	tween   *gween.Tween
	anchorX float64
	anchorY float64
}

// Viewport owns the pan offset and zoom factor and applies the affine
// transform between screen space and world (hex-layout) space:
//
//	screen = world*Zoom + Offset
//
// Offsets are unconstrained; Zoom is clamped to [MinZoom, MaxZoom].
type Viewport struct {
	OffsetX, OffsetY float64
	Zoom             float64

	MinZoom, MaxZoom float64

	fly  *flyAnim
	zoom *zoomAnim
}

// NewViewport creates a viewport at zoom 1 with the default zoom limits.
func NewViewport() *Viewport {
	return &Viewport{
		Zoom:    1.0,
		MinZoom: defaultMinZoom,
		MaxZoom: defaultMaxZoom,
	}
}

// ToScreen converts a world-space point to screen space.
func (v *Viewport) ToScreen(wx, wy float64) (sx, sy float64) {
	return wx*v.Zoom + v.OffsetX, wy*v.Zoom + v.OffsetY
}

// ToWorld converts a screen-space point to world space.
func (v *Viewport) ToWorld(sx, sy float64) (wx, wy float64) {
	return (sx - v.OffsetX) / v.Zoom, (sy - v.OffsetY) / v.Zoom
}

// Pan adds a screen-space delta directly to the offsets. The delta is not
// scaled by zoom, matching direct mouse-delta dragging.
func (v *Viewport) Pan(dx, dy float64) {
	v.OffsetX += dx
	v.OffsetY += dy
}

// ZoomAt multiplies the zoom by factor, clamped to [MinZoom, MaxZoom], and
// recomputes the offsets so that the world point currently under the screen
// point (sx, sy) remains under it afterward. The anchor is the cursor, never
// the viewport center.
func (v *Viewport) ZoomAt(sx, sy, factor float64) {
	next := clamp(v.Zoom*factor, v.MinZoom, v.MaxZoom)
	if next == v.Zoom {
		return
	}
	ratio := next / v.Zoom
	v.OffsetX = sx - (sx-v.OffsetX)*ratio
	v.OffsetY = sy - (sy-v.OffsetY)*ratio
	v.Zoom = next
}

// CenterOn sets the offsets so the given world-space bounding box is centered
// in a canvas of the given size at the current zoom.
func (v *Viewport) CenterOn(bounds Rect, canvasW, canvasH float64) {
	bx, by := bounds.Center()
	v.OffsetX = canvasW/2 - bx*v.Zoom
	v.OffsetY = canvasH/2 - by*v.Zoom
}

// FlyTo animates the offsets over duration seconds so the world point
// (wx, wy) ends up centered in a canvas of the given size. Any previous
// fly-to is replaced. Duration <= 0 snaps immediately.
func (v *Viewport) FlyTo(wx, wy, canvasW, canvasH float64, duration float32, easeFn ease.TweenFunc) {
	targetX := canvasW/2 - wx*v.Zoom
	targetY := canvasH/2 - wy*v.Zoom
	if duration <= 0 {
		v.OffsetX = targetX
		v.OffsetY = targetY
		v.fly = nil
		return
	}
	v.fly = &flyAnim{
		tweenX: gween.New(float32(v.OffsetX), float32(targetX), duration, easeFn),
		tweenY: gween.New(float32(v.OffsetY), float32(targetY), duration, easeFn),
	}
}

// ZoomTo animates the zoom toward target over duration seconds, holding the
// screen point (anchorX, anchorY) fixed the whole way. The target is clamped
// to [MinZoom, MaxZoom]. Duration <= 0 applies the change immediately.
func (v *Viewport) ZoomTo(target, anchorX, anchorY float64, duration float32, easeFn ease.TweenFunc) {
	target = clamp(target, v.MinZoom, v.MaxZoom)
	if duration <= 0 {
		v.ZoomAt(anchorX, anchorY, target/v.Zoom)
		v.zoom = nil
		return
	}
	v.zoom = &zoomAnim{
		tween:   gween.New(float32(v.Zoom), float32(target), duration, easeFn),
		anchorX: anchorX,
		anchorY: anchorY,
	}
}

// Animating reports whether a fly-to or zoom tween is still in flight.
func (v *Viewport) Animating() bool {
	return v.fly != nil || v.zoom != nil
}

// update advances active tweens by dt seconds and reports whether the
// viewport changed. Called from Engine.Update.
func (v *Viewport) update(dt float32) bool {
	changed := false

	if v.fly != nil {
		if !v.fly.doneX {
			val, done := v.fly.tweenX.Update(dt)
			v.OffsetX = float64(val)
			v.fly.doneX = done
			changed = true
		}
		if !v.fly.doneY {
			val, done := v.fly.tweenY.Update(dt)
			v.OffsetY = float64(val)
			v.fly.doneY = done
			changed = true
		}
		if v.fly.doneX && v.fly.doneY {
			v.fly = nil
		}
	}

	if v.zoom != nil {
		val, done := v.zoom.tween.Update(dt)
		if next := float64(val); next != v.Zoom && v.Zoom != 0 {
			v.ZoomAt(v.zoom.anchorX, v.zoom.anchorY, next/v.Zoom)
			changed = true
		}
		if done {
			v.zoom = nil
		}
	}

	return changed
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
