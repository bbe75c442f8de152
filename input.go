package hexmap

import "github.com/hajimehoshi/ebiten/v2"

// inputAdapter polls Ebitengine's mouse state once per update and translates
// edges into Controller events. It is the only place the engine touches the
// host event mechanism; the Controller itself stays host-agnostic.
type inputAdapter struct {
	ctrl *Controller

	prevDown     bool
	prevX, prevY int
	inside       bool
}

func newInputAdapter(ctrl *Controller) *inputAdapter {
	return &inputAdapter{ctrl: ctrl}
}

// poll reads the cursor, button, and wheel state for a canvas of the given
// size and feeds the controller. A cursor outside the canvas counts as a
// pointer-leave, which cancels any drag in progress.
func (ia *inputAdapter) poll(w, h int) {
	x, y := ebiten.CursorPosition()
	fx, fy := float64(x), float64(y)
	inside := x >= 0 && y >= 0 && x < w && y < h

	if !inside {
		if ia.inside {
			ia.ctrl.PointerLeave()
		}
		ia.inside = false
		ia.prevDown = false
		ia.prevX, ia.prevY = x, y
		return
	}
	if !ia.inside {
		ia.inside = true
		ia.prevX, ia.prevY = x, y
	}

	down := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	moved := x != ia.prevX || y != ia.prevY

	if down && !ia.prevDown {
		ia.ctrl.PointerDown(fx, fy)
	} else if moved {
		// Movement is reported before a same-frame release so a quick drag
		// still suppresses the click.
		ia.ctrl.PointerMove(fx, fy)
	}
	if !down && ia.prevDown {
		ia.ctrl.PointerUp(fx, fy)
	}

	if _, wy := ebiten.Wheel(); wy != 0 {
		ia.ctrl.Wheel(fx, fy, wy)
	}

	ia.prevDown = down
	ia.prevX, ia.prevY = x, y
}
