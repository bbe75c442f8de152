package hexmap

import (
	"fmt"
	"os"
	"time"
)

// SetDebug toggles per-frame render stats on stderr.
func (e *Engine) SetDebug(v bool) {
	e.debug = v
}

// startFrame returns the frame start time, or zero when debug is off.
func (e *Engine) startFrame() time.Time {
	if !e.debug {
		return time.Time{}
	}
	return time.Now()
}

// endFrame prints op count and repaint duration to stderr.
func (e *Engine) endFrame(start time.Time) {
	if !e.debug || start.IsZero() {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "[hexmap] ops: %d | repaint: %v\n",
		len(e.renderer.ops), time.Since(start))
}
