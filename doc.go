// Package hexmap is a pan/zoom hex-grid world-map widget for [Ebitengine].
//
// The widget maintains a viewport over an infinite flat-top axial hex
// lattice, converts between screen pixels and hex coordinates, renders a
// sparse set of authored hexes with per-biome fills and procedural pattern
// overlays, and exposes pointer-driven hover and selection to the host
// application. Content comes from an injected [Store]; the engine never owns
// the data, only the view onto it.
//
// # Quick start
//
// Create a store, an engine, and mount it in your game:
//
//	store := hexmap.NewMemStore(20, 15)
//	store.PutBiome(hexmap.Biome{ID: "sea", Color: "#2d5a8e", Pattern: hexmap.PatternWave})
//
//	engine := hexmap.New(store, hexmap.Config{HexSize: 30})
//	engine.Init(host) // host reports the canvas size
//	engine.SetOnSelect(func(c hexmap.Axial, rec hexmap.HexRecord, ok bool) {
//		// open the hex editor for c
//	})
//
// then call [Engine.Update] and [Engine.Draw] from your [ebiten.Game]:
//
//	func (g *Game) Update() error        { g.engine.Update(); return nil }
//	func (g *Game) Draw(s *ebiten.Image) { g.engine.Draw(s) }
//
// # Coordinates
//
// Cells are addressed by [Axial] (q, r) pairs with the implied cube
// coordinate s = -q - r. [Axial.ToPixel] and [PixelToHex] convert between
// cells and world space; the engine's [Viewport] maps world space to the
// screen. Wheel zoom anchors at the cursor, button zoom at the canvas
// center.
//
// # Stores
//
// [MemStore] is the in-memory implementation with JSON snapshot
// import/export. The sqlitestore subpackage persists the same contents to a
// local SQLite file behind a synchronous in-memory mirror.
//
// [Ebitengine]: https://ebitengine.org
package hexmap
