// Package marionette is a scripting API for driving an external 2D
// rendering and physics engine.
//
// Marionette does not draw or simulate anything itself. Every actor is a
// handle to an object owned by an [Engine], plus a small cache of the state
// last sent to it. The engine is injected: the in-process reference engine
// lives in the hostengine package, and the wsengine package exposes any
// engine over a websocket so scripts can run in another process.
//
// # Quick start
//
//	host := hostengine.New(logger)
//	rt := marionette.New(host, marionette.WithLogLevel(marionette.LogDebug))
//	rt.Init(func() {
//		box, _ := rt.CreateRectangleActor(100, 100, 40, 20, nil)
//		box.Rotate(rt, 90, 1000, 0, nil)
//	}, 640, 480, "")
//
// # Shapes
//
// [Rectangle], [Triangle], [Polygon] and [Circle] embed [*Actor] and add
// shape parameters. Animating a shape parameter such as width or radius is
// not something the engine understands; the shape maps it onto a "vertices"
// animation built from [VertexDelta] rows. Relative mappings move existing
// vertices by offsets. Absolute mappings (polygon radius and sides) replace
// the whole ring each frame and are deferred with the runtime's [Timers]
// until their start offset, so drive [Runtime.Update] from your game loop.
//
// # Auto-scale
//
// [Runtime.SetAutoScale] sets factors applied to coordinates and dimensions
// of actors created afterwards. Positions read back from the engine are
// divided by the scale; dimension getters return engine units.
//
// # Logging
//
// Logging goes through zap. [LogLevel] follows the engine's ordering, where
// info is the most verbose level:
//
//	LogNone < LogError < LogWarning < LogDebug < LogInfo
//
// Per-call tracing is emitted at info. Route output elsewhere with
// [WithLogCore] or [WithLogger].
package marionette
