// Package hostengine is an in-process [marionette.Engine] built on
// [Ebitengine].
//
// A [Host] keeps a flat table of actors keyed by integer handles and draws
// them as fan-triangulated meshes, ordered by layer. Native animations
// (position, rotation, color, opacity) are interpolated with gween using a
// Bezier easing; "vertices" animations replay precomputed delta rows at
// their delays. Physics bodies are recorded but not simulated.
//
// Host is single-threaded like the rest of the game loop. Code running on
// other goroutines, such as a websocket bridge, must go through [Host.Do],
// which queues work for the next tick.
//
//	host := hostengine.New(logger)
//	rt := marionette.New(host)
//	rt.Init(setup, 640, 480, "")
//	if err := host.Run(hostengine.RunConfig{Title: "demo"}); err != nil {
//		log.Fatal(err)
//	}
//
// Tests can skip the window entirely and drive the clock with
// [Host.Advance].
//
// [Ebitengine]: https://ebitengine.org
package hostengine
