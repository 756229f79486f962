// Package host models the environment the terrain background runs inside.
//
// A host provides four things: a per-frame callback queue, one-shot timers
// and idle callbacks, page events (resize, visibility, page show/hide and
// unload), and containers that drawing surfaces are mounted into. The
// desktop and terminal front ends and the in-memory Sim all build on the
// same Queue and Bus.
//
//	sim := host.NewSim(1280, 720)
//	sim.AddContainer("terrain-container")
//	sim.Run(1000, 60) // one second of 60 Hz frames
package host
