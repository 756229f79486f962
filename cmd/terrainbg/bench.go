package main

import (
	"github.com/san-kum/terrainbg/internal/compute"
	"github.com/san-kum/terrainbg/internal/config"
	"github.com/san-kum/terrainbg/internal/host"
	"github.com/san-kum/terrainbg/internal/lifecycle"
	"github.com/san-kum/terrainbg/internal/logging"
	"github.com/san-kum/terrainbg/internal/metrics"
)

// benchIntervals is how many frame intervals the bench keeps for its plot.
const benchIntervals = 512

// simulate runs the background on a virtual page for duration ms at hz
// ticks per second. When hidden > 0 the page is hidden for that long in the
// middle of the run. The caller owns the returned manager.
func simulate(cfg *config.Config, r config.Render, duration, hz, hidden float64) *lifecycle.Manager {
	sim := host.NewSim(cfg.Width, cfg.Height)
	sim.AddContainer(cfg.Container)

	m := lifecycle.New(sim, lifecycle.Options{
		ContainerID: cfg.Container,
		Render:      r,
		Backend:     func() compute.Backend { return compute.NewCPUBackend() },
		Stats:       metrics.NewFrames(benchIntervals),
	})
	if err := m.Start(); err != nil {
		logging.Logger().Warn("background did not start", "err", err)
	}

	if hidden > 0 && hidden < duration {
		half := (duration - hidden) / 2
		sim.Run(half, hz)
		sim.SetPageVisible(false)
		sim.Run(hidden, hz)
		sim.SetPageVisible(true)
		sim.Run(duration-hidden-half, hz)
	} else {
		sim.Run(duration, hz)
	}
	return m
}
