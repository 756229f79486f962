// Package loop drives the terrain animation from the host's per-frame
// callback.
//
// Every tick reschedules the next one while the loop is running, whether or
// not it rendered. Rendering itself is gated on visibility and on the tier's
// minimum frame interval, and noise time advances with wall-clock time so
// the animation speed does not depend on the achieved frame rate.
package loop

import (
	"github.com/san-kum/terrainbg/internal/config"
	"github.com/san-kum/terrainbg/internal/logging"
	"github.com/san-kum/terrainbg/internal/metrics"
)

// frameEpsilon absorbs float rounding in timestamps that are exactly one
// interval apart. It is not a tolerance for early ticks.
const frameEpsilon = 1e-6

type FrameID uint64

// Scheduler is the host's "call me on the next frame" primitive.
type Scheduler interface {
	RequestFrame(fn func(now float64)) FrameID
	CancelFrame(id FrameID)
}

// Target is the graphics side of a frame: it owns the time uniform and
// draws the scene.
type Target interface {
	SetTime(t float32)
	Render() error
}

type Controller struct {
	cfg    config.Render
	sched  Scheduler
	target Target
	stats  *metrics.Frames
	clock  Clock

	running bool
	pending bool
	frame   FrameID
	err     error
	onFail  func(error)

	pageVisible      bool
	containerVisible bool
}

func New(cfg config.Render, sched Scheduler, target Target, stats *metrics.Frames) *Controller {
	if stats == nil {
		stats = metrics.NewFrames(0)
	}
	return &Controller{
		cfg:              cfg,
		sched:            sched,
		target:           target,
		stats:            stats,
		pageVisible:      true,
		containerVisible: true,
	}
}

// OnFailure registers fn to run after a render error has stopped the loop.
func (c *Controller) OnFailure(fn func(error)) { c.onFail = fn }

func (c *Controller) Running() bool              { return c.running }
func (c *Controller) Clock() Clock               { return c.clock }
func (c *Controller) Stats() *metrics.Frames     { return c.stats }
func (c *Controller) Err() error                 { return c.err }
func (c *Controller) SetPageVisible(v bool)      { c.pageVisible = v }
func (c *Controller) SetContainerVisible(v bool) { c.containerVisible = v }

// ShouldAnimate combines the visibility signals with the tier's animation flag.
func (c *Controller) ShouldAnimate() bool {
	return c.pageVisible && c.containerVisible && c.cfg.Animate
}

// Start begins ticking. It is a no-op when already running.
func (c *Controller) Start() {
	if c.running {
		return
	}
	c.running = true
	c.err = nil
	c.clock.Hold()
	c.schedule()
}

// Stop clears the running flag first, then cancels any pending tick, so a
// callback that still fires finds the loop stopped before touching the target.
func (c *Controller) Stop() {
	c.running = false
	if c.pending {
		c.sched.CancelFrame(c.frame)
		c.pending = false
	}
}

// Reset stops the loop and zeroes the clock.
func (c *Controller) Reset() {
	c.Stop()
	c.clock.Reset()
	c.stats.Reset()
}

func (c *Controller) schedule() {
	c.frame = c.sched.RequestFrame(c.Tick)
	c.pending = true
}

// Tick is the per-frame callback. now is the host timestamp in ms.
func (c *Controller) Tick(now float64) {
	c.pending = false
	if !c.running {
		return
	}

	if !c.ShouldAnimate() {
		c.clock.Hold()
		c.stats.Observe(now, false)
		c.schedule()
		return
	}

	elapsed := now - c.clock.LastFrame
	if elapsed < c.cfg.FrameInterval-frameEpsilon {
		c.stats.Observe(now, false)
		c.schedule()
		return
	}

	c.clock.Advance(now, c.cfg.NoiseSpeed)
	c.target.SetTime(float32(c.clock.Time))
	if err := c.target.Render(); err != nil {
		logging.Logger().Warn("render failed, stopping animation", "err", err)
		c.err = err
		c.Stop()
		if c.onFail != nil {
			c.onFail(err)
		}
		return
	}

	// Carry the overshoot so the average rate matches the target when host
	// ticks do not divide the interval. A gap longer than one interval
	// restarts the phase instead of bursting.
	carry := elapsed - c.cfg.FrameInterval
	if carry < 0 || carry >= c.cfg.FrameInterval {
		carry = 0
	}
	c.clock.LastFrame = now - carry
	c.stats.Observe(now, true)
	c.schedule()
}

// RenderOnce draws a single frame with time fixed at zero. Used by tiers
// without animation.
func (c *Controller) RenderOnce() error {
	c.target.SetTime(0)
	if err := c.target.Render(); err != nil {
		logging.Logger().Warn("initial render failed", "err", err)
		return err
	}
	c.stats.Observe(0, true)
	return nil
}
