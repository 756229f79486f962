// Package lifecycle owns the terrain background's resources and decides
// when they exist.
//
// A Manager moves between four states: uninitialized, running, paused and
// disposed. Initialize builds everything (backend, surface, listeners,
// observer, loop) and is safe to call repeatedly; Dispose releases all of
// it in reverse order. Page events and a few timed checks drive the
// transitions so that the background recovers from navigations that
// silently drop its surface.
package lifecycle

import (
	"fmt"

	"github.com/san-kum/terrainbg/internal/compute"
	"github.com/san-kum/terrainbg/internal/config"
	"github.com/san-kum/terrainbg/internal/host"
	"github.com/san-kum/terrainbg/internal/logging"
	"github.com/san-kum/terrainbg/internal/loop"
	"github.com/san-kum/terrainbg/internal/metrics"
)

// Host is everything the manager needs from its environment.
type Host interface {
	loop.Scheduler

	// Container returns nil when the element does not exist.
	Container(id string) *host.Container
	PageVisible() bool
	DevicePixelRatio() float64

	After(ms float64, fn func()) host.TimerID
	CancelTimer(id host.TimerID)
	Idle(fn func())

	Listen(fn func(host.Event)) (remove func())
	Observe(c *host.Container, opts host.ObserverOptions, fn func(visible bool)) (disconnect func())
}

type Options struct {
	ContainerID string
	Render      config.Render
	Backend     compute.Factory
	// Stats is optional; a private one is used when nil.
	Stats *metrics.Frames
}

type Manager struct {
	host  Host
	opts  Options
	state State
	busy  bool

	container  *host.Container
	backend    compute.Backend
	surface    host.Surface
	loop       *loop.Controller
	unlisten   func()
	disconnect func()

	// Page-level hooks that outlive a single initialization.
	unlistenPage func()
	timers       map[host.TimerID]struct{}
	checks       int
}

func New(h Host, opts Options) *Manager {
	if opts.Stats == nil {
		opts.Stats = metrics.NewFrames(0)
	}
	return &Manager{
		host:   h,
		opts:   opts,
		timers: make(map[host.TimerID]struct{}),
	}
}

func (m *Manager) State() State             { return m.state }
func (m *Manager) Backend() compute.Backend { return m.backend }
func (m *Manager) Loop() *loop.Controller   { return m.loop }
func (m *Manager) Stats() *metrics.Frames   { return m.opts.Stats }
func (m *Manager) Checks() int              { return m.checks }

// Running reports whether the render loop is ticking.
func (m *Manager) Running() bool { return m.loop != nil && m.loop.Running() }

// intact reports whether the current resources can keep serving frames.
func (m *Manager) intact() bool {
	if m.backend == nil || m.container == nil || m.surface == nil {
		return false
	}
	if !m.container.Contains(m.surface) {
		return false
	}
	return m.loop.Err() == nil
}

// Initialize builds the background into its container. When everything is
// already in place it only resumes a paused loop. Stale or partial state
// from an earlier run is released before rebuilding.
func (m *Manager) Initialize() error {
	if m.busy {
		return ErrTransitionInProgress
	}
	m.busy = true
	defer func() { m.busy = false }()

	log := logging.Logger()
	c := m.host.Container(m.opts.ContainerID)
	if c == nil {
		log.Warn("container not found, background will not start", "id", m.opts.ContainerID)
		return ErrNoContainer
	}

	if (m.state == Running || m.state == Paused) && m.container == c && m.intact() {
		if m.state == Paused {
			m.resume()
		}
		return nil
	}

	if m.backend != nil || m.unlisten != nil {
		log.Debug("releasing stale resources before rebuild", "state", m.state)
		m.teardown()
	}

	if err := m.build(c); err != nil {
		log.Error("failed to initialize background", "err", err)
		m.teardown()
		m.state = Uninitialized
		return fmt.Errorf("lifecycle: initialize: %w", err)
	}

	m.state = Running
	log.Info("background initialized",
		"tier", m.opts.Render.Tier, "backend", m.backend.Name(), "animate", m.opts.Render.Animate)

	if m.opts.Render.Animate {
		m.loop.Start()
	} else if err := m.loop.RenderOnce(); err != nil {
		log.Warn("static frame failed", "err", err)
	}
	return nil
}

func (m *Manager) build(c *host.Container) error {
	if m.opts.Backend == nil {
		return fmt.Errorf("no backend factory")
	}
	w, h := c.Size()
	b := m.opts.Backend()
	m.backend = b
	if err := b.Init(m.opts.Render, w, h, m.host.DevicePixelRatio()); err != nil {
		return err
	}

	m.container = c
	m.surface = b.Surface()
	if m.surface == nil {
		return fmt.Errorf("backend %s has no surface", b.Name())
	}
	c.Append(m.surface)

	m.loop = loop.New(m.opts.Render, m.host, b, m.opts.Stats)
	m.loop.SetPageVisible(m.host.PageVisible())
	m.loop.OnFailure(func(err error) {
		logging.Logger().Warn("animation stopped", "err", err)
	})

	m.unlisten = m.host.Listen(m.handle)
	m.disconnect = m.host.Observe(c, host.DefaultObserver, func(visible bool) {
		if m.loop != nil {
			m.loop.SetContainerVisible(visible)
		}
	})
	return nil
}

// teardown releases per-initialization resources. The loop's running flag
// is cleared first so a tick already in flight never touches the backend.
func (m *Manager) teardown() {
	if m.loop != nil {
		m.loop.Reset()
	}
	if m.unlisten != nil {
		m.unlisten()
		m.unlisten = nil
	}
	if m.disconnect != nil {
		m.disconnect()
		m.disconnect = nil
	}
	if m.container != nil && m.surface != nil {
		m.container.Remove(m.surface)
	}
	if m.backend != nil {
		m.backend.Cleanup()
	}
	m.backend = nil
	m.surface = nil
	m.container = nil
	m.loop = nil
}

// Dispose releases every resource and moves to the disposed state. A later
// Initialize rebuilds from scratch.
func (m *Manager) Dispose() error {
	if m.busy {
		return ErrTransitionInProgress
	}
	m.busy = true
	defer func() { m.busy = false }()

	m.teardown()
	m.state = Disposed
	logging.Logger().Info("background disposed")
	return nil
}

// Pause stops the loop but keeps every resource.
func (m *Manager) Pause() error {
	switch m.state {
	case Disposed:
		return ErrDisposed
	case Running:
		m.loop.Stop()
		m.state = Paused
		logging.Logger().Debug("background paused")
	}
	return nil
}

// Resume restarts a paused loop. Tiers without animation stay paused.
func (m *Manager) Resume() error {
	if m.state == Disposed {
		return ErrDisposed
	}
	m.resume()
	return nil
}

func (m *Manager) resume() {
	if m.state != Paused || !m.opts.Render.Animate {
		return
	}
	m.loop.Start()
	m.state = Running
	logging.Logger().Debug("background resumed")
}

// handle receives page events for the current initialization.
func (m *Manager) handle(ev host.Event) {
	switch ev := ev.(type) {
	case host.Resize:
		m.resize()
	case host.Visibility:
		if m.loop != nil {
			m.loop.SetPageVisible(ev.Visible)
		}
	case host.PageHide:
		if !ev.Persisted {
			_ = m.Pause()
		}
	}
}

func (m *Manager) resize() {
	if m.backend == nil || m.container == nil {
		return
	}
	w, h := m.container.Size()
	if err := m.backend.Resize(w, h); err != nil {
		logging.Logger().Warn("resize failed", "err", err)
	}
}
