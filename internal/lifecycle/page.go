package lifecycle

import (
	"github.com/san-kum/terrainbg/internal/host"
	"github.com/san-kum/terrainbg/internal/logging"
)

// Delays in host milliseconds.
const (
	RestoreDelay   = 100
	StartupRecheck = 500
	FallbackDelay  = 1000
	FallbackPeriod = 5000
	MaxFallbacks   = 3
)

// Start is the page-load entry point: it installs the page-level hooks,
// initializes, and arms the startup recheck and the idle fallback checks.
// Calling it again only re-runs Initialize.
func (m *Manager) Start() error {
	if m.unlistenPage == nil {
		m.unlistenPage = m.host.Listen(m.handlePage)
		m.after(StartupRecheck, m.recheck)
		m.after(FallbackDelay, m.scheduleFallback)
	}
	return m.Initialize()
}

// Shutdown disposes and removes the page-level hooks and timers.
func (m *Manager) Shutdown() error {
	if m.unlistenPage != nil {
		m.unlistenPage()
		m.unlistenPage = nil
	}
	for id := range m.timers {
		m.host.CancelTimer(id)
	}
	clear(m.timers)
	return m.Dispose()
}

// handlePage receives the events that must keep working after a teardown.
func (m *Manager) handlePage(ev host.Event) {
	switch ev := ev.(type) {
	case host.PageShow:
		m.pageShow(ev.Persisted)
	case host.Unload:
		if !ev.BackForward {
			_ = m.Dispose()
		}
	}
}

func (m *Manager) pageShow(persisted bool) {
	built := m.state == Running || m.state == Paused
	if persisted || !built || m.container == nil || m.container.Empty() {
		logging.Logger().Debug("page shown, scheduling reinitialize", "persisted", persisted)
		m.after(RestoreDelay, m.reinitialize)
		return
	}
	m.resume()
}

func (m *Manager) reinitialize() {
	if err := m.Initialize(); err != nil {
		logging.Logger().Debug("reinitialize failed", "err", err)
	}
}

// recheck catches a first initialization that ran before the container was
// ready.
func (m *Manager) recheck() {
	c := m.host.Container(m.opts.ContainerID)
	if c != nil && c.Empty() && !m.Running() {
		m.reinitialize()
	}
}

func (m *Manager) scheduleFallback() {
	if m.checks >= MaxFallbacks {
		return
	}
	m.host.Idle(func() {
		m.fallback()
		m.after(FallbackPeriod, m.scheduleFallback)
	})
}

// fallback is one bounded check that the surface is still mounted.
func (m *Manager) fallback() {
	if m.checks >= MaxFallbacks {
		return
	}
	m.checks++
	c := m.host.Container(m.opts.ContainerID)
	if c != nil && c.Empty() && m.host.PageVisible() && !m.Running() {
		logging.Logger().Debug("fallback check found an empty container", "check", m.checks)
		m.reinitialize()
	}
}

func (m *Manager) after(ms float64, fn func()) {
	var id host.TimerID
	id = m.host.After(ms, func() {
		delete(m.timers, id)
		fn()
	})
	m.timers[id] = struct{}{}
}
