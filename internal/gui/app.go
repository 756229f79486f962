// Package gui hosts the terrain background in a desktop window.
//
// The window plays the part of the page: its client area is the single
// container, minimising it hides the page, and resizing it resizes the
// container. Frames, timers and idle callbacks are pumped once per
// window refresh.
package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/terrainbg/internal/compute"
	"github.com/san-kum/terrainbg/internal/config"
	"github.com/san-kum/terrainbg/internal/host"
	"github.com/san-kum/terrainbg/internal/lifecycle"
	"github.com/san-kum/terrainbg/internal/logging"
)

var (
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
)

// RefreshRate is the window's frame pump rate.
const RefreshRate = 60

type App struct {
	host.Queue
	host.Bus

	Config  config.Config
	Render  config.Render
	Manager *lifecycle.Manager
	Font    rl.Font

	container *host.Container
	minimized bool
	hidden    bool
	ShowHUD   bool
	quit      bool

	// Upload target for CPU frames.
	cpuTex     rl.Texture2D
	cpuW, cpuH int
}

// initWindow opens a resizable window sized from the application config.
func initWindow(cfg config.Config, r config.Render) {
	flags := uint32(rl.FlagWindowResizable)
	if r.Antialias {
		flags |= rl.FlagMsaa4xHint
	}
	rl.SetConfigFlags(flags)
	rl.InitWindow(int32(cfg.Width), int32(cfg.Height), "terrainbg")
	rl.SetTargetFPS(RefreshRate)
	rl.SetExitKey(0)
}

// loadFont loads Liberation Mono if present and falls back to raylib's
// built-in font.
func loadFont() rl.Font {
	font := rl.LoadFontEx("/usr/share/fonts/liberation/LiberationMono-Regular.ttf", 32, nil, 0)
	if font.Texture.ID == 0 {
		return rl.GetFontDefault()
	}
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

func NewApp(cfg config.Config, r config.Render, backend compute.Factory) *App {
	a := &App{
		Config:  cfg,
		Render:  r,
		Font:    loadFont(),
		ShowHUD: true,
	}
	a.container = host.NewContainer(cfg.Container, host.Rect{
		W: float64(rl.GetScreenWidth()),
		H: float64(rl.GetScreenHeight()),
	})
	a.Manager = lifecycle.New(a, lifecycle.Options{
		ContainerID: cfg.Container,
		Render:      r,
		Backend:     backend,
	})
	return a
}

// Run opens the window and blocks until it is closed.
func Run(cfg config.Config, r config.Render, backend compute.Factory) error {
	initWindow(cfg, r)
	defer rl.CloseWindow()

	app := NewApp(cfg, r, backend)
	if err := app.Manager.Start(); err != nil {
		// The recheck and fallback timers armed by Start may still recover.
		logging.Logger().Warn("background did not start", "err", err)
	}
	app.RunLoop()
	return app.Manager.Shutdown()
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() && !a.quit {
		a.Update()
		a.Pump(rl.GetTime() * 1000)
		a.Draw()
	}
	if a.cpuTex.ID != 0 {
		rl.UnloadTexture(a.cpuTex)
	}
}

// Container returns the window's client area when id matches.
func (a *App) Container(id string) *host.Container {
	if id != a.container.ID {
		return nil
	}
	return a.container
}

func (a *App) PageVisible() bool { return !a.minimized }

func (a *App) DevicePixelRatio() float64 {
	return float64(rl.GetWindowScaleDPI().X)
}

// Update turns window state changes into page events.
func (a *App) Update() {
	if m := rl.IsWindowMinimized(); m != a.minimized {
		a.minimized = m
		a.Emit(host.Visibility{Visible: !m})
	}
	a.hidden = rl.IsWindowHidden()

	if rl.IsWindowResized() {
		w, h := rl.GetScreenWidth(), rl.GetScreenHeight()
		a.container.Rect.W, a.container.Rect.H = float64(w), float64(h)
		a.Emit(host.Resize{Width: w, Height: h})
	}

	vw, vh := float64(rl.GetScreenWidth()), float64(rl.GetScreenHeight())
	a.Intersect(func(c *host.Container, opts host.ObserverOptions) bool {
		return !a.hidden && c.Intersects(vw, vh, opts)
	})

	a.handleKeys()
}

func (a *App) handleKeys() {
	log := logging.Logger()
	switch {
	case rl.IsKeyPressed(rl.KeyQ), rl.IsKeyPressed(rl.KeyEscape):
		a.quit = true
	case rl.IsKeyPressed(rl.KeyH):
		a.ShowHUD = !a.ShowHUD
	case rl.IsKeyPressed(rl.KeySpace):
		if a.Manager.State() == lifecycle.Paused {
			a.Emit(host.PageShow{})
		} else {
			a.Emit(host.PageHide{})
		}
	case rl.IsKeyPressed(rl.KeyR):
		if err := a.Manager.Initialize(); err != nil {
			log.Warn("reinitialize failed", "err", err)
		}
	case rl.IsKeyPressed(rl.KeyD):
		// Drop the surface the way a discarded page cache would.
		if b := a.Manager.Backend(); b != nil && b.Surface() != nil {
			a.container.Remove(b.Surface())
			a.Emit(host.PageShow{Persisted: true})
		}
	}
}
