// Package tui previews the terrain background in a terminal.
//
// The terminal is the page and its cell grid the container. Each cell shows
// two vertically stacked pixels of the CPU backend's frame using a half
// block, so a W×H terminal is a W×2(H-1) pixel canvas with one status line.
package tui

import (
	"fmt"
	"image"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/terrainbg/internal/compute"
	"github.com/san-kum/terrainbg/internal/config"
	"github.com/san-kum/terrainbg/internal/host"
	"github.com/san-kum/terrainbg/internal/lifecycle"
	"github.com/san-kum/terrainbg/internal/logging"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

const halfBlock = "▀"

type tickMsg time.Time

type Preview struct {
	host.Queue
	host.Bus

	Render  config.Render
	Manager *lifecycle.Manager

	container *host.Container
	fps       int
	start     time.Time
	focused   bool
	width     int
	height    int
}

func NewPreview(cfg config.Config, r config.Render, width, height int) *Preview {
	return NewPreviewWith(cfg, r, width, height, func() compute.Backend { return compute.NewCPUBackend() })
}

// NewPreviewWith builds a preview on the given backend factory. Only CPU
// frames are drawn; other backends run but show nothing.
func NewPreviewWith(cfg config.Config, r config.Render, width, height int, backend compute.Factory) *Preview {
	p := &Preview{
		Render:  r,
		fps:     cfg.PreviewFPS,
		start:   time.Now(),
		focused: true,
	}
	if p.fps <= 0 {
		p.fps = 30
	}
	p.container = host.NewContainer(cfg.Container, host.Rect{})
	p.setSize(width, height)
	p.Manager = lifecycle.New(p, lifecycle.Options{
		ContainerID: cfg.Container,
		Render:      r,
		Backend:     backend,
	})
	return p
}

// Run starts the preview and blocks until the user quits.
func Run(cfg config.Config, r config.Render) error {
	p := NewPreview(cfg, r, 80, 24)
	p.Start()
	_, err := tea.NewProgram(p, tea.WithAltScreen(), tea.WithReportFocus()).Run()
	if serr := p.Manager.Shutdown(); err == nil {
		err = serr
	}
	return err
}

// Start arms the background. A failed first initialization leaves the
// preview running without a frame until a recheck or the r key rebuilds it.
func (p *Preview) Start() {
	if err := p.Manager.Start(); err != nil {
		logging.Logger().Warn("background did not start", "err", err)
	}
}

func (p *Preview) setSize(w, h int) {
	p.width, p.height = w, h
	p.container.Rect.W = float64(max(w, 1))
	p.container.Rect.H = float64(max(h-1, 1) * 2)
}

func (p *Preview) Container(id string) *host.Container {
	if id != p.container.ID {
		return nil
	}
	return p.container
}

func (p *Preview) PageVisible() bool         { return p.focused }
func (p *Preview) DevicePixelRatio() float64 { return 1 }

func (p *Preview) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(p.fps), func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (p *Preview) Init() tea.Cmd { return p.tick() }

func (p *Preview) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return p.handleKey(msg)
	case tea.WindowSizeMsg:
		p.setSize(msg.Width, msg.Height)
		p.Emit(host.Resize{Width: msg.Width, Height: msg.Height})
		return p, nil
	case tea.FocusMsg:
		p.focused = true
		p.Emit(host.Visibility{Visible: true})
		return p, nil
	case tea.BlurMsg:
		p.focused = false
		p.Emit(host.Visibility{Visible: false})
		return p, nil
	case tickMsg:
		now := float64(time.Time(msg).Sub(p.start)) / float64(time.Millisecond)
		p.Intersect(func(c *host.Container, opts host.ObserverOptions) bool {
			return c.Intersects(c.Rect.W, c.Rect.H, opts)
		})
		p.Pump(now)
		return p, p.tick()
	}
	return p, nil
}

func (p *Preview) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return p, tea.Quit
	case " ":
		if p.Manager.State() == lifecycle.Paused {
			p.Emit(host.PageShow{})
		} else {
			p.Emit(host.PageHide{})
		}
	case "r":
		if err := p.Manager.Initialize(); err != nil {
			logging.Logger().Warn("reinitialize failed", "err", err)
		}
	case "d":
		if b := p.Manager.Backend(); b != nil && b.Surface() != nil {
			p.container.Remove(b.Surface())
			p.Emit(host.PageShow{Persisted: true})
		}
	}
	return p, nil
}

func (p *Preview) View() string {
	var b strings.Builder
	if img := p.frame(); img != nil {
		b.WriteString(Cells(img, p.Render.BackgroundColor))
	}
	b.WriteString(p.status())
	return b.String()
}

// frame returns the mounted CPU frame, or nil when nothing is mounted.
func (p *Preview) frame() image.Image {
	be, ok := p.Manager.Backend().(*compute.CPUBackend)
	if !ok || be.Surface() == nil || !p.container.Contains(be.Surface()) {
		return nil
	}
	return be.Image()
}

func (p *Preview) status() string {
	stats := p.Manager.Stats()
	state := p.Manager.State().String()
	st := cyan
	if p.Manager.State() != lifecycle.Running || !p.Manager.Running() {
		st = yellow
	}
	return fmt.Sprintf("%s %s %s %s %s",
		white.Render("terrainbg"),
		dim.Render(p.Render.Tier.String()),
		st.Render(state),
		dim.Render(fmt.Sprintf("%.0f fps  %d/%d", stats.FPS(), stats.Rendered(), stats.Skipped())),
		dimmer.Render("space pause  r reinit  d drop  q quit"))
}

// Cells renders img as half-block cells, two pixel rows per line, over an
// opaque background.
func Cells(img image.Image, bg config.Color) string {
	flat := compute.Flatten(img, bg)
	bounds := flat.Bounds()
	var b strings.Builder
	for y := bounds.Min.Y; y < bounds.Max.Y; y += 2 {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			top := flat.RGBAAt(x, y)
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(hex(top.R, top.G, top.B)))
			if y+1 < bounds.Max.Y {
				bot := flat.RGBAAt(x, y+1)
				style = style.Background(lipgloss.Color(hex(bot.R, bot.G, bot.B)))
			}
			b.WriteString(style.Render(halfBlock))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func hex(r, g, b uint8) string { return fmt.Sprintf("#%02x%02x%02x", r, g, b) }
