package compute

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"runtime"
	"sync"

	"github.com/san-kum/terrainbg/internal/config"
	"github.com/san-kum/terrainbg/internal/host"
	"github.com/san-kum/terrainbg/internal/shader"
	"github.com/san-kum/terrainbg/internal/surface"
)

// Canvas is the CPU backend's drawing surface. Size is in CSS pixels; the
// backing image is scaled by the pixel ratio.
type Canvas struct {
	Width, Height int
	img           *image.NRGBA
}

func (c *Canvas) Size() (int, int)    { return c.Width, c.Height }
func (c *Canvas) Image() *image.NRGBA { return c.img }

// sample is the undisplaced ground point under one pixel, resolved to a
// triangle of the grid. The camera never moves, so these are computed once
// per size.
type sample struct {
	v  [3]int32
	w  [3]float32
	ok bool
}

type CPUBackend struct {
	workers int

	cfg    config.Render
	mesh   *surface.Mesh
	view   *surface.View
	params shader.Params
	ratio  float64

	canvas  *Canvas
	samples []sample
	heights []float64 // per vertex, current time
	field   []float64 // per pixel, NaN off the mesh

	time  float32
	ready bool
	lost  bool
}

func NewCPUBackend() *CPUBackend {
	return &CPUBackend{
		workers: runtime.NumCPU(),
	}
}

func (c *CPUBackend) Name() string        { return NameCPU }
func (c *CPUBackend) Available() bool     { return true }
func (c *CPUBackend) SetTime(t float32)   { c.time = t }
func (c *CPUBackend) Time() float32       { return c.time }
func (c *CPUBackend) Mesh() *surface.Mesh { return c.mesh }

func (c *CPUBackend) Surface() host.Surface {
	if c.canvas == nil {
		return nil
	}
	return c.canvas
}

// Image returns the last rendered frame, or nil before Init.
func (c *CPUBackend) Image() *image.NRGBA {
	if c.canvas == nil {
		return nil
	}
	return c.canvas.img
}

// Field returns the per-pixel elevation of the last frame. Pixels that miss
// the mesh are NaN.
func (c *CPUBackend) Field() (values []float64, width, height int) {
	if c.canvas == nil {
		return nil, 0, 0
	}
	b := c.canvas.img.Bounds()
	return c.field, b.Dx(), b.Dy()
}

func (c *CPUBackend) Init(cfg config.Render, width, height int, pixelRatio float64) error {
	mesh, err := surface.FromConfig(cfg)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.mesh = mesh
	c.params = shader.ParamsFrom(cfg)
	c.ratio = cfg.PixelRatio(pixelRatio)
	c.view = surface.NewView(cfg.Camera, width, height)
	c.heights = make([]float64, mesh.VertexCount())
	c.canvas = &Canvas{}
	c.lost = false
	c.ready = true
	return c.Resize(width, height)
}

func (c *CPUBackend) Resize(width, height int) error {
	if !c.ready {
		return ErrNotInitialized
	}
	if c.lost {
		return ErrContextLost
	}
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	pw := max(1, int(math.Round(float64(width)*c.ratio)))
	ph := max(1, int(math.Round(float64(height)*c.ratio)))

	c.canvas.Width, c.canvas.Height = width, height
	c.canvas.img = image.NewNRGBA(image.Rect(0, 0, pw, ph))
	c.view.SetAspect(width, height)
	c.samples = make([]sample, pw*ph)
	c.field = make([]float64, pw*ph)

	c.parallel(ph, func(start, end int) {
		for py := start; py < end; py++ {
			for px := 0; px < pw; px++ {
				c.samples[py*pw+px] = c.locate(px, py, pw, ph)
			}
		}
	})
	return nil
}

func (c *CPUBackend) locate(px, py, pw, ph int) sample {
	x, y, ok := c.view.Ground(px, py, pw, ph)
	if !ok {
		return sample{}
	}
	ix, iy, fx, fy, ok := c.mesh.Cell(x, y)
	if !ok {
		return sample{}
	}
	v, w := c.mesh.Corners(ix, iy, fx, fy)
	return sample{
		v:  [3]int32{int32(v[0]), int32(v[1]), int32(v[2])},
		w:  [3]float32{float32(w[0]), float32(w[1]), float32(w[2])},
		ok: true,
	}
}

// LoseContext makes every later call fail as if the graphics context had
// been dropped by the platform.
func (c *CPUBackend) LoseContext() { c.lost = true }

func (c *CPUBackend) Render() error {
	if !c.ready {
		return ErrNotInitialized
	}
	if c.lost {
		return ErrContextLost
	}

	t := float64(c.time)
	n := len(c.heights)
	c.parallel(n, func(start, end int) {
		for i := start; i < end; i++ {
			x, y := c.mesh.Vertex(i)
			c.heights[i] = shader.Elevation(x, y, t, c.cfg)
		}
	})

	b := c.canvas.img.Bounds()
	pw, ph := b.Dx(), b.Dy()
	c.parallel(ph, func(start, end int) {
		for py := start; py < end; py++ {
			for px := 0; px < pw; px++ {
				i := py*pw + px
				s := c.samples[i]
				if !s.ok {
					c.field[i] = math.NaN()
					continue
				}
				c.field[i] = c.heights[s.v[0]]*float64(s.w[0]) +
					c.heights[s.v[1]]*float64(s.w[1]) +
					c.heights[s.v[2]]*float64(s.w[2])
			}
		}
	})

	bg := c.clearColor()
	c.parallel(ph, func(start, end int) {
		for py := start; py < end; py++ {
			for px := 0; px < pw; px++ {
				c.canvas.img.SetNRGBA(px, py, c.shadePixel(px, py, pw, ph, bg))
			}
		}
	})
	return nil
}

func (c *CPUBackend) clearColor() color.NRGBA {
	if c.cfg.Transparent {
		return color.NRGBA{}
	}
	r, g, b, a := c.cfg.BackgroundColor.RGBA8()
	return color.NRGBA{R: r, G: g, B: b, A: a}
}

// shadePixel mirrors the fragment stage. The screen-space derivative is
// taken from the neighbouring pixels, forward where possible.
func (c *CPUBackend) shadePixel(px, py, pw, ph int, bg color.NRGBA) color.NRGBA {
	i := py*pw + px
	e := c.field[i]
	if math.IsNaN(e) {
		return bg
	}

	dx := derivative(c.field, i, px, pw, 1)
	dy := derivative(c.field, i, py, ph, pw)
	f := shader.Shade(e, math.Hypot(dx, dy), c.params)
	if f.Discard {
		return bg
	}
	return blend(bg, f)
}

func derivative(field []float64, i, pos, size, stride int) float64 {
	if pos+1 < size {
		if v := field[i+stride]; !math.IsNaN(v) {
			return v - field[i]
		}
	}
	if pos > 0 {
		if v := field[i-stride]; !math.IsNaN(v) {
			return field[i] - v
		}
	}
	return 0
}

// blend composites a fragment over the clear colour with source-over.
func blend(dst color.NRGBA, f shader.Fragment) color.NRGBA {
	sa := math.Min(math.Max(f.Alpha, 0), 1)
	da := float64(dst.A) / 255
	oa := sa + da*(1-sa)
	if oa == 0 {
		return color.NRGBA{}
	}
	ch := func(s float32, d uint8) uint8 {
		v := (float64(s)*sa + float64(d)/255*da*(1-sa)) / oa
		return uint8(math.Round(v * 255))
	}
	return color.NRGBA{
		R: ch(f.Color[0], dst.R),
		G: ch(f.Color[1], dst.G),
		B: ch(f.Color[2], dst.B),
		A: uint8(math.Round(oa * 255)),
	}
}

func (c *CPUBackend) Cleanup() {
	c.ready = false
	c.canvas = nil
	c.samples = nil
	c.heights = nil
	c.field = nil
	c.mesh = nil
	c.view = nil
}

func (c *CPUBackend) parallel(n int, fn func(start, end int)) {
	if n < 16 || c.workers < 2 {
		fn(0, n)
		return
	}

	var wg sync.WaitGroup
	chunkSize := (n + c.workers - 1) / c.workers

	for w := 0; w < c.workers; w++ {
		start := w * chunkSize
		if start >= n {
			break
		}
		end := start + chunkSize
		if end > n {
			end = n
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			fn(start, end)
		}(start, end)
	}

	wg.Wait()
}

// Flatten composites img over an opaque background, the way the page
// behind a transparent canvas shows through.
func Flatten(img image.Image, bg config.Color) *image.RGBA {
	r, g, b, _ := bg.RGBA8()
	out := image.NewRGBA(img.Bounds())
	draw.Draw(out, out.Bounds(), image.NewUniform(color.RGBA{r, g, b, 0xff}), image.Point{}, draw.Src)
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Over)
	return out
}
