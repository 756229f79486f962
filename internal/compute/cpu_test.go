package compute

import (
	"errors"
	"image/color"
	"math"
	"testing"

	"github.com/san-kum/terrainbg/internal/config"
	"github.com/san-kum/terrainbg/internal/quality"
	"github.com/san-kum/terrainbg/internal/shader"
)

func newCPU(t *testing.T, tier quality.Tier, w, h int) *CPUBackend {
	t.Helper()
	b := NewCPUBackend()
	if err := b.Init(config.Resolve(tier), w, h, 1); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	t.Cleanup(b.Cleanup)
	return b
}

func TestCPUBackend_Interface(t *testing.T) {
	var _ Backend = NewCPUBackend()
	var _ Backend = NewRaylibBackend()
}

func TestCPUBackend_NotInitialized(t *testing.T) {
	b := NewCPUBackend()
	if err := b.Render(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("render before init: %v", err)
	}
	if err := b.Resize(10, 10); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("resize before init: %v", err)
	}
	if b.Surface() != nil || b.Image() != nil {
		t.Error("surface exists before init")
	}
}

func TestCPUBackend_RenderDrawsContours(t *testing.T) {
	b := newCPU(t, quality.Low, 160, 90)
	b.SetTime(0)
	if err := b.Render(); err != nil {
		t.Fatalf("render failed: %v", err)
	}

	img := b.Image()
	if img.Bounds().Dx() != 160 || img.Bounds().Dy() != 90 {
		t.Fatalf("image is %v", img.Bounds())
	}

	cfg := config.Resolve(quality.Low)
	minor := cfg.ContourColor.Vec3()
	major := cfg.ContourMajorColor.Vec3()
	lines, empty := 0, 0
	for y := 0; y < 90; y++ {
		for x := 0; x < 160; x++ {
			c := img.NRGBAAt(x, y)
			if c.A == 0 {
				empty++
				continue
			}
			lines++
			if !near(c, minor) && !near(c, major) {
				t.Fatalf("pixel (%d,%d) = %v is neither contour colour", x, y, c)
			}
		}
	}
	if lines == 0 || empty == 0 {
		t.Errorf("expected both lines and gaps, got %d lines, %d empty", lines, empty)
	}
}

func near(c color.NRGBA, rgb [3]float32) bool {
	d := func(a uint8, b float32) float64 { return math.Abs(float64(a) - float64(b)*255) }
	return d(c.R, rgb[0]) <= 1 && d(c.G, rgb[1]) <= 1 && d(c.B, rgb[2]) <= 1
}

func TestCPUBackend_FieldMatchesDisplacement(t *testing.T) {
	b := newCPU(t, quality.Low, 64, 36)
	b.SetTime(0.25)
	if err := b.Render(); err != nil {
		t.Fatal(err)
	}

	values, w, h := b.Field()
	if len(values) != w*h {
		t.Fatalf("field has %d values for %dx%d", len(values), w, h)
	}
	cfg := config.Resolve(quality.Low)
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if math.Abs(v) > shader.NoiseBound*cfg.NoiseAmplitude {
			t.Fatalf("elevation %v outside amplitude", v)
		}
	}

	// Centre pixel looks straight down at the origin.
	x, y, ok := b.view.Ground(w/2, h/2, w, h)
	if !ok {
		t.Fatal("centre ray missed the ground")
	}
	want, _ := b.mesh.Interpolate(b.heights, x, y)
	if got := values[(h/2)*w+w/2]; math.Abs(got-want) > 1e-4 {
		t.Errorf("centre elevation %v, want %v", got, want)
	}
}

func TestCPUBackend_TimeChangesFrame(t *testing.T) {
	b := newCPU(t, quality.Low, 80, 45)
	b.SetTime(0)
	if err := b.Render(); err != nil {
		t.Fatal(err)
	}
	first := append([]uint8(nil), b.Image().Pix...)

	b.SetTime(5)
	if err := b.Render(); err != nil {
		t.Fatal(err)
	}
	same := true
	for i, v := range b.Image().Pix {
		if v != first[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("frame did not change with time")
	}
}

func TestCPUBackend_PixelRatioClamped(t *testing.T) {
	b := NewCPUBackend()
	if err := b.Init(config.Resolve(quality.Minimal), 40, 30, 3); err != nil {
		t.Fatal(err)
	}
	defer b.Cleanup()

	if got := b.Image().Bounds().Dx(); got != 80 {
		t.Errorf("expected 80 physical pixels at ratio 2, got %d", got)
	}
	if w, h := b.Surface().Size(); w != 40 || h != 30 {
		t.Errorf("surface size %dx%d", w, h)
	}
}

func TestCPUBackend_Resize(t *testing.T) {
	b := newCPU(t, quality.Minimal, 40, 30)
	if err := b.Resize(100, 50); err != nil {
		t.Fatal(err)
	}
	if got := b.Image().Bounds(); got.Dx() != 100 || got.Dy() != 50 {
		t.Errorf("image after resize is %v", got)
	}
	if b.view.Aspect != 2 {
		t.Errorf("aspect %v after resize", b.view.Aspect)
	}
}

func TestCPUBackend_ContextLoss(t *testing.T) {
	b := newCPU(t, quality.Minimal, 20, 20)
	b.LoseContext()
	if err := b.Render(); !errors.Is(err, ErrContextLost) {
		t.Errorf("render after loss: %v", err)
	}
	if err := b.Resize(30, 30); !errors.Is(err, ErrContextLost) {
		t.Errorf("resize after loss: %v", err)
	}

	// A fresh Init recovers.
	if err := b.Init(config.Resolve(quality.Minimal), 20, 20, 1); err != nil {
		t.Fatal(err)
	}
	if err := b.Render(); err != nil {
		t.Errorf("render after reinit: %v", err)
	}
}

func TestCPUBackend_CleanupIdempotent(t *testing.T) {
	b := newCPU(t, quality.Minimal, 20, 20)
	b.Cleanup()
	b.Cleanup()
	if b.Surface() != nil {
		t.Error("surface survived cleanup")
	}
	if err := b.Render(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("render after cleanup: %v", err)
	}
}

func TestCPUBackend_OpaqueBackground(t *testing.T) {
	cfg := config.Resolve(quality.Minimal)
	cfg.Transparent = false
	b := NewCPUBackend()
	if err := b.Init(cfg, 40, 20, 1); err != nil {
		t.Fatal(err)
	}
	defer b.Cleanup()
	if err := b.Render(); err != nil {
		t.Fatal(err)
	}
	for _, a := range alphas(b.Image().Pix) {
		if a != 0xff {
			t.Fatalf("found alpha %d on an opaque background", a)
		}
	}
}

func alphas(pix []uint8) []uint8 {
	out := make([]uint8, 0, len(pix)/4)
	for i := 3; i < len(pix); i += 4 {
		out = append(out, pix[i])
	}
	return out
}

func TestFlatten(t *testing.T) {
	b := newCPU(t, quality.Minimal, 30, 20)
	if err := b.Render(); err != nil {
		t.Fatal(err)
	}
	out := Flatten(b.Image(), config.Base.Visual.BackgroundColor)
	for _, a := range alphas(out.Pix) {
		if a != 0xff {
			t.Fatal("flattened image is not opaque")
		}
	}
}

func TestNewBackend(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"cpu", NameCPU, false},
		{"raylib", NameRaylib, false},
		{"vulkan", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewBackend(tt.name)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got := f().Name(); got != tt.want {
				t.Errorf("backend %s, want %s", got, tt.want)
			}
		})
	}
}
