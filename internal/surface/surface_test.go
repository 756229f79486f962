package surface

import (
	"math"
	"testing"

	"github.com/san-kum/terrainbg/internal/config"
	"github.com/san-kum/terrainbg/internal/quality"
)

func TestNew(t *testing.T) {
	m, err := New(400, 200, 50)
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	if m.VertexCount() != 51*51 {
		t.Errorf("expected %d vertices, got %d", 51*51, m.VertexCount())
	}
	if m.TriangleCount() != 50*50*2 {
		t.Errorf("expected %d triangles, got %d", 50*50*2, m.TriangleCount())
	}

	x, y := m.Vertex(0)
	if x != -200 || y != 100 {
		t.Errorf("first vertex (%v, %v), want (-200, 100)", x, y)
	}
	x, y = m.Vertex(m.VertexCount() - 1)
	if x != 200 || y != -100 {
		t.Errorf("last vertex (%v, %v), want (200, -100)", x, y)
	}

	for i := 2; i < len(m.Positions); i += 3 {
		if m.Positions[i] != 0 {
			t.Fatal("base mesh must be flat")
		}
	}
	for _, idx := range m.Indices {
		if int(idx) >= m.VertexCount() {
			t.Fatalf("index %d out of range", idx)
		}
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		w, h     float64
		segments int
	}{
		{"zero width", 0, 10, 10},
		{"negative height", 10, -1, 10},
		{"no segments", 10, 10, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.w, tt.h, tt.segments); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestFromConfig_Tessellation(t *testing.T) {
	prev := 0
	for _, tier := range quality.Tiers {
		m, err := FromConfig(config.Resolve(tier))
		if err != nil {
			t.Fatalf("%s: %v", tier, err)
		}
		if m.VertexCount() <= prev {
			t.Errorf("%s: tessellation should grow with tier", tier)
		}
		prev = m.VertexCount()
	}
}

func TestCell(t *testing.T) {
	m, _ := New(400, 200, 4)

	ix, iy, fx, fy, ok := m.Cell(-200, 100)
	if !ok || ix != 0 || iy != 0 || fx != 0 || fy != 0 {
		t.Errorf("top-left corner: %d %d %v %v %v", ix, iy, fx, fy, ok)
	}

	ix, iy, fx, fy, ok = m.Cell(200, -100)
	if !ok || ix != 3 || iy != 3 || fx != 1 || fy != 1 {
		t.Errorf("bottom-right corner: %d %d %v %v %v", ix, iy, fx, fy, ok)
	}

	ix, iy, fx, fy, ok = m.Cell(-150, 75)
	if !ok || ix != 0 || iy != 0 || math.Abs(fx-0.5) > 1e-9 || math.Abs(fy-0.5) > 1e-9 {
		t.Errorf("inner point: %d %d %v %v %v", ix, iy, fx, fy, ok)
	}

	if _, _, _, _, ok := m.Cell(201, 0); ok {
		t.Error("point outside mesh should not resolve")
	}
}

func TestToWorld(t *testing.T) {
	w := ToWorld(1, 2, 3)
	want := Vec3{1, 3, -2}
	for i := range w {
		if math.Abs(w[i]-want[i]) > 1e-12 {
			t.Fatalf("ToWorld = %v, want %v", w, want)
		}
	}
}

func TestViewGround(t *testing.T) {
	v := NewView(config.Resolve(quality.High).Camera, 800, 600)

	if math.Abs(v.Forward[1]+1) > 1e-12 {
		t.Errorf("camera should look straight down, forward=%v", v.Forward)
	}

	x, y, ok := v.Ground(400, 300, 800, 600)
	if !ok {
		t.Fatal("centre pixel should hit the ground")
	}
	if math.Abs(x) > 0.5 || math.Abs(y) > 0.5 {
		t.Errorf("centre pixel hit (%v, %v), want near origin", x, y)
	}

	// Top of the screen looks towards local +Y.
	_, top, _ := v.Ground(400, 0, 800, 600)
	_, bottom, _ := v.Ground(400, 599, 800, 600)
	if top <= 0 || bottom >= 0 {
		t.Errorf("expected top>0>bottom, got %v %v", top, bottom)
	}

	left, _, _ := v.Ground(0, 300, 800, 600)
	right, _, _ := v.Ground(799, 300, 800, 600)
	if left >= 0 || right <= 0 {
		t.Errorf("expected left<0<right, got %v %v", left, right)
	}
}

func TestInterpolate_LinearFieldExact(t *testing.T) {
	m, err := New(400, 200, 20)
	if err != nil {
		t.Fatal(err)
	}
	f := func(x, y float64) float64 { return 0.3*x - 0.7*y + 2 }
	values := make([]float64, m.VertexCount())
	for i := range values {
		x, y := m.Vertex(i)
		values[i] = f(x, y)
	}

	points := [][2]float64{{0, 0}, {-199, 99}, {123.4, -56.7}, {7.5, 2.5}, {200, -100}}
	for _, p := range points {
		got, ok := m.Interpolate(values, p[0], p[1])
		if !ok {
			t.Fatalf("%v reported outside the mesh", p)
		}
		if want := f(p[0], p[1]); math.Abs(got-want) > 1e-3 {
			t.Errorf("at %v: got %v, want %v", p, got, want)
		}
	}

	if _, ok := m.Interpolate(values, 250, 0); ok {
		t.Error("point beyond the edge should not interpolate")
	}
}

func TestCorners_WeightsSumToOne(t *testing.T) {
	m, _ := New(10, 10, 2)
	for _, fr := range [][2]float64{{0, 0}, {0.2, 0.3}, {0.9, 0.8}, {1, 1}, {0.5, 0.5}} {
		_, w := m.Corners(0, 0, fr[0], fr[1])
		if s := w[0] + w[1] + w[2]; math.Abs(s-1) > 1e-12 {
			t.Errorf("weights at %v sum to %v", fr, s)
		}
	}
}
