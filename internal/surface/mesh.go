// Package surface builds the static terrain grid and the camera math used to
// look at it.
//
// The grid is generated flat in its local XY plane. Elevation is never stored
// here; it is computed per frame by the displacement stage and written to the
// local Z axis. The mesh is laid horizontal by a fixed -90° rotation about X,
// so local Z becomes world up.
package surface

import (
	"fmt"
	"math"

	"github.com/san-kum/terrainbg/internal/config"
)

// Rotation is the fixed rotation about the X axis, in radians.
const Rotation = -math.Pi / 2

type Mesh struct {
	Width, Height float64
	Segments      int
	// Positions holds x, y, z triples with z = 0.
	Positions []float32
	Indices   []uint32
}

// New builds a width×height grid with segments cells per axis.
func New(width, height float64, segments int) (*Mesh, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("surface: invalid size %gx%g", width, height)
	}
	if segments < 1 {
		return nil, fmt.Errorf("surface: invalid segment count %d", segments)
	}

	cols := segments + 1
	m := &Mesh{
		Width:     width,
		Height:    height,
		Segments:  segments,
		Positions: make([]float32, 0, cols*cols*3),
		Indices:   make([]uint32, 0, segments*segments*6),
	}

	cellW := width / float64(segments)
	cellH := height / float64(segments)
	for iy := 0; iy < cols; iy++ {
		y := height/2 - float64(iy)*cellH
		for ix := 0; ix < cols; ix++ {
			x := float64(ix)*cellW - width/2
			m.Positions = append(m.Positions, float32(x), float32(y), 0)
		}
	}

	for iy := 0; iy < segments; iy++ {
		for ix := 0; ix < segments; ix++ {
			a := uint32(ix + cols*iy)
			b := uint32(ix + cols*(iy+1))
			c := uint32(ix + 1 + cols*(iy+1))
			d := uint32(ix + 1 + cols*iy)
			m.Indices = append(m.Indices, a, b, d, b, c, d)
		}
	}
	return m, nil
}

// FromConfig builds the mesh for a resolved render config.
func FromConfig(cfg config.Render) (*Mesh, error) {
	return New(cfg.TerrainWidth, cfg.TerrainHeight, cfg.Segments)
}

func (m *Mesh) VertexCount() int   { return len(m.Positions) / 3 }
func (m *Mesh) TriangleCount() int { return len(m.Indices) / 3 }

// Vertex returns the local position of vertex i.
func (m *Mesh) Vertex(i int) (x, y float64) {
	return float64(m.Positions[i*3]), float64(m.Positions[i*3+1])
}

// Cell locates a local plane point inside the grid. It returns the cell
// column/row and the fractional position inside that cell. ok is false when
// the point is outside the mesh.
func (m *Mesh) Cell(x, y float64) (ix, iy int, fx, fy float64, ok bool) {
	u := (x + m.Width/2) / m.Width * float64(m.Segments)
	v := (m.Height/2 - y) / m.Height * float64(m.Segments)
	if u < 0 || v < 0 || u > float64(m.Segments) || v > float64(m.Segments) {
		return 0, 0, 0, 0, false
	}
	ix, iy = int(u), int(v)
	if ix == m.Segments {
		ix--
	}
	if iy == m.Segments {
		iy--
	}
	return ix, iy, u - float64(ix), v - float64(iy), true
}

// Corners returns the three vertices of the triangle containing a point at
// fraction (fx, fy) of cell (ix, iy) and their barycentric weights. The
// split follows the index buffer: a-b-d above the diagonal, b-c-d below.
func (m *Mesh) Corners(ix, iy int, fx, fy float64) (v [3]int, w [3]float64) {
	a := m.Index(ix, iy)
	b := m.Index(ix, iy+1)
	c := m.Index(ix+1, iy+1)
	d := m.Index(ix+1, iy)
	if fx+fy <= 1 {
		return [3]int{a, b, d}, [3]float64{1 - fx - fy, fy, fx}
	}
	return [3]int{c, b, d}, [3]float64{fx + fy - 1, 1 - fx, 1 - fy}
}

// Interpolate samples per-vertex values at local point (x, y) the way the
// rasterizer would, linearly across the containing triangle.
func (m *Mesh) Interpolate(values []float64, x, y float64) (float64, bool) {
	ix, iy, fx, fy, ok := m.Cell(x, y)
	if !ok {
		return 0, false
	}
	v, w := m.Corners(ix, iy, fx, fy)
	return values[v[0]]*w[0] + values[v[1]]*w[1] + values[v[2]]*w[2], true
}

// Index returns the vertex index at grid column ix and row iy.
func (m *Mesh) Index(ix, iy int) int {
	return ix + (m.Segments+1)*iy
}

// ToWorld applies the fixed rotation to a displaced local point.
func ToWorld(x, y, z float64) Vec3 {
	s, c := math.Sincos(Rotation)
	return Vec3{x, y*c - z*s, y*s + z*c}
}
