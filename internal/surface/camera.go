package surface

import (
	"math"

	"github.com/san-kum/terrainbg/internal/config"
)

type Vec3 [3]float64

func (a Vec3) Add(b Vec3) Vec3      { return Vec3{a[0] + b[0], a[1] + b[1], a[2] + b[2]} }
func (a Vec3) Sub(b Vec3) Vec3      { return Vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]} }
func (a Vec3) Scale(s float64) Vec3 { return Vec3{a[0] * s, a[1] * s, a[2] * s} }
func (a Vec3) Dot(b Vec3) float64   { return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] }
func (a Vec3) Length() float64      { return math.Sqrt(a.Dot(a)) }
func (a Vec3) Normalize() Vec3 {
	l := a.Length()
	if l == 0 {
		return a
	}
	return a.Scale(1 / l)
}
func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// View is a perspective camera with a fixed orientation. Aspect is updated
// on resize.
type View struct {
	Position Vec3
	Forward  Vec3
	Right    Vec3
	Up       Vec3
	FOV      float64 // vertical, degrees
	Near     float64
	Far      float64
	Aspect   float64
}

func NewView(c config.Camera, width, height int) *View {
	pos := Vec3{c.Position.X, c.Position.Y, c.Position.Z}
	target := Vec3{c.Target.X, c.Target.Y, c.Target.Z}
	up := Vec3{c.Up.X, c.Up.Y, c.Up.Z}

	fwd := target.Sub(pos).Normalize()
	right := fwd.Cross(up).Normalize()
	v := &View{
		Position: pos,
		Forward:  fwd,
		Right:    right,
		Up:       right.Cross(fwd),
		FOV:      c.FOV,
		Near:     c.Near,
		Far:      c.Far,
	}
	v.SetAspect(width, height)
	return v
}

func (v *View) SetAspect(width, height int) {
	if width <= 0 || height <= 0 {
		v.Aspect = 1
		return
	}
	v.Aspect = float64(width) / float64(height)
}

// Ray returns the world-space direction through the centre of pixel (px, py)
// of a width×height target.
func (v *View) Ray(px, py, width, height int) Vec3 {
	t := math.Tan(v.FOV * math.Pi / 360)
	nx := (2*(float64(px)+0.5)/float64(width) - 1) * t * v.Aspect
	ny := (1 - 2*(float64(py)+0.5)/float64(height)) * t
	return v.Forward.Add(v.Right.Scale(nx)).Add(v.Up.Scale(ny)).Normalize()
}

// Ground intersects the ray through pixel (px, py) with the undisplaced
// surface and returns the hit in mesh-local plane coordinates. Displacement
// parallax is ignored; at the configured camera height it is under a pixel.
func (v *View) Ground(px, py, width, height int) (x, y float64, ok bool) {
	dir := v.Ray(px, py, width, height)
	if math.Abs(dir[1]) < 1e-9 {
		return 0, 0, false
	}
	t := -v.Position[1] / dir[1]
	if t < v.Near || t > v.Far {
		return 0, 0, false
	}
	hit := v.Position.Add(dir.Scale(t))
	// Undo the fixed rotation: world Z maps back to local -Y.
	return hit[0], -hit[2], true
}
