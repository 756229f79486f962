// Package shader holds the terrain's two GPU stages and a float64 reference
// of both.
//
// The displacement stage evaluates 3D simplex noise at (x·scaleX, y·scaleY,
// time) for every mesh vertex and writes it, times the amplitude, to the
// vertex's local Z. The shading stage turns the interpolated elevation into
// contour lines. The GLSL in glsl/ and the Go functions here implement the
// same formulas; the CPU backend and the tests use the Go side.
package shader

import (
	"math"

	"github.com/san-kum/terrainbg/internal/config"
)

// NoiseBound is the largest magnitude Simplex3 has been observed to return.
const NoiseBound = 1.05

func mod289(x float64) float64 { return x - math.Floor(x*(1.0/289.0))*289.0 }

func permute(x float64) float64 { return mod289((x*34.0 + 1.0) * x) }

func taylorInvSqrt(r float64) float64 { return 1.79284291400159 - 0.85373472095314*r }

func step(edge, x float64) float64 {
	if x < edge {
		return 0
	}
	return 1
}

// Simplex3 is closed-form 3D simplex noise: the permutation is the
// polynomial (34x²+x) mod 289 and gradients are mapped onto an octahedron,
// so no lookup table is needed. The result lies roughly in [-1, 1] and is
// continuous in all three inputs.
func Simplex3(x, y, z float64) float64 {
	const (
		cx = 1.0 / 6.0
		cy = 1.0 / 3.0
	)

	// Skew into simplex space and find the cell origin.
	s := (x + y + z) * cy
	i := [3]float64{math.Floor(x + s), math.Floor(y + s), math.Floor(z + s)}
	t := (i[0] + i[1] + i[2]) * cx
	x0 := [3]float64{x - i[0] + t, y - i[1] + t, z - i[2] + t}

	// Rank the offsets to pick the two middle corners.
	g := [3]float64{step(x0[1], x0[0]), step(x0[2], x0[1]), step(x0[0], x0[2])}
	l := [3]float64{1 - g[0], 1 - g[1], 1 - g[2]}
	i1 := [3]float64{math.Min(g[0], l[2]), math.Min(g[1], l[0]), math.Min(g[2], l[1])}
	i2 := [3]float64{math.Max(g[0], l[2]), math.Max(g[1], l[0]), math.Max(g[2], l[1])}

	var corners [4][3]float64
	for a := 0; a < 3; a++ {
		corners[0][a] = x0[a]
		corners[1][a] = x0[a] - i1[a] + cx
		corners[2][a] = x0[a] - i2[a] + cy
		corners[3][a] = x0[a] - 0.5
	}

	for a := range i {
		i[a] = mod289(i[a])
	}
	offset := func(a, k int) float64 {
		switch k {
		case 1:
			return i1[a]
		case 2:
			return i2[a]
		case 3:
			return 1
		}
		return 0
	}

	const n = 1.0 / 7.0
	var sum float64
	for k := 0; k < 4; k++ {
		p := permute(permute(permute(i[2]+offset(2, k))+i[1]+offset(1, k)) + i[0] + offset(0, k))

		// 49 gradients on a 7×7 grid folded onto the octahedron.
		j := p - 49*math.Floor(p/49)
		gx := math.Floor(j/7)*2*n + (0.5*n - 1)
		gy := math.Floor(j-7*math.Floor(j/7))*2*n + (0.5*n - 1)
		h := 1 - math.Abs(gx) - math.Abs(gy)
		sh := -step(h, 0)
		gx += (math.Floor(gx)*2 + 1) * sh
		gy += (math.Floor(gy)*2 + 1) * sh

		norm := taylorInvSqrt(gx*gx + gy*gy + h*h)
		c := corners[k]
		m := math.Max(0.6-(c[0]*c[0]+c[1]*c[1]+c[2]*c[2]), 0)
		m *= m
		sum += m * m * norm * (gx*c[0] + gy*c[1] + h*c[2])
	}
	return 42 * sum
}

// Elevation is the displacement stage for one vertex at local (x, y).
func Elevation(x, y, time float64, cfg config.Render) float64 {
	return Simplex3(x*cfg.NoiseScaleX, y*cfg.NoiseScaleY, time) * cfg.NoiseAmplitude
}
