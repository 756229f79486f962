package shader

import (
	"math"

	"github.com/san-kum/terrainbg/internal/config"
)

const (
	// LineScale converts the configured line width into screen units.
	LineScale = 15.0
	// GradientEpsilon keeps flat regions from dividing by zero.
	GradientEpsilon   = 0.0001
	DiscardThreshold  = 0.05
	HardLineThreshold = 0.1
	GlowAlpha         = 0.6
)

// Params are the shading-stage uniforms.
type Params struct {
	Spacing              float64
	LineWidth            float64
	MajorMultiplier      float64
	MajorWidthMultiplier float64
	GlowIntensity        float64
	Color                [3]float32
	MajorColor           [3]float32
}

func ParamsFrom(cfg config.Render) Params {
	glow := cfg.GlowIntensity
	if !cfg.Glow {
		glow = 0
	}
	return Params{
		Spacing:              cfg.ContourSpacing,
		LineWidth:            cfg.ContourLineWidth,
		MajorMultiplier:      float64(cfg.MajorLineMultiplier),
		MajorWidthMultiplier: cfg.MajorLineWidthMultiplier,
		GlowIntensity:        glow,
		Color:                cfg.ContourColor.Vec3(),
		MajorColor:           cfg.ContourMajorColor.Vec3(),
	}
}

// Fragment is the shading-stage output for one pixel.
type Fragment struct {
	Discard bool
	Major   bool
	Color   [3]float32
	Alpha   float64

	Distance      float64 // to the nearest contour, elevation units
	LineIntensity float64
	Glow          float64
}

// Shade runs the shading stage for one pixel given its interpolated
// elevation and the screen-space magnitude of the elevation derivative.
func Shade(elevation, gradient float64, p Params) Fragment {
	value := elevation / p.Spacing
	index := math.Round(value)
	dist := math.Abs(fract(value+0.5)-0.5) * p.Spacing
	major := IsMajor(index, p.MajorMultiplier)

	nd := dist / math.Max(gradient, GradientEpsilon)

	width := p.LineWidth * LineScale
	if major {
		width *= p.MajorWidthMultiplier
	}
	aa := width * 0.5
	line := 1 - smoothstep(width-aa, width+aa, nd)

	gd := nd * 2
	glow := math.Exp(-gd*gd) * p.GlowIntensity

	f := Fragment{
		Major:         major,
		Distance:      dist,
		LineIntensity: line,
		Glow:          glow,
	}
	if line+glow <= DiscardThreshold {
		f.Discard = true
		return f
	}

	f.Color = p.Color
	if major {
		f.Color = p.MajorColor
	}
	if line > HardLineThreshold {
		f.Alpha = line
	} else {
		f.Alpha = glow * GlowAlpha
	}
	return f
}

// IsMajor reports whether contour index falls on a major line. It uses GLSL
// mod semantics so negative indices behave like positive ones.
func IsMajor(index, multiplier float64) bool {
	if multiplier <= 0 {
		return false
	}
	return index-multiplier*math.Floor(index/multiplier) == 0
}

func fract(x float64) float64 { return x - math.Floor(x) }

func smoothstep(e0, e1, x float64) float64 {
	t := math.Min(math.Max((x-e0)/(e1-e0), 0), 1)
	return t * t * (3 - 2*t)
}
