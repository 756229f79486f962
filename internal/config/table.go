package config

import "github.com/san-kum/terrainbg/internal/quality"

// PerTier holds one value per quality tier, indexed by quality.Tier.
type PerTier[T any] [3]T

// At returns the value for t. Out-of-range tiers read the nearest column.
func (p PerTier[T]) At(t quality.Tier) T { return p[t.Clamp()] }

// Base is the single table every render parameter comes from. Tier-specific
// values are PerTier arrays; Resolve only indexes into it.
var Base = struct {
	Terrain struct {
		Width, Height float64
		Segments      PerTier[int]
	}
	Visual struct {
		ContourSpacing           float64
		ContourLineWidth         float64
		ContourColor             Color
		ContourMajorColor        Color
		BackgroundColor          Color
		Transparent              bool
		MajorLineMultiplier      int
		MajorLineWidthMultiplier float64
		Glow                     bool
		GlowIntensity            float64
	}
	Noise struct {
		Amplitude      float64
		ScaleX, ScaleY float64
		Speed          PerTier[float64]
	}
	Performance struct {
		TargetFPS     PerTier[int]
		Antialias     PerTier[bool]
		Animate       PerTier[bool]
		MaxPixelRatio float64
	}
	Camera Camera
}{
	Terrain: struct {
		Width, Height float64
		Segments      PerTier[int]
	}{
		Width:    400,
		Height:   200,
		Segments: PerTier[int]{50, 100, 200},
	},
	Visual: struct {
		ContourSpacing           float64
		ContourLineWidth         float64
		ContourColor             Color
		ContourMajorColor        Color
		BackgroundColor          Color
		Transparent              bool
		MajorLineMultiplier      int
		MajorLineWidthMultiplier float64
		Glow                     bool
		GlowIntensity            float64
	}{
		ContourSpacing:           0.9,
		ContourLineWidth:         0.06,
		ContourColor:             0x1f69b3ff,
		ContourMajorColor:        0x1f7ad4ff,
		BackgroundColor:          0x221249ff,
		Transparent:              true,
		MajorLineMultiplier:      5,
		MajorLineWidthMultiplier: 1.8,
		Glow:                     true,
		GlowIntensity:            0.3,
	},
	Noise: struct {
		Amplitude      float64
		ScaleX, ScaleY float64
		Speed          PerTier[float64]
	}{
		Amplitude: 4.0,
		ScaleX:    0.015,
		ScaleY:    0.015,
		Speed:     PerTier[float64]{0.00001, 0.00002, 0.00002},
	},
	Performance: struct {
		TargetFPS     PerTier[int]
		Antialias     PerTier[bool]
		Animate       PerTier[bool]
		MaxPixelRatio float64
	}{
		TargetFPS:     PerTier[int]{15, 24, 60},
		Antialias:     PerTier[bool]{false, false, true},
		Animate:       PerTier[bool]{false, true, true},
		MaxPixelRatio: 2,
	},
	Camera: Camera{
		Position: Vec3{0, 125, 0},
		Target:   Vec3{0, 0, 0},
		Up:       Vec3{0, 0, -1},
		FOV:      75,
		Near:     0.1,
		Far:      1000,
	},
}
