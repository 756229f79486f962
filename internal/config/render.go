package config

import (
	"fmt"

	"github.com/san-kum/terrainbg/internal/quality"
)

// Color is packed as 0xRRGGBBAA.
type Color uint32

func (c Color) RGBA8() (r, g, b, a uint8) {
	return uint8(c >> 24), uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// Vec3 returns the normalized RGB channels.
func (c Color) Vec3() [3]float32 {
	r, g, b, _ := c.RGBA8()
	return [3]float32{float32(r) / 255, float32(g) / 255, float32(b) / 255}
}

func (c Color) Hex() string { return fmt.Sprintf("#%08x", uint32(c)) }

func (c Color) MarshalText() ([]byte, error) { return []byte(c.Hex()), nil }

type Vec3 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

type Camera struct {
	Position Vec3    `yaml:"position"`
	Target   Vec3    `yaml:"target"`
	Up       Vec3    `yaml:"up"`
	FOV      float64 `yaml:"fov"`
	Near     float64 `yaml:"near"`
	Far      float64 `yaml:"far"`
}

// Render is the resolved, read-only parameter set for one tier.
type Render struct {
	Tier quality.Tier `yaml:"tier"`

	TerrainWidth  float64 `yaml:"terrain_width"`
	TerrainHeight float64 `yaml:"terrain_height"`
	Segments      int     `yaml:"segments"`

	ContourSpacing           float64 `yaml:"contour_spacing"`
	ContourLineWidth         float64 `yaml:"contour_line_width"`
	ContourColor             Color   `yaml:"contour_color"`
	ContourMajorColor        Color   `yaml:"contour_major_color"`
	BackgroundColor          Color   `yaml:"background_color"`
	Transparent              bool    `yaml:"transparent"`
	MajorLineMultiplier      int     `yaml:"major_line_multiplier"`
	MajorLineWidthMultiplier float64 `yaml:"major_line_width_multiplier"`
	Glow                     bool    `yaml:"glow"`
	GlowIntensity            float64 `yaml:"glow_intensity"`

	NoiseAmplitude float64 `yaml:"noise_amplitude"`
	NoiseScaleX    float64 `yaml:"noise_scale_x"`
	NoiseScaleY    float64 `yaml:"noise_scale_y"`
	NoiseSpeed     float64 `yaml:"noise_speed"`

	TargetFPS     int     `yaml:"target_fps"`
	FrameInterval float64 `yaml:"frame_interval_ms"`
	Antialias     bool    `yaml:"antialias"`
	Animate       bool    `yaml:"animate"`
	MaxPixelRatio float64 `yaml:"max_pixel_ratio"`

	Camera Camera `yaml:"camera"`
}

// Resolve expands a tier into its render parameters. Values come from Base
// only; the tier is used as a table index and nothing else. An out-of-range
// tier resolves as the nearest valid one.
func Resolve(t quality.Tier) Render {
	t = t.Clamp()
	fps := Base.Performance.TargetFPS.At(t)
	return Render{
		Tier: t,

		TerrainWidth:  Base.Terrain.Width,
		TerrainHeight: Base.Terrain.Height,
		Segments:      Base.Terrain.Segments.At(t),

		ContourSpacing:           Base.Visual.ContourSpacing,
		ContourLineWidth:         Base.Visual.ContourLineWidth,
		ContourColor:             Base.Visual.ContourColor,
		ContourMajorColor:        Base.Visual.ContourMajorColor,
		BackgroundColor:          Base.Visual.BackgroundColor,
		Transparent:              Base.Visual.Transparent,
		MajorLineMultiplier:      Base.Visual.MajorLineMultiplier,
		MajorLineWidthMultiplier: Base.Visual.MajorLineWidthMultiplier,
		Glow:                     Base.Visual.Glow,
		GlowIntensity:            Base.Visual.GlowIntensity,

		NoiseAmplitude: Base.Noise.Amplitude,
		NoiseScaleX:    Base.Noise.ScaleX,
		NoiseScaleY:    Base.Noise.ScaleY,
		NoiseSpeed:     Base.Noise.Speed.At(t),

		TargetFPS:     fps,
		FrameInterval: 1000 / float64(fps),
		Antialias:     Base.Performance.Antialias.At(t),
		Animate:       Base.Performance.Animate.At(t),
		MaxPixelRatio: Base.Performance.MaxPixelRatio,

		Camera: Base.Camera,
	}
}

// PixelRatio clamps a device pixel ratio to the configured maximum.
func (r Render) PixelRatio(device float64) float64 {
	if device <= 0 {
		device = 1
	}
	if device > r.MaxPixelRatio {
		return r.MaxPixelRatio
	}
	return device
}
