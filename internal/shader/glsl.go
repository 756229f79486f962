package shader

import (
	_ "embed"

	"github.com/san-kum/terrainbg/internal/config"
)

//go:embed glsl/terrain.vs
var VertexSource string

//go:embed glsl/terrain.fs
var FragmentSource string

// Uniform names shared by both stages.
const (
	UniformTime                     = "time"
	UniformNoiseScale               = "noiseScale"
	UniformNoiseAmplitude           = "noiseAmplitude"
	UniformContourSpacing           = "contourSpacing"
	UniformContourLineWidth         = "contourLineWidth"
	UniformContourColor             = "contourColor"
	UniformContourMajorColor        = "contourMajorColor"
	UniformMajorLineMultiplier      = "majorLineMultiplier"
	UniformMajorLineWidthMultiplier = "majorLineWidthMultiplier"
	UniformGlowIntensity            = "glowIntensity"
)

// Uniforms is the full uniform block. Only Time changes after creation.
type Uniforms struct {
	Time           float32
	NoiseScale     [2]float32
	NoiseAmplitude float32
	Params
}

func UniformsFor(cfg config.Render) Uniforms {
	return Uniforms{
		NoiseScale:     [2]float32{float32(cfg.NoiseScaleX), float32(cfg.NoiseScaleY)},
		NoiseAmplitude: float32(cfg.NoiseAmplitude),
		Params:         ParamsFrom(cfg),
	}
}
