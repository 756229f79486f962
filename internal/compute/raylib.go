package compute

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/terrainbg/internal/config"
	"github.com/san-kum/terrainbg/internal/host"
	"github.com/san-kum/terrainbg/internal/logging"
	"github.com/san-kum/terrainbg/internal/shader"
)

// RenderTarget is the GPU backend's drawing surface: an offscreen texture
// the window host blits every frame.
type RenderTarget struct {
	Width, Height int
	Texture       rl.RenderTexture2D
}

func (t *RenderTarget) Size() (int, int) { return t.Width, t.Height }

type RaylibBackend struct {
	cfg      config.Render
	uniforms shader.Uniforms
	ratio    float64

	shader rl.Shader
	model  rl.Model
	camera rl.Camera3D
	target *RenderTarget

	timeLoc int32
	ready   bool
}

func NewRaylibBackend() *RaylibBackend {
	return &RaylibBackend{}
}

func (b *RaylibBackend) Name() string          { return NameRaylib }
func (b *RaylibBackend) Available() bool       { return rl.IsWindowReady() }
func (b *RaylibBackend) SetTime(t float32)     { b.uniforms.Time = t }
func (b *RaylibBackend) Target() *RenderTarget { return b.target }

func (b *RaylibBackend) Surface() host.Surface {
	if b.target == nil {
		return nil
	}
	return b.target
}

func (b *RaylibBackend) Init(cfg config.Render, width, height int, pixelRatio float64) error {
	if !b.Available() {
		return ErrUnavailable
	}
	if err := ValidateProgram(shader.VertexSource, shader.FragmentSource); err != nil {
		return err
	}

	b.cfg = cfg
	b.ratio = cfg.PixelRatio(pixelRatio)
	b.uniforms = shader.UniformsFor(cfg)

	b.shader = rl.LoadShaderFromMemory(shader.VertexSource, shader.FragmentSource)
	if b.shader.ID == 0 {
		return fmt.Errorf("compute: terrain shader did not load")
	}
	b.bindUniforms()

	// The plane comes out of raylib already lying in XZ, which is where the
	// fixed rotation would put a local XY grid.
	mesh := rl.GenMeshPlane(float32(cfg.TerrainWidth), float32(cfg.TerrainHeight), cfg.Segments, cfg.Segments)
	b.model = rl.LoadModelFromMesh(mesh)
	b.model.Materials.Shader = b.shader

	cam := cfg.Camera
	b.camera = rl.Camera3D{
		Position:   rl.NewVector3(float32(cam.Position.X), float32(cam.Position.Y), float32(cam.Position.Z)),
		Target:     rl.NewVector3(float32(cam.Target.X), float32(cam.Target.Y), float32(cam.Target.Z)),
		Up:         rl.NewVector3(float32(cam.Up.X), float32(cam.Up.Y), float32(cam.Up.Z)),
		Fovy:       float32(cam.FOV),
		Projection: rl.CameraPerspective,
	}

	b.target = &RenderTarget{}
	b.ready = true
	logging.Logger().Debug("gpu backend ready",
		"segments", cfg.Segments, "pixel_ratio", b.ratio, "antialias", cfg.Antialias)
	return b.Resize(width, height)
}

func (b *RaylibBackend) bindUniforms() {
	u := b.uniforms
	set := func(name string, v []float32, kind rl.ShaderUniformDataType) {
		rl.SetShaderValue(b.shader, rl.GetShaderLocation(b.shader, name), v, kind)
	}
	set(shader.UniformNoiseScale, u.NoiseScale[:], rl.ShaderUniformVec2)
	set(shader.UniformNoiseAmplitude, []float32{u.NoiseAmplitude}, rl.ShaderUniformFloat)
	set(shader.UniformContourSpacing, []float32{float32(u.Spacing)}, rl.ShaderUniformFloat)
	set(shader.UniformContourLineWidth, []float32{float32(u.LineWidth)}, rl.ShaderUniformFloat)
	set(shader.UniformContourColor, u.Color[:], rl.ShaderUniformVec3)
	set(shader.UniformContourMajorColor, u.MajorColor[:], rl.ShaderUniformVec3)
	set(shader.UniformMajorLineMultiplier, []float32{float32(u.MajorMultiplier)}, rl.ShaderUniformFloat)
	set(shader.UniformMajorLineWidthMultiplier, []float32{float32(u.MajorWidthMultiplier)}, rl.ShaderUniformFloat)
	set(shader.UniformGlowIntensity, []float32{float32(u.GlowIntensity)}, rl.ShaderUniformFloat)
	b.timeLoc = rl.GetShaderLocation(b.shader, shader.UniformTime)
}

func (b *RaylibBackend) Resize(width, height int) error {
	if !b.ready {
		return ErrNotInitialized
	}
	if !rl.IsWindowReady() {
		return ErrContextLost
	}
	width, height = max(width, 1), max(height, 1)
	pw := int32(math.Round(float64(width) * b.ratio))
	ph := int32(math.Round(float64(height) * b.ratio))

	if b.target.Texture.ID != 0 {
		rl.UnloadRenderTexture(b.target.Texture)
	}
	b.target.Width, b.target.Height = width, height
	b.target.Texture = rl.LoadRenderTexture(max(pw, 1), max(ph, 1))
	return nil
}

func (b *RaylibBackend) Render() error {
	if !b.ready {
		return ErrNotInitialized
	}
	if !rl.IsWindowReady() {
		return ErrContextLost
	}

	rl.SetShaderValue(b.shader, b.timeLoc, []float32{b.uniforms.Time}, rl.ShaderUniformFloat)

	bg := rl.Blank
	if !b.cfg.Transparent {
		r, g, bl, a := b.cfg.BackgroundColor.RGBA8()
		bg = rl.NewColor(r, g, bl, a)
	}

	rl.BeginTextureMode(b.target.Texture)
	rl.ClearBackground(bg)
	rl.BeginMode3D(b.camera)
	rl.DrawModel(b.model, rl.NewVector3(0, 0, 0), 1, rl.White)
	rl.EndMode3D()
	rl.EndTextureMode()
	return nil
}

func (b *RaylibBackend) Cleanup() {
	if !b.ready {
		return
	}
	b.ready = false
	if b.target != nil && b.target.Texture.ID != 0 {
		rl.UnloadRenderTexture(b.target.Texture)
	}
	// UnloadModel frees the material maps but leaves the shader to us.
	rl.UnloadShader(b.shader)
	rl.UnloadModel(b.model)
	b.target = nil
}
