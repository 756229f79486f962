package gui

import (
	"fmt"
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/terrainbg/internal/compute"
)

func (a *App) Draw() {
	rl.BeginDrawing()

	// The page behind a transparent canvas.
	r, g, b, _ := a.Render.BackgroundColor.RGBA8()
	rl.ClearBackground(rl.NewColor(r, g, b, 255))

	a.drawSurface()
	if a.ShowHUD {
		a.DrawHUD()
	}

	rl.EndDrawing()
}

// drawSurface blits whatever the backend mounted, if it is still mounted.
func (a *App) drawSurface() {
	be := a.Manager.Backend()
	if be == nil || be.Surface() == nil || !a.container.Contains(be.Surface()) {
		return
	}
	dst := rl.NewRectangle(0, 0, float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight()))

	switch be := be.(type) {
	case *compute.RaylibBackend:
		tex := be.Target().Texture.Texture
		// Render textures are stored upside down.
		src := rl.NewRectangle(0, 0, float32(tex.Width), -float32(tex.Height))
		rl.DrawTexturePro(tex, src, dst, rl.NewVector2(0, 0), 0, rl.White)
	case *compute.CPUBackend:
		a.uploadCPU(be)
		src := rl.NewRectangle(0, 0, float32(a.cpuW), float32(a.cpuH))
		rl.DrawTexturePro(a.cpuTex, src, dst, rl.NewVector2(0, 0), 0, rl.White)
	}
}

func (a *App) uploadCPU(be *compute.CPUBackend) {
	img := be.Image()
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if a.cpuTex.ID == 0 || w != a.cpuW || h != a.cpuH {
		if a.cpuTex.ID != 0 {
			rl.UnloadTexture(a.cpuTex)
		}
		blank := rl.GenImageColor(w, h, rl.Blank)
		a.cpuTex = rl.LoadTextureFromImage(blank)
		rl.UnloadImage(blank)
		a.cpuW, a.cpuH = w, h
	}

	pixels := make([]color.RGBA, w*h)
	for i := range pixels {
		p := img.Pix[i*4 : i*4+4]
		pixels[i] = color.RGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
	}
	rl.UpdateTexture(a.cpuTex, pixels)
}

func (a *App) DrawHUD() {
	a.drawText("terrainbg", 30, 30, 24, ColSelect)
	a.drawText(fmt.Sprintf(":: %s", a.Render.Tier), 170, 34, 16, ColText)

	stats := a.Manager.Stats()
	a.drawText(fmt.Sprintf("%s  %.0f FPS  %d rendered  %d skipped",
		a.Manager.State(), stats.FPS(), stats.Rendered(), stats.Skipped()), 30, 60, 14, ColText)

	h := int(rl.GetScreenHeight())
	a.drawText("[SPACE] PAUSE  [R] REINIT  [D] DROP SURFACE  [H] HUD  [Q] QUIT", 30, h-40, 14, ColTextDim)
	a.drawText(fmt.Sprintf("%d HZ", int32(rl.GetFPS())), 30, h-60, 14, ColTextDim)
}

func (a *App) drawText(text string, x, y int, size int, col rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, col)
}
