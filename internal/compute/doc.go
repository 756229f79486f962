// Package compute provides the graphics backends that draw the terrain.
//
//   - raylib: GPU path. The grid is uploaded once, displacement and contour
//     shading run in GLSL, and frames land in a render texture.
//   - cpu: software path. Rows are shaded in parallel across all cores
//     into an image, used by the terminal preview, snapshots and tests.
//
// Both evaluate the same displacement and shading functions, so a CPU
// snapshot matches what the GPU draws up to rasterization details.
//
//	b := compute.NewCPUBackend()
//	if err := b.Init(cfg, 1280, 720, 1); err != nil { ... }
//	b.SetTime(0)
//	_ = b.Render()
//	img := b.Image()
package compute
