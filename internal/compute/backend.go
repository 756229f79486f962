package compute

import (
	"fmt"

	"github.com/san-kum/terrainbg/internal/config"
	"github.com/san-kum/terrainbg/internal/host"
)

// Backend owns the graphics resources for one terrain instance: the
// drawing surface, the mesh and the shading program.
type Backend interface {
	Name() string
	Available() bool
	// Init acquires every resource. width and height are the container size
	// in CSS pixels; the drawing buffer is scaled by pixelRatio.
	Init(cfg config.Render, width, height int, pixelRatio float64) error
	Resize(width, height int) error
	SetTime(t float32)
	Render() error
	// Surface is the element mounted into the container. Nil before Init.
	Surface() host.Surface
	// Cleanup releases everything Init acquired. Safe to call repeatedly.
	Cleanup()
}

// Factory builds a fresh, uninitialized backend.
type Factory func() Backend

const (
	NameAuto   = "auto"
	NameCPU    = "cpu"
	NameRaylib = "raylib"
)

// NewBackend returns a factory for the named backend. "auto" prefers the
// GPU backend when a window is open and falls back to the CPU renderer.
func NewBackend(name string) (Factory, error) {
	switch name {
	case NameCPU:
		return func() Backend { return NewCPUBackend() }, nil
	case NameRaylib:
		return func() Backend { return NewRaylibBackend() }, nil
	case NameAuto, "":
		return AutoSelectBackend, nil
	default:
		return nil, fmt.Errorf("compute: unknown backend %q", name)
	}
}

func AutoSelectBackend() Backend {
	gpu := NewRaylibBackend()
	if gpu.Available() {
		return gpu
	}
	return NewCPUBackend()
}
