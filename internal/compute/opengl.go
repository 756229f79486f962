package compute

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-gl/gl/v4.3-core/gl"
)

var (
	glOnce sync.Once
	glErr  error
)

// initGL loads GL entry points for the context raylib made current.
func initGL() error {
	glOnce.Do(func() {
		if err := gl.Init(); err != nil {
			glErr = fmt.Errorf("failed to init opengl: %w", err)
		}
	})
	return glErr
}

// ValidateProgram compiles and links both shading stages in the current
// context and reports the driver's info log on failure. raylib itself only
// falls back to its default shader.
func ValidateProgram(vertexSource, fragmentSource string) error {
	if err := initGL(); err != nil {
		return err
	}

	vs, err := compileShader(vertexSource, gl.VERTEX_SHADER)
	if err != nil {
		return fmt.Errorf("vertex stage: %w", err)
	}
	defer gl.DeleteShader(vs)

	fs, err := compileShader(fragmentSource, gl.FRAGMENT_SHADER)
	if err != nil {
		return fmt.Errorf("fragment stage: %w", err)
	}
	defer gl.DeleteShader(fs)

	program := gl.CreateProgram()
	defer gl.DeleteProgram(program)
	gl.AttachShader(program, vs)
	gl.AttachShader(program, fs)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		return fmt.Errorf("failed to link terrain program: %v", strings.TrimRight(log, "\x00"))
	}
	return nil
}

func compileShader(source string, kind uint32) (uint32, error) {
	shader := gl.CreateShader(kind)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("failed to compile shader: %v", strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}
