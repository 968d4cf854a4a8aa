package renderer

import (
	"log"
	"strings"

	gl "github.com/go-gl/gl/v4.1-core/gl"
)

// newProgram compiles and links a program. attribs pins vertex attributes to
// fixed locations before linking so one VAO can feed several programs.
// Objects that fail are released before the error is returned.
func newProgram(vertexShaderSource, fragmentShaderSource string, attribs map[string]uint32) (uint32, error) {
	vertexShader, err := compileShader(vertexShaderSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fragmentShader, err := compileShader(fragmentShaderSource, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vertexShader)
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	for name, index := range attribs {
		gl.BindAttribLocation(program, index, gl.Str(name+"\x00"))
	}
	gl.LinkProgram(program)

	// The program keeps its own reference to the attached stages.
	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		logText := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(logText))
		gl.DeleteProgram(program)
		err := &LinkError{Log: strings.TrimRight(logText, "\x00")}
		log.Printf("Unable to initialize the shader program: %s", err.Log)
		return 0, err
	}

	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		logText := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(logText))
		gl.DeleteShader(shader)
		err := &ShaderError{Stage: stageName(shaderType), Log: strings.TrimRight(logText, "\x00")}
		log.Printf("An error occurred compiling the %s shader: %s", err.Stage, err.Log)
		return 0, err
	}
	return shader, nil
}

func stageName(shaderType uint32) string {
	switch shaderType {
	case gl.VERTEX_SHADER:
		return "vertex"
	case gl.FRAGMENT_SHADER:
		return "fragment"
	default:
		return "unknown"
	}
}

// glProgram exposes a linked program to uniforms.Discover.
type glProgram struct {
	id uint32
}

func (p glProgram) ActiveUniforms() []string {
	var count, maxLength int32
	gl.GetProgramiv(p.id, gl.ACTIVE_UNIFORMS, &count)
	gl.GetProgramiv(p.id, gl.ACTIVE_UNIFORM_MAX_LENGTH, &maxLength)
	if count == 0 {
		return nil
	}

	buf := make([]uint8, maxLength+1)
	names := make([]string, 0, count)
	for i := int32(0); i < count; i++ {
		var length, size int32
		var xtype uint32
		gl.GetActiveUniform(p.id, uint32(i), maxLength+1, &length, &size, &xtype, &buf[0])
		names = append(names, string(buf[:length]))
	}
	return names
}

func (p glProgram) Location(name string) int32 {
	return gl.GetUniformLocation(p.id, gl.Str(name+"\x00"))
}

// glSetter pushes uniform values into the currently bound program.
type glSetter struct{}

func (glSetter) Uniform1f(location int32, v float32) {
	gl.Uniform1f(location, v)
}

func (glSetter) Uniform2f(location int32, v0, v1 float32) {
	gl.Uniform2f(location, v0, v1)
}
