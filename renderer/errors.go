package renderer

import (
	"errors"
	"fmt"
)

// ErrUnsupported is returned when no usable graphics context is available.
var ErrUnsupported = errors.New("graphics context is not supported in this environment")

// ShaderError carries the driver's compiler log for a stage that failed to
// compile.
type ShaderError struct {
	Stage string
	Log   string
}

func (e *ShaderError) Error() string {
	return fmt.Sprintf("failed to compile %s shader: %s", e.Stage, e.Log)
}

// LinkError carries the driver's linker log.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("failed to link program: %s", e.Log)
}
