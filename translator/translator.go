package translator

import (
	"context"
	"fmt"
	"sync"

	"github.com/richinsley/goneuro/shader"
	gst "github.com/richinsley/goshadertranslator"
)

var (
	translator     *gst.ShaderTranslator
	translatorErr  error
	translatorOnce sync.Once
)

// GetTranslator returns the process-wide shader translator, creating it on
// first use.
func GetTranslator(ctx context.Context) (*gst.ShaderTranslator, error) {
	translatorOnce.Do(func() {
		translator, translatorErr = gst.NewShaderTranslator(ctx)
	})
	return translator, translatorErr
}

// Program holds driver-ready sources and the renaming the translator applied
// to their variables.
type Program struct {
	Vertex   string
	Fragment string
	names    *NameMap
}

// Declared maps a driver-visible name back to the name the shader source declares.
func (p *Program) Declared(name string) string {
	return p.names.Declared(name)
}

// Mapped returns the driver-visible name of a declared variable.
func (p *Program) Mapped(name string) string {
	return p.names.Mapped(name)
}

// Translate converts WebGL 2 sources into what the current context accepts:
// GLSL 4.10 on desktop, ESSL on GLES. Stages that already target the driver
// are passed through with their names unchanged.
func Translate(ctx context.Context, src shader.Sources, isGLES bool) (*Program, error) {
	p := &Program{Vertex: src.Vertex, Fragment: src.Fragment, names: NewNameMap(nil)}
	if !shader.IsWebGL(src.Vertex) && !shader.IsWebGL(src.Fragment) {
		return p, nil
	}

	t, err := GetTranslator(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader translator: %w", err)
	}

	outputFormat := gst.OutputFormatGLSL410
	if isGLES {
		outputFormat = gst.OutputFormatESSL
	}

	renamed := make(map[string]string)
	if shader.IsWebGL(src.Vertex) {
		vs, err := t.TranslateShader(src.Vertex, "vertex", gst.ShaderSpecWebGL2, outputFormat)
		if err != nil {
			return nil, fmt.Errorf("vertex shader translation failed: %w", err)
		}
		p.Vertex = vs.Code
		for name, v := range vs.Variables {
			renamed[name] = v.MappedName
		}
	}
	if shader.IsWebGL(src.Fragment) {
		fs, err := t.TranslateShader(src.Fragment, "fragment", gst.ShaderSpecWebGL2, outputFormat)
		if err != nil {
			return nil, fmt.Errorf("fragment shader translation failed: %w", err)
		}
		p.Fragment = fs.Code
		for name, v := range fs.Variables {
			renamed[name] = v.MappedName
		}
	}
	p.names = NewNameMap(renamed)
	return p, nil
}

// NameMap is a two-way mapping between declared and translated names. Names
// it does not know map to themselves.
type NameMap struct {
	toMapped   map[string]string
	toDeclared map[string]string
}

// NewNameMap builds a NameMap from declared -> mapped pairs.
func NewNameMap(declaredToMapped map[string]string) *NameMap {
	m := &NameMap{
		toMapped:   make(map[string]string, len(declaredToMapped)),
		toDeclared: make(map[string]string, len(declaredToMapped)),
	}
	for declared, mapped := range declaredToMapped {
		if mapped == "" {
			continue
		}
		m.toMapped[declared] = mapped
		m.toDeclared[mapped] = declared
	}
	return m
}

func (m *NameMap) Declared(name string) string {
	if d, ok := m.toDeclared[name]; ok {
		return d
	}
	return name
}

func (m *NameMap) Mapped(name string) string {
	if v, ok := m.toMapped[name]; ok {
		return v
	}
	return name
}
