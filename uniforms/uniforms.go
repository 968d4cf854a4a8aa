// Package uniforms discovers the active uniforms of a linked shader program
// once, so values can be pushed every frame without name lookups.
package uniforms

import (
	"sort"
	"strings"
)

// Program exposes the introspection a linked program offers.
type Program interface {
	// ActiveUniforms returns the driver-reported names of all active uniforms.
	ActiveUniforms() []string
	// Location resolves a driver-reported name to a location, or -1.
	Location(name string) int32
}

// Setter pushes values into the currently bound program.
type Setter interface {
	Uniform1f(location int32, v float32)
	Uniform2f(location int32, v0, v1 float32)
}

// Table maps declared uniform names to locations. It is not modified after
// Discover returns.
type Table struct {
	locations map[string]int32
}

// Discover enumerates the active uniforms of p. declared maps a driver name
// back to the name written in the shader source and may be nil when the
// source was compiled untranslated.
func Discover(p Program, declared func(string) string) *Table {
	t := &Table{locations: make(map[string]int32)}
	for _, name := range p.ActiveUniforms() {
		if strings.HasPrefix(name, "gl_") {
			continue
		}
		loc := p.Location(name)
		if loc < 0 {
			continue
		}
		key := strings.TrimSuffix(name, "[0]")
		if declared != nil {
			key = declared(key)
		}
		t.locations[key] = loc
	}
	return t
}

// Lookup returns the location of a declared uniform.
func (t *Table) Lookup(name string) (int32, bool) {
	loc, ok := t.locations[name]
	return loc, ok
}

// Len returns the number of discovered uniforms.
func (t *Table) Len() int {
	return len(t.locations)
}

// Names returns the discovered uniform names in sorted order.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.locations))
	for name := range t.locations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Set1f pushes a float. Uniforms the program does not declare are ignored and
// reported as false.
func (t *Table) Set1f(s Setter, name string, v float32) bool {
	loc, ok := t.locations[name]
	if !ok {
		return false
	}
	s.Uniform1f(loc, v)
	return true
}

// Set2f pushes a vec2, ignoring undeclared uniforms like Set1f.
func (t *Table) Set2f(s Setter, name string, v0, v1 float32) bool {
	loc, ok := t.locations[name]
	if !ok {
		return false
	}
	s.Uniform2f(loc, v0, v1)
	return true
}
