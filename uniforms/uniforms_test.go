package uniforms

import (
	"reflect"
	"strings"
	"testing"
)

type fakeProgram struct {
	names     []string
	locations map[string]int32
}

func (p *fakeProgram) ActiveUniforms() []string { return p.names }

func (p *fakeProgram) Location(name string) int32 {
	if loc, ok := p.locations[name]; ok {
		return loc
	}
	return -1
}

type call struct {
	loc    int32
	values []float32
}

type recordingSetter struct {
	calls []call
}

func (s *recordingSetter) Uniform1f(loc int32, v float32) {
	s.calls = append(s.calls, call{loc, []float32{v}})
}

func (s *recordingSetter) Uniform2f(loc int32, v0, v1 float32) {
	s.calls = append(s.calls, call{loc, []float32{v0, v1}})
}

func neuroProgram() *fakeProgram {
	return &fakeProgram{
		names: []string{"u_time", "u_ratio", "u_pointer_position", "u_scroll_progress"},
		locations: map[string]int32{
			"u_time":             0,
			"u_ratio":            1,
			"u_pointer_position": 2,
			"u_scroll_progress":  3,
		},
	}
}

func TestDiscoverOneEntryPerActiveUniform(t *testing.T) {
	table := Discover(neuroProgram(), nil)

	want := []string{"u_pointer_position", "u_ratio", "u_scroll_progress", "u_time"}
	if got := table.Names(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
	if table.Len() != 4 {
		t.Errorf("Len() = %d, want 4", table.Len())
	}
	if loc, ok := table.Lookup("u_ratio"); !ok || loc != 1 {
		t.Errorf("Lookup(u_ratio) = %d, %v, want 1, true", loc, ok)
	}
	if _, ok := table.Lookup("u_color"); ok {
		t.Error("Lookup(u_color) found a uniform the program does not declare")
	}
}

func TestDiscoverEmpty(t *testing.T) {
	table := Discover(&fakeProgram{}, nil)
	if table.Len() != 0 {
		t.Errorf("Len() = %d, want 0", table.Len())
	}
	if names := table.Names(); len(names) != 0 {
		t.Errorf("Names() = %v, want empty", names)
	}
}

func TestDiscoverSkipsBuiltinsAndInactive(t *testing.T) {
	p := &fakeProgram{
		names:     []string{"gl_DepthRange.near", "u_time", "u_unbound", "u_weights[0]"},
		locations: map[string]int32{"gl_DepthRange.near": 9, "u_time": 4, "u_weights[0]": 6},
	}
	table := Discover(p, nil)

	want := []string{"u_time", "u_weights"}
	if got := table.Names(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
}

func TestDiscoverMapsTranslatedNames(t *testing.T) {
	p := &fakeProgram{
		names:     []string{"_uu_time", "_uu_ratio"},
		locations: map[string]int32{"_uu_time": 7, "_uu_ratio": 8},
	}
	table := Discover(p, func(name string) string {
		return strings.TrimPrefix(name, "_u")
	})

	if loc, ok := table.Lookup("u_time"); !ok || loc != 7 {
		t.Errorf("Lookup(u_time) = %d, %v, want 7, true", loc, ok)
	}
	if _, ok := table.Lookup("_uu_time"); ok {
		t.Error("table should be keyed by declared names")
	}
}

func TestSetPushesByLocation(t *testing.T) {
	table := Discover(neuroProgram(), nil)
	s := &recordingSetter{}

	if !table.Set1f(s, "u_time", 1500) {
		t.Error("Set1f(u_time) = false, want true")
	}
	if !table.Set2f(s, "u_pointer_position", 0.25, 0.75) {
		t.Error("Set2f(u_pointer_position) = false, want true")
	}

	want := []call{
		{0, []float32{1500}},
		{2, []float32{0.25, 0.75}},
	}
	if !reflect.DeepEqual(s.calls, want) {
		t.Errorf("calls = %v, want %v", s.calls, want)
	}
}

func TestSetMissingUniformIsNoop(t *testing.T) {
	p := neuroProgram()
	p.names = []string{"u_time"}
	table := Discover(p, nil)
	s := &recordingSetter{}

	if table.Set2f(s, "u_pointer_position", 1, 1) {
		t.Error("Set2f on an undeclared uniform reported success")
	}
	if table.Set1f(s, "u_scroll_progress", 2) {
		t.Error("Set1f on an undeclared uniform reported success")
	}
	if len(s.calls) != 0 {
		t.Errorf("setter received %d calls, want 0", len(s.calls))
	}
}
