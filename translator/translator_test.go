package translator

import (
	"context"
	"regexp"
	"testing"

	"github.com/richinsley/goneuro/shader"
)

func TestNameMap(t *testing.T) {
	m := NewNameMap(map[string]string{
		"u_time":     "_uu_time",
		"a_position": "_ua_position",
		"u_blank":    "",
	})

	tests := []struct {
		mapped, declared string
	}{
		{"_uu_time", "u_time"},
		{"_ua_position", "a_position"},
		{"u_unknown", "u_unknown"},
	}
	for _, tt := range tests {
		if got := m.Declared(tt.mapped); got != tt.declared {
			t.Errorf("Declared(%q) = %q, want %q", tt.mapped, got, tt.declared)
		}
		if got := m.Mapped(tt.declared); got != tt.mapped {
			t.Errorf("Mapped(%q) = %q, want %q", tt.declared, got, tt.mapped)
		}
	}
	if got := m.Mapped("u_blank"); got != "u_blank" {
		t.Errorf("Mapped(u_blank) = %q, want identity for an empty mapping", got)
	}
}

func TestTranslatePassesThroughDesktopSources(t *testing.T) {
	src := shader.PresentSources(false)
	p, err := Translate(context.Background(), src, false)
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if p.Vertex != src.Vertex || p.Fragment != src.Fragment {
		t.Error("desktop GLSL sources should not be rewritten")
	}
	if got := p.Declared("u_texture"); got != "u_texture" {
		t.Errorf("Declared(u_texture) = %q, want u_texture", got)
	}
}

func TestTranslateDefaultSourcesNameRoundTrip(t *testing.T) {
	ctx := context.Background()
	if _, err := GetTranslator(ctx); err != nil {
		t.Skipf("shader translator unavailable: %v", err)
	}

	p, err := Translate(ctx, shader.Default(), false)
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}

	names := []struct {
		declared string
		code     string
	}{
		{shader.AttribPosition, p.Vertex},
		{shader.UniformTime, p.Fragment},
		{shader.UniformRatio, p.Fragment},
		{shader.UniformPointerPosition, p.Fragment},
		{shader.UniformScrollProgress, p.Fragment},
	}
	for _, n := range names {
		mapped := p.Mapped(n.declared)
		if got := p.Declared(mapped); got != n.declared {
			t.Errorf("Declared(Mapped(%q)) = %q, want %q", n.declared, got, n.declared)
		}
		ident := regexp.MustCompile(`\b` + regexp.QuoteMeta(mapped) + `\b`)
		if !ident.MatchString(n.code) {
			t.Errorf("translated source has no identifier %q for %q", mapped, n.declared)
		}
	}
}
