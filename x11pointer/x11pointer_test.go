package x11pointer

import "testing"

func TestToClient(t *testing.T) {
	tests := []struct {
		rootX, rootY, winX, winY int
		scale                    float64
		wantX, wantY             float64
	}{
		{500, 400, 0, 0, 1, 500, 400},
		{500, 400, 100, 50, 1, 400, 350},
		{1000, 800, 200, 0, 0.5, 400, 400},
		{10, 10, 100, 100, 1, -90, -90},
	}
	for _, tt := range tests {
		x, y := ToClient(tt.rootX, tt.rootY, tt.winX, tt.winY, tt.scale)
		if x != tt.wantX || y != tt.wantY {
			t.Errorf("ToClient(%d, %d, %d, %d, %v) = (%v, %v), want (%v, %v)",
				tt.rootX, tt.rootY, tt.winX, tt.winY, tt.scale, x, y, tt.wantX, tt.wantY)
		}
	}
}
