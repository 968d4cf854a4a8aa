// Package viewport holds the host geometry signals the renderer reacts to and
// the arithmetic that turns them into surface sizes and uniform values.
package viewport

import "math"

// MaxPixelRatio caps the device pixel ratio used to size the drawing surface.
// Displays denser than this are rendered at this ratio and scaled up.
const MaxPixelRatio = 2.0

// Viewport is a snapshot of the host window in logical (client) pixels.
type Viewport struct {
	Width      float64
	Height     float64
	PixelRatio float64
	ScrollY    float64
}

// PixelRatioCapped returns min(PixelRatio, MaxPixelRatio). A missing or
// non-positive ratio counts as 1.
func (v Viewport) PixelRatioCapped() float64 {
	if v.PixelRatio <= 0 || math.IsNaN(v.PixelRatio) {
		return 1
	}
	return math.Min(v.PixelRatio, MaxPixelRatio)
}

// BackingSize returns the drawing surface size in physical pixels.
func (v Viewport) BackingSize() (int, int) {
	r := v.PixelRatioCapped()
	return BackingSize(v.Width, r), BackingSize(v.Height, r)
}

// BackingSize scales a logical dimension by a device pixel ratio capped at
// MaxPixelRatio, truncating to whole pixels.
func BackingSize(dim, pixelRatio float64) int {
	if pixelRatio > MaxPixelRatio {
		pixelRatio = MaxPixelRatio
	}
	px := math.Floor(dim * pixelRatio)
	if px < 0 {
		return 0
	}
	return int(px)
}

// AspectRatio returns width/height, or 1 for a degenerate surface.
func AspectRatio(width, height int) float64 {
	if width <= 0 || height <= 0 {
		return 1
	}
	return float64(width) / float64(height)
}

// ScrollProgress returns scrollY / (2*height). The result is not clamped and
// passes 1 once the offset exceeds two viewport heights.
func (v Viewport) ScrollProgress() float64 {
	if v.Height <= 0 {
		return 0
	}
	return v.ScrollY / (2 * v.Height)
}

// NormalizePointer maps a client-space position to [0,1] with Y pointing up.
func (v Viewport) NormalizePointer(x, y float64) (float64, float64) {
	if v.Width <= 0 || v.Height <= 0 {
		return 0, 1
	}
	return x / v.Width, 1 - y/v.Height
}

// Resized reports whether the surface must be reallocated to go from v to o.
func (v Viewport) Resized(o Viewport) bool {
	return v.Width != o.Width || v.Height != o.Height || v.PixelRatioCapped() != o.PixelRatioCapped()
}
