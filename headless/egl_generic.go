//go:build !linux

package headless

import (
	"fmt"

	"github.com/richinsley/goneuro/graphics"
)

// NewHeadless is unavailable off linux; callers fall back to a hidden window.
func NewHeadless(width, height int, pixelRatio float64) (graphics.Context, error) {
	return nil, fmt.Errorf("egl headless rendering is not supported on this platform")
}
