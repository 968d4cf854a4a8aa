package pointer

// Smoothing is the fraction of the remaining distance to the target that the
// smoothed position covers on every frame.
const Smoothing = 0.5

// State tracks the pointer in client (logical) pixels. TX and TY hold the most
// recent raw position reported by any input source; X and Y trail behind them
// and are advanced once per frame by Step.
type State struct {
	X, Y   float64
	TX, TY float64
}

// SetTarget records a raw pointer position. Later calls overwrite earlier ones.
func (s *State) SetTarget(x, y float64) {
	s.TX = x
	s.TY = y
}

// Step moves the smoothed position halfway toward the target and returns it.
func (s *State) Step() (float64, float64) {
	s.X += (s.TX - s.X) * Smoothing
	s.Y += (s.TY - s.Y) * Smoothing
	return s.X, s.Y
}
