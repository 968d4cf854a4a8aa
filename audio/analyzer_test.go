package audio

import (
	"errors"
	"math"
	"testing"
	"time"
)

func sine(freq float64, rate, n int, amp float32) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = amp * float32(math.Sin(2*math.Pi*freq*float64(i)/float64(rate)))
	}
	return out
}

func TestLevelSilence(t *testing.T) {
	a := newAnalyzer(nil)
	for i := 0; i < 10; i++ {
		a.Write(make([]float32, 1024))
		if got := a.Level(); got != 0 {
			t.Fatalf("Level() on silence = %v, want 0", got)
		}
	}
}

func TestLevelRisesWithLowTone(t *testing.T) {
	a := newAnalyzer(nil)
	a.Write(sine(172, 44100, historyBufferSize, 0.8))

	var level float64
	for i := 0; i < 50; i++ {
		level = a.Level()
	}
	if level <= 0.05 || level > 1 {
		t.Errorf("Level() for a 172 Hz tone = %v, want in (0.05, 1]", level)
	}
}

func TestLevelSmoothing(t *testing.T) {
	a := newAnalyzer(nil)
	a.Write(sine(172, 44100, historyBufferSize, 0.8))

	first := a.Level()
	second := a.Level()
	if !(second > first) {
		t.Errorf("Level() should rise while smoothing toward a steady tone: first=%v second=%v", first, second)
	}
}

func TestWriteWrapsHistory(t *testing.T) {
	a := newAnalyzer(nil)
	chunk := make([]float32, historyBufferSize+10)
	for i := range chunk {
		chunk[i] = float32(i)
	}
	a.Write(chunk)

	got := a.recentSamples(3)
	want := []float32{float32(len(chunk) - 3), float32(len(chunk) - 2), float32(len(chunk) - 1)}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("recentSamples(3) = %v, want %v", got, want)
		}
	}
}

func TestScaleDecibels(t *testing.T) {
	tests := []struct {
		db, want float64
	}{
		{-180, 0},
		{minDecibels, 0},
		{-65, 0.5},
		{maxDecibels, 1},
		{0, 1},
	}
	for _, tt := range tests {
		if got := scaleDecibels(tt.db); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("scaleDecibels(%v) = %v, want %v", tt.db, got, tt.want)
		}
	}
}

func TestBlackmanWindowShape(t *testing.T) {
	w := blackmanWindow(fftInputSize)
	if math.Abs(w[0]) > 1e-9 || math.Abs(w[len(w)-1]) > 1e-9 {
		t.Errorf("window endpoints = %v, %v, want 0", w[0], w[len(w)-1])
	}
	mid := w[len(w)/2]
	if mid < 0.99 || mid > 1.0 {
		t.Errorf("window centre = %v, want close to 1", mid)
	}
}

type fakeSource struct {
	startErr error
	samples  chan []float32
	stops    int
}

func (f *fakeSource) Start() (<-chan []float32, error) {
	if f.startErr != nil {
		return nil, f.startErr
	}
	return f.samples, nil
}

func (f *fakeSource) Stop() error {
	f.stops++
	return nil
}

func TestNewAnalyzerStopsSourceThatFailsToStart(t *testing.T) {
	startErr := errors.New("no input device")
	src := &fakeSource{startErr: startErr}

	a, err := NewAnalyzer(src)
	if !errors.Is(err, startErr) {
		t.Errorf("NewAnalyzer() error = %v, want %v", err, startErr)
	}
	if a != nil {
		t.Error("NewAnalyzer() returned an analyzer for a failed source")
	}
	if src.stops != 1 {
		t.Errorf("Stop() called %d times, want 1", src.stops)
	}
}

func TestNewAnalyzerListensToSource(t *testing.T) {
	src := &fakeSource{samples: make(chan []float32, 1)}
	a, err := NewAnalyzer(src)
	if err != nil {
		t.Fatalf("NewAnalyzer() error = %v", err)
	}

	src.samples <- []float32{0.25}
	close(src.samples)
	deadline := time.Now().Add(2 * time.Second)
	for a.recentSamples(1)[0] != 0.25 {
		if time.Now().After(deadline) {
			t.Fatal("samples from the source never reached the history buffer")
		}
		time.Sleep(time.Millisecond)
	}

	if err := a.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if src.stops != 1 {
		t.Errorf("Stop() called %d times, want 1", src.stops)
	}
}

func TestSilentAnalyzer(t *testing.T) {
	a := newAnalyzer(nil)
	if got := a.Level(); got != 0 {
		t.Errorf("Level() = %v, want 0", got)
	}
	if err := a.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
