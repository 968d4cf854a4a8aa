package audio

import (
	"fmt"
	"log"
	"math"
	"sync"

	fft "github.com/mjibson/go-dsp/fft"
)

const (
	fftInputSize      = 2048
	historyBufferSize = fftInputSize * 4
	// levelBins covers roughly 20-700 Hz at 44.1 kHz, where most of the
	// energy that reads as "beat" lives. Bin 0 (DC) is skipped.
	levelBins = 32

	minDecibels = -100.0
	maxDecibels = -30.0

	defaultSmoothing = 0.8
)

// Source delivers mono sample chunks until it is stopped. Stop must also be
// safe to call after a failed Start.
type Source interface {
	Start() (<-chan []float32, error)
	Stop() error
}

// Analyzer reduces the recent spectrum of a Source to a single loudness level
// in [0,1]. An Analyzer without a source stays silent.
type Analyzer struct {
	src           Source
	historyBuffer []float32
	bufferPos     int
	mutex         sync.Mutex

	window []float64
	// For temporal smoothing
	lastFFT         []float64
	smoothingFactor float64
}

// Open listens to the default microphone. When capture cannot be set up the
// returned Analyzer reports a level of 0.
func Open(sampleRate int) *Analyzer {
	mic, err := newMicrophone(sampleRate)
	if err != nil {
		log.Printf("Microphone unavailable, audio level stays at 0: %v", err)
		return newAnalyzer(nil)
	}
	a, err := NewAnalyzer(mic)
	if err != nil {
		log.Printf("Microphone unavailable, audio level stays at 0: %v", err)
		return newAnalyzer(nil)
	}
	log.Printf("Listening to microphone at %d Hz.", sampleRate)
	return a
}

// NewAnalyzer starts src and feeds it into the analyzer in the background.
// src is stopped again if it fails to start.
func NewAnalyzer(src Source) (*Analyzer, error) {
	samples, err := src.Start()
	if err != nil {
		if stopErr := src.Stop(); stopErr != nil {
			log.Printf("Failed to release audio source: %v", stopErr)
		}
		return nil, fmt.Errorf("could not start audio source: %w", err)
	}
	a := newAnalyzer(src)
	go a.listen(samples)
	return a, nil
}

func newAnalyzer(src Source) *Analyzer {
	a := &Analyzer{
		src:             src,
		historyBuffer:   make([]float32, historyBufferSize),
		window:          blackmanWindow(fftInputSize),
		lastFFT:         make([]float64, levelBins),
		smoothingFactor: defaultSmoothing,
	}
	for i := range a.lastFFT {
		a.lastFFT[i] = minDecibels
	}
	return a
}

func (a *Analyzer) listen(samples <-chan []float32) {
	for chunk := range samples {
		a.Write(chunk)
	}
}

// Write appends samples to the history ring.
func (a *Analyzer) Write(samples []float32) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	for _, sample := range samples {
		a.historyBuffer[a.bufferPos] = sample
		a.bufferPos = (a.bufferPos + 1) % historyBufferSize
	}
}

func (a *Analyzer) recentSamples(numSamples int) []float32 {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	out := make([]float32, numSamples)
	for i := 0; i < numSamples; i++ {
		index := (a.bufferPos - numSamples + i + historyBufferSize) % historyBufferSize
		out[i] = a.historyBuffer[index]
	}
	return out
}

// Level analyses the most recent samples and returns the smoothed loudness of
// the low band. It is meant to be called once per rendered frame.
func (a *Analyzer) Level() float64 {
	samples := a.recentSamples(fftInputSize)
	windowed := make([]float64, fftInputSize)
	for i, s := range samples {
		windowed[i] = float64(s) * a.window[i]
	}

	spectrum := fft.FFTReal(windowed)

	var sum float64
	for i := 1; i < levelBins; i++ {
		re := real(spectrum[i])
		im := imag(spectrum[i])
		magnitude := math.Sqrt(re*re+im*im) * (2.0 / float64(fftInputSize))
		db := 20 * math.Log10(magnitude+1e-9)

		a.lastFFT[i] = a.smoothingFactor*a.lastFFT[i] + (1.0-a.smoothingFactor)*db
		sum += scaleDecibels(a.lastFFT[i])
	}
	return sum / float64(levelBins-1)
}

// Close stops the source, if any.
func (a *Analyzer) Close() error {
	if a.src == nil {
		return nil
	}
	return a.src.Stop()
}

// scaleDecibels maps [minDecibels, maxDecibels] onto [0,1], clamping.
func scaleDecibels(db float64) float64 {
	switch {
	case db <= minDecibels:
		return 0
	case db >= maxDecibels:
		return 1
	default:
		return (db - minDecibels) / (maxDecibels - minDecibels)
	}
}

// blackmanWindow generates a Blackman window.
func blackmanWindow(size int) []float64 {
	window := make([]float64, size)
	a0 := 0.42
	a1 := 0.5
	a2 := 0.08
	invSize := 1.0 / float64(size-1)
	for i := range window {
		t := float64(i) * invSize
		window[i] = a0 - (a1 * math.Cos(2*math.Pi*t)) + (a2 * math.Cos(4*math.Pi*t))
	}
	return window
}
