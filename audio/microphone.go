package audio

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
)

// microphone captures the default input device as mono chunks. Building it
// needs the portaudio headers (portaudio19-dev on debian, portaudio on brew).
type microphone struct {
	rate    int
	stream  *portaudio.Stream
	samples chan []float32
}

func newMicrophone(rate int) (*microphone, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize portaudio: %w", err)
	}
	return &microphone{rate: rate}, nil
}

func (m *microphone) Start() (<-chan []float32, error) {
	m.samples = make(chan []float32, 16)
	stream, err := portaudio.OpenDefaultStream(1, 0, float64(m.rate), 0, m.capture)
	if err != nil {
		return nil, fmt.Errorf("failed to open input stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return nil, fmt.Errorf("failed to start input stream: %w", err)
	}
	m.stream = stream
	return m.samples, nil
}

// capture runs on the portaudio thread. Chunks the analyzer has not caught up
// with are dropped; only the most recent window matters for the level.
func (m *microphone) capture(in []float32) {
	chunk := append([]float32(nil), in...)
	select {
	case m.samples <- chunk:
	default:
	}
}

// Stop closes the stream and releases portaudio.
func (m *microphone) Stop() error {
	var err error
	if m.stream != nil {
		err = m.stream.Stop()
		if closeErr := m.stream.Close(); err == nil {
			err = closeErr
		}
		m.stream = nil
		close(m.samples)
	}
	if termErr := portaudio.Terminate(); err == nil {
		err = termErr
	}
	return err
}
