package renderer

import (
	"fmt"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"
)

// numPBOs is the depth of the readback ring. Pixels for a frame are mapped
// numPBOs-1 frames after they were requested, so the GPU copy overlaps the
// next render.
const numPBOs = 2

// Surface is the drawing surface the background is rendered into. Its size is
// the backing-store size, which may be smaller than the window framebuffer it
// is presented to.
type Surface struct {
	fbo       uint32
	textureID uint32
	width     int
	height    int

	pbos     []uint32
	pboIndex int
	pending  int
}

func NewSurface(width, height int) (*Surface, error) {
	s := &Surface{}
	gl.GenFramebuffers(1, &s.fbo)
	gl.GenTextures(1, &s.textureID)
	gl.BindTexture(gl.TEXTURE_2D, s.textureID)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if err := s.Resize(width, height); err != nil {
		s.Destroy()
		return nil, err
	}
	return s, nil
}

// Resize reallocates the colour buffer. Contents are undefined afterwards.
func (s *Surface) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid surface size %dx%d", width, height)
	}
	s.width = width
	s.height = height

	gl.BindTexture(gl.TEXTURE_2D, s.textureID)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	gl.BindFramebuffer(gl.FRAMEBUFFER, s.fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, s.textureID, 0)
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		return fmt.Errorf("drawing surface fbo is not complete (status 0x%x)", status)
	}

	if len(s.pbos) > 0 {
		s.allocatePBOs()
	}
	return nil
}

func (s *Surface) Size() (int, int) {
	return s.width, s.height
}

func (s *Surface) BindForWriting() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, s.fbo)
	gl.Viewport(0, 0, int32(s.width), int32(s.height))
}

func (s *Surface) UnbindForWriting() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

// EnableReadback creates the pixel pack buffers used by QueueRead.
func (s *Surface) EnableReadback() {
	if len(s.pbos) > 0 {
		return
	}
	s.pbos = make([]uint32, numPBOs)
	gl.GenBuffers(int32(len(s.pbos)), &s.pbos[0])
	s.allocatePBOs()
}

func (s *Surface) allocatePBOs() {
	bufferSize := s.width * s.height * 4
	for _, pbo := range s.pbos {
		gl.BindBuffer(gl.PIXEL_PACK_BUFFER, pbo)
		gl.BufferData(gl.PIXEL_PACK_BUFFER, bufferSize, nil, gl.STREAM_READ)
	}
	gl.BindBuffer(gl.PIXEL_PACK_BUFFER, 0)
	s.pboIndex = 0
	s.pending = 0
}

// QueueRead starts an asynchronous copy of the current contents. When the ring
// is full the oldest queued frame is mapped and returned; otherwise pixels is
// nil. Rows are bottom-up RGBA.
func (s *Surface) QueueRead() (pixels []byte, err error) {
	if s.pending == len(s.pbos) {
		if pixels, err = s.mapOldest(); err != nil {
			return nil, err
		}
	}

	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, s.fbo)
	gl.ReadBuffer(gl.COLOR_ATTACHMENT0)
	gl.BindBuffer(gl.PIXEL_PACK_BUFFER, s.pbos[s.pboIndex])
	gl.ReadPixels(0, 0, int32(s.width), int32(s.height), gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.BindBuffer(gl.PIXEL_PACK_BUFFER, 0)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)

	s.pboIndex = (s.pboIndex + 1) % len(s.pbos)
	s.pending++
	return pixels, nil
}

// Drain maps every queued frame in order.
func (s *Surface) Drain() ([][]byte, error) {
	var frames [][]byte
	for s.pending > 0 {
		pixels, err := s.mapOldest()
		if err != nil {
			return frames, err
		}
		frames = append(frames, pixels)
	}
	return frames, nil
}

func (s *Surface) mapOldest() ([]byte, error) {
	oldest := (s.pboIndex - s.pending + len(s.pbos)) % len(s.pbos)
	bufferSize := s.width * s.height * 4

	gl.BindBuffer(gl.PIXEL_PACK_BUFFER, s.pbos[oldest])
	ptr := gl.MapBufferRange(gl.PIXEL_PACK_BUFFER, 0, bufferSize, gl.MAP_READ_BIT)
	if ptr == nil {
		gl.BindBuffer(gl.PIXEL_PACK_BUFFER, 0)
		return nil, fmt.Errorf("failed to map PBO %d", oldest)
	}
	pixels := make([]byte, bufferSize)
	copy(pixels, unsafe.Slice((*byte)(ptr), bufferSize))
	gl.UnmapBuffer(gl.PIXEL_PACK_BUFFER)
	gl.BindBuffer(gl.PIXEL_PACK_BUFFER, 0)

	s.pending--
	return pixels, nil
}

func (s *Surface) Destroy() {
	gl.DeleteFramebuffers(1, &s.fbo)
	gl.DeleteTextures(1, &s.textureID)
	if len(s.pbos) > 0 {
		gl.DeleteBuffers(int32(len(s.pbos)), &s.pbos[0])
		s.pbos = nil
	}
}
