// Package x11pointer reads the global pointer position from the X server.
//
// A background window (desktop wallpaper, window below everything else)
// never receives pointer events of its own, so the pointer is polled from the
// root window once per frame instead.
package x11pointer

import (
	"fmt"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// Window describes where the rendered window sits on screen.
type Window interface {
	// WindowPos returns the client-area origin in screen coordinates.
	WindowPos() (int, int)
	// ClientScale converts screen coordinates to logical pixels.
	ClientScale() float64
}

// Source polls the X server for the pointer position relative to a window.
type Source struct {
	conn   *xgb.Conn
	root   xproto.Window
	window Window

	lastX, lastY int
	seen         bool
}

// New connects to the display named by $DISPLAY.
func New(window Window) (*Source, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X server: %w", err)
	}
	setup := xproto.Setup(conn)
	return &Source{
		conn:   conn,
		root:   setup.DefaultScreen(conn).Root,
		window: window,
	}, nil
}

// RootPosition returns the pointer position on the root window.
func (s *Source) RootPosition() (int, int, error) {
	reply, err := xproto.QueryPointer(s.conn, s.root).Reply()
	if err != nil {
		return 0, 0, err
	}
	return int(reply.RootX), int(reply.RootY), nil
}

// Poll returns the pointer in the window's client space. ok is false when the
// pointer has not moved since the previous poll or the query failed.
func (s *Source) Poll() (x, y float64, ok bool) {
	rootX, rootY, err := s.RootPosition()
	if err != nil {
		return 0, 0, false
	}
	if s.seen && rootX == s.lastX && rootY == s.lastY {
		return 0, 0, false
	}
	s.lastX, s.lastY, s.seen = rootX, rootY, true

	winX, winY := s.window.WindowPos()
	x, y = ToClient(rootX, rootY, winX, winY, s.window.ClientScale())
	return x, y, true
}

// Close releases the X connection.
func (s *Source) Close() {
	s.conn.Close()
}

// ToClient converts a root-window position to client-space logical pixels.
func ToClient(rootX, rootY, winX, winY int, scale float64) (float64, float64) {
	return float64(rootX-winX) * scale, float64(rootY-winY) * scale
}
