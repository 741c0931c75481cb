package input

import (
	"testing"

	"github.com/veandco/go-sdl2/sdl"
)

func TestHandleKeys(t *testing.T) {
	in := New()

	in.handle(&sdl.KeyboardEvent{Type: sdl.KEYDOWN, Keysym: sdl.Keysym{Scancode: sdl.SCANCODE_W}})
	if !in.IsKeyPressed(sdl.SCANCODE_W) || !in.IsKeyHeld(sdl.SCANCODE_W) {
		t.Error("W should be pressed and held")
	}

	// Auto-repeat keeps the key held without another press event.
	in.events = in.events[:0]
	in.handle(&sdl.KeyboardEvent{Type: sdl.KEYDOWN, Repeat: 1, Keysym: sdl.Keysym{Scancode: sdl.SCANCODE_W}})
	if in.IsKeyPressed(sdl.SCANCODE_W) {
		t.Error("repeat should not count as a press")
	}
	if !in.IsKeyHeld(sdl.SCANCODE_W) {
		t.Error("W should still be held")
	}

	in.handle(&sdl.KeyboardEvent{Type: sdl.KEYUP, Keysym: sdl.Keysym{Scancode: sdl.SCANCODE_W}})
	if in.IsKeyHeld(sdl.SCANCODE_W) {
		t.Error("W should be released")
	}
}

func TestHandleMouse(t *testing.T) {
	in := New()

	in.handle(&sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONDOWN, Button: sdl.BUTTON_LEFT, X: 10, Y: 20})
	in.handle(&sdl.MouseMotionEvent{X: 15, Y: 18, XRel: 5, YRel: -2})
	in.handle(&sdl.MouseWheelEvent{Y: -1})

	if !in.IsButtonHeld(sdl.BUTTON_LEFT) {
		t.Error("left button should be held")
	}
	if x, y := in.MousePosition(); x != 15 || y != 18 {
		t.Errorf("mouse at %d,%d, want 15,18", x, y)
	}

	events := in.Events()
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	if e := events[1]; e.Type != EventMouseMove || e.DeltaX != 5 || e.DeltaY != -2 {
		t.Errorf("unexpected motion event %+v", e)
	}
	if e := events[2]; e.Type != EventMouseWheel || e.DeltaY != -1 {
		t.Errorf("unexpected wheel event %+v", e)
	}

	in.handle(&sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONUP, Button: sdl.BUTTON_LEFT})
	if in.IsButtonHeld(sdl.BUTTON_LEFT) {
		t.Error("left button should be released")
	}
}

func TestHandleQuitAndResize(t *testing.T) {
	in := New()

	if in.handle(&sdl.WindowEvent{Event: sdl.WINDOWEVENT_RESIZED, Data1: 800, Data2: 600}) {
		t.Error("resize should not quit")
	}
	if e := in.Events()[0]; e.Type != EventWindowResize || e.Width != 800 || e.Height != 600 {
		t.Errorf("unexpected resize event %+v", e)
	}
	if !in.handle(&sdl.QuitEvent{}) {
		t.Error("quit event should quit")
	}
}
