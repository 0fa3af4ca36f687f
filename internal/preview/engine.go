package preview

import (
	"fmt"
	"math"
)

const (
	MinZoom  = 0.5
	MaxZoom  = 3.0
	ZoomStep = 0.2
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point) Sub(o Point) Point { return Point{X: p.X - o.X, Y: p.Y - o.Y} }

func distance(a, b Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Hypot(dx, dy)
}

// Engine tracks the zoom and pan state of a single previewed image.
// It is a plain state machine: callers feed it pointer events and read
// the resulting transform. It is not safe for concurrent use; each
// preview session owns exactly one engine.
type Engine struct {
	Zoom      float64
	Pan       Point
	IsPanning bool

	gestureOrigin Point

	pinchActive   bool
	pinchDistance float64
	pinchZoom     float64
}

func NewEngine() *Engine {
	e := &Engine{}
	e.Reset()
	return e
}

// Reset returns the engine to its rest state.
func (e *Engine) Reset() {
	e.Zoom = 1.0
	e.Pan = Point{}
	e.IsPanning = false
	e.pinchActive = false
	e.pinchDistance = 0
	e.pinchZoom = 0
}

func clampZoom(z float64) float64 {
	if z < MinZoom {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	return z
}

func (e *Engine) setZoom(z float64) {
	e.Zoom = clampZoom(z)
	// An image at rest zoom fits the viewport; an off-center pan would
	// leave it stuck there.
	if e.Zoom <= 1.0 {
		e.Pan = Point{}
	}
}

func (e *Engine) ZoomIn()  { e.setZoom(e.Zoom + ZoomStep) }
func (e *Engine) ZoomOut() { e.setZoom(e.Zoom - ZoomStep) }

// PointerDown starts a pan gesture. Panning only applies once the image
// exceeds the viewport.
func (e *Engine) PointerDown(p Point) {
	if e.pinchActive || e.Zoom <= 1.0 {
		return
	}
	e.IsPanning = true
	e.gestureOrigin = p.Sub(e.Pan)
}

func (e *Engine) PointerMove(p Point) {
	if !e.IsPanning || e.pinchActive {
		return
	}
	e.Pan = p.Sub(e.gestureOrigin)
}

// PointerUp ends a pan gesture. Pointer-leave maps to the same call.
func (e *Engine) PointerUp() {
	e.IsPanning = false
}

// PinchStart captures the reference distance and zoom for a two-finger
// gesture. Panning is suspended until PinchEnd.
func (e *Engine) PinchStart(a, b Point) {
	d := distance(a, b)
	if d == 0 {
		return
	}
	e.pinchActive = true
	e.IsPanning = false
	e.pinchDistance = d
	e.pinchZoom = e.Zoom
}

func (e *Engine) PinchMove(a, b Point) {
	if !e.pinchActive || e.pinchDistance == 0 {
		return
	}
	scale := distance(a, b) / e.pinchDistance
	e.setZoom(e.pinchZoom * scale)
}

func (e *Engine) PinchEnd() {
	e.pinchActive = false
	e.pinchDistance = 0
	e.pinchZoom = 0
}

// Transform renders the CSS transform clients apply to the image:
// translation in screen pixels first, then scale, matching how the pan
// offsets were computed from raw pointer deltas.
func (e *Engine) Transform() string {
	return fmt.Sprintf("translate(%gpx, %gpx) scale(%g)", e.Pan.X, e.Pan.Y, e.Zoom)
}
