package preview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_InitialState(t *testing.T) {
	t.Parallel()

	e := NewEngine()
	assert.Equal(t, 1.0, e.Zoom)
	assert.Equal(t, Point{}, e.Pan)
	assert.False(t, e.IsPanning)
	assert.Equal(t, "translate(0px, 0px) scale(1)", e.Transform())
}

func TestEngine_ZoomClamping(t *testing.T) {
	t.Parallel()

	e := NewEngine()
	for i := 0; i < 50; i++ {
		e.ZoomIn()
		assert.LessOrEqual(t, e.Zoom, MaxZoom)
	}
	assert.InDelta(t, MaxZoom, e.Zoom, 1e-9)

	for i := 0; i < 50; i++ {
		e.ZoomOut()
		assert.GreaterOrEqual(t, e.Zoom, MinZoom)
	}
	assert.InDelta(t, MinZoom, e.Zoom, 1e-9)
}

func TestEngine_PanOnlyWhenZoomedIn(t *testing.T) {
	t.Parallel()

	e := NewEngine()

	// at rest zoom pointer input does nothing
	e.PointerDown(Point{X: 10, Y: 10})
	assert.False(t, e.IsPanning)
	e.PointerMove(Point{X: 50, Y: 50})
	assert.Equal(t, Point{}, e.Pan)

	// zoomed in, deltas accumulate relative to the gesture origin
	e.ZoomIn() // 1.2
	e.PointerDown(Point{X: 10, Y: 10})
	require.True(t, e.IsPanning)
	e.PointerMove(Point{X: 30, Y: 50})
	assert.Equal(t, Point{X: 20, Y: 40}, e.Pan)

	e.PointerUp()
	assert.False(t, e.IsPanning)
	// pan keeps its value after the gesture ends
	assert.Equal(t, Point{X: 20, Y: 40}, e.Pan)

	// a new gesture continues from the existing offset
	e.PointerDown(Point{X: 100, Y: 100})
	e.PointerMove(Point{X: 110, Y: 100})
	assert.Equal(t, Point{X: 30, Y: 40}, e.Pan)
}

func TestEngine_PanResetsAtRestZoom(t *testing.T) {
	t.Parallel()

	e := NewEngine()
	e.ZoomIn() // 1.2
	e.ZoomIn() // 1.4
	e.PointerDown(Point{X: 0, Y: 0})
	e.PointerMove(Point{X: 25, Y: -15})
	e.PointerUp()
	require.NotEqual(t, Point{}, e.Pan)

	// stepping back down through 1.0 clears the offset
	e.ZoomOut() // 1.2
	assert.NotEqual(t, Point{}, e.Pan)
	e.ZoomOut() // 1.0
	assert.Equal(t, Point{}, e.Pan)
}

func TestEngine_PinchScalesFromGestureStart(t *testing.T) {
	t.Parallel()

	e := NewEngine()
	e.ZoomIn() // 1.2

	// fingers 100px apart, spread to 150px: zoom = 1.2 * 1.5
	e.PinchStart(Point{X: 0, Y: 0}, Point{X: 100, Y: 0})
	e.PinchMove(Point{X: 0, Y: 0}, Point{X: 150, Y: 0})
	assert.InDelta(t, 1.8, e.Zoom, 1e-9)

	// the reference stays the gesture start, not the previous frame
	e.PinchMove(Point{X: 0, Y: 0}, Point{X: 200, Y: 0})
	assert.InDelta(t, 2.4, e.Zoom, 1e-9)

	e.PinchEnd()
	assert.InDelta(t, 2.4, e.Zoom, 1e-9)
}

func TestEngine_PinchClampsAndResetsPan(t *testing.T) {
	t.Parallel()

	e := NewEngine()
	e.ZoomIn()
	e.ZoomIn() // 1.4
	e.PointerDown(Point{X: 0, Y: 0})
	e.PointerMove(Point{X: 40, Y: 40})
	e.PointerUp()
	require.NotEqual(t, Point{}, e.Pan)

	// spread far beyond the cap
	e.PinchStart(Point{X: 0, Y: 0}, Point{X: 10, Y: 0})
	e.PinchMove(Point{X: 0, Y: 0}, Point{X: 1000, Y: 0})
	assert.InDelta(t, MaxZoom, e.Zoom, 1e-9)

	// pinch all the way back down: clamped at the floor, pan cleared
	e.PinchMove(Point{X: 0, Y: 0}, Point{X: 1, Y: 0})
	assert.InDelta(t, MinZoom, e.Zoom, 1e-9)
	assert.Equal(t, Point{}, e.Pan)
}

func TestEngine_PinchSuspendsPanning(t *testing.T) {
	t.Parallel()

	e := NewEngine()
	e.ZoomIn() // 1.2
	e.PointerDown(Point{X: 0, Y: 0})
	require.True(t, e.IsPanning)

	e.PinchStart(Point{X: 0, Y: 0}, Point{X: 100, Y: 0})
	assert.False(t, e.IsPanning)

	// single-pointer input is ignored for the duration of the pinch
	e.PointerMove(Point{X: 500, Y: 500})
	assert.Equal(t, Point{}, e.Pan)
}

func TestEngine_ZeroDistancePinchIgnored(t *testing.T) {
	t.Parallel()

	e := NewEngine()
	e.PinchStart(Point{X: 5, Y: 5}, Point{X: 5, Y: 5})
	e.PinchMove(Point{X: 0, Y: 0}, Point{X: 100, Y: 0})
	assert.Equal(t, 1.0, e.Zoom)
}

func TestEngine_Reset(t *testing.T) {
	t.Parallel()

	e := NewEngine()
	e.ZoomIn()
	e.ZoomIn()
	e.PointerDown(Point{X: 0, Y: 0})
	e.PointerMove(Point{X: 10, Y: 10})

	e.Reset()
	assert.Equal(t, 1.0, e.Zoom)
	assert.Equal(t, Point{}, e.Pan)
	assert.False(t, e.IsPanning)
}
