package ebitengine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/opd-ai/framepresent/buffer"
	"github.com/opd-ai/framepresent/worker"
)

// postTestFrame runs one frame through a queue so the backend receives a
// properly owned buffer, the way the worker delivers them.
func postTestFrame(d *Display, pixels []byte, w, h int) {
	q := buffer.New(1, len(pixels))
	q.Enqueue(pixels, w, h)
	q.DequeueForRender(d.PostFrame)
}

func TestPostFrameCopiesPixels(t *testing.T) {
	d := NewDisplay("test", 64, 64)

	pixels := make([]byte, 2*2*4)
	for i := range pixels {
		pixels[i] = 0xAB
	}
	postTestFrame(d, pixels, 2, 2)

	d.mu.Lock()
	img := d.uploaded
	d.mu.Unlock()
	if assert.NotNil(t, img) {
		assert.Equal(t, 2, img.Bounds().Dx())
		assert.Equal(t, byte(0xAB), img.Pix[0], "pixels copied out of the recycled buffer")
	}
}

func TestSwapPublishesUploadedFrame(t *testing.T) {
	d := NewDisplay("test", 64, 64)
	postTestFrame(d, make([]byte, 4), 1, 1)

	d.mu.Lock()
	shown := d.shown
	d.mu.Unlock()
	assert.Nil(t, shown, "nothing visible before the paced swap")

	d.SwapBuffers()

	d.mu.Lock()
	shown = d.shown
	d.mu.Unlock()
	assert.NotNil(t, shown, "swap publishes the composed frame")
}

func TestClearDropsPendingFrame(t *testing.T) {
	d := NewDisplay("test", 64, 64)
	postTestFrame(d, make([]byte, 4), 1, 1)
	d.Clear()
	d.SwapBuffers()

	d.mu.Lock()
	shown := d.shown
	d.mu.Unlock()
	assert.Nil(t, shown, "cleared backend publishes a blank surface")
}

func TestPostFrameFallsBackToDeclaredDimensions(t *testing.T) {
	d := NewDisplay("test", 64, 64)
	d.SetDimensions(2, 1)
	postTestFrame(d, make([]byte, 2*1*4), 0, 0)

	d.mu.Lock()
	img := d.uploaded
	d.mu.Unlock()
	if assert.NotNil(t, img) {
		assert.Equal(t, 2, img.Bounds().Dx())
		assert.Equal(t, 1, img.Bounds().Dy())
	}
}

func TestAspectFitTransform(t *testing.T) {
	tests := []struct {
		name       string
		viewW      float64
		viewH      float64
		frameW     float64
		frameH     float64
		integer    bool
		wantScale  float64
		wantOffset [2]float64
	}{
		{name: "fit_width", viewW: 400, viewH: 300, frameW: 200, frameH: 100, wantScale: 2, wantOffset: [2]float64{0, 50}},
		{name: "fit_height", viewW: 400, viewH: 100, frameW: 200, frameH: 100, wantScale: 1, wantOffset: [2]float64{100, 0}},
		{name: "integer_snaps_down", viewW: 500, viewH: 300, frameW: 200, frameH: 100, integer: true, wantScale: 2, wantOffset: [2]float64{50, 50}},
		{name: "downscale_not_snapped", viewW: 100, viewH: 100, frameW: 200, frameH: 100, integer: true, wantScale: 0.5, wantOffset: [2]float64{0, 25}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scale, ox, oy := aspectFitTransform(tt.viewW, tt.viewH, tt.frameW, tt.frameH, tt.integer)
			assert.InDelta(t, tt.wantScale, scale, 1e-9)
			assert.InDelta(t, tt.wantOffset[0], ox, 1e-9)
			assert.InDelta(t, tt.wantOffset[1], oy, 1e-9)
		})
	}
}

// Interface conformance.
var (
	_ worker.Backend = (*Display)(nil)
	_ worker.Surface = (*Display)(nil)
)
