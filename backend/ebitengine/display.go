package ebitengine

import (
	"image"
	"math"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/opd-ai/framepresent/buffer"
	"github.com/opd-ai/framepresent/worker"
)

// Display implements worker.Backend and worker.Surface on Ebitengine.
type Display struct {
	title   string
	windowW int
	windowH int

	mu       sync.Mutex
	cfg      worker.RenderConfig
	frameW   int
	frameH   int
	uploaded *image.RGBA // last frame posted by the worker
	shown    *image.RGBA // frame published by the last swap

	tex *ebiten.Image
}

// NewDisplay creates an Ebitengine display with the given window title
// and initial size.
func NewDisplay(title string, width, height int) *Display {
	return &Display{title: title, windowW: width, windowH: height}
}

// Run starts the Ebitengine game loop. Must be called from the main
// goroutine and blocks until the window closes.
func (d *Display) Run() error {
	ebiten.SetWindowSize(d.windowW, d.windowH)
	ebiten.SetWindowTitle(d.title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(d)
}

// --- worker.Backend ---

func (d *Display) Init() error { return nil }

func (d *Display) Deinit() {
	d.mu.Lock()
	d.uploaded = nil
	d.shown = nil
	d.mu.Unlock()
}

func (d *Display) SetDimensions(width, height int) {
	d.mu.Lock()
	d.frameW, d.frameH = width, height
	d.mu.Unlock()
}

// Resized is a no-op: Ebitengine reports the live window size in Draw.
func (d *Display) Resized(width, height int) {}

func (d *Display) Configure(cfg worker.RenderConfig) {
	d.mu.Lock()
	d.cfg = cfg
	d.mu.Unlock()
}

// PostFrame copies the frame's pixels out of the recycled buffer into an
// RGBA image. The copy is mandatory: the buffer returns to the free pool
// as soon as this call returns.
func (d *Display) PostFrame(frame *buffer.Buffer) {
	w, h := frame.Width(), frame.Height()
	d.mu.Lock()
	if w <= 0 || h <= 0 {
		w, h = d.frameW, d.frameH
	}
	if w <= 0 || h <= 0 {
		d.mu.Unlock()
		return
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	copy(img.Pix, frame.Bytes())
	d.uploaded = img
	d.mu.Unlock()
}

// DrawFrame composes the most recently posted frame. Publication to the
// game loop waits for SwapBuffers so pacing stays with the worker.
func (d *Display) DrawFrame() {}

func (d *Display) Clear() {
	d.mu.Lock()
	d.uploaded = nil
	d.mu.Unlock()
}

// --- worker.Surface ---

func (d *Display) MakeCurrent() error { return nil }
func (d *Display) DoneCurrent()       {}

// SwapBuffers publishes the composed frame to the game loop.
func (d *Display) SwapBuffers() {
	d.mu.Lock()
	d.shown = d.uploaded
	d.mu.Unlock()
}

// --- ebiten.Game ---

func (d *Display) Update() error { return nil }

func (d *Display) Draw(screen *ebiten.Image) {
	d.mu.Lock()
	frame := d.shown
	cfg := d.cfg
	d.mu.Unlock()

	if frame == nil {
		return
	}

	fw, fh := frame.Bounds().Dx(), frame.Bounds().Dy()
	if d.tex == nil || d.tex.Bounds().Dx() != fw || d.tex.Bounds().Dy() != fh {
		d.tex = ebiten.NewImage(fw, fh)
	}
	d.tex.WritePixels(frame.Pix)

	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	op := &ebiten.DrawImageOptions{}
	if cfg.Filter {
		op.Filter = ebiten.FilterLinear
	}

	if cfg.LockAspectRatio {
		scale, offsetX, offsetY := aspectFitTransform(
			float64(sw), float64(sh), float64(fw), float64(fh),
			cfg.LockIntegerScaling)
		op.GeoM.Scale(scale, scale)
		op.GeoM.Translate(offsetX, offsetY)
	} else {
		sx := float64(sw) / float64(fw)
		sy := float64(sh) / float64(fh)
		if cfg.LockIntegerScaling {
			sx = integerScale(sx)
			sy = integerScale(sy)
		}
		op.GeoM.Scale(sx, sy)
		op.GeoM.Translate(
			(float64(sw)-float64(fw)*sx)/2,
			(float64(sh)-float64(fh)*sy)/2)
	}
	screen.DrawImage(d.tex, op)
}

func (d *Display) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

// aspectFitTransform returns scale and offsets to fit the frame into the
// view with letterboxing, optionally snapped to whole-number factors.
func aspectFitTransform(viewW, viewH, frameW, frameH float64, integer bool) (scale, offsetX, offsetY float64) {
	scale = math.Min(viewW/frameW, viewH/frameH)
	if integer {
		scale = integerScale(scale)
	}
	offsetX = (viewW - frameW*scale) / 2
	offsetY = (viewH - frameH*scale) / 2
	return
}

// integerScale snaps an upscale factor down to a whole number; downscales
// pass through so the frame always fits.
func integerScale(s float64) float64 {
	if s >= 1 {
		return math.Floor(s)
	}
	return s
}
