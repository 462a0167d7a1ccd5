package framepresent

import (
	"sync"

	"github.com/opd-ai/framepresent/buffer"
	"github.com/opd-ai/framepresent/coresync"
	"github.com/opd-ai/framepresent/worker"
)

// stubBackend is a minimal renderer backend recording activity.
type stubBackend struct {
	mu sync.Mutex

	initErr error
	inits   int
	deinits int
	posts   int
	draws   int
	cfg     worker.RenderConfig
}

func (s *stubBackend) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.initErr != nil {
		return s.initErr
	}
	s.inits++
	return nil
}

func (s *stubBackend) Deinit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deinits++
}

func (s *stubBackend) SetDimensions(w, h int) {}
func (s *stubBackend) Resized(w, h int)       {}

func (s *stubBackend) Configure(cfg worker.RenderConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
}

func (s *stubBackend) PostFrame(b *buffer.Buffer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts++
}

func (s *stubBackend) DrawFrame() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draws++
}

func (s *stubBackend) Clear() {}

func (s *stubBackend) counts() (inits, deinits, posts, draws int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inits, s.deinits, s.posts, s.draws
}

func (s *stubBackend) config() worker.RenderConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// stubSurface is an inert display surface.
type stubSurface struct {
	mu    sync.Mutex
	swaps int
}

func (s *stubSurface) MakeCurrent() error { return nil }
func (s *stubSurface) DoneCurrent()       {}

func (s *stubSurface) SwapBuffers() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.swaps++
}

func (s *stubSurface) swapCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.swaps
}

// stubProducer is a frame source with fixed dimensions.
type stubProducer struct {
	width  int
	height int
	sync   *coresync.Sync
}

func (p *stubProducer) FrameDimensions() (int, int) { return p.width, p.height }
func (p *stubProducer) Sync() *coresync.Sync        { return p.sync }
