package worker

import (
	"sync"
	"time"

	"github.com/opd-ai/framepresent/buffer"
	"github.com/opd-ai/framepresent/coresync"
)

// mockBackend records renderer calls for verification.
type mockBackend struct {
	mu sync.Mutex

	initErr error

	inits   int
	deinits int
	clears  int
	draws   int
	posted  []byte // first byte of each posted frame
	dims    [2]int
	resized [2]int
	cfg     RenderConfig
}

func (m *mockBackend) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.initErr != nil {
		return m.initErr
	}
	m.inits++
	return nil
}

func (m *mockBackend) Deinit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deinits++
}

func (m *mockBackend) SetDimensions(w, h int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dims = [2]int{w, h}
}

func (m *mockBackend) Resized(w, h int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resized = [2]int{w, h}
}

func (m *mockBackend) Configure(cfg RenderConfig) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg = cfg
}

func (m *mockBackend) PostFrame(b *buffer.Buffer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(b.Bytes()) > 0 {
		m.posted = append(m.posted, b.Bytes()[0])
	} else {
		m.posted = append(m.posted, 0)
	}
}

func (m *mockBackend) DrawFrame() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.draws++
}

func (m *mockBackend) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clears++
}

func (m *mockBackend) snapshot() (inits, deinits, clears, draws int, posted []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inits, m.deinits, m.clears, m.draws, append([]byte(nil), m.posted...)
}

func (m *mockBackend) config() RenderConfig {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cfg
}

func (m *mockBackend) resizedDims() [2]int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resized
}

// mockShaderBackend adds shader stage support to mockBackend.
type mockShaderBackend struct {
	mockBackend

	attachErr error
	attached  []string
	detaches  int
}

func (m *mockShaderBackend) AttachShaderStage(stage ShaderStage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.attachErr != nil {
		return m.attachErr
	}
	m.attached = append(m.attached, stage.Name)
	return nil
}

func (m *mockShaderBackend) DetachShaderStage() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.detaches++
}

// mockSurface records context ownership and swap activity.
type mockSurface struct {
	mu sync.Mutex

	currentErr error

	makeCurrent int
	doneCurrent int
	swaps       int
}

func (m *mockSurface) MakeCurrent() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.currentErr != nil {
		return m.currentErr
	}
	m.makeCurrent++
	return nil
}

func (m *mockSurface) DoneCurrent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.doneCurrent++
}

func (m *mockSurface) SwapBuffers() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.swaps++
}

func (m *mockSurface) swapCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.swaps
}

func (m *mockSurface) ownership() (current, done int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.makeCurrent, m.doneCurrent
}

// mockTimeProvider reports a manually advanced clock while delegating
// timer creation to the standard library.
type mockTimeProvider struct {
	mu  sync.Mutex
	now time.Time
}

func newMockTimeProvider() *mockTimeProvider {
	return &mockTimeProvider{now: time.Unix(1700000000, 0)}
}

func (m *mockTimeProvider) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *mockTimeProvider) NewTimer(d time.Duration) *time.Timer {
	return time.NewTimer(d)
}

// advance moves the mock clock forward by d.
func (m *mockTimeProvider) advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	m.mu.Unlock()
}

// mockProducer is a frame source with fixed dimensions.
type mockProducer struct {
	width  int
	height int
	sync   *coresync.Sync
}

func (m *mockProducer) FrameDimensions() (int, int) { return m.width, m.height }

func (m *mockProducer) Sync() *coresync.Sync { return m.sync }
