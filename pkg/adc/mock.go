package adc

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/itohio/goladder/pkg/config"
)

// Mock simulates a button ladder for testing and development. It cycles
// through the configured levels, holding each one for cfg.Hold, and adds
// bounded noise to every reading.
type Mock struct {
	cfg    *config.MockConfig
	maxRaw int

	mu        sync.Mutex
	connected bool
	led       bool
	rng       *rand.Rand
	startTime time.Time
	lastRead  time.Time
}

// Ensure Mock implements Indicator.
var _ Indicator = (*Mock)(nil)

// NewMock creates a new mocked device instance.
func NewMock(cfg *config.MockConfig) *Mock {
	if cfg == nil {
		def := config.Default().Mock
		cfg = &def
	}

	return &Mock{
		cfg:    cfg,
		maxRaw: DefaultMaxRaw,
		rng:    rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
	}
}

// SetMaxRaw sets the full scale reading readings are clamped to. Values <= 0
// restore DefaultMaxRaw.
func (m *Mock) SetMaxRaw(maxRaw int) {
	if maxRaw <= 0 {
		maxRaw = DefaultMaxRaw
	}
	m.mu.Lock()
	m.maxRaw = maxRaw
	m.mu.Unlock()
}

// Connect simulates connecting to the device.
func (m *Mock) Connect() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.connected {
		return ErrAlreadyConnected
	}

	m.connected = true
	m.startTime = time.Now()
	m.lastRead = time.Time{}

	return nil
}

// Close stops the mocked device.
func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.connected = false

	return nil
}

// IsConnected returns whether the device is currently connected.
func (m *Mock) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

// SetLED records the simulated LED state.
func (m *Mock) SetLED(on bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected {
		return ErrNotConnected
	}
	m.led = on

	return nil
}

// LED returns the simulated LED state.
func (m *Mock) LED() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.led
}

// Read returns the simulated reading for the current moment. Consecutive
// reads are paced at cfg.SampleRate like a real converter.
func (m *Mock) Read() (int, error) {
	m.mu.Lock()
	if !m.connected {
		m.mu.Unlock()
		return 0, ErrNotConnected
	}

	var wait time.Duration
	if !m.lastRead.IsZero() {
		wait = m.cfg.SampleRate - time.Since(m.lastRead)
	}
	m.mu.Unlock()

	if wait > 0 {
		time.Sleep(wait)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	m.lastRead = now

	return m.sample(now.Sub(m.startTime)), nil
}

// levelAt returns the noiseless level held at the given time since connect.
func (m *Mock) levelAt(elapsed time.Duration) int {
	levels := m.cfg.Levels
	if len(levels) == 0 {
		return m.maxRaw
	}
	if m.cfg.Hold <= 0 {
		return levels[0]
	}

	idx := int(elapsed/m.cfg.Hold) % len(levels)
	return levels[idx]
}

// sample returns the level at elapsed plus noise, clamped to the converter range.
func (m *Mock) sample(elapsed time.Duration) int {
	value := m.levelAt(elapsed)

	if m.cfg.Noise > 0 {
		value += m.rng.IntN(2*m.cfg.Noise+1) - m.cfg.Noise
	}

	if value < 0 {
		value = 0
	} else if value > m.maxRaw {
		value = m.maxRaw
	}

	return value
}
