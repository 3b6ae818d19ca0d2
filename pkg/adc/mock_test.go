package adc

import (
	"testing"
	"time"

	"github.com/itohio/goladder/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMock(t *testing.T) {
	cfg := &config.MockConfig{
		Levels:     []int{4000, 3000},
		Noise:      5,
		Hold:       time.Second,
		SampleRate: time.Millisecond,
		Seed:       42,
	}

	dev := NewMock(cfg)
	assert.NotNil(t, dev)
	assert.Equal(t, cfg, dev.cfg)
	assert.False(t, dev.IsConnected())
}

func TestNewMock_NilConfig(t *testing.T) {
	dev := NewMock(nil)
	assert.NotNil(t, dev)
	require.NotNil(t, dev.cfg)
	assert.Equal(t, config.Default().Mock.Levels, dev.cfg.Levels)
	assert.Equal(t, 3*time.Second, dev.cfg.Hold)
	assert.Equal(t, 20*time.Millisecond, dev.cfg.SampleRate)
}

func TestMock_levelAt(t *testing.T) {
	dev := NewMock(&config.MockConfig{
		Levels: []int{4000, 3000, 500},
		Hold:   time.Second,
	})

	tests := []struct {
		elapsed time.Duration
		want    int
	}{
		{0, 4000},
		{999 * time.Millisecond, 4000},
		{time.Second, 3000},
		{2500 * time.Millisecond, 500},
		{3 * time.Second, 4000},
		{7 * time.Second, 3000},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, dev.levelAt(tt.elapsed), "elapsed %v", tt.elapsed)
	}
}

func TestMock_sample_NoiseBounded(t *testing.T) {
	dev := NewMock(&config.MockConfig{
		Levels: []int{2000},
		Noise:  10,
		Hold:   time.Second,
		Seed:   7,
	})

	for range 1000 {
		v := dev.sample(0)
		assert.GreaterOrEqual(t, v, 1990)
		assert.LessOrEqual(t, v, 2010)
	}
}

func TestMock_sample_Clamped(t *testing.T) {
	dev := NewMock(&config.MockConfig{
		Levels: []int{4095, 0},
		Noise:  50,
		Hold:   time.Second,
	})

	for range 200 {
		high := dev.sample(0)
		low := dev.sample(time.Second)
		assert.LessOrEqual(t, high, DefaultMaxRaw)
		assert.GreaterOrEqual(t, low, 0)
	}
}

func TestMock_SetMaxRaw(t *testing.T) {
	dev := NewMock(&config.MockConfig{
		Levels: []int{60000, 70000},
		Hold:   time.Second,
	})
	dev.SetMaxRaw(65535)

	assert.Equal(t, 60000, dev.sample(0))
	assert.Equal(t, 65535, dev.sample(time.Second))

	dev.SetMaxRaw(-1)
	assert.Equal(t, DefaultMaxRaw, dev.sample(0))
}

func TestMock_Read(t *testing.T) {
	dev := NewMock(&config.MockConfig{
		Levels:     []int{1234},
		Hold:       time.Hour,
		SampleRate: time.Millisecond,
	})

	_, err := dev.Read()
	assert.ErrorIs(t, err, ErrNotConnected)

	require.NoError(t, dev.Connect())
	assert.True(t, dev.IsConnected())
	assert.ErrorIs(t, dev.Connect(), ErrAlreadyConnected)

	for range 3 {
		v, err := dev.Read()
		require.NoError(t, err)
		assert.Equal(t, 1234, v)
	}

	require.NoError(t, dev.Close())
	assert.False(t, dev.IsConnected())
}

func TestMock_SetLED(t *testing.T) {
	dev := NewMock(nil)

	err := dev.SetLED(true)
	assert.ErrorIs(t, err, ErrNotConnected)

	require.NoError(t, dev.Connect())
	require.NoError(t, dev.SetLED(true))
	assert.True(t, dev.LED())
	require.NoError(t, dev.SetLED(false))
	assert.False(t, dev.LED())
}
