package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.NotNil(t, cfg)
	assert.Equal(t, "/dev/ttyACM0", cfg.Serial.Port)
	assert.Equal(t, 115200, cfg.Serial.BaudRate)
	assert.Equal(t, 4095, cfg.ADC.MaxRaw)
	assert.Equal(t, float64(3.3), cfg.ADC.VRef)
	assert.Equal(t, "NO_PRESS", cfg.Baseline)
	assert.Len(t, cfg.Buttons, 6)
	assert.Equal(t, 30*time.Second, cfg.Calibration.Duration)
	assert.Equal(t, 50, cfg.Calibration.Threshold)
	assert.Equal(t, 11, cfg.Calibration.MinSamples)
	assert.Equal(t, 100*time.Millisecond, cfg.Calibration.PollInterval)
	assert.Equal(t, 100*time.Millisecond, cfg.Poll.Interval)
	assert.Equal(t, "ladder/button", cfg.MQTT.Topic)
}

func TestDefaultButtons_Order(t *testing.T) {
	buttons := DefaultButtons()

	require.NotEmpty(t, buttons)
	assert.Equal(t, "NO_PRESS", buttons[0].ID)
	for i, b := range buttons {
		assert.LessOrEqual(t, b.Min, b.Max, "button %d", i)
		if i > 0 {
			assert.Less(t, b.Max, buttons[i-1].Min, "bands should descend without overlap")
		}
	}
}

func TestLoad_FileNotExists(t *testing.T) {
	cfg, err := Load("nonexistent.yaml")
	require.NoError(t, err)
	assert.NotNil(t, cfg)
	assert.Equal(t, "/dev/ttyACM0", cfg.Serial.Port)
	assert.Equal(t, DefaultButtons(), cfg.Buttons)
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "test_config_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	yamlContent := `
serial:
  port: "/dev/ttyUSB1"
  baud_rate: 57600

adc:
  max_raw: 1023
  vref: 5.0
  average_samples: 4

baseline: IDLE

buttons:
  - id: IDLE
    min: 900
    max: 1023
    label: Idle
  - id: UP
    min: 400
    max: 600
    label: Up

calibration:
  duration: 10s
  threshold: 20
  min_samples: 5
  poll_interval: 50ms

kodi:
  host: 192.168.1.20
  port: 8081
  actions:
    UP:
      method: Input.Up
    IDLE:
      method: Player.PlayPause
      params:
        playerid: 1

mqtt:
  broker: tcp://localhost:1883
  topic: home/remote
`

	_, err = tmpfile.WriteString(yamlContent)
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())

	cfg, err := Load(tmpfile.Name())
	require.NoError(t, err)
	assert.NotNil(t, cfg)

	assert.Equal(t, "/dev/ttyUSB1", cfg.Serial.Port)
	assert.Equal(t, 57600, cfg.Serial.BaudRate)
	assert.Equal(t, 1023, cfg.ADC.MaxRaw)
	assert.Equal(t, float64(5.0), cfg.ADC.VRef)
	assert.Equal(t, 4, cfg.ADC.AverageSamples)
	assert.Equal(t, "IDLE", cfg.Baseline)
	assert.Equal(t, []ButtonConfig{
		{ID: "IDLE", Min: 900, Max: 1023, Label: "Idle"},
		{ID: "UP", Min: 400, Max: 600, Label: "Up"},
	}, cfg.Buttons)
	assert.Equal(t, 10*time.Second, cfg.Calibration.Duration)
	assert.Equal(t, 20, cfg.Calibration.Threshold)
	assert.Equal(t, 5, cfg.Calibration.MinSamples)
	assert.Equal(t, 50*time.Millisecond, cfg.Calibration.PollInterval)
	assert.Equal(t, "192.168.1.20", cfg.Kodi.Host)
	assert.Equal(t, 8081, cfg.Kodi.Port)
	require.Contains(t, cfg.Kodi.Actions, "UP")
	assert.Equal(t, "Input.Up", cfg.Kodi.Actions["UP"].Method)
	assert.Equal(t, 1, cfg.Kodi.Actions["IDLE"].Params["playerid"])
	assert.Equal(t, "tcp://localhost:1883", cfg.MQTT.Broker)
	assert.Equal(t, "home/remote", cfg.MQTT.Topic)
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "test_config_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	_, err = tmpfile.WriteString("invalid: yaml: content: [")
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())

	cfg, err := Load(tmpfile.Name())
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_PartialYAML(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "test_config_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	yamlContent := `
serial:
  port: "/dev/ttyACM1"
`

	_, err = tmpfile.WriteString(yamlContent)
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())

	cfg, err := Load(tmpfile.Name())
	require.NoError(t, err)
	assert.NotNil(t, cfg)

	// Should use defaults for missing fields
	assert.Equal(t, "/dev/ttyACM1", cfg.Serial.Port)
	assert.Equal(t, 115200, cfg.Serial.BaudRate)
	assert.Equal(t, 4095, cfg.ADC.MaxRaw)
	assert.Equal(t, DefaultButtons(), cfg.Buttons)
	assert.Equal(t, 30*time.Second, cfg.Calibration.Duration)
	assert.Equal(t, 3*time.Second, cfg.Mock.Hold)
	assert.NotNil(t, cfg.Kodi.Actions)
	assert.Equal(t, 100*time.Millisecond, cfg.Poll.Interval)
}

func TestSave(t *testing.T) {
	cfg := Default()
	cfg.Serial.Port = "/dev/ttyUSB0"
	cfg.Calibration.Duration = 15 * time.Second
	cfg.Buttons = []ButtonConfig{
		{ID: "NO_PRESS", Min: 3700, Max: 4095, Label: "No Press"},
		{ID: "BUTTON_1", Min: 2700, Max: 3300, Label: "Button 1"},
	}

	tmpfile, err := os.CreateTemp("", "test_save_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	err = cfg.Save(tmpfile.Name())
	require.NoError(t, err)

	// Load it back and verify
	loaded, err := Load(tmpfile.Name())
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyUSB0", loaded.Serial.Port)
	assert.Equal(t, 15*time.Second, loaded.Calibration.Duration)
	assert.Equal(t, cfg.Buttons, loaded.Buttons)
}
