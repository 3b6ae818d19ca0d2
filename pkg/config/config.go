package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Serial      SerialConfig      `yaml:"serial"`
	ADC         ADCConfig         `yaml:"adc"`
	Baseline    string            `yaml:"baseline"`
	Buttons     []ButtonConfig    `yaml:"buttons"`
	Poll        PollConfig        `yaml:"poll"`
	Calibration CalibrationConfig `yaml:"calibration"`
	Mock        MockConfig        `yaml:"mock"`
	Kodi        KodiConfig        `yaml:"kodi"`
	MQTT        MQTTConfig        `yaml:"mqtt"`
}

// SerialConfig contains serial port configuration.
type SerialConfig struct {
	Port     string `yaml:"port"`
	BaudRate int    `yaml:"baud_rate"`
}

// ADCConfig describes the converter the ladder is wired to.
type ADCConfig struct {
	MaxRaw         int     `yaml:"max_raw"`         // Full scale reading (4095 for 12-bit)
	VRef           float64 `yaml:"vref"`            // Reference voltage (V)
	AverageSamples int     `yaml:"average_samples"` // Number of reads averaged per sample (0 = disabled)
}

// ButtonConfig is one band of the ladder. Order matters: the first band
// containing a reading wins.
type ButtonConfig struct {
	ID    string `yaml:"id"`
	Min   int    `yaml:"min"`
	Max   int    `yaml:"max"`
	Label string `yaml:"label"`
}

// PollConfig contains polling cadence for the reading loops.
type PollConfig struct {
	Interval       time.Duration `yaml:"interval"`        // read/remote loops
	SingleInterval time.Duration `yaml:"single_interval"` // live single reading display
}

// CalibrationConfig contains calibration parameters.
type CalibrationConfig struct {
	Duration     time.Duration `yaml:"duration"`
	Threshold    int           `yaml:"threshold"`   // Proximity to a cluster center (raw units)
	MinSamples   int           `yaml:"min_samples"` // Clusters with fewer members are noise
	PollInterval time.Duration `yaml:"poll_interval"`
}

// MockConfig contains mock device configuration.
type MockConfig struct {
	Levels     []int         `yaml:"levels"`      // Raw levels cycled through, one per hold period
	Noise      int           `yaml:"noise"`       // Peak noise added to a level (raw units)
	Hold       time.Duration `yaml:"hold"`        // How long each level is held
	SampleRate time.Duration `yaml:"sample_rate"` // Sample rate
	Seed       uint64        `yaml:"seed"`        // Noise generator seed
}

// KodiConfig contains the media player endpoint and per-button actions.
type KodiConfig struct {
	Host    string            `yaml:"host"`
	Port    int               `yaml:"port"`
	Timeout time.Duration     `yaml:"timeout"`
	Actions map[string]Action `yaml:"actions"` // Keyed by button ID
}

// Action is a JSON-RPC call issued when a button is pressed.
type Action struct {
	Method string         `yaml:"method"`
	Params map[string]any `yaml:"params,omitempty"`
}

// MQTTConfig contains broker settings for publishing button events.
type MQTTConfig struct {
	Broker   string `yaml:"broker"`
	ClientID string `yaml:"client_id"`
	Topic    string `yaml:"topic"`
	QoS      byte   `yaml:"qos"`
}

// DefaultButtons returns the band table of the reference five button board.
func DefaultButtons() []ButtonConfig {
	return []ButtonConfig{
		{ID: "NO_PRESS", Min: 3686, Max: 4504, Label: "No Press"},
		{ID: "BUTTON_1", Min: 2686, Max: 3282, Label: "Button 1"},
		{ID: "BUTTON_2", Min: 1835, Max: 2241, Label: "Button 2"},
		{ID: "BUTTON_3", Min: 1203, Max: 1469, Label: "Button 3"},
		{ID: "BUTTON_4", Min: 531, Max: 649, Label: "Button 4"},
		{ID: "BUTTON_5", Min: -32, Max: 67, Label: "Button 5"},
	}
}

// Default returns a default configuration with sensible values.
func Default() *Config {
	return &Config{
		Serial: SerialConfig{
			Port:     "/dev/ttyACM0", // Pico USB CDC; "COM3" or similar on Windows
			BaudRate: 115200,
		},
		ADC: ADCConfig{
			MaxRaw:         4095,
			VRef:           3.3,
			AverageSamples: 0,
		},
		Baseline: "NO_PRESS",
		Buttons:  DefaultButtons(),
		Poll: PollConfig{
			Interval:       100 * time.Millisecond,
			SingleInterval: 200 * time.Millisecond,
		},
		Calibration: CalibrationConfig{
			Duration:     30 * time.Second,
			Threshold:    50,
			MinSamples:   11,
			PollInterval: 100 * time.Millisecond,
		},
		Mock: MockConfig{
			Levels:     []int{4000, 2984, 2038, 1336, 590, 10},
			Noise:      15,
			Hold:       3 * time.Second,
			SampleRate: 20 * time.Millisecond,
			Seed:       1,
		},
		Kodi: KodiConfig{
			Host:    "127.0.0.1",
			Port:    8080,
			Timeout: 3 * time.Second,
			Actions: map[string]Action{},
		},
		MQTT: MQTTConfig{
			Broker:   "",
			ClientID: "goladder",
			Topic:    "ladder/button",
			QoS:      0,
		},
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// A buttons sequence in the file replaces the default table as a whole.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Ensure minimum required fields are set (use defaults if missing)
	cfg.ensureDefaults()

	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ensureDefaults ensures that all required fields have default values if missing.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Serial.Port == "" {
		c.Serial.Port = def.Serial.Port
	}
	if c.Serial.BaudRate == 0 {
		c.Serial.BaudRate = def.Serial.BaudRate
	}

	if c.ADC.MaxRaw == 0 {
		c.ADC.MaxRaw = def.ADC.MaxRaw
	}
	if c.ADC.VRef == 0 {
		c.ADC.VRef = def.ADC.VRef
	}

	if c.Baseline == "" {
		c.Baseline = def.Baseline
	}
	if len(c.Buttons) == 0 {
		c.Buttons = def.Buttons
	}

	if c.Poll.Interval == 0 {
		c.Poll.Interval = def.Poll.Interval
	}
	if c.Poll.SingleInterval == 0 {
		c.Poll.SingleInterval = def.Poll.SingleInterval
	}

	if c.Calibration.Duration == 0 {
		c.Calibration.Duration = def.Calibration.Duration
	}
	if c.Calibration.Threshold == 0 {
		c.Calibration.Threshold = def.Calibration.Threshold
	}
	if c.Calibration.MinSamples == 0 {
		c.Calibration.MinSamples = def.Calibration.MinSamples
	}
	if c.Calibration.PollInterval == 0 {
		c.Calibration.PollInterval = def.Calibration.PollInterval
	}

	if len(c.Mock.Levels) == 0 {
		c.Mock.Levels = def.Mock.Levels
	}
	if c.Mock.Hold == 0 {
		c.Mock.Hold = def.Mock.Hold
	}
	if c.Mock.SampleRate == 0 {
		c.Mock.SampleRate = def.Mock.SampleRate
	}

	if c.Kodi.Host == "" {
		c.Kodi.Host = def.Kodi.Host
	}
	if c.Kodi.Port == 0 {
		c.Kodi.Port = def.Kodi.Port
	}
	if c.Kodi.Timeout == 0 {
		c.Kodi.Timeout = def.Kodi.Timeout
	}
	if c.Kodi.Actions == nil {
		c.Kodi.Actions = map[string]Action{}
	}

	if c.MQTT.ClientID == "" {
		c.MQTT.ClientID = def.MQTT.ClientID
	}
	if c.MQTT.Topic == "" {
		c.MQTT.Topic = def.MQTT.Topic
	}
}
