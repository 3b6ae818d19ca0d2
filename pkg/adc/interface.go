package adc

// Source produces one raw converter reading per call. Read blocks until a
// reading is available; a source that can no longer produce readings
// returns an error (io.EOF for a finished recording).
type Source interface {
	Read() (int, error)
}

// Device defines the interface for ladder sampling devices (real or mocked).
type Device interface {
	Source
	Connect() error
	Close() error
	IsConnected() bool
}

// Indicator is implemented by devices with a status LED.
type Indicator interface {
	SetLED(on bool) error
}

// Ensure Serial implements Device.
var _ Device = (*Serial)(nil)

// Ensure Mock implements Device.
var _ Device = (*Mock)(nil)

var _ Indicator = (*Serial)(nil)
var _ Source = (*Replay)(nil)
var _ Source = (*Averaging)(nil)
