package adc

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"go.bug.st/serial"
)

const (
	// DefaultBaudRate is the standard baud rate of the Pico firmware.
	DefaultBaudRate = 115200
	// DefaultBufferSize is the default size for the samples channel buffer.
	DefaultBufferSize = 100
)

var (
	// ErrNotConnected is returned when reading from or writing to a closed device.
	ErrNotConnected = errors.New("not connected")
	// ErrAlreadyConnected is returned by Connect on a connected device.
	ErrAlreadyConnected = errors.New("already connected")
)

// RawSample represents a raw measurement sample from the MCU.
type RawSample struct {
	Timestamp time.Time
	Reading   uint16 // ADC reading (0-4095 for the 12-bit firmware)
}

// Port represents a serial port.
type Port struct {
	Name        string
	Description string
}

// Serial represents a connection to the ladder firmware.
type Serial struct {
	port     string
	baudRate int
	bufSize  int
	maxRaw   int

	conn      serial.Port
	samples   chan RawSample
	readErr   error
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
	connected bool
}

// New creates a new Serial instance with the specified port, baud rate, and buffer size.
func New(port string, baudRate int, bufSize int) *Serial {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}
	if bufSize == 0 {
		bufSize = DefaultBufferSize
	}

	return &Serial{
		port:     port,
		baudRate: baudRate,
		bufSize:  bufSize,
		maxRaw:   DefaultMaxRaw,
	}
}

// SetMaxRaw sets the full scale reading accepted from the firmware. Lines
// above it are dropped. Values <= 0 restore DefaultMaxRaw.
func (d *Serial) SetMaxRaw(maxRaw int) {
	if maxRaw <= 0 {
		maxRaw = DefaultMaxRaw
	}
	d.mu.Lock()
	d.maxRaw = maxRaw
	d.mu.Unlock()
}

// Ports returns a list of available serial ports.
func Ports() ([]Port, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}

	result := make([]Port, 0, len(ports))
	for _, name := range ports {
		result = append(result, Port{
			Name:        name,
			Description: name,
		})
	}

	return result, nil
}

// Connect connects to the serial port and starts reading samples.
func (d *Serial) Connect() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.connected {
		return ErrAlreadyConnected
	}

	mode := &serial.Mode{
		BaudRate: d.baudRate,
	}

	port, err := serial.Open(d.port, mode)
	if err != nil {
		return fmt.Errorf("failed to open serial port %s: %w", d.port, err)
	}

	d.conn = port
	d.connected = true
	d.readErr = nil
	d.samples = make(chan RawSample, d.bufSize)
	d.ctx, d.cancel = context.WithCancel(context.Background())

	// The reader goroutine owns the samples channel and closes it on exit.
	go d.readSamples(d.ctx, port, d.samples)

	return nil
}

// Close closes the connection and stops reading samples.
func (d *Serial) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		return nil
	}

	d.cancel()

	if d.conn != nil {
		if err := d.conn.Close(); err != nil {
			logrus.WithError(err).WithField("port", d.port).Warn("error closing serial port")
		}
		d.conn = nil
	}

	d.connected = false

	return nil
}

// Read blocks until the firmware delivers a sample and returns the freshest
// reading, discarding any backlog that built up between polls.
func (d *Serial) Read() (int, error) {
	d.mu.RLock()
	samples := d.samples
	d.mu.RUnlock()

	if samples == nil {
		return 0, ErrNotConnected
	}

	s, ok := <-samples
	if !ok {
		return 0, d.closedErr()
	}

	for {
		select {
		case next, ok := <-samples:
			if !ok {
				return int(s.Reading), nil
			}
			s = next
		default:
			return int(s.Reading), nil
		}
	}
}

// Samples returns the channel for reading samples. It is nil before Connect.
func (d *Serial) Samples() <-chan RawSample {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.samples
}

// SetLED switches the firmware status LED.
func (d *Serial) SetLED(on bool) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.connected {
		return ErrNotConnected
	}

	cmd := "0\n"
	if on {
		cmd = "1\n"
	}

	if _, err := d.conn.Write([]byte(cmd)); err != nil {
		return fmt.Errorf("failed to send LED command: %w", err)
	}

	return nil
}

// IsConnected returns whether the device is currently connected.
func (d *Serial) IsConnected() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.connected
}

func (d *Serial) closedErr() error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.readErr != nil {
		return d.readErr
	}
	return ErrNotConnected
}

// readSamples reads lines from the serial port and parses them into RawSample.
func (d *Serial) readSamples(ctx context.Context, r io.Reader, out chan RawSample) {
	defer close(out)
	defer func() {
		if rec := recover(); rec != nil {
			logrus.Errorf("panic in serial reader: %v", rec)
		}
	}()

	log := logrus.WithField("port", d.port)

	d.mu.RLock()
	maxRaw := d.maxRaw
	d.mu.RUnlock()

	scanner := bufio.NewScanner(r)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if !scanner.Scan() {
			err := scanner.Err()
			if err == nil {
				err = io.EOF
			}
			if ctx.Err() == nil {
				log.WithError(err).Warn("serial reader stopped")
				d.mu.Lock()
				d.readErr = fmt.Errorf("serial port %s: %w", d.port, err)
				d.mu.Unlock()
			}
			return
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		sample, err := parseLine(line, maxRaw)
		if err != nil {
			log.WithError(err).Debugf("failed to parse line %q", line)
			continue
		}

		select {
		case out <- sample:
		case <-ctx.Done():
			return
		default:
			// Channel full: drop the oldest sample to make room.
			select {
			case <-out:
			default:
			}
			select {
			case out <- sample:
			default:
			}
		}
	}
}

// parseLine parses a line from the MCU into a RawSample. Readings above
// maxRaw are rejected.
// Format: unix_micros,reading
// Example: 1234567890123,2048
func parseLine(line string, maxRaw int) (RawSample, error) {
	parts := strings.Split(line, ",")
	if len(parts) != 2 {
		return RawSample{}, fmt.Errorf("invalid line format: expected 2 comma-separated values, got %d", len(parts))
	}

	timestampMicros, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil {
		return RawSample{}, fmt.Errorf("invalid timestamp: %w", err)
	}
	timestamp := time.UnixMicro(timestampMicros)

	reading, err := strconv.ParseUint(strings.TrimSpace(parts[1]), 10, 16)
	if err != nil {
		return RawSample{}, fmt.Errorf("invalid reading: %w", err)
	}
	if reading > uint64(maxRaw) {
		return RawSample{}, fmt.Errorf("reading out of range: %d (max %d)", reading, maxRaw)
	}

	return RawSample{
		Timestamp: timestamp,
		Reading:   uint16(reading),
	}, nil
}
