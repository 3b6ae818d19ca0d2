package adc

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    RawSample
		wantErr bool
	}{
		{
			name: "valid line",
			line: "1234567890123,2048",
			want: RawSample{
				Timestamp: time.UnixMicro(1234567890123),
				Reading:   2048,
			},
		},
		{
			name: "valid line - max ADC value",
			line: "1234567890123,4095",
			want: RawSample{
				Timestamp: time.UnixMicro(1234567890123),
				Reading:   4095,
			},
		},
		{
			name: "valid line - zero reading",
			line: "1,0",
			want: RawSample{
				Timestamp: time.UnixMicro(1),
				Reading:   0,
			},
		},
		{
			name: "valid line - padded fields",
			line: "1234567890123, 17",
			want: RawSample{
				Timestamp: time.UnixMicro(1234567890123),
				Reading:   17,
			},
		},
		{
			name:    "invalid - wrong number of fields",
			line:    "1234567890123",
			wantErr: true,
		},
		{
			name:    "invalid - too many fields",
			line:    "1234567890123,2048,1024",
			wantErr: true,
		},
		{
			name:    "invalid - non-numeric timestamp",
			line:    "abc,2048",
			wantErr: true,
		},
		{
			name:    "invalid - non-numeric reading",
			line:    "1234567890123,abc",
			wantErr: true,
		},
		{
			name:    "invalid - reading out of range",
			line:    "1234567890123,4096",
			wantErr: true,
		},
		{
			name:    "invalid - negative reading",
			line:    "1234567890123,-1",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseLine(tt.line, DefaultMaxRaw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Timestamp.Equal(got.Timestamp))
			assert.Equal(t, tt.want.Reading, got.Reading)
		})
	}
}

func TestSerial_readSamples(t *testing.T) {
	dev := New("test", 0, 0)
	input := strings.Join([]string{
		"1000,4000",
		"",
		"garbage",
		"2000,3000",
		"3000,9999",
		"4000,500",
	}, "\n")

	out := make(chan RawSample, 10)
	dev.readSamples(context.Background(), strings.NewReader(input), out)

	var readings []uint16
	for s := range out {
		readings = append(readings, s.Reading)
	}
	assert.Equal(t, []uint16{4000, 3000, 500}, readings)
}

func TestParseLine_MaxRaw(t *testing.T) {
	got, err := parseLine("1,65535", 65535)
	require.NoError(t, err)
	assert.Equal(t, uint16(65535), got.Reading)

	_, err = parseLine("1,1024", 1023)
	assert.Error(t, err)

	_, err = parseLine("1,1023", 1023)
	assert.NoError(t, err)
}

func TestSerial_readSamples_MaxRaw(t *testing.T) {
	dev := New("test", 0, 0)
	dev.SetMaxRaw(65535)
	input := "1,4000\n2,40000\n3,70000\n"

	out := make(chan RawSample, 10)
	dev.readSamples(context.Background(), strings.NewReader(input), out)

	var readings []uint16
	for s := range out {
		readings = append(readings, s.Reading)
	}
	assert.Equal(t, []uint16{4000, 40000}, readings)

	dev.SetMaxRaw(0)
	assert.Equal(t, DefaultMaxRaw, dev.maxRaw)
}

func TestSerial_readSamples_DropsOldestWhenFull(t *testing.T) {
	dev := New("test", 0, 0)
	input := "1,100\n2,200\n3,300\n4,400\n"

	out := make(chan RawSample, 2)
	dev.readSamples(context.Background(), strings.NewReader(input), out)

	var readings []uint16
	for s := range out {
		readings = append(readings, s.Reading)
	}
	assert.Equal(t, []uint16{300, 400}, readings)
}

func TestSerial_readSamples_RecordsEndOfStream(t *testing.T) {
	dev := New("test", 0, 0)
	out := make(chan RawSample, 2)
	dev.readSamples(context.Background(), strings.NewReader("1,100\n"), out)

	dev.samples = out

	v, err := dev.Read()
	require.NoError(t, err)
	assert.Equal(t, 100, v)

	_, err = dev.Read()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EOF")
}

func TestSerial_Read_ReturnsFreshest(t *testing.T) {
	dev := New("test", 0, 0)
	ch := make(chan RawSample, 5)
	ch <- RawSample{Reading: 10}
	ch <- RawSample{Reading: 20}
	ch <- RawSample{Reading: 30}
	dev.samples = ch

	v, err := dev.Read()
	require.NoError(t, err)
	assert.Equal(t, 30, v)

	ch <- RawSample{Reading: 40}
	v, err = dev.Read()
	require.NoError(t, err)
	assert.Equal(t, 40, v)
}

func TestSerial_NotConnected(t *testing.T) {
	dev := New("test", 0, 0)

	assert.False(t, dev.IsConnected())
	assert.Nil(t, dev.Samples())

	_, err := dev.Read()
	assert.ErrorIs(t, err, ErrNotConnected)

	err = dev.SetLED(true)
	assert.ErrorIs(t, err, ErrNotConnected)

	assert.NoError(t, dev.Close())
}

func TestNew_Defaults(t *testing.T) {
	dev := New("/dev/ttyACM0", 0, 0)
	assert.Equal(t, DefaultBaudRate, dev.baudRate)
	assert.Equal(t, DefaultBufferSize, dev.bufSize)

	dev = New("/dev/ttyACM0", 9600, 4)
	assert.Equal(t, 9600, dev.baudRate)
	assert.Equal(t, 4, dev.bufSize)
	assert.Equal(t, DefaultMaxRaw, dev.maxRaw)
}
