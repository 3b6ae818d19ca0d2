package adc

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingSource struct {
	err error
}

func (f failingSource) Read() (int, error) { return 0, f.err }

func TestAveraging_Read(t *testing.T) {
	tests := []struct {
		name       string
		samples    []int
		windowSize int
		want       []int
	}{
		{
			name:       "pass through",
			samples:    []int{1, 2, 3},
			windowSize: 1,
			want:       []int{1, 2, 3},
		},
		{
			name:       "invalid window passes through",
			samples:    []int{5, 6},
			windowSize: 0,
			want:       []int{5, 6},
		},
		{
			name:       "window of two rounds half up",
			samples:    []int{100, 101, 200, 202},
			windowSize: 2,
			want:       []int{101, 201},
		},
		{
			name:       "window of three",
			samples:    []int{3000, 3010, 3020, 10, 11, 11},
			windowSize: 3,
			want:       []int{3010, 11},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			avg := NewAveraging(NewReplay(tt.samples), tt.windowSize)
			for _, want := range tt.want {
				v, err := avg.Read()
				require.NoError(t, err)
				assert.Equal(t, want, v)
			}
			_, err := avg.Read()
			assert.ErrorIs(t, err, io.EOF)
		})
	}
}

func TestAveraging_PropagatesError(t *testing.T) {
	boom := errors.New("adc fault")
	avg := NewAveraging(failingSource{err: boom}, 4)

	_, err := avg.Read()
	assert.ErrorIs(t, err, boom)
}
