package adc

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Replay plays back a recorded sequence of readings and returns io.EOF once
// the recording is exhausted.
type Replay struct {
	mu      sync.Mutex
	samples []int
	pos     int
}

// NewReplay creates a replay source over a copy of samples.
func NewReplay(samples []int) *Replay {
	s := make([]int, len(samples))
	copy(s, samples)
	return &Replay{samples: s}
}

// LoadReplay reads a fixture file. Each non-empty line is either a bare
// reading or a firmware line (unix_micros,reading). Lines starting with '#'
// are comments.
func LoadReplay(filename string) (*Replay, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open replay file: %w", err)
	}
	defer f.Close()

	samples, err := parseReplay(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse replay file %s: %w", filename, err)
	}

	return &Replay{samples: samples}, nil
}

func parseReplay(r io.Reader) ([]int, error) {
	var samples []int

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.Contains(line, ",") {
			s, err := parseLine(line)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			samples = append(samples, int(s.Reading))
			continue
		}

		v, err := strconv.Atoi(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid reading: %w", lineNo, err)
		}
		samples = append(samples, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return samples, nil
}

// Read returns the next recorded reading.
func (r *Replay) Read() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.pos >= len(r.samples) {
		return 0, io.EOF
	}
	v := r.samples[r.pos]
	r.pos++
	return v, nil
}

// Len returns the total number of recorded readings.
func (r *Replay) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.samples)
}

// Rewind restarts playback from the first reading.
func (r *Replay) Rewind() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pos = 0
}
