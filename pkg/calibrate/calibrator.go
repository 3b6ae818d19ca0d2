package calibrate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/itohio/goladder/pkg/adc"
	"github.com/itohio/goladder/pkg/config"
)

// ErrInsufficientData is returned when no cluster reached the minimum size.
var ErrInsufficientData = errors.New("insufficient calibration data")

// Options control a calibration run.
type Options struct {
	Duration     time.Duration // Sampling time; zero means 30s
	Threshold    int           // Proximity to a cluster center; zero means 50
	MinSamples   int           // Smallest cluster kept; zero means 11
	PollInterval time.Duration // Wait between readings; zero polls back to back
	MaxSamples   int           // Stop after this many readings; zero means no limit
	Scale        adc.Scale     // Used for voltages in the report
}

// DefaultOptions returns the default calibration options.
func DefaultOptions() Options {
	return Options{
		Duration:     30 * time.Second,
		Threshold:    50,
		MinSamples:   11,
		PollInterval: 100 * time.Millisecond,
		Scale:        adc.DefaultScale(),
	}
}

// OptionsFromConfig returns options built from the calibration and ADC sections.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Duration:     cfg.Calibration.Duration,
		Threshold:    cfg.Calibration.Threshold,
		MinSamples:   cfg.Calibration.MinSamples,
		PollInterval: cfg.Calibration.PollInterval,
		Scale:        adc.Scale{MaxRaw: cfg.ADC.MaxRaw, VRef: cfg.ADC.VRef},
	}
}

// Progress reports the most recent reading of a running calibration.
type Progress struct {
	Count    int // Readings taken so far
	Raw      int
	Voltage  float64
	Clusters int // Clusters seen so far, before noise filtering
	Elapsed  time.Duration
}

// Calibrator clusters readings into ladder states.
type Calibrator struct {
	opts Options
	now  func() time.Time
}

// New creates a calibrator. Zero option fields take their defaults.
func New(opts Options) *Calibrator {
	def := DefaultOptions()
	if opts.Duration <= 0 {
		opts.Duration = def.Duration
	}
	if opts.Threshold <= 0 {
		opts.Threshold = def.Threshold
	}
	if opts.MinSamples <= 0 {
		opts.MinSamples = def.MinSamples
	}
	if opts.PollInterval < 0 {
		opts.PollInterval = 0
	}
	if opts.Scale.MaxRaw <= 0 || opts.Scale.VRef == 0 {
		opts.Scale = def.Scale
	}

	return &Calibrator{
		opts: opts,
		now:  time.Now,
	}
}

// Options returns the effective options.
func (c *Calibrator) Options() Options {
	return c.opts
}

// Run samples src until the duration elapses, ctx is cancelled, MaxSamples
// readings were taken or src reports io.EOF, then returns the ranked states.
//
// Cancellation is not an error: the states gathered so far are returned with
// Interrupted set. A run in which no cluster reached MinSamples returns
// ErrInsufficientData. Any other source error is returned as is and no
// result is produced.
func (c *Calibrator) Run(ctx context.Context, src adc.Source, progress func(Progress)) (*Result, error) {
	set := newClusterSet(c.opts.Threshold)
	start := c.now()
	deadline := start.Add(c.opts.Duration)

	count := 0
	interrupted := false

loop:
	for {
		if ctx.Err() != nil {
			interrupted = true
			break
		}
		if !c.now().Before(deadline) {
			break
		}
		if c.opts.MaxSamples > 0 && count >= c.opts.MaxSamples {
			break
		}

		raw, err := src.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("calibration read failed after %d samples: %w", count, err)
		}

		voltage := c.opts.Scale.Voltage(raw)
		set.add(raw, voltage)
		count++

		if progress != nil {
			progress(Progress{
				Count:    count,
				Raw:      raw,
				Voltage:  voltage,
				Clusters: len(set.clusters),
				Elapsed:  c.now().Sub(start),
			})
		}

		if c.opts.PollInterval > 0 {
			select {
			case <-ctx.Done():
				interrupted = true
				break loop
			case <-time.After(c.opts.PollInterval):
			}
		}
	}

	states := summarize(set.clusters, c.opts.MinSamples)
	if len(states) == 0 {
		return nil, fmt.Errorf("%w: %d samples in %d clusters, none with at least %d samples",
			ErrInsufficientData, count, len(set.clusters), c.opts.MinSamples)
	}

	return &Result{
		States:      states,
		Samples:     count,
		Clusters:    len(set.clusters),
		Interrupted: interrupted,
		Elapsed:     c.now().Sub(start),
	}, nil
}
