package ladder

import (
	"fmt"
	"sync"

	"github.com/itohio/goladder/pkg/adc"
	"github.com/itohio/goladder/pkg/config"
)

// Reading is the result of decoding one raw sample.
type Reading struct {
	Symbol  Symbol
	Label   string
	Raw     int
	Voltage float64 // Display only; never used for matching
}

// Decoder maps raw readings to symbols using an ordered band table and
// keeps per-symbol activation counts.
type Decoder struct {
	bands    []Band
	baseline Symbol
	scale    adc.Scale

	mu     sync.Mutex
	counts map[Symbol]int
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithBaseline sets the symbol that represents "no button actuated".
// Decodes landing on it are not counted.
func WithBaseline(s Symbol) Option {
	return func(d *Decoder) {
		d.baseline = s
	}
}

// WithScale sets the converter scale used for the display voltage.
func WithScale(s adc.Scale) Option {
	return func(d *Decoder) {
		d.scale = s
	}
}

// New creates a decoder over a copy of bands. Bands are matched in the given
// order. Overlaps are not rejected: the earlier band wins.
func New(bands []Band, opts ...Option) (*Decoder, error) {
	d := &Decoder{
		bands:    make([]Band, len(bands)),
		baseline: NoPress,
		scale:    adc.DefaultScale(),
		counts:   make(map[Symbol]int, len(bands)),
	}
	copy(d.bands, bands)

	for _, opt := range opts {
		opt(d)
	}

	for _, b := range d.bands {
		if err := b.validate(); err != nil {
			return nil, err
		}
		if _, dup := d.counts[b.ID]; dup {
			return nil, fmt.Errorf("duplicate band id %s", b.ID)
		}
		d.counts[b.ID] = 0
	}

	return d, nil
}

// FromConfig creates a decoder from the button table, baseline and ADC
// settings of cfg.
func FromConfig(cfg *config.Config) (*Decoder, error) {
	return New(
		BandsFromConfig(cfg.Buttons),
		WithBaseline(Symbol(cfg.Baseline)),
		WithScale(adc.Scale{MaxRaw: cfg.ADC.MaxRaw, VRef: cfg.ADC.VRef}),
	)
}

// Decode returns the first band containing raw, or Unknown. If the band is
// not the baseline its counter is incremented, on every call.
func (d *Decoder) Decode(raw int) Reading {
	r := Reading{
		Symbol:  Unknown,
		Label:   UnknownLabel,
		Raw:     raw,
		Voltage: d.scale.Voltage(raw),
	}

	for _, b := range d.bands {
		if !b.Contains(raw) {
			continue
		}
		r.Symbol = b.ID
		r.Label = b.Label
		if b.ID != d.baseline {
			d.mu.Lock()
			d.counts[b.ID]++
			d.mu.Unlock()
		}
		break
	}

	return r
}

// Read takes one reading from src and decodes it. Source errors are returned
// unchanged and leave the counters untouched.
func (d *Decoder) Read(src adc.Source) (Reading, error) {
	raw, err := src.Read()
	if err != nil {
		return Reading{}, err
	}
	return d.Decode(raw), nil
}

// Voltage converts raw to volts using the decoder's scale.
func (d *Decoder) Voltage(raw int) float64 {
	return d.scale.Voltage(raw)
}

// Count returns the activation count of s.
func (d *Decoder) Count(s Symbol) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.counts[s]
}

// Counts returns a copy of all activation counts, including zeros.
func (d *Decoder) Counts() map[Symbol]int {
	d.mu.Lock()
	defer d.mu.Unlock()

	result := make(map[Symbol]int, len(d.counts))
	for k, v := range d.counts {
		result[k] = v
	}
	return result
}

// ResetCounts sets every activation count back to zero.
func (d *Decoder) ResetCounts() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for k := range d.counts {
		d.counts[k] = 0
	}
}

// Bands returns a copy of the band table in match order.
func (d *Decoder) Bands() []Band {
	result := make([]Band, len(d.bands))
	copy(result, d.bands)
	return result
}

// Baseline returns the baseline symbol.
func (d *Decoder) Baseline() Symbol {
	return d.baseline
}

// Label returns the display label of s, or s itself if it has no band.
func (d *Decoder) Label(s Symbol) string {
	if s == Unknown {
		return UnknownLabel
	}
	for _, b := range d.bands {
		if b.ID == s {
			return b.Label
		}
	}
	return string(s)
}

// IsButton reports whether s is a configured symbol other than the baseline.
func (d *Decoder) IsButton(s Symbol) bool {
	if s == d.baseline || s == Unknown {
		return false
	}
	for _, b := range d.bands {
		if b.ID == s {
			return true
		}
	}
	return false
}
