package calibrate

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/itohio/goladder/pkg/config"
	"github.com/itohio/goladder/pkg/ladder"
)

// State describes one distinct ladder state found during calibration.
type State struct {
	Symbol       ladder.Symbol
	Label        string
	Baseline     bool
	Center       int // Reading that seeded the cluster
	SampleCount  int
	RawMin       int
	RawMax       int
	RawAvg       float64
	VoltageAvg   float64
	Margin       int
	SuggestedMin int
	SuggestedMax int
}

// Result is the outcome of a calibration run. States are ordered by
// descending reading; the first one is the baseline.
type Result struct {
	States      []State
	Samples     int           // Readings taken
	Clusters    int           // Clusters found before noise filtering
	Interrupted bool          // Run was cancelled before its duration elapsed
	Elapsed     time.Duration // Sampling time
}

// Bands returns the suggested band table, baseline first.
func (r *Result) Bands() []ladder.Band {
	bands := make([]ladder.Band, 0, len(r.States))
	for _, s := range r.States {
		bands = append(bands, ladder.Band{
			ID:    s.Symbol,
			Min:   s.SuggestedMin,
			Max:   s.SuggestedMax,
			Label: s.Label,
		})
	}
	return bands
}

// Buttons returns the suggested band table in configuration form.
func (r *Result) Buttons() []config.ButtonConfig {
	return ladder.ToConfig(r.Bands())
}

// BandTable renders the suggested bands as a YAML "buttons" section that can
// be pasted into the configuration file.
func (r *Result) BandTable() ([]byte, error) {
	doc := struct {
		Buttons []config.ButtonConfig `yaml:"buttons"`
	}{
		Buttons: r.Buttons(),
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal band table: %w", err)
	}
	return data, nil
}
