package ladder

import (
	"fmt"

	"github.com/itohio/goladder/pkg/config"
)

// Symbol identifies a button state.
type Symbol string

const (
	// Unknown is returned for readings outside every band.
	Unknown Symbol = "UNKNOWN"
	// UnknownLabel is the display label of Unknown.
	UnknownLabel = "Unknown"
	// NoPress is the default baseline (no button actuated) symbol.
	NoPress Symbol = "NO_PRESS"
)

// Band maps an inclusive range of raw readings to a symbol.
type Band struct {
	ID    Symbol
	Min   int
	Max   int
	Label string
}

// Contains reports whether raw lies within [Min, Max].
func (b Band) Contains(raw int) bool {
	return b.Min <= raw && raw <= b.Max
}

func (b Band) validate() error {
	if b.ID == "" {
		return fmt.Errorf("band has empty id")
	}
	if b.ID == Unknown {
		return fmt.Errorf("band id %s is reserved", Unknown)
	}
	if b.Min > b.Max {
		return fmt.Errorf("band %s: min %d is greater than max %d", b.ID, b.Min, b.Max)
	}
	return nil
}

// BandsFromConfig converts the configured button table, preserving order.
func BandsFromConfig(buttons []config.ButtonConfig) []Band {
	bands := make([]Band, 0, len(buttons))
	for _, b := range buttons {
		label := b.Label
		if label == "" {
			label = b.ID
		}
		bands = append(bands, Band{
			ID:    Symbol(b.ID),
			Min:   b.Min,
			Max:   b.Max,
			Label: label,
		})
	}
	return bands
}

// ToConfig converts bands back into the configuration form.
func ToConfig(bands []Band) []config.ButtonConfig {
	buttons := make([]config.ButtonConfig, 0, len(bands))
	for _, b := range bands {
		buttons = append(buttons, config.ButtonConfig{
			ID:    string(b.ID),
			Min:   b.Min,
			Max:   b.Max,
			Label: b.Label,
		})
	}
	return buttons
}
