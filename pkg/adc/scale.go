package adc

const (
	// DefaultMaxRaw is the full scale reading of a 12-bit converter.
	DefaultMaxRaw = 4095
	// DefaultVRef is the converter reference voltage.
	DefaultVRef = 3.3
)

// Scale converts raw readings to volts. Purely presentational.
type Scale struct {
	MaxRaw int
	VRef   float64
}

// DefaultScale returns the scale of a 12-bit converter with a 3.3V reference.
func DefaultScale() Scale {
	return Scale{MaxRaw: DefaultMaxRaw, VRef: DefaultVRef}
}

// Voltage converts a raw reading to voltage: raw / MaxRaw * VRef.
func (s Scale) Voltage(raw int) float64 {
	maxRaw := s.MaxRaw
	if maxRaw <= 0 {
		maxRaw = DefaultMaxRaw
	}
	return (float64(raw) / float64(maxRaw)) * s.VRef
}
