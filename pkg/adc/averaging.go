package adc

// Averaging wraps a Source and returns the mean of several consecutive
// readings, rounded to the nearest integer. This reduces noise in the
// readings at the cost of a slower effective sample rate.
type Averaging struct {
	src        Source
	windowSize int
}

// NewAveraging creates an averaging source. A window of 1 or less passes
// readings through unchanged.
func NewAveraging(src Source, windowSize int) *Averaging {
	if windowSize <= 0 {
		windowSize = 1 // No averaging if invalid
	}
	return &Averaging{src: src, windowSize: windowSize}
}

// Read takes windowSize readings and returns their rounded mean. The first
// error from the wrapped source is returned as is.
func (a *Averaging) Read() (int, error) {
	var sum int
	for range a.windowSize {
		v, err := a.src.Read()
		if err != nil {
			return 0, err
		}
		sum += v
	}

	n := a.windowSize
	if sum >= 0 {
		return (sum + n/2) / n, nil // Round to nearest
	}
	return (sum - n/2) / n, nil
}
