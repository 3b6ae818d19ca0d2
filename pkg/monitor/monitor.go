package monitor

import (
	"context"
	"errors"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/itohio/goladder/pkg/adc"
	"github.com/itohio/goladder/pkg/ladder"
)

// Event describes one decoded poll.
type Event struct {
	Time     time.Time
	Reading  ladder.Reading
	Previous ladder.Symbol // Symbol of the previous poll; empty on the first poll
}

// Summary is returned when a monitoring loop ends.
type Summary struct {
	Polls   int
	Samples map[ladder.Symbol]int // Decoder counts: polls landing on each button
	Presses map[ladder.Symbol]int // Transitions into each button
}

// Monitor polls a source, decodes every reading and reports symbol changes.
// The decoder counts every poll spent on a button; Monitor additionally
// counts presses, i.e. transitions into a button.
type Monitor struct {
	decoder  *ladder.Decoder
	src      adc.Source
	interval time.Duration
	now      func() time.Time

	mu      sync.RWMutex
	last    ladder.Symbol
	presses map[ladder.Symbol]int
	polls   int

	// Callbacks
	cbMu     sync.RWMutex
	onChange []func(Event)
	onHold   []func(Event)
}

// New creates a monitor. An interval of zero polls back to back.
func New(decoder *ladder.Decoder, src adc.Source, interval time.Duration) *Monitor {
	return &Monitor{
		decoder:  decoder,
		src:      src,
		interval: interval,
		now:      time.Now,
		presses:  make(map[ladder.Symbol]int),
	}
}

// OnChange registers a callback invoked whenever the decoded symbol differs
// from the previous poll. The first poll always counts as a change.
func (m *Monitor) OnChange(callback func(Event)) {
	m.cbMu.Lock()
	defer m.cbMu.Unlock()
	m.onChange = append(m.onChange, callback)
}

// OnHold registers a callback invoked on every poll that lands on a button,
// for as long as the button is held.
func (m *Monitor) OnHold(callback func(Event)) {
	m.cbMu.Lock()
	defer m.cbMu.Unlock()
	m.onHold = append(m.onHold, callback)
}

// Run polls until ctx is done or the source reports io.EOF. Both end the
// loop normally and return the summary. Any other source failure ends the
// loop and is returned together with the summary gathered so far.
func (m *Monitor) Run(ctx context.Context) (Summary, error) {
	for {
		if ctx.Err() != nil {
			return m.Summary(), nil
		}

		if err := m.Poll(); err != nil {
			if errors.Is(err, io.EOF) {
				return m.Summary(), nil
			}
			return m.Summary(), err
		}

		if m.interval > 0 {
			select {
			case <-ctx.Done():
				return m.Summary(), nil
			case <-time.After(m.interval):
			}
		}
	}
}

// Poll reads and decodes a single sample and notifies callbacks.
func (m *Monitor) Poll() error {
	reading, err := m.decoder.Read(m.src)
	if err != nil {
		return err
	}

	m.mu.Lock()
	ev := Event{
		Time:     m.now(),
		Reading:  reading,
		Previous: m.last,
	}
	changed := m.polls == 0 || reading.Symbol != m.last
	button := m.decoder.IsButton(reading.Symbol)
	if changed && button {
		m.presses[reading.Symbol]++
	}
	m.last = reading.Symbol
	m.polls++
	m.mu.Unlock()

	if changed {
		m.notify(m.changeCallbacks(), ev)
	}
	if button {
		m.notify(m.holdCallbacks(), ev)
	}

	return nil
}

// Last returns the symbol of the most recent poll.
func (m *Monitor) Last() ladder.Symbol {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.last
}

// Presses returns a copy of the press counts.
func (m *Monitor) Presses() map[ladder.Symbol]int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[ladder.Symbol]int, len(m.presses))
	for k, v := range m.presses {
		result[k] = v
	}
	return result
}

// Summary returns the statistics gathered so far.
func (m *Monitor) Summary() Summary {
	m.mu.RLock()
	polls := m.polls
	m.mu.RUnlock()

	return Summary{
		Polls:   polls,
		Samples: m.decoder.Counts(),
		Presses: m.Presses(),
	}
}

func (m *Monitor) changeCallbacks() []func(Event) {
	m.cbMu.RLock()
	defer m.cbMu.RUnlock()
	return slices.Clone(m.onChange)
}

func (m *Monitor) holdCallbacks() []func(Event) {
	m.cbMu.RLock()
	defer m.cbMu.RUnlock()
	return slices.Clone(m.onHold)
}

// notify invokes callbacks without holding any locks.
func (m *Monitor) notify(callbacks []func(Event), ev Event) {
	for _, cb := range callbacks {
		if cb != nil {
			cb(ev)
		}
	}
}
