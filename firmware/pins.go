//go:build tinygo

package main

import "machine"

const (
	// Sampling configuration
	SAMPLE_INTERVAL_MS = 5  // ADC read interval in milliseconds
	NUM_SAMPLES        = 10 // Number of readings averaged per output line

	// ADC configuration. machine.ADC.Get scales every reading to 16 bits.
	ADC_REFERENCE_MV = 3300
	ADC_RESOLUTION   = 12
	ADC_SHIFT        = 16 - ADC_RESOLUTION

	// Ladder input (GP26) and on-board LED
	PIN_LADDER = machine.ADC0
	PIN_LED    = machine.LED

	// Format "unix_micros,reading\n", at most ~22 bytes per line at 20 lines/sec.
	// USB CDC ignores the rate; it is kept for UART bridges.
	UART_BAUD_RATE = 115200
)
