package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/itohio/goladder/pkg/calibrate"
	"github.com/itohio/goladder/pkg/ladder"
	"github.com/itohio/goladder/pkg/monitor"
)

var (
	bold    = color.New(color.Bold).SprintfFunc()
	pressed = color.New(color.FgGreen, color.Bold).SprintfFunc()
	idle    = color.New(color.Faint).SprintfFunc()
	warn    = color.New(color.FgYellow).SprintfFunc()
)

const rule = 60

func printHeading(w io.Writer, title string) {
	fmt.Fprintln(w, strings.Repeat("=", rule))
	fmt.Fprintln(w, bold("%s", title))
	fmt.Fprintln(w, strings.Repeat("=", rule))
}

// paint colors s by the kind of symbol it belongs to.
func paint(dec *ladder.Decoder, sym ladder.Symbol, s string) string {
	switch {
	case sym == ladder.Unknown:
		return warn("%s", s)
	case dec.IsButton(sym):
		return pressed("%s", s)
	default:
		return idle("%s", s)
	}
}

func formatReadingHeader() string {
	return fmt.Sprintf("%-12s %-12s %-8s %-8s", "State", "Name", "Raw", "Voltage")
}

func formatReading(r ladder.Reading) string {
	return fmt.Sprintf("%-12s %-12s %-8d %.3fV", r.Symbol, r.Label, r.Raw, r.Voltage)
}

func formatSingle(r ladder.Reading) string {
	return fmt.Sprintf("Button: %-12s | Raw: %4d | Voltage: %.3fV", r.Label, r.Raw, r.Voltage)
}

func formatBand(b ladder.Band) string {
	return fmt.Sprintf("%-12s: min=%4d, max=%4d (%s)", b.ID, b.Min, b.Max, b.Label)
}

// printSummary prints the presses and held samples of every button, in band
// order. Buttons that were never pressed are skipped.
func printSummary(w io.Writer, dec *ladder.Decoder, s monitor.Summary) {
	fmt.Fprintln(w)
	printHeading(w, "STATISTICS:")
	fmt.Fprintf(w, "Polls: %d\n", s.Polls)

	printed := false
	for _, b := range dec.Bands() {
		if s.Presses[b.ID] == 0 && s.Samples[b.ID] == 0 {
			continue
		}
		printed = true
		fmt.Fprintf(w, "%s: %d presses, %d samples\n", b.Label, s.Presses[b.ID], s.Samples[b.ID])
	}
	if !printed {
		fmt.Fprintln(w, "No buttons pressed")
	}
}

func printCalibration(w io.Writer, res *calibrate.Result) {
	fmt.Fprintln(w)
	printHeading(w, "CALIBRATION RESULTS:")
	fmt.Fprintf(w, "Samples: %d, clusters: %d, states: %d, elapsed: %s\n",
		res.Samples, res.Clusters, len(res.States), res.Elapsed.Round(100*time.Millisecond))
	if res.Interrupted {
		fmt.Fprintln(w, warn("Calibration was interrupted; results are partial"))
	}

	for _, s := range res.States {
		fmt.Fprintln(w)
		fmt.Fprintln(w, bold("%s (%s)", s.Label, s.Symbol))
		fmt.Fprintf(w, "  Samples: %d\n", s.SampleCount)
		fmt.Fprintf(w, "  Raw: min=%d, max=%d, avg=%.1f\n", s.RawMin, s.RawMax, s.RawAvg)
		fmt.Fprintf(w, "  Voltage: %.3fV\n", s.VoltageAvg)
		fmt.Fprintf(w, "  Suggested range: %d-%d (margin %d)\n", s.SuggestedMin, s.SuggestedMax, s.Margin)
	}
}
