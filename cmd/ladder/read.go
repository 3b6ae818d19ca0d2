package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/itohio/goladder/pkg/monitor"
)

func NewReadCommand() *cobra.Command {
	var pressesOnly bool

	cmd := &cobra.Command{
		Use:     "read",
		Short:   "Continuously decode readings and print button changes",
		Long:    "Decode readings until Ctrl+C and print a line whenever the decoded button changes. Press statistics are printed on exit.",
		GroupID: gMonitor,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			dec, err := s.decoder()
			if err != nil {
				return err
			}

			ctx, stop := signalContext(cmd)
			defer stop()

			out := cmd.OutOrStdout()
			printHeading(out, "Analog Button Reader (Ctrl+C to stop)")
			if pressesOnly {
				fmt.Fprintln(out, "Waiting for button presses...")
			} else {
				fmt.Fprintln(out, formatReadingHeader())
			}

			m := monitor.New(dec, s.src, s.cfg.Poll.Interval)
			m.OnChange(func(ev monitor.Event) {
				sym := ev.Reading.Symbol
				if pressesOnly {
					if dec.IsButton(sym) {
						fmt.Fprintf(out, "Pressed: %s | Raw: %d | Voltage: %.3fV\n",
							paint(dec, sym, ev.Reading.Label), ev.Reading.Raw, ev.Reading.Voltage)
					}
					return
				}
				fmt.Fprintln(out, paint(dec, sym, formatReading(ev.Reading)))
			})

			summary, err := m.Run(ctx)
			printSummary(out, dec, summary)
			if err != nil {
				return pkgerrors.Wrap(err, "reading stopped")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&pressesOnly, "presses", false, "only print button presses")

	return cmd
}

func NewSingleCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "single",
		Short:   "Show a live single-line reading",
		GroupID: gMonitor,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			dec, err := s.decoder()
			if err != nil {
				return err
			}

			ctx, stop := signalContext(cmd)
			defer stop()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Single reading test (press any button, Ctrl+C to stop):")
			defer fmt.Fprintln(out)

			for {
				r, err := dec.Read(s.src)
				if err != nil {
					if errors.Is(err, io.EOF) {
						return nil
					}
					return pkgerrors.Wrap(err, "failed to read")
				}
				fmt.Fprintf(out, "\r%s", paint(dec, r.Symbol, formatSingle(r)))

				select {
				case <-ctx.Done():
					return nil
				case <-time.After(s.cfg.Poll.SingleInterval):
				}
			}
		},
	}
}
