package main

import (
	"fmt"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/itohio/goladder/pkg/calibrate"
	"github.com/itohio/goladder/pkg/config"
)

func NewCalibrateCommand() *cobra.Command {
	var (
		duration   time.Duration
		threshold  int
		minSamples int
		maxSamples int
		write      bool
	)

	cmd := &cobra.Command{
		Use:     "calibrate",
		Aliases: []string{"cali"},
		Short:   "Discover the reading bands of every button",
		Long: `Sample the ladder for a while and cluster the readings into states.
Press and hold each button in turn, a few seconds each. The state with the
highest reading is reported as the idle (no press) state.

A suggested band table is printed at the end. Use --write to store it in
the config file.`,
		GroupID: gSetup,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			opts := calibrate.OptionsFromConfig(s.cfg)
			if duration > 0 {
				opts.Duration = duration
			}
			if threshold > 0 {
				opts.Threshold = threshold
			}
			if minSamples > 0 {
				opts.MinSamples = minSamples
			}
			opts.MaxSamples = maxSamples
			c := calibrate.New(opts)

			ctx, stop := signalContext(cmd)
			defer stop()

			out := cmd.OutOrStdout()
			printHeading(out, "CALIBRATION MODE")
			fmt.Fprintf(out, "Press each button for %s total, Ctrl+C to finish early\n", c.Options().Duration)

			res, err := c.Run(ctx, s.src, func(p calibrate.Progress) {
				fmt.Fprintf(out, "\rSamples: %4d | Raw: %4d | Voltage: %.3fV | Clusters: %d",
					p.Count, p.Raw, p.Voltage, p.Clusters)
			})
			fmt.Fprintln(out)
			if err != nil {
				return pkgerrors.Wrap(err, "calibration failed")
			}

			printCalibration(out, res)

			table, err := res.BandTable()
			if err != nil {
				return err
			}
			fmt.Fprintln(out)
			printHeading(out, "SUGGESTED BUTTON MAP:")
			fmt.Fprint(out, string(table))

			if write {
				if err := writeBands(res); err != nil {
					return err
				}
				fmt.Fprintf(out, "\nButton map saved to %s\n", configPath)
			}
			return nil
		},
	}

	cmd.Flags().DurationVarP(&duration, "duration", "d", 0, "sampling time (overrides config)")
	cmd.Flags().IntVar(&threshold, "threshold", 0, "cluster proximity in raw units (overrides config)")
	cmd.Flags().IntVar(&minSamples, "min-samples", 0, "smallest cluster kept (overrides config)")
	cmd.Flags().IntVar(&maxSamples, "samples", 0, "stop after this many readings (0 = no limit)")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "save the suggested button map to the config file")

	return cmd
}

// writeBands stores the suggested bands in the config file. The file is
// reloaded so command line overrides are not persisted.
func writeBands(res *calibrate.Result) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to load config %s", configPath)
	}

	cfg.Buttons = res.Buttons()
	if len(res.States) > 0 {
		cfg.Baseline = string(res.States[0].Symbol)
	}

	if err := cfg.Save(configPath); err != nil {
		return pkgerrors.Wrapf(err, "failed to save config %s", configPath)
	}

	logrus.WithFields(logrus.Fields{
		"file":    configPath,
		"buttons": len(cfg.Buttons),
	}).Info("saved button map")
	return nil
}
