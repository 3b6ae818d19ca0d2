package main

import (
	"errors"
	"fmt"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/itohio/goladder/pkg/adc"
	"github.com/itohio/goladder/pkg/kodi"
	"github.com/itohio/goladder/pkg/monitor"
	"github.com/itohio/goladder/pkg/publish"
)

const blinkDuration = 50 * time.Millisecond

func NewRemoteCommand() *cobra.Command {
	var (
		repeat    bool
		noKodi    bool
		noPublish bool
	)

	cmd := &cobra.Command{
		Use:   "remote",
		Short: "Use the keypad as a media remote",
		Long: `Decode button presses and forward them to a Kodi media player and/or an
MQTT broker.

Kodi actions are configured per button id under kodi.actions. Events are
published to mqtt.topic when mqtt.broker is set. With --repeat an action is
sent on every poll while its button is held.`,
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

			var dispatcher *kodi.Dispatcher
			if !noKodi && len(s.cfg.Kodi.Actions) > 0 {
				dispatcher = kodi.FromConfig(s.cfg.Kodi)
				for _, b := range dec.Bands() {
					if dec.IsButton(b.ID) && !dispatcher.Has(b.ID) {
						logrus.WithField("button", b.ID).Warn("no kodi action configured")
					}
				}
			}

			var pub *publish.Publisher
			if !noPublish && s.cfg.MQTT.Broker != "" {
				pub, err = publish.Connect(s.cfg.MQTT)
				if err != nil {
					return pkgerrors.Wrap(err, "failed to connect to mqtt broker")
				}
				defer pub.Close()
			}

			if dispatcher == nil && pub == nil {
				return errors.New("nothing to do: configure kodi.actions or mqtt.broker")
			}

			ctx, stop := signalContext(cmd)
			defer stop()

			fire := func(ev monitor.Event) {
				sym := ev.Reading.Symbol
				blink(s.indicator)
				if dispatcher == nil || !dispatcher.Has(sym) {
					return
				}
				if err := dispatcher.Dispatch(ctx, sym); err != nil {
					logrus.WithError(err).WithField("button", sym).Error("failed to send kodi command")
				}
			}

			m := monitor.New(dec, s.src, s.cfg.Poll.Interval)
			m.OnChange(func(ev monitor.Event) {
				if pub != nil {
					if err := pub.Publish(ev); err != nil {
						logrus.WithError(err).Warn("failed to publish button event")
					}
				}
				if !repeat && dec.IsButton(ev.Reading.Symbol) {
					fire(ev)
				}
			})
			if repeat {
				m.OnHold(fire)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Remote running, Ctrl+C to stop")

			summary, err := m.Run(ctx)
			printSummary(out, dec, summary)
			if err != nil {
				return pkgerrors.Wrap(err, "remote stopped")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&repeat, "repeat", false, "send the action on every poll while a button is held")
	cmd.Flags().BoolVar(&noKodi, "no-kodi", false, "do not send kodi commands")
	cmd.Flags().BoolVar(&noPublish, "no-mqtt", false, "do not publish mqtt events")

	return cmd
}

// blink flashes the device LED, if it has one.
func blink(ind adc.Indicator) {
	if ind == nil {
		return
	}
	if err := ind.SetLED(true); err != nil {
		logrus.WithError(err).Debug("failed to set led")
		return
	}
	time.Sleep(blinkDuration)
	if err := ind.SetLED(false); err != nil {
		logrus.WithError(err).Debug("failed to clear led")
	}
}
