package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/itohio/goladder/pkg/adc"
	"github.com/itohio/goladder/pkg/config"
	"github.com/itohio/goladder/pkg/ladder"
)

// session is an open sample source together with the configuration it was
// opened with.
type session struct {
	cfg       *config.Config
	src       adc.Source
	indicator adc.Indicator // nil when the source has no LED
	closeFn   func() error
}

// loadConfig loads the config file and applies command line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to load config %s", configPath)
	}

	if portOverride != "" {
		cfg.Serial.Port = portOverride
	}
	if averageSamples >= 0 {
		cfg.ADC.AverageSamples = averageSamples
	}

	return cfg, nil
}

// openSession opens the sample source selected by the global flags: a
// replay file, the simulated device or the serial port, in that order.
func openSession() (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	s := &session{cfg: cfg, closeFn: func() error { return nil }}

	if replayPath != "" {
		r, err := adc.LoadReplay(replayPath)
		if err != nil {
			return nil, pkgerrors.Wrapf(err, "failed to load replay %s", replayPath)
		}
		logrus.WithFields(logrus.Fields{
			"file":    replayPath,
			"samples": r.Len(),
		}).Info("replaying recorded samples")
		s.src = r
	} else {
		var dev adc.Device
		name := cfg.Serial.Port
		if useMock {
			mock := adc.NewMock(&cfg.Mock)
			mock.SetMaxRaw(cfg.ADC.MaxRaw)
			dev = mock
			name = "mock"
		} else {
			port := adc.New(cfg.Serial.Port, cfg.Serial.BaudRate, adc.DefaultBufferSize)
			port.SetMaxRaw(cfg.ADC.MaxRaw)
			dev = port
		}

		if err := dev.Connect(); err != nil {
			return nil, pkgerrors.Wrapf(err, "failed to connect to %s", name)
		}
		logrus.WithField("device", name).Info("connected")

		s.src = dev
		s.closeFn = dev.Close
		if ind, ok := dev.(adc.Indicator); ok {
			s.indicator = ind
		}
	}

	if cfg.ADC.AverageSamples > 1 {
		s.src = adc.NewAveraging(s.src, cfg.ADC.AverageSamples)
	}

	return s, nil
}

func (s *session) decoder() (*ladder.Decoder, error) {
	dec, err := ladder.FromConfig(s.cfg)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "invalid button map")
	}
	return dec, nil
}

func (s *session) Close() {
	if err := s.closeFn(); err != nil {
		logrus.WithError(err).Warn("failed to close device")
	}
}

// signalContext returns a context cancelled on Ctrl+C.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}
