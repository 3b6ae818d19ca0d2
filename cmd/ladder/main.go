package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/itohio/goladder/pkg/adc"
	"github.com/itohio/goladder/pkg/calibrate"
	"github.com/itohio/goladder/pkg/publish"
)

var (
	logLevel       = "info"
	configPath     = "config.yaml"
	portOverride   = ""
	replayPath     = ""
	useMock        = false
	averageSamples = -1
)

var (
	gMonitor      = "Monitor:"
	gSetup        = "Setup:"
	commandGroups = []string{
		gMonitor,
		gSetup,
	}
)

func setupLogger() error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{})
	if term.IsTerminal(int(os.Stderr.Fd())) {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.Kitchen,
		})
	}

	return nil
}

func handleCmdError(err error) {
	switch {
	case errors.Is(err, calibrate.ErrInsufficientData):
		fmt.Fprintln(os.Stderr, "\nError: no stable readings were collected")
		fmt.Fprintln(os.Stderr, "  - Press each button for a few seconds during calibration")
		fmt.Fprintln(os.Stderr, "  - Or increase --duration / --threshold")
	case errors.Is(err, adc.ErrNotConnected):
		fmt.Fprintln(os.Stderr, "\nError: the ladder device is not connected")
		fmt.Fprintln(os.Stderr, "Is the board plugged in? List candidates with 'ladder ports'.")
	case errors.Is(err, publish.ErrNoBroker):
		fmt.Fprintln(os.Stderr, "\nError: set mqtt.broker in the config file to publish events")
	}
}

func main() {
	cmd := NewCommand()
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		handleCmdError(err)
		os.Exit(1)
	}
}

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ladder",
		Short: "ladder decodes an analog resistor-ladder keypad",
		Long: `ladder reads a resistor-ladder keypad through a single ADC channel,
decodes readings into buttons and calibrates the voltage bands of each button.

Readings come from the Pico firmware over a serial port, a simulated device
(--mock) or a recorded file (--replay).`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return setupLogger()
		},
	}

	globalFlags := cmd.PersistentFlags()
	globalFlags.StringVarP(&logLevel, "log-level", "l", "info", "log level (trace, debug, info, warn, error, fatal, panic)")
	globalFlags.StringVar(&configPath, "config", configPath, "config file path")
	globalFlags.StringVarP(&portOverride, "port", "p", "", "serial port override (e.g., COM3 or /dev/ttyACM0)")
	globalFlags.BoolVar(&useMock, "mock", false, "use a simulated device instead of the serial port")
	globalFlags.StringVar(&replayPath, "replay", "", "read samples from a recorded file instead of a device")
	globalFlags.IntVar(&averageSamples, "average-samples", -1, "number of readings averaged per sample (0 = disabled, overrides config)")

	for _, i := range commandGroups {
		cmd.AddGroup(&cobra.Group{
			ID:    i,
			Title: i,
		})
	}

	cmd.AddCommand(
		NewReadCommand(),
		NewSingleCommand(),
		NewRemoteCommand(),
		NewCalibrateCommand(),
		NewMapCommand(),
		NewPortsCommand(),
	)

	return cmd
}
