package main

import (
	"fmt"

	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/itohio/goladder/pkg/adc"
	"github.com/itohio/goladder/pkg/ladder"
)

func NewMapCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "map",
		Short:   "Print the current button map",
		GroupID: gSetup,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			dec, err := ladder.FromConfig(cfg)
			if err != nil {
				return pkgerrors.Wrap(err, "invalid button map")
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Current button map configuration:")
			for _, b := range dec.Bands() {
				fmt.Fprintln(out, formatBand(b))
			}
			fmt.Fprintf(out, "Baseline: %s\n", dec.Baseline())
			return nil
		},
	}
}

func NewPortsCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "ports",
		Short:   "List available serial ports",
		GroupID: gSetup,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ports, err := adc.Ports()
			if err != nil {
				return pkgerrors.Wrap(err, "failed to list serial ports")
			}

			out := cmd.OutOrStdout()
			if len(ports) == 0 {
				fmt.Fprintln(out, "No serial ports found")
				return nil
			}
			for _, p := range ports {
				if p.Description != "" && p.Description != p.Name {
					fmt.Fprintf(out, "%s\t%s\n", bold("%s", p.Name), p.Description)
				} else {
					fmt.Fprintln(out, bold("%s", p.Name))
				}
			}
			return nil
		},
	}
}
