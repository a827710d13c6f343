package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/vedantwpatil/mouse-macro/internal/calibration"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

func NewCalibrationCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "calibration",
		Aliases: []string{"cal"},
		Short:   "Inspect or reset the stored calibration",
	}
	cmd.AddCommand(
		newCalibrationShowCommand(),
		newCalibrationResetCommand(),
	)
	return cmd
}

func newCalibrationShowCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the calibration applied on replay",
		Long: `Print the calibration applied on replay.

If the calibration file is missing or unusable, the screen metrics are
detected and saved first, exactly as on a normal start.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store := newStore(cfg)
			p, err := store.Load()
			if err != nil {
				return err
			}
			return writeParams(cmd.OutOrStdout(), format, store.Path(), p)
		},
	}
	cmd.Flags().StringVarP(&format, "output", "o", formatText, "output format (text, json, yaml)")
	return cmd
}

func newCalibrationResetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Replace the stored calibration with the detected screen metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store := newStore(cfg)
			p, err := store.Detect()
			if err != nil {
				return err
			}
			if err := store.Save(p); err != nil {
				return err
			}
			return writeParams(cmd.OutOrStdout(), formatText, store.Path(), p)
		},
	}
}

func writeParams(w io.Writer, format, path string, p calibration.Params) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	case formatYAML:
		out, err := yaml.MarshalWithOptions(p, yaml.Indent(2))
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	case formatText:
		bold := color.New(color.Bold).SprintFunc()
		fmt.Fprintf(w, "%s %s\n", bold("File:  "), path)
		fmt.Fprintf(w, "%s (%g, %g)\n", bold("Scale: "), p.ScaleX, p.ScaleY)
		fmt.Fprintf(w, "%s (%g, %g)\n", bold("Offset:"), p.OffsetX, p.OffsetY)
		fmt.Fprintf(w, "%s %dx%d\n", bold("Screen:"), p.ScreenWidth, p.ScreenHeight)
		return nil
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
