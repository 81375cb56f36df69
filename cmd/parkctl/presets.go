package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sf-parking-zones/internal/repository/asset"
	"github.com/sf-parking-zones/internal/simplification"
)

func newSimplifyCmd() *cobra.Command {
	var in, out, preset string
	cmd := &cobra.Command{
		Use:   "simplify",
		Short: "Run a simplification preset over a zone asset",
		RunE: func(cmd *cobra.Command, args []string) error {
			if in == "" {
				in = a.Config.Data.ZonesPath
			}
			ds, err := asset.LoadDataset(in)
			if err != nil {
				return err
			}
			res, c, err := a.Presets.Simplify(cmd.Context(), ds.Zones, preset, a.Config.Simplification.Preset)
			if err != nil {
				return err
			}

			if out != "" {
				ds.Zones = res.Zones
				data, err := json.MarshalIndent(ds, "", "  ")
				if err != nil {
					return err
				}
				if err := os.WriteFile(out, data, 0o644); err != nil {
					return err
				}
			}
			if flags.json {
				return printJSON(map[string]interface{}{"preset": c.Name, "metrics": res.Metrics, "output": out})
			}

			heading.Printf("%s\n", c.Name)
			printMetrics(res.Metrics)
			if out != "" {
				field("written", "%s", out)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "zone asset (default DATA_ZONES_PATH)")
	cmd.Flags().StringVar(&out, "out", "", "write the simplified asset here")
	cmd.Flags().StringVar(&preset, "preset", "", "preset name (default the active preset)")
	return cmd
}

func printMetrics(m simplification.Metrics) {
	field("zones", "%d", m.Zones)
	field("points", "%d -> %d (%.1f%% fewer)", m.PointsBefore, m.PointsAfter, m.ReductionPercent)
	field("area drift", "max %.2f%%", m.MaxAreaDeviation*100)
	if m.DroppedRings > 0 || m.RestoredZones > 0 {
		field("dropped", "%d rings, %d zones kept original", m.DroppedRings, m.RestoredZones)
	}
	field("took", "%s", m.Duration)
}

func newCompareCmd() *cobra.Command {
	var (
		in           string
		maxDeviation float64
	)
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Score every preset over a zone asset",
		RunE: func(cmd *cobra.Command, args []string) error {
			if in == "" {
				in = a.Config.Data.ZonesPath
			}
			if !cmd.Flags().Changed("max-deviation") {
				maxDeviation = a.Config.Simplification.MaxAreaDeviation
			}
			ds, err := asset.LoadDataset(in)
			if err != nil {
				return err
			}
			ranked, err := a.Presets.Compare(cmd.Context(), ds.Zones, maxDeviation)
			if err != nil {
				return err
			}
			if flags.json {
				return printJSON(ranked)
			}

			heading.Printf("%-14s %10s %10s %9s %9s\n", "preset", "points", "reduction", "drift", "fidelity")
			for _, r := range ranked {
				m := r.Candidate.Metrics
				fidelity := good.Sprint("ok")
				if !r.WithinFidelity {
					fidelity = bad.Sprint("over")
				}
				fmt.Printf("%-14s %10d %9.1f%% %8.2f%% %9s\n",
					r.Candidate.Name, m.PointsAfter, m.ReductionPercent, m.MaxAreaDeviation*100, fidelity)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "zone asset (default DATA_ZONES_PATH)")
	cmd.Flags().Float64Var(&maxDeviation, "max-deviation", 0, "largest acceptable area change as a fraction (default SIMPLIFICATION_MAX_AREA_DEVIATION)")
	return cmd
}

func newPresetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preset",
		Short: "Manage simplification presets",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List built-in and saved presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			all, err := a.Presets.List(cmd.Context())
			if err != nil {
				return err
			}
			if flags.json {
				return printJSON(all)
			}
			active, _ := a.Presets.Resolve(cmd.Context(), "", a.Config.Simplification.Preset)
			for _, c := range all {
				marker := "  "
				if c.Name == active.Name {
					marker = good.Sprint("* ")
				}
				fmt.Printf("%s%-14s %s\n", marker, c.Name, faint.Sprint(c.Description))
			}
			return nil
		},
	}

	var format string
	export := &cobra.Command{
		Use:   "export NAME",
		Short: "Print a preset for sharing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := simplification.ParseFormat(format)
			if err != nil {
				return err
			}
			data, err := a.Presets.Export(cmd.Context(), args[0], f)
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(append(data, '\n'))
			return err
		},
	}
	export.Flags().StringVar(&format, "format", "json", "json or yaml")

	importCmd := &cobra.Command{
		Use:   "import [FILE]",
		Short: "Save a preset from a JSON or YAML file, or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if len(args) == 0 || args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return err
			}
			c, err := a.Presets.Import(cmd.Context(), data)
			if err != nil {
				return err
			}
			good.Printf("saved preset %s\n", c.Name)
			return nil
		},
	}

	use := &cobra.Command{
		Use:   "use NAME",
		Short: "Make a preset the default",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.Presets.SetActive(cmd.Context(), args[0]); err != nil {
				return err
			}
			good.Printf("active preset: %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, export, importCmd, use)
	return cmd
}
