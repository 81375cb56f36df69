package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/sf-parking-zones/internal/export"
	"github.com/sf-parking-zones/internal/usecase/dto"
	"github.com/sf-parking-zones/internal/validate"
)

func newValidateCmd() *cobra.Command {
	var (
		in, previous string
		skipMeters   bool
	)
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a pipeline bundle for quality problems",
		RunE: func(cmd *cobra.Command, args []string) error {
			if in == "" {
				latest, err := export.FindLatest(a.Config.Data.OutputDir)
				if err != nil {
					return err
				}
				in = latest
			}
			b, err := export.ReadBundle(in)
			if err != nil {
				return err
			}
			res := a.Validator.Validate(b, validate.Options{SkipMeters: skipMeters || len(b.Meters) == 0})

			var inc *validate.Result
			if previous != "" {
				prev, err := export.ReadBundle(previous)
				if err != nil {
					return err
				}
				inc = a.Validator.Incremental(b, prev)
			}

			if flags.json {
				return printJSON(map[string]interface{}{"validation": res, "incremental": inc})
			}
			heading.Println(in)
			printValidation(res, inc)
			if !res.Valid {
				return fmt.Errorf("validation failed with %d errors", len(res.Errors))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "bundle to check (default the latest in DATA_OUTPUT_DIR)")
	cmd.Flags().StringVar(&previous, "previous", "", "earlier bundle for change detection")
	cmd.Flags().BoolVar(&skipMeters, "skip-meters", false, "skip meter checks")
	return cmd
}

func printValidation(res, inc *validate.Result) {
	if res.Valid {
		field("result", "%s", good.Sprint("valid"))
	} else {
		field("result", "%s", bad.Sprint("invalid"))
	}
	keys := make([]string, 0, len(res.Stats))
	for k := range res.Stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		field(k, "%d", res.Stats[k])
	}
	printIssues(res.Errors, res.Warnings)
	if inc != nil {
		printIssues(inc.Errors, inc.Warnings)
	}
}

func newPipelineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pipeline",
		Short: "Build the zone dataset from DataSF",
	}

	var req dto.PipelineRunRequest
	run := &cobra.Command{
		Use:   "run",
		Short: "Fetch, transform, simplify, validate and export now",
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Reason == "" {
				req.Reason = "manual"
			}
			report, err := a.Pipeline.Run(cmd.Context(), req)
			if report != nil {
				if flags.json {
					if jerr := printJSON(report); jerr != nil {
						return jerr
					}
				} else {
					printReport(report)
				}
			}
			return err
		},
	}
	run.Flags().BoolVar(&req.SkipMeters, "skip-meters", false, "do not fetch parking meters")
	run.Flags().StringVar(&req.Preset, "preset", "", "simplification preset (default the active preset)")
	run.Flags().StringVar(&req.Previous, "previous", "", "bundle for change detection (default the latest output)")
	run.Flags().StringVar(&req.Reason, "reason", "", "note recorded in the run log")

	var treq dto.PipelineRunRequest
	trigger := &cobra.Command{
		Use:   "trigger",
		Short: "Ask the running worker to refresh the dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := a.Pipeline.RequestRun(cmd.Context(), treq)
			if err != nil {
				return err
			}
			if flags.json {
				return printJSON(msg)
			}
			good.Printf("run requested: %s\n", msg.RequestID)
			return nil
		},
	}
	trigger.Flags().BoolVar(&treq.SkipMeters, "skip-meters", false, "do not fetch parking meters")
	trigger.Flags().StringVar(&treq.Preset, "preset", "", "simplification preset")
	trigger.Flags().StringVar(&treq.Reason, "reason", "", "note recorded in the run log")

	status := &cobra.Command{
		Use:   "status",
		Short: "Show the last published dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			event, err := a.Pipeline.LastPublished(cmd.Context())
			if err != nil {
				return err
			}
			if event == nil {
				if latest, ferr := export.FindLatest(a.Config.Data.OutputDir); ferr == nil {
					faint.Printf("nothing published; latest local bundle is %s\n", latest)
					return nil
				}
				faint.Println("nothing published yet")
				return nil
			}
			if flags.json {
				return printJSON(event)
			}
			heading.Printf("version %s\n", event.Version)
			field("generated", "%s (%s ago)", event.GeneratedAt.In(a.Config.Location()).Format("Mon Jan 2 3:04 PM"),
				time.Since(event.GeneratedAt).Round(time.Minute))
			field("zones", "%d", event.Zones)
			field("meters", "%d", event.Meters)
			field("warnings", "%d", event.Warnings)
			field("asset", "%s", event.AssetPath)
			return nil
		},
	}

	cmd.AddCommand(run, trigger, status)
	return cmd
}

func printReport(r *dto.RunReport) {
	heading.Printf("run %s  version %s\n", r.RunID, r.Version)
	names := make([]string, 0, len(r.RecordCounts))
	for k := range r.RecordCounts {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		took := ""
		if d, ok := r.FetchDurations[k]; ok {
			took = faint.Sprintf(" in %s", d.Round(time.Millisecond))
		}
		field(k, "%d%s", r.RecordCounts[k], took)
	}
	field("output", "%d zones, %d meters, %d regulations", r.Zones, r.Meters, r.Regulations)
	if r.Simplification != nil {
		printMetrics(*r.Simplification)
	}
	if r.Validation != nil {
		printValidation(r.Validation, r.Incremental)
	}
	if r.Paths != nil {
		field("asset", "%s", r.Paths.Asset)
		field("bundle", "%s", r.Paths.Bundle)
	}
	if r.Published {
		field("published", "%s", good.Sprint("yes"))
	}
	field("took", "%s", r.Duration.Round(time.Millisecond))
}
