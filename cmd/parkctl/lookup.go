package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sf-parking-zones/internal/domain"
	"github.com/sf-parking-zones/internal/rules"
	"github.com/sf-parking-zones/internal/usecase/dto"
)

func newLookupCmd() *cobra.Command {
	var (
		lat, lon float64
		permits  []string
		at       string
	)
	cmd := &cobra.Command{
		Use:   "lookup",
		Short: "Find the zone at a point and how long you may park there",
		RunE: func(cmd *cobra.Command, args []string) error {
			when, err := parseAt(at, a.Config.Location())
			if err != nil {
				return err
			}
			req := dto.LookupRequest{Lat: lat, Lon: lon, At: when}
			if cmd.Flags().Changed("permit") {
				req.Permits = []domain.ParkingPermit{}
				for _, p := range permits {
					permit, err := parsePermit(p)
					if err != nil {
						return err
					}
					req.Permits = append(req.Permits, permit)
				}
			}

			uc, err := a.Lookup()
			if err != nil {
				return err
			}
			resp, err := uc.Lookup(cmd.Context(), req)
			if err != nil {
				return err
			}
			if flags.json {
				return printJSON(resp)
			}

			heading.Println(resp.Zone.Name)
			field("zone", "%s (%s)", resp.Zone.ID, resp.Zone.Type)
			field("permit", "%s", validityColor(resp.Validity).Sprint(resp.Validity))
			field("park until", "%s", deadlineColor(resp.ParkUntil.Kind).Sprint(resp.ParkUntil.Description))
			if !resp.ParkUntil.Unrestricted() {
				field("remaining", "%s", resp.ParkUntil.Remaining)
			}
			if !resp.ParkUntil.ResumesAt.IsZero() {
				field("resumes", "%s", resp.ParkUntil.ResumesAt.Format("Mon 3:04 PM"))
			}
			for _, r := range resp.ActiveRules {
				field("active", "%s", describeRule(r))
			}
			for _, z := range resp.Overlapping {
				field("overlaps", "%s (%s)", z.Name, z.ID)
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude")
	cmd.Flags().Float64Var(&lon, "lon", 0, "longitude")
	cmd.Flags().StringSliceVar(&permits, "permit", nil, "permit, e.g. A, residential:A, disabled (default: stored permits)")
	cmd.Flags().StringVar(&at, "at", "", "time to evaluate (default now)")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")
	return cmd
}

func newParkUntilCmd() *cobra.Command {
	var req dto.ParkUntilRequest
	var at string
	cmd := &cobra.Command{
		Use:   "park-until",
		Short: "Compute a deadline for a single rule",
		Example: `  parkctl park-until --limit 120 --days M-F --start 8:00 --end 18:00 --at "2025-03-04 09:00"
  parkctl park-until --days Daily --start 22:00 --end 6:00`,
		RunE: func(cmd *cobra.Command, args []string) error {
			when, err := parseAt(at, a.Config.Location())
			if err != nil {
				return err
			}
			req.At = when

			uc, err := a.Lookup()
			if err != nil {
				return err
			}
			d, err := uc.ParkUntil(cmd.Context(), req)
			if err != nil {
				return err
			}
			if flags.json {
				return printJSON(d)
			}
			deadlineColor(d.Kind).Println(d.Description)
			if !d.Unrestricted() {
				field("kind", "%s", d.Kind)
				field("until", "%s", d.Until.Format("Mon Jan 2 3:04 PM"))
				field("remaining", "%s", d.Remaining)
			}
			if d.Kind == rules.KindEnforcementEnds && !d.ResumesAt.IsZero() {
				field("resumes", "%s", d.ResumesAt.Format("Mon Jan 2 3:04 PM"))
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.IntVar(&req.TimeLimitMinutes, "limit", 0, "time limit in minutes (0 means no parking while enforced)")
	f.StringVar(&req.Days, "days", "", "enforcement days, e.g. M-F, M-Sa, Daily (default every day)")
	f.StringVar(&req.Start, "start", "", "enforcement start, e.g. 8:00 or 800")
	f.StringVar(&req.End, "end", "", "enforcement end, e.g. 18:00 or 1800")
	f.StringVar(&req.Validity, "validity", "", fmt.Sprintf("permit validity (default %s)", rules.ValidityInvalid))
	f.StringVar(&at, "at", "", "time to evaluate (default now)")
	return cmd
}
