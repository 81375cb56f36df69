package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sf-parking-zones/internal/domain"
	"github.com/sf-parking-zones/internal/usecase/dto"
)

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Track a parking session",
	}

	var (
		lat, lon float64
		at       string
	)
	start := &cobra.Command{
		Use:   "start",
		Short: "Start parking at a point; an open session is ended first",
		RunE: func(cmd *cobra.Command, args []string) error {
			when, err := parseAt(at, a.Config.Location())
			if err != nil {
				return err
			}
			uc, err := a.Sessions()
			if err != nil {
				return err
			}
			resp, err := uc.Start(cmd.Context(), dto.StartSessionRequest{Lat: lat, Lon: lon, At: when})
			if err != nil {
				return err
			}
			return printSession(resp)
		},
	}
	start.Flags().Float64Var(&lat, "lat", 0, "latitude")
	start.Flags().Float64Var(&lon, "lon", 0, "longitude")
	start.Flags().StringVar(&at, "at", "", "start time (default now)")
	_ = start.MarkFlagRequired("lat")
	_ = start.MarkFlagRequired("lon")

	status := &cobra.Command{
		Use:   "status",
		Short: "Show the open session",
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := a.Sessions()
			if err != nil {
				return err
			}
			resp, err := uc.Active(cmd.Context(), time.Time{})
			if err != nil {
				return err
			}
			return printSession(resp)
		},
	}

	end := &cobra.Command{
		Use:   "end",
		Short: "End the open session",
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := a.Sessions()
			if err != nil {
				return err
			}
			resp, err := uc.End(cmd.Context(), time.Time{})
			if err != nil {
				return err
			}
			return printSession(resp)
		},
	}

	history := &cobra.Command{
		Use:   "history",
		Short: "List finished sessions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := a.Sessions()
			if err != nil {
				return err
			}
			sessions, err := uc.History(cmd.Context())
			if err != nil {
				return err
			}
			if flags.json {
				return printJSON(sessions)
			}
			if len(sessions) == 0 {
				faint.Println("no sessions yet")
				return nil
			}
			loc := a.Config.Location()
			for _, s := range sessions {
				ended := "-"
				if s.EndTime != nil {
					ended = s.EndTime.In(loc).Format("3:04 PM")
				}
				fmt.Printf("%s  %s-%s  %s\n",
					s.StartTime.In(loc).Format("Mon Jan 2"),
					s.StartTime.In(loc).Format("3:04 PM"),
					ended,
					s.ZoneName)
			}
			return nil
		},
	}

	cmd.AddCommand(start, status, end, history)
	return cmd
}

func printSession(resp *dto.SessionResponse) error {
	if flags.json {
		return printJSON(resp)
	}
	loc := a.Config.Location()
	s := resp.Session

	heading.Println(s.ZoneName)
	switch resp.Status {
	case domain.SessionStatusActive:
		field("status", "%s", good.Sprint(resp.Status))
	case domain.SessionStatusExpired:
		field("status", "%s", bad.Sprint(resp.Status))
	default:
		field("status", "%s", resp.Status)
	}
	field("started", "%s", s.StartTime.In(loc).Format("Mon Jan 2 3:04 PM"))
	field("deadline", "%s", resp.Description)
	if resp.Remaining > 0 {
		field("remaining", "%s", resp.Remaining.Round(time.Minute))
	}
	rules := make([]string, len(s.Rules))
	for i, r := range s.Rules {
		rules[i] = describeRule(r)
	}
	if len(rules) > 0 {
		field("rules", "%s", strings.Join(rules, "; "))
	}
	return nil
}
