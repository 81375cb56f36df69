package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sf-parking-zones/internal/domain"
)

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Manage device settings",
	}
	permit := &cobra.Command{
		Use:   "permit",
		Short: "Manage your parking permits",
	}

	add := &cobra.Command{
		Use:   "add PERMIT...",
		Short: "Add permits, e.g. A, residential:Q, disabled",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.Settings.Load(cmd.Context())
			if err != nil {
				return err
			}
			for _, arg := range args {
				p, err := parsePermit(arg)
				if err != nil {
					return err
				}
				if !hasPermit(s.Permits, p) {
					s.Permits = append(s.Permits, p)
				}
			}
			if err := a.Settings.Save(cmd.Context(), s); err != nil {
				return err
			}
			return printPermits(s.Permits)
		},
	}

	remove := &cobra.Command{
		Use:   "remove PERMIT...",
		Short: "Remove permits",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.Settings.Load(cmd.Context())
			if err != nil {
				return err
			}
			for _, arg := range args {
				p, err := parsePermit(arg)
				if err != nil {
					return err
				}
				kept := s.Permits[:0]
				for _, have := range s.Permits {
					if have != p {
						kept = append(kept, have)
					}
				}
				s.Permits = kept
			}
			if err := a.Settings.Save(cmd.Context(), s); err != nil {
				return err
			}
			return printPermits(s.Permits)
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List your permits",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.Settings.Load(cmd.Context())
			if err != nil {
				return err
			}
			return printPermits(s.Permits)
		},
	}

	permit.AddCommand(add, remove, list)
	cmd.AddCommand(permit)
	return cmd
}

func hasPermit(permits []domain.ParkingPermit, p domain.ParkingPermit) bool {
	for _, have := range permits {
		if have == p {
			return true
		}
	}
	return false
}

func printPermits(permits []domain.ParkingPermit) error {
	if flags.json {
		return printJSON(permits)
	}
	if len(permits) == 0 {
		faint.Println("no permits")
		return nil
	}
	for _, p := range permits {
		if p.Area != "" {
			fmt.Printf("%s %s\n", p.Type, heading.Sprint(p.Area))
			continue
		}
		fmt.Println(strings.ToLower(string(p.Type)))
	}
	return nil
}
