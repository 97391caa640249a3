package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/eduplay-console/internal/model"
	"github.com/felixgeelhaar/eduplay-console/internal/ux"
)

func statsRecord(s *model.DashboardStats) ux.Record {
	return ux.Record{
		Fields: []ux.Field{
			{Label: "Total Users", Value: fmt.Sprint(s.TotalUsers)},
			{Label: "Upgraded Users", Value: fmt.Sprint(s.UpgradedUsers)},
			{Label: "Standard Users", Value: fmt.Sprint(s.StandardUsers)},
			{Label: "Total Games", Value: fmt.Sprint(s.TotalGames)},
			{Label: "Total Revenue", Value: fmt.Sprintf("$%.2f", s.TotalRevenue)},
		},
		Value: s,
	}
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the dashboard statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			client, err := cc.AuthedClient()
			if err != nil {
				return err
			}
			stats, err := client.DashboardStats(cc.Context())
			if err != nil {
				return apiFailure(cc.Config.API.URL, "Failed to fetch dashboard stats", err)
			}
			return cc.Print(statsRecord(stats))
		},
	}
}
