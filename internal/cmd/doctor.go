package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/eduplay-console/internal/catalog"
	"github.com/felixgeelhaar/eduplay-console/internal/contract"
	"github.com/felixgeelhaar/eduplay-console/internal/health"
	"github.com/felixgeelhaar/eduplay-console/internal/resource"
	"github.com/felixgeelhaar/eduplay-console/internal/ux"
)

func newDoctorCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the session, the admin API and the API contract",
		Long: `Run diagnostics and report whether the console can work.

Checks include:
  • session: a token is stored and has not expired
  • admin-api: the API answers an authenticated request
  • api-contract: every endpoint the console calls is in the API contract

Examples:
  eduplayctl doctor
  eduplayctl doctor --format json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}

			mgr, err := doctorChecks(cc)
			if err != nil {
				return err
			}
			report := mgr.WithTimeout(timeout).Check(cc.Context())

			if err := cc.Print(doctorTable(report)); err != nil {
				return err
			}
			if report.Status == health.StatusUnhealthy {
				return NewErrorWithSuggestions("Health checks failed", nil,
					"Start the backend, or run 'eduplayctl mock-server' for a local one",
					"Log in with 'eduplayctl login'",
				)
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "timeout per check")
	return cmd
}

func doctorChecks(cc *CommandContext) (*health.Manager, error) {
	spec, err := contract.Load(cc.Context())
	if err != nil {
		return nil, err
	}

	var endpoints []resource.Endpoint
	for _, d := range catalog.All() {
		endpoints = append(endpoints, d.Endpoint())
	}

	mgr := health.NewManager()
	mgr.AddChecker(health.NewSessionChecker(cc.Store(), time.Now))
	mgr.AddChecker(health.NewAPIChecker(cc.Client()))
	mgr.AddChecker(health.NewContractChecker(spec, endpoints))
	return mgr, nil
}

func doctorTable(report health.Report) ux.Table {
	rows := make([][]string, len(report.Checks))
	for i, c := range report.Checks {
		rows[i] = []string{c.Name, c.Status.String(), c.Message, c.Latency.Round(time.Millisecond).String()}
	}
	rows = append(rows, []string{"overall", report.Status.String(), fmt.Sprintf("%d checks", len(report.Checks)), ""})
	return ux.Table{
		Headers: []string{"Check", "Status", "Message", "Latency"},
		Rows:    rows,
		Records: report,
	}
}
