package cmd

import (
	"fmt"
	"net"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/eduplay-console/internal/catalog"
	"github.com/felixgeelhaar/eduplay-console/internal/contract"
	"github.com/felixgeelhaar/eduplay-console/internal/fakeapi"
	"github.com/felixgeelhaar/eduplay-console/internal/health"
	"github.com/felixgeelhaar/eduplay-console/internal/metrics"
	"github.com/felixgeelhaar/eduplay-console/internal/resource"
	"github.com/felixgeelhaar/eduplay-console/internal/server"
	"github.com/felixgeelhaar/eduplay-console/internal/version"
)

func newMockServerCmd() *cobra.Command {
	var addr string
	var seed bool

	cmd := &cobra.Command{
		Use:    "mock-server",
		Short:  "Serve an in-memory admin API for demos and local development",
		Hidden: true,
		Long: `Serve an in-memory implementation of the admin API under /api, with
health probes at /health/live and /health/ready and Prometheus metrics at
/metrics. Data is lost on exit.

Example:
  eduplayctl mock-server --addr 127.0.0.1:8000 &
  eduplayctl login -u admin -p admin123`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			mc := cc.Config.MockServer
			if cmd.Flags().Changed("addr") {
				mc.Addr = addr
			}
			if cmd.Flags().Changed("seed") {
				mc.Seed = seed
			}

			reg, m := metrics.NewRegistry()
			api, err := fakeapi.New(cc.Context(),
				fakeapi.WithSecret([]byte(mc.Secret)),
				fakeapi.WithTokenTTL(mc.TokenTTL),
				fakeapi.WithLogger(cc.Logger),
				fakeapi.WithMetrics(m),
			)
			if err != nil {
				return err
			}
			if mc.Seed {
				if err := api.Seed(); err != nil {
					return err
				}
			}

			probes, err := mockProbes(cc)
			if err != nil {
				return err
			}
			srv := server.NewServer(probes, api.Handler(), server.Config{
				Address:         mc.Addr,
				ShutdownTimeout: mc.ShutdownTimeout,
				Logger:          cc.Logger,
				Metrics:         metrics.HandlerFor(reg),
			})

			ln, err := net.Listen("tcp", mc.Addr)
			if err != nil {
				return fmt.Errorf("listen on %s: %w", mc.Addr, err)
			}
			fmt.Fprintf(cc.Out(), "Mock admin API listening on http://%s%s\n", ln.Addr(), fakeapi.Prefix)
			if mc.Seed {
				fmt.Fprintf(cc.Out(), "Log in with username %s, password %s\n", fakeapi.SeedAdminUsername, fakeapi.SeedAdminPassword)
			}
			return srv.Run(cc.Context(), ln)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, 127.0.0.1:8000)")
	cmd.Flags().BoolVar(&seed, "seed", true, "load the sample data at start")
	return cmd
}

// mockProbes builds the readiness checks of the mock server.
func mockProbes(cc *CommandContext) (*health.ProbeManager, error) {
	spec, err := contract.Load(cc.Context())
	if err != nil {
		return nil, err
	}
	var endpoints []resource.Endpoint
	for _, d := range catalog.All() {
		endpoints = append(endpoints, d.Endpoint())
	}

	pm := health.NewProbeManager(version.GetInfo().Version)
	pm.AddChecker(health.NewContractChecker(spec, endpoints))
	return pm, nil
}
