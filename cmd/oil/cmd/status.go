package cmd

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/msto63/oil/internal/oild/service"
	"github.com/msto63/oil/internal/render"
	coregrpc "github.com/msto63/oil/pkg/core/grpc"
	"github.com/msto63/oil/pkg/core/health"
	"github.com/msto63/oil/pkg/core/version"
)

func newStatusCmd(a *app) *cobra.Command {
	var (
		target  string
		live    string
		timeout time.Duration
	)

	c := &cobra.Command{
		Use:   "status",
		Short: "Probe a running oil service",
		Long: `Checks that the gRPC and live ports of an oil service accept
connections and asks the gRPC health service for the parser status.

Without --target the addresses come from the [server] configuration.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if target == "" {
				target = dialAddress(a.config.Server.Host, a.config.Server.Port)
			}
			if live == "" && a.config.Server.LivePort > 0 {
				live = dialAddress(a.config.Server.Host, a.config.Server.LivePort)
			}

			registry := health.NewRegistry("oil-status", version.CLI)
			registry.Register(health.TCPCheck("grpc", target, timeout))
			if live != "" {
				registry.Register(health.TCPCheck("live", live, timeout))
			}
			registry.Register(grpcHealthCheck(a, target))

			report := registry.CheckWithTimeout(timeout)

			out := cmd.OutOrStdout()
			for _, check := range report.Checks {
				icon := render.OKStyle.Render("[+]")
				if check.Status != health.StatusHealthy {
					icon = render.ErrorStyle.Render("[-]")
				}
				fmt.Fprintf(out, "  %s %-8s %-10s %s\n", icon, check.Name, check.Status, check.Message)
			}
			fmt.Fprintf(out, "\nstatus: %s\n", report.Status)

			if !report.Serving() {
				return ErrReported
			}
			return nil
		},
	}

	f := c.Flags()
	f.StringVar(&target, "target", "", "gRPC address of the service")
	f.StringVar(&live, "live", "", "address of the live endpoint")
	f.DurationVar(&timeout, "timeout", 3*time.Second, "probe timeout")
	return c
}

// grpcHealthCheck asks the standard health service for the parser status
func grpcHealthCheck(a *app, target string) health.Checker {
	return health.NewChecker("parser", func(ctx context.Context) health.CheckResult {
		start := time.Now()
		result := health.CheckResult{Name: "parser", Timestamp: start}

		cfg := coregrpc.DefaultClientConfig(target)
		cfg.Logger = a.logger
		conn, err := coregrpc.Dial(cfg)
		if err != nil {
			result.Status = health.StatusUnhealthy
			result.Message = err.Error()
			return result
		}
		defer conn.Close()

		resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{
			Service: service.ServiceName,
		})
		result.Duration = time.Since(start)
		switch {
		case err != nil:
			result.Status = health.StatusUnhealthy
			result.Message = err.Error()
		case resp.GetStatus() == healthpb.HealthCheckResponse_SERVING:
			result.Status = health.StatusHealthy
			result.Message = resp.GetStatus().String()
		default:
			result.Status = health.StatusUnhealthy
			result.Message = resp.GetStatus().String()
		}
		return result
	})
}

// dialAddress turns a listen host into one a client can reach
func dialAddress(host string, port int) string {
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}
