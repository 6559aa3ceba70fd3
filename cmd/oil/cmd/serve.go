package cmd

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	mdwlog "github.com/msto63/oil/foundation/core/log"
	"github.com/msto63/oil/internal/oild/live"
	"github.com/msto63/oil/internal/oild/service"
	"github.com/msto63/oil/pkg/core/cache"
	coregrpc "github.com/msto63/oil/pkg/core/grpc"
	"github.com/msto63/oil/pkg/core/health"
	"github.com/msto63/oil/pkg/core/version"
)

const (
	healthInterval  = 10 * time.Second
	shutdownTimeout = 10 * time.Second
)

func newServeCmd(a *app) *cobra.Command {
	var (
		host       string
		port       int
		livePort   int
		reflection bool
	)

	c := &cobra.Command{
		Use:   "serve",
		Short: "Run the oil parse service",
		Long: `Starts the gRPC service oil.v1.Parser with the standard health service
and, unless the live port is 0 or -1, the WebSocket endpoint /live plus /healthz.

Flags override the [server] section of the configuration.

Examples:
  oil serve
  oil serve --port 9400 --live-port 0
  oil serve --reflection --log-format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.config
			if cmd.Flags().Changed("host") {
				cfg.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if cmd.Flags().Changed("live-port") {
				cfg.Server.LivePort = livePort
			}
			if cmd.Flags().Changed("reflection") {
				cfg.Server.Reflection = reflection
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx, cmd)
		},
	}

	f := c.Flags()
	f.StringVar(&host, "host", "", "listen host")
	f.IntVar(&port, "port", 0, "gRPC port")
	f.IntVar(&livePort, "live-port", 0, "WebSocket and health port (0 or -1 disables)")
	f.BoolVar(&reflection, "reflection", false, "enable gRPC server reflection")
	return c
}

// serve runs the gRPC and live servers until ctx ends or a server fails
func (a *app) serve(ctx context.Context, cmd *cobra.Command) error {
	cfg := a.config
	logger := a.logger

	results := cache.New(cache.Config{
		MaxItems: cfg.Cache.MaxItems,
		TTL:      cfg.Cache.TTL.Duration,
	})
	defer results.Close()

	svc, err := service.New(service.Config{
		Engine:      a.engine,
		Cache:       results,
		Logger:      logger,
		DefaultStop: cfg.Parser.Stop,
	})
	if err != nil {
		return err
	}

	registry := health.NewRegistry(service.ServiceName, version.Service)
	svc.RegisterChecks(registry)

	server := coregrpc.NewServer(coregrpc.ServerConfig{
		Host:              cfg.Server.Host,
		Port:              cfg.Server.Port,
		EnableReflection:  cfg.Server.Reflection,
		KeepaliveInterval: cfg.Server.KeepaliveInterval.Duration,
		KeepaliveTimeout:  cfg.Server.KeepaliveTimeout.Duration,
		Logger:            logger,
	})
	svc.Register(server.GRPCServer())

	listener, err := net.Listen("tcp", cfg.ListenAddress())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.ListenAddress(), err)
	}

	errCh := make(chan error, 2)
	go func() {
		errCh <- server.Serve(listener)
	}()
	go server.WatchHealth(ctx, registry, healthInterval)

	var liveServer *live.Server
	if addr := cfg.LiveAddress(); addr != "" {
		liveServer = live.NewServer(addr, live.NewHandler(svc, registry, logger))
		go func() {
			errCh <- liveServer.ListenAndServe()
		}()
	}

	logger.Info("oil service started", mdwlog.Fields{
		"grpc":    cfg.ListenAddress(),
		"live":    cfg.LiveAddress(),
		"version": version.Service,
	})
	fmt.Fprintf(cmd.OutOrStdout(), "oil service listening on %s\n", cfg.ListenAddress())

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case runErr = <-errCh:
		if runErr != nil {
			logger.ErrorWithErr("server failed", runErr)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if liveServer != nil {
		if err := liveServer.Shutdown(shutdownCtx); err != nil {
			logger.WarnWithErr("live endpoint shutdown", err)
		}
	}
	server.StopWithTimeout(shutdownCtx)

	stats := results.Stats()
	logger.Info("oil service stopped", mdwlog.Fields{
		"cacheHits":   stats.Hits,
		"cacheMisses": stats.Misses,
	})
	return runErr
}
