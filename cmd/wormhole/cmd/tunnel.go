package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dyastin0/wormhole-client/internal/config"
	"github.com/dyastin0/wormhole-client/internal/metrics"
	"github.com/dyastin0/wormhole-client/internal/ui"
	"github.com/dyastin0/wormhole-client/internal/wire"
	"github.com/dyastin0/wormhole-client/internal/wormhole"
)

// tunnelFlags holds the flag values shared by the http and tcp subcommands.
type tunnelFlags struct {
	name        string
	targetAddr  string
	address     string
	withMetrics bool
}

func bindTunnelFlags(cmd *cobra.Command, f *tunnelFlags) {
	cmd.Flags().StringVar(&f.name, "name", "", "name to register for this tunnel (required)")
	cmd.Flags().StringVar(&f.targetAddr, "targetAddress", "", "local address to forward accepted connections to (required)")
	cmd.Flags().StringVar(&f.address, "address", config.DefaultRendezvousAddr, "rendezvous server address")
	cmd.Flags().BoolVar(&f.withMetrics, "metrics", false, "request a metrics stream and expose it on :9090/metrics")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("targetAddress")
}

func newHTTPCmd() *cobra.Command {
	f := &tunnelFlags{}
	cmd := &cobra.Command{
		Use:   "http",
		Short: "Expose a local HTTP service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTunnel(cmd.Context(), wire.ProtoHTTP, f)
		},
	}
	bindTunnelFlags(cmd, f)
	return cmd
}

func newTCPCmd() *cobra.Command {
	f := &tunnelFlags{}
	cmd := &cobra.Command{
		Use:   "tcp",
		Short: "Expose a local TCP service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTunnel(cmd.Context(), wire.ProtoTCP, f)
		},
	}
	bindTunnelFlags(cmd, f)
	return cmd
}

func runTunnel(ctx context.Context, proto wire.Proto, f *tunnelFlags) error {
	cfg, err := config.Load(proto, f.name, f.targetAddr, f.address, f.withMetrics, false)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	ui.EmitBanner(Version, "reverse tunnel client")
	ui.LogStatus("inf", fmt.Sprintf("registering %q (%s) → %s", cfg.Name, protoLabel(proto), cfg.TargetAddr))

	var pub *metrics.Publisher
	var metricsSrv *metrics.Server
	if cfg.WithMetrics {
		pub = metrics.NewPublisher()
		metricsSrv = metrics.NewServer(cfg.Env.MetricsListen)
		metricsSrv.Start()
		ui.LogStatus("inf", "metrics: http://localhost"+cfg.Env.MetricsListen+"/metrics")
		go drainMetricsEvents(ctx, pub)
	}

	sess := wormhole.New(wormhole.Config{
		Proto:          cfg.Proto,
		Name:           cfg.Name,
		TargetAddr:     cfg.TargetAddr,
		RendezvousAddr: cfg.RendezvousAddr,
		WithMetrics:    cfg.WithMetrics,
		WithTLS:        cfg.WithTLS,
		DialTimeout:    cfg.Env.DialTimeout,
	}, pub)

	runErr := sess.Run(ctx)

	if domain := sess.Domain(); domain != "" {
		ui.SuccessNote(ui.RenderSimpleTable(map[string]string{
			"domain":  domain,
			"proto":   protoLabel(proto),
			"expires": sess.ExpiresAt().Format(time.RFC3339),
		}))
	}

	if metricsSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		metricsSrv.Shutdown(shutdownCtx)
		cancel()
	}

	ui.PrintFooter("goodbye")
	return runErr
}

// drainMetricsEvents logs dashboard-style metrics events when no richer
// consumer is attached; it exists so the channel never backs up silently.
func drainMetricsEvents(ctx context.Context, pub *metrics.Publisher) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-pub.Events():
			if !ok {
				return
			}
			ui.LogMetric("active connections", ev.ActiveConnections, "")
			ui.LogMetric("uptime", ev.Uptime, "")
		}
	}
}

func protoLabel(p wire.Proto) string {
	if p == wire.ProtoTCP {
		return "tcp"
	}
	return "http"
}
