package cmd

import (
	"context"
	"fmt"
	"net"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cosmos/ibc-engine/engine/types"
	"github.com/cosmos/ibc-engine/internal/enginedebug"
	"github.com/cosmos/ibc-engine/internal/enginemetrics"
)

func simulateCmd(a *appState) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "simulate",
		Aliases: []string{"sim"},
		Short:   "Run a full client, connection, channel and packet flow between two in-memory chains",
		Args:    withUsage(cobra.NoArgs),
		Example: strings.TrimSpace(fmt.Sprintf(`
$ %s simulate
$ %s sim --packets 20 --ordered
$ %s sim --listen 127.0.0.1:5184 --debug-listen 127.0.0.1:6060`,
			appName, appName, appName,
		)),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.Config.Simulation
			if cmd.Flags().Changed(flagPackets) {
				cfg.Packets, _ = cmd.Flags().GetInt(flagPackets)
			}
			if cmd.Flags().Changed(flagOrdered) {
				cfg.Ordered, _ = cmd.Flags().GetBool(flagOrdered)
			}

			listenAddr := a.Config.Metrics.ListenAddr
			if cmd.Flags().Changed(flagListenAddr) {
				listenAddr, _ = cmd.Flags().GetString(flagListenAddr)
			}
			debugAddr := a.Config.Metrics.DebugAddr
			if cmd.Flags().Changed(flagDebugAddr) {
				debugAddr, _ = cmd.Flags().GetString(flagDebugAddr)
			}

			metrics := enginemetrics.NewPrometheusMetrics()
			serving, err := startServers(cmd.Context(), a.Log, metrics, listenAddr, debugAddr)
			if err != nil {
				return err
			}

			eg, ctx := errgroup.WithContext(cmd.Context())
			eg.Go(func() error {
				return runSimulation(ctx, a.Log, metrics, cfg)
			})
			if err := eg.Wait(); err != nil {
				return err
			}

			if serving {
				a.Log.Info("simulation complete, serving until interrupted")
				<-cmd.Context().Done()
			}
			return nil
		},
	}

	return simulationFlags(a, cmd)
}

// startServers brings up the metrics and debug servers for any configured
// address. It reports whether at least one server is running.
func startServers(ctx context.Context, log *zap.Logger, metrics *enginemetrics.PrometheusMetrics, listenAddr, debugAddr string) (bool, error) {
	serving := false
	if listenAddr != "" {
		ln, err := net.Listen("tcp", listenAddr)
		if err != nil {
			return false, fmt.Errorf("failed to listen on metrics address %q: %w", listenAddr, err)
		}
		log.Info("metrics server listening", zap.String("addr", listenAddr))
		enginemetrics.StartMetricsServer(ctx, log, ln, metrics.Registry)
		serving = true
	}
	if debugAddr != "" {
		ln, err := net.Listen("tcp", debugAddr)
		if err != nil {
			return false, fmt.Errorf("failed to listen on debug address %q: %w", debugAddr, err)
		}
		log.Info("debug server listening", zap.String("addr", debugAddr))
		enginedebug.StartDebugServer(ctx, log, ln)
		serving = true
	}
	return serving, nil
}

// runSimulation drives the whole flow: clients both ways, the connection and
// channel handshakes, then the configured number of packet round trips.
func runSimulation(ctx context.Context, log *zap.Logger, metrics *enginemetrics.PrometheusMetrics, cfg SimulationConfig) error {
	src, err := newSimChain(log, metrics, cfg.SrcChainID, cfg.BlockTime)
	if err != nil {
		return err
	}
	dst, err := newSimChain(log, metrics, cfg.DstChainID, cfg.BlockTime)
	if err != nil {
		return err
	}

	order := types.UNORDERED
	if cfg.Ordered {
		order = types.ORDERED
	}

	a := &simEndpoint{chain: src, order: order}
	b := &simEndpoint{chain: dst, order: order}
	a.counterparty, b.counterparty = b, a

	log.Info("creating clients")
	if err := a.createClient(); err != nil {
		return err
	}
	if err := b.createClient(); err != nil {
		return err
	}

	log.Info("running connection handshake")
	if err := a.connOpenInit(); err != nil {
		return err
	}
	if err := b.connOpenTry(); err != nil {
		return err
	}
	if err := a.connOpenAck(); err != nil {
		return err
	}
	if err := b.connOpenConfirm(); err != nil {
		return err
	}

	log.Info("running channel handshake",
		zap.String("order", order.String()),
	)
	if err := a.chanOpenInit(); err != nil {
		return err
	}
	if err := b.chanOpenTry(); err != nil {
		return err
	}
	if err := a.chanOpenAck(); err != nil {
		return err
	}
	if err := b.chanOpenConfirm(); err != nil {
		return err
	}

	log.Info("relaying packets", zap.Int("count", cfg.Packets))
	for i := 0; i < cfg.Packets; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		timeoutHeight := types.NewHeight(0, dst.height+cfg.TimeoutBlocks)
		data := []byte(fmt.Sprintf("sim packet %d", i+1))

		packet, err := a.sendPacket(data, timeoutHeight)
		if err != nil {
			return err
		}
		if err := b.recvPacket(packet); err != nil {
			return err
		}
		if err := a.acknowledgePacket(packet, simAck); err != nil {
			return err
		}
	}

	log.Info("simulation finished",
		zap.String("src_client", a.clientID),
		zap.String("dst_client", b.clientID),
		zap.String("src_connection", a.connectionID),
		zap.String("dst_connection", b.connectionID),
		zap.String("src_channel", a.channelID),
		zap.String("dst_channel", b.channelID),
		zap.Int("packets", cfg.Packets),
	)
	return nil
}
