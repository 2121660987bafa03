package cmd

import (
	"github.com/spf13/cobra"
)

const (
	flagHome       = "home"
	flagDebug      = "debug"
	flagLogFormat  = "log-format"
	flagJSON       = "json"
	flagPackets    = "packets"
	flagOrdered    = "ordered"
	flagListenAddr = "listen"
	flagDebugAddr  = "debug-listen"
)

func jsonFlag(a *appState, cmd *cobra.Command) *cobra.Command {
	cmd.Flags().BoolP(flagJSON, "j", false, "returns the response in json format")
	if err := a.Viper.BindPFlag(flagJSON, cmd.Flags().Lookup(flagJSON)); err != nil {
		panic(err)
	}
	return cmd
}

func simulationFlags(a *appState, cmd *cobra.Command) *cobra.Command {
	cmd.Flags().Int(flagPackets, 0, "number of packets to relay, overriding the config")
	cmd.Flags().Bool(flagOrdered, false, "use an ordered channel, overriding the config")
	cmd.Flags().String(flagListenAddr, "", "address to serve engine metrics on")
	cmd.Flags().String(flagDebugAddr, "", "address to serve the pprof debug server on")
	for _, f := range []string{flagPackets, flagOrdered, flagListenAddr, flagDebugAddr} {
		if err := a.Viper.BindPFlag(f, cmd.Flags().Lookup(f)); err != nil {
			panic(err)
		}
	}
	return cmd
}

// withUsage wraps a PositionalArgs to display usage only when the PositionalArgs
// variant is violated.
func withUsage(inner cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := inner(cmd, args); err != nil {
			cmd.Root().SilenceUsage = false
			cmd.SilenceUsage = false
			return err
		}

		return nil
	}
}
