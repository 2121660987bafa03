package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

func TestDefaultConfigValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestConfigValidateAccumulates(t *testing.T) {
	cfg := &Config{
		Simulation: SimulationConfig{
			SrcChainID: "sim-a",
			DstChainID: "sim-a",
			Packets:    -1,
		},
	}

	err := cfg.Validate()
	require.Error(t, err)

	// equal chain ids, negative packets, zero timeout blocks and
	// non-positive block time are all reported at once
	require.Len(t, multierr.Errors(err), 4)
	require.Contains(t, err.Error(), "chain ids must differ")
	require.Contains(t, err.Error(), "packets cannot be negative")
	require.Contains(t, err.Error(), "timeout-blocks cannot be zero")
	require.Contains(t, err.Error(), "block-time must be positive")
}

func TestConfigValidateEmptyChainIDs(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Simulation.SrcChainID = ""
	cfg.Simulation.DstChainID = ""

	err := cfg.Validate()
	require.Error(t, err)
	require.Len(t, multierr.Errors(err), 2)
}

func TestConfigYAMLRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Simulation.Ordered = true
	cfg.Simulation.BlockTime = 250 * time.Millisecond
	cfg.Metrics.ListenAddr = "127.0.0.1:5183"

	var loaded Config
	require.NoError(t, yaml.Unmarshal(cfg.MustYAML(), &loaded))
	require.Equal(t, *cfg, loaded)
}
