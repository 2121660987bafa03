package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration of the CLI, stored as YAML under the
// home directory.
type Config struct {
	Simulation SimulationConfig `yaml:"simulation" json:"simulation"`
	Metrics    MetricsConfig    `yaml:"metrics" json:"metrics"`
}

// SimulationConfig shapes the packet flow the simulate command drives.
type SimulationConfig struct {
	SrcChainID string `yaml:"src-chain-id" json:"src-chain-id"`
	DstChainID string `yaml:"dst-chain-id" json:"dst-chain-id"`

	// Packets is the number of packets to send, receive and acknowledge.
	Packets int `yaml:"packets" json:"packets"`

	// Ordered selects an ordered channel instead of an unordered one.
	Ordered bool `yaml:"ordered" json:"ordered"`

	// TimeoutBlocks is how many blocks past the destination's current height
	// each packet's timeout height is set.
	TimeoutBlocks uint64 `yaml:"timeout-blocks" json:"timeout-blocks"`

	// BlockTime is the simulated interval between blocks on both chains.
	BlockTime time.Duration `yaml:"block-time" json:"block-time"`
}

// MetricsConfig holds the listen addresses of the optional HTTP servers.
// Empty addresses leave the corresponding server off.
type MetricsConfig struct {
	ListenAddr string `yaml:"listen-addr" json:"listen-addr"`
	DebugAddr  string `yaml:"debug-addr" json:"debug-addr"`
}

// DefaultConfig returns a config that simulates a short unordered packet flow
// between two chains and serves nothing over HTTP.
func DefaultConfig() *Config {
	return &Config{
		Simulation: SimulationConfig{
			SrcChainID:    "sim-a",
			DstChainID:    "sim-b",
			Packets:       5,
			TimeoutBlocks: 100,
			BlockTime:     time.Second,
		},
	}
}

// Validate reports every problem with the config rather than the first.
func (c *Config) Validate() error {
	var err error
	if c.Simulation.SrcChainID == "" {
		err = multierr.Append(err, fmt.Errorf("simulation.src-chain-id cannot be empty"))
	}
	if c.Simulation.DstChainID == "" {
		err = multierr.Append(err, fmt.Errorf("simulation.dst-chain-id cannot be empty"))
	}
	if c.Simulation.SrcChainID != "" && c.Simulation.SrcChainID == c.Simulation.DstChainID {
		err = multierr.Append(err, fmt.Errorf("simulation chain ids must differ, both are %q", c.Simulation.SrcChainID))
	}
	if c.Simulation.Packets < 0 {
		err = multierr.Append(err, fmt.Errorf("simulation.packets cannot be negative, got %d", c.Simulation.Packets))
	}
	if c.Simulation.TimeoutBlocks == 0 {
		err = multierr.Append(err, fmt.Errorf("simulation.timeout-blocks cannot be zero"))
	}
	if c.Simulation.BlockTime <= 0 {
		err = multierr.Append(err, fmt.Errorf("simulation.block-time must be positive, got %s", c.Simulation.BlockTime))
	}
	return err
}

// MustYAML returns the yaml string representation of the Config.
func (c Config) MustYAML() []byte {
	out, err := yaml.Marshal(c)
	if err != nil {
		panic(err)
	}
	return out
}

func configPath(homePath string) string {
	return filepath.Join(homePath, "config.yaml")
}

// initConfig loads the config file under the home directory into the app
// state, falling back to defaults when no file exists yet.
func initConfig(a *appState) error {
	cfgPath := configPath(a.HomePath)
	if _, err := os.Stat(cfgPath); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		a.Config = DefaultConfig()
		return a.Config.Validate()
	}

	a.Viper.SetConfigFile(cfgPath)
	if err := a.Viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", cfgPath, err)
	}

	file, err := os.ReadFile(a.Viper.ConfigFileUsed())
	if err != nil {
		return err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(file, cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config file %s: %w", cfgPath, err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config file %s: %w", cfgPath, err)
	}

	a.Config = cfg
	return nil
}
