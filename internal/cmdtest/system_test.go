package cmdtest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestVersionJSON(t *testing.T) {
	sys := NewSystem(t)

	res := sys.MustRun(t, "version", "--json")

	var info struct {
		Commit     string `json:"commit"`
		CosmosSDK  string `json:"cosmos-sdk"`
		Tendermint string `json:"tendermint"`
		Go         string `json:"go"`
	}
	require.NoError(t, json.Unmarshal(res.Stdout.Bytes(), &info))
	require.NotEmpty(t, info.Go)
}

func TestUnknownCommand(t *testing.T) {
	sys := NewSystem(t)

	res := sys.Run(zaptest.NewLogger(t), "no-such-command")
	require.Error(t, res.Err)
}

func TestSimulate(t *testing.T) {
	sys := NewSystem(t)

	// without a config file the defaults apply; a single packet keeps the
	// test fast
	sys.MustRun(t, "simulate", "--packets", "1")
}

func TestSimulateOrdered(t *testing.T) {
	sys := NewSystem(t)

	sys.MustRun(t, "sim", "--packets", "2", "--ordered")
}

func TestInvalidConfigRejected(t *testing.T) {
	sys := NewSystem(t)

	cfg := `
simulation:
  src-chain-id: sim-a
  dst-chain-id: sim-a
`
	require.NoError(t, os.WriteFile(filepath.Join(sys.HomeDir, "config.yaml"), []byte(cfg), 0o600))

	res := sys.Run(zaptest.NewLogger(t), "simulate")
	require.Error(t, res.Err)
	require.Contains(t, res.Err.Error(), "chain ids must differ")
}

func TestInvalidLogFormat(t *testing.T) {
	sys := NewSystem(t)

	res := sys.Run(nil, "version", "--log-format", "xml")
	require.Error(t, res.Err)
	require.Contains(t, res.Err.Error(), "unrecognized log format")
}
