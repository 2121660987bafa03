package cmd

import (
	"encoding/json"
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cosmos/ibc-engine/internal/enginedebug"
)

// Version defines the application version (defined at compile time).
var Version = ""

type versionInfo struct {
	Version    string `json:"version" yaml:"version"`
	Commit     string `json:"commit" yaml:"commit"`
	CosmosSDK  string `json:"cosmos-sdk" yaml:"cosmos-sdk"`
	Tendermint string `json:"tendermint" yaml:"tendermint"`
	Go         string `json:"go" yaml:"go"`
}

func getVersionCmd(a *appState) *cobra.Command {
	versionCmd := &cobra.Command{
		Use:     "version",
		Aliases: []string{"v"},
		Short:   "Print the engine version info",
		Args:    withUsage(cobra.NoArgs),
		Example: strings.TrimSpace(fmt.Sprintf(`
$ %s version --json
$ %s v`,
			appName, appName,
		)),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsn, err := cmd.Flags().GetBool(flagJSON)
			if err != nil {
				return err
			}

			cosmosSDK := "(unable to determine)"
			tendermint := "(unable to determine)"
			if bi, ok := debug.ReadBuildInfo(); ok {
				for _, dep := range bi.Deps {
					switch dep.Path {
					case "github.com/cosmos/cosmos-sdk":
						cosmosSDK = dep.Version
					case "github.com/tendermint/tendermint":
						tendermint = dep.Version
					}
				}
			}

			verInfo := versionInfo{
				Version:    Version,
				Commit:     enginedebug.BuildCommit(),
				CosmosSDK:  cosmosSDK,
				Tendermint: tendermint,
				Go:         fmt.Sprintf("%s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH),
			}

			var bz []byte
			if jsn {
				bz, err = json.Marshal(verInfo)
			} else {
				bz, err = yaml.Marshal(&verInfo)
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), string(bz))
			return nil
		},
	}

	return jsonFlag(a, versionCmd)
}
