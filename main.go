package main

import "github.com/cosmos/ibc-engine/cmd"

func main() {
	cmd.Execute()
}
