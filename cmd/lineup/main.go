package main

import (
	"os"

	"github.com/stitts-dev/dfs-lineup-builder/cmd/lineup/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
