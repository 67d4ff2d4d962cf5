package main

import (
	"os"

	"github.com/spanishgas/churnpipe/cmd/churnpipe/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
