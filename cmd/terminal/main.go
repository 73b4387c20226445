package main

import (
	"os"

	"github.com/idxlab/terminal/cmd/terminal/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
