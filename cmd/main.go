package main

import (
	"os"

	"github.com/axismarkets/axis-go/cmd/commands"
)

func main() {
	commands.RootCmd.AddCommand(
		commands.RunCmd,
		commands.VersionCmd,
	)

	if err := commands.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
