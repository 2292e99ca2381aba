package main

import (
	"os"

	"vehicleloan/cmd/loanctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
