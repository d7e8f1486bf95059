package main

import (
	"os"

	"github.com/campusswap/campusswap-api/cmd/campusctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
