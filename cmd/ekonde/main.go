package main

import (
	"os"

	"github.com/goliatone/go-ekonde/cmd/ekonde/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
