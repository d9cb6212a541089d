package main

import (
	"os"

	"github.com/pathweaver/pathweaver/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
