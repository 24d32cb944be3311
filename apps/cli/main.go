package main

import (
	"os"

	"github.com/zenGate-Global/orgadmin/apps/cli/root"
)

func main() {
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
