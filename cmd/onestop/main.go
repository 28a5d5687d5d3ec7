package main

import (
	"os"

	"github.com/onestop-insurance/onestop/internal/infrastructure/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(cli.PrintError(os.Stderr, err))
	}
}
