package main

import (
	"os"

	"github.com/fittrack-dev/fittrack/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
