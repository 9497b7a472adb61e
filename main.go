package main

import (
	"os"

	"github.com/maam00/glasshouse/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
