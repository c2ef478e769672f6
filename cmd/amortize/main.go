package main

import (
	"os"

	"github.com/warp/amortization-engine/cmd/amortize/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
