package main

import (
	"os"

	"github.com/Pouseidon-949/poseidon-monitor/cmd/poseidon-monitor/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
