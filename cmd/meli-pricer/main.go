// Package main is the entry point for meli-pricer.
package main

import (
	"os"

	"github.com/donaldgifford/meli-pricer/cmd/meli-pricer/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
