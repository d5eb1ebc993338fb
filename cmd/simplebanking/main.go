// Package main is the entry point for the simplebanking service.
package main

import (
	"os"

	"github.com/simaogato/simplebanking-backend/cmd/simplebanking/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
