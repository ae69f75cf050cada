// Package main is the entry point for the bn-excel-mapper CLI.
package main

import (
	"os"

	"github.com/bridgenote-apps/bn-excel-mapper/cmd/bn-excel-mapper/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
