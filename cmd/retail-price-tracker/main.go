// Package main is the entry point for the retail-price-tracker.
package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/donaldgifford/retail-price-tracker/cmd/retail-price-tracker/cmd"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load() //nolint:errcheck // optional file

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
