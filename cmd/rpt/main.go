// Package main is the entry point for the rpt CLI client.
package main

import (
	"github.com/donaldgifford/retail-price-tracker/cmd/rpt/cmd"
)

func main() {
	cmd.Execute()
}
