// Package main is the finance-flags command line.
//
// Usage:
//
//	finance-flags serve --address :8080
//	finance-flags evaluate --file financials.json
//	finance-flags config
package main

import (
	"os"

	"github.com/iwvelando/finance-flags/cmd/finance-flags/cmd"
)

var version = "dev"

func main() {
	if err := cmd.NewRootCommand(version).Execute(); err != nil {
		os.Exit(1)
	}
}
