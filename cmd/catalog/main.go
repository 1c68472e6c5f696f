// Package main provides the catalog CLI.
package main

import (
	"os"

	"github.com/mesh-intelligence/catalog/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
