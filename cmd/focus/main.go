// Package main is the focus terminal client.
package main

import (
	"Niyyah-Backend/internal/cli"
	"fmt"
	"os"
)

var version = "dev"

func main() {
	if err := cli.Execute(version); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
