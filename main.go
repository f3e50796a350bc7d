// Package main is the entry point for netsniff.
package main

import (
	"fmt"
	"os"

	"firestige.xyz/netsniff/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
