// Package main is the entry point for the twctl CLI, a thin consumer of the
// taskwire client library.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "twctl: %v\n", err)
		os.Exit(1)
	}
}
