// main is the entry point for the hspc CLI.
package main

import (
	"fmt"
	"os"

	"github.com/healthspeed/healthspeed/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
