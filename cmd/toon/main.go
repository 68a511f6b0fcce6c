package main

import (
	"fmt"
	"os"

	"github.com/thedataquarry/toon-go/internal/cli"
)

// Populated by the linker at release time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	cli.SetVersionInfo(version, commit)
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "toon:", err)
		os.Exit(1)
	}
}
