package main

import (
	"fmt"
	"os"

	"github.com/Emil-Stampfly-He/rest-reminder/cmd"
)

// Version and build time set via ldflags
var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	// Show version if requested
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Printf("rest-reminder %s (built: %s)\n", version, buildTime)
		os.Exit(0)
	}

	// No arguments at all drops into the interactive shell.
	if len(os.Args) == 1 {
		cmd.RunInteractive()
		return
	}

	cmd.Execute()
}
