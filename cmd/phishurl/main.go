// Command phishurl loads the phishing URL lists under ./phishurl-list into
// ./phishurl.db3.
//
// Usage:
//
//	phishurl [--root DIR] [--out FILE] [--report FILE] [--strict] [-v]
//
// See --help for all available options.
package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/runnerr0/phishurl/internal/cli"
)

// version is set at build time via ldflags.
var version = ""

// getVersion returns version string.
// Priority: ldflags > debug.ReadBuildInfo > "(devel)"
func getVersion() string {
	if version != "" {
		return version
	}
	if buildInfo, ok := debug.ReadBuildInfo(); ok {
		if buildInfo.Main.Version != "" {
			return buildInfo.Main.Version
		}
	}
	return "(devel)"
}

func main() {
	if err := cli.Run(getVersion()); err != nil {
		fmt.Fprintf(os.Stderr, "phishurl: %v\n", err)
		os.Exit(1)
	}
}
