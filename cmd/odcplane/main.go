// Command odcplane runs the openEO ODC control plane.
package main

import (
	"os"

	"github.com/odcplane/odcplane/internal/cmd"
)

// Build metadata injected via ldflags.
var (
	version   = "dev"
	commit    = "HEAD"
	buildDate = "unknown"
)

func main() {
	cmd.SetVersionInfo(version, commit, buildDate)
	os.Exit(cmd.Execute())
}
