package cli

import (
	"fmt"

	"github.com/vburojevic/pcx/internal/output"
)

const goInstallCmd = "go install github.com/vburojevic/pcx/cmd/pcx@latest"

// VersionCmd prints the build version and how to upgrade
type VersionCmd struct{}

// Run executes the version command
func (c *VersionCmd) Run(globals *Globals) error {
	if globals.Format == "ndjson" {
		return output.NewNDJSONWriter(globals.Stdout).Write(map[string]interface{}{
			"type":          "version",
			"schemaVersion": output.SchemaVersion,
			"version":       Version,
			"commit":        Commit,
			"upgrade":       goInstallCmd,
		})
	}
	fmt.Fprintf(globals.Stdout, "pcx version %s (%s)\n", Version, Commit)
	if !globals.Quiet {
		fmt.Fprintf(globals.Stdout, "Upgrade: %s\n", goInstallCmd)
	}
	return nil
}
