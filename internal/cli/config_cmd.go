package cli

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/vburojevic/pcx/internal/config"
	"github.com/vburojevic/pcx/internal/output"
)

// ConfigCmd groups the config subcommands
type ConfigCmd struct {
	Show     ConfigShowCmd     `cmd:"" default:"1" help:"Show the effective configuration"`
	Path     ConfigPathCmd     `cmd:"" help:"Show which config file is used"`
	Generate ConfigGenerateCmd `cmd:"" help:"Print a sample config file"`
}

// ConfigOutput is the NDJSON form of the effective configuration
type ConfigOutput struct {
	Type          string               `json:"type"`
	SchemaVersion int                  `json:"schemaVersion"`
	File          string               `json:"file,omitempty"`
	Format        string               `json:"format"`
	Quiet         bool                 `json:"quiet"`
	Verbose       bool                 `json:"verbose"`
	API           configAPIOutput      `json:"api"`
	Explorer      configExplorerOutput `json:"explorer"`
}

type configAPIOutput struct {
	BaseURL string `json:"base_url"`
	Timeout string `json:"timeout,omitempty"`
}

type configExplorerOutput struct {
	IncludeSamples           bool `json:"include_samples"`
	PreviewCount             int  `json:"preview_count"`
	PurgeDetailsOnModeChange bool `json:"purge_details_on_mode_change"`
}

// ConfigShowCmd prints the effective configuration
type ConfigShowCmd struct{}

// Run executes the config show command
func (c *ConfigShowCmd) Run(globals *Globals) error {
	cfg := globals.Config
	if cfg == nil {
		cfg = config.Default()
	}

	if globals.Format == "ndjson" {
		return output.NewNDJSONWriter(globals.Stdout).Write(&ConfigOutput{
			Type:          "config",
			SchemaVersion: output.SchemaVersion,
			File:          config.ConfigFile(),
			Format:        cfg.Format,
			Quiet:         cfg.Quiet,
			Verbose:       cfg.Verbose,
			API:           configAPIOutput{BaseURL: cfg.API.BaseURL, Timeout: cfg.API.Timeout},
			Explorer: configExplorerOutput{
				IncludeSamples:           cfg.Explorer.IncludeSamples,
				PreviewCount:             cfg.Explorer.PreviewCount,
				PurgeDetailsOnModeChange: cfg.Explorer.PurgeDetailsOnModeChange,
			},
		})
	}

	w := globals.Stdout
	fmt.Fprintln(w, "Current Configuration:")
	fmt.Fprintf(w, "  format:  %s\n", cfg.Format)
	fmt.Fprintf(w, "  quiet:   %t\n", cfg.Quiet)
	fmt.Fprintf(w, "  verbose: %t\n", cfg.Verbose)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "API:")
	fmt.Fprintf(w, "  base_url: %s\n", cfg.API.BaseURL)
	if cfg.API.Timeout != "" {
		fmt.Fprintf(w, "  timeout:  %s\n", cfg.API.Timeout)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Explorer:")
	fmt.Fprintf(w, "  include_samples: %t\n", cfg.Explorer.IncludeSamples)
	fmt.Fprintf(w, "  preview_count:   %d\n", cfg.Explorer.PreviewCount)
	fmt.Fprintf(w, "  purge_details_on_mode_change: %t\n", cfg.Explorer.PurgeDetailsOnModeChange)
	return nil
}

// ConfigPathCmd prints the path of the loaded config file
type ConfigPathCmd struct{}

// Run executes the config path command
func (c *ConfigPathCmd) Run(globals *Globals) error {
	path := config.ConfigFile()

	if globals.Format == "ndjson" {
		return output.NewNDJSONWriter(globals.Stdout).Write(map[string]interface{}{
			"type":          "config_path",
			"schemaVersion": output.SchemaVersion,
			"path":          path,
			"found":         path != "",
		})
	}

	if path == "" {
		fmt.Fprintln(globals.Stdout, "No configuration file found")
		fmt.Fprintln(globals.Stdout, "Searched for pcx.yaml, .pcx.yaml, .pcx.yml and .pcxrc in ., ~, the user config dir and /etc/pcx")
		return nil
	}
	fmt.Fprintf(globals.Stdout, "Config file: %s\n", path)
	return nil
}

// ConfigGenerateCmd prints a sample config with default values
type ConfigGenerateCmd struct{}

const configHeader = `# pcx configuration file
# Save as ./.pcx.yaml, ~/.pcx.yaml or <user config dir>/pcx/pcx.yaml.
# Every key can be overridden by PCX_* environment variables or flags.

`

// Run executes the config generate command
func (c *ConfigGenerateCmd) Run(globals *Globals) error {
	body, err := yaml.Marshal(config.Default())
	if err != nil {
		return outputErrorCommon(globals, "CONFIG_GENERATE_FAILED", err.Error())
	}
	fmt.Fprint(globals.Stdout, configHeader)
	_, err = globals.Stdout.Write(body)
	return err
}
