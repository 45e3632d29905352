package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"github.com/vburojevic/pcx/internal/api"
	"github.com/vburojevic/pcx/internal/config"
	"github.com/vburojevic/pcx/internal/domain"
	"github.com/vburojevic/pcx/internal/explorer"
	"github.com/vburojevic/pcx/internal/fetch"
	"github.com/vburojevic/pcx/internal/output"
)

// Version and Commit are set at build time
var (
	Version = "dev"
	Commit  = "none"
)

// CLI is the root command
type CLI struct {
	Format         string `short:"f" enum:"auto,ndjson,text" default:"${config_format}" help:"Output format: auto (text on a terminal, ndjson otherwise), ndjson or text"`
	APIBase        string `name:"api-base" default:"${config_api_base}" help:"Base URL of the record API"`
	IncludeSamples bool   `name:"include-samples" default:"${config_include_samples}" help:"Request sample payloads with session data"`
	Quiet          bool   `short:"q" help:"Suppress hints and summary lines"`
	Verbose        bool   `short:"v" help:"Debug logging to stderr"`

	UI          UICmd          `cmd:"" help:"Interactive explorer"`
	Experiments ExperimentsCmd `cmd:"" help:"List experiments"`
	Subjects    SubjectsCmd    `cmd:"" help:"List subjects"`
	Sessions    SessionsCmd    `cmd:"" help:"List sessions of an experiment or subject"`
	Session     SessionCmd     `cmd:"" help:"Show one session document"`
	Config      ConfigCmd      `cmd:"" help:"Show or generate configuration"`
	Schema      SchemaCmd      `cmd:"" help:"JSON Schema for NDJSON output types"`
	Version     VersionCmd     `cmd:"" help:"Show version and how to upgrade"`
}

// Globals carries resolved global flags and shared dependencies into commands
type Globals struct {
	Format         string // resolved: ndjson or text
	APIBase        string
	IncludeSamples bool
	Quiet          bool
	Verbose        bool
	Stdout         io.Writer
	Stderr         io.Writer
	Config         *config.Config

	// Clipboard backs `session --copy`; nil means the system clipboard.
	Clipboard explorer.Clipboard

	logger *zap.Logger
}

// NewGlobalsWithConfig resolves parsed flags against config values
func NewGlobalsWithConfig(c *CLI, cfg *config.Config) *Globals {
	if cfg == nil {
		cfg = config.Default()
	}
	g := &Globals{
		Format:         resolveFormat(c.Format, os.Stdout),
		APIBase:        strings.TrimRight(c.APIBase, "/"),
		IncludeSamples: c.IncludeSamples,
		Quiet:          c.Quiet || cfg.Quiet,
		Verbose:        c.Verbose || cfg.Verbose,
		Stdout:         os.Stdout,
		Stderr:         os.Stderr,
		Config:         cfg,
	}
	if g.APIBase == "" {
		g.APIBase = cfg.API.BaseURL
	}
	return g
}

// resolveFormat turns "auto" into text on a terminal and ndjson otherwise
func resolveFormat(format string, out *os.File) string {
	if format != "auto" && format != "" {
		return format
	}
	if out != nil && (isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd())) {
		return "text"
	}
	return "ndjson"
}

// Mode is the fetch mode selected by --include-samples
func (g *Globals) Mode() domain.FetchMode {
	return domain.FetchMode(g.IncludeSamples)
}

// Logger returns the shared zap logger, building it on first use.
func (g *Globals) Logger() *zap.Logger {
	if g.logger == nil {
		g.logger = newLogger(g)
	}
	return g.logger
}

// Debug logs a formatted debug line when --verbose is set
func (g *Globals) Debug(format string, args ...interface{}) {
	g.Logger().Sugar().Debugf(format, args...)
}

// client builds an API client from the resolved base URL and config timeout.
func (g *Globals) client() (*api.Client, error) {
	opts := []api.Option{api.WithLogger(g.Logger())}
	if g.Config != nil {
		timeout, err := g.Config.TimeoutDuration()
		if err != nil {
			return nil, err
		}
		if timeout > 0 {
			opts = append(opts, api.WithTimeout(timeout))
		}
	}
	return api.NewClient(g.APIBase, opts...), nil
}

// orchestrator wraps a fresh client in a fetch orchestrator
func (g *Globals) orchestrator() (*fetch.Orchestrator, error) {
	c, err := g.client()
	if err != nil {
		return nil, err
	}
	return fetch.New(c, nil, g.Logger()), nil
}

// writer returns the output writer for the resolved format
func (g *Globals) writer() output.Writer {
	if g.Format == "text" {
		return output.NewTextWriter(g.Stdout, output.WithQuiet(g.Quiet))
	}
	return output.NewNDJSONWriter(g.Stdout)
}

func (g *Globals) clipboard() explorer.Clipboard {
	if g.Clipboard != nil {
		return g.Clipboard
	}
	return explorer.SystemClipboard{}
}

// note prints an informational line to stderr unless --quiet
func (g *Globals) note(format string, args ...interface{}) {
	if g.Quiet {
		return
	}
	fmt.Fprintf(g.Stderr, format+"\n", args...)
}
