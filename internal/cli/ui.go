package cli

import (
	"os"

	"github.com/mattn/go-isatty"

	"github.com/vburojevic/pcx/internal/explorer"
	"github.com/vburojevic/pcx/internal/tui"
)

// UICmd launches the interactive explorer
type UICmd struct {
	PreviewCount int  `default:"0" help:"Fields/items previewed inline for collapsed JSON nodes (0 = config value)"`
	Force        bool `help:"Start even when stdout is not a terminal"`
}

// Run executes the UI command
func (c *UICmd) Run(globals *Globals) error {
	if !c.Force && !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return outputErrorCommon(globals, "NOT_A_TERMINAL", "pcx ui needs an interactive terminal", "use the experiments, subjects, sessions and session commands in scripts")
	}

	ctx, cancel := commandContext()
	defer cancel()

	orch, err := globals.orchestrator()
	if err != nil {
		return outputErrorCommon(globals, "INVALID_CONFIG", err.Error())
	}

	changes := make(chan struct{}, 1)
	purge := globals.Config != nil && globals.Config.Explorer.PurgeDetailsOnModeChange
	ctrl := explorer.New(orch, explorer.Options{
		Mode:                     globals.Mode(),
		PurgeDetailsOnModeChange: purge,
		Clipboard:                globals.clipboard(),
		Logger:                   globals.Logger(),
		OnChange: func() {
			select {
			case changes <- struct{}{}:
			default:
			}
		},
	})

	preview := c.PreviewCount
	if preview <= 0 {
		preview = previewCount(globals)
	}
	globals.Debug("starting explorer against %s (includeSamples=%s)", globals.APIBase, globals.Mode())
	return tui.Run(ctx, ctrl, changes, preview)
}
