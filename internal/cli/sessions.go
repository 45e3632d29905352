package cli

import (
	"fmt"
	"regexp"

	"github.com/vburojevic/pcx/internal/domain"
	"github.com/vburojevic/pcx/internal/filter"
	"github.com/vburojevic/pcx/internal/jsonview"
)

// SessionsCmd lists the sessions of one experiment or one subject
type SessionsCmd struct {
	Experiment string   `short:"e" help:"Experiment title"`
	Subject    string   `short:"s" help:"Subject display name"`
	Where      []string `short:"w" help:"Field filter (field=value, field~regex, field>=value...); repeatable, all must match"`
	Pattern    string   `short:"p" help:"Regex the raw session record must match"`
	Exclude    []string `short:"x" help:"Regex that drops matching raw records (repeatable)"`
}

// Run executes the sessions command
func (c *SessionsCmd) Run(globals *Globals) error {
	if err := validateFlags(globals, c.Experiment, c.Subject); err != nil {
		return err
	}
	pipeline, err := c.pipeline(globals)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	orch, err := globals.orchestrator()
	if err != nil {
		return outputErrorCommon(globals, "INVALID_CONFIG", err.Error())
	}

	var sessions []domain.Session
	if c.Experiment != "" {
		sessions, _, err = orch.SessionsForExperiment(ctx, c.Experiment, globals.Mode())
	} else {
		sessions, _, err = orch.SessionsForSubject(ctx, c.Subject, globals.Mode())
	}
	if err != nil {
		return outputFetchError(globals, err)
	}

	matched := pipeline.Apply(sessions)
	globals.Debug("fetched %d sessions, %d after filters", len(sessions), len(matched))
	return globals.writer().Sessions(matched)
}

func (c *SessionsCmd) pipeline(globals *Globals) (*filter.Pipeline, error) {
	var pattern *regexp.Regexp
	if c.Pattern != "" {
		re, err := regexp.Compile(c.Pattern)
		if err != nil {
			return nil, outputErrorCommon(globals, "INVALID_PATTERN", fmt.Sprintf("invalid regex pattern: %v", err))
		}
		pattern = re
	}

	var excludes []*regexp.Regexp
	for _, x := range c.Exclude {
		re, err := regexp.Compile(x)
		if err != nil {
			return nil, outputErrorCommon(globals, "INVALID_EXCLUDE_PATTERN", fmt.Sprintf("invalid exclude pattern: %v", err))
		}
		excludes = append(excludes, re)
	}

	where, err := filter.NewWhereFilter(c.Where)
	if err != nil {
		return nil, outputErrorCommon(globals, "INVALID_WHERE", err.Error())
	}
	return filter.NewPipeline(pattern, excludes, where), nil
}

// SessionCmd fetches one session document by id
type SessionCmd struct {
	ID    string `arg:"" help:"Session id"`
	Copy  bool   `short:"c" help:"Also copy the indented JSON to the clipboard"`
	Tree  bool   `short:"t" help:"Render as a collapsible tree (text format only)"`
	Depth int    `short:"d" default:"0" help:"With --tree, collapse containers deeper than this (0 = expand all)"`
}

// Run executes the session command
func (c *SessionCmd) Run(globals *Globals) error {
	ctx, cancel := commandContext()
	defer cancel()

	orch, err := globals.orchestrator()
	if err != nil {
		return outputErrorCommon(globals, "INVALID_CONFIG", err.Error())
	}
	detail, _, err := orch.SessionDetail(ctx, c.ID, globals.Mode())
	if err != nil {
		return outputFetchError(globals, err)
	}

	if c.Tree && globals.Format == "text" {
		if err := c.renderTree(globals, detail); err != nil {
			return outputErrorCommon(globals, "MALFORMED_RESPONSE", err.Error())
		}
	} else if err := globals.writer().SessionDetail(c.ID, globals.Mode(), detail); err != nil {
		return err
	}

	if c.Copy {
		c.copy(globals, detail)
	}
	return nil
}

func (c *SessionCmd) renderTree(globals *Globals, detail domain.SessionDetail) error {
	doc, err := jsonview.New(detail)
	if err != nil {
		return err
	}
	if doc == nil {
		fmt.Fprintf(globals.Stdout, "Session %s has no data (includeSamples=%s)\n", c.ID, globals.Mode())
		return nil
	}
	if c.Depth > 0 {
		doc.Root.CollapseBelow(c.Depth)
	}
	fmt.Fprintln(globals.Stdout, jsonview.Render(doc.Lines(previewCount(globals))))
	return nil
}

// copy never fails the command; the document has already been printed.
func (c *SessionCmd) copy(globals *Globals, detail domain.SessionDetail) {
	doc, err := jsonview.New(detail)
	if err != nil || doc == nil {
		globals.note("Nothing to copy for session %s", c.ID)
		return
	}
	if err := globals.clipboard().WriteAll(doc.CopyText()); err != nil {
		globals.Logger().Sugar().Warnf("copy failed: %v", err)
		globals.note("Copy failed: %v", err)
		return
	}
	globals.note("Copied session %s to the clipboard", c.ID)
}

func previewCount(globals *Globals) int {
	if globals.Config != nil && globals.Config.Explorer.PreviewCount > 0 {
		return globals.Config.Explorer.PreviewCount
	}
	return jsonview.DefaultPreviewCount
}
