package output

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/vburojevic/pcx/internal/domain"
	"github.com/vburojevic/pcx/internal/jsonview"
)

// TextWriter renders lists as tables and documents as indented JSON.
type TextWriter struct {
	w     io.Writer
	quiet bool
}

// TextOption configures a TextWriter
type TextOption func(*TextWriter)

// WithQuiet drops summary lines after tables
func WithQuiet(quiet bool) TextOption {
	return func(t *TextWriter) { t.quiet = quiet }
}

// NewTextWriter creates a writer over w
func NewTextWriter(w io.Writer, opts ...TextOption) *TextWriter {
	t := &TextWriter{w: w}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *TextWriter) Experiments(exps []domain.Experiment) error {
	if len(exps) == 0 {
		_, err := fmt.Fprintln(t.w, "No experiments found.")
		return err
	}
	table := tablewriter.NewWriter(t.w)
	table.Header("ID", "Title", "Description")
	for _, e := range exps {
		if err := table.Append([]string{e.ID, e.DisplayTitle(), e.Description}); err != nil {
			return err
		}
	}
	return table.Render()
}

func (t *TextWriter) Subjects(subs []domain.Subject) error {
	if len(subs) == 0 {
		_, err := fmt.Fprintln(t.w, "No subjects found.")
		return err
	}
	table := tablewriter.NewWriter(t.w)
	table.Header("ID", "Name", "Device", "Last Seen")
	for _, s := range subs {
		if err := table.Append([]string{s.ID, s.DisplayTitle(), s.DeviceInstallID, s.LastSeenAt}); err != nil {
			return err
		}
	}
	return table.Render()
}

func (t *TextWriter) Sessions(sessions []domain.Session) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(t.w, "No sessions found.")
		return err
	}
	table := tablewriter.NewWriter(t.w)
	table.Header("ID", "Experiment", "Subject", "Platform", "Version", "Uploaded")
	for _, s := range sessions {
		row := []string{s.ID, s.ExperimentTitle, s.SubjectDisplayName, s.Platform, s.AppVersion, s.UploadedAt}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}
	if t.quiet {
		return nil
	}
	_, err := fmt.Fprintf(t.w, "Found %d session(s)\n", len(sessions))
	return err
}

// SessionDetail prints the canonical text, the same text the inspector copies.
func (t *TextWriter) SessionDetail(id string, mode domain.FetchMode, detail domain.SessionDetail) error {
	doc, err := jsonview.New(detail)
	if err != nil {
		return err
	}
	if doc == nil {
		_, err = fmt.Fprintf(t.w, "Session %s has no data (includeSamples=%s)\n", id, mode)
		return err
	}
	_, err = fmt.Fprintln(t.w, doc.Text)
	return err
}
