package tui

import (
	"strings"

	"github.com/vburojevic/pcx/internal/domain"
	"github.com/vburojevic/pcx/internal/explorer"
)

// row is one selectable line of a list pane: a panel header, its body
// message, or one of its sessions.
type row struct {
	panel   explorer.PanelKey
	session string // set for session rows
	text    string
	header  bool
}

// flatten turns a list into rows. Expanded panels contribute their body
// message and, once loaded, one row per session.
func flatten(list explorer.ListView) []row {
	var rows []row
	for _, p := range list.Panels {
		rows = append(rows, row{panel: p.Key, text: panelHeader(p), header: true})
		if !p.Expanded {
			continue
		}
		if msg := p.Message(); msg != "" {
			rows = append(rows, row{panel: p.Key, text: "    " + msg})
		}
		for _, s := range p.Sessions {
			rows = append(rows, row{panel: p.Key, session: s.ID, text: sessionLine(s)})
		}
	}
	return rows
}

func panelHeader(p explorer.Panel) string {
	marker := "▸ "
	if p.Expanded {
		marker = "▾ "
	}
	parts := []string{marker + p.Title}
	if p.Subtitle != "" {
		parts = append(parts, dimStyle.Render(p.Subtitle))
	}
	for _, b := range p.Badges {
		parts = append(parts, badgeStyle.Render(b))
	}
	return strings.Join(parts, " ")
}

func sessionLine(s domain.Session) string {
	parts := []string{"    • " + s.ID}
	if s.UploadedAt != "" {
		parts = append(parts, dimStyle.Render(s.UploadedAt))
	}
	for _, b := range s.Badges() {
		parts = append(parts, badgeStyle.Render(b))
	}
	return strings.Join(parts, " ")
}
