package explorer

import (
	"fmt"

	"github.com/vburojevic/pcx/internal/domain"
	"github.com/vburojevic/pcx/internal/jsonview"
)

// Axis identifies which top-level list a panel belongs to
type Axis int

const (
	AxisExperiment Axis = iota
	AxisSubject
)

func (a Axis) String() string {
	if a == AxisSubject {
		return "subject"
	}
	return "experiment"
}

// PanelKey addresses one expandable panel
type PanelKey struct {
	Axis Axis
	ID   string
}

// BodyState is the content state of a panel body
type BodyState int

const (
	BodyEmpty BodyState = iota
	BodyLoading
	BodyLoaded
	BodyError
)

// Panel is an experiment or subject row whose sessions load on first expand.
type Panel struct {
	Key      PanelKey
	Query    string // experiment title or subject display name sent to the API
	Title    string
	Subtitle string
	Badges   []string
	Expanded bool
	Body     BodyState
	Mode     domain.FetchMode // mode the body was requested under
	Sessions []domain.Session
	Err      string
}

// Message is the one-line summary shown at the top of the panel body.
func (p Panel) Message() string {
	switch p.Body {
	case BodyLoading:
		return "Loading sessions…"
	case BodyError:
		return "Failed to load sessions: " + p.Err
	case BodyLoaded:
		if len(p.Sessions) == 0 {
			return "No sessions found."
		}
		return fmt.Sprintf("Found %d session(s)", len(p.Sessions))
	default:
		return ""
	}
}

// StatusLevel tags a status line for styling
type StatusLevel string

const (
	LevelInfo StatusLevel = "info"
	LevelOK   StatusLevel = "ok"
	LevelWarn StatusLevel = "warn"
	LevelErr  StatusLevel = "err"
)

// Status is a list-level status line. An empty Text means hidden.
type Status struct {
	Text  string
	Level StatusLevel
}

// ListView is the rendered state of the experiment or subject list.
type ListView struct {
	Loaded bool
	Status Status
	Panels []Panel
}

// CountText renders "<n> total" once the list has loaded
func (l ListView) CountText() string {
	if !l.Loaded {
		return ""
	}
	return fmt.Sprintf("%d total", len(l.Panels))
}

// InspectorState is the state of the single JSON inspector slot
type InspectorState int

const (
	InspectorEmpty InspectorState = iota
	InspectorLoading
	InspectorLoaded
	InspectorError
)

func (s InspectorState) String() string {
	switch s {
	case InspectorLoading:
		return "loading"
	case InspectorLoaded:
		return "loaded"
	case InspectorError:
		return "error"
	default:
		return "empty"
	}
}

// Inspector is the JSON inspector slot. Errors are rendered as a JSON
// document too, so Document is the only thing a renderer has to draw.
type Inspector struct {
	State     InspectorState
	SessionID string
	Mode      domain.FetchMode
	Cached    bool
	Hint      string
	Document  *jsonview.Document
}

// CanCopy reports whether there is text to copy or clear
func (i Inspector) CanCopy() bool {
	return i.Document.CopyText() != ""
}

// View is a plain-data snapshot of the whole explorer.
type View struct {
	Mode        domain.FetchMode
	Experiments ListView
	Subjects    ListView
	Inspector   Inspector
	CopyLabel   string
}
