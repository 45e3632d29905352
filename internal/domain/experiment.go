package domain

// Experiment is a named research trial that groups sessions
type Experiment struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// DisplayTitle returns the title shown in panel headers
func (e Experiment) DisplayTitle() string {
	if e.Title == "" {
		return "(untitled)"
	}
	return e.Title
}

// Subject is a participant/device identity that produced sessions
type Subject struct {
	ID              string `json:"id"`
	DisplayName     string `json:"display_name"`
	DeviceInstallID string `json:"device_install_id,omitempty"`
	LastSeenAt      string `json:"last_seen_at,omitempty"`
}

// DisplayTitle returns the name shown in panel headers
func (s Subject) DisplayTitle() string {
	if s.DisplayName == "" {
		return "(no name)"
	}
	return s.DisplayName
}

// ShortID truncates an identifier for badges ("0123abcd…")
func ShortID(id string) string {
	r := []rune(id)
	if len(r) <= 8 {
		return id
	}
	return string(r[:8]) + "…"
}
