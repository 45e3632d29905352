package domain

import (
	"encoding/json"

	"github.com/samber/lo"
)

// Session is one recorded run of telemetry in its canonical shape.
// All server field-name variants are folded into these fields at the API
// boundary; Raw keeps the record exactly as it was received.
type Session struct {
	ID                     string          `json:"id"`
	ExperimentTitle        string          `json:"experiment_title,omitempty"`
	SubjectDisplayName     string          `json:"subject_display_name,omitempty"`
	SubjectDeviceInstallID string          `json:"subject_device_install_id,omitempty"`
	UploadedAt             string          `json:"uploaded_at,omitempty"`
	AppVersion             string          `json:"app_version,omitempty"`
	Platform               string          `json:"platform,omitempty"`
	DeviceModel            string          `json:"device_model,omitempty"`
	Raw                    json.RawMessage `json:"-"`
}

// Badges returns the non-empty metadata pills shown on a session row, in
// display order.
func (s Session) Badges() []string {
	return lo.Compact([]string{
		s.ExperimentTitle,
		s.SubjectDisplayName,
		s.SubjectDeviceInstallID,
		s.Platform,
		lo.Ternary(s.AppVersion != "", "v"+s.AppVersion, ""),
		s.DeviceModel,
	})
}

// SessionDetail is the opaque document returned for a single session id.
// Key order is preserved as received so it can be shown and copied verbatim.
type SessionDetail json.RawMessage

// MarshalJSON emits the document unchanged
func (d SessionDetail) MarshalJSON() ([]byte, error) {
	return json.RawMessage(d).MarshalJSON()
}

// IsEmpty reports whether the detail carries no document
func (d SessionDetail) IsEmpty() bool {
	return len(d) == 0 || string(d) == "null"
}
