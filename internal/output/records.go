package output

import (
	"encoding/json"

	"github.com/vburojevic/pcx/internal/domain"
)

// SchemaVersion is stamped on every NDJSON record
const SchemaVersion = 1

// ExperimentRecord is one experiment row
type ExperimentRecord struct {
	Type          string `json:"type"`          // "experiment"
	SchemaVersion int    `json:"schemaVersion"` // 1
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description,omitempty"`
}

// SubjectRecord is one subject row
type SubjectRecord struct {
	Type            string `json:"type"`          // "subject"
	SchemaVersion   int    `json:"schemaVersion"` // 1
	ID              string `json:"id"`
	DisplayName     string `json:"display_name"`
	DeviceInstallID string `json:"device_install_id,omitempty"`
	LastSeenAt      string `json:"last_seen_at,omitempty"`
}

// SessionRecord is a session in canonical field names
type SessionRecord struct {
	Type            string `json:"type"`          // "session"
	SchemaVersion   int    `json:"schemaVersion"` // 1
	ID              string `json:"id"`
	Experiment      string `json:"experiment,omitempty"`
	Subject         string `json:"subject,omitempty"`
	DeviceInstallID string `json:"device_install_id,omitempty"`
	UploadedAt      string `json:"uploaded_at,omitempty"`
	AppVersion      string `json:"app_version,omitempty"`
	Platform        string `json:"platform,omitempty"`
	DeviceModel     string `json:"device_model,omitempty"`
}

// SessionDetailRecord carries a full session document as received
type SessionDetailRecord struct {
	Type           string          `json:"type"`          // "session_detail"
	SchemaVersion  int             `json:"schemaVersion"` // 1
	ID             string          `json:"id"`
	IncludeSamples bool            `json:"include_samples"`
	Data           json.RawMessage `json:"data"`
}

// ErrorOutput is a machine-readable failure
type ErrorOutput struct {
	Type          string          `json:"type"`          // "error"
	SchemaVersion int             `json:"schemaVersion"` // 1
	Code          string          `json:"code"`
	Message       string          `json:"message"`
	Hint          string          `json:"hint,omitempty"`
	Status        int             `json:"status,omitempty"`
	Details       json.RawMessage `json:"details,omitempty"`
}

// NewExperimentRecord converts a domain experiment
func NewExperimentRecord(e domain.Experiment) *ExperimentRecord {
	return &ExperimentRecord{
		Type:          "experiment",
		SchemaVersion: SchemaVersion,
		ID:            e.ID,
		Title:         e.Title,
		Description:   e.Description,
	}
}

// NewSubjectRecord converts a domain subject
func NewSubjectRecord(s domain.Subject) *SubjectRecord {
	return &SubjectRecord{
		Type:            "subject",
		SchemaVersion:   SchemaVersion,
		ID:              s.ID,
		DisplayName:     s.DisplayName,
		DeviceInstallID: s.DeviceInstallID,
		LastSeenAt:      s.LastSeenAt,
	}
}

// NewSessionRecord converts a normalized session
func NewSessionRecord(s domain.Session) *SessionRecord {
	return &SessionRecord{
		Type:            "session",
		SchemaVersion:   SchemaVersion,
		ID:              s.ID,
		Experiment:      s.ExperimentTitle,
		Subject:         s.SubjectDisplayName,
		DeviceInstallID: s.SubjectDeviceInstallID,
		UploadedAt:      s.UploadedAt,
		AppVersion:      s.AppVersion,
		Platform:        s.Platform,
		DeviceModel:     s.DeviceModel,
	}
}
