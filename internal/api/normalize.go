package api

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/samber/lo"

	"github.com/vburojevic/pcx/internal/domain"
)

// text accepts a JSON string, number, bool or null and keeps its plain text
// form. Anything else decodes to "".
type text string

func (t *text) UnmarshalJSON(b []byte) error {
	*t = text(scalarString(b))
	return nil
}

// experimentRef is the nested experiment of a session. A value that is not
// an object leaves it empty.
type experimentRef struct {
	Title text `json:"title"`
}

func (e *experimentRef) UnmarshalJSON(b []byte) error {
	if !isObject(b) {
		return nil
	}
	type plain experimentRef
	return json.Unmarshal(b, (*plain)(e))
}

// subjectRef is the nested subject of a session. A value that is not an
// object leaves it empty.
type subjectRef struct {
	DisplayName     text `json:"display_name"`
	DeviceInstallID text `json:"device_install_id"`
}

func (s *subjectRef) UnmarshalJSON(b []byte) error {
	if !isObject(b) {
		return nil
	}
	type plain subjectRef
	return json.Unmarshal(b, (*plain)(s))
}

func isObject(b []byte) bool {
	b = bytes.TrimSpace(b)
	return len(b) > 0 && b[0] == '{'
}

// rawSession lists every field-name variant the server is known to use for
// session records. Only normalizeSession reads it.
type rawSession struct {
	ID        text `json:"id"`
	SessionID text `json:"session_id"`

	ExperimentTitle text          `json:"experimentTitle"`
	Experiment      experimentRef `json:"experiment"`

	SubjectDisplayName     text       `json:"subjectDisplayName"`
	SubjectDeviceInstallID text       `json:"subjectDeviceInstallId"`
	Subject                subjectRef `json:"subject"`

	UploadedAtSnake text `json:"uploaded_at"`
	UploadedAtCamel text `json:"uploadedAt"`
	CreatedAt       text `json:"created_at"`
	StartAt         text `json:"start_at"`

	AppVersionSnake  text `json:"app_version"`
	AppVersionCamel  text `json:"appVersion"`
	Platform         text `json:"platform"`
	DeviceModelSnake text `json:"device_model"`
	DeviceModelCamel text `json:"deviceModel"`
}

// normalizeSession maps a server session record onto the canonical shape.
func normalizeSession(raw json.RawMessage) (domain.Session, error) {
	var r rawSession
	if err := json.Unmarshal(raw, &r); err != nil {
		return domain.Session{}, err
	}

	return domain.Session{
		ID:                     string(lo.CoalesceOrEmpty(r.ID, r.SessionID)),
		ExperimentTitle:        string(lo.CoalesceOrEmpty(r.ExperimentTitle, r.Experiment.Title)),
		SubjectDisplayName:     string(lo.CoalesceOrEmpty(r.SubjectDisplayName, r.Subject.DisplayName)),
		SubjectDeviceInstallID: string(lo.CoalesceOrEmpty(r.SubjectDeviceInstallID, r.Subject.DeviceInstallID)),
		UploadedAt:             string(lo.CoalesceOrEmpty(r.UploadedAtSnake, r.UploadedAtCamel, r.CreatedAt, r.StartAt)),
		AppVersion:             string(lo.CoalesceOrEmpty(r.AppVersionSnake, r.AppVersionCamel)),
		Platform:               string(r.Platform),
		DeviceModel:            string(lo.CoalesceOrEmpty(r.DeviceModelSnake, r.DeviceModelCamel)),
		Raw:                    raw,
	}, nil
}

// scalarString renders a JSON string, number or bool as plain text.
func scalarString(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return strconv.FormatBool(b)
	}
	return ""
}
