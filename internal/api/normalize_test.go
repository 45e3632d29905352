package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vburojevic/pcx/internal/domain"
)

func TestNormalizeSession(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want domain.Session
	}{
		{
			name: "flat snake case",
			raw:  `{"id":"S1","experimentTitle":"Pilot","subjectDisplayName":"Ana","subjectDeviceInstallId":"dev-1","uploaded_at":"2025-01-01T00:00:00Z","app_version":"1.2","platform":"ios","device_model":"iPad"}`,
			want: domain.Session{ID: "S1", ExperimentTitle: "Pilot", SubjectDisplayName: "Ana", SubjectDeviceInstallID: "dev-1", UploadedAt: "2025-01-01T00:00:00Z", AppVersion: "1.2", Platform: "ios", DeviceModel: "iPad"},
		},
		{
			name: "nested and camel case",
			raw:  `{"session_id":"S2","experiment":{"title":"Main"},"subject":{"display_name":"Bo","device_install_id":"dev-2"},"uploadedAt":"2025-02-01T00:00:00Z","appVersion":"2.0","deviceModel":"Pixel"}`,
			want: domain.Session{ID: "S2", ExperimentTitle: "Main", SubjectDisplayName: "Bo", SubjectDeviceInstallID: "dev-2", UploadedAt: "2025-02-01T00:00:00Z", AppVersion: "2.0", DeviceModel: "Pixel"},
		},
		{
			name: "timestamp falls back to created_at then start_at",
			raw:  `{"id":"S3","start_at":"2025-03-02T00:00:00Z","created_at":"2025-03-01T00:00:00Z"}`,
			want: domain.Session{ID: "S3", UploadedAt: "2025-03-01T00:00:00Z"},
		},
		{
			name: "numeric ids and versions",
			raw:  `{"id":42,"app_version":3,"platform":null}`,
			want: domain.Session{ID: "42", AppVersion: "3"},
		},
		{
			name: "non-object experiment and subject are empty",
			raw:  `{"id":"S5","experiment":"Pilot","subject":7,"platform":"ios"}`,
			want: domain.Session{ID: "S5", Platform: "ios"},
		},
		{
			name: "null nested values",
			raw:  `{"id":"S6","experiment":null,"subject":{"display_name":null,"device_install_id":"dev-6"}}`,
			want: domain.Session{ID: "S6", SubjectDeviceInstallID: "dev-6"},
		},
		{
			name: "flat fields win over nested ones",
			raw:  `{"id":"S4","experimentTitle":"Flat","experiment":{"title":"Nested"}}`,
			want: domain.Session{ID: "S4", ExperimentTitle: "Flat"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeSession(json.RawMessage(tt.raw))
			require.NoError(t, err)
			tt.want.Raw = json.RawMessage(tt.raw)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeSessionRejectsNonObject(t *testing.T) {
	_, err := normalizeSession(json.RawMessage(`[1,2]`))
	assert.Error(t, err)
}
