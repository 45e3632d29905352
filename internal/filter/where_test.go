package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vburojevic/pcx/internal/domain"
)

func TestParseWhereClause(t *testing.T) {
	tests := []struct {
		clause string
		field  string
		op     string
		value  string
	}{
		{"platform=ios", "platform", "=", "ios"},
		{"Platform != web", "platform", "!=", "web"},
		{"subject~^Ada", "subject", "~", "^Ada"},
		{"subject!~test", "subject", "!~", "test"},
		{"uploaded_at>=2024-01-01", "uploaded_at", ">=", "2024-01-01"},
		{"app_version<=2.0", "app_version", "<=", "2.0"},
		{"id^abc", "id", "^", "abc"},
		{"device_model$Pro", "device_model", "$", "Pro"},
	}
	for _, tt := range tests {
		t.Run(tt.clause, func(t *testing.T) {
			wc, err := ParseWhereClause(tt.clause)
			require.NoError(t, err)
			assert.Equal(t, tt.field, wc.Field)
			assert.Equal(t, tt.op, wc.Operator)
			assert.Equal(t, tt.value, wc.Value)
		})
	}
}

func TestParseWhereClauseErrors(t *testing.T) {
	for _, clause := range []string{"platform", "=ios", "platform=", "color=red", "subject~("} {
		t.Run(clause, func(t *testing.T) {
			_, err := ParseWhereClause(clause)
			assert.Error(t, err)
		})
	}
}

func TestWhereClauseMatch(t *testing.T) {
	s := &domain.Session{
		ID:                 "abc123",
		ExperimentTitle:    "Reaction",
		SubjectDisplayName: "Ada",
		Platform:           "ios",
		AppVersion:         "1.4.0",
		UploadedAt:         "2024-03-05T10:00:00Z",
	}

	tests := []struct {
		clause string
		want   bool
	}{
		{"platform=ios", true},
		{"platform!=ios", false},
		{"subject~^A", true},
		{"subject!~^A", false},
		{"id^abc", true},
		{"id$999", false},
		{"uploaded_at>=2024-01-01", true},
		{"uploaded_at<=2024-01-01", false},
		{"device_model>=A", false},
		{"experiment=Reaction", true},
	}
	for _, tt := range tests {
		t.Run(tt.clause, func(t *testing.T) {
			wc, err := ParseWhereClause(tt.clause)
			require.NoError(t, err)
			assert.Equal(t, tt.want, wc.Match(s))
		})
	}
}

func TestWhereFilterAnd(t *testing.T) {
	f, err := NewWhereFilter([]string{"platform=ios", "app_version^1."})
	require.NoError(t, err)

	assert.True(t, f.Match(&domain.Session{Platform: "ios", AppVersion: "1.2"}))
	assert.False(t, f.Match(&domain.Session{Platform: "ios", AppVersion: "2.0"}))

	none, err := NewWhereFilter(nil)
	require.NoError(t, err)
	assert.Nil(t, none)
	assert.True(t, none.Match(&domain.Session{}))
}
