package filter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/vburojevic/pcx/internal/domain"
)

// Fields lists the session fields a where clause can address
var Fields = []string{"id", "experiment", "subject", "device", "platform", "app_version", "device_model", "uploaded_at"}

// WhereClause represents a parsed --where condition
type WhereClause struct {
	Field    string
	Operator string
	Value    string
	regex    *regexp.Regexp // compiled for ~ and !~
}

// ParseWhereClause parses a where clause like "platform=ios" or "subject~^ada"
// Supported operators: =, !=, ~, !~, >=, <=, ^, $
func ParseWhereClause(clause string) (*WhereClause, error) {
	// longest first so "!=" is not read as "="
	operators := []string{"!~", ">=", "<=", "!=", "~", "=", "^", "$"}

	for _, op := range operators {
		idx := strings.Index(clause, op)
		if idx <= 0 {
			continue
		}
		field := strings.ToLower(strings.TrimSpace(clause[:idx]))
		value := strings.TrimSpace(clause[idx+len(op):])
		if field == "" || value == "" {
			return nil, fmt.Errorf("invalid where clause: %s", clause)
		}
		if !knownField(field) {
			return nil, fmt.Errorf("unknown field %q in where clause (use %s)", field, strings.Join(Fields, ", "))
		}

		wc := &WhereClause{Field: field, Operator: op, Value: value}
		if op == "~" || op == "!~" {
			re, err := regexp.Compile(value)
			if err != nil {
				return nil, fmt.Errorf("invalid regex in where clause '%s': %w", clause, err)
			}
			wc.regex = re
		}
		return wc, nil
	}

	return nil, fmt.Errorf("no valid operator found in where clause: %s (use =, !=, ~, !~, >=, <=, ^, $)", clause)
}

// Match checks if a session matches this where clause
func (wc *WhereClause) Match(s *domain.Session) bool {
	v := FieldValue(s, wc.Field)

	switch wc.Operator {
	case "=":
		return v == wc.Value
	case "!=":
		return v != wc.Value
	case "~":
		return wc.regex.MatchString(v)
	case "!~":
		return !wc.regex.MatchString(v)
	case "^":
		return strings.HasPrefix(v, wc.Value)
	case "$":
		return strings.HasSuffix(v, wc.Value)
	case ">=":
		// empty values never satisfy an ordering
		return v != "" && v >= wc.Value
	case "<=":
		return v != "" && v <= wc.Value
	}
	return false
}

// FieldValue returns the canonical value of a session field by name.
func FieldValue(s *domain.Session, field string) string {
	switch field {
	case "id":
		return s.ID
	case "experiment":
		return s.ExperimentTitle
	case "subject":
		return s.SubjectDisplayName
	case "device":
		return s.SubjectDeviceInstallID
	case "platform":
		return s.Platform
	case "app_version":
		return s.AppVersion
	case "device_model":
		return s.DeviceModel
	case "uploaded_at":
		return s.UploadedAt
	default:
		return ""
	}
}

func knownField(field string) bool {
	for _, f := range Fields {
		if f == field {
			return true
		}
	}
	return false
}

// WhereFilter applies multiple where clauses (AND logic)
type WhereFilter struct {
	clauses []*WhereClause
}

// NewWhereFilter creates a filter from multiple where clause strings.
// No clauses yields a nil filter.
func NewWhereFilter(whereClauses []string) (*WhereFilter, error) {
	if len(whereClauses) == 0 {
		return nil, nil
	}

	filter := &WhereFilter{}
	for _, clause := range whereClauses {
		wc, err := ParseWhereClause(clause)
		if err != nil {
			return nil, err
		}
		filter.clauses = append(filter.clauses, wc)
	}
	return filter, nil
}

// Match returns true if the session matches ALL where clauses
func (f *WhereFilter) Match(s *domain.Session) bool {
	if f == nil {
		return true
	}
	for _, clause := range f.clauses {
		if !clause.Match(s) {
			return false
		}
	}
	return true
}
