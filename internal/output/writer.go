package output

import "github.com/vburojevic/pcx/internal/domain"

// Writer renders query results in one output format.
type Writer interface {
	Experiments(exps []domain.Experiment) error
	Subjects(subs []domain.Subject) error
	Sessions(sessions []domain.Session) error
	SessionDetail(id string, mode domain.FetchMode, detail domain.SessionDetail) error
}

var (
	_ Writer = (*NDJSONWriter)(nil)
	_ Writer = (*TextWriter)(nil)
)
