package filter

import (
	"regexp"

	"github.com/samber/lo"

	"github.com/vburojevic/pcx/internal/domain"
)

// Pipeline combines --grep, --exclude and --where. Patterns run against the
// session record as the server sent it.
type Pipeline struct {
	pattern  *regexp.Regexp
	excludes []*regexp.Regexp
	where    *WhereFilter
}

// NewPipeline returns nil when there is nothing to filter on. A nil pipeline
// matches everything.
func NewPipeline(pattern *regexp.Regexp, excludes []*regexp.Regexp, where *WhereFilter) *Pipeline {
	if pattern == nil && len(excludes) == 0 && where == nil {
		return nil
	}
	return &Pipeline{pattern: pattern, excludes: excludes, where: where}
}

// Match reports whether s passes every stage
func (p *Pipeline) Match(s *domain.Session) bool {
	if p == nil {
		return true
	}
	raw := string(s.Raw)
	if p.pattern != nil && !p.pattern.MatchString(raw) {
		return false
	}
	for _, ex := range p.excludes {
		if ex.MatchString(raw) {
			return false
		}
	}
	return p.where.Match(s)
}

// Apply keeps the sessions that match, preserving order.
func (p *Pipeline) Apply(sessions []domain.Session) []domain.Session {
	if p == nil {
		return sessions
	}
	return lo.Filter(sessions, func(s domain.Session, _ int) bool {
		return p.Match(&s)
	})
}
