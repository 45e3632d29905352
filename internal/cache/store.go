package cache

import "github.com/vburojevic/pcx/internal/domain"

// SessionKey identifies a cached session document. The same id fetched under
// a different mode is a different value, so the mode is part of the key.
type SessionKey struct {
	ID   string
	Mode domain.FetchMode
}

// Store holds the three cache partitions. There is no coupling between them:
// clearing one never touches the others.
type Store struct {
	// ByExperiment maps experiment title to its session list. Not keyed by mode.
	ByExperiment *Partition[string, []domain.Session]
	// BySubject maps subject display name to its session list. Not keyed by mode.
	BySubject *Partition[string, []domain.Session]
	// BySession maps (id, mode) to the session document.
	BySession *Partition[SessionKey, domain.SessionDetail]
}

// NewStore creates a store with empty partitions
func NewStore() *Store {
	return &Store{
		ByExperiment: NewPartition[string, []domain.Session](),
		BySubject:    NewPartition[string, []domain.Session](),
		BySession:    NewPartition[SessionKey, domain.SessionDetail](),
	}
}

// ClearAll empties every partition
func (s *Store) ClearAll() {
	s.ByExperiment.Clear()
	s.BySubject.Clear()
	s.BySession.Clear()
}
