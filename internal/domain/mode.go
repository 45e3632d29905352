package domain

import "strconv"

// FetchMode selects whether session payloads include the heavy sample array.
// It is passed explicitly to every fetch rather than read from shared state.
type FetchMode bool

const (
	// WithoutSamples requests session metadata only
	WithoutSamples FetchMode = false
	// WithSamples requests sessions with embedded sample payloads
	WithSamples FetchMode = true
)

// IncludeSamples reports whether the mode asks for samples
func (m FetchMode) IncludeSamples() bool { return bool(m) }

// String renders the mode the way the API expects it ("true"/"false")
func (m FetchMode) String() string { return strconv.FormatBool(bool(m)) }
