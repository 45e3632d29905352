package output

import (
	"encoding/json"
	"io"
	"sync"

	"github.com/vburojevic/pcx/internal/domain"
)

// NDJSONWriter writes one JSON object per line
type NDJSONWriter struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewNDJSONWriter creates a writer over w
func NewNDJSONWriter(w io.Writer) *NDJSONWriter {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &NDJSONWriter{enc: enc}
}

// Write encodes v as a single line
func (w *NDJSONWriter) Write(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.enc.Encode(v)
}

func (w *NDJSONWriter) Experiments(exps []domain.Experiment) error {
	for _, e := range exps {
		if err := w.Write(NewExperimentRecord(e)); err != nil {
			return err
		}
	}
	return nil
}

func (w *NDJSONWriter) Subjects(subs []domain.Subject) error {
	for _, s := range subs {
		if err := w.Write(NewSubjectRecord(s)); err != nil {
			return err
		}
	}
	return nil
}

func (w *NDJSONWriter) Sessions(sessions []domain.Session) error {
	for _, s := range sessions {
		if err := w.Write(NewSessionRecord(s)); err != nil {
			return err
		}
	}
	return nil
}

// SessionDetail writes the document under "data" with its key order intact.
func (w *NDJSONWriter) SessionDetail(id string, mode domain.FetchMode, detail domain.SessionDetail) error {
	data := json.RawMessage(detail)
	if detail.IsEmpty() {
		data = json.RawMessage("null")
	}
	return w.Write(&SessionDetailRecord{
		Type:           "session_detail",
		SchemaVersion:  SchemaVersion,
		ID:             id,
		IncludeSamples: mode.IncludeSamples(),
		Data:           data,
	})
}

// WriteError writes an error record. Write failures are dropped; the caller
// is already on an error path.
func (w *NDJSONWriter) WriteError(code, message string, hint ...string) {
	out := &ErrorOutput{
		Type:          "error",
		SchemaVersion: SchemaVersion,
		Code:          code,
		Message:       message,
	}
	if len(hint) > 0 {
		out.Hint = hint[0]
	}
	_ = w.Write(out)
}

// WriteErrorOutput writes a fully populated error record
func (w *NDJSONWriter) WriteErrorOutput(out *ErrorOutput) error {
	out.Type = "error"
	out.SchemaVersion = SchemaVersion
	return w.Write(out)
}
