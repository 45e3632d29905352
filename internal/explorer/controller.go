package explorer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/vburojevic/pcx/internal/api"
	"github.com/vburojevic/pcx/internal/domain"
	"github.com/vburojevic/pcx/internal/jsonview"
)

// Copy button labels and how long the transient ones stay up
const (
	CopyLabel       = "Copy JSON"
	CopiedLabel     = "Copied"
	CopyFailedLabel = "Copy failed"

	copiedFor     = 900 * time.Millisecond
	copyFailedFor = 1200 * time.Millisecond
)

// ErrUnknownPanel is returned for a panel key that is not in the current lists
var ErrUnknownPanel = errors.New("unknown panel")

// Orchestrator is what the controller needs from the fetch layer.
type Orchestrator interface {
	Experiments(ctx context.Context) ([]domain.Experiment, error)
	Subjects(ctx context.Context) ([]domain.Subject, error)
	SessionsForExperiment(ctx context.Context, title string, mode domain.FetchMode) ([]domain.Session, bool, error)
	SessionsForSubject(ctx context.Context, name string, mode domain.FetchMode) ([]domain.Session, bool, error)
	SessionDetail(ctx context.Context, id string, mode domain.FetchMode) (domain.SessionDetail, bool, error)
	PeekDetail(id string, mode domain.FetchMode) (domain.SessionDetail, bool)
	InvalidateDetails()
}

// Options configures a Controller
type Options struct {
	Mode                     domain.FetchMode
	PurgeDetailsOnModeChange bool
	Clipboard                Clipboard
	Clock                    clock.Clock
	Logger                   *zap.Logger
	// OnChange is called after state changes that happen outside a command,
	// such as the copy label reverting.
	OnChange func()
}

// listState backs one top-level list. gen increases on every reload so late
// results for panels of an older list can be dropped.
type listState struct {
	loaded bool
	status Status
	panels []*Panel
	gen    int
}

// Controller drives panels and the JSON inspector through explicit commands.
// It is safe for concurrent use; fetches run without holding the lock.
type Controller struct {
	orch  Orchestrator
	opts  Options
	clock clock.Clock
	log   *zap.Logger

	mu          sync.Mutex
	mode        domain.FetchMode
	experiments listState
	subjects    listState
	inspector   Inspector
	selectSeq   uint64
	copyLabel   string
	copyTimer   *clock.Timer
}

// New creates a controller over orch
func New(orch Orchestrator, opts Options) *Controller {
	if opts.Clipboard == nil {
		opts.Clipboard = SystemClipboard{}
	}
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Controller{
		orch:      orch,
		opts:      opts,
		clock:     opts.Clock,
		log:       opts.Logger,
		mode:      opts.Mode,
		inspector: Inspector{State: InspectorEmpty, Hint: jsonview.Placeholder},
		copyLabel: CopyLabel,
	}
}

// Mode returns the current fetch mode
func (c *Controller) Mode() domain.FetchMode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Refresh resets the inspector, drops cached session documents and reloads
// both lists concurrently. A failure in one list never blocks the other; the
// returned error joins both outcomes.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.resetInspector(jsonview.Placeholder)
	c.mu.Unlock()
	c.orch.InvalidateDetails()

	var (
		wg                 sync.WaitGroup
		expErr, subjectErr error
	)
	wg.Go(func() { expErr = c.LoadExperiments(ctx) })
	wg.Go(func() { subjectErr = c.LoadSubjects(ctx) })
	wg.Wait()

	return errors.Join(expErr, subjectErr)
}

// LoadExperiments rebuilds the experiment panels from a fresh fetch.
func (c *Controller) LoadExperiments(ctx context.Context) error {
	gen := c.beginList(&c.experiments, "Loading experiments...")

	exps, err := c.orch.Experiments(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.experiments.gen {
		return err
	}
	if err != nil {
		c.failList(&c.experiments, err)
		return err
	}
	panels := make([]*Panel, 0, len(exps))
	for i, e := range exps {
		panels = append(panels, &Panel{
			Key:      PanelKey{Axis: AxisExperiment, ID: panelID(e.ID, i)},
			Query:    e.Title,
			Title:    e.DisplayTitle(),
			Subtitle: e.Description,
			Badges:   []string{"id: " + domain.ShortID(e.ID)},
		})
	}
	c.finishList(&c.experiments, panels)
	c.log.Debug("experiments loaded", zap.Int("count", len(panels)))
	return nil
}

// LoadSubjects rebuilds the subject panels from a fresh fetch.
func (c *Controller) LoadSubjects(ctx context.Context) error {
	gen := c.beginList(&c.subjects, "Loading subjects...")

	subs, err := c.orch.Subjects(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.subjects.gen {
		return err
	}
	if err != nil {
		c.failList(&c.subjects, err)
		return err
	}
	panels := make([]*Panel, 0, len(subs))
	for i, s := range subs {
		var badges []string
		if s.DeviceInstallID != "" {
			badges = append(badges, s.DeviceInstallID)
		}
		if s.LastSeenAt != "" {
			badges = append(badges, "last: "+s.LastSeenAt)
		}
		panels = append(panels, &Panel{
			Key:      PanelKey{Axis: AxisSubject, ID: panelID(s.ID, i)},
			Query:    s.DisplayName,
			Title:    s.DisplayTitle(),
			Subtitle: "id: " + s.ID,
			Badges:   badges,
		})
	}
	c.finishList(&c.subjects, panels)
	c.log.Debug("subjects loaded", zap.Int("count", len(panels)))
	return nil
}

// ExpandPanel expands a collapsed panel, fetching its sessions on the first
// expansion. Expanding an already expanded panel does nothing.
func (c *Controller) ExpandPanel(ctx context.Context, key PanelKey) error {
	return c.setExpanded(ctx, key, func(bool) bool { return true })
}

// CollapsePanel hides a panel body. Loaded content is kept.
func (c *Controller) CollapsePanel(ctx context.Context, key PanelKey) error {
	return c.setExpanded(ctx, key, func(bool) bool { return false })
}

// TogglePanel flips a panel between collapsed and expanded.
func (c *Controller) TogglePanel(ctx context.Context, key PanelKey) error {
	return c.setExpanded(ctx, key, func(expanded bool) bool { return !expanded })
}

func (c *Controller) setExpanded(ctx context.Context, key PanelKey, next func(bool) bool) error {
	c.mu.Lock()
	list := c.list(key.Axis)
	p := findPanel(list, key)
	if p == nil {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s %s", ErrUnknownPanel, key.Axis, key.ID)
	}
	p.Expanded = next(p.Expanded)

	// Only the first expansion into an empty (or failed) body fetches.
	if !p.Expanded || (p.Body != BodyEmpty && p.Body != BodyError) {
		c.mu.Unlock()
		return nil
	}
	p.Body = BodyLoading
	p.Err = ""
	p.Mode = c.mode
	mode, query, gen := c.mode, p.Query, list.gen
	c.mu.Unlock()

	c.log.Debug("loading panel sessions", zap.Stringer("axis", key.Axis), zap.String("query", query), zap.Stringer("mode", mode))
	var (
		sessions []domain.Session
		err      error
	)
	if key.Axis == AxisSubject {
		sessions, _, err = c.orch.SessionsForSubject(ctx, query, mode)
	} else {
		sessions, _, err = c.orch.SessionsForExperiment(ctx, query, mode)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != list.gen {
		return err
	}
	if err != nil {
		p.Body = BodyError
		p.Err = err.Error()
		return err
	}
	p.Body = BodyLoaded
	p.Sessions = sessions
	return nil
}

// SelectSession loads a session document into the inspector. A cached
// (id, mode) is shown immediately; otherwise the slot shows Loading until the
// fetch settles. A newer selection supersedes an older one still in flight.
func (c *Controller) SelectSession(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}

	c.mu.Lock()
	mode := c.mode
	c.selectSeq++
	seq := c.selectSeq
	if detail, ok := c.orch.PeekDetail(id, mode); ok {
		c.showDetail(id, mode, detail, true)
		c.mu.Unlock()
		return nil
	}
	c.inspector = Inspector{
		State:     InspectorLoading,
		SessionID: id,
		Mode:      mode,
		Hint:      fmt.Sprintf("Loading session %s…", id),
	}
	c.mu.Unlock()

	detail, cached, err := c.orch.SessionDetail(ctx, id, mode)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.selectSeq {
		c.log.Debug("dropping superseded session result", zap.String("session_id", id))
		return err
	}
	if err != nil {
		c.showError(id, mode, err)
		return err
	}
	c.showDetail(id, mode, detail, cached)
	return nil
}

// SetMode changes the fetch mode. Nothing is fetched: the inspector is reset
// with a notice and loaded panel bodies stay as they are.
func (c *Controller) SetMode(includeSamples bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	mode := domain.FetchMode(includeSamples)
	if mode == c.mode {
		return
	}
	c.mode = mode
	if c.opts.PurgeDetailsOnModeChange {
		c.orch.InvalidateDetails()
	}
	c.resetInspector(fmt.Sprintf("includeSamples changed to %s. Click a session again.", mode))
	c.log.Debug("fetch mode changed", zap.Stringer("mode", mode))
}

// ClearInspector empties the inspector slot
func (c *Controller) ClearInspector() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetInspector(jsonview.Placeholder)
}

// CopyJSON copies the inspector's canonical text. It reports whether the
// clipboard accepted it; failures only change the copy label.
func (c *Controller) CopyJSON() bool {
	c.mu.Lock()
	text := c.inspector.Document.CopyText()
	c.mu.Unlock()
	if text == "" {
		return false
	}

	err := c.opts.Clipboard.WriteAll(text)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.log.Warn("copy to clipboard failed", zap.Error(err))
		c.flashCopyLabel(CopyFailedLabel, copyFailedFor)
		return false
	}
	c.flashCopyLabel(CopiedLabel, copiedFor)
	return true
}

// Snapshot returns a copy of the current state for rendering.
func (c *Controller) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return View{
		Mode:        c.mode,
		Experiments: snapshotList(c.experiments),
		Subjects:    snapshotList(c.subjects),
		Inspector:   c.inspector,
		CopyLabel:   c.copyLabel,
	}
}

// Panel returns a copy of one panel
func (c *Controller) Panel(key PanelKey) (Panel, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := findPanel(c.list(key.Axis), key)
	if p == nil {
		return Panel{}, false
	}
	return copyPanel(p), true
}

// flashCopyLabel shows label for d, then restores the default. Caller holds mu.
func (c *Controller) flashCopyLabel(label string, d time.Duration) {
	if c.copyTimer != nil {
		c.copyTimer.Stop()
	}
	c.copyLabel = label
	c.copyTimer = c.clock.AfterFunc(d, func() {
		c.mu.Lock()
		c.copyLabel = CopyLabel
		c.copyTimer = nil
		c.mu.Unlock()
		if c.opts.OnChange != nil {
			c.opts.OnChange()
		}
	})
}

// resetInspector empties the slot and supersedes any in-flight selection.
// Caller holds mu.
func (c *Controller) resetInspector(hint string) {
	c.selectSeq++
	c.inspector = Inspector{State: InspectorEmpty, Mode: c.mode, Hint: hint}
}

// showDetail puts a session document into the inspector. Caller holds mu.
func (c *Controller) showDetail(id string, mode domain.FetchMode, detail domain.SessionDetail, cached bool) {
	doc, err := jsonview.New(detail)
	if err != nil {
		c.showError(id, mode, fmt.Errorf("render session %s: %w", id, err))
		return
	}
	hint := fmt.Sprintf("Session %s, includeSamples=%s", id, mode)
	if cached {
		hint = fmt.Sprintf("Session %s (cached), includeSamples=%s", id, mode)
	}
	c.inspector = Inspector{
		State:     InspectorLoaded,
		SessionID: id,
		Mode:      mode,
		Cached:    cached,
		Hint:      hint,
		Document:  doc,
	}
}

// showError renders a failed load as a JSON document. Caller holds mu.
func (c *Controller) showError(id string, mode domain.FetchMode, err error) {
	doc, derr := jsonview.FromValue(ErrorDocument(err))
	if derr != nil {
		c.log.Error("render error document", zap.Error(derr))
	}
	c.inspector = Inspector{
		State:     InspectorError,
		SessionID: id,
		Mode:      mode,
		Hint:      fmt.Sprintf("Failed to load session %s", id),
		Document:  doc,
	}
}

// errorDocument is the JSON shape used to show failures in the inspector
type errorDocument struct {
	Error   string          `json:"error"`
	Details json.RawMessage `json:"details"`
}

// ErrorDocument describes err as {"error": message, "details": body|null}.
func ErrorDocument(err error) any {
	return errorDocument{Error: err.Error(), Details: api.Details(err)}
}

func (c *Controller) beginList(l *listState, msg string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	l.gen++
	l.loaded = false
	l.panels = nil
	l.status = Status{Text: msg, Level: LevelInfo}
	return l.gen
}

func (c *Controller) failList(l *listState, err error) {
	l.status = Status{Text: "Failed to load: " + err.Error(), Level: LevelErr}
	c.log.Debug("list load failed", zap.Error(err))
}

func (c *Controller) finishList(l *listState, panels []*Panel) {
	l.loaded = true
	l.panels = panels
	l.status = Status{Level: LevelOK}
}

func (c *Controller) list(axis Axis) *listState {
	if axis == AxisSubject {
		return &c.subjects
	}
	return &c.experiments
}

func findPanel(l *listState, key PanelKey) *Panel {
	for _, p := range l.panels {
		if p.Key == key {
			return p
		}
	}
	return nil
}

func panelID(id string, index int) string {
	if id == "" {
		return fmt.Sprintf("#%d", index)
	}
	return id
}

func snapshotList(l listState) ListView {
	out := ListView{Loaded: l.loaded, Status: l.status}
	if len(l.panels) > 0 {
		out.Panels = make([]Panel, 0, len(l.panels))
		for _, p := range l.panels {
			out.Panels = append(out.Panels, copyPanel(p))
		}
	}
	return out
}

func copyPanel(p *Panel) Panel {
	cp := *p
	cp.Badges = append([]string(nil), p.Badges...)
	cp.Sessions = append([]domain.Session(nil), p.Sessions...)
	return cp
}
