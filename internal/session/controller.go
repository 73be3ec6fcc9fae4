// Package session holds the session/draft synchronization controller: it
// reconciles the server-issued sentence batch with the durably cached
// drafts, drives the submit/grade/finish lifecycle and guards the ordering
// between the two with an explicit phase machine.
package session

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ykarpov/tolmach/internal/api"
	"github.com/ykarpov/tolmach/internal/drafts"
)

// API is the slice of the backend client the controller drives.
type API interface {
	Bootstrap(ctx context.Context, initData string) (api.BootstrapResult, error)
	Sentences(ctx context.Context, initData string, limit int) ([]api.SentenceItem, error)
	Submit(ctx context.Context, req api.SubmitRequest) ([]api.GradeItem, error)
	SubmitGroup(ctx context.Context, initData string, pairs []api.TranslationPair) error
	Finish(ctx context.Context, initData string) (string, error)
}

// Ticket tags an in-flight request with the bootstrap epoch it was issued
// under. A response whose ticket no longer matches the current epoch is
// discarded unconditionally.
type Ticket struct {
	epoch uuid.UUID
}

// LoadTicket additionally carries a monotonic load sequence number, so
// that of several overlapping batch loads only the newest response is ever
// applied.
type LoadTicket struct {
	epoch uuid.UUID
	seq   uint64
}

// Controller owns the canonical in-memory state of one practice round.
//
// It is not safe for concurrent use: all methods must be called from the
// single UI event loop. Network I/O happens outside the controller (in
// command goroutines); the Begin*/Apply* pairs bracket each suspension
// point, and every Apply validates the ticket before touching state.
type Controller struct {
	api      API
	store    drafts.Store
	log      *slog.Logger
	initData string
	limit    int

	phase   Phase
	epoch   uuid.UUID
	loadSeq uint64

	sess    *Session
	batch   []Sentence
	drafts  map[int64]string
	results []api.GradeItem
}

// NewController creates an idle controller.
func NewController(a API, store drafts.Store, log *slog.Logger, initData string, limit int) *Controller {
	if log == nil {
		log = slog.Default()
	}
	return &Controller{
		api:      a,
		store:    store,
		log:      log,
		initData: initData,
		limit:    limit,
		phase:    PhaseIdle,
		drafts:   map[int64]string{},
	}
}

// API returns the backend client the controller was built with.
func (c *Controller) API() API { return c.api }

// InitData returns the platform identity blob.
func (c *Controller) InitData() string { return c.initData }

// BatchLimit returns the configured batch size bound.
func (c *Controller) BatchLimit() int { return c.limit }

// Phase returns the current lifecycle phase.
func (c *Controller) Phase() Phase { return c.phase }

// Session returns the current session identity, or nil before bootstrap.
func (c *Controller) Session() *Session { return c.sess }

// Batch returns the current sentence batch.
func (c *Controller) Batch() []Sentence { return c.batch }

// Draft returns the draft text for a sentence id.
func (c *Controller) Draft(id int64) string { return c.drafts[id] }

// Drafts returns a copy of the draft map.
func (c *Controller) Drafts() map[int64]string {
	out := make(map[int64]string, len(c.drafts))
	for id, text := range c.drafts {
		out[id] = text
	}
	return out
}

// Results returns the grading results of the last submitted round.
func (c *Controller) Results() []api.GradeItem { return c.results }

// BeginBootstrap starts (or restarts) the identity exchange. It rotates
// the epoch, so responses still in flight for the previous identity will
// be dropped by their Apply calls.
func (c *Controller) BeginBootstrap() (Ticket, error) {
	if !c.phase.CanEnter(PhaseBootstrapping) {
		return Ticket{}, &WrongPhaseError{Op: "bootstrap", From: c.phase}
	}
	c.epoch = uuid.New()
	c.phase = PhaseBootstrapping
	return Ticket{epoch: c.epoch}, nil
}

// ApplyBootstrap installs the bootstrap result. The returned LoadTicket is
// valid when ok is true, and the caller is expected to fetch the sentence
// batch with it next.
func (c *Controller) ApplyBootstrap(t Ticket, res api.BootstrapResult, err error) (LoadTicket, bool) {
	if t.epoch != c.epoch {
		return LoadTicket{}, false
	}
	if err != nil {
		c.phase = PhaseError
		return LoadTicket{}, false
	}

	c.sess = &Session{
		ID: res.SessionID,
		User: User{
			ID:        res.User.ID,
			FirstName: res.User.FirstName,
			Username:  res.User.Username,
		},
	}
	c.batch = nil
	c.drafts = map[int64]string{}
	c.results = nil
	c.phase = PhaseLoading
	c.loadSeq++
	return LoadTicket{epoch: c.epoch, seq: c.loadSeq}, true
}

// BeginReload starts a user-triggered batch refresh (also the retry path
// out of PhaseError).
func (c *Controller) BeginReload() (LoadTicket, error) {
	if c.sess == nil {
		return LoadTicket{}, &WrongPhaseError{Op: "load", From: c.phase}
	}
	if !c.phase.CanEnter(PhaseLoading) {
		return LoadTicket{}, &WrongPhaseError{Op: "load", From: c.phase}
	}
	c.phase = PhaseLoading
	c.loadSeq++
	return LoadTicket{epoch: c.epoch, seq: c.loadSeq}, nil
}

// ApplyBatch atomically replaces the sentence batch and reconciles the
// draft map against the persisted record: every sentence of the new batch
// gets its persisted draft or "", and persisted ids not in the batch are
// dropped. Previously displayed grading results are cleared — a new batch
// is a new round. An empty batch is valid ("nothing pending").
//
// Cache read failures are non-fatal: the controller logs and continues
// with empty persisted state.
func (c *Controller) ApplyBatch(ctx context.Context, t LoadTicket, items []api.SentenceItem, err error) bool {
	if t.epoch != c.epoch || t.seq != c.loadSeq {
		return false
	}
	if err != nil {
		c.phase = PhaseError
		return false
	}

	seen := make(map[int64]bool, len(items))
	batch := make([]Sentence, 0, len(items))
	for _, it := range items {
		if seen[it.IDForMistakeTable] {
			continue
		}
		seen[it.IDForMistakeTable] = true
		batch = append(batch, sentenceFromItem(it))
	}

	persisted, perr := c.store.Load(ctx, c.key())
	if perr != nil {
		c.log.Warn("draft cache read failed, starting from empty", "err", perr)
		persisted = map[int64]string{}
	}

	draftMap := make(map[int64]string, len(batch))
	for _, s := range batch {
		draftMap[s.ID] = persisted[s.ID]
	}

	c.batch = batch
	c.drafts = draftMap
	c.results = nil
	c.phase = PhaseReady
	return true
}

// SetDraft updates one draft entry and writes the complete draft map back
// to the cache, so storage always holds a coherent snapshot. Cache write
// failures are logged and swallowed; editing continues in memory.
func (c *Controller) SetDraft(ctx context.Context, id int64, text string) error {
	if c.phase != PhaseReady {
		return &WrongPhaseError{Op: "edit draft", From: c.phase}
	}
	if _, ok := c.drafts[id]; !ok {
		return &ValidationError{Msg: "unknown sentence"}
	}

	c.drafts[id] = text
	if err := c.store.Save(ctx, c.key(), c.drafts); err != nil {
		c.log.Warn("draft cache write failed, keeping in-memory state", "err", err)
	}
	return nil
}

// BeginSubmit validates the round and builds the grading submission:
// ordinal-numbered original and translation blocks plus the structured
// pairs. No network call is made here; on ValidationError none should be.
func (c *Controller) BeginSubmit() (Ticket, api.SubmitRequest, error) {
	if !c.phase.CanEnter(PhaseSubmitting) {
		return Ticket{}, api.SubmitRequest{}, &WrongPhaseError{Op: "submit", From: c.phase}
	}
	if len(c.batch) == 0 {
		return Ticket{}, api.SubmitRequest{}, &ValidationError{Msg: "no sentences to translate"}
	}
	if !hasContent(c.drafts) {
		return Ticket{}, api.SubmitRequest{}, &ValidationError{Msg: "fill in at least one translation"}
	}

	original, translation := numberedBlocks(c.batch, c.drafts)
	pairs := make([]api.TranslationPair, 0, len(c.batch))
	for _, s := range c.batch {
		pairs = append(pairs, api.TranslationPair{
			IDForMistakeTable: s.ID,
			Translation:       c.drafts[s.ID],
		})
	}

	c.phase = PhaseSubmitting
	return Ticket{epoch: c.epoch}, api.SubmitRequest{
		InitData:        c.initData,
		SessionID:       c.sess.ID,
		Translations:    pairs,
		OriginalText:    original,
		UserTranslation: translation,
	}, nil
}

// ApplySubmit consumes the grading results. On success the displayed
// result set is replaced wholesale, the persisted record is deleted and
// the in-memory draft map is reset — submission is the one path that
// clears drafts outright. On transport failure drafts and storage are
// left untouched.
func (c *Controller) ApplySubmit(ctx context.Context, t Ticket, results []api.GradeItem, err error) bool {
	if t.epoch != c.epoch {
		return false
	}
	if err != nil {
		c.phase = PhaseReady
		return false
	}

	c.results = results
	if derr := c.store.Delete(ctx, c.key()); derr != nil {
		c.log.Warn("draft cache delete failed after submit", "err", derr)
	}
	c.drafts = map[int64]string{}
	for _, s := range c.batch {
		c.drafts[s.ID] = ""
	}
	c.phase = PhaseReady
	return true
}

// GroupPayload validates and returns the pairs for a group broadcast. The
// broadcast is a side channel: its outcome must not clear drafts or
// results, so no phase transition or Apply step exists for it. The
// asymmetry with ApplySubmit is deliberate (broadcast vs. graded round).
func (c *Controller) GroupPayload() ([]api.TranslationPair, error) {
	if c.phase != PhaseReady {
		return nil, &WrongPhaseError{Op: "group submit", From: c.phase}
	}
	if len(c.batch) == 0 {
		return nil, &ValidationError{Msg: "no sentences to translate"}
	}
	if !hasContent(c.drafts) {
		return nil, &ValidationError{Msg: "fill in at least one translation"}
	}

	pairs := make([]api.TranslationPair, 0, len(c.batch))
	for _, s := range c.batch {
		pairs = append(pairs, api.TranslationPair{
			IDForMistakeTable: s.ID,
			Translation:       c.drafts[s.ID],
		})
	}
	return pairs, nil
}

// BeginFinish starts the explicit finish-session action.
func (c *Controller) BeginFinish() (Ticket, error) {
	if !c.phase.CanEnter(PhaseFinishing) {
		return Ticket{}, &WrongPhaseError{Op: "finish", From: c.phase}
	}
	c.phase = PhaseFinishing
	return Ticket{epoch: c.epoch}, nil
}

// ApplyFinish completes the finish action. On success the persisted record
// is deleted, drafts are reset and the controller moves back to loading;
// the returned LoadTicket (valid when ok) fetches the next batch, which
// may legitimately be empty. On failure state is unchanged apart from
// returning to PhaseReady.
func (c *Controller) ApplyFinish(ctx context.Context, t Ticket, err error) (LoadTicket, bool) {
	if t.epoch != c.epoch {
		return LoadTicket{}, false
	}
	if err != nil {
		c.phase = PhaseReady
		return LoadTicket{}, false
	}

	if derr := c.store.Delete(ctx, c.key()); derr != nil {
		c.log.Warn("draft cache delete failed after finish", "err", derr)
	}
	c.drafts = map[int64]string{}
	c.batch = nil
	c.results = nil
	c.phase = PhaseLoading
	c.loadSeq++
	return LoadTicket{epoch: c.epoch, seq: c.loadSeq}, true
}

func (c *Controller) key() drafts.Key {
	if c.sess == nil {
		return drafts.Key{}
	}
	return drafts.Key{UserID: c.sess.User.ID, SessionID: c.sess.ID}
}
