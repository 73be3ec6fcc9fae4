// Package practice is the main translation screen: it shows the pending
// sentence batch, one draft editor per sentence, and the grading results
// of the last submitted round.
package practice

import (
	"context"
	"errors"
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/ykarpov/tolmach/internal/router"
	"github.com/ykarpov/tolmach/internal/screen"
	"github.com/ykarpov/tolmach/internal/screens/history"
	"github.com/ykarpov/tolmach/internal/session"
	"github.com/ykarpov/tolmach/internal/ui/components"
	"github.com/ykarpov/tolmach/internal/ui/layout"
)

const editorHeight = 2

// PracticeScreen implements screen.Screen for the active practice round.
type PracticeScreen struct {
	ctrl    *session.Controller
	editors []components.TextArea
	focused int
	width   int
	errMsg  string
	notice  string
}

var _ screen.Screen = (*PracticeScreen)(nil)
var _ screen.KeyHintProvider = (*PracticeScreen)(nil)

// New creates a PracticeScreen driving the given controller.
func New(ctrl *session.Controller) *PracticeScreen {
	return &PracticeScreen{ctrl: ctrl}
}

func (s *PracticeScreen) Init() tea.Cmd {
	switch s.ctrl.Phase() {
	case session.PhaseIdle:
		t, err := s.ctrl.BeginBootstrap()
		if err != nil {
			s.errMsg = err.Error()
			return nil
		}
		return s.bootstrapCmd(t)
	case session.PhaseReady:
		// Returning to an already-live round (e.g. back from history).
		s.rebuildEditors()
		return s.focusCmd()
	}
	return nil
}

func (s *PracticeScreen) Title() string {
	return "Practice"
}

func (s *PracticeScreen) KeyHints() []layout.KeyHint {
	switch s.ctrl.Phase() {
	case session.PhaseReady:
		if len(s.ctrl.Batch()) == 0 {
			return []layout.KeyHint{
				{Key: "Ctrl+R", Description: "Check again"},
				{Key: "Esc", Description: "Back"},
			}
		}
		return []layout.KeyHint{
			{Key: "Tab", Description: "Next sentence"},
			{Key: "Ctrl+S", Description: "Submit"},
			{Key: "Ctrl+G", Description: "To group"},
			{Key: "Ctrl+D", Description: "Finish"},
			{Key: "Ctrl+H", Description: "History"},
		}
	case session.PhaseError:
		return []layout.KeyHint{
			{Key: "Ctrl+R", Description: "Retry"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "Esc", Description: "Back"},
	}
}

func (s *PracticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.resizeEditors()
		return s, nil

	case bootstrapDoneMsg:
		return s.handleBootstrapDone(msg)

	case batchLoadedMsg:
		return s.handleBatchLoaded(msg)

	case submitDoneMsg:
		return s.handleSubmitDone(msg)

	case groupDoneMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.notice = "Sent to group"
		}
		return s, nil

	case finishDoneMsg:
		return s.handleFinishDone(msg)

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	return s.forwardToEditor(msg)
}

func (s *PracticeScreen) handleBootstrapDone(msg bootstrapDoneMsg) (screen.Screen, tea.Cmd) {
	lt, ok := s.ctrl.ApplyBootstrap(msg.Ticket, msg.Result, msg.Err)
	if !ok {
		if msg.Err != nil && s.ctrl.Phase() == session.PhaseError {
			s.errMsg = msg.Err.Error()
		}
		return s, nil
	}
	s.errMsg = ""
	return s, s.loadCmd(lt)
}

func (s *PracticeScreen) handleBatchLoaded(msg batchLoadedMsg) (screen.Screen, tea.Cmd) {
	if !s.ctrl.ApplyBatch(context.Background(), msg.Ticket, msg.Items, msg.Err) {
		if msg.Err != nil && s.ctrl.Phase() == session.PhaseError {
			s.errMsg = msg.Err.Error()
		}
		return s, nil
	}
	s.errMsg = ""
	s.rebuildEditors()
	return s, s.focusCmd()
}

func (s *PracticeScreen) handleSubmitDone(msg submitDoneMsg) (screen.Screen, tea.Cmd) {
	if !s.ctrl.ApplySubmit(context.Background(), msg.Ticket, msg.Results, msg.Err) {
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		}
		return s, nil
	}
	s.notice = fmt.Sprintf("Graded %d sentence(s)", len(msg.Results))
	s.rebuildEditors()
	return s, s.focusCmd()
}

func (s *PracticeScreen) handleFinishDone(msg finishDoneMsg) (screen.Screen, tea.Cmd) {
	lt, ok := s.ctrl.ApplyFinish(context.Background(), msg.Ticket, msg.Err)
	if !ok {
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		}
		return s, nil
	}
	if msg.Status != "" {
		s.notice = msg.Status
	} else {
		s.notice = "Session finished"
	}
	return s, s.loadCmd(lt)
}

func (s *PracticeScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "ctrl+r":
		return s.retry()

	case "ctrl+s":
		return s.submit()

	case "ctrl+g":
		return s.submitGroup()

	case "ctrl+d":
		return s.finish()

	case "ctrl+h":
		feed, ok := s.ctrl.API().(history.Feed)
		if !ok {
			return s, nil
		}
		return s, func() tea.Msg {
			return router.PushScreenMsg{
				Screen: history.New(feed, s.ctrl.InitData()),
			}
		}

	case "tab":
		s.cycleFocus(1)
		return s, s.focusCmd()

	case "shift+tab":
		s.cycleFocus(-1)
		return s, s.focusCmd()
	}

	return s.forwardToEditor(msg)
}

// retry re-runs the step that failed: a fresh bootstrap when no session
// exists yet, otherwise a batch reload.
func (s *PracticeScreen) retry() (screen.Screen, tea.Cmd) {
	s.errMsg = ""
	s.notice = ""
	if s.ctrl.Session() == nil {
		t, err := s.ctrl.BeginBootstrap()
		if err != nil {
			s.errMsg = err.Error()
			return s, nil
		}
		return s, s.bootstrapCmd(t)
	}
	lt, err := s.ctrl.BeginReload()
	if err != nil {
		s.errMsg = err.Error()
		return s, nil
	}
	return s, s.loadCmd(lt)
}

func (s *PracticeScreen) submit() (screen.Screen, tea.Cmd) {
	s.notice = ""
	t, req, err := s.ctrl.BeginSubmit()
	if err != nil {
		s.errMsg = validationMessage(err)
		return s, nil
	}
	s.errMsg = ""
	return s, func() tea.Msg {
		results, err := s.ctrl.API().Submit(context.Background(), req)
		return submitDoneMsg{Ticket: t, Results: results, Err: err}
	}
}

func (s *PracticeScreen) submitGroup() (screen.Screen, tea.Cmd) {
	s.notice = ""
	pairs, err := s.ctrl.GroupPayload()
	if err != nil {
		s.errMsg = validationMessage(err)
		return s, nil
	}
	s.errMsg = ""
	initData := s.ctrl.InitData()
	return s, func() tea.Msg {
		err := s.ctrl.API().SubmitGroup(context.Background(), initData, pairs)
		return groupDoneMsg{Err: err}
	}
}

func (s *PracticeScreen) finish() (screen.Screen, tea.Cmd) {
	s.notice = ""
	t, err := s.ctrl.BeginFinish()
	if err != nil {
		s.errMsg = validationMessage(err)
		return s, nil
	}
	s.errMsg = ""
	initData := s.ctrl.InitData()
	return s, func() tea.Msg {
		status, err := s.ctrl.API().Finish(context.Background(), initData)
		return finishDoneMsg{Ticket: t, Status: status, Err: err}
	}
}

// forwardToEditor routes a message to the focused draft editor and syncs
// the resulting text into the controller.
func (s *PracticeScreen) forwardToEditor(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if s.ctrl.Phase() != session.PhaseReady {
		return s, nil
	}
	batch := s.ctrl.Batch()
	if s.focused < 0 || s.focused >= len(s.editors) || s.focused >= len(batch) {
		return s, nil
	}

	var cmd tea.Cmd
	s.editors[s.focused], cmd = s.editors[s.focused].Update(msg)

	id := batch[s.focused].ID
	if text := s.editors[s.focused].Value(); text != s.ctrl.Draft(id) {
		if err := s.ctrl.SetDraft(context.Background(), id, text); err != nil {
			s.errMsg = err.Error()
		}
	}
	return s, cmd
}

func (s *PracticeScreen) bootstrapCmd(t session.Ticket) tea.Cmd {
	initData := s.ctrl.InitData()
	return func() tea.Msg {
		res, err := s.ctrl.API().Bootstrap(context.Background(), initData)
		return bootstrapDoneMsg{Ticket: t, Result: res, Err: err}
	}
}

func (s *PracticeScreen) loadCmd(t session.LoadTicket) tea.Cmd {
	initData := s.ctrl.InitData()
	limit := s.ctrl.BatchLimit()
	return func() tea.Msg {
		items, err := s.ctrl.API().Sentences(context.Background(), initData, limit)
		return batchLoadedMsg{Ticket: t, Items: items, Err: err}
	}
}

// rebuildEditors recreates one editor per batch sentence, seeded from the
// controller's draft map.
func (s *PracticeScreen) rebuildEditors() {
	batch := s.ctrl.Batch()
	s.editors = make([]components.TextArea, len(batch))
	for i, sent := range batch {
		ta := components.NewTextArea("Deine Übersetzung...", s.editorWidth(), editorHeight)
		ta.SetValue(s.ctrl.Draft(sent.ID))
		s.editors[i] = ta
	}
	if s.focused >= len(s.editors) {
		s.focused = 0
	}
}

func (s *PracticeScreen) resizeEditors() {
	for i := range s.editors {
		s.editors[i].SetSize(s.editorWidth(), editorHeight)
	}
}

func (s *PracticeScreen) editorWidth() int {
	w := s.width - 8
	if w < 20 {
		w = 60
	}
	return w
}

func (s *PracticeScreen) cycleFocus(dir int) {
	if len(s.editors) == 0 {
		return
	}
	s.editors[s.focused].Blur()
	s.focused = (s.focused + dir + len(s.editors)) % len(s.editors)
}

// focusCmd gives keyboard focus to the current editor.
func (s *PracticeScreen) focusCmd() tea.Cmd {
	if s.focused < 0 || s.focused >= len(s.editors) {
		return nil
	}
	return s.editors[s.focused].Focus()
}

// validationMessage keeps precondition failures friendly and everything
// else verbatim.
func validationMessage(err error) string {
	var verr *session.ValidationError
	if errors.As(err, &verr) {
		return verr.Msg
	}
	return err.Error()
}
