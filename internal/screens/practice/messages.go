package practice

import (
	"github.com/ykarpov/tolmach/internal/api"
	"github.com/ykarpov/tolmach/internal/session"
)

// bootstrapDoneMsg is sent when the identity exchange completes.
type bootstrapDoneMsg struct {
	Ticket session.Ticket
	Result api.BootstrapResult
	Err    error
}

// batchLoadedMsg is sent when a sentence batch load completes.
type batchLoadedMsg struct {
	Ticket session.LoadTicket
	Items  []api.SentenceItem
	Err    error
}

// submitDoneMsg is sent when a grading submission completes.
type submitDoneMsg struct {
	Ticket  session.Ticket
	Results []api.GradeItem
	Err     error
}

// groupDoneMsg is sent when the group broadcast completes.
type groupDoneMsg struct {
	Err error
}

// finishDoneMsg is sent when the finish-session call completes.
type finishDoneMsg struct {
	Ticket session.Ticket
	Status string
	Err    error
}
