package session

// Phase is the controller's lifecycle phase. All sequencing between batch
// loading, draft reconciliation and the submit/finish actions is expressed
// as explicit transitions; in particular, drafts can only be edited and
// persisted from PhaseReady, so a persist can never observe a stale batch.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseBootstrapping
	PhaseLoading
	PhaseReady
	PhaseSubmitting
	PhaseFinishing
	PhaseError
)

// transitions is the set of legal phase changes.
var transitions = map[Phase][]Phase{
	PhaseIdle:          {PhaseBootstrapping},
	PhaseBootstrapping: {PhaseLoading, PhaseError},
	PhaseLoading:       {PhaseReady, PhaseError},
	PhaseReady:         {PhaseSubmitting, PhaseFinishing, PhaseLoading, PhaseBootstrapping},
	PhaseSubmitting:    {PhaseReady},
	PhaseFinishing:     {PhaseLoading, PhaseReady},
	PhaseError:         {PhaseBootstrapping, PhaseLoading},
}

// CanEnter reports whether moving from p to next is a legal transition.
func (p Phase) CanEnter(next Phase) bool {
	for _, t := range transitions[p] {
		if t == next {
			return true
		}
	}
	return false
}

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseBootstrapping:
		return "bootstrapping"
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseSubmitting:
		return "submitting"
	case PhaseFinishing:
		return "finishing"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}
