package models

// Status is the final state of one repository
type Status int

const (
	StatusAcquired Status = iota
	StatusSkipped
	StatusFailed
)

// String returns the string representation of Status
func (s Status) String() string {
	switch s {
	case StatusAcquired:
		return "acquired"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome records what happened to one repository
type Outcome struct {
	Repository string
	Path       string
	Method     Method
	Status     Status

	Attempts       int  // Clone subprocess invocations
	AlreadyPresent bool // Destination existed, only the branch was reconciled
	HookRan        bool

	Err       error // Why the repository was skipped or failed
	BranchErr error // Non-fatal: the existing checkout stays on its branch
	HookErr   error // Non-fatal: the repository is still acquired
}

// Report collects the outcomes of a run in catalog order
type Report struct {
	Workspace string
	Outcomes  []Outcome
}

// Add appends an outcome
func (r *Report) Add(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
}

// Count returns the number of outcomes with the given status
func (r *Report) Count(s Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == s {
			n++
		}
	}
	return n
}

// Find returns the outcome for the named repository
func (r *Report) Find(name string) (Outcome, bool) {
	for _, o := range r.Outcomes {
		if o.Repository == name {
			return o, true
		}
	}
	return Outcome{}, false
}

// Degraded reports whether any repository did not fully succeed
func (r *Report) Degraded() bool {
	for _, o := range r.Outcomes {
		if o.Status != StatusAcquired || o.BranchErr != nil || o.HookErr != nil {
			return true
		}
	}
	return false
}
