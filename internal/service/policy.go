package service

import "grievance-service/internal/model"

// TransitionPolicy decides which target statuses are reachable from a given
// current status. Self-transitions are rejected upstream regardless of
// policy.
type TransitionPolicy interface {
	Allows(from, to model.Status) bool
}

// PermissivePolicy allows any-to-any transitions, matching the historical
// behavior of the workflow. Mistaken transitions are corrected with a new
// forward transition, never an undo.
type PermissivePolicy struct{}

func (PermissivePolicy) Allows(from, to model.Status) bool {
	return from != to
}

// StrictPolicy is the tightened adjacency table: CLOSED is terminal, RESOLVED
// moves only forward to CLOSED or back into IN_PROCESS (reopen), and ON_HOLD
// is reachable from the active stages.
type StrictPolicy struct{}

var strictAdjacency = map[model.Status][]model.Status{
	model.StatusPending:     {model.StatusUnderReview, model.StatusOnHold},
	model.StatusUnderReview: {model.StatusInProcess, model.StatusOnHold, model.StatusPending},
	model.StatusInProcess:   {model.StatusResolved, model.StatusOnHold, model.StatusUnderReview},
	model.StatusOnHold:      {model.StatusPending, model.StatusUnderReview, model.StatusInProcess},
	model.StatusResolved:    {model.StatusClosed, model.StatusInProcess},
	model.StatusClosed:      {},
}

func (StrictPolicy) Allows(from, to model.Status) bool {
	for _, next := range strictAdjacency[from] {
		if next == to {
			return true
		}
	}
	return false
}

// PolicyForEnvironment selects the configured policy.
func PolicyForEnvironment(strict bool) TransitionPolicy {
	if strict {
		return StrictPolicy{}
	}
	return PermissivePolicy{}
}
