package contract

import (
	"contracts-service/internal/domain"
	"contracts-service/internal/errors"
)

// allowedTransitions is the contract lifecycle state machine. SIGNED,
// CANCELLED and EXPIRED are terminal. Never mutated after init.
var allowedTransitions = map[domain.ContractStatus][]domain.ContractStatus{
	domain.StatusDraft:     {domain.StatusGenerated, domain.StatusCancelled, domain.StatusExpired},
	domain.StatusGenerated: {domain.StatusSigning, domain.StatusCancelled, domain.StatusExpired},
	domain.StatusSigning:   {domain.StatusSigned, domain.StatusCancelled, domain.StatusExpired},
	domain.StatusSigned:    {},
	domain.StatusCancelled: {},
	domain.StatusExpired:   {},
}

// statusAction maps a reached status to the audit action recorded for the
// transition.
var statusAction = map[domain.ContractStatus]domain.ActivityAction{
	domain.StatusGenerated: domain.ActionGenerated,
	domain.StatusSigning:   domain.ActionSent,
	domain.StatusSigned:    domain.ActionSigned,
	domain.StatusCancelled: domain.ActionCancelled,
	domain.StatusExpired:   domain.ActionUpdated,
	domain.StatusDraft:     domain.ActionUpdated,
}

// AllowedTransitions returns the statuses reachable from current. Empty
// for terminal states.
func AllowedTransitions(current domain.ContractStatus) []domain.ContractStatus {
	targets := allowedTransitions[current]
	out := make([]domain.ContractStatus, len(targets))
	copy(out, targets)
	return out
}

// CheckTransition validates the pure state-machine rules: no self
// transitions, only edges in the transition table, and CANCELLED requires
// a reason. The SIGNED party precondition needs storage reads and is
// checked by the service.
func CheckTransition(current, target domain.ContractStatus, reason string) error {
	if target == current {
		return errors.InvalidTransition("Contract already has that status.", nil)
	}
	if !transitionAllowed(current, target) {
		return errors.InvalidTransition("Status transition not allowed.", nil)
	}
	if target == domain.StatusCancelled && reason == "" {
		return errors.InvalidTransition("Status CANCELLED requires a reason.", nil)
	}
	return nil
}

func transitionAllowed(current, target domain.ContractStatus) bool {
	for _, allowed := range allowedTransitions[current] {
		if allowed == target {
			return true
		}
	}
	return false
}

// TransitionAction returns the audit action recorded when a contract
// reaches target.
func TransitionAction(target domain.ContractStatus) domain.ActivityAction {
	if action, ok := statusAction[target]; ok {
		return action
	}
	return domain.ActionUpdated
}
