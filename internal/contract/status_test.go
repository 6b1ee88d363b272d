package contract

import (
	"testing"

	"contracts-service/internal/domain"
	apiError "contracts-service/internal/errors"

	"github.com/stretchr/testify/assert"
)

var allStatuses = []domain.ContractStatus{
	domain.StatusDraft,
	domain.StatusGenerated,
	domain.StatusSigning,
	domain.StatusSigned,
	domain.StatusCancelled,
	domain.StatusExpired,
}

func TestCheckTransition_Table(t *testing.T) {
	legal := map[domain.ContractStatus][]domain.ContractStatus{
		domain.StatusDraft:     {domain.StatusGenerated, domain.StatusCancelled, domain.StatusExpired},
		domain.StatusGenerated: {domain.StatusSigning, domain.StatusCancelled, domain.StatusExpired},
		domain.StatusSigning:   {domain.StatusSigned, domain.StatusCancelled, domain.StatusExpired},
	}

	isLegal := func(current, target domain.ContractStatus) bool {
		for _, allowed := range legal[current] {
			if allowed == target {
				return true
			}
		}
		return false
	}

	// every (current, target) pair, self transitions included
	for _, current := range allStatuses {
		for _, target := range allStatuses {
			err := CheckTransition(current, target, "some reason")
			if current != target && isLegal(current, target) {
				assert.NoError(t, err, "%s -> %s should be allowed", current, target)
			} else {
				assertKind(t, err, apiError.KindInvalidTransition)
			}
		}
	}
}

func TestCheckTransition_CancelledNeedsReason(t *testing.T) {
	err := CheckTransition(domain.StatusDraft, domain.StatusCancelled, "")
	assertKind(t, err, apiError.KindInvalidTransition)

	assert.NoError(t, CheckTransition(domain.StatusDraft, domain.StatusCancelled, "dup"))

	// other targets do not require one
	assert.NoError(t, CheckTransition(domain.StatusDraft, domain.StatusGenerated, ""))
	assert.NoError(t, CheckTransition(domain.StatusSigning, domain.StatusExpired, ""))
}

func TestAllowedTransitions(t *testing.T) {
	assert.ElementsMatch(t,
		[]domain.ContractStatus{domain.StatusGenerated, domain.StatusCancelled, domain.StatusExpired},
		AllowedTransitions(domain.StatusDraft))
	assert.ElementsMatch(t,
		[]domain.ContractStatus{domain.StatusSigned, domain.StatusCancelled, domain.StatusExpired},
		AllowedTransitions(domain.StatusSigning))

	for _, terminal := range []domain.ContractStatus{domain.StatusSigned, domain.StatusCancelled, domain.StatusExpired} {
		assert.Empty(t, AllowedTransitions(terminal))
	}

	// callers get a copy, not the table itself
	got := AllowedTransitions(domain.StatusDraft)
	got[0] = domain.StatusSigned
	assert.NotContains(t, AllowedTransitions(domain.StatusDraft), domain.StatusSigned)
}

func TestTransitionAction(t *testing.T) {
	cases := map[domain.ContractStatus]domain.ActivityAction{
		domain.StatusGenerated: domain.ActionGenerated,
		domain.StatusSigning:   domain.ActionSent,
		domain.StatusSigned:    domain.ActionSigned,
		domain.StatusCancelled: domain.ActionCancelled,
		domain.StatusExpired:   domain.ActionUpdated,
	}
	for target, want := range cases {
		assert.Equal(t, want, TransitionAction(target))
	}
}
