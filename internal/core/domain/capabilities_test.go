package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCapabilityMatrix(t *testing.T) {
	allowed := map[Role][]Action{
		RoleAdmin: {
			ActionSubmitApplication, ActionAttachDocuments, ActionViewAllRecords,
			ActionReviewApplication, ActionTransferApplication, ActionViewTransactions,
			ActionManageProducts, ActionManageUsers, ActionViewReports,
		},
		RoleManager: {
			ActionSubmitApplication, ActionAttachDocuments, ActionViewAllRecords,
			ActionReviewApplication, ActionTransferApplication, ActionViewTransactions,
			ActionManageProducts,
		},
		RoleCashier: {
			ActionSubmitApplication, ActionVerifyDocument, ActionRecordPayment, ActionViewTransactions,
		},
		RoleBorrower: {
			ActionSubmitApplication, ActionAttachDocuments,
		},
	}

	for role, actions := range allowed {
		grant := make(map[Action]bool, len(actions))
		for _, a := range actions {
			grant[a] = true
		}
		for _, a := range Actions {
			assert.Equal(t, grant[a], Can(role, a), "%s %s", role, a)
		}
	}

	for _, a := range Actions {
		assert.False(t, Can(Role("AUDITOR"), a), a.String())
	}
}

func TestParseRole(t *testing.T) {
	role, ok := ParseRole(" manager ")
	assert.True(t, ok)
	assert.Equal(t, RoleManager, role)

	_, ok = ParseRole("root")
	assert.False(t, ok)

	_, ok = ParseRole("")
	assert.False(t, ok)
}

func TestSeesAll(t *testing.T) {
	assert.True(t, Principal{Role: RoleAdmin}.SeesAll())
	assert.True(t, Principal{Role: RoleManager}.SeesAll())
	assert.False(t, Principal{Role: RoleCashier}.SeesAll())
	assert.False(t, Principal{Role: RoleBorrower}.SeesAll())
}

func TestDecisionStatuses(t *testing.T) {
	assert.True(t, ApplicationApproved.IsDecision())
	assert.True(t, ApplicationRejected.IsDecision())
	assert.False(t, ApplicationPending.IsDecision())

	assert.True(t, DocumentVerified.IsDecision())
	assert.False(t, DocumentPending.IsDecision())
}
