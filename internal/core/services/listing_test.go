package services

import (
	"context"
	"testing"

	"debo-loans/internal/core/domain"
	"debo-loans/internal/pkg/pagination"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplicationListIsScopedByRole(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.user("alice@example.com", domain.RoleBorrower, domain.UserActive)
	bob := env.user("bob@example.com", domain.RoleBorrower, domain.UserActive)
	manager := env.user("manager@example.com", domain.RoleManager, domain.UserActive)
	admin := env.user("admin@example.com", domain.RoleAdmin, domain.UserActive)
	cashier := env.user("cashier@example.com", domain.RoleCashier, domain.UserActive)

	env.application(alice, 1000)
	env.application(alice, 2000)
	env.application(bob, 3000)

	svc := NewApplicationService(env.store, env.notifier())
	params := pagination.NewParams(1, 20)

	views, total, err := svc.List(ctx, alice, "", params)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	for _, v := range views {
		assert.Equal(t, alice.UserID, v.UserID)
		require.NotNil(t, v.PersonalInfo)
		assert.Equal(t, "Adama", v.PersonalInfo.Woreda)
	}

	for _, staff := range []domain.Principal{manager, admin} {
		_, total, err = svc.List(ctx, staff, "", params)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total, staff.Role)
	}

	// cashiers only see what they submitted themselves
	_, total, err = svc.List(ctx, cashier, "", params)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)

	_, total, err = svc.List(ctx, manager, "approved", params)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)

	views, total, err = svc.List(ctx, manager, "", pagination.NewParams(2, 2))
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, views, 1)
}

func TestSubmitValidatesInput(t *testing.T) {
	env := newTestEnv(t)
	borrower := env.user("borrower@example.com", domain.RoleBorrower, domain.UserActive)
	svc := NewApplicationService(env.store, env.notifier())

	_, err := svc.Submit(context.Background(), borrower, &SubmitInput{LoanAmount: 0, LoanPurpose: "x", RepaymentPeriodDays: 30})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = svc.Submit(context.Background(), borrower, &SubmitInput{LoanAmount: 10, LoanPurpose: "  ", RepaymentPeriodDays: 30})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = svc.Submit(context.Background(), borrower, &SubmitInput{LoanAmount: 10, LoanPurpose: "x", RepaymentPeriodDays: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLoanListIsScopedByRole(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.user("alice@example.com", domain.RoleBorrower, domain.UserActive)
	bob := env.user("bob@example.com", domain.RoleBorrower, domain.UserActive)
	env.approvedLoan(alice, 5000)
	env.approvedLoan(bob, 7000)
	admin := env.user("admin@example.com", domain.RoleAdmin, domain.UserActive)

	svc := NewLoanService(env.store)
	params := pagination.NewParams(1, 20)

	views, total, err := svc.List(ctx, alice, "", params)
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	assert.Equal(t, 5000.0, views[0].Principal)
	assert.NotNil(t, views[0].Payments)

	_, total, err = svc.List(ctx, admin, "active", params)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	_, total, err = svc.List(ctx, admin, "closed", params)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestNotificationsAreListedNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	borrower := env.user("borrower@example.com", domain.RoleBorrower, domain.UserActive)
	other := env.user("other@example.com", domain.RoleBorrower, domain.UserActive)
	env.application(borrower, 1000)
	env.application(borrower, 2000)
	env.application(other, 3000)

	svc := env.notifier()
	items, total, err := svc.List(ctx, borrower, pagination.NewParams(1, 20))
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, items, 2)
	assert.Greater(t, items[0].ID, items[1].ID)
	assert.Equal(t, "Loan Application Submitted", items[0].Title)
}

func TestReportSummary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	borrower := env.user("borrower@example.com", domain.RoleBorrower, domain.UserActive)
	cashier := env.user("cashier@example.com", domain.RoleCashier, domain.UserActive)
	admin := env.user("admin@example.com", domain.RoleAdmin, domain.UserActive)
	loan := env.approvedLoan(borrower, 5000)
	env.application(borrower, 800)

	_, err := NewPaymentService(env.store, env.notifier(), newRecordingReceipts(), env.clock).
		Record(ctx, cashier, &PaymentInput{BorrowerID: borrower.UserID, LoanID: loan.ID, Amount: 1500})
	require.NoError(t, err)

	svc := NewReportService(env.store)
	report, err := svc.Summary(ctx, admin)
	require.NoError(t, err)

	assert.Equal(t, int64(1), report.ApplicationsByStatus[domain.ApplicationApproved])
	assert.Equal(t, int64(1), report.ApplicationsByStatus[domain.ApplicationPending])
	assert.Equal(t, int64(1), report.LoansByStatus[domain.LoanActive])
	assert.Equal(t, int64(1), report.UsersByRole[domain.RoleCashier])
	assert.Equal(t, 5000.0, report.TotalDisbursed)
	assert.Equal(t, 1500.0, report.TotalRepaid)
	assert.Equal(t, int64(1), report.LoanProducts)

	_, err = svc.Summary(ctx, borrower)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
