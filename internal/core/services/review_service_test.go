package services

import (
	"context"
	"sync"
	"testing"

	"debo-loans/internal/adapters/persistence/models"
	"debo-loans/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecideApproveCreatesLoanFromProduct(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	borrower := env.user("borrower@example.com", domain.RoleBorrower, domain.UserActive)
	manager := env.user("manager@example.com", domain.RoleManager, domain.UserActive)
	product := env.product()
	app := env.application(borrower, 5000)

	svc := NewReviewService(env.store, env.notifier(), env.clock)
	result, err := svc.Decide(ctx, manager, &DecisionInput{
		ApplicationID: app.ID,
		Status:        domain.ApplicationApproved,
		LoanProductID: product.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, result.Loan)

	assert.Equal(t, domain.ApplicationApproved, result.Application.Status)
	assert.Equal(t, manager.UserID, *result.Application.DecidedBy)
	assert.Equal(t, 5000.0, result.Loan.Principal)
	assert.Equal(t, 12.5, result.Loan.Interest)
	assert.Equal(t, 90, result.Loan.PaymentScheduleDays)
	assert.Equal(t, domain.LoanActive, result.Loan.Status)
	assert.Equal(t, borrower.UserID, result.Loan.UserID)

	stored, err := env.store.Applications.GetByID(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationApproved, stored.Status)
	assert.Equal(t, int64(1), env.count(&models.Loan{}, "loan_application_id = ?", app.ID))
	assert.Equal(t, int64(1), env.count(&models.Notification{}, "user_id = ? AND title = ?", borrower.UserID, "Loan Application APPROVED"))

	env.bg.Wait()
	titles := make([]string, 0)
	for _, e := range env.publisher.Events() {
		titles = append(titles, e.Title)
	}
	assert.Contains(t, titles, "Loan Application APPROVED")
}

func TestDecideTwiceConflicts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	borrower := env.user("borrower@example.com", domain.RoleBorrower, domain.UserActive)
	manager := env.user("manager@example.com", domain.RoleManager, domain.UserActive)
	product := env.product()
	app := env.application(borrower, 5000)

	svc := NewReviewService(env.store, env.notifier(), env.clock)
	input := &DecisionInput{ApplicationID: app.ID, Status: domain.ApplicationApproved, LoanProductID: product.ID}

	_, err := svc.Decide(ctx, manager, input)
	require.NoError(t, err)

	_, err = svc.Decide(ctx, manager, input)
	assert.ErrorIs(t, err, domain.ErrApplicationDecided)

	_, err = svc.Decide(ctx, manager, &DecisionInput{ApplicationID: app.ID, Status: domain.ApplicationRejected})
	assert.ErrorIs(t, err, domain.ErrApplicationDecided)

	assert.Equal(t, int64(1), env.count(&models.Loan{}, "loan_application_id = ?", app.ID))
}

func TestDecideConcurrentApprovalsCreateOneLoan(t *testing.T) {
	env := newTestEnv(t)
	borrower := env.user("borrower@example.com", domain.RoleBorrower, domain.UserActive)
	manager := env.user("manager@example.com", domain.RoleManager, domain.UserActive)
	product := env.product()
	app := env.application(borrower, 5000)

	svc := NewReviewService(env.store, env.notifier(), env.clock)

	const attempts = 5
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Decide(context.Background(), manager, &DecisionInput{
				ApplicationID: app.ID,
				Status:        domain.ApplicationApproved,
				LoanProductID: product.ID,
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrApplicationDecided)
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, int64(1), env.count(&models.Loan{}, "loan_application_id = ?", app.ID))
}

func TestDecideReject(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	borrower := env.user("borrower@example.com", domain.RoleBorrower, domain.UserActive)
	admin := env.user("admin@example.com", domain.RoleAdmin, domain.UserActive)
	app := env.application(borrower, 2500)

	svc := NewReviewService(env.store, env.notifier(), env.clock)
	result, err := svc.Decide(ctx, admin, &DecisionInput{ApplicationID: app.ID, Status: "rejected"})
	require.NoError(t, err)

	assert.Nil(t, result.Loan)
	assert.Equal(t, domain.ApplicationRejected, result.Application.Status)
	assert.Equal(t, int64(0), env.count(&models.Loan{}, ""))
	assert.Equal(t, int64(1), env.count(&models.Notification{}, "user_id = ? AND title = ?", borrower.UserID, "Loan Application REJECTED"))
}

func TestDecideUnknownProductLeavesApplicationPending(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	borrower := env.user("borrower@example.com", domain.RoleBorrower, domain.UserActive)
	manager := env.user("manager@example.com", domain.RoleManager, domain.UserActive)
	app := env.application(borrower, 5000)

	svc := NewReviewService(env.store, env.notifier(), env.clock)
	_, err := svc.Decide(ctx, manager, &DecisionInput{
		ApplicationID: app.ID,
		Status:        domain.ApplicationApproved,
		LoanProductID: 999,
	})
	require.ErrorIs(t, err, domain.ErrLoanProductNotFound)

	stored, err := env.store.Applications.GetByID(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationPending, stored.Status)
	assert.Nil(t, stored.DecidedBy)
	assert.Equal(t, int64(0), env.count(&models.Loan{}, ""))
}

func TestDecideValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	borrower := env.user("borrower@example.com", domain.RoleBorrower, domain.UserActive)
	cashier := env.user("cashier@example.com", domain.RoleCashier, domain.UserActive)
	manager := env.user("manager@example.com", domain.RoleManager, domain.UserActive)
	app := env.application(borrower, 5000)

	svc := NewReviewService(env.store, env.notifier(), env.clock)

	_, err := svc.Decide(ctx, manager, &DecisionInput{ApplicationID: app.ID, Status: domain.ApplicationPending})
	assert.ErrorIs(t, err, domain.ErrInvalidDecision)

	_, err = svc.Decide(ctx, cashier, &DecisionInput{ApplicationID: app.ID, Status: domain.ApplicationRejected})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.Decide(ctx, borrower, &DecisionInput{ApplicationID: app.ID, Status: domain.ApplicationRejected})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.Decide(ctx, manager, &DecisionInput{ApplicationID: 999, Status: domain.ApplicationRejected})
	assert.ErrorIs(t, err, domain.ErrApplicationNotFound)
}

func TestCreateLoanWithExplicitTerms(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	borrower := env.user("borrower@example.com", domain.RoleBorrower, domain.UserActive)
	manager := env.user("manager@example.com", domain.RoleManager, domain.UserActive)
	app := env.application(borrower, 5000)

	svc := NewReviewService(env.store, env.notifier(), env.clock)
	result, err := svc.CreateLoan(ctx, manager, &LoanTerms{
		ApplicationID:       app.ID,
		Principal:           4000,
		Interest:            10,
		PaymentScheduleDays: 60,
	})
	require.NoError(t, err)
	assert.Equal(t, 4000.0, result.Loan.Principal)
	assert.Nil(t, result.Loan.LoanProductID)
	assert.Equal(t, domain.ApplicationApproved, result.Application.Status)

	_, err = svc.CreateLoan(ctx, manager, &LoanTerms{
		ApplicationID:       app.ID,
		Principal:           4000,
		Interest:            10,
		PaymentScheduleDays: 60,
	})
	assert.ErrorIs(t, err, domain.ErrApplicationDecided)

	_, err = svc.CreateLoan(ctx, manager, &LoanTerms{ApplicationID: app.ID, Principal: 0, PaymentScheduleDays: 60})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTransferNotifiesManagerAndActiveCashiers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	borrower := env.user("borrower@example.com", domain.RoleBorrower, domain.UserActive)
	manager := env.user("manager@example.com", domain.RoleManager, domain.UserActive)
	cashier := env.user("cashier@example.com", domain.RoleCashier, domain.UserActive)
	suspended := env.user("old-cashier@example.com", domain.RoleCashier, domain.UserSuspended)
	app := env.application(borrower, 5000)

	svc := NewReviewService(env.store, env.notifier(), env.clock)
	require.NoError(t, svc.Transfer(ctx, manager, app.ID))

	assert.Equal(t, int64(1), env.count(&models.Notification{}, "user_id = ? AND title = ?", manager.UserID, "Loan Request Transferred"))
	assert.Equal(t, int64(1), env.count(&models.Notification{}, "user_id = ?", cashier.UserID))
	assert.Equal(t, int64(0), env.count(&models.Notification{}, "user_id = ?", suspended.UserID))

	assert.ErrorIs(t, svc.Transfer(ctx, borrower, app.ID), domain.ErrForbidden)
	assert.ErrorIs(t, svc.Transfer(ctx, manager, 999), domain.ErrApplicationNotFound)
}
