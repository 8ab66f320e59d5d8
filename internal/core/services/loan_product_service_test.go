package services

import (
	"context"
	"testing"

	"debo-loans/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoanProductLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	manager := env.user("manager@example.com", domain.RoleManager, domain.UserActive)
	cashier := env.user("cashier@example.com", domain.RoleCashier, domain.UserActive)

	svc := NewLoanProductService(env.store)
	input := &LoanProductInput{
		Name:               "Farm Input",
		Amount:             20000,
		InterestRate:       9,
		RequiredCollateral: "car_ownership_document",
		DueDateDays:        180,
	}

	product, err := svc.Create(ctx, manager, input)
	require.NoError(t, err)
	assert.Equal(t, domain.CollateralCarOwner, product.RequiredCollateral)

	input.InterestRate = 11
	updated, err := svc.Update(ctx, manager, product.ID, input)
	require.NoError(t, err)
	assert.Equal(t, 11.0, updated.InterestRate)

	got, err := svc.Get(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 11.0, got.InterestRate)

	_, err = svc.Create(ctx, cashier, input)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.Create(ctx, manager, &LoanProductInput{Name: "bad", Amount: 0, DueDateDays: 10, RequiredCollateral: domain.CollateralLandTitle})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	require.NoError(t, svc.Delete(ctx, manager, product.ID))
	_, err = svc.Get(ctx, product.ID)
	assert.ErrorIs(t, err, domain.ErrLoanProductNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, manager, product.ID), domain.ErrLoanProductNotFound)

	products, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)
}
