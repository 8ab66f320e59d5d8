package services

import (
	"context"
	"log"
	"strings"

	"debo-loans/internal/adapters/persistence/models"
	"debo-loans/internal/adapters/persistence/repositories"
	"debo-loans/internal/core/domain"
)

// LoanProductService manages the loan product catalogue
type LoanProductService struct {
	store *repositories.Store
}

// NewLoanProductService creates a new loan product service
func NewLoanProductService(store *repositories.Store) *LoanProductService {
	return &LoanProductService{store: store}
}

// LoanProductInput represents the editable fields of a product
type LoanProductInput struct {
	Name               string
	Amount             float64
	InterestRate       float64
	RequiredCollateral domain.CollateralType
	DueDateDays        int
}

func (in *LoanProductInput) validate() (domain.CollateralType, error) {
	collateral := domain.CollateralType(strings.ToUpper(string(in.RequiredCollateral)))
	if in.Amount <= 0 || in.InterestRate < 0 || in.DueDateDays <= 0 || !collateralTypes[collateral] {
		return "", domain.ErrInvalidInput
	}
	return collateral, nil
}

// List returns every product
func (s *LoanProductService) List(ctx context.Context) ([]*models.LoanProduct, error) {
	return s.store.LoanProducts.List(ctx)
}

// Get returns one product
func (s *LoanProductService) Get(ctx context.Context, id uint) (*models.LoanProduct, error) {
	product, err := s.store.LoanProducts.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, domain.ErrLoanProductNotFound)
	}
	return product, nil
}

// Create adds a product
func (s *LoanProductService) Create(ctx context.Context, p domain.Principal, input *LoanProductInput) (*models.LoanProduct, error) {
	if !domain.Can(p.Role, domain.ActionManageProducts) {
		return nil, domain.ErrForbidden
	}
	collateral, err := input.validate()
	if err != nil {
		return nil, err
	}

	product := &models.LoanProduct{
		Name:               strings.TrimSpace(input.Name),
		Amount:             input.Amount,
		InterestRate:       input.InterestRate,
		RequiredCollateral: collateral,
		DueDateDays:        input.DueDateDays,
	}
	if err := s.store.LoanProducts.Create(ctx, product); err != nil {
		return nil, err
	}

	log.Printf("✅ Loan product %d created by user %d", product.ID, p.UserID)
	return product, nil
}

// Update replaces the terms of a product. Existing loans keep their copied terms.
func (s *LoanProductService) Update(ctx context.Context, p domain.Principal, id uint, input *LoanProductInput) (*models.LoanProduct, error) {
	if !domain.Can(p.Role, domain.ActionManageProducts) {
		return nil, domain.ErrForbidden
	}
	collateral, err := input.validate()
	if err != nil {
		return nil, err
	}

	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	product.Name = strings.TrimSpace(input.Name)
	product.Amount = input.Amount
	product.InterestRate = input.InterestRate
	product.RequiredCollateral = collateral
	product.DueDateDays = input.DueDateDays

	if err := s.store.LoanProducts.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete soft-deletes a product
func (s *LoanProductService) Delete(ctx context.Context, p domain.Principal, id uint) error {
	if !domain.Can(p.Role, domain.ActionManageProducts) {
		return domain.ErrForbidden
	}
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.store.LoanProducts.Delete(ctx, id)
}
