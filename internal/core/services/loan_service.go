package services

import (
	"context"

	"debo-loans/internal/adapters/persistence/models"
	"debo-loans/internal/adapters/persistence/repositories"
	"debo-loans/internal/core/domain"
	"debo-loans/internal/pkg/pagination"
)

// LoanService serves the loan read model
type LoanService struct {
	store *repositories.Store
}

// NewLoanService creates a new loan service
func NewLoanService(store *repositories.Store) *LoanService {
	return &LoanService{store: store}
}

// LoanView is a loan with its payments
type LoanView struct {
	*models.Loan
	Payments []*models.Payment `json:"payments"`
}

// List returns loans visible to the caller, each with its payments
func (s *LoanService) List(ctx context.Context, p domain.Principal, status string, params *pagination.Params) ([]*LoanView, int64, error) {
	loans, total, err := s.store.Loans.List(ctx, listFilter(p, status, params))
	if err != nil {
		return nil, 0, err
	}

	ids := make([]uint, 0, len(loans))
	for _, l := range loans {
		ids = append(ids, l.ID)
	}
	payments, err := s.store.Payments.ListByLoanIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	byLoan := make(map[uint][]*models.Payment, len(loans))
	for _, pay := range payments {
		byLoan[pay.LoanID] = append(byLoan[pay.LoanID], pay)
	}

	views := make([]*LoanView, 0, len(loans))
	for _, l := range loans {
		ps := byLoan[l.ID]
		if ps == nil {
			ps = []*models.Payment{}
		}
		views = append(views, &LoanView{Loan: l, Payments: ps})
	}
	return views, total, nil
}
