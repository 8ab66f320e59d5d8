package services

import (
	"context"

	"debo-loans/internal/adapters/persistence/repositories"
	"debo-loans/internal/core/domain"
)

// ReportService builds the portfolio summary
type ReportService struct {
	store *repositories.Store
}

// NewReportService creates a new report service
func NewReportService(store *repositories.Store) *ReportService {
	return &ReportService{store: store}
}

// Report is a snapshot of the loan portfolio
type Report struct {
	ApplicationsByStatus map[domain.ApplicationStatus]int64 `json:"applications_by_status"`
	LoansByStatus        map[domain.LoanStatus]int64        `json:"loans_by_status"`
	UsersByRole          map[domain.Role]int64              `json:"users_by_role"`
	TotalDisbursed       float64                            `json:"total_disbursed"`
	TotalRepaid          float64                            `json:"total_repaid"`
	LoanProducts         int64                              `json:"loan_products"`
}

// Summary computes the report
func (s *ReportService) Summary(ctx context.Context, p domain.Principal) (*Report, error) {
	if !domain.Can(p.Role, domain.ActionViewReports) {
		return nil, domain.ErrForbidden
	}

	var (
		r   Report
		err error
	)
	if r.ApplicationsByStatus, err = s.store.Applications.CountByStatus(ctx); err != nil {
		return nil, err
	}
	if r.LoansByStatus, err = s.store.Loans.CountByStatus(ctx); err != nil {
		return nil, err
	}
	if r.UsersByRole, err = s.store.Users.CountByRole(ctx); err != nil {
		return nil, err
	}
	if r.TotalDisbursed, err = s.store.Loans.SumPrincipal(ctx); err != nil {
		return nil, err
	}
	if r.TotalRepaid, err = s.store.Payments.SumAmount(ctx); err != nil {
		return nil, err
	}
	if r.LoanProducts, err = s.store.LoanProducts.Count(ctx); err != nil {
		return nil, err
	}
	return &r, nil
}
