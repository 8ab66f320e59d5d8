package repositories

import (
	"context"

	"debo-loans/internal/adapters/persistence/models"
	"debo-loans/internal/core/domain"

	"gorm.io/gorm"
)

// loanRepository handles loan data access
type loanRepository struct {
	db *gorm.DB
}

// NewLoanRepository creates a new loan repository
func NewLoanRepository(db *gorm.DB) LoanRepository {
	return &loanRepository{db: db}
}

// Create creates a new loan
func (r *loanRepository) Create(ctx context.Context, loan *models.Loan) error {
	return r.db.WithContext(ctx).Create(loan).Error
}

// GetByID gets a loan by ID
func (r *loanRepository) GetByID(ctx context.Context, id uint) (*models.Loan, error) {
	var loan models.Loan
	if err := r.db.WithContext(ctx).First(&loan, id).Error; err != nil {
		return nil, err
	}
	return &loan, nil
}

// GetByIDAndOwner gets a loan only when it belongs to userID
func (r *loanRepository) GetByIDAndOwner(ctx context.Context, id, userID uint) (*models.Loan, error) {
	var loan models.Loan
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&loan).Error
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// CountByApplicationID counts loans created from an application
func (r *loanRepository) CountByApplicationID(ctx context.Context, applicationID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Loan{}).Where("loan_application_id = ?", applicationID).Count(&count).Error
	return count, err
}

// List lists loans with pagination, newest first
func (r *loanRepository) List(ctx context.Context, filter ListFilter) ([]*models.Loan, int64, error) {
	var loans []*models.Loan
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Loan{}).Scopes(scoped(filter)).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Scopes(scoped(filter)).
		Order("created_at DESC, id DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&loans).Error

	return loans, total, err
}

// CountByStatus counts loans grouped by status
func (r *loanRepository) CountByStatus(ctx context.Context) (map[domain.LoanStatus]int64, error) {
	var rows []struct {
		Status domain.LoanStatus
		Total  int64
	}
	err := r.db.WithContext(ctx).Model(&models.Loan{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := map[domain.LoanStatus]int64{
		domain.LoanActive:       0,
		domain.LoanClosed:       0,
		domain.LoanDiscontinued: 0,
	}
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

// SumPrincipal sums the principal of every loan
func (r *loanRepository) SumPrincipal(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&models.Loan{}).
		Select("COALESCE(SUM(principal), 0)").
		Scan(&total).Error
	return total, err
}
