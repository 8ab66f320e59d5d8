package repositories

import (
	"context"
	"time"

	"debo-loans/internal/adapters/persistence/models"
	"debo-loans/internal/core/domain"

	"gorm.io/gorm"
)

// scoped applies the owner and status predicates of a ListFilter
func scoped(filter ListFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.OwnerID != nil {
			db = db.Where("user_id = ?", *filter.OwnerID)
		}
		if filter.Status != "" {
			db = db.Where("status = ?", filter.Status)
		}
		return db
	}
}

type loanApplicationRepository struct {
	db *gorm.DB
}

// NewLoanApplicationRepository creates a new loan application repository
func NewLoanApplicationRepository(db *gorm.DB) LoanApplicationRepository {
	return &loanApplicationRepository{db: db}
}

// Create creates a new loan application
func (r *loanApplicationRepository) Create(ctx context.Context, application *models.LoanApplication) error {
	return r.db.WithContext(ctx).Create(application).Error
}

// GetByID gets a loan application by ID
func (r *loanApplicationRepository) GetByID(ctx context.Context, id uint) (*models.LoanApplication, error) {
	var application models.LoanApplication
	err := r.db.WithContext(ctx).First(&application, id).Error
	if err != nil {
		return nil, err
	}
	return &application, nil
}

// Decide is a compare-and-set on the PENDING state
func (r *loanApplicationRepository) Decide(ctx context.Context, id uint, status domain.ApplicationStatus, decidedBy uint, decidedAt time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.LoanApplication{}).
		Where("id = ? AND status = ?", id, domain.ApplicationPending).
		Updates(map[string]interface{}{
			"status":     status,
			"decided_by": decidedBy,
			"decided_at": decidedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// List lists loan applications with pagination, newest first
func (r *loanApplicationRepository) List(ctx context.Context, filter ListFilter) ([]*models.LoanApplication, int64, error) {
	var applications []*models.LoanApplication
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.LoanApplication{}).Scopes(scoped(filter)).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Scopes(scoped(filter)).
		Order("created_at DESC, id DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&applications).Error

	return applications, total, err
}

// CountByStatus counts applications grouped by status
func (r *loanApplicationRepository) CountByStatus(ctx context.Context) (map[domain.ApplicationStatus]int64, error) {
	var rows []struct {
		Status domain.ApplicationStatus
		Total  int64
	}
	err := r.db.WithContext(ctx).Model(&models.LoanApplication{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := map[domain.ApplicationStatus]int64{
		domain.ApplicationPending:  0,
		domain.ApplicationApproved: 0,
		domain.ApplicationRejected: 0,
	}
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

type borrowerInfoRepository struct {
	db *gorm.DB
}

// NewBorrowerInfoRepository creates a new borrower personal info repository
func NewBorrowerInfoRepository(db *gorm.DB) BorrowerInfoRepository {
	return &borrowerInfoRepository{db: db}
}

func (r *borrowerInfoRepository) Create(ctx context.Context, info *models.BorrowerPersonalInfo) error {
	return r.db.WithContext(ctx).Create(info).Error
}

func (r *borrowerInfoRepository) GetByID(ctx context.Context, id uint) (*models.BorrowerPersonalInfo, error) {
	var info models.BorrowerPersonalInfo
	if err := r.db.WithContext(ctx).First(&info, id).Error; err != nil {
		return nil, err
	}
	return &info, nil
}

func (r *borrowerInfoRepository) GetByApplicationID(ctx context.Context, applicationID uint) (*models.BorrowerPersonalInfo, error) {
	var info models.BorrowerPersonalInfo
	err := r.db.WithContext(ctx).Where("loan_application_id = ?", applicationID).First(&info).Error
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (r *borrowerInfoRepository) ListByApplicationIDs(ctx context.Context, applicationIDs []uint) ([]*models.BorrowerPersonalInfo, error) {
	infos := make([]*models.BorrowerPersonalInfo, 0)
	if len(applicationIDs) == 0 {
		return infos, nil
	}
	err := r.db.WithContext(ctx).Where("loan_application_id IN ?", applicationIDs).Find(&infos).Error
	return infos, err
}
