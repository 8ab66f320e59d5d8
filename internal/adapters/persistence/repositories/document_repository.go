package repositories

import (
	"context"

	"debo-loans/internal/adapters/persistence/models"
	"debo-loans/internal/core/domain"

	"gorm.io/gorm"
)

type documentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) CreateCollateral(ctx context.Context, collateral *models.Collateral) error {
	return r.db.WithContext(ctx).Create(collateral).Error
}

func (r *documentRepository) GetCollateral(ctx context.Context, id uint) (*models.Collateral, error) {
	var collateral models.Collateral
	if err := r.db.WithContext(ctx).First(&collateral, id).Error; err != nil {
		return nil, err
	}
	return &collateral, nil
}

func (r *documentRepository) CreateIncomeProof(ctx context.Context, proof *models.IncomeProof) error {
	return r.db.WithContext(ctx).Create(proof).Error
}

func (r *documentRepository) GetIncomeProof(ctx context.Context, id uint) (*models.IncomeProof, error) {
	var proof models.IncomeProof
	if err := r.db.WithContext(ctx).First(&proof, id).Error; err != nil {
		return nil, err
	}
	return &proof, nil
}

func (r *documentRepository) CreateIdentification(ctx context.Context, doc *models.PersonalIdentificationDocument) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

func (r *documentRepository) GetIdentification(ctx context.Context, id uint) (*models.PersonalIdentificationDocument, error) {
	var doc models.PersonalIdentificationDocument
	if err := r.db.WithContext(ctx).First(&doc, id).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

// UpdateStatus only touches documents that are still PENDING
func (r *documentRepository) UpdateStatus(ctx context.Context, kind domain.DocumentKind, id uint, status domain.DocumentStatus, verifiedBy uint) (bool, error) {
	var model interface{}
	switch kind {
	case domain.DocumentCollateral:
		model = &models.Collateral{}
	case domain.DocumentIncomeProof:
		model = &models.IncomeProof{}
	case domain.DocumentIdentification:
		model = &models.PersonalIdentificationDocument{}
	default:
		return false, domain.ErrInvalidDocumentKind
	}

	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND status = ?", id, domain.DocumentPending).
		Updates(map[string]interface{}{
			"status":      status,
			"verified_by": verifiedBy,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
