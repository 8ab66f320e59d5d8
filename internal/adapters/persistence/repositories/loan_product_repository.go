package repositories

import (
	"context"

	"debo-loans/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// loanProductRepository handles loan product data access
type loanProductRepository struct {
	db *gorm.DB
}

// NewLoanProductRepository creates a new loan product repository
func NewLoanProductRepository(db *gorm.DB) LoanProductRepository {
	return &loanProductRepository{db: db}
}

// Create creates a new loan product
func (r *loanProductRepository) Create(ctx context.Context, product *models.LoanProduct) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// GetByID gets a loan product by ID
func (r *loanProductRepository) GetByID(ctx context.Context, id uint) (*models.LoanProduct, error) {
	var product models.LoanProduct
	if err := r.db.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// List lists all loan products
func (r *loanProductRepository) List(ctx context.Context) ([]*models.LoanProduct, error) {
	products := make([]*models.LoanProduct, 0)
	err := r.db.WithContext(ctx).Order("id ASC").Find(&products).Error
	return products, err
}

// Update updates a loan product
func (r *loanProductRepository) Update(ctx context.Context, product *models.LoanProduct) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// Delete soft deletes a loan product
func (r *loanProductRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.LoanProduct{}, id).Error
}

// Count counts loan products that are not deleted
func (r *loanProductRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.LoanProduct{}).Count(&count).Error
	return count, err
}
