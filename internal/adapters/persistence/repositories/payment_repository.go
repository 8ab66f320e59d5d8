package repositories

import (
	"context"

	"debo-loans/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// paymentRepository handles payment and receipt data access
type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *paymentRepository) CreateReceipt(ctx context.Context, receipt *models.PaymentReceiptDocument) error {
	return r.db.WithContext(ctx).Create(receipt).Error
}

func (r *paymentRepository) GetReceiptByPaymentID(ctx context.Context, paymentID uint) (*models.PaymentReceiptDocument, error) {
	var receipt models.PaymentReceiptDocument
	if err := r.db.WithContext(ctx).Where("payment_id = ?", paymentID).First(&receipt).Error; err != nil {
		return nil, err
	}
	return &receipt, nil
}

// ListByLoanIDs lists payments of the given loans, oldest first
func (r *paymentRepository) ListByLoanIDs(ctx context.Context, loanIDs []uint) ([]*models.Payment, error) {
	payments := make([]*models.Payment, 0)
	if len(loanIDs) == 0 {
		return payments, nil
	}
	err := r.db.WithContext(ctx).
		Where("loan_id IN ?", loanIDs).
		Order("created_at ASC, id ASC").
		Find(&payments).Error
	return payments, err
}

// ListByOwner lists payments made against loans of userID
func (r *paymentRepository) ListByOwner(ctx context.Context, userID uint) ([]*models.Payment, error) {
	payments := make([]*models.Payment, 0)
	err := r.db.WithContext(ctx).
		Joins("JOIN loans ON loans.id = payments.loan_id").
		Where("loans.user_id = ?", userID).
		Order("payments.created_at DESC, payments.id DESC").
		Find(&payments).Error
	return payments, err
}

func (r *paymentRepository) ListReceiptsByPaymentIDs(ctx context.Context, paymentIDs []uint) ([]*models.PaymentReceiptDocument, error) {
	receipts := make([]*models.PaymentReceiptDocument, 0)
	if len(paymentIDs) == 0 {
		return receipts, nil
	}
	err := r.db.WithContext(ctx).Where("payment_id IN ?", paymentIDs).Find(&receipts).Error
	return receipts, err
}

// List lists all payments with pagination, newest first
func (r *paymentRepository) List(ctx context.Context, offset, limit int) ([]*models.Payment, int64, error) {
	var payments []*models.Payment
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Payment{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&payments).Error

	return payments, total, err
}

// SumAmount sums every recorded payment
func (r *paymentRepository) SumAmount(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&models.Payment{}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}
