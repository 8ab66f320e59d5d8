package repositories

import (
	"context"
	"time"

	"debo-loans/internal/adapters/persistence/models"
	"debo-loans/internal/core/domain"
)

// ListFilter narrows list queries.
// A nil OwnerID means the caller may see every row.
type ListFilter struct {
	OwnerID *uint
	Status  string
	Offset  int
	Limit   int
}

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateStatus(ctx context.Context, id uint, status domain.UserStatus) error
	UpdateRole(ctx context.Context, id uint, role domain.Role) error
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	ListIDsByRole(ctx context.Context, role domain.Role, status domain.UserStatus) ([]uint, error)
	CountByRole(ctx context.Context) (map[domain.Role]int64, error)
}

// CredentialRepository defines credential repository interface
type CredentialRepository interface {
	Create(ctx context.Context, credential *models.UserCredential) error
	GetByUserID(ctx context.Context, userID uint) (*models.UserCredential, error)
	UpdateHash(ctx context.Context, userID uint, passHash string) error
}

// VerificationCodeRepository defines verification code repository interface
type VerificationCodeRepository interface {
	Create(ctx context.Context, code *models.VerificationCode) error
	GetByUserAndCode(ctx context.Context, userID uint, code string) (*models.VerificationCode, error)
	DeleteByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint, at time.Time) (bool, error)
	RevokeByTokenHash(ctx context.Context, tokenHash string, at time.Time) error
	RevokeAllByUserID(ctx context.Context, userID uint, at time.Time) (int64, error)
	DeleteStale(ctx context.Context, now time.Time) (int64, error)
}

// LoanApplicationRepository defines loan application repository interface
type LoanApplicationRepository interface {
	Create(ctx context.Context, application *models.LoanApplication) error
	GetByID(ctx context.Context, id uint) (*models.LoanApplication, error)
	// Decide moves a PENDING application to status and reports whether a row changed.
	Decide(ctx context.Context, id uint, status domain.ApplicationStatus, decidedBy uint, decidedAt time.Time) (bool, error)
	List(ctx context.Context, filter ListFilter) ([]*models.LoanApplication, int64, error)
	CountByStatus(ctx context.Context) (map[domain.ApplicationStatus]int64, error)
}

// BorrowerInfoRepository defines borrower personal info repository interface
type BorrowerInfoRepository interface {
	Create(ctx context.Context, info *models.BorrowerPersonalInfo) error
	GetByID(ctx context.Context, id uint) (*models.BorrowerPersonalInfo, error)
	GetByApplicationID(ctx context.Context, applicationID uint) (*models.BorrowerPersonalInfo, error)
	ListByApplicationIDs(ctx context.Context, applicationIDs []uint) ([]*models.BorrowerPersonalInfo, error)
}

// DocumentRepository defines collateral, income proof and identification repository interface
type DocumentRepository interface {
	CreateCollateral(ctx context.Context, collateral *models.Collateral) error
	GetCollateral(ctx context.Context, id uint) (*models.Collateral, error)
	CreateIncomeProof(ctx context.Context, proof *models.IncomeProof) error
	GetIncomeProof(ctx context.Context, id uint) (*models.IncomeProof, error)
	CreateIdentification(ctx context.Context, doc *models.PersonalIdentificationDocument) error
	GetIdentification(ctx context.Context, id uint) (*models.PersonalIdentificationDocument, error)
	// UpdateStatus moves a PENDING document to status and reports whether a row changed.
	UpdateStatus(ctx context.Context, kind domain.DocumentKind, id uint, status domain.DocumentStatus, verifiedBy uint) (bool, error)
}

// LoanProductRepository defines loan product repository interface
type LoanProductRepository interface {
	Create(ctx context.Context, product *models.LoanProduct) error
	GetByID(ctx context.Context, id uint) (*models.LoanProduct, error)
	List(ctx context.Context) ([]*models.LoanProduct, error)
	Update(ctx context.Context, product *models.LoanProduct) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

// LoanRepository defines loan repository interface
type LoanRepository interface {
	Create(ctx context.Context, loan *models.Loan) error
	GetByID(ctx context.Context, id uint) (*models.Loan, error)
	GetByIDAndOwner(ctx context.Context, id, userID uint) (*models.Loan, error)
	CountByApplicationID(ctx context.Context, applicationID uint) (int64, error)
	List(ctx context.Context, filter ListFilter) ([]*models.Loan, int64, error)
	CountByStatus(ctx context.Context) (map[domain.LoanStatus]int64, error)
	SumPrincipal(ctx context.Context) (float64, error)
}

// PaymentRepository defines payment and receipt repository interface
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	CreateReceipt(ctx context.Context, receipt *models.PaymentReceiptDocument) error
	GetReceiptByPaymentID(ctx context.Context, paymentID uint) (*models.PaymentReceiptDocument, error)
	ListByLoanIDs(ctx context.Context, loanIDs []uint) ([]*models.Payment, error)
	ListByOwner(ctx context.Context, userID uint) ([]*models.Payment, error)
	ListReceiptsByPaymentIDs(ctx context.Context, paymentIDs []uint) ([]*models.PaymentReceiptDocument, error)
	List(ctx context.Context, offset, limit int) ([]*models.Payment, int64, error)
	SumAmount(ctx context.Context) (float64, error)
}

// NotificationRepository defines notification repository interface
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListByUserID(ctx context.Context, userID uint, offset, limit int) ([]*models.Notification, int64, error)
}
