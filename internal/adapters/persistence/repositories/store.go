package repositories

import (
	"context"

	"gorm.io/gorm"
)

// Store groups every repository over the same connection or transaction
type Store struct {
	db *gorm.DB

	Users             UserRepository
	Credentials       CredentialRepository
	VerificationCodes VerificationCodeRepository
	RefreshTokens     RefreshTokenRepository
	Applications      LoanApplicationRepository
	BorrowerInfos     BorrowerInfoRepository
	Documents         DocumentRepository
	LoanProducts      LoanProductRepository
	Loans             LoanRepository
	Payments          PaymentRepository
	Notifications     NotificationRepository
}

// NewStore creates a store bound to db
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:                db,
		Users:             NewUserRepository(db),
		Credentials:       NewCredentialRepository(db),
		VerificationCodes: NewVerificationCodeRepository(db),
		RefreshTokens:     NewRefreshTokenRepository(db),
		Applications:      NewLoanApplicationRepository(db),
		BorrowerInfos:     NewBorrowerInfoRepository(db),
		Documents:         NewDocumentRepository(db),
		LoanProducts:      NewLoanProductRepository(db),
		Loans:             NewLoanRepository(db),
		Payments:          NewPaymentRepository(db),
		Notifications:     NewNotificationRepository(db),
	}
}

// Transaction runs fn with a store bound to a single database transaction.
// Any error returned by fn rolls the whole transaction back.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// Ping checks the underlying connection
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
