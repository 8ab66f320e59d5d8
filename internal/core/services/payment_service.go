package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"debo-loans/internal/adapters/persistence/models"
	"debo-loans/internal/adapters/persistence/repositories"
	"debo-loans/internal/core/domain"
	"debo-loans/internal/pkg/metrics"
	"debo-loans/internal/pkg/pagination"

	"github.com/google/uuid"
)

// PaymentService records verified payments and their locked receipts
type PaymentService struct {
	store    *repositories.Store
	notifier *NotificationService
	receipts ReceiptStore
	now      Clock
}

// NewPaymentService creates a new payment service
func NewPaymentService(store *repositories.Store, notifier *NotificationService, receipts ReceiptStore, now Clock) *PaymentService {
	if now == nil {
		now = time.Now
	}
	return &PaymentService{
		store:    store,
		notifier: notifier,
		receipts: receipts,
		now:      now,
	}
}

// PaymentInput is a payment a cashier has checked against the borrower's proof
type PaymentInput struct {
	BorrowerID   uint
	LoanID       uint
	Amount       float64
	DocumentType domain.ReceiptType
}

// PaymentView is a payment with its receipt
type PaymentView struct {
	*models.Payment
	Receipt *models.PaymentReceiptDocument `json:"receipt"`
}

var receiptTypes = map[domain.ReceiptType]bool{
	domain.ReceiptMobilePayment: true,
	domain.ReceiptBankPayment:   true,
}

// Record stores a VERIFIED payment against an ACTIVE loan of the borrower
// together with its locked receipt.
func (s *PaymentService) Record(ctx context.Context, p domain.Principal, input *PaymentInput) (*PaymentView, error) {
	if !domain.Can(p.Role, domain.ActionRecordPayment) {
		return nil, domain.ErrForbidden
	}
	if input.Amount <= 0 {
		return nil, domain.ErrInvalidInput
	}
	receiptType := domain.ReceiptType(strings.ToUpper(string(input.DocumentType)))
	if receiptType == "" {
		receiptType = domain.ReceiptBankPayment
	}
	if !receiptTypes[receiptType] {
		return nil, domain.ErrInvalidInput
	}

	if _, err := s.activeLoan(ctx, s.store, input.LoanID, input.BorrowerID); err != nil {
		return nil, err
	}

	receiptNumber := uuid.New().String()
	recordedAt := s.now()
	url, err := s.receipts.Put(ctx, receiptNumber, receiptBody(receiptNumber, input, p.UserID, recordedAt))
	if err != nil {
		return nil, fmt.Errorf("store receipt: %w", err)
	}

	view := &PaymentView{}
	var notification *models.Notification
	err = s.store.Transaction(ctx, func(tx *repositories.Store) error {
		// the loan may have changed since the pre-check
		if _, err := s.activeLoan(ctx, tx, input.LoanID, input.BorrowerID); err != nil {
			return err
		}

		payment := &models.Payment{
			LoanID:        input.LoanID,
			Amount:        input.Amount,
			Status:        domain.PaymentVerified,
			ReceiptNumber: receiptNumber,
			RecordedBy:    p.UserID,
		}
		if err := tx.Payments.Create(ctx, payment); err != nil {
			return err
		}

		receipt := &models.PaymentReceiptDocument{
			PaymentID:    payment.ID,
			DocumentURL:  url,
			DocumentType: receiptType,
			IsLocked:     true,
		}
		if err := tx.Payments.CreateReceipt(ctx, receipt); err != nil {
			return err
		}
		view.Payment = payment
		view.Receipt = receipt

		var err error
		notification, err = s.notifier.Record(ctx, tx, input.BorrowerID,
			"Payment Verified",
			fmt.Sprintf("Payment of ETB %.2f for loan %d verified.", input.Amount, input.LoanID))
		return err
	})
	if err != nil {
		if rmErr := s.receipts.Remove(ctx, receiptNumber); rmErr != nil {
			log.Printf("❌ orphaned receipt %s: %v", receiptNumber, rmErr)
		}
		return nil, err
	}

	metrics.PaymentsRecorded.Inc()
	s.notifier.Publish(notification)

	log.Printf("✅ Payment %s of %.2f recorded for loan %d by user %d", receiptNumber, input.Amount, input.LoanID, p.UserID)
	return view, nil
}

// Receipts lists the payments of a borrower with their receipts.
// Borrowers always get their own; staff choose the borrower.
func (s *PaymentService) Receipts(ctx context.Context, p domain.Principal, userID uint) ([]*PaymentView, error) {
	if !domain.Can(p.Role, domain.ActionViewTransactions) {
		userID = p.UserID
	}
	if userID == 0 {
		return nil, domain.ErrInvalidInput
	}

	payments, err := s.store.Payments.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.withReceipts(ctx, payments)
}

// Transactions lists every payment, newest first
func (s *PaymentService) Transactions(ctx context.Context, p domain.Principal, params *pagination.Params) ([]*PaymentView, int64, error) {
	if !domain.Can(p.Role, domain.ActionViewTransactions) {
		return nil, 0, domain.ErrForbidden
	}

	payments, total, err := s.store.Payments.List(ctx, params.Offset, params.Limit)
	if err != nil {
		return nil, 0, err
	}
	views, err := s.withReceipts(ctx, payments)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

func (s *PaymentService) withReceipts(ctx context.Context, payments []*models.Payment) ([]*PaymentView, error) {
	ids := make([]uint, 0, len(payments))
	for _, pay := range payments {
		ids = append(ids, pay.ID)
	}
	receipts, err := s.store.Payments.ListReceiptsByPaymentIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byPayment := make(map[uint]*models.PaymentReceiptDocument, len(receipts))
	for _, r := range receipts {
		byPayment[r.PaymentID] = r
	}

	views := make([]*PaymentView, 0, len(payments))
	for _, pay := range payments {
		views = append(views, &PaymentView{Payment: pay, Receipt: byPayment[pay.ID]})
	}
	return views, nil
}

func (s *PaymentService) activeLoan(ctx context.Context, store *repositories.Store, loanID, borrowerID uint) (*models.Loan, error) {
	loan, err := store.Loans.GetByIDAndOwner(ctx, loanID, borrowerID)
	if err != nil {
		return nil, notFound(err, domain.ErrLoanNotFound)
	}
	if loan.Status != domain.LoanActive {
		return nil, domain.ErrLoanNotActive
	}
	return loan, nil
}

func receiptBody(number string, input *PaymentInput, recordedBy uint, at time.Time) []byte {
	return []byte(fmt.Sprintf(
		"Receipt: %s\nLoan: %d\nBorrower: %d\nAmount: %.2f\nRecorded by: %d\nDate: %s\n",
		number, input.LoanID, input.BorrowerID, input.Amount, recordedBy, at.UTC().Format(time.RFC3339),
	))
}
