package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"debo-loans/internal/adapters/persistence/models"
	"debo-loans/internal/adapters/persistence/repositories"
	"debo-loans/internal/core/domain"
	"debo-loans/internal/pkg/metrics"

	"gorm.io/gorm"
)

// ReviewService moves loan applications out of PENDING
type ReviewService struct {
	store    *repositories.Store
	notifier *NotificationService
	now      Clock
}

// NewReviewService creates a new review service
func NewReviewService(store *repositories.Store, notifier *NotificationService, now Clock) *ReviewService {
	if now == nil {
		now = time.Now
	}
	return &ReviewService{
		store:    store,
		notifier: notifier,
		now:      now,
	}
}

// DecisionInput approves or rejects an application.
// LoanProductID is required for approval.
type DecisionInput struct {
	ApplicationID uint
	Status        domain.ApplicationStatus
	LoanProductID uint
}

// LoanTerms are explicit terms for a manually created loan
type LoanTerms struct {
	ApplicationID       uint
	LoanProductID       *uint
	Principal           float64
	Interest            float64
	PaymentScheduleDays int
}

// DecisionResult is the outcome of a review
type DecisionResult struct {
	Application *models.LoanApplication `json:"loan_application"`
	Loan        *models.Loan            `json:"loan,omitempty"`
}

// Decide approves or rejects a PENDING application. Approval creates the loan
// from the product terms. Everything commits or nothing does.
func (s *ReviewService) Decide(ctx context.Context, p domain.Principal, input *DecisionInput) (*DecisionResult, error) {
	if !domain.Can(p.Role, domain.ActionReviewApplication) {
		return nil, domain.ErrForbidden
	}
	status := domain.ApplicationStatus(strings.ToUpper(string(input.Status)))
	if !status.IsDecision() {
		return nil, domain.ErrInvalidDecision
	}

	result := &DecisionResult{}
	var notification *models.Notification

	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		application, err := s.pending(ctx, tx, input.ApplicationID)
		if err != nil {
			return err
		}

		var terms *LoanTerms
		if status == domain.ApplicationApproved {
			product, err := tx.LoanProducts.GetByID(ctx, input.LoanProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return domain.ErrLoanProductNotFound
				}
				return err
			}
			productID := product.ID
			terms = &LoanTerms{
				ApplicationID:       application.ID,
				LoanProductID:       &productID,
				Principal:           application.LoanAmount,
				Interest:            product.InterestRate,
				PaymentScheduleDays: product.DueDateDays,
			}
		}

		result.Application, result.Loan, err = s.decide(ctx, tx, p, application, status, terms)
		if err != nil {
			return err
		}

		notification, err = s.notifier.Record(ctx, tx, application.UserID,
			fmt.Sprintf("Loan Application %s", status),
			fmt.Sprintf("Your loan application has been %s.", strings.ToLower(string(status))))
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.ApplicationDecisions.WithLabelValues(string(status)).Inc()
	s.notifier.Publish(notification)

	log.Printf("✅ Loan application %d %s by user %d", input.ApplicationID, status, p.UserID)
	return result, nil
}

// CreateLoan approves a PENDING application with explicit terms
func (s *ReviewService) CreateLoan(ctx context.Context, p domain.Principal, terms *LoanTerms) (*DecisionResult, error) {
	if !domain.Can(p.Role, domain.ActionReviewApplication) {
		return nil, domain.ErrForbidden
	}
	if terms.Principal <= 0 || terms.Interest < 0 || terms.PaymentScheduleDays <= 0 {
		return nil, domain.ErrInvalidInput
	}

	result := &DecisionResult{}
	var notification *models.Notification

	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		application, err := s.pending(ctx, tx, terms.ApplicationID)
		if err != nil {
			return err
		}
		if terms.LoanProductID != nil {
			if _, err := tx.LoanProducts.GetByID(ctx, *terms.LoanProductID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return domain.ErrLoanProductNotFound
				}
				return err
			}
		}

		result.Application, result.Loan, err = s.decide(ctx, tx, p, application, domain.ApplicationApproved, terms)
		if err != nil {
			return err
		}

		notification, err = s.notifier.Record(ctx, tx, application.UserID,
			"Loan Application APPROVED",
			fmt.Sprintf("Your loan application has been approved. Loan %d of %.2f is now active.", result.Loan.ID, result.Loan.Principal))
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.ApplicationDecisions.WithLabelValues(string(domain.ApplicationApproved)).Inc()
	s.notifier.Publish(notification)

	log.Printf("✅ Loan %d created for application %d by user %d", result.Loan.ID, terms.ApplicationID, p.UserID)
	return result, nil
}

// Transfer hands a PENDING application to the cashiers for document verification
func (s *ReviewService) Transfer(ctx context.Context, p domain.Principal, applicationID uint) error {
	if !domain.Can(p.Role, domain.ActionTransferApplication) {
		return domain.ErrForbidden
	}

	var notifications []*models.Notification
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		if _, err := s.pending(ctx, tx, applicationID); err != nil {
			return err
		}

		cashiers, err := tx.Users.ListIDsByRole(ctx, domain.RoleCashier, domain.UserActive)
		if err != nil {
			return err
		}

		n, err := s.notifier.Record(ctx, tx, p.UserID,
			"Loan Request Transferred",
			fmt.Sprintf("Loan application %d transferred to cashiers for document verification.", applicationID))
		if err != nil {
			return err
		}
		notifications = append(notifications, n)

		for _, cashierID := range cashiers {
			n, err := s.notifier.Record(ctx, tx, cashierID,
				"Documents Awaiting Verification",
				fmt.Sprintf("Loan application %d is waiting for document verification.", applicationID))
			if err != nil {
				return err
			}
			notifications = append(notifications, n)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.notifier.Publish(notifications...)
	return nil
}

// pending loads an application that has not been decided yet
func (s *ReviewService) pending(ctx context.Context, tx *repositories.Store, id uint) (*models.LoanApplication, error) {
	application, err := tx.Applications.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrApplicationNotFound
		}
		return nil, err
	}
	if application.Status != domain.ApplicationPending {
		return nil, domain.ErrApplicationDecided
	}
	return application, nil
}

// decide performs the compare-and-set transition and creates the loan on approval
func (s *ReviewService) decide(ctx context.Context, tx *repositories.Store, p domain.Principal, application *models.LoanApplication, status domain.ApplicationStatus, terms *LoanTerms) (*models.LoanApplication, *models.Loan, error) {
	now := s.now()
	changed, err := tx.Applications.Decide(ctx, application.ID, status, p.UserID, now)
	if err != nil {
		return nil, nil, err
	}
	if !changed {
		return nil, nil, domain.ErrApplicationDecided
	}

	decidedBy := p.UserID
	application.Status = status
	application.DecidedBy = &decidedBy
	application.DecidedAt = &now

	if status != domain.ApplicationApproved {
		return application, nil, nil
	}

	existing, err := tx.Loans.CountByApplicationID(ctx, application.ID)
	if err != nil {
		return nil, nil, err
	}
	if existing > 0 {
		return nil, nil, domain.ErrApplicationDecided
	}

	loan := &models.Loan{
		UserID:              application.UserID,
		LoanApplicationID:   application.ID,
		LoanProductID:       terms.LoanProductID,
		Principal:           terms.Principal,
		Interest:            terms.Interest,
		PaymentScheduleDays: terms.PaymentScheduleDays,
		Status:              domain.LoanActive,
	}
	if err := tx.Loans.Create(ctx, loan); err != nil {
		return nil, nil, fmt.Errorf("create loan: %w", err)
	}
	return application, loan, nil
}
