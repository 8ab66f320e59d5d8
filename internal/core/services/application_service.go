package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"debo-loans/internal/adapters/persistence/models"
	"debo-loans/internal/adapters/persistence/repositories"
	"debo-loans/internal/core/domain"
	"debo-loans/internal/pkg/metrics"
	"debo-loans/internal/pkg/pagination"
)

// ApplicationService handles loan application intake and listing
type ApplicationService struct {
	store    *repositories.Store
	notifier *NotificationService
}

// NewApplicationService creates a new application service
func NewApplicationService(store *repositories.Store, notifier *NotificationService) *ApplicationService {
	return &ApplicationService{
		store:    store,
		notifier: notifier,
	}
}

// SubmitInput represents a new loan application with the borrower's details
type SubmitInput struct {
	LoanAmount          float64
	LoanPurpose         string
	RepaymentPeriodDays int
	PhoneNumber         string
	Region              string
	Zone                string
	Woreda              string
	Citizenship         string
}

// ApplicationView is an application with its personal info
type ApplicationView struct {
	*models.LoanApplication
	PersonalInfo *models.BorrowerPersonalInfo `json:"borrower_personal_info"`
}

// Submit creates a PENDING application and its personal info owned by the caller
func (s *ApplicationService) Submit(ctx context.Context, p domain.Principal, input *SubmitInput) (*ApplicationView, error) {
	if !domain.Can(p.Role, domain.ActionSubmitApplication) {
		return nil, domain.ErrForbidden
	}
	if input.LoanAmount <= 0 || input.RepaymentPeriodDays <= 0 || strings.TrimSpace(input.LoanPurpose) == "" {
		return nil, domain.ErrInvalidInput
	}

	application := &models.LoanApplication{
		UserID:              p.UserID,
		LoanAmount:          input.LoanAmount,
		LoanPurpose:         strings.TrimSpace(input.LoanPurpose),
		RepaymentPeriodDays: input.RepaymentPeriodDays,
		Status:              domain.ApplicationPending,
	}
	info := &models.BorrowerPersonalInfo{
		PhoneNumber: strings.TrimSpace(input.PhoneNumber),
		Region:      strings.TrimSpace(input.Region),
		Zone:        strings.TrimSpace(input.Zone),
		Woreda:      strings.TrimSpace(input.Woreda),
		Citizenship: strings.TrimSpace(input.Citizenship),
	}

	var notification *models.Notification
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		if err := tx.Applications.Create(ctx, application); err != nil {
			return err
		}
		info.LoanApplicationID = application.ID
		if err := tx.BorrowerInfos.Create(ctx, info); err != nil {
			return err
		}

		var err error
		notification, err = s.notifier.Record(ctx, tx, p.UserID,
			"Loan Application Submitted",
			fmt.Sprintf("Your loan application %d for %.2f has been submitted.", application.ID, application.LoanAmount))
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.ApplicationsSubmitted.Inc()
	s.notifier.Publish(notification)

	log.Printf("✅ Loan application %d submitted by user %d", application.ID, p.UserID)
	return &ApplicationView{LoanApplication: application, PersonalInfo: info}, nil
}

// List returns applications visible to the caller with their personal info
func (s *ApplicationService) List(ctx context.Context, p domain.Principal, status string, params *pagination.Params) ([]*ApplicationView, int64, error) {
	applications, total, err := s.store.Applications.List(ctx, listFilter(p, status, params))
	if err != nil {
		return nil, 0, err
	}

	ids := make([]uint, 0, len(applications))
	for _, a := range applications {
		ids = append(ids, a.ID)
	}
	infos, err := s.store.BorrowerInfos.ListByApplicationIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	byApplication := make(map[uint]*models.BorrowerPersonalInfo, len(infos))
	for _, info := range infos {
		byApplication[info.LoanApplicationID] = info
	}

	views := make([]*ApplicationView, 0, len(applications))
	for _, a := range applications {
		views = append(views, &ApplicationView{LoanApplication: a, PersonalInfo: byApplication[a.ID]})
	}
	return views, total, nil
}

// listFilter scopes a list query to the caller unless they see every record
func listFilter(p domain.Principal, status string, params *pagination.Params) repositories.ListFilter {
	filter := repositories.ListFilter{
		Status: strings.ToUpper(strings.TrimSpace(status)),
		Offset: params.Offset,
		Limit:  params.Limit,
	}
	if !p.SeesAll() {
		owner := p.UserID
		filter.OwnerID = &owner
	}
	return filter
}
