package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"debo-loans/internal/adapters/persistence/models"
	"debo-loans/internal/adapters/persistence/repositories"
	"debo-loans/internal/core/domain"
	"debo-loans/internal/pkg/metrics"

	"gorm.io/gorm"
)

// DocumentService handles supporting documents and their verification
type DocumentService struct {
	store    *repositories.Store
	notifier *NotificationService
}

// NewDocumentService creates a new document service
func NewDocumentService(store *repositories.Store, notifier *NotificationService) *DocumentService {
	return &DocumentService{
		store:    store,
		notifier: notifier,
	}
}

// CollateralInput attaches a collateral document to an application
type CollateralInput struct {
	ApplicationID  uint
	CollateralType domain.CollateralType
	Description    string
	DocumentURL    string
}

// IncomeProofInput attaches an income proof to an application's personal info
type IncomeProofInput struct {
	ApplicationID uint
	IncomeSource  string
	MonthlyIncome float64
	DocumentURL   string
}

// IdentificationInput attaches an identity document to an application's personal info
type IdentificationInput struct {
	ApplicationID        uint
	IdentificationType   domain.IdentificationType
	IdentificationNumber string
	DocumentURL          string
}

// VerifyInput is a cashier's verdict on one document
type VerifyInput struct {
	DocumentID uint
	Kind       domain.DocumentKind
	Status     domain.DocumentStatus
}

var identificationTypes = map[domain.IdentificationType]bool{
	domain.IdentificationNationalID:     true,
	domain.IdentificationKebeleID:       true,
	domain.IdentificationPassport:       true,
	domain.IdentificationDrivingLicense: true,
}

var documentKinds = map[domain.DocumentKind]bool{
	domain.DocumentCollateral:     true,
	domain.DocumentIncomeProof:    true,
	domain.DocumentIdentification: true,
}

// VerifyResult reports the verified document
type VerifyResult struct {
	DocumentID uint                  `json:"document_id"`
	Kind       domain.DocumentKind   `json:"document_type"`
	Status     domain.DocumentStatus `json:"status"`
}

var collateralTypes = map[domain.CollateralType]bool{
	domain.CollateralLandTitle:   true,
	domain.CollateralCarOwner:    true,
	domain.CollateralIncomeProof: true,
}

// AttachCollateral records a PENDING collateral for an application the caller may act on
func (s *DocumentService) AttachCollateral(ctx context.Context, p domain.Principal, input *CollateralInput) (*models.Collateral, error) {
	collateralType := domain.CollateralType(strings.ToUpper(string(input.CollateralType)))
	if !collateralTypes[collateralType] {
		return nil, domain.ErrInvalidInput
	}

	application, err := s.ownApplication(ctx, p, input.ApplicationID)
	if err != nil {
		return nil, err
	}

	collateral := &models.Collateral{
		LoanApplicationID: application.ID,
		CollateralType:    collateralType,
		Description:       strings.TrimSpace(input.Description),
		DocumentURL:       strings.TrimSpace(input.DocumentURL),
		Status:            domain.DocumentPending,
	}
	if err := s.store.Documents.CreateCollateral(ctx, collateral); err != nil {
		return nil, err
	}
	return collateral, nil
}

// AttachIncomeProof records a PENDING income proof for an application the caller may act on
func (s *DocumentService) AttachIncomeProof(ctx context.Context, p domain.Principal, input *IncomeProofInput) (*models.IncomeProof, error) {
	if strings.TrimSpace(input.IncomeSource) == "" || input.MonthlyIncome < 0 {
		return nil, domain.ErrInvalidInput
	}

	info, err := s.personalInfo(ctx, p, input.ApplicationID)
	if err != nil {
		return nil, err
	}

	proof := &models.IncomeProof{
		BorrowerPersonalInfoID: info.ID,
		IncomeSource:           strings.TrimSpace(input.IncomeSource),
		MonthlyIncome:          input.MonthlyIncome,
		DocumentURL:            strings.TrimSpace(input.DocumentURL),
		Status:                 domain.DocumentPending,
	}
	if err := s.store.Documents.CreateIncomeProof(ctx, proof); err != nil {
		return nil, err
	}
	return proof, nil
}

// AttachIdentification records a PENDING identity document for an application the caller may act on
func (s *DocumentService) AttachIdentification(ctx context.Context, p domain.Principal, input *IdentificationInput) (*models.PersonalIdentificationDocument, error) {
	idType := domain.IdentificationType(strings.ToUpper(string(input.IdentificationType)))
	if !identificationTypes[idType] || strings.TrimSpace(input.IdentificationNumber) == "" {
		return nil, domain.ErrInvalidInput
	}

	info, err := s.personalInfo(ctx, p, input.ApplicationID)
	if err != nil {
		return nil, err
	}

	doc := &models.PersonalIdentificationDocument{
		BorrowerPersonalInfoID: info.ID,
		IdentificationType:     idType,
		IdentificationNumber:   strings.TrimSpace(input.IdentificationNumber),
		DocumentURL:            strings.TrimSpace(input.DocumentURL),
		Status:                 domain.DocumentPending,
	}
	if err := s.store.Documents.CreateIdentification(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Verify marks a PENDING document VERIFIED or REJECTED and notifies the applicant
func (s *DocumentService) Verify(ctx context.Context, p domain.Principal, input *VerifyInput) (*VerifyResult, error) {
	if !domain.Can(p.Role, domain.ActionVerifyDocument) {
		return nil, domain.ErrForbidden
	}
	kind := domain.DocumentKind(strings.ToUpper(string(input.Kind)))
	if !documentKinds[kind] {
		return nil, domain.ErrInvalidDocumentKind
	}
	status := domain.DocumentStatus(strings.ToUpper(string(input.Status)))
	if !status.IsDecision() {
		return nil, domain.ErrInvalidDocumentStatus
	}

	var notification *models.Notification
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		current, applicationID, err := s.load(ctx, tx, kind, input.DocumentID)
		if err != nil {
			return err
		}
		if current != domain.DocumentPending {
			return domain.ErrDocumentAlreadyReviewed
		}

		application, err := tx.Applications.GetByID(ctx, applicationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrApplicationNotFound
			}
			return err
		}

		changed, err := tx.Documents.UpdateStatus(ctx, kind, input.DocumentID, status, p.UserID)
		if err != nil {
			return err
		}
		if !changed {
			return domain.ErrDocumentAlreadyReviewed
		}

		notification, err = s.notifier.Record(ctx, tx, application.UserID,
			fmt.Sprintf("%s Verification", kind),
			fmt.Sprintf("%s document %s for loan application %d.", kind, strings.ToLower(string(status)), application.ID))
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.DocumentVerifications.WithLabelValues(string(kind), string(status)).Inc()
	s.notifier.Publish(notification)

	return &VerifyResult{DocumentID: input.DocumentID, Kind: kind, Status: status}, nil
}

// load returns the current status of a document and the application it belongs to
func (s *DocumentService) load(ctx context.Context, tx *repositories.Store, kind domain.DocumentKind, id uint) (domain.DocumentStatus, uint, error) {
	switch kind {
	case domain.DocumentCollateral:
		c, err := tx.Documents.GetCollateral(ctx, id)
		if err != nil {
			return "", 0, notFound(err, domain.ErrDocumentNotFound)
		}
		return c.Status, c.LoanApplicationID, nil
	case domain.DocumentIdentification:
		doc, err := tx.Documents.GetIdentification(ctx, id)
		if err != nil {
			return "", 0, notFound(err, domain.ErrDocumentNotFound)
		}
		return s.viaPersonalInfo(ctx, tx, doc.Status, doc.BorrowerPersonalInfoID)
	default:
		proof, err := tx.Documents.GetIncomeProof(ctx, id)
		if err != nil {
			return "", 0, notFound(err, domain.ErrDocumentNotFound)
		}
		return s.viaPersonalInfo(ctx, tx, proof.Status, proof.BorrowerPersonalInfoID)
	}
}

func (s *DocumentService) viaPersonalInfo(ctx context.Context, tx *repositories.Store, status domain.DocumentStatus, infoID uint) (domain.DocumentStatus, uint, error) {
	info, err := tx.BorrowerInfos.GetByID(ctx, infoID)
	if err != nil {
		return "", 0, notFound(err, domain.ErrDocumentNotFound)
	}
	return status, info.LoanApplicationID, nil
}

// personalInfo loads the borrower personal info of an application the caller may attach documents to
func (s *DocumentService) personalInfo(ctx context.Context, p domain.Principal, applicationID uint) (*models.BorrowerPersonalInfo, error) {
	application, err := s.ownApplication(ctx, p, applicationID)
	if err != nil {
		return nil, err
	}
	info, err := s.store.BorrowerInfos.GetByApplicationID(ctx, application.ID)
	if err != nil {
		return nil, notFound(err, domain.ErrApplicationNotFound)
	}
	return info, nil
}

// ownApplication loads an application the caller may attach documents to.
// Other borrowers' applications look missing.
func (s *DocumentService) ownApplication(ctx context.Context, p domain.Principal, id uint) (*models.LoanApplication, error) {
	if !domain.Can(p.Role, domain.ActionAttachDocuments) {
		return nil, domain.ErrForbidden
	}

	application, err := s.store.Applications.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, domain.ErrApplicationNotFound)
	}
	if !p.SeesAll() && application.UserID != p.UserID {
		return nil, domain.ErrApplicationNotFound
	}
	return application, nil
}

// notFound maps gorm's not-found error to target and passes anything else through
func notFound(err, target error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return target
	}
	return err
}
