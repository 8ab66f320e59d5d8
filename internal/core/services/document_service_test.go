package services

import (
	"context"
	"testing"

	"debo-loans/internal/adapters/persistence/models"
	"debo-loans/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttachCollateralOnlyToOwnApplication(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user("owner@example.com", domain.RoleBorrower, domain.UserActive)
	other := env.user("other@example.com", domain.RoleBorrower, domain.UserActive)
	app := env.application(owner, 5000)

	svc := NewDocumentService(env.store, env.notifier())
	collateral, err := svc.AttachCollateral(ctx, owner, &CollateralInput{
		ApplicationID:  app.ID,
		CollateralType: "land_title_certificate",
		DocumentURL:    "https://files.example.com/title.pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.CollateralLandTitle, collateral.CollateralType)
	assert.Equal(t, domain.DocumentPending, collateral.Status)

	_, err = svc.AttachCollateral(ctx, other, &CollateralInput{
		ApplicationID:  app.ID,
		CollateralType: domain.CollateralCarOwner,
		DocumentURL:    "https://files.example.com/car.pdf",
	})
	assert.ErrorIs(t, err, domain.ErrApplicationNotFound)

	_, err = svc.AttachCollateral(ctx, owner, &CollateralInput{ApplicationID: app.ID, CollateralType: "GOLD"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Equal(t, int64(1), env.count(&models.Collateral{}, ""))
}

func TestVerifyCollateral(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	borrower := env.user("borrower@example.com", domain.RoleBorrower, domain.UserActive)
	cashier := env.user("cashier@example.com", domain.RoleCashier, domain.UserActive)
	app := env.application(borrower, 5000)

	svc := NewDocumentService(env.store, env.notifier())
	collateral, err := svc.AttachCollateral(ctx, borrower, &CollateralInput{
		ApplicationID:  app.ID,
		CollateralType: domain.CollateralLandTitle,
		DocumentURL:    "https://files.example.com/title.pdf",
	})
	require.NoError(t, err)

	result, err := svc.Verify(ctx, cashier, &VerifyInput{
		DocumentID: collateral.ID,
		Kind:       "collateral",
		Status:     "verified",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DocumentCollateral, result.Kind)
	assert.Equal(t, domain.DocumentVerified, result.Status)

	stored, err := env.store.Documents.GetCollateral(ctx, collateral.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DocumentVerified, stored.Status)
	require.NotNil(t, stored.VerifiedBy)
	assert.Equal(t, cashier.UserID, *stored.VerifiedBy)
	assert.Equal(t, int64(1), env.count(&models.Notification{}, "user_id = ? AND title = ?", borrower.UserID, "COLLATERAL Verification"))

	_, err = svc.Verify(ctx, cashier, &VerifyInput{DocumentID: collateral.ID, Kind: domain.DocumentCollateral, Status: domain.DocumentRejected})
	assert.ErrorIs(t, err, domain.ErrDocumentAlreadyReviewed)
}

func TestVerifyIncomeProof(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	borrower := env.user("borrower@example.com", domain.RoleBorrower, domain.UserActive)
	cashier := env.user("cashier@example.com", domain.RoleCashier, domain.UserActive)
	app := env.application(borrower, 5000)

	svc := NewDocumentService(env.store, env.notifier())
	proof, err := svc.AttachIncomeProof(ctx, borrower, &IncomeProofInput{
		ApplicationID: app.ID,
		IncomeSource:  "Retail shop",
		MonthlyIncome: 12000,
		DocumentURL:   "https://files.example.com/income.pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, app.PersonalInfo.ID, proof.BorrowerPersonalInfoID)

	result, err := svc.Verify(ctx, cashier, &VerifyInput{
		DocumentID: proof.ID,
		Kind:       domain.DocumentIncomeProof,
		Status:     domain.DocumentRejected,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DocumentRejected, result.Status)

	stored, err := env.store.Documents.GetIncomeProof(ctx, proof.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DocumentRejected, stored.Status)
}

func TestIdentificationLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	borrower := env.user("borrower@example.com", domain.RoleBorrower, domain.UserActive)
	other := env.user("other@example.com", domain.RoleBorrower, domain.UserActive)
	cashier := env.user("cashier@example.com", domain.RoleCashier, domain.UserActive)
	app := env.application(borrower, 5000)

	svc := NewDocumentService(env.store, env.notifier())
	doc, err := svc.AttachIdentification(ctx, borrower, &IdentificationInput{
		ApplicationID:        app.ID,
		IdentificationType:   "national_id",
		IdentificationNumber: " ET-123456 ",
		DocumentURL:          "https://files.example.com/id.pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.IdentificationNationalID, doc.IdentificationType)
	assert.Equal(t, "ET-123456", doc.IdentificationNumber)
	assert.Equal(t, app.PersonalInfo.ID, doc.BorrowerPersonalInfoID)
	assert.Equal(t, domain.DocumentPending, doc.Status)

	_, err = svc.AttachIdentification(ctx, other, &IdentificationInput{
		ApplicationID:        app.ID,
		IdentificationType:   domain.IdentificationPassport,
		IdentificationNumber: "EP1234567",
	})
	assert.ErrorIs(t, err, domain.ErrApplicationNotFound)

	_, err = svc.AttachIdentification(ctx, borrower, &IdentificationInput{ApplicationID: app.ID, IdentificationType: "LIBRARY_CARD", IdentificationNumber: "1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = svc.AttachIdentification(ctx, borrower, &IdentificationInput{ApplicationID: app.ID, IdentificationType: domain.IdentificationKebeleID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, int64(1), env.count(&models.PersonalIdentificationDocument{}, ""))

	result, err := svc.Verify(ctx, cashier, &VerifyInput{DocumentID: doc.ID, Kind: "identification", Status: "verified"})
	require.NoError(t, err)
	assert.Equal(t, domain.DocumentIdentification, result.Kind)

	stored, err := env.store.Documents.GetIdentification(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DocumentVerified, stored.Status)
	assert.Equal(t, int64(1), env.count(&models.Notification{}, "user_id = ? AND title = ?", borrower.UserID, "IDENTIFICATION Verification"))

	_, err = svc.Verify(ctx, cashier, &VerifyInput{DocumentID: doc.ID, Kind: domain.DocumentIdentification, Status: domain.DocumentRejected})
	assert.ErrorIs(t, err, domain.ErrDocumentAlreadyReviewed)
}

func TestVerifyUnknownDocumentChangesNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	borrower := env.user("borrower@example.com", domain.RoleBorrower, domain.UserActive)
	cashier := env.user("cashier@example.com", domain.RoleCashier, domain.UserActive)
	env.application(borrower, 5000)
	before := env.count(&models.Notification{}, "")

	svc := NewDocumentService(env.store, env.notifier())

	_, err := svc.Verify(ctx, cashier, &VerifyInput{DocumentID: 42, Kind: domain.DocumentCollateral, Status: domain.DocumentVerified})
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
	_, err = svc.Verify(ctx, cashier, &VerifyInput{DocumentID: 42, Kind: domain.DocumentIncomeProof, Status: domain.DocumentVerified})
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
	_, err = svc.Verify(ctx, cashier, &VerifyInput{DocumentID: 42, Kind: domain.DocumentIdentification, Status: domain.DocumentVerified})
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)

	_, err = svc.Verify(ctx, cashier, &VerifyInput{DocumentID: 1, Kind: "PASSPORT", Status: domain.DocumentVerified})
	assert.ErrorIs(t, err, domain.ErrInvalidDocumentKind)
	_, err = svc.Verify(ctx, cashier, &VerifyInput{DocumentID: 1, Kind: domain.DocumentCollateral, Status: domain.DocumentPending})
	assert.ErrorIs(t, err, domain.ErrInvalidDocumentStatus)

	manager := env.user("manager@example.com", domain.RoleManager, domain.UserActive)
	_, err = svc.Verify(ctx, manager, &VerifyInput{DocumentID: 1, Kind: domain.DocumentCollateral, Status: domain.DocumentVerified})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	assert.Equal(t, before, env.count(&models.Notification{}, ""))
}
