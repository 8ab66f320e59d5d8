package domain

import "errors"

// Common domain errors
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrDuplicateEntry = errors.New("duplicate entry")
)

// Identity errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserInactive       = errors.New("please verify your email first")
	ErrUserSuspended      = errors.New("user account is suspended")
	ErrAlreadyVerified    = errors.New("email already verified")
	ErrInvalidCode        = errors.New("invalid verification code")
	ErrCodeExpired        = errors.New("verification code has expired")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrInvalidRole        = errors.New("invalid role")
	ErrInvalidUserStatus  = errors.New("invalid user status")
	ErrCannotModifySelf   = errors.New("administrators cannot change their own account")
)

// Loan workflow errors
var (
	ErrApplicationNotFound     = errors.New("loan application not found")
	ErrApplicationDecided      = errors.New("loan application has already been decided")
	ErrInvalidDecision         = errors.New("status must be APPROVED or REJECTED")
	ErrLoanProductNotFound     = errors.New("loan product not found")
	ErrLoanNotFound            = errors.New("loan not found")
	ErrLoanNotActive           = errors.New("loan is not active")
	ErrDocumentNotFound        = errors.New("document not found")
	ErrDocumentAlreadyReviewed = errors.New("document has already been reviewed")
	ErrInvalidDocumentKind     = errors.New("document_type must be COLLATERAL, INCOME_PROOF or IDENTIFICATION")
	ErrInvalidDocumentStatus   = errors.New("status must be VERIFIED or REJECTED")
	ErrReceiptLocked           = errors.New("payment receipt is locked")
)
