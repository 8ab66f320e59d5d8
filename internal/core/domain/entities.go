package domain

import "strings"

// Role represents user role in the system
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleManager  Role = "MANAGER"
	RoleCashier  Role = "CASHIER"
	RoleBorrower Role = "BORROWER"
)

// Roles lists every role the system knows about
var Roles = []Role{RoleAdmin, RoleManager, RoleCashier, RoleBorrower}

// ParseRole converts a raw string into a known role
func ParseRole(raw string) (Role, bool) {
	role := Role(strings.ToUpper(strings.TrimSpace(raw)))
	for _, r := range Roles {
		if r == role {
			return role, true
		}
	}
	return "", false
}

// UserStatus represents the lifecycle state of an account
type UserStatus string

const (
	UserInactive  UserStatus = "INACTIVE"
	UserActive    UserStatus = "ACTIVE"
	UserSuspended UserStatus = "SUSPENDED"
)

// ApplicationStatus represents the review state of a loan application
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "PENDING"
	ApplicationApproved ApplicationStatus = "APPROVED"
	ApplicationRejected ApplicationStatus = "REJECTED"
)

// IsDecision reports whether s is a valid target of the review workflow
func (s ApplicationStatus) IsDecision() bool {
	return s == ApplicationApproved || s == ApplicationRejected
}

// DocumentStatus represents the verification state of a supporting document
type DocumentStatus string

const (
	DocumentPending  DocumentStatus = "PENDING"
	DocumentVerified DocumentStatus = "VERIFIED"
	DocumentRejected DocumentStatus = "REJECTED"
)

// IsDecision reports whether s is a valid verification outcome
func (s DocumentStatus) IsDecision() bool {
	return s == DocumentVerified || s == DocumentRejected
}

// DocumentKind selects which document table a verification targets
type DocumentKind string

const (
	DocumentCollateral     DocumentKind = "COLLATERAL"
	DocumentIncomeProof    DocumentKind = "INCOME_PROOF"
	DocumentIdentification DocumentKind = "IDENTIFICATION"
)

// IdentificationType is the kind of personal identity document
type IdentificationType string

const (
	IdentificationNationalID     IdentificationType = "NATIONAL_ID"
	IdentificationKebeleID       IdentificationType = "KEBELE_ID"
	IdentificationPassport       IdentificationType = "PASSPORT"
	IdentificationDrivingLicense IdentificationType = "DRIVING_LICENSE"
)

// CollateralType is the kind of asset backing a loan
type CollateralType string

const (
	CollateralLandTitle   CollateralType = "LAND_TITLE_CERTIFICATE"
	CollateralCarOwner    CollateralType = "CAR_OWNERSHIP_DOCUMENT"
	CollateralIncomeProof CollateralType = "INCOME_PROOF"
)

// LoanStatus represents the state of a disbursed loan
type LoanStatus string

const (
	LoanActive       LoanStatus = "ACTIVE"
	LoanClosed       LoanStatus = "CLOSED"
	LoanDiscontinued LoanStatus = "DISCONTINUED"
)

// PaymentStatus represents the state of a recorded payment.
// Payments are currently always VERIFIED at creation.
type PaymentStatus string

const (
	PaymentVerified PaymentStatus = "VERIFIED"
)

// ReceiptType is the kind of proof attached to a payment
type ReceiptType string

const (
	ReceiptMobilePayment ReceiptType = "MOBILE_PAYMENT_RECEIPT"
	ReceiptBankPayment   ReceiptType = "BANK_PAYMENT_RECEIPT"
)

// Principal is the authenticated caller of a request
type Principal struct {
	UserID uint
	Email  string
	Role   Role
}

// SeesAll reports whether the principal's read models are unfiltered
func (p Principal) SeesAll() bool {
	return Can(p.Role, ActionViewAllRecords)
}
