package models

import (
	"time"

	"debo-loans/internal/core/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ============================================================
// Identity
// ============================================================

// User represents users table
type User struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	Name        string            `gorm:"size:255;not null" json:"name"`
	Email       string            `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Gender      string            `gorm:"size:50;default:'Unknown'" json:"gender"`
	DateOfBirth *time.Time        `json:"date_of_birth,omitempty"`
	Status      domain.UserStatus `gorm:"size:20;default:'INACTIVE';index" json:"status"`
	Role        domain.Role       `gorm:"size:20;default:'BORROWER';index" json:"role"`
	CreatedAt   time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt    `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID          uint              `json:"id"`
	Name        string            `json:"name"`
	Email       string            `json:"email"`
	Gender      string            `json:"gender"`
	DateOfBirth *time.Time        `json:"date_of_birth,omitempty"`
	Status      domain.UserStatus `json:"status"`
	Role        domain.Role       `json:"role"`
	CreatedAt   time.Time         `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Gender:      u.Gender,
		DateOfBirth: u.DateOfBirth,
		Status:      u.Status,
		Role:        u.Role,
		CreatedAt:   u.CreatedAt,
	}
}

// UserCredential stores the password hash of a user (one-to-one)
type UserCredential struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	PassHash  string    `gorm:"size:255;not null" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (UserCredential) TableName() string {
	return "user_credentials"
}

// VerificationCode is a short-lived email verification code
type VerificationCode struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Code      string    `gorm:"size:6;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (VerificationCode) TableName() string {
	return "verification_codes"
}

// IsExpired reports whether the code is past its expiry at now
func (v *VerificationCode) IsExpired(now time.Time) bool {
	return now.After(v.ExpiresAt)
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

// IsExpired reports whether the session is past its expiry at now
func (rt *RefreshToken) IsExpired(now time.Time) bool {
	return now.After(rt.ExpiresAt)
}

// ============================================================
// Applications & documents
// ============================================================

// LoanApplication is a borrower's request for a loan
type LoanApplication struct {
	ID                  uint                     `gorm:"primaryKey" json:"id"`
	UserID              uint                     `gorm:"index;not null" json:"user_id"`
	LoanAmount          float64                  `gorm:"type:decimal(15,2);not null" json:"loan_amount"`
	LoanPurpose         string                   `gorm:"type:text;not null" json:"loan_purpose"`
	RepaymentPeriodDays int                      `gorm:"not null" json:"repayment_period_days"`
	Status              domain.ApplicationStatus `gorm:"size:20;default:'PENDING';index" json:"loan_application_status"`
	DecidedBy           *uint                    `json:"decided_by,omitempty"`
	DecidedAt           *time.Time               `json:"decided_at,omitempty"`
	CreatedAt           time.Time                `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time                `gorm:"autoUpdateTime" json:"updated_at"`
}

func (LoanApplication) TableName() string {
	return "loan_applications"
}

// BorrowerPersonalInfo holds contact details captured with an application
type BorrowerPersonalInfo struct {
	ID                uint   `gorm:"primaryKey" json:"id"`
	LoanApplicationID uint   `gorm:"uniqueIndex;not null" json:"loan_application_id"`
	PhoneNumber       string `gorm:"size:255;not null" json:"phone_number"`
	Region            string `gorm:"size:255;not null" json:"region"`
	Zone              string `gorm:"size:255;not null" json:"zone"`
	Woreda            string `gorm:"size:255;not null" json:"woreda"`
	Citizenship       string `gorm:"size:255;not null" json:"citizenship"`
}

func (BorrowerPersonalInfo) TableName() string {
	return "borrower_personal_infos"
}

// Collateral is an asset document attached to an application
type Collateral struct {
	ID                uint                  `gorm:"primaryKey" json:"id"`
	LoanApplicationID uint                  `gorm:"index;not null" json:"loan_application_id"`
	CollateralType    domain.CollateralType `gorm:"size:50;not null" json:"collateral_type"`
	Description       string                `gorm:"type:text" json:"description"`
	DocumentURL       string                `gorm:"size:500" json:"document_url"`
	Status            domain.DocumentStatus `gorm:"size:20;default:'PENDING';index" json:"status"`
	VerifiedBy        *uint                 `json:"verified_by,omitempty"`
	CreatedAt         time.Time             `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time             `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Collateral) TableName() string {
	return "collaterals"
}

// IncomeProof is an income document attached to borrower personal info
type IncomeProof struct {
	ID                     uint                  `gorm:"primaryKey" json:"id"`
	BorrowerPersonalInfoID uint                  `gorm:"index;not null" json:"borrower_personal_info_id"`
	IncomeSource           string                `gorm:"size:255;not null" json:"income_source"`
	MonthlyIncome          float64               `gorm:"type:decimal(15,2)" json:"monthly_income"`
	DocumentURL            string                `gorm:"size:500" json:"document_url"`
	Status                 domain.DocumentStatus `gorm:"size:20;default:'PENDING';index" json:"status"`
	VerifiedBy             *uint                 `json:"verified_by,omitempty"`
	CreatedAt              time.Time             `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt              time.Time             `gorm:"autoUpdateTime" json:"updated_at"`
}

func (IncomeProof) TableName() string {
	return "income_proofs"
}

// PersonalIdentificationDocument is an identity document attached to borrower personal info
type PersonalIdentificationDocument struct {
	ID                     uint                      `gorm:"primaryKey" json:"id"`
	BorrowerPersonalInfoID uint                      `gorm:"index;not null" json:"borrower_personal_info_id"`
	IdentificationType     domain.IdentificationType `gorm:"size:50;not null" json:"identification_type"`
	IdentificationNumber   string                    `gorm:"size:100;not null" json:"identification_number"`
	DocumentURL            string                    `gorm:"size:500" json:"document_url"`
	Status                 domain.DocumentStatus     `gorm:"size:20;default:'PENDING';index" json:"status"`
	VerifiedBy             *uint                     `json:"verified_by,omitempty"`
	CreatedAt              time.Time                 `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt              time.Time                 `gorm:"autoUpdateTime" json:"updated_at"`
}

func (PersonalIdentificationDocument) TableName() string {
	return "personal_identification_documents"
}

// ============================================================
// Products, loans & payments
// ============================================================

// LoanProduct is a template used to parameterise approved loans
type LoanProduct struct {
	ID                 uint                  `gorm:"primaryKey" json:"id"`
	Name               string                `gorm:"size:100" json:"name"`
	Amount             float64               `gorm:"type:decimal(15,2);not null" json:"amount"`
	InterestRate       float64               `gorm:"type:decimal(5,2);not null" json:"interest_rate"`
	RequiredCollateral domain.CollateralType `gorm:"size:50;not null" json:"required_collateral"`
	DueDateDays        int                   `gorm:"not null" json:"due_date_days"`
	CreatedAt          time.Time             `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time             `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt          gorm.DeletedAt        `gorm:"index" json:"-"`
}

func (LoanProduct) TableName() string {
	return "loan_products"
}

// Loan is an approved credit instrument derived from an application
type Loan struct {
	ID                  uint              `gorm:"primaryKey" json:"id"`
	UserID              uint              `gorm:"index;not null" json:"user_id"`
	LoanApplicationID   uint              `gorm:"uniqueIndex;not null" json:"loan_application_id"`
	LoanProductID       *uint             `gorm:"index" json:"loan_product_id,omitempty"`
	Principal           float64           `gorm:"type:decimal(15,2);not null" json:"principal"`
	Interest            float64           `gorm:"type:decimal(5,2);not null" json:"interest"`
	PaymentScheduleDays int               `gorm:"not null" json:"payment_schedule_days"`
	Status              domain.LoanStatus `gorm:"size:20;default:'ACTIVE';index" json:"status"`
	CreatedAt           time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Loan) TableName() string {
	return "loans"
}

// Payment is an amount paid against a loan
type Payment struct {
	ID            uint                 `gorm:"primaryKey" json:"id"`
	LoanID        uint                 `gorm:"index;not null" json:"loan_id"`
	Amount        float64              `gorm:"type:decimal(15,2);not null" json:"amount"`
	Status        domain.PaymentStatus `gorm:"size:20;not null" json:"status"`
	ReceiptNumber string               `gorm:"size:36;uniqueIndex;not null" json:"receipt_number"`
	RecordedBy    uint                 `gorm:"index" json:"recorded_by"`
	CreatedAt     time.Time            `gorm:"autoCreateTime" json:"created_at"`
}

func (Payment) TableName() string {
	return "payments"
}

// PaymentReceiptDocument is the proof-of-payment issued with a payment
type PaymentReceiptDocument struct {
	ID           uint               `gorm:"primaryKey" json:"id"`
	PaymentID    uint               `gorm:"uniqueIndex;not null" json:"payment_id"`
	DocumentURL  string             `gorm:"size:500;not null" json:"document_url"`
	DocumentType domain.ReceiptType `gorm:"size:50;not null" json:"document_type"`
	IsLocked     bool               `gorm:"default:false" json:"is_locked"`
	CreatedAt    time.Time          `gorm:"autoCreateTime" json:"created_at"`
}

func (PaymentReceiptDocument) TableName() string {
	return "payment_receipt_documents"
}

// BeforeUpdate blocks any change to a locked receipt
func (r *PaymentReceiptDocument) BeforeUpdate(tx *gorm.DB) error {
	return r.guardLocked(tx)
}

// BeforeDelete blocks removal of a locked receipt
func (r *PaymentReceiptDocument) BeforeDelete(tx *gorm.DB) error {
	return r.guardLocked(tx)
}

// guardLocked refuses the statement when the receiver or any row it targets
// is locked, and restricts the statement to unlocked rows.
func (r *PaymentReceiptDocument) guardLocked(tx *gorm.DB) error {
	if r.IsLocked {
		return domain.ErrReceiptLocked
	}

	where, hasWhere := tx.Statement.Clauses["WHERE"].Expression.(clause.Where)
	if !hasWhere && r.ID == 0 {
		// no conditions: gorm rejects the global statement itself
		return nil
	}

	query := tx.Session(&gorm.Session{NewDB: true}).Model(&PaymentReceiptDocument{})
	if hasWhere {
		query = query.Clauses(where)
	}
	if r.ID != 0 {
		query = query.Where("id = ?", r.ID)
	}
	var locked int64
	if err := query.Where("is_locked = ?", true).Count(&locked).Error; err != nil {
		return err
	}
	if locked > 0 {
		return domain.ErrReceiptLocked
	}

	tx.Statement.AddClause(clause.Where{Exprs: []clause.Expression{
		clause.Eq{Column: clause.Column{Table: clause.CurrentTable, Name: "is_locked"}, Value: false},
	}})
	return nil
}

// ============================================================
// Notifications
// ============================================================

// Notification is an append-only message for a user
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&UserCredential{},
		&VerificationCode{},
		&RefreshToken{},
		&LoanApplication{},
		&BorrowerPersonalInfo{},
		&Collateral{},
		&IncomeProof{},
		&PersonalIdentificationDocument{},
		&LoanProduct{},
		&Loan{},
		&Payment{},
		&PaymentReceiptDocument{},
		&Notification{},
	)
}
