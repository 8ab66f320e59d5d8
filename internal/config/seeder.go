package config

import (
	"log"

	"debo-loans/internal/adapters/persistence/models"
	"debo-loans/internal/core/domain"
	"debo-loans/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedAdminUser(); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}
	if err := s.seedLoanProducts(); err != nil {
		log.Printf("⚠️ Loan product seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedAdminUser creates the first admin account when none exists.
// In production, set ADMIN_EMAIL and ADMIN_PASSWORD.
func (s *Seeder) seedAdminUser() error {
	var count int64
	if err := s.db.Model(&models.User{}).Where("role = ?", domain.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashedPassword, err := password.Hash(getEnv("ADMIN_PASSWORD", "admin123456"))
	if err != nil {
		return err
	}

	admin := &models.User{
		Name:   "Administrator",
		Email:  getEnv("ADMIN_EMAIL", "admin@debo.local"),
		Status: domain.UserActive,
		Role:   domain.RoleAdmin,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(admin).Error; err != nil {
			return err
		}
		return tx.Create(&models.UserCredential{UserID: admin.ID, PassHash: hashedPassword}).Error
	})
	if err != nil {
		return err
	}

	log.Printf("✅ Admin user created: %s", admin.Email)
	return nil
}

// seedLoanProducts inserts the default product catalogue on an empty table
func (s *Seeder) seedLoanProducts() error {
	var count int64
	if err := s.db.Model(&models.LoanProduct{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	products := []models.LoanProduct{
		{Name: "Small Business", Amount: 10000, InterestRate: 12, RequiredCollateral: domain.CollateralIncomeProof, DueDateDays: 90},
		{Name: "Vehicle", Amount: 250000, InterestRate: 14, RequiredCollateral: domain.CollateralCarOwner, DueDateDays: 365},
		{Name: "Housing", Amount: 1000000, InterestRate: 9.5, RequiredCollateral: domain.CollateralLandTitle, DueDateDays: 1825},
	}
	if err := s.db.Create(&products).Error; err != nil {
		return err
	}

	log.Printf("✅ Seeded %d loan products", len(products))
	return nil
}
