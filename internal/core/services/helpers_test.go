package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"debo-loans/internal/adapters/mail"
	"debo-loans/internal/adapters/messaging"
	"debo-loans/internal/adapters/persistence/models"
	"debo-loans/internal/adapters/persistence/repositories"
	"debo-loans/internal/adapters/storage"
	"debo-loans/internal/config"
	"debo-loans/internal/core/domain"
	"debo-loans/internal/pkg/password"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type testEnv struct {
	t         *testing.T
	db        *gorm.DB
	store     *repositories.Store
	cfg       *config.Config
	mailer    *mail.MemoryMailer
	publisher *messaging.RecordingPublisher
	bg        *Background

	mu  sync.Mutex
	now time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	password.Cost = bcrypt.MinCost

	db, err := config.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return &testEnv{
		t:     t,
		db:    db,
		store: repositories.NewStore(db),
		cfg: &config.Config{
			JWT: config.JWTConfig{
				Secret:           "test-access-secret",
				RefreshSecret:    "test-refresh-secret",
				AccessTokenMins:  60,
				RefreshTokenDays: 7,
			},
			Verification: config.VerificationConfig{CodeTTLMinutes: 10},
		},
		mailer:    &mail.MemoryMailer{},
		publisher: &messaging.RecordingPublisher{},
		bg:        NewBackground(5 * time.Second),
		now:       time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (e *testEnv) clock() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.now
}

func (e *testEnv) advance(d time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.now = e.now.Add(d)
}

func (e *testEnv) notifier() *NotificationService {
	return NewNotificationService(e.store, e.publisher, e.bg)
}

func (e *testEnv) user(email string, role domain.Role, status domain.UserStatus) domain.Principal {
	e.t.Helper()
	u := &models.User{Name: email, Email: email, Role: role, Status: status}
	require.NoError(e.t, e.store.Users.Create(context.Background(), u))
	return domain.Principal{UserID: u.ID, Email: u.Email, Role: u.Role}
}

func (e *testEnv) product() *models.LoanProduct {
	e.t.Helper()
	p := &models.LoanProduct{
		Name:               "Business Starter",
		Amount:             10000,
		InterestRate:       12.5,
		RequiredCollateral: domain.CollateralLandTitle,
		DueDateDays:        90,
	}
	require.NoError(e.t, e.store.LoanProducts.Create(context.Background(), p))
	return p
}

func (e *testEnv) application(borrower domain.Principal, amount float64) *ApplicationView {
	e.t.Helper()
	view, err := NewApplicationService(e.store, e.notifier()).Submit(context.Background(), borrower, &SubmitInput{
		LoanAmount:          amount,
		LoanPurpose:         "business expansion",
		RepaymentPeriodDays: 90,
		PhoneNumber:         "+251911000000",
		Region:              "Oromia",
		Zone:                "East Shewa",
		Woreda:              "Adama",
		Citizenship:         "Ethiopian",
	})
	require.NoError(e.t, err)
	return view
}

func (e *testEnv) count(model interface{}, query string, args ...interface{}) int64 {
	e.t.Helper()
	var n int64
	q := e.db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(e.t, q.Count(&n).Error)
	return n
}

// recordingReceipts keeps receipt bodies in memory and can be told to fail
type recordingReceipts struct {
	mu      sync.Mutex
	objects map[string][]byte
	removed []string
}

func newRecordingReceipts() *recordingReceipts {
	return &recordingReceipts{objects: make(map[string][]byte)}
}

func (r *recordingReceipts) Put(ctx context.Context, receiptNumber string, body []byte) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.objects[receiptNumber] = body
	return storage.ReceiptKey(receiptNumber), nil
}

func (r *recordingReceipts) Remove(ctx context.Context, receiptNumber string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.objects, receiptNumber)
	r.removed = append(r.removed, receiptNumber)
	return nil
}

func (r *recordingReceipts) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.objects)
}
