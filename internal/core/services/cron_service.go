package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"debo-loans/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// CronService runs periodic maintenance jobs
type CronService struct {
	store    *repositories.Store
	cron     *cron.Cron
	schedule string
	now      Clock
}

// NewCronService creates a cron service that runs the cleanup job on schedule
func NewCronService(store *repositories.Store, schedule string, now Clock) *CronService {
	if now == nil {
		now = time.Now
	}
	return &CronService{
		store:    store,
		cron:     cron.New(),
		schedule: schedule,
		now:      now,
	}
}

// Start schedules the jobs and starts the scheduler
func (s *CronService) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if _, _, err := s.Cleanup(ctx); err != nil {
			log.Printf("❌ Cleanup job failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule cleanup %q: %w", s.schedule, err)
	}

	s.cron.Start()
	log.Printf("⏰ Cron started [cleanup: %s]", s.schedule)
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *CronService) Stop() {
	<-s.cron.Stop().Done()
	log.Println("⏰ Cron stopped")
}

// Cleanup purges expired verification codes and expired or revoked refresh tokens
func (s *CronService) Cleanup(ctx context.Context) (codes int64, tokens int64, err error) {
	codes, err = s.store.VerificationCodes.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, 0, fmt.Errorf("delete expired verification codes: %w", err)
	}
	tokens, err = s.store.RefreshTokens.DeleteStale(ctx, s.now())
	if err != nil {
		return codes, 0, fmt.Errorf("delete stale refresh tokens: %w", err)
	}

	if codes > 0 || tokens > 0 {
		log.Printf("🧹 Cleanup removed %d verification codes and %d refresh tokens", codes, tokens)
	}
	return codes, tokens, nil
}
