package services

import (
	"context"
	"log"
	"sync"
	"time"
)

// Background runs fire-and-forget jobs after a request has been answered.
// Jobs never see the request context; each gets its own timeout.
type Background struct {
	wg      sync.WaitGroup
	timeout time.Duration
}

// NewBackground creates a runner whose jobs time out after timeout
func NewBackground(timeout time.Duration) *Background {
	return &Background{timeout: timeout}
}

// Go runs fn in its own goroutine and logs its error
func (b *Background) Go(name string, fn func(ctx context.Context) error) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.Printf("❌ %s panicked: %v", name, r)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			log.Printf("❌ %s failed: %v", name, err)
		}
	}()
}

// Wait blocks until every started job has finished
func (b *Background) Wait() {
	b.wg.Wait()
}
