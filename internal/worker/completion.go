// Package worker runs the background jobs of the booking service.
package worker

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Completer moves elapsed approved bookings to completed.
type Completer interface {
	CompleteElapsed(ctx context.Context, now time.Time) (int, error)
}

// CompletionSweep runs Completer on a cron schedule. Runs never overlap.
type CompletionSweep struct {
	completer Completer
	timeout   time.Duration
	now       func() time.Time

	mu      sync.Mutex
	running bool
}

func NewCompletionSweep(c Completer) *CompletionSweep {
	return &CompletionSweep{completer: c, timeout: 2 * time.Minute, now: time.Now}
}

// RunOnce performs a single sweep and reports how many bookings it completed.
// A sweep already in progress makes it a no-op.
func (s *CompletionSweep) RunOnce(ctx context.Context) (int, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return 0, nil
	}
	s.running = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	n, err := s.completer.CompleteElapsed(ctx, s.now())
	log := logrus.WithField("job", "completion_sweep")
	if err != nil {
		log.WithError(err).Error("sweep failed")
		return n, err
	}
	if n > 0 {
		log.WithField("completed", n).Info("sweep completed bookings")
	}
	return n, nil
}

// Schedule registers the sweep on c. An empty spec disables it and returns
// false.
func (s *CompletionSweep) Schedule(c *cron.Cron, spec string) (bool, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return false, nil
	}
	_, err := c.AddFunc(spec, func() {
		_, _ = s.RunOnce(context.Background())
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
