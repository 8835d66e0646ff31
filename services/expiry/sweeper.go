// Package expiry runs the scheduled cleanup of expired videos.
// Listings never depend on it: expiry is always evaluated at read time.
package expiry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"videoportalapi/pkg/logger"
	"videoportalapi/repository"
	"videoportalapi/services/catalog"

	"gorm.io/gorm"
)

// Mode selects what happens to an expired video.
type Mode string

const (
	ModeDeactivate Mode = "deactivate"
	ModeDelete     Mode = "delete"
)

// ParseMode accepts "deactivate" or "delete".
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeDeactivate, ModeDelete:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown expiry sweep mode %q", s)
	}
}

// Sweeper periodically deactivates or deletes expired videos.
type Sweeper struct {
	baseRepo     repository.BaseRepository
	videoRepo    repository.VideoRepository
	feedbackRepo repository.FeedbackRepository
	broker       *catalog.Broker
	mode         Mode
	interval     time.Duration
	now          func() time.Time

	mu      sync.Mutex
	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
}

// NewSweeper creates a sweeper on the default database connection.
func NewSweeper(mode Mode, interval time.Duration, broker *catalog.Broker) *Sweeper {
	return NewSweeperWithDeps(catalog.DefaultRepos(), mode, interval, broker, time.Now)
}

func NewSweeperWithDeps(repos catalog.Repos, mode Mode, interval time.Duration, broker *catalog.Broker, now func() time.Time) *Sweeper {
	return &Sweeper{
		baseRepo:     repos.Base,
		videoRepo:    repos.Videos,
		feedbackRepo: repos.Feedback,
		broker:       broker,
		mode:         mode,
		interval:     interval,
		now:          now,
	}
}

// Start launches the sweep loop. It does nothing when the interval is zero
// or the loop is already running.
func (s *Sweeper) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.interval <= 0 || s.running {
		return
	}
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	s.running = true
	go s.loop(s.stopCh, s.doneCh)
}

// Stop ends the loop and waits for an in-flight sweep to finish.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	close(s.stopCh)
	done := s.doneCh
	s.running = false
	s.mu.Unlock()

	<-done
	logger.Infof("Expiry sweeper stopped")
}

func (s *Sweeper) loop(stopCh, doneCh chan struct{}) {
	defer close(doneCh)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	logger.Infof("Expiry sweeper started: mode=%s interval=%v", s.mode, s.interval)

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), s.interval)
			if _, err := s.SweepOnce(ctx); err != nil {
				logger.Errorf("Expiry sweep failed: %v", err)
			}
			cancel()
		}
	}
}

// SweepOnce processes every video whose expires_at is at or before now and
// returns how many rows changed.
func (s *Sweeper) SweepOnce(ctx context.Context) (int64, error) {
	now := s.now()

	var n int64
	var err error
	switch s.mode {
	case ModeDelete:
		n, err = s.deleteExpired(ctx, now)
	case ModeDeactivate:
		n, err = s.videoRepo.DeactivateExpired(ctx, nil, now)
	default:
		return 0, fmt.Errorf("unknown expiry sweep mode %q", s.mode)
	}
	if err != nil {
		return 0, err
	}

	if n > 0 {
		logger.Infof("Expiry sweep %s %d videos", s.mode, n)
		s.broker.Publish(catalog.Event{Kind: catalog.EventVideosExpired, At: now})
	} else {
		logger.Debugf("Expiry sweep found nothing to %s", s.mode)
	}
	return n, nil
}

func (s *Sweeper) deleteExpired(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	err := s.baseRepo.Transaction(ctx, func(tx *gorm.DB) error {
		ids, err := s.videoRepo.GetIDsExpired(ctx, tx, now)
		if err != nil || len(ids) == 0 {
			return err
		}
		if err := s.feedbackRepo.DeleteByVideoIDs(ctx, tx, ids); err != nil {
			return err
		}
		n, err = s.videoRepo.DeleteByIDs(ctx, tx, ids)
		return err
	})
	return n, err
}
