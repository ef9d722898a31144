package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const digestJobTimeout = 2 * time.Minute

// DigestSender is the job the scheduler triggers.
type DigestSender interface {
	SendDigest(ctx context.Context) error
}

type DigestScheduler struct {
	cronEngine *cron.Cron
	digest     DigestSender
	logger     *logrus.Entry
	cronSpec   string // e.g. "0 9 * * 1-5" (9 AM on weekdays)
}

func NewDigestScheduler(digest DigestSender, logger *logrus.Entry, cronSpec string) *DigestScheduler {
	return &DigestScheduler{
		cronEngine: cron.New(cron.WithLocation(time.Local)), // server's local time
		digest:     digest,
		logger:     logger,
		cronSpec:   cronSpec,
	}
}

// Start registers the digest job and starts the cron engine.
func (s *DigestScheduler) Start() error {
	s.logger.WithField("cron_spec", s.cronSpec).Info("Starting grading digest scheduler")

	if _, err := s.cronEngine.AddFunc(s.cronSpec, s.runDigest); err != nil {
		return fmt.Errorf("could not add grading digest cron job: %w", err)
	}

	s.cronEngine.Start()
	s.logger.Info("Grading digest scheduler started")
	return nil
}

func (s *DigestScheduler) runDigest() {
	s.logger.Info("Cron job triggered for grading digest")
	ctx, cancel := context.WithTimeout(context.Background(), digestJobTimeout)
	defer cancel()
	if err := s.digest.SendDigest(ctx); err != nil {
		s.logger.WithError(err).Error("Error during grading digest")
	}
}

func (s *DigestScheduler) Stop() {
	s.logger.Info("Stopping grading digest scheduler...")
	ctx := s.cronEngine.Stop() // waits for running jobs
	<-ctx.Done()
	s.logger.Info("Grading digest scheduler gracefully stopped")
}
