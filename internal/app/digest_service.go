package app

import (
	"context"
	"fmt"
	"time"

	"grading_overview_bot/internal/domain/grading"

	"github.com/sirupsen/logrus"
)

// Notifier delivers plain text messages to a chat.
type Notifier interface {
	SendMessage(recipientChatID int64, text string) error
}

// DigestService sends the manager a summary of the grading backlog.
type DigestService struct {
	reporter          GradingReporter
	notifier          Notifier
	managerTelegramID int64
	logger            *logrus.Entry
	now               func() time.Time
}

func NewDigestService(r GradingReporter, n Notifier, managerID int64, logger *logrus.Entry) *DigestService {
	return &DigestService{
		reporter:          r,
		notifier:          n,
		managerTelegramID: managerID,
		logger:            logger,
		now:               time.Now,
	}
}

// SendDigest recomputes the counts over all lessons and sends them to the manager.
func (s *DigestService) SendDigest(ctx context.Context) error {
	if s.managerTelegramID == 0 {
		s.logger.Warn("Manager Telegram ID not configured, skipping grading digest")
		return nil
	}

	counts := s.reporter.Counts(ctx, 0)
	message := FormatDigest(counts, s.now())

	if err := s.notifier.SendMessage(s.managerTelegramID, message); err != nil {
		s.logger.WithError(err).WithField("manager_id", s.managerTelegramID).Error("Failed to send grading digest")
		return fmt.Errorf("failed to send grading digest: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"manager_id": s.managerTelegramID,
		"ungraded":   counts.Ungraded,
	}).Info("Grading digest sent")
	return nil
}

// FormatDigest renders the digest message body.
func FormatDigest(c grading.Counts, at time.Time) string {
	if c.All == 0 {
		return fmt.Sprintf("Grading digest for %s: no lesson activity yet.", at.Format("2006-01-02"))
	}
	return fmt.Sprintf(
		"Grading digest for %s\n%s: %d\n%s: %d\n%s: %d\nAll started: %d",
		at.Format("2006-01-02"),
		grading.StatusUngraded.Label(), c.Ungraded,
		grading.StatusGraded.Label(), c.Graded,
		grading.StatusInProgress.Label(), c.InProgress,
		c.All,
	)
}
