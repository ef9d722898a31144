package scheduler

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
)

type countingSender struct {
	calls int
	err   error
}

func (s *countingSender) SendDigest(ctx context.Context) error {
	s.calls++
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("digest job must run with a deadline")
	}
	return s.err
}

func quietLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func TestDigestScheduler_Start(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		wantErr bool
	}{
		{"weekday mornings", "0 9 * * 1-5", false},
		{"every minute", "* * * * *", false},
		{"malformed", "every monday", true},
		{"seconds field not accepted", "0 0 9 * * 1-5", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewDigestScheduler(&countingSender{}, quietLogger(), tt.spec)
			err := s.Start()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Start error = %v, wantErr %v", err, tt.wantErr)
			}
			s.Stop()
		})
	}
}

func TestDigestScheduler_RunDigest(t *testing.T) {
	sender := &countingSender{err: errors.New("telegram down")}
	s := NewDigestScheduler(sender, quietLogger(), "0 9 * * 1-5")

	s.runDigest()
	s.runDigest()

	if sender.calls != 2 {
		t.Errorf("expected 2 digest runs, got %d", sender.calls)
	}
}
