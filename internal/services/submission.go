package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"storefront/internal/notify"
	"storefront/pkg/apperrors"
)

// inflight tracks which sessions have a submission awaiting the notification channel.
type inflight struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func newInflight() *inflight {
	return &inflight{keys: make(map[string]struct{})}
}

// acquire marks key as busy. The returned release must be called exactly once.
func (f *inflight) acquire(key string) (release func(), err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, busy := f.keys[key]; busy {
		return nil, apperrors.ErrSubmissionInProgress
	}
	f.keys[key] = struct{}{}
	return func() {
		f.mu.Lock()
		delete(f.keys, key)
		f.mu.Unlock()
	}, nil
}

// sender hands a notification to the channel within a deadline and converts
// any failure into a SubmissionError carrying a user-facing message.
type sender struct {
	channel notify.Channel
	timeout time.Duration
	logger  *zap.Logger
}

func (s sender) send(ctx context.Context, op, userMessage string, n notify.Notification) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.channel.Send(ctx, n); err != nil {
		s.logger.Error("notification channel rejected submission",
			zap.String("op", op),
			zap.Error(err),
		)
		return &apperrors.SubmissionError{Op: op, UserMessage: userMessage, Err: err}
	}
	return nil
}
