package logging

import (
	"context"
	"log/slog"
	"time"
)

// Span times a logical unit of work, typically one aggregation query, and
// emits a completion entry with its duration.
type Span struct {
	name   string
	logger *slog.Logger
	start  time.Time
}

// StartSpan begins timing the named operation using the request-scoped
// logger from the context.
func StartSpan(ctx context.Context, name string) *Span {
	return &Span{
		name:   name,
		logger: FromContext(ctx).With(slog.String("span", name)),
		start:  time.Now(),
	}
}

// End emits the completion entry. Safe on a nil span.
func (s *Span) End() {
	if s == nil {
		return
	}
	s.logger.Debug("span completed", slog.Duration("duration", time.Since(s.start)))
}

// Fail emits a failure entry with the duration and error.
func (s *Span) Fail(err error) {
	if s == nil {
		return
	}
	s.logger.Warn("span failed", slog.Duration("duration", time.Since(s.start)), slog.Any("error", err))
}
